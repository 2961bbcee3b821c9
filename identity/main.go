package main

import (
	"log"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/identity/chaincode"
)

func main() {
	if err := shim.Start(chaincode.NewIdentityContract()); err != nil {
		log.Fatalf("Error starting identity registry chaincode: %v", err)
	}
}
