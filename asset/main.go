package main

import (
	"log"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/chaincode"
)

func main() {
	if err := shim.Start(chaincode.NewAssetContract()); err != nil {
		log.Fatalf("Error starting asset registry chaincode: %v", err)
	}
}
