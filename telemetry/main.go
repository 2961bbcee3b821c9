package main

import (
	"log"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/telemetry/chaincode"
)

func main() {
	if err := shim.Start(chaincode.NewTelemetryContract()); err != nil {
		log.Fatalf("Error starting telemetry processor chaincode: %v", err)
	}
}
