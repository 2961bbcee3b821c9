package chaincode

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/aximobility/mobility-ledger/shared/chaincode"
)

// TelemetryContract implements the chaincode interface for telemetry ingestion
type TelemetryContract struct {
	chaincode.BaseContract
}

// NewTelemetryContract creates a new telemetry processor contract
func NewTelemetryContract() *TelemetryContract {
	return &TelemetryContract{
		BaseContract: chaincode.BaseContract{Name: "telemetry"},
	}
}

// Invoke handles chaincode invocations
func (cc *TelemetryContract) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	router := NewRouter()
	return cc.InvokeWithRouter(stub, router)
}
