package chaincode

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/aximobility/mobility-ledger/shared/chaincode"
)

// IdentityContract implements the chaincode interface for the DID registry
type IdentityContract struct {
	chaincode.BaseContract
}

// NewIdentityContract creates a new identity registry contract
func NewIdentityContract() *IdentityContract {
	return &IdentityContract{
		BaseContract: chaincode.BaseContract{Name: "identity"},
	}
}

// Invoke handles chaincode invocations
func (cc *IdentityContract) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	router := NewRouter()
	return cc.InvokeWithRouter(stub, router)
}
