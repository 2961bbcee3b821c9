package chaincode

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/aximobility/mobility-ledger/shared/chaincode"
)

// AssetContract implements the chaincode interface for the vehicle and sensor
// registry
type AssetContract struct {
	chaincode.BaseContract
}

// NewAssetContract creates a new asset registry contract
func NewAssetContract() *AssetContract {
	return &AssetContract{
		BaseContract: chaincode.BaseContract{Name: "asset"},
	}
}

// Invoke handles chaincode invocations
func (cc *AssetContract) Invoke(stub shim.ChaincodeStubInterface) peer.Response {
	router := NewRouter()
	return cc.InvokeWithRouter(stub, router)
}
