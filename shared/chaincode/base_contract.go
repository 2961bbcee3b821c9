package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-protos-go/peer"

	"github.com/aximobility/mobility-ledger/shared/config"
)

// BaseContract provides common chaincode functionality
type BaseContract struct {
	Name string
}

// Init initializes the chaincode. The administrator principal is an explicit
// instantiation argument; it is stored once and never overwritten on upgrade.
func (bc *BaseContract) Init(stub shim.ChaincodeStubInterface) peer.Response {
	_, args := stub.GetFunctionAndParameters()
	if len(args) > 0 && args[0] != "" {
		existing, err := stub.GetState(config.RegistryAdminKey)
		if err != nil {
			return shim.Error(fmt.Sprintf("failed to read registry admin: %v", err))
		}
		if existing == nil {
			if err := stub.PutState(config.RegistryAdminKey, []byte(args[0])); err != nil {
				return shim.Error(fmt.Sprintf("failed to store registry admin: %v", err))
			}
		}
	}
	return shim.Success(nil)
}

// Router interface that all chaincodes must implement
type Router interface {
	Route(stub shim.ChaincodeStubInterface, function string, args []string) ([]byte, error)
}

// InvokeWithRouter handles chaincode invocations using a router
func (bc *BaseContract) InvokeWithRouter(stub shim.ChaincodeStubInterface, router Router) peer.Response {
	function, args := stub.GetFunctionAndParameters()

	response, err := router.Route(stub, function, args)
	if err != nil {
		return shim.Error(fmt.Sprintf("Error invoking function %s: %v", function, err))
	}

	return shim.Success(response)
}

// AdminPrincipal returns the administrator principal stored at instantiation.
func AdminPrincipal(stub shim.ChaincodeStubInterface) (string, error) {
	data, err := stub.GetState(config.RegistryAdminKey)
	if err != nil {
		return "", fmt.Errorf("failed to read registry admin: %v", err)
	}
	if data == nil {
		return "", fmt.Errorf("registry admin not configured")
	}
	return string(data), nil
}

// IsAdmin reports whether the caller is the registry administrator. An
// unconfigured admin matches nobody.
func IsAdmin(stub shim.ChaincodeStubInterface, caller string) bool {
	admin, err := AdminPrincipal(stub)
	if err != nil {
		return false
	}
	return caller != "" && caller == admin
}
