package interfaces

import "github.com/hyperledger/fabric-chaincode-go/shim"

// PersistenceService defines common persistence operations over ledger state.
type PersistenceService interface {
	Get(stub shim.ChaincodeStubInterface, key string, result interface{}) error
	GetOrDefault(stub shim.ChaincodeStubInterface, key string, result interface{}) (bool, error)
	Put(stub shim.ChaincodeStubInterface, key string, value interface{}) error
	Delete(stub shim.ChaincodeStubInterface, key string) error
	Exists(stub shim.ChaincodeStubInterface, key string) (bool, error)
}
