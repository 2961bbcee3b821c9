package services

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/interfaces"
)

// PersistenceService provides JSON persistence over ledger state.
type PersistenceService struct{}

var _ interfaces.PersistenceService = (*PersistenceService)(nil)

// NewPersistenceService creates a new persistence service
func NewPersistenceService() *PersistenceService {
	return &PersistenceService{}
}

// Get retrieves and unmarshals data from the ledger. Missing keys are an error.
func (ps *PersistenceService) Get(stub shim.ChaincodeStubInterface, key string, result interface{}) error {
	data, err := stub.GetState(key)
	if err != nil {
		return fmt.Errorf("failed to get state for key %s: %v", key, err)
	}
	if data == nil {
		return fmt.Errorf("no data found for key %s", key)
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("failed to unmarshal data for key %s: %v", key, err)
	}

	return nil
}

// GetOrDefault retrieves and unmarshals data from the ledger, reporting whether
// the key was present. A missing key leaves result untouched; an absent entry
// reads the same as the caller's preset default.
func (ps *PersistenceService) GetOrDefault(stub shim.ChaincodeStubInterface, key string, result interface{}) (bool, error) {
	data, err := stub.GetState(key)
	if err != nil {
		return false, fmt.Errorf("failed to get state for key %s: %v", key, err)
	}
	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, result); err != nil {
		return false, fmt.Errorf("failed to unmarshal data for key %s: %v", key, err)
	}

	return true, nil
}

// Put marshals and stores data to the ledger
func (ps *PersistenceService) Put(stub shim.ChaincodeStubInterface, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal data for key %s: %v", key, err)
	}

	if err := stub.PutState(key, data); err != nil {
		return fmt.Errorf("failed to put state for key %s: %v", key, err)
	}

	return nil
}

// Delete removes data from the ledger
func (ps *PersistenceService) Delete(stub shim.ChaincodeStubInterface, key string) error {
	if err := stub.DelState(key); err != nil {
		return fmt.Errorf("failed to delete state for key %s: %v", key, err)
	}
	return nil
}

// Exists checks if a key exists in the ledger
func (ps *PersistenceService) Exists(stub shim.ChaincodeStubInterface, key string) (bool, error) {
	data, err := stub.GetState(key)
	if err != nil {
		return false, fmt.Errorf("failed to check existence for key %s: %v", key, err)
	}
	return data != nil, nil
}
