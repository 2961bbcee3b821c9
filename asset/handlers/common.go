package handlers

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/domain"
	"github.com/aximobility/mobility-ledger/shared/chaincode"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
)

// Index lists are ordered JSON arrays: O(1) append, O(k) removal, never a
// full-table scan.

func appendToIndex(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, key, value string) error {
	list := []string{}
	if _, err := ps.GetOrDefault(stub, key, &list); err != nil {
		return err
	}
	list = append(list, value)
	if err := ps.Put(stub, key, list); err != nil {
		return fmt.Errorf("failed to update index %s: %v", key, err)
	}
	return nil
}

func removeFromIndex(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, key, value string) error {
	list := []string{}
	if _, err := ps.GetOrDefault(stub, key, &list); err != nil {
		return err
	}
	filtered := list[:0]
	for _, v := range list {
		if v != value {
			filtered = append(filtered, v)
		}
	}
	if err := ps.Put(stub, key, filtered); err != nil {
		return fmt.Errorf("failed to update index %s: %v", key, err)
	}
	return nil
}

func loadRegistryStats(ps *services.PersistenceService, stub shim.ChaincodeStubInterface) (*domain.RegistryStats, error) {
	var stats domain.RegistryStats
	if _, err := ps.GetOrDefault(stub, config.RegistryStatsKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func saveRegistryStats(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, stats *domain.RegistryStats) error {
	if err := ps.Put(stub, config.RegistryStatsKey, stats); err != nil {
		return fmt.Errorf("failed to update registry stats: %v", err)
	}
	return nil
}

func loadVehicle(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, vehicleID string) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	if err := ps.Get(stub, config.VehiclePrefix+vehicleID, &vehicle); err != nil {
		return nil, fmt.Errorf("vehicle %s not found", vehicleID)
	}
	return &vehicle, nil
}

// requireManageAccess rejects callers that are neither the owner, the assigned
// operator, nor the registry administrator.
func requireManageAccess(stub shim.ChaincodeStubInterface, vehicle *domain.Vehicle, caller string) error {
	if vehicle.CanManage(caller) || chaincode.IsAdmin(stub, caller) {
		return nil
	}
	return fmt.Errorf("caller %s is not authorized to manage vehicle %s", caller, vehicle.ID)
}
