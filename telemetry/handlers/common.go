package handlers

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/telemetry/domain"
)

func loadProcessingStats(ps *services.PersistenceService, stub shim.ChaincodeStubInterface) (*domain.ProcessingStats, error) {
	var stats domain.ProcessingStats
	if _, err := ps.GetOrDefault(stub, config.ProcessingStatsKey, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func saveProcessingStats(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, stats *domain.ProcessingStats) error {
	if err := ps.Put(stub, config.ProcessingStatsKey, stats); err != nil {
		return fmt.Errorf("failed to update processing stats: %v", err)
	}
	return nil
}

// isProcessingEnabled treats a missing flag as enabled, matching the initial
// state of a fresh deployment.
func isProcessingEnabled(ps *services.PersistenceService, stub shim.ChaincodeStubInterface) (bool, error) {
	enabled := true
	if _, err := ps.GetOrDefault(stub, config.ProcessingEnabledKey, &enabled); err != nil {
		return false, err
	}
	return enabled, nil
}

// isVehicleAuthorized treats a missing allow-list entry as not authorized.
// Deauthorization writes false rather than deleting, both read the same.
func isVehicleAuthorized(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, vehicleHash string) (bool, error) {
	authorized := false
	if _, err := ps.GetOrDefault(stub, config.VehicleAuthPrefix+vehicleHash, &authorized); err != nil {
		return false, err
	}
	return authorized, nil
}

func incrementVehicleCounter(ps *services.PersistenceService, stub shim.ChaincodeStubInterface, vehicleHash string) error {
	var counter uint32
	if _, err := ps.GetOrDefault(stub, config.VehicleCounterPrefix+vehicleHash, &counter); err != nil {
		return err
	}
	counter = utils.AddUint32Sat(counter, 1)
	if err := ps.Put(stub, config.VehicleCounterPrefix+vehicleHash, counter); err != nil {
		return fmt.Errorf("failed to update vehicle counter: %v", err)
	}
	return nil
}
