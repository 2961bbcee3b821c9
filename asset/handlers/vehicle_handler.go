package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/domain"
	assetServices "github.com/aximobility/mobility-ledger/asset/services"
	"github.com/aximobility/mobility-ledger/shared/chaincode"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

// VehicleHandler handles vehicle lifecycle operations
type VehicleHandler struct {
	persistenceService *services.PersistenceService
	eventService       *assetServices.EventService
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler() *VehicleHandler {
	return &VehicleHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       assetServices.NewEventService(),
	}
}

// RegisterVehicle registers a new vehicle owned by the caller. Vehicle id,
// VIN and license plate are each globally unique.
func (h *VehicleHandler) RegisterVehicle(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.RegisterVehicleRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse vehicle registration: %v", err)
	}

	// Uniqueness is checked before field validation so that a resubmission of
	// an existing vehicle reports the conflict, not a shape error.
	vehicleKey := config.VehiclePrefix + req.VehicleID
	if exists, err := h.persistenceService.Exists(stub, vehicleKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("vehicle %s already registered", req.VehicleID)
	}

	vinKey := config.VINIndexPrefix + req.VIN
	if exists, err := h.persistenceService.Exists(stub, vinKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("VIN %s already registered", req.VIN)
	}

	plateKey := config.PlateIndexPrefix + req.LicensePlate
	if exists, err := h.persistenceService.Exists(stub, plateKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("license plate %s already registered", req.LicensePlate)
	}

	if err := domain.ValidateRegisterVehicleRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicle := &domain.Vehicle{
		ID:              req.VehicleID,
		DIDIdentifier:   req.DIDIdentifier,
		Owner:           req.Caller,
		VIN:             req.VIN,
		Make:            req.Make,
		Model:           req.Model,
		Year:            req.Year,
		LicensePlate:    req.LicensePlate,
		EngineType:      validation.EngineType(req.EngineType),
		BatteryCapacity: req.BatteryCapacity,
		Status:          validation.VehicleStatusActive,
		RegisteredAt:    seconds,
		LastUpdated:     seconds,
		Mileage:         0,
	}

	if err := h.persistenceService.Put(stub, vehicleKey, vehicle); err != nil {
		return nil, fmt.Errorf("failed to store vehicle: %v", err)
	}
	if err := stub.PutState(vinKey, []byte(req.VehicleID)); err != nil {
		return nil, fmt.Errorf("failed to create VIN index: %v", err)
	}
	if err := stub.PutState(plateKey, []byte(req.VehicleID)); err != nil {
		return nil, fmt.Errorf("failed to create license plate index: %v", err)
	}
	if err := appendToIndex(h.persistenceService, stub, config.OwnerVehiclesPrefix+req.Caller, req.VehicleID); err != nil {
		return nil, err
	}

	stats, err := loadRegistryStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	stats.TotalVehicles = utils.AddUint32Sat(stats.TotalVehicles, 1)
	stats.ActiveVehicles = utils.AddUint32Sat(stats.ActiveVehicles, 1)
	if vehicle.EngineType == validation.EngineTypeElectric {
		stats.ElectricVehicles = utils.AddUint32Sat(stats.ElectricVehicles, 1)
	}
	if err := saveRegistryStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitVehicleRegistered(stub, vehicle); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(vehicle)
}

// UpdateVehicleStatus moves a vehicle to a new status. The active-vehicle
// counter changes by one only when the transition enters or leaves ACTIVE.
func (h *VehicleHandler) UpdateVehicleStatus(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.UpdateVehicleStatusRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse status update request: %v", err)
	}

	if err := validation.ValidateVehicleStatus(req.NewStatus); err != nil {
		return nil, err
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := requireManageAccess(stub, vehicle, req.Caller); err != nil {
		return nil, err
	}

	oldStatus := vehicle.Status
	newStatus := validation.VehicleStatus(req.NewStatus)

	if err := validation.ValidateVehicleStatusTransition(oldStatus, newStatus); err != nil {
		return nil, err
	}

	stats, err := loadRegistryStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	if oldStatus == validation.VehicleStatusActive && newStatus != validation.VehicleStatusActive {
		stats.ActiveVehicles = utils.SubUint32Sat(stats.ActiveVehicles, 1)
	} else if oldStatus != validation.VehicleStatusActive && newStatus == validation.VehicleStatusActive {
		stats.ActiveVehicles = utils.AddUint32Sat(stats.ActiveVehicles, 1)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicle.Status = newStatus
	vehicle.LastUpdated = seconds

	if err := h.persistenceService.Put(stub, config.VehiclePrefix+vehicle.ID, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %v", err)
	}
	if err := saveRegistryStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitVehicleStatusChanged(stub, vehicle, string(oldStatus), string(newStatus), req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(vehicle)
}

// UpdateLocation overwrites the stored location unconditionally and emits a
// notification on every call.
func (h *VehicleHandler) UpdateLocation(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.UpdateLocationRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse location update request: %v", err)
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := requireManageAccess(stub, vehicle, req.Caller); err != nil {
		return nil, err
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicle.Location = &domain.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timestamp: seconds,
	}
	vehicle.LastUpdated = seconds

	if err := h.persistenceService.Put(stub, config.VehiclePrefix+vehicle.ID, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %v", err)
	}

	if err := h.eventService.EmitLocationUpdated(stub, vehicle, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(vehicle)
}

// UpdateMileage records a new odometer reading. Mileage is monotonic
// non-decreasing.
func (h *VehicleHandler) UpdateMileage(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.UpdateMileageRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse mileage update request: %v", err)
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := requireManageAccess(stub, vehicle, req.Caller); err != nil {
		return nil, err
	}

	if req.Mileage < vehicle.Mileage {
		return nil, fmt.Errorf("mileage %d is less than recorded mileage %d", req.Mileage, vehicle.Mileage)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicle.Mileage = req.Mileage
	vehicle.LastUpdated = seconds

	if err := h.persistenceService.Put(stub, config.VehiclePrefix+vehicle.ID, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %v", err)
	}

	return json.Marshal(vehicle)
}

// GetVehicle retrieves a vehicle by id.
func (h *VehicleHandler) GetVehicle(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, args[0])
	if err != nil {
		return nil, err
	}

	return json.Marshal(vehicle)
}

// GetVehicleByVIN retrieves a vehicle through the VIN index.
func (h *VehicleHandler) GetVehicleByVIN(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	return h.getVehicleByIndex(stub, config.VINIndexPrefix+args[0], "VIN "+args[0])
}

// GetVehicleByPlate retrieves a vehicle through the license plate index.
func (h *VehicleHandler) GetVehicleByPlate(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	return h.getVehicleByIndex(stub, config.PlateIndexPrefix+args[0], "license plate "+args[0])
}

// GetOwnerVehicles lists the vehicle ids registered to an owner.
func (h *VehicleHandler) GetOwnerVehicles(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	return h.getIndexList(stub, config.OwnerVehiclesPrefix+args[0])
}

// GetOperatorVehicles lists the vehicle ids assigned to an operator.
func (h *VehicleHandler) GetOperatorVehicles(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	return h.getIndexList(stub, config.OperatorVehiclesPrefix+args[0])
}

// GetRegistryStats returns the aggregate registry counters.
func (h *VehicleHandler) GetRegistryStats(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	stats, err := loadRegistryStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}

	return json.Marshal(stats)
}

// IsVehicleActive reports whether a vehicle exists and is ACTIVE.
func (h *VehicleHandler) IsVehicleActive(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var vehicle domain.Vehicle
	found, err := h.persistenceService.GetOrDefault(stub, config.VehiclePrefix+args[0], &vehicle)
	if err != nil {
		return nil, err
	}

	return json.Marshal(found && vehicle.Status == validation.VehicleStatusActive)
}

// GetRegistryAdmin returns the administrator principal configured at
// instantiation.
func (h *VehicleHandler) GetRegistryAdmin(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	admin, err := chaincode.AdminPrincipal(stub)
	if err != nil {
		return nil, err
	}
	return json.Marshal(admin)
}

// Helper methods

func (h *VehicleHandler) getVehicleByIndex(stub shim.ChaincodeStubInterface, indexKey, description string) ([]byte, error) {
	data, err := stub.GetState(indexKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %v", err)
	}
	if data == nil {
		return nil, fmt.Errorf("no vehicle registered for %s", description)
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, string(data))
	if err != nil {
		return nil, err
	}

	return json.Marshal(vehicle)
}

func (h *VehicleHandler) getIndexList(stub shim.ChaincodeStubInterface, key string) ([]byte, error) {
	list := []string{}
	if _, err := h.persistenceService.GetOrDefault(stub, key, &list); err != nil {
		return nil, err
	}
	return json.Marshal(list)
}
