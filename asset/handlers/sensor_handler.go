package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/domain"
	assetServices "github.com/aximobility/mobility-ledger/asset/services"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

// SensorHandler handles sensor lifecycle operations
type SensorHandler struct {
	persistenceService *services.PersistenceService
	eventService       *assetServices.EventService
}

// NewSensorHandler creates a new sensor handler
func NewSensorHandler() *SensorHandler {
	return &SensorHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       assetServices.NewEventService(),
	}
}

// RegisterSensor registers a new sensor on an existing vehicle. Only the
// vehicle's owner, its assigned operator, or the registry administrator may
// attach sensors.
func (h *SensorHandler) RegisterSensor(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.RegisterSensorRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse sensor registration: %v", err)
	}

	if err := domain.ValidateRegisterSensorRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := requireManageAccess(stub, vehicle, req.Caller); err != nil {
		return nil, err
	}

	sensorKey := config.SensorPrefix + req.SensorID
	if exists, err := h.persistenceService.Exists(stub, sensorKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("sensor %s already registered", req.SensorID)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	sensor := &domain.Sensor{
		ID:             req.SensorID,
		DIDIdentifier:  req.DIDIdentifier,
		VehicleID:      req.VehicleID,
		SensorType:     validation.SensorType(req.SensorType),
		Manufacturer:   req.Manufacturer,
		Model:          req.Model,
		Status:         validation.SensorStatusActive,
		InstalledAt:    seconds,
		LastCalibrated: seconds,
		Accuracy:       req.Accuracy,
	}

	if err := h.persistenceService.Put(stub, sensorKey, sensor); err != nil {
		return nil, fmt.Errorf("failed to store sensor: %v", err)
	}
	if err := appendToIndex(h.persistenceService, stub, config.VehicleSensorsPrefix+req.VehicleID, req.SensorID); err != nil {
		return nil, err
	}

	stats, err := loadRegistryStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	stats.TotalSensors = utils.AddUint32Sat(stats.TotalSensors, 1)
	stats.ActiveSensors = utils.AddUint32Sat(stats.ActiveSensors, 1)
	if err := saveRegistryStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitSensorRegistered(stub, sensor, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(sensor)
}

// UpdateSensorStatus moves a sensor to a new status. The active-sensor counter
// follows the same delta rule as vehicles, and finishing a calibration
// refreshes the lastCalibrated timestamp.
func (h *SensorHandler) UpdateSensorStatus(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.UpdateSensorStatusRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse status update request: %v", err)
	}

	if err := validation.ValidateSensorStatus(req.NewStatus); err != nil {
		return nil, err
	}

	var sensor domain.Sensor
	if err := h.persistenceService.Get(stub, config.SensorPrefix+req.SensorID, &sensor); err != nil {
		return nil, fmt.Errorf("sensor %s not found", req.SensorID)
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, sensor.VehicleID)
	if err != nil {
		return nil, err
	}

	if err := requireManageAccess(stub, vehicle, req.Caller); err != nil {
		return nil, err
	}

	oldStatus := sensor.Status
	newStatus := validation.SensorStatus(req.NewStatus)

	stats, err := loadRegistryStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	if oldStatus == validation.SensorStatusActive && newStatus != validation.SensorStatusActive {
		stats.ActiveSensors = utils.SubUint32Sat(stats.ActiveSensors, 1)
	} else if oldStatus != validation.SensorStatusActive && newStatus == validation.SensorStatusActive {
		stats.ActiveSensors = utils.AddUint32Sat(stats.ActiveSensors, 1)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	sensor.Status = newStatus
	if oldStatus == validation.SensorStatusCalibrating && newStatus == validation.SensorStatusActive {
		sensor.LastCalibrated = seconds
	}

	if err := h.persistenceService.Put(stub, config.SensorPrefix+sensor.ID, &sensor); err != nil {
		return nil, fmt.Errorf("failed to update sensor: %v", err)
	}
	if err := saveRegistryStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitSensorStatusChanged(stub, &sensor, string(oldStatus), string(newStatus), req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(&sensor)
}

// GetSensor retrieves a sensor by id.
func (h *SensorHandler) GetSensor(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var sensor domain.Sensor
	if err := h.persistenceService.Get(stub, config.SensorPrefix+args[0], &sensor); err != nil {
		return nil, fmt.Errorf("sensor %s not found", args[0])
	}

	return json.Marshal(&sensor)
}

// GetVehicleSensors lists the sensor ids installed on a vehicle.
func (h *SensorHandler) GetVehicleSensors(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	list := []string{}
	if _, err := h.persistenceService.GetOrDefault(stub, config.VehicleSensorsPrefix+args[0], &list); err != nil {
		return nil, err
	}

	return json.Marshal(list)
}
