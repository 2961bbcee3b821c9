package domain

import (
	"github.com/aximobility/mobility-ledger/shared/validation"
)

// Vehicle is the on-ledger vehicle record.
type Vehicle struct {
	ID              string                   `json:"id"`
	DIDIdentifier   string                   `json:"didIdentifier"`
	Owner           string                   `json:"owner"`
	Operator        string                   `json:"operator,omitempty"`
	VIN             string                   `json:"vin"`
	Make            string                   `json:"make"`
	Model           string                   `json:"model"`
	Year            uint16                   `json:"year"`
	LicensePlate    string                   `json:"licensePlate"`
	EngineType      validation.EngineType    `json:"engineType"`
	BatteryCapacity *uint32                  `json:"batteryCapacity,omitempty"`
	Status          validation.VehicleStatus `json:"status"`
	RegisteredAt    int64                    `json:"registeredAt"`
	LastUpdated     int64                    `json:"lastUpdated"`
	Mileage         uint32                   `json:"mileage"`
	Location        *Location                `json:"location,omitempty"`
}

// Location is a fixed-point geographic position. Coordinates are scaled by
// 1,000,000; no floating point is stored.
type Location struct {
	Latitude  int32 `json:"latitude"`
	Longitude int32 `json:"longitude"`
	Timestamp int64 `json:"timestamp"`
}

// Sensor is the on-ledger sensor record, always attached to a vehicle.
type Sensor struct {
	ID             string                  `json:"id"`
	DIDIdentifier  string                  `json:"didIdentifier"`
	VehicleID      string                  `json:"vehicleID"`
	SensorType     validation.SensorType   `json:"sensorType"`
	Manufacturer   string                  `json:"manufacturer"`
	Model          string                  `json:"model"`
	Status         validation.SensorStatus `json:"status"`
	InstalledAt    int64                   `json:"installedAt"`
	LastCalibrated int64                   `json:"lastCalibrated"`
	Accuracy       string                  `json:"accuracy"`
}

// RegistryStats is the aggregate statistics record for the asset registry.
// Every counter is maintained by applying exactly one delta per mutating call.
type RegistryStats struct {
	TotalVehicles    uint32 `json:"totalVehicles"`
	ActiveVehicles   uint32 `json:"activeVehicles"`
	TotalSensors     uint32 `json:"totalSensors"`
	ActiveSensors    uint32 `json:"activeSensors"`
	ElectricVehicles uint32 `json:"electricVehicles"`
}

// RegisterVehicleRequest registers a new vehicle owned by the caller.
type RegisterVehicleRequest struct {
	Caller          string  `json:"caller"`
	VehicleID       string  `json:"vehicleID"`
	DIDIdentifier   string  `json:"didIdentifier"`
	VIN             string  `json:"vin"`
	Make            string  `json:"make"`
	Model           string  `json:"model"`
	Year            uint16  `json:"year"`
	LicensePlate    string  `json:"licensePlate"`
	EngineType      string  `json:"engineType"`
	BatteryCapacity *uint32 `json:"batteryCapacity,omitempty"`
}

// RegisterSensorRequest registers a new sensor on an existing vehicle.
type RegisterSensorRequest struct {
	Caller        string `json:"caller"`
	SensorID      string `json:"sensorID"`
	DIDIdentifier string `json:"didIdentifier"`
	VehicleID     string `json:"vehicleID"`
	SensorType    string `json:"sensorType"`
	Manufacturer  string `json:"manufacturer"`
	Model         string `json:"model"`
	Accuracy      string `json:"accuracy"`
}

// AssignOperatorRequest assigns an authorized operator to a vehicle.
type AssignOperatorRequest struct {
	Caller    string `json:"caller"`
	VehicleID string `json:"vehicleID"`
	Operator  string `json:"operator"`
}

// UpdateVehicleStatusRequest moves a vehicle to a new status.
type UpdateVehicleStatusRequest struct {
	Caller    string `json:"caller"`
	VehicleID string `json:"vehicleID"`
	NewStatus string `json:"newStatus"`
}

// UpdateSensorStatusRequest moves a sensor to a new status.
type UpdateSensorStatusRequest struct {
	Caller    string `json:"caller"`
	SensorID  string `json:"sensorID"`
	NewStatus string `json:"newStatus"`
}

// UpdateLocationRequest overwrites a vehicle's stored location.
type UpdateLocationRequest struct {
	Caller    string `json:"caller"`
	VehicleID string `json:"vehicleID"`
	Latitude  int32  `json:"latitude"`
	Longitude int32  `json:"longitude"`
}

// UpdateMileageRequest records a new, non-decreasing odometer reading.
type UpdateMileageRequest struct {
	Caller    string `json:"caller"`
	VehicleID string `json:"vehicleID"`
	Mileage   uint32 `json:"mileage"`
}

// OperatorAuthorizationRequest toggles an operator's allow-list entry.
type OperatorAuthorizationRequest struct {
	Caller   string `json:"caller"`
	Operator string `json:"operator"`
}

// ValidateRegisterVehicleRequest validates a vehicle registration.
func ValidateRegisterVehicleRequest(req *RegisterVehicleRequest) error {
	if err := validation.ValidateRequired(map[string]string{
		"caller":    req.Caller,
		"vehicleID": req.VehicleID,
		"vin":       req.VIN,
		"make":      req.Make,
	}); err != nil {
		return err
	}
	return validation.ValidateEngineType(req.EngineType)
}

// ValidateRegisterSensorRequest validates a sensor registration.
func ValidateRegisterSensorRequest(req *RegisterSensorRequest) error {
	if err := validation.ValidateRequired(map[string]string{
		"caller":    req.Caller,
		"sensorID":  req.SensorID,
		"vehicleID": req.VehicleID,
	}); err != nil {
		return err
	}
	return validation.ValidateSensorType(req.SensorType)
}

// CanManage reports whether a caller may mutate the vehicle: the owner, the
// assigned operator, or the registry administrator (checked by the handler).
func (v *Vehicle) CanManage(caller string) bool {
	return caller != "" && (caller == v.Owner || (v.Operator != "" && caller == v.Operator))
}
