package validation

import "fmt"

// ============================================================================
// STATUS AND KIND ENUMS
// ============================================================================

// DIDStatus represents the lifecycle state of a DID document.
type DIDStatus string

const (
	DIDStatusActive  DIDStatus = "ACTIVE"
	DIDStatusRevoked DIDStatus = "REVOKED"
	// Suspended is reserved; no operation currently drives it.
	DIDStatusSuspended DIDStatus = "SUSPENDED"
)

// EntityType classifies the entity behind a DID.
type EntityType string

const (
	EntityTypeVehicle EntityType = "VEHICLE"
	EntityTypeSensor  EntityType = "SENSOR"
	EntityTypeUser    EntityType = "USER"
	EntityTypeService EntityType = "SERVICE"
)

// EngineType classifies a vehicle's drivetrain.
type EngineType string

const (
	EngineTypeElectric EngineType = "ELECTRIC"
	EngineTypeHybrid   EngineType = "HYBRID"
	EngineTypeGasoline EngineType = "GASOLINE"
	EngineTypeDiesel   EngineType = "DIESEL"
)

// VehicleStatus represents the operational state of a registered vehicle.
type VehicleStatus string

const (
	VehicleStatusActive       VehicleStatus = "ACTIVE"
	VehicleStatusInactive     VehicleStatus = "INACTIVE"
	VehicleStatusMaintenance  VehicleStatus = "MAINTENANCE"
	VehicleStatusSuspended    VehicleStatus = "SUSPENDED"
	VehicleStatusDeregistered VehicleStatus = "DEREGISTERED"
)

// SensorType classifies a registered sensor.
type SensorType string

const (
	SensorTypeGPS           SensorType = "GPS"
	SensorTypeAccelerometer SensorType = "ACCELEROMETER"
	SensorTypeGyroscope     SensorType = "GYROSCOPE"
	SensorTypeBattery       SensorType = "BATTERY"
	SensorTypeTemperature   SensorType = "TEMPERATURE"
	SensorTypeSpeed         SensorType = "SPEED"
	SensorTypeFuelLevel     SensorType = "FUEL_LEVEL"
	SensorTypeEngineRPM     SensorType = "ENGINE_RPM"
)

// SensorStatus represents the operational state of a sensor.
type SensorStatus string

const (
	SensorStatusActive      SensorStatus = "ACTIVE"
	SensorStatusInactive    SensorStatus = "INACTIVE"
	SensorStatusFaulty      SensorStatus = "FAULTY"
	SensorStatusCalibrating SensorStatus = "CALIBRATING"
)

// BatchStatus represents the outcome of a telemetry batch. Pending and
// Processing are never observed externally; batch calls complete synchronously.
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "PENDING"
	BatchStatusProcessing BatchStatus = "PROCESSING"
	BatchStatusCompleted  BatchStatus = "COMPLETED"
	BatchStatusFailed     BatchStatus = "FAILED"
)

// ============================================================================
// MEMBERSHIP CHECKS
// ============================================================================

// ValidateStatus checks if status is in allowed list
func ValidateStatus(status string, allowedStatuses []string) error {
	for _, allowed := range allowedStatuses {
		if status == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid status '%s', allowed values: %v", status, allowedStatuses)
}

// ValidateEntityType checks if a DID entity type is valid
func ValidateEntityType(entityType string) error {
	return ValidateStatus(entityType, []string{
		string(EntityTypeVehicle),
		string(EntityTypeSensor),
		string(EntityTypeUser),
		string(EntityTypeService),
	})
}

// ValidateEngineType checks if an engine type is valid
func ValidateEngineType(engineType string) error {
	return ValidateStatus(engineType, []string{
		string(EngineTypeElectric),
		string(EngineTypeHybrid),
		string(EngineTypeGasoline),
		string(EngineTypeDiesel),
	})
}

// ValidateVehicleStatus checks if a vehicle status is valid
func ValidateVehicleStatus(status string) error {
	return ValidateStatus(status, []string{
		string(VehicleStatusActive),
		string(VehicleStatusInactive),
		string(VehicleStatusMaintenance),
		string(VehicleStatusSuspended),
		string(VehicleStatusDeregistered),
	})
}

// ValidateSensorType checks if a sensor type is valid
func ValidateSensorType(sensorType string) error {
	return ValidateStatus(sensorType, []string{
		string(SensorTypeGPS),
		string(SensorTypeAccelerometer),
		string(SensorTypeGyroscope),
		string(SensorTypeBattery),
		string(SensorTypeTemperature),
		string(SensorTypeSpeed),
		string(SensorTypeFuelLevel),
		string(SensorTypeEngineRPM),
	})
}

// ValidateSensorStatus checks if a sensor status is valid
func ValidateSensorStatus(status string) error {
	return ValidateStatus(status, []string{
		string(SensorStatusActive),
		string(SensorStatusInactive),
		string(SensorStatusFaulty),
		string(SensorStatusCalibrating),
	})
}

// ============================================================================
// TRANSITION TABLES
// ============================================================================

// didTransitions is the allowed-transition table for DID documents. Revocation
// is reachable from every state; revoking a revoked DID is accepted as a no-op
// so that retries by an authorized caller succeed.
var didTransitions = map[DIDStatus][]DIDStatus{
	DIDStatusActive:    {DIDStatusRevoked},
	DIDStatusRevoked:   {DIDStatusRevoked},
	DIDStatusSuspended: {DIDStatusRevoked},
}

// ValidateDIDStatusTransition checks a DID status transition against the table.
func ValidateDIDStatusTransition(current, next DIDStatus) error {
	for _, allowed := range didTransitions[current] {
		if next == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid DID status transition from %s to %s", current, next)
}

// vehicleTransitions is the allowed-transition table for vehicles. Every
// transition between the five states is legal, including re-activating a
// deregistered vehicle; the table exists so that the legal set is explicit.
var vehicleTransitions = map[VehicleStatus][]VehicleStatus{
	VehicleStatusActive:       {VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance, VehicleStatusSuspended, VehicleStatusDeregistered},
	VehicleStatusInactive:     {VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance, VehicleStatusSuspended, VehicleStatusDeregistered},
	VehicleStatusMaintenance:  {VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance, VehicleStatusSuspended, VehicleStatusDeregistered},
	VehicleStatusSuspended:    {VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance, VehicleStatusSuspended, VehicleStatusDeregistered},
	VehicleStatusDeregistered: {VehicleStatusActive, VehicleStatusInactive, VehicleStatusMaintenance, VehicleStatusSuspended, VehicleStatusDeregistered},
}

// ValidateVehicleStatusTransition checks a vehicle status transition against
// the table.
func ValidateVehicleStatusTransition(current, next VehicleStatus) error {
	allowed, exists := vehicleTransitions[current]
	if !exists {
		return fmt.Errorf("unknown current vehicle status: %s", current)
	}
	for _, a := range allowed {
		if next == a {
			return nil
		}
	}
	return fmt.Errorf("invalid vehicle status transition from %s to %s", current, next)
}
