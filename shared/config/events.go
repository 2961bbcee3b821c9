package config

// Event names emitted by the registries for off-chain observers.
const (
	// Identity registry events
	EventIdentityCreated      = "IdentityCreated"
	EventIdentityUpdated      = "IdentityUpdated"
	EventIdentityRevoked      = "IdentityRevoked"
	EventAuthorizationGranted = "AuthorizationGranted"
	EventAuthorizationRevoked = "AuthorizationRevoked"

	// Asset registry events
	EventVehicleRegistered    = "VehicleRegistered"
	EventVehicleStatusChanged = "VehicleStatusChanged"
	EventSensorRegistered     = "SensorRegistered"
	EventSensorStatusChanged  = "SensorStatusChanged"
	EventOperatorAssigned     = "OperatorAssigned"
	EventLocationUpdated      = "LocationUpdated"

	// Telemetry processor events
	EventRecordProcessed   = "RecordProcessed"
	EventBatchProcessed    = "BatchProcessed"
	EventVehicleAuthorized = "VehicleAuthorized"
	EventAnomalyDetected   = "AnomalyDetected"
)
