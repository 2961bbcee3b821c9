package config

// State key prefixes for consistent key generation across the registries.
const (
	// Identity registry prefixes
	DIDPrefix            = "DID_"
	DIDVehicleMetaPrefix = "DID_VEHICLE_META_"
	DIDSensorMetaPrefix  = "DID_SENSOR_META_"
	DIDAuthPrefix        = "DID_AUTH_"
	ControllerDIDsPrefix = "CONTROLLER_DIDS_"

	// Asset registry prefixes
	VehiclePrefix          = "VEHICLE_"
	SensorPrefix           = "SENSOR_"
	VINIndexPrefix         = "VIN_"
	PlateIndexPrefix       = "PLATE_"
	OwnerVehiclesPrefix    = "OWNER_VEHICLES_"
	OperatorVehiclesPrefix = "OPERATOR_VEHICLES_"
	VehicleSensorsPrefix   = "VEHICLE_SENSORS_"
	OperatorAuthPrefix     = "OPERATOR_AUTH_"

	// Telemetry processor prefixes
	TelemetryRecordPrefix = "TELEMETRY_RECORD_"
	TelemetryBatchPrefix  = "TELEMETRY_BATCH_"
	VehicleAuthPrefix     = "VEHICLE_AUTH_"
	VehicleCounterPrefix  = "VEHICLE_COUNTER_"

	// Singleton state keys
	IdentityStatsKey     = "IDENTITY_STATS"
	RegistryStatsKey     = "REGISTRY_STATS"
	ProcessingStatsKey   = "PROCESSING_STATS"
	ProcessingEnabledKey = "PROCESSING_ENABLED"
	RegistryAdminKey     = "REGISTRY_ADMIN"
)
