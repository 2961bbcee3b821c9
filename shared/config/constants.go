package config

// Business rules shared across the registries.
const (
	// DID format: required scheme prefix and minimum total length.
	DIDSchemePrefix = "did:peaq:"
	MinDIDLength    = len(DIDSchemePrefix) + 1

	// Telemetry ingestion limits
	MaxBatchSize        = 1000
	MinQualityScore     = 50
	AnomalyQualityFloor = 30
	MaxKnownSensorType  = 10

	// Anomaly cause codes. Low quality takes precedence when both apply.
	AnomalyNone              = 0
	AnomalyLowQuality        = 1
	AnomalyUnknownSensorType = 2

	// Hash sizes
	HashHexLength = 64 // 32 bytes, hex encoded
)
