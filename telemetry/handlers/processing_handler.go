package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/shared/validation"
	"github.com/aximobility/mobility-ledger/telemetry/domain"
	telemetryServices "github.com/aximobility/mobility-ledger/telemetry/services"
)

// ProcessingHandler handles telemetry ingestion
type ProcessingHandler struct {
	persistenceService *services.PersistenceService
	eventService       *telemetryServices.EventService
}

// NewProcessingHandler creates a new processing handler
func NewProcessingHandler() *ProcessingHandler {
	return &ProcessingHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       telemetryServices.NewEventService(),
	}
}

// ProcessRecord ingests a single telemetry record. Checks run in a fixed
// order: processing switch, vehicle authorization, quality threshold,
// duplicate id. The record id is derived from the vehicle hash, the sensor
// type and the transaction timestamp, so resubmitting the same payload in the
// same transaction context is rejected as a duplicate.
func (h *ProcessingHandler) ProcessRecord(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.ProcessRecordRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse record submission: %v", err)
	}

	if err := domain.ValidateProcessRecordRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	enabled, err := isProcessingEnabled(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, fmt.Errorf("processing is disabled")
	}

	authorized, err := isVehicleAuthorized(h.persistenceService, stub, req.VehicleHash)
	if err != nil {
		return nil, err
	}
	if !authorized {
		return nil, fmt.Errorf("vehicle is not authorized")
	}

	if req.QualityScore < config.MinQualityScore {
		return nil, fmt.Errorf("quality score %d is below the minimum %d", req.QualityScore, config.MinQualityScore)
	}

	seconds, nanos, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicleHashBytes, err := utils.DecodeHash32(req.VehicleHash)
	if err != nil {
		return nil, err
	}
	recordID := domain.DeriveRecordID(vehicleHashBytes, req.SensorType, seconds, nanos)

	recordKey := config.TelemetryRecordPrefix + recordID
	if exists, err := h.persistenceService.Exists(stub, recordKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("duplicate record %s", recordID)
	}

	record := &domain.TelemetryRecord{
		ID:           recordID,
		VehicleHash:  req.VehicleHash,
		SensorType:   req.SensorType,
		Timestamp:    seconds,
		DataHash:     req.DataHash,
		QualityScore: req.QualityScore,
		Processed:    true,
		Validated:    false,
	}

	if err := h.persistenceService.Put(stub, recordKey, record); err != nil {
		return nil, fmt.Errorf("failed to store record: %v", err)
	}

	stats, err := loadProcessingStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	stats.TotalRecords = utils.AddUint64Sat(stats.TotalRecords, 1)
	stats.ValidRecords = utils.AddUint64Sat(stats.ValidRecords, 1)
	stats.LastProcessedAt = seconds
	stats.ApplyRecordQuality(req.QualityScore)
	if err := saveProcessingStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := incrementVehicleCounter(h.persistenceService, stub, req.VehicleHash); err != nil {
		return nil, err
	}

	// Fabric carries a single chaincode event per transaction, so an
	// anomalous record emits AnomalyDetected in place of RecordProcessed;
	// the anomaly payload carries the full record.
	anomalyType := uint8(config.AnomalyNone)
	if req.QualityScore < config.AnomalyQualityFloor {
		anomalyType = config.AnomalyLowQuality
	} else if req.SensorType > config.MaxKnownSensorType {
		anomalyType = config.AnomalyUnknownSensorType
	}

	if anomalyType != config.AnomalyNone {
		if err := h.eventService.EmitAnomalyDetected(stub, record, anomalyType, req.Caller); err != nil {
			return nil, fmt.Errorf("failed to emit event: %v", err)
		}
	} else if err := h.eventService.EmitRecordProcessed(stub, record, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(recordID)
}

// ProcessBatch ingests a batch of telemetry records. Items that fail a check
// are skipped, never the whole batch; the batch fails only when nothing was
// accepted. Aggregate stats are updated once with the batch mean rather than
// folding item by item.
func (h *ProcessingHandler) ProcessBatch(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.ProcessBatchRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse batch submission: %v", err)
	}

	if err := domain.ValidateProcessBatchRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	enabled, err := isProcessingEnabled(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, fmt.Errorf("processing is disabled")
	}

	if len(req.Records) > config.MaxBatchSize {
		return nil, fmt.Errorf("batch size %d exceeds the maximum %d", len(req.Records), config.MaxBatchSize)
	}

	batchKey := config.TelemetryBatchPrefix + req.BatchID
	if exists, err := h.persistenceService.Exists(stub, batchKey); err != nil {
		return nil, err
	} else if exists {
		return nil, fmt.Errorf("batch %s already exists", req.BatchID)
	}

	seconds, nanos, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	recordCount := len(req.Records)
	if recordCount > 65535 {
		recordCount = 65535
	}

	batch := &domain.BatchRecord{
		BatchID:     req.BatchID,
		RecordCount: uint16(recordCount),
		MerkleRoot:  req.MerkleRoot,
		Timestamp:   seconds,
		Status:      validation.BatchStatusProcessing,
	}

	var processedCount uint16
	var totalQuality uint32

	for _, item := range req.Records {
		authorized, err := isVehicleAuthorized(h.persistenceService, stub, item.VehicleHash)
		if err != nil {
			return nil, err
		}
		if !authorized {
			continue
		}

		if item.QualityScore < config.MinQualityScore {
			continue
		}

		vehicleHashBytes, err := utils.DecodeHash32(item.VehicleHash)
		if err != nil {
			continue
		}
		recordID := domain.DeriveBatchRecordID(vehicleHashBytes, item.SensorType, seconds, nanos, processedCount)

		recordKey := config.TelemetryRecordPrefix + recordID
		if exists, err := h.persistenceService.Exists(stub, recordKey); err != nil {
			return nil, err
		} else if exists {
			continue
		}

		record := &domain.TelemetryRecord{
			ID:           recordID,
			VehicleHash:  item.VehicleHash,
			SensorType:   item.SensorType,
			Timestamp:    seconds,
			DataHash:     item.DataHash,
			QualityScore: item.QualityScore,
			Processed:    true,
			Validated:    true,
		}

		if err := h.persistenceService.Put(stub, recordKey, record); err != nil {
			return nil, fmt.Errorf("failed to store record: %v", err)
		}

		processedCount++
		totalQuality = utils.AddUint32Sat(totalQuality, uint32(item.QualityScore))

		if err := incrementVehicleCounter(h.persistenceService, stub, item.VehicleHash); err != nil {
			return nil, err
		}
	}

	batch.ProcessedCount = processedCount
	if processedCount > 0 {
		batch.Status = validation.BatchStatusCompleted
	} else {
		batch.Status = validation.BatchStatusFailed
	}

	if err := h.persistenceService.Put(stub, batchKey, batch); err != nil {
		return nil, fmt.Errorf("failed to store batch: %v", err)
	}

	stats, err := loadProcessingStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	stats.TotalRecords = utils.AddUint64Sat(stats.TotalRecords, uint64(processedCount))
	stats.ValidRecords = utils.AddUint64Sat(stats.ValidRecords, uint64(processedCount))
	stats.LastProcessedAt = seconds
	stats.ApplyBatchQuality(totalQuality, processedCount)
	if err := saveProcessingStats(h.persistenceService, stub, stats); err != nil {
		return nil, err
	}

	if err := h.eventService.EmitBatchProcessed(stub, batch, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(processedCount)
}

// GetProcessingStats returns the aggregate ingestion counters.
func (h *ProcessingHandler) GetProcessingStats(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	stats, err := loadProcessingStats(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}
	return json.Marshal(stats)
}

// GetRecord retrieves a stored telemetry record by id.
func (h *ProcessingHandler) GetRecord(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var record domain.TelemetryRecord
	if err := h.persistenceService.Get(stub, config.TelemetryRecordPrefix+args[0], &record); err != nil {
		return nil, fmt.Errorf("record %s not found", args[0])
	}

	return json.Marshal(&record)
}

// GetBatch retrieves a stored batch summary by id.
func (h *ProcessingHandler) GetBatch(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var batch domain.BatchRecord
	if err := h.persistenceService.Get(stub, config.TelemetryBatchPrefix+args[0], &batch); err != nil {
		return nil, fmt.Errorf("batch %s not found", args[0])
	}

	return json.Marshal(&batch)
}

// GetVehicleCounter returns how many records a vehicle has contributed.
func (h *ProcessingHandler) GetVehicleCounter(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var counter uint32
	if _, err := h.persistenceService.GetOrDefault(stub, config.VehicleCounterPrefix+args[0], &counter); err != nil {
		return nil, err
	}

	return json.Marshal(counter)
}
