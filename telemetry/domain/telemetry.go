package domain

import (
	"encoding/binary"

	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

// TelemetryRecord is a processed telemetry submission. Hashes are hex encoded
// 32-byte values.
type TelemetryRecord struct {
	ID           string `json:"id"`
	VehicleHash  string `json:"vehicleHash"`
	SensorType   uint8  `json:"sensorType"`
	Timestamp    int64  `json:"timestamp"`
	DataHash     string `json:"dataHash"`
	QualityScore uint8  `json:"qualityScore"`
	Processed    bool   `json:"processed"`
	Validated    bool   `json:"validated"`
}

// BatchRecord summarizes one batch submission. RecordCount is the submitted
// size, ProcessedCount how many items were accepted.
type BatchRecord struct {
	BatchID        string                 `json:"batchID"`
	RecordCount    uint16                 `json:"recordCount"`
	MerkleRoot     string                 `json:"merkleRoot"`
	ProcessedCount uint16                 `json:"processedCount"`
	Timestamp      int64                  `json:"timestamp"`
	Status         validation.BatchStatus `json:"status"`
}

// ProcessingStats is the aggregate ingestion state. AvgQualityScore is the
// running average over valid records only.
type ProcessingStats struct {
	TotalRecords    uint64 `json:"totalRecords"`
	ValidRecords    uint64 `json:"validRecords"`
	AvgQualityScore uint16 `json:"avgQualityScore"`
	LastProcessedAt int64  `json:"lastProcessedAt"`
}

// BatchItem is one telemetry submission inside a batch.
type BatchItem struct {
	VehicleHash  string `json:"vehicleHash"`
	SensorType   uint8  `json:"sensorType"`
	DataHash     string `json:"dataHash"`
	QualityScore uint8  `json:"qualityScore"`
}

// ProcessRecordRequest submits a single telemetry record.
type ProcessRecordRequest struct {
	Caller       string `json:"caller"`
	VehicleHash  string `json:"vehicleHash"`
	SensorType   uint8  `json:"sensorType"`
	DataHash     string `json:"dataHash"`
	QualityScore uint8  `json:"qualityScore"`
}

// ProcessBatchRequest submits a batch of telemetry records.
type ProcessBatchRequest struct {
	Caller     string      `json:"caller"`
	BatchID    string      `json:"batchID"`
	Records    []BatchItem `json:"records"`
	MerkleRoot string      `json:"merkleRoot"`
}

// VehicleAuthorizationRequest toggles a vehicle's ingestion allow-list entry.
type VehicleAuthorizationRequest struct {
	Caller      string `json:"caller"`
	VehicleHash string `json:"vehicleHash"`
}

// ValidateRecordRequest marks a stored record as validated.
type ValidateRecordRequest struct {
	Caller   string `json:"caller"`
	RecordID string `json:"recordID"`
}

// ToggleProcessingRequest flips the global processing switch.
type ToggleProcessingRequest struct {
	Caller string `json:"caller"`
}

// ValidateProcessRecordRequest checks the structural shape of a single
// submission. Business checks (authorization, quality) run in the handler.
func ValidateProcessRecordRequest(req *ProcessRecordRequest) error {
	if err := validation.ValidateHash32("vehicleHash", req.VehicleHash); err != nil {
		return err
	}
	return validation.ValidateHash32("dataHash", req.DataHash)
}

// ValidateProcessBatchRequest checks the structural shape of a batch
// submission.
func ValidateProcessBatchRequest(req *ProcessBatchRequest) error {
	if err := validation.ValidateHash32("batchID", req.BatchID); err != nil {
		return err
	}
	return validation.ValidateHash32("merkleRoot", req.MerkleRoot)
}

// DeriveRecordID derives the deterministic record id for a single submission
// from the vehicle hash, the sensor type and the transaction timestamp.
func DeriveRecordID(vehicleHash []byte, sensorType uint8, seconds int64, nanos int32) string {
	return deriveRecordID(vehicleHash, sensorType, seconds, nanos, nil)
}

// DeriveBatchRecordID derives the record id for a batch item. The sequence
// number is the count of items accepted before this one, so items inside one
// batch never collide.
func DeriveBatchRecordID(vehicleHash []byte, sensorType uint8, seconds int64, nanos int32, seq uint16) string {
	seqBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(seqBytes, seq)
	return deriveRecordID(vehicleHash, sensorType, seconds, nanos, seqBytes)
}

func deriveRecordID(vehicleHash []byte, sensorType uint8, seconds int64, nanos int32, extra []byte) string {
	preimage := make([]byte, 0, len(vehicleHash)+1+12+len(extra))
	preimage = append(preimage, vehicleHash...)
	preimage = append(preimage, sensorType)

	ts := make([]byte, 12)
	binary.BigEndian.PutUint64(ts[:8], uint64(seconds))
	binary.BigEndian.PutUint32(ts[8:], uint32(nanos))
	preimage = append(preimage, ts...)

	preimage = append(preimage, extra...)
	return utils.HashBytes(preimage)
}

// ApplyRecordQuality folds one accepted record into the running average. The
// counters must already include the new record.
func (s *ProcessingStats) ApplyRecordQuality(qualityScore uint8) {
	if s.ValidRecords == 0 {
		return
	}
	totalQuality := utils.AddUint64Sat(
		utils.MulUint64Sat(uint64(s.AvgQualityScore), utils.SubUint64Sat(s.ValidRecords, 1)),
		uint64(qualityScore),
	)
	s.AvgQualityScore = utils.ClampUint16(totalQuality / s.ValidRecords)
}

// ApplyBatchQuality folds an accepted batch into the running average using the
// batch mean. The counters must already include the accepted items.
func (s *ProcessingStats) ApplyBatchQuality(totalQuality uint32, processedCount uint16) {
	if processedCount == 0 || s.ValidRecords == 0 {
		return
	}
	batchMean := totalQuality / uint32(processedCount)
	batchContribution := utils.MulUint32Sat(batchMean, uint32(processedCount))
	currentTotal := utils.AddUint64Sat(
		utils.MulUint64Sat(uint64(s.AvgQualityScore), utils.SubUint64Sat(s.ValidRecords, uint64(processedCount))),
		uint64(batchContribution),
	)
	s.AvgQualityScore = utils.ClampUint16(currentTotal / s.ValidRecords)
}
