package services

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/telemetry/domain"
)

// EventService handles event emission for telemetry processing
type EventService struct {
	*services.BaseEventService
}

// NewEventService creates a new event service
func NewEventService() *EventService {
	return &EventService{
		BaseEventService: services.NewBaseEventService(),
	}
}

// EmitRecordProcessed emits an event for every accepted record
func (es *EventService) EmitRecordProcessed(stub shim.ChaincodeStubInterface, record *domain.TelemetryRecord, caller string) error {
	metadata := map[string]string{
		"vehicleHash":  record.VehicleHash,
		"sensorType":   fmt.Sprintf("%d", record.SensorType),
		"qualityScore": fmt.Sprintf("%d", record.QualityScore),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventRecordProcessed,
		record.ID,
		"TelemetryRecord",
		caller,
		record,
		metadata,
	)

	return es.EmitEvent(stub, config.EventRecordProcessed, payload)
}

// EmitBatchProcessed emits the batch summary event. Emitted for failed
// batches too.
func (es *EventService) EmitBatchProcessed(stub shim.ChaincodeStubInterface, batch *domain.BatchRecord, caller string) error {
	metadata := map[string]string{
		"recordCount":    fmt.Sprintf("%d", batch.RecordCount),
		"processedCount": fmt.Sprintf("%d", batch.ProcessedCount),
		"status":         string(batch.Status),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventBatchProcessed,
		batch.BatchID,
		"BatchRecord",
		caller,
		batch,
		metadata,
	)

	return es.EmitEvent(stub, config.EventBatchProcessed, payload)
}

// EmitVehicleAuthorized emits an event when a vehicle joins the allow-list
func (es *EventService) EmitVehicleAuthorized(stub shim.ChaincodeStubInterface, vehicleHash, caller string) error {
	payload := es.CreateEventPayload(
		stub,
		config.EventVehicleAuthorized,
		vehicleHash,
		"Vehicle",
		caller,
		vehicleHash,
	)

	return es.EmitEvent(stub, config.EventVehicleAuthorized, payload)
}

// EmitAnomalyDetected flags a record that was accepted but looks suspicious.
// The transaction carries only one chaincode event, so this is emitted in
// place of RecordProcessed and its payload doubles as the processed-record
// notification.
func (es *EventService) EmitAnomalyDetected(stub shim.ChaincodeStubInterface, record *domain.TelemetryRecord, anomalyType uint8, caller string) error {
	metadata := map[string]string{
		"vehicleHash":  record.VehicleHash,
		"anomalyType":  fmt.Sprintf("%d", anomalyType),
		"sensorType":   fmt.Sprintf("%d", record.SensorType),
		"qualityScore": fmt.Sprintf("%d", record.QualityScore),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventAnomalyDetected,
		record.ID,
		"TelemetryRecord",
		caller,
		record,
		metadata,
	)

	return es.EmitEvent(stub, config.EventAnomalyDetected, payload)
}
