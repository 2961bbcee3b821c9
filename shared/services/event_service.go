package services

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/interfaces"
	"github.com/aximobility/mobility-ledger/shared/utils"
)

// BaseEventService provides common event emission functionality
type BaseEventService struct{}

var _ interfaces.EventEmitter = (*BaseEventService)(nil)

// NewBaseEventService creates a new base event service
func NewBaseEventService() *BaseEventService {
	return &BaseEventService{}
}

// EmitEvent emits a standardized event
func (es *BaseEventService) EmitEvent(stub shim.ChaincodeStubInterface, eventName string, payload interfaces.EventPayload) error {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %v", err)
	}

	if err := stub.SetEvent(eventName, payloadBytes); err != nil {
		return fmt.Errorf("failed to emit event %s: %v", eventName, err)
	}

	return nil
}

// CreateEventPayload creates a standardized event payload stamped with the
// transaction timestamp.
func (es *BaseEventService) CreateEventPayload(stub shim.ChaincodeStubInterface, eventType, entityID, entityType, caller string, data interface{}) interfaces.EventPayload {
	seconds, _, _ := utils.TxTime(stub)
	return interfaces.EventPayload{
		EventType:  eventType,
		EntityID:   entityID,
		EntityType: entityType,
		Caller:     caller,
		Timestamp:  seconds,
		Data:       data,
		Metadata:   make(map[string]string),
	}
}

// CreateEventPayloadWithMetadata creates a standardized event payload with metadata
func (es *BaseEventService) CreateEventPayloadWithMetadata(stub shim.ChaincodeStubInterface, eventType, entityID, entityType, caller string, data interface{}, metadata map[string]string) interfaces.EventPayload {
	payload := es.CreateEventPayload(stub, eventType, entityID, entityType, caller, data)
	payload.Metadata = metadata
	return payload
}
