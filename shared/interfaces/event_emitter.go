package interfaces

import "github.com/hyperledger/fabric-chaincode-go/shim"

// EventPayload represents the structure of an event payload
type EventPayload struct {
	EventType  string            `json:"eventType"`
	EntityID   string            `json:"entityID"`
	EntityType string            `json:"entityType"`
	Caller     string            `json:"caller"`
	Timestamp  int64             `json:"timestamp"`
	Data       interface{}       `json:"data"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// EventEmitter defines the interface for emitting blockchain events
type EventEmitter interface {
	EmitEvent(stub shim.ChaincodeStubInterface, eventName string, payload EventPayload) error
	CreateEventPayload(stub shim.ChaincodeStubInterface, eventType, entityID, entityType, caller string, data interface{}) EventPayload
}
