package services

import (
	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/identity/domain"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
)

// EventService handles event emission for identity operations
type EventService struct {
	*services.BaseEventService
}

// NewEventService creates a new event service
func NewEventService() *EventService {
	return &EventService{
		BaseEventService: services.NewBaseEventService(),
	}
}

// EmitIdentityCreated emits an identity created event
func (es *EventService) EmitIdentityCreated(stub shim.ChaincodeStubInterface, doc *domain.DIDDocument) error {
	metadata := map[string]string{
		"entityType": string(doc.EntityType),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventIdentityCreated,
		doc.ID,
		"DIDDocument",
		doc.Controller,
		doc,
		metadata,
	)

	return es.EmitEvent(stub, config.EventIdentityCreated, payload)
}

// EmitIdentityUpdated emits an identity updated event
func (es *EventService) EmitIdentityUpdated(stub shim.ChaincodeStubInterface, doc *domain.DIDDocument, caller string) error {
	payload := es.CreateEventPayload(
		stub,
		config.EventIdentityUpdated,
		doc.ID,
		"DIDDocument",
		caller,
		doc,
	)

	return es.EmitEvent(stub, config.EventIdentityUpdated, payload)
}

// EmitIdentityRevoked emits an identity revoked event carrying the reason
func (es *EventService) EmitIdentityRevoked(stub shim.ChaincodeStubInterface, doc *domain.DIDDocument, caller, reason string) error {
	metadata := map[string]string{
		"reason": reason,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventIdentityRevoked,
		doc.ID,
		"DIDDocument",
		caller,
		doc,
		metadata,
	)

	return es.EmitEvent(stub, config.EventIdentityRevoked, payload)
}

// EmitAuthorizationGranted emits an authorization granted event
func (es *EventService) EmitAuthorizationGranted(stub shim.ChaincodeStubInterface, did, account, grantor string) error {
	metadata := map[string]string{
		"account": account,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventAuthorizationGranted,
		did,
		"DIDDocument",
		grantor,
		nil,
		metadata,
	)

	return es.EmitEvent(stub, config.EventAuthorizationGranted, payload)
}

// EmitAuthorizationRevoked emits an authorization revoked event
func (es *EventService) EmitAuthorizationRevoked(stub shim.ChaincodeStubInterface, did, account, revoker string) error {
	metadata := map[string]string{
		"account": account,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventAuthorizationRevoked,
		did,
		"DIDDocument",
		revoker,
		nil,
		metadata,
	)

	return es.EmitEvent(stub, config.EventAuthorizationRevoked, payload)
}
