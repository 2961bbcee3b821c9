package handlers

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/identity/domain"
	identityServices "github.com/aximobility/mobility-ledger/identity/services"
	"github.com/aximobility/mobility-ledger/shared/chaincode"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

// IdentityHandler handles DID document operations
type IdentityHandler struct {
	persistenceService *services.PersistenceService
	eventService       *identityServices.EventService
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler() *IdentityHandler {
	return &IdentityHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       identityServices.NewEventService(),
	}
}

// CreateIdentity registers a new DID document with its type metadata.
func (h *IdentityHandler) CreateIdentity(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.CreateIdentityRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse create identity request: %v", err)
	}

	if err := domain.ValidateCreateIdentityRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	didKey := config.DIDPrefix + req.DID
	exists, err := h.persistenceService.Exists(stub, didKey)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("DID %s already exists", req.DID)
	}

	// Sensor identities declaring a parent vehicle require the parent DID to
	// exist. Only existence is checked; a revoked parent is accepted.
	if req.Sensor != nil && req.Sensor.ParentVehicleDID != "" {
		parentExists, err := h.persistenceService.Exists(stub, config.DIDPrefix+req.Sensor.ParentVehicleDID)
		if err != nil {
			return nil, err
		}
		if !parentExists {
			return nil, fmt.Errorf("parent vehicle DID %s not found", req.Sensor.ParentVehicleDID)
		}
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	doc := &domain.DIDDocument{
		ID:              req.DID,
		Controller:      req.Caller,
		PublicKey:       req.PublicKey,
		ServiceEndpoint: req.ServiceEndpoint,
		Created:         seconds,
		Updated:         seconds,
		Status:          validation.DIDStatusActive,
		EntityType:      validation.EntityType(req.EntityType),
	}

	if err := h.persistenceService.Put(stub, didKey, doc); err != nil {
		return nil, fmt.Errorf("failed to store DID document: %v", err)
	}

	switch doc.EntityType {
	case validation.EntityTypeVehicle:
		if err := h.persistenceService.Put(stub, config.DIDVehicleMetaPrefix+req.DID, req.Vehicle); err != nil {
			return nil, fmt.Errorf("failed to store vehicle metadata: %v", err)
		}
	case validation.EntityTypeSensor:
		if err := h.persistenceService.Put(stub, config.DIDSensorMetaPrefix+req.DID, req.Sensor); err != nil {
			return nil, fmt.Errorf("failed to store sensor metadata: %v", err)
		}
	}

	if err := h.appendControllerDID(stub, req.Caller, req.DID); err != nil {
		return nil, err
	}

	var stats domain.IdentityStats
	if _, err := h.persistenceService.GetOrDefault(stub, config.IdentityStatsKey, &stats); err != nil {
		return nil, err
	}
	stats.TotalIdentities = utils.AddUint32Sat(stats.TotalIdentities, 1)
	if err := h.persistenceService.Put(stub, config.IdentityStatsKey, &stats); err != nil {
		return nil, fmt.Errorf("failed to update identity stats: %v", err)
	}

	if err := h.eventService.EmitIdentityCreated(stub, doc); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(doc)
}

// UpdateIdentity rotates the public key and service endpoint of an active DID.
// The caller must be the controller or hold a delegated authorization.
func (h *IdentityHandler) UpdateIdentity(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.UpdateIdentityRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse update identity request: %v", err)
	}

	if err := domain.ValidateUpdateIdentityRequest(&req); err != nil {
		return nil, fmt.Errorf("validation failed: %v", err)
	}

	didKey := config.DIDPrefix + req.DID
	var doc domain.DIDDocument
	if err := h.persistenceService.Get(stub, didKey, &doc); err != nil {
		return nil, fmt.Errorf("DID %s not found", req.DID)
	}

	if doc.Controller != req.Caller {
		authSet, err := h.getAuthorizationSet(stub, req.DID)
		if err != nil {
			return nil, err
		}
		if !authSet.Contains(req.Caller) {
			return nil, fmt.Errorf("caller %s is not authorized for DID %s", req.Caller, req.DID)
		}
	}

	if doc.Status != validation.DIDStatusActive {
		return nil, fmt.Errorf("DID %s is not active", req.DID)
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	doc.PublicKey = req.PublicKey
	doc.ServiceEndpoint = req.ServiceEndpoint
	doc.Updated = seconds

	if err := h.persistenceService.Put(stub, didKey, &doc); err != nil {
		return nil, fmt.Errorf("failed to update DID document: %v", err)
	}

	if err := h.eventService.EmitIdentityUpdated(stub, &doc, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(&doc)
}

// RevokeIdentity revokes a DID. The caller must be the controller or the
// registry administrator. Revoking an already revoked DID is an accepted no-op.
func (h *IdentityHandler) RevokeIdentity(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.RevokeIdentityRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse revoke identity request: %v", err)
	}

	didKey := config.DIDPrefix + req.DID
	var doc domain.DIDDocument
	if err := h.persistenceService.Get(stub, didKey, &doc); err != nil {
		return nil, fmt.Errorf("DID %s not found", req.DID)
	}

	if doc.Controller != req.Caller && !chaincode.IsAdmin(stub, req.Caller) {
		return nil, fmt.Errorf("caller %s is not authorized to revoke DID %s", req.Caller, req.DID)
	}

	if err := validation.ValidateDIDStatusTransition(doc.Status, validation.DIDStatusRevoked); err != nil {
		return nil, err
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	doc.Status = validation.DIDStatusRevoked
	doc.Updated = seconds

	if err := h.persistenceService.Put(stub, didKey, &doc); err != nil {
		return nil, fmt.Errorf("failed to revoke DID document: %v", err)
	}

	if err := h.eventService.EmitIdentityRevoked(stub, &doc, req.Caller, req.Reason); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(&doc)
}

// GrantAuthorization adds an account to the DID's authorization set.
// Controller-only; granting an existing member is an idempotent no-op.
func (h *IdentityHandler) GrantAuthorization(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	req, doc, err := h.parseAuthorizationRequest(stub, args)
	if err != nil {
		return nil, err
	}

	authSet, err := h.getAuthorizationSet(stub, req.DID)
	if err != nil {
		return nil, err
	}

	if authSet.Add(req.Account) {
		if err := h.persistenceService.Put(stub, config.DIDAuthPrefix+req.DID, authSet); err != nil {
			return nil, fmt.Errorf("failed to store authorization set: %v", err)
		}
		if err := h.eventService.EmitAuthorizationGranted(stub, req.DID, req.Account, req.Caller); err != nil {
			return nil, fmt.Errorf("failed to emit event: %v", err)
		}
	}

	return json.Marshal(doc)
}

// RevokeAuthorization removes an account from the DID's authorization set.
// Controller-only; revoking an absent member is a no-op.
func (h *IdentityHandler) RevokeAuthorization(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	req, doc, err := h.parseAuthorizationRequest(stub, args)
	if err != nil {
		return nil, err
	}

	authSet, err := h.getAuthorizationSet(stub, req.DID)
	if err != nil {
		return nil, err
	}

	if authSet.Remove(req.Account) {
		if err := h.persistenceService.Put(stub, config.DIDAuthPrefix+req.DID, authSet); err != nil {
			return nil, fmt.Errorf("failed to store authorization set: %v", err)
		}
		if err := h.eventService.EmitAuthorizationRevoked(stub, req.DID, req.Account, req.Caller); err != nil {
			return nil, fmt.Errorf("failed to emit event: %v", err)
		}
	}

	return json.Marshal(doc)
}

// GetIdentity retrieves a DID document by id.
func (h *IdentityHandler) GetIdentity(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var doc domain.DIDDocument
	if err := h.persistenceService.Get(stub, config.DIDPrefix+args[0], &doc); err != nil {
		return nil, fmt.Errorf("DID %s not found", args[0])
	}

	return json.Marshal(&doc)
}

// GetVehicleMetadata retrieves the vehicle metadata attached to a DID.
func (h *IdentityHandler) GetVehicleMetadata(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var meta domain.VehicleDIDMetadata
	if err := h.persistenceService.Get(stub, config.DIDVehicleMetaPrefix+args[0], &meta); err != nil {
		return nil, fmt.Errorf("vehicle metadata for DID %s not found", args[0])
	}

	return json.Marshal(&meta)
}

// GetSensorMetadata retrieves the sensor metadata attached to a DID.
func (h *IdentityHandler) GetSensorMetadata(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var meta domain.SensorDIDMetadata
	if err := h.persistenceService.Get(stub, config.DIDSensorMetaPrefix+args[0], &meta); err != nil {
		return nil, fmt.Errorf("sensor metadata for DID %s not found", args[0])
	}

	return json.Marshal(&meta)
}

// GetControllerIdentities lists the DIDs owned by a controller in insertion
// order.
func (h *IdentityHandler) GetControllerIdentities(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	dids := []string{}
	if _, err := h.persistenceService.GetOrDefault(stub, config.ControllerDIDsPrefix+args[0], &dids); err != nil {
		return nil, err
	}

	return json.Marshal(dids)
}

// GetAuthorizations lists the accounts authorized on a DID, sorted for
// deterministic output.
func (h *IdentityHandler) GetAuthorizations(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	authSet, err := h.getAuthorizationSet(stub, args[0])
	if err != nil {
		return nil, err
	}

	accounts := make([]string, 0, len(authSet))
	for account := range authSet {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	return json.Marshal(accounts)
}

// VerifyAccess reports whether an account is the controller of a DID or a
// member of its authorization set. Unknown DIDs verify as false.
func (h *IdentityHandler) VerifyAccess(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 2, got %d", len(args))
	}

	did, account := args[0], args[1]

	var doc domain.DIDDocument
	found, err := h.persistenceService.GetOrDefault(stub, config.DIDPrefix+did, &doc)
	if err != nil {
		return nil, err
	}
	if !found {
		return json.Marshal(false)
	}

	if doc.Controller == account {
		return json.Marshal(true)
	}

	authSet, err := h.getAuthorizationSet(stub, did)
	if err != nil {
		return nil, err
	}

	return json.Marshal(authSet.Contains(account))
}

// IsIdentityActive reports whether a DID exists and is active.
func (h *IdentityHandler) IsIdentityActive(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var doc domain.DIDDocument
	found, err := h.persistenceService.GetOrDefault(stub, config.DIDPrefix+args[0], &doc)
	if err != nil {
		return nil, err
	}

	return json.Marshal(found && doc.Status == validation.DIDStatusActive)
}

// GetIdentityStats returns the aggregate identity counters.
func (h *IdentityHandler) GetIdentityStats(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	var stats domain.IdentityStats
	if _, err := h.persistenceService.GetOrDefault(stub, config.IdentityStatsKey, &stats); err != nil {
		return nil, err
	}

	return json.Marshal(&stats)
}

// Helper methods

func (h *IdentityHandler) parseAuthorizationRequest(stub shim.ChaincodeStubInterface, args []string) (*domain.AuthorizationRequest, *domain.DIDDocument, error) {
	if len(args) != 1 {
		return nil, nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.AuthorizationRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, nil, fmt.Errorf("failed to parse authorization request: %v", err)
	}

	if err := validation.ValidateRequired(map[string]string{
		"caller":  req.Caller,
		"did":     req.DID,
		"account": req.Account,
	}); err != nil {
		return nil, nil, err
	}

	var doc domain.DIDDocument
	if err := h.persistenceService.Get(stub, config.DIDPrefix+req.DID, &doc); err != nil {
		return nil, nil, fmt.Errorf("DID %s not found", req.DID)
	}

	if doc.Controller != req.Caller {
		return nil, nil, fmt.Errorf("caller %s is not the controller of DID %s", req.Caller, req.DID)
	}

	return &req, &doc, nil
}

func (h *IdentityHandler) getAuthorizationSet(stub shim.ChaincodeStubInterface, did string) (domain.AuthorizationSet, error) {
	authSet := domain.AuthorizationSet{}
	if _, err := h.persistenceService.GetOrDefault(stub, config.DIDAuthPrefix+did, &authSet); err != nil {
		return nil, err
	}
	return authSet, nil
}

func (h *IdentityHandler) appendControllerDID(stub shim.ChaincodeStubInterface, controller, did string) error {
	dids := []string{}
	if _, err := h.persistenceService.GetOrDefault(stub, config.ControllerDIDsPrefix+controller, &dids); err != nil {
		return err
	}
	dids = append(dids, did)
	if err := h.persistenceService.Put(stub, config.ControllerDIDsPrefix+controller, dids); err != nil {
		return fmt.Errorf("failed to update controller index: %v", err)
	}
	return nil
}
