package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/shared/chaincode"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/validation"
	"github.com/aximobility/mobility-ledger/telemetry/domain"
	telemetryServices "github.com/aximobility/mobility-ledger/telemetry/services"
)

// AdminHandler handles administrator-only telemetry operations
type AdminHandler struct {
	persistenceService *services.PersistenceService
	eventService       *telemetryServices.EventService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       telemetryServices.NewEventService(),
	}
}

// AuthorizeVehicle puts a vehicle hash on the ingestion allow-list.
// Administrator only.
func (h *AdminHandler) AuthorizeVehicle(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	req, err := h.parseAuthorizationRequest(stub, args)
	if err != nil {
		return nil, err
	}

	if err := h.persistenceService.Put(stub, config.VehicleAuthPrefix+req.VehicleHash, true); err != nil {
		return nil, fmt.Errorf("failed to update vehicle authorization: %v", err)
	}

	if err := h.eventService.EmitVehicleAuthorized(stub, req.VehicleHash, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(true)
}

// DeauthorizeVehicle removes a vehicle hash from the allow-list by writing an
// explicit false. Administrator only.
func (h *AdminHandler) DeauthorizeVehicle(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	req, err := h.parseAuthorizationRequest(stub, args)
	if err != nil {
		return nil, err
	}

	if err := h.persistenceService.Put(stub, config.VehicleAuthPrefix+req.VehicleHash, false); err != nil {
		return nil, fmt.Errorf("failed to update vehicle authorization: %v", err)
	}

	return json.Marshal(false)
}

// ValidateRecord marks a stored record as validated. A record may only be
// validated once. Administrator only.
func (h *AdminHandler) ValidateRecord(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.ValidateRecordRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse validation request: %v", err)
	}

	if !chaincode.IsAdmin(stub, req.Caller) {
		return nil, fmt.Errorf("caller %s is not the processor administrator", req.Caller)
	}

	var record domain.TelemetryRecord
	recordKey := config.TelemetryRecordPrefix + req.RecordID
	if err := h.persistenceService.Get(stub, recordKey, &record); err != nil {
		return nil, fmt.Errorf("record %s not found", req.RecordID)
	}

	if record.Validated {
		return nil, fmt.Errorf("record %s is already validated", req.RecordID)
	}

	record.Validated = true
	if err := h.persistenceService.Put(stub, recordKey, &record); err != nil {
		return nil, fmt.Errorf("failed to update record: %v", err)
	}

	return json.Marshal(&record)
}

// ToggleProcessing flips the global processing switch. Administrator only.
func (h *AdminHandler) ToggleProcessing(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.ToggleProcessingRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse toggle request: %v", err)
	}

	if !chaincode.IsAdmin(stub, req.Caller) {
		return nil, fmt.Errorf("caller %s is not the processor administrator", req.Caller)
	}

	enabled, err := isProcessingEnabled(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}

	enabled = !enabled
	if err := h.persistenceService.Put(stub, config.ProcessingEnabledKey, enabled); err != nil {
		return nil, fmt.Errorf("failed to update processing switch: %v", err)
	}

	return json.Marshal(enabled)
}

// IsVehicleAuthorized reports whether a vehicle hash is on the allow-list.
func (h *AdminHandler) IsVehicleAuthorized(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	authorized, err := isVehicleAuthorized(h.persistenceService, stub, args[0])
	if err != nil {
		return nil, err
	}

	return json.Marshal(authorized)
}

// IsProcessingEnabled reports the state of the global processing switch.
func (h *AdminHandler) IsProcessingEnabled(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	enabled, err := isProcessingEnabled(h.persistenceService, stub)
	if err != nil {
		return nil, err
	}

	return json.Marshal(enabled)
}

// GetProcessorAdmin returns the administrator principal configured at
// instantiation.
func (h *AdminHandler) GetProcessorAdmin(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	admin, err := chaincode.AdminPrincipal(stub)
	if err != nil {
		return nil, err
	}
	return json.Marshal(admin)
}

func (h *AdminHandler) parseAuthorizationRequest(stub shim.ChaincodeStubInterface, args []string) (*domain.VehicleAuthorizationRequest, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.VehicleAuthorizationRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse authorization request: %v", err)
	}

	if err := validation.ValidateHash32("vehicleHash", req.VehicleHash); err != nil {
		return nil, err
	}

	if !chaincode.IsAdmin(stub, req.Caller) {
		return nil, fmt.Errorf("caller %s is not the processor administrator", req.Caller)
	}

	return &req, nil
}
