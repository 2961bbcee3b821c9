package handlers

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/domain"
	assetServices "github.com/aximobility/mobility-ledger/asset/services"
	"github.com/aximobility/mobility-ledger/shared/chaincode"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
	"github.com/aximobility/mobility-ledger/shared/utils"
)

// OperatorHandler handles the operator allow-list and vehicle assignments
type OperatorHandler struct {
	persistenceService *services.PersistenceService
	eventService       *assetServices.EventService
}

// NewOperatorHandler creates a new operator handler
func NewOperatorHandler() *OperatorHandler {
	return &OperatorHandler{
		persistenceService: services.NewPersistenceService(),
		eventService:       assetServices.NewEventService(),
	}
}

// AuthorizeOperator adds an operator to the allow-list. Administrator only.
func (h *OperatorHandler) AuthorizeOperator(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	return h.setOperatorAuthorization(stub, args, true)
}

// DeauthorizeOperator removes an operator from the allow-list. Administrator
// only. Existing vehicle assignments are not cleared.
func (h *OperatorHandler) DeauthorizeOperator(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	return h.setOperatorAuthorization(stub, args, false)
}

func (h *OperatorHandler) setOperatorAuthorization(stub shim.ChaincodeStubInterface, args []string, authorized bool) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.OperatorAuthorizationRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse authorization request: %v", err)
	}
	if req.Operator == "" {
		return nil, fmt.Errorf("operator is required")
	}

	if !chaincode.IsAdmin(stub, req.Caller) {
		return nil, fmt.Errorf("caller %s is not the registry administrator", req.Caller)
	}

	if err := h.persistenceService.Put(stub, config.OperatorAuthPrefix+req.Operator, authorized); err != nil {
		return nil, fmt.Errorf("failed to update operator authorization: %v", err)
	}

	return json.Marshal(authorized)
}

// AssignOperator assigns an allow-listed operator to a vehicle. Only the owner
// or the administrator may assign. Reassignment moves the vehicle between
// operator indices.
func (h *OperatorHandler) AssignOperator(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	var req domain.AssignOperatorRequest
	if err := json.Unmarshal([]byte(args[0]), &req); err != nil {
		return nil, fmt.Errorf("failed to parse operator assignment: %v", err)
	}
	if req.Operator == "" {
		return nil, fmt.Errorf("operator is required")
	}

	vehicle, err := loadVehicle(h.persistenceService, stub, req.VehicleID)
	if err != nil {
		return nil, err
	}

	if req.Caller == "" || (req.Caller != vehicle.Owner && !chaincode.IsAdmin(stub, req.Caller)) {
		return nil, fmt.Errorf("caller %s is not authorized to assign operators for vehicle %s", req.Caller, vehicle.ID)
	}

	authorized := false
	if _, err := h.persistenceService.GetOrDefault(stub, config.OperatorAuthPrefix+req.Operator, &authorized); err != nil {
		return nil, err
	}
	if !authorized {
		return nil, fmt.Errorf("operator %s is not authorized", req.Operator)
	}

	if vehicle.Operator != "" {
		if err := removeFromIndex(h.persistenceService, stub, config.OperatorVehiclesPrefix+vehicle.Operator, vehicle.ID); err != nil {
			return nil, err
		}
	}
	if err := appendToIndex(h.persistenceService, stub, config.OperatorVehiclesPrefix+req.Operator, vehicle.ID); err != nil {
		return nil, err
	}

	seconds, _, err := utils.TxTime(stub)
	if err != nil {
		return nil, err
	}

	vehicle.Operator = req.Operator
	vehicle.LastUpdated = seconds

	if err := h.persistenceService.Put(stub, config.VehiclePrefix+vehicle.ID, vehicle); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %v", err)
	}

	if err := h.eventService.EmitOperatorAssigned(stub, vehicle, req.Caller); err != nil {
		return nil, fmt.Errorf("failed to emit event: %v", err)
	}

	return json.Marshal(vehicle)
}

// IsOperatorAuthorized reports whether an operator is on the allow-list.
func (h *OperatorHandler) IsOperatorAuthorized(stub shim.ChaincodeStubInterface, args []string) ([]byte, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("incorrect number of arguments. Expected 1, got %d", len(args))
	}

	authorized := false
	if _, err := h.persistenceService.GetOrDefault(stub, config.OperatorAuthPrefix+args[0], &authorized); err != nil {
		return nil, err
	}

	return json.Marshal(authorized)
}
