package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/telemetry/handlers"
)

// Router handles function routing for the telemetry processor chaincode
type Router struct {
	handlers map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error)
}

// NewRouter creates a new router with all handler mappings
func NewRouter() *Router {
	processingHandler := handlers.NewProcessingHandler()
	adminHandler := handlers.NewAdminHandler()

	return &Router{
		handlers: map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error){
			// Ingestion
			"ProcessRecord": processingHandler.ProcessRecord,
			"ProcessBatch":  processingHandler.ProcessBatch,

			// Administration
			"AuthorizeVehicle":   adminHandler.AuthorizeVehicle,
			"DeauthorizeVehicle": adminHandler.DeauthorizeVehicle,
			"ValidateRecord":     adminHandler.ValidateRecord,
			"ToggleProcessing":   adminHandler.ToggleProcessing,

			// Query functions
			"GetProcessingStats":  processingHandler.GetProcessingStats,
			"GetRecord":           processingHandler.GetRecord,
			"GetBatch":            processingHandler.GetBatch,
			"GetVehicleCounter":   processingHandler.GetVehicleCounter,
			"IsVehicleAuthorized": adminHandler.IsVehicleAuthorized,
			"IsProcessingEnabled": adminHandler.IsProcessingEnabled,
			"GetProcessorAdmin":   adminHandler.GetProcessorAdmin,
		},
	}
}

// Route routes the function call to the appropriate handler
func (r *Router) Route(stub shim.ChaincodeStubInterface, function string, args []string) ([]byte, error) {
	handler, exists := r.handlers[function]
	if !exists {
		return nil, fmt.Errorf("function %s not found", function)
	}

	return handler(stub, args)
}
