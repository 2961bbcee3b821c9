package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/handlers"
)

// Router handles function routing for the asset registry chaincode
type Router struct {
	handlers map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error)
}

// NewRouter creates a new router with all handler mappings
func NewRouter() *Router {
	vehicleHandler := handlers.NewVehicleHandler()
	sensorHandler := handlers.NewSensorHandler()
	operatorHandler := handlers.NewOperatorHandler()

	return &Router{
		handlers: map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error){
			// Vehicle lifecycle
			"RegisterVehicle":     vehicleHandler.RegisterVehicle,
			"UpdateVehicleStatus": vehicleHandler.UpdateVehicleStatus,
			"UpdateLocation":      vehicleHandler.UpdateLocation,
			"UpdateMileage":       vehicleHandler.UpdateMileage,

			// Sensor lifecycle
			"RegisterSensor":     sensorHandler.RegisterSensor,
			"UpdateSensorStatus": sensorHandler.UpdateSensorStatus,

			// Operator management
			"AuthorizeOperator":   operatorHandler.AuthorizeOperator,
			"DeauthorizeOperator": operatorHandler.DeauthorizeOperator,
			"AssignOperator":      operatorHandler.AssignOperator,

			// Query functions
			"GetVehicle":           vehicleHandler.GetVehicle,
			"GetVehicleByVIN":      vehicleHandler.GetVehicleByVIN,
			"GetVehicleByPlate":    vehicleHandler.GetVehicleByPlate,
			"GetOwnerVehicles":     vehicleHandler.GetOwnerVehicles,
			"GetOperatorVehicles":  vehicleHandler.GetOperatorVehicles,
			"GetRegistryStats":     vehicleHandler.GetRegistryStats,
			"GetRegistryAdmin":     vehicleHandler.GetRegistryAdmin,
			"IsVehicleActive":      vehicleHandler.IsVehicleActive,
			"GetSensor":            sensorHandler.GetSensor,
			"GetVehicleSensors":    sensorHandler.GetVehicleSensors,
			"IsOperatorAuthorized": operatorHandler.IsOperatorAuthorized,
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
