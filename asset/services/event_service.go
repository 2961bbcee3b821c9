package services

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/asset/domain"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/services"
)

// EventService handles event emission for asset registry operations
type EventService struct {
	*services.BaseEventService
}

// NewEventService creates a new event service
func NewEventService() *EventService {
	return &EventService{
		BaseEventService: services.NewBaseEventService(),
	}
}

// EmitVehicleRegistered emits a vehicle registered event
func (es *EventService) EmitVehicleRegistered(stub shim.ChaincodeStubInterface, vehicle *domain.Vehicle) error {
	metadata := map[string]string{
		"vin":   vehicle.VIN,
		"make":  vehicle.Make,
		"model": vehicle.Model,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventVehicleRegistered,
		vehicle.ID,
		"Vehicle",
		vehicle.Owner,
		vehicle,
		metadata,
	)

	return es.EmitEvent(stub, config.EventVehicleRegistered, payload)
}

// EmitVehicleStatusChanged emits a status change event carrying both statuses
func (es *EventService) EmitVehicleStatusChanged(stub shim.ChaincodeStubInterface, vehicle *domain.Vehicle, oldStatus, newStatus, caller string) error {
	metadata := map[string]string{
		"oldStatus": oldStatus,
		"newStatus": newStatus,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventVehicleStatusChanged,
		vehicle.ID,
		"Vehicle",
		caller,
		vehicle,
		metadata,
	)

	return es.EmitEvent(stub, config.EventVehicleStatusChanged, payload)
}

// EmitSensorRegistered emits a sensor registered event
func (es *EventService) EmitSensorRegistered(stub shim.ChaincodeStubInterface, sensor *domain.Sensor, caller string) error {
	metadata := map[string]string{
		"vehicleID":  sensor.VehicleID,
		"sensorType": string(sensor.SensorType),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventSensorRegistered,
		sensor.ID,
		"Sensor",
		caller,
		sensor,
		metadata,
	)

	return es.EmitEvent(stub, config.EventSensorRegistered, payload)
}

// EmitSensorStatusChanged emits a sensor status change event
func (es *EventService) EmitSensorStatusChanged(stub shim.ChaincodeStubInterface, sensor *domain.Sensor, oldStatus, newStatus, caller string) error {
	metadata := map[string]string{
		"oldStatus": oldStatus,
		"newStatus": newStatus,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventSensorStatusChanged,
		sensor.ID,
		"Sensor",
		caller,
		sensor,
		metadata,
	)

	return es.EmitEvent(stub, config.EventSensorStatusChanged, payload)
}

// EmitOperatorAssigned emits an operator assignment event
func (es *EventService) EmitOperatorAssigned(stub shim.ChaincodeStubInterface, vehicle *domain.Vehicle, caller string) error {
	metadata := map[string]string{
		"operator": vehicle.Operator,
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventOperatorAssigned,
		vehicle.ID,
		"Vehicle",
		caller,
		vehicle,
		metadata,
	)

	return es.EmitEvent(stub, config.EventOperatorAssigned, payload)
}

// EmitLocationUpdated emits a location update event on every call
func (es *EventService) EmitLocationUpdated(stub shim.ChaincodeStubInterface, vehicle *domain.Vehicle, caller string) error {
	metadata := map[string]string{
		"latitude":  fmt.Sprintf("%d", vehicle.Location.Latitude),
		"longitude": fmt.Sprintf("%d", vehicle.Location.Longitude),
	}

	payload := es.CreateEventPayloadWithMetadata(
		stub,
		config.EventLocationUpdated,
		vehicle.ID,
		"Vehicle",
		caller,
		vehicle.Location,
		metadata,
	)

	return es.EmitEvent(stub, config.EventLocationUpdated, payload)
}
