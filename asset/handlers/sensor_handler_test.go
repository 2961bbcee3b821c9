package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aximobility/mobility-ledger/asset/domain"
	"github.com/aximobility/mobility-ledger/shared/ledgertest"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

func registerSensor(t *testing.T, stub *ledgertest.Stub, h *SensorHandler, caller, sensorID, vehicleID string) domain.Sensor {
	t.Helper()
	payload, err := h.RegisterSensor(stub, []string{marshalRequest(t, domain.RegisterSensorRequest{
		Caller:       caller,
		SensorID:     sensorID,
		VehicleID:    vehicleID,
		SensorType:   "GPS",
		Manufacturer: "Bosch",
		Model:        "GPS-500",
		Accuracy:     "2.5m",
	})})
	require.NoError(t, err)

	var sensor domain.Sensor
	require.NoError(t, json.Unmarshal(payload, &sensor))
	return sensor
}

func TestRegisterSensor(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	vh := NewVehicleHandler()
	sh := NewSensorHandler()

	registerVehicle(t, stub, vh, "alice", "veh-1", "VIN00001", "B-AX-100", "ELECTRIC")

	sensor := registerSensor(t, stub, sh, "alice", "sen-1", "veh-1")
	assert.Equal(t, validation.SensorStatusActive, sensor.Status)
	assert.Equal(t, "veh-1", sensor.VehicleID)
	assert.Equal(t, sensor.InstalledAt, sensor.LastCalibrated)

	stats := getStats(t, stub, vh)
	assert.Equal(t, uint32(1), stats.TotalSensors)
	assert.Equal(t, uint32(1), stats.ActiveSensors)

	payload, err := sh.GetVehicleSensors(stub, []string{"veh-1"})
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(payload, &ids))
	assert.Equal(t, []string{"sen-1"}, ids)
}

func TestRegisterSensor_Rejections(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	vh := NewVehicleHandler()
	sh := NewSensorHandler()

	registerVehicle(t, stub, vh, "alice", "veh-1", "VIN00001", "B-AX-100", "ELECTRIC")
	registerSensor(t, stub, sh, "alice", "sen-1", "veh-1")

	// Unknown vehicle.
	_, err := sh.RegisterSensor(stub, []string{marshalRequest(t, domain.RegisterSensorRequest{
		Caller: "alice", SensorID: "sen-2", VehicleID: "veh-unknown", SensorType: "GPS",
	})})
	assert.Error(t, err)

	// Caller without manage access.
	_, err = sh.RegisterSensor(stub, []string{marshalRequest(t, domain.RegisterSensorRequest{
		Caller: "mallory", SensorID: "sen-2", VehicleID: "veh-1", SensorType: "GPS",
	})})
	assert.Error(t, err)

	// Duplicate sensor id.
	_, err = sh.RegisterSensor(stub, []string{marshalRequest(t, domain.RegisterSensorRequest{
		Caller: "alice", SensorID: "sen-1", VehicleID: "veh-1", SensorType: "GPS",
	})})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")

	// Unknown sensor type.
	_, err = sh.RegisterSensor(stub, []string{marshalRequest(t, domain.RegisterSensorRequest{
		Caller: "alice", SensorID: "sen-2", VehicleID: "veh-1", SensorType: "SONAR",
	})})
	assert.Error(t, err)
}

func TestUpdateSensorStatus(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	vh := NewVehicleHandler()
	sh := NewSensorHandler()

	registerVehicle(t, stub, vh, "alice", "veh-1", "VIN00001", "B-AX-100", "ELECTRIC")
	registerSensor(t, stub, sh, "alice", "sen-1", "veh-1")

	updateStatus := func(status string) domain.Sensor {
		payload, err := sh.UpdateSensorStatus(stub, []string{marshalRequest(t, domain.UpdateSensorStatusRequest{
			Caller: "alice", SensorID: "sen-1", NewStatus: status,
		})})
		require.NoError(t, err)
		var sensor domain.Sensor
		require.NoError(t, json.Unmarshal(payload, &sensor))
		return sensor
	}

	sensor := updateStatus("FAULTY")
	assert.Equal(t, validation.SensorStatusFaulty, sensor.Status)
	assert.Equal(t, uint32(0), getStats(t, stub, vh).ActiveSensors)

	updateStatus("CALIBRATING")
	assert.Equal(t, uint32(0), getStats(t, stub, vh).ActiveSensors)

	// Finishing a calibration refreshes the calibration timestamp.
	stub.SetTxTime(1700000500, 0)
	sensor = updateStatus("ACTIVE")
	assert.Equal(t, validation.SensorStatusActive, sensor.Status)
	assert.Equal(t, int64(1700000500), sensor.LastCalibrated)
	assert.Equal(t, uint32(1), getStats(t, stub, vh).ActiveSensors)

	// Unknown status values are rejected.
	_, err := sh.UpdateSensorStatus(stub, []string{marshalRequest(t, domain.UpdateSensorStatusRequest{
		Caller: "alice", SensorID: "sen-1", NewStatus: "BROKEN",
	})})
	assert.Error(t, err)

	// Strangers cannot flip sensor status.
	_, err = sh.UpdateSensorStatus(stub, []string{marshalRequest(t, domain.UpdateSensorStatusRequest{
		Caller: "mallory", SensorID: "sen-1", NewStatus: "INACTIVE",
	})})
	assert.Error(t, err)
}
