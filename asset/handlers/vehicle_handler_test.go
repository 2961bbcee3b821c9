package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aximobility/mobility-ledger/asset/domain"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/ledgertest"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

func marshalRequest(t *testing.T, req interface{}) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func registerVehicle(t *testing.T, stub *ledgertest.Stub, h *VehicleHandler, owner, id, vin, plate, engineType string) domain.Vehicle {
	t.Helper()
	payload, err := h.RegisterVehicle(stub, []string{marshalRequest(t, domain.RegisterVehicleRequest{
		Caller:       owner,
		VehicleID:    id,
		VIN:          vin,
		Make:         "Volkswagen",
		Model:        "ID.3",
		Year:         2023,
		LicensePlate: plate,
		EngineType:   engineType,
	})})
	require.NoError(t, err)

	var vehicle domain.Vehicle
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	return vehicle
}

func getStats(t *testing.T, stub *ledgertest.Stub, h *VehicleHandler) domain.RegistryStats {
	t.Helper()
	payload, err := h.GetRegistryStats(stub, nil)
	require.NoError(t, err)
	var stats domain.RegistryStats
	require.NoError(t, json.Unmarshal(payload, &stats))
	return stats
}

func TestRegisterVehicle_Success(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	vehicle := registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "ELECTRIC")
	assert.Equal(t, "alice", vehicle.Owner)
	assert.Equal(t, validation.VehicleStatusActive, vehicle.Status)
	assert.Equal(t, uint32(0), vehicle.Mileage)
	assert.Empty(t, vehicle.Operator)
	assert.Nil(t, vehicle.Location)

	stats := getStats(t, stub, h)
	assert.Equal(t, uint32(1), stats.TotalVehicles)
	assert.Equal(t, uint32(1), stats.ActiveVehicles)
	assert.Equal(t, uint32(1), stats.ElectricVehicles)

	payload, err := h.GetOwnerVehicles(stub, []string{"alice"})
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal(payload, &ids))
	assert.Equal(t, []string{"veh-1"}, ids)
}

func TestRegisterVehicle_UniquenessChecks(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "DIESEL")

	tests := []struct {
		name string
		req  domain.RegisterVehicleRequest
		want string
	}{
		{
			name: "duplicate vehicle id",
			req:  domain.RegisterVehicleRequest{Caller: "bob", VehicleID: "veh-1", VIN: "VIN00002", Make: "BMW", LicensePlate: "B-AX-200", EngineType: "DIESEL"},
			want: "already registered",
		},
		{
			name: "duplicate VIN",
			req:  domain.RegisterVehicleRequest{Caller: "bob", VehicleID: "veh-2", VIN: "VIN00001", Make: "BMW", LicensePlate: "B-AX-200", EngineType: "DIESEL"},
			want: "VIN",
		},
		{
			name: "duplicate license plate",
			req:  domain.RegisterVehicleRequest{Caller: "bob", VehicleID: "veh-2", VIN: "VIN00002", Make: "BMW", LicensePlate: "B-AX-100", EngineType: "DIESEL"},
			want: "license plate",
		},
		{
			name: "missing VIN",
			req:  domain.RegisterVehicleRequest{Caller: "bob", VehicleID: "veh-2", Make: "BMW", LicensePlate: "B-AX-200", EngineType: "DIESEL"},
			want: "vin",
		},
		{
			name: "unknown engine type",
			req:  domain.RegisterVehicleRequest{Caller: "bob", VehicleID: "veh-2", VIN: "VIN00002", Make: "BMW", LicensePlate: "B-AX-200", EngineType: "STEAM"},
			want: "invalid status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.RegisterVehicle(stub, []string{marshalRequest(t, tt.req)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	stats := getStats(t, stub, h)
	assert.Equal(t, uint32(1), stats.TotalVehicles)
}

func TestUpdateVehicleStatus_ActiveCounter(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "HYBRID")
	registerVehicle(t, stub, h, "alice", "veh-2", "VIN00002", "B-AX-200", "HYBRID")
	assert.Equal(t, uint32(2), getStats(t, stub, h).ActiveVehicles)

	updateStatus := func(id, status string) error {
		_, err := h.UpdateVehicleStatus(stub, []string{marshalRequest(t, domain.UpdateVehicleStatusRequest{
			Caller: "alice", VehicleID: id, NewStatus: status,
		})})
		return err
	}

	// Leaving ACTIVE decrements once.
	require.NoError(t, updateStatus("veh-1", "MAINTENANCE"))
	assert.Equal(t, uint32(1), getStats(t, stub, h).ActiveVehicles)

	// Moving between two non-active states leaves the counter alone.
	require.NoError(t, updateStatus("veh-1", "SUSPENDED"))
	assert.Equal(t, uint32(1), getStats(t, stub, h).ActiveVehicles)

	// Re-entering ACTIVE increments once.
	require.NoError(t, updateStatus("veh-1", "ACTIVE"))
	assert.Equal(t, uint32(2), getStats(t, stub, h).ActiveVehicles)

	// A self transition to ACTIVE does not double count.
	require.NoError(t, updateStatus("veh-1", "ACTIVE"))
	assert.Equal(t, uint32(2), getStats(t, stub, h).ActiveVehicles)

	require.NoError(t, updateStatus("veh-1", "DEREGISTERED"))
	require.NoError(t, updateStatus("veh-2", "INACTIVE"))
	assert.Equal(t, uint32(0), getStats(t, stub, h).ActiveVehicles)
}

func TestUpdateVehicleStatus_Authorization(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "GASOLINE")

	_, err := h.UpdateVehicleStatus(stub, []string{marshalRequest(t, domain.UpdateVehicleStatusRequest{
		Caller: "mallory", VehicleID: "veh-1", NewStatus: "SUSPENDED",
	})})
	assert.Error(t, err)

	// The registry administrator may suspend any vehicle.
	require.NoError(t, stub.PutState(config.RegistryAdminKey, []byte("admin-1")))
	_, err = h.UpdateVehicleStatus(stub, []string{marshalRequest(t, domain.UpdateVehicleStatusRequest{
		Caller: "admin-1", VehicleID: "veh-1", NewStatus: "SUSPENDED",
	})})
	assert.NoError(t, err)
}

func TestUpdateMileage_Monotonic(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "GASOLINE")

	update := func(mileage uint32) error {
		_, err := h.UpdateMileage(stub, []string{marshalRequest(t, domain.UpdateMileageRequest{
			Caller: "alice", VehicleID: "veh-1", Mileage: mileage,
		})})
		return err
	}

	require.NoError(t, update(1000))
	require.NoError(t, update(1000))
	assert.Error(t, update(999))

	payload, err := h.GetVehicle(stub, []string{"veh-1"})
	require.NoError(t, err)
	var vehicle domain.Vehicle
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	assert.Equal(t, uint32(1000), vehicle.Mileage)
}

func TestUpdateLocation(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "GASOLINE")

	stub.SetTxTime(1700000200, 0)
	payload, err := h.UpdateLocation(stub, []string{marshalRequest(t, domain.UpdateLocationRequest{
		Caller: "alice", VehicleID: "veh-1", Latitude: 52520000, Longitude: 13405000,
	})})
	require.NoError(t, err)

	var vehicle domain.Vehicle
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	require.NotNil(t, vehicle.Location)
	assert.Equal(t, int32(52520000), vehicle.Location.Latitude)
	assert.Equal(t, int32(13405000), vehicle.Location.Longitude)
	assert.Equal(t, int64(1700000200), vehicle.Location.Timestamp)

	// A second update overwrites unconditionally.
	payload, err = h.UpdateLocation(stub, []string{marshalRequest(t, domain.UpdateLocationRequest{
		Caller: "alice", VehicleID: "veh-1", Latitude: 48137000, Longitude: 11575000,
	})})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	assert.Equal(t, int32(48137000), vehicle.Location.Latitude)
}

func TestVehicleLookups(t *testing.T) {
	stub := ledgertest.NewStub("asset", nil)
	h := NewVehicleHandler()

	registerVehicle(t, stub, h, "alice", "veh-1", "VIN00001", "B-AX-100", "ELECTRIC")

	payload, err := h.GetVehicleByVIN(stub, []string{"VIN00001"})
	require.NoError(t, err)
	var vehicle domain.Vehicle
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	assert.Equal(t, "veh-1", vehicle.ID)

	payload, err = h.GetVehicleByPlate(stub, []string{"B-AX-100"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &vehicle))
	assert.Equal(t, "veh-1", vehicle.ID)

	_, err = h.GetVehicleByVIN(stub, []string{"VIN99999"})
	assert.Error(t, err)

	activePayload, err := h.IsVehicleActive(stub, []string{"veh-1"})
	require.NoError(t, err)
	assert.Equal(t, "true", string(activePayload))

	activePayload, err = h.IsVehicleActive(stub, []string{"veh-unknown"})
	require.NoError(t, err)
	assert.Equal(t, "false", string(activePayload))
}
