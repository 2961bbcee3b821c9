package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aximobility/mobility-ledger/telemetry/domain"
)

func TestVehicleAuthorization(t *testing.T) {
	stub, h, ah := newProcessorStub(t)

	authorized := func() bool {
		payload, err := ah.IsVehicleAuthorized(stub, []string{testVehicleHash})
		require.NoError(t, err)
		var ok bool
		require.NoError(t, json.Unmarshal(payload, &ok))
		return ok
	}

	assert.False(t, authorized())

	// Only the administrator may change the allow-list.
	_, err := ah.AuthorizeVehicle(stub, []string{mustMarshal(domain.VehicleAuthorizationRequest{
		Caller: "mallory", VehicleHash: testVehicleHash,
	})})
	assert.Error(t, err)
	assert.False(t, authorized())

	authorizeVehicle(t, stub, ah, testVehicleHash)
	assert.True(t, authorized())

	_, err = ah.DeauthorizeVehicle(stub, []string{mustMarshal(domain.VehicleAuthorizationRequest{
		Caller: "admin-1", VehicleHash: testVehicleHash,
	})})
	require.NoError(t, err)
	assert.False(t, authorized())

	// A deauthorized vehicle is rejected at ingestion again.
	_, err = processRecord(stub, h, testVehicleHash, 1, 80)
	assert.Error(t, err)
}

func TestToggleProcessing(t *testing.T) {
	stub, _, ah := newProcessorStub(t)

	enabled := func() bool {
		payload, err := ah.IsProcessingEnabled(stub, nil)
		require.NoError(t, err)
		var on bool
		require.NoError(t, json.Unmarshal(payload, &on))
		return on
	}

	// Processing starts enabled.
	assert.True(t, enabled())

	_, err := ah.ToggleProcessing(stub, []string{mustMarshal(domain.ToggleProcessingRequest{Caller: "mallory"})})
	assert.Error(t, err)
	assert.True(t, enabled())

	_, err = ah.ToggleProcessing(stub, []string{mustMarshal(domain.ToggleProcessingRequest{Caller: "admin-1"})})
	require.NoError(t, err)
	assert.False(t, enabled())

	_, err = ah.ToggleProcessing(stub, []string{mustMarshal(domain.ToggleProcessingRequest{Caller: "admin-1"})})
	require.NoError(t, err)
	assert.True(t, enabled())
}

func TestValidateRecord(t *testing.T) {
	stub, h, ah := newProcessorStub(t)
	authorizeVehicle(t, stub, ah, testVehicleHash)

	recordID, err := processRecord(stub, h, testVehicleHash, 1, 80)
	require.NoError(t, err)

	validate := func(caller string) error {
		_, err := ah.ValidateRecord(stub, []string{mustMarshal(domain.ValidateRecordRequest{
			Caller: caller, RecordID: recordID,
		})})
		return err
	}

	assert.Error(t, validate("mallory"))
	require.NoError(t, validate("admin-1"))

	payload, err := h.GetRecord(stub, []string{recordID})
	require.NoError(t, err)
	var record domain.TelemetryRecord
	require.NoError(t, json.Unmarshal(payload, &record))
	assert.True(t, record.Validated)

	// Validation is one-shot.
	err = validate("admin-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already validated")

	// Unknown records error out.
	_, err = ah.ValidateRecord(stub, []string{mustMarshal(domain.ValidateRecordRequest{
		Caller: "admin-1", RecordID: testDataHash,
	})})
	assert.Error(t, err)
}
