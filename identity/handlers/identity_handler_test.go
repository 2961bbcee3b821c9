package handlers

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aximobility/mobility-ledger/identity/domain"
	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/ledgertest"
	"github.com/aximobility/mobility-ledger/shared/validation"
)

var testPublicKey = strings.Repeat("ab", 32)

func marshalRequest(t *testing.T, req interface{}) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func createUserIdentity(t *testing.T, stub *ledgertest.Stub, h *IdentityHandler, caller, did string) domain.DIDDocument {
	t.Helper()
	payload, err := h.CreateIdentity(stub, []string{marshalRequest(t, domain.CreateIdentityRequest{
		Caller:     caller,
		DID:        did,
		EntityType: "USER",
		PublicKey:  testPublicKey,
	})})
	require.NoError(t, err)

	var doc domain.DIDDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	return doc
}

func TestCreateIdentity_Success(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	doc := createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")
	assert.Equal(t, "did:peaq:user-1", doc.ID)
	assert.Equal(t, "alice", doc.Controller)
	assert.Equal(t, validation.DIDStatusActive, doc.Status)
	assert.Equal(t, validation.EntityTypeUser, doc.EntityType)
	assert.Equal(t, doc.Created, doc.Updated)

	statsPayload, err := h.GetIdentityStats(stub, nil)
	require.NoError(t, err)
	var stats domain.IdentityStats
	require.NoError(t, json.Unmarshal(statsPayload, &stats))
	assert.Equal(t, uint32(1), stats.TotalIdentities)
}

func TestCreateIdentity_DuplicateDID(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")

	_, err := h.CreateIdentity(stub, []string{marshalRequest(t, domain.CreateIdentityRequest{
		Caller:     "bob",
		DID:        "did:peaq:user-1",
		EntityType: "USER",
		PublicKey:  testPublicKey,
	})})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateIdentity_ValidationErrors(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	tests := []struct {
		name string
		req  domain.CreateIdentityRequest
	}{
		{
			name: "missing caller",
			req:  domain.CreateIdentityRequest{DID: "did:peaq:x", EntityType: "USER", PublicKey: testPublicKey},
		},
		{
			name: "wrong DID scheme",
			req:  domain.CreateIdentityRequest{Caller: "alice", DID: "did:ethr:x", EntityType: "USER", PublicKey: testPublicKey},
		},
		{
			name: "unknown entity type",
			req:  domain.CreateIdentityRequest{Caller: "alice", DID: "did:peaq:x", EntityType: "ROBOT", PublicKey: testPublicKey},
		},
		{
			name: "malformed public key",
			req:  domain.CreateIdentityRequest{Caller: "alice", DID: "did:peaq:x", EntityType: "USER", PublicKey: "abcd"},
		},
		{
			name: "vehicle identity without metadata",
			req:  domain.CreateIdentityRequest{Caller: "alice", DID: "did:peaq:x", EntityType: "VEHICLE", PublicKey: testPublicKey},
		},
		{
			name: "sensor identity without metadata",
			req:  domain.CreateIdentityRequest{Caller: "alice", DID: "did:peaq:x", EntityType: "SENSOR", PublicKey: testPublicKey},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.CreateIdentity(stub, []string{marshalRequest(t, tt.req)})
			assert.Error(t, err)
		})
	}
}

func TestCreateIdentity_VehicleMetadataStored(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	_, err := h.CreateIdentity(stub, []string{marshalRequest(t, domain.CreateIdentityRequest{
		Caller:     "alice",
		DID:        "did:peaq:vehicle-1",
		EntityType: "VEHICLE",
		PublicKey:  testPublicKey,
		Vehicle: &domain.VehicleDIDMetadata{
			VIN:        "WVWZZZ1JZXW000001",
			Make:       "Volkswagen",
			Model:      "ID.3",
			Year:       2023,
			EngineType: validation.EngineTypeElectric,
		},
	})})
	require.NoError(t, err)

	payload, err := h.GetVehicleMetadata(stub, []string{"did:peaq:vehicle-1"})
	require.NoError(t, err)
	var meta domain.VehicleDIDMetadata
	require.NoError(t, json.Unmarshal(payload, &meta))
	assert.Equal(t, "WVWZZZ1JZXW000001", meta.VIN)
	assert.Equal(t, validation.EngineTypeElectric, meta.EngineType)
}

func TestCreateIdentity_SensorParentVehicle(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	sensorReq := func(did string) string {
		return marshalRequest(t, domain.CreateIdentityRequest{
			Caller:     "alice",
			DID:        did,
			EntityType: "SENSOR",
			PublicKey:  testPublicKey,
			Sensor: &domain.SensorDIDMetadata{
				SensorType:       "GPS",
				ParentVehicleDID: "did:peaq:vehicle-1",
			},
		})
	}

	// Parent not registered yet.
	_, err := h.CreateIdentity(stub, []string{sensorReq("did:peaq:sensor-1")})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "parent vehicle DID")

	_, err = h.CreateIdentity(stub, []string{marshalRequest(t, domain.CreateIdentityRequest{
		Caller:     "alice",
		DID:        "did:peaq:vehicle-1",
		EntityType: "VEHICLE",
		PublicKey:  testPublicKey,
		Vehicle:    &domain.VehicleDIDMetadata{VIN: "VIN1", Make: "Make", EngineType: validation.EngineTypeHybrid},
	})})
	require.NoError(t, err)

	_, err = h.CreateIdentity(stub, []string{sensorReq("did:peaq:sensor-1")})
	require.NoError(t, err)

	// A revoked parent still satisfies the existence check.
	_, err = h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "alice", DID: "did:peaq:vehicle-1", Reason: "decommissioned",
	})})
	require.NoError(t, err)

	_, err = h.CreateIdentity(stub, []string{sensorReq("did:peaq:sensor-2")})
	assert.NoError(t, err)
}

func TestUpdateIdentity(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")
	newKey := strings.Repeat("cd", 32)

	// Stranger is rejected.
	_, err := h.UpdateIdentity(stub, []string{marshalRequest(t, domain.UpdateIdentityRequest{
		Caller: "mallory", DID: "did:peaq:user-1", PublicKey: newKey,
	})})
	assert.Error(t, err)

	// Controller rotates the key.
	stub.SetTxTime(1700000100, 0)
	payload, err := h.UpdateIdentity(stub, []string{marshalRequest(t, domain.UpdateIdentityRequest{
		Caller: "alice", DID: "did:peaq:user-1", PublicKey: newKey, ServiceEndpoint: "https://example.com",
	})})
	require.NoError(t, err)

	var doc domain.DIDDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, newKey, doc.PublicKey)
	assert.Equal(t, "https://example.com", doc.ServiceEndpoint)
	assert.Equal(t, int64(1700000100), doc.Updated)

	// A delegated account may update too.
	_, err = h.GrantAuthorization(stub, []string{marshalRequest(t, domain.AuthorizationRequest{
		Caller: "alice", DID: "did:peaq:user-1", Account: "bob",
	})})
	require.NoError(t, err)

	_, err = h.UpdateIdentity(stub, []string{marshalRequest(t, domain.UpdateIdentityRequest{
		Caller: "bob", DID: "did:peaq:user-1", PublicKey: testPublicKey,
	})})
	assert.NoError(t, err)
}

func TestUpdateIdentity_RevokedDID(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")
	_, err := h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "alice", DID: "did:peaq:user-1",
	})})
	require.NoError(t, err)

	_, err = h.UpdateIdentity(stub, []string{marshalRequest(t, domain.UpdateIdentityRequest{
		Caller: "alice", DID: "did:peaq:user-1", PublicKey: testPublicKey,
	})})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not active")
}

func TestRevokeIdentity(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")

	// Stranger is rejected.
	_, err := h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "mallory", DID: "did:peaq:user-1",
	})})
	assert.Error(t, err)

	payload, err := h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "alice", DID: "did:peaq:user-1", Reason: "key compromised",
	})})
	require.NoError(t, err)

	var doc domain.DIDDocument
	require.NoError(t, json.Unmarshal(payload, &doc))
	assert.Equal(t, validation.DIDStatusRevoked, doc.Status)

	// Revoking again is a tolerated retry.
	_, err = h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "alice", DID: "did:peaq:user-1",
	})})
	assert.NoError(t, err)

	activePayload, err := h.IsIdentityActive(stub, []string{"did:peaq:user-1"})
	require.NoError(t, err)
	assert.Equal(t, "false", string(activePayload))
}

func TestRevokeIdentity_ByAdmin(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	require.NoError(t, stub.PutState(config.RegistryAdminKey, []byte("admin-1")))
	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")

	_, err := h.RevokeIdentity(stub, []string{marshalRequest(t, domain.RevokeIdentityRequest{
		Caller: "admin-1", DID: "did:peaq:user-1", Reason: "fraud",
	})})
	assert.NoError(t, err)
}

func TestAuthorizations(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")

	// Only the controller can grant.
	_, err := h.GrantAuthorization(stub, []string{marshalRequest(t, domain.AuthorizationRequest{
		Caller: "bob", DID: "did:peaq:user-1", Account: "bob",
	})})
	assert.Error(t, err)

	for _, account := range []string{"carol", "bob"} {
		_, err = h.GrantAuthorization(stub, []string{marshalRequest(t, domain.AuthorizationRequest{
			Caller: "alice", DID: "did:peaq:user-1", Account: account,
		})})
		require.NoError(t, err)
	}

	// Granting an existing member is a no-op.
	_, err = h.GrantAuthorization(stub, []string{marshalRequest(t, domain.AuthorizationRequest{
		Caller: "alice", DID: "did:peaq:user-1", Account: "bob",
	})})
	require.NoError(t, err)

	payload, err := h.GetAuthorizations(stub, []string{"did:peaq:user-1"})
	require.NoError(t, err)
	var accounts []string
	require.NoError(t, json.Unmarshal(payload, &accounts))
	assert.Equal(t, []string{"bob", "carol"}, accounts)

	verify := func(account string) bool {
		payload, err := h.VerifyAccess(stub, []string{"did:peaq:user-1", account})
		require.NoError(t, err)
		var ok bool
		require.NoError(t, json.Unmarshal(payload, &ok))
		return ok
	}

	assert.True(t, verify("alice"))
	assert.True(t, verify("bob"))
	assert.False(t, verify("mallory"))

	_, err = h.RevokeAuthorization(stub, []string{marshalRequest(t, domain.AuthorizationRequest{
		Caller: "alice", DID: "did:peaq:user-1", Account: "bob",
	})})
	require.NoError(t, err)
	assert.False(t, verify("bob"))

	// Unknown DIDs verify as false rather than erroring.
	payload, err = h.VerifyAccess(stub, []string{"did:peaq:unknown", "alice"})
	require.NoError(t, err)
	assert.Equal(t, "false", string(payload))
}

func TestGetControllerIdentities_InsertionOrder(t *testing.T) {
	stub := ledgertest.NewStub("identity", nil)
	h := NewIdentityHandler()

	createUserIdentity(t, stub, h, "alice", "did:peaq:user-1")
	createUserIdentity(t, stub, h, "alice", "did:peaq:user-2")
	createUserIdentity(t, stub, h, "bob", "did:peaq:user-3")

	payload, err := h.GetControllerIdentities(stub, []string{"alice"})
	require.NoError(t, err)
	var dids []string
	require.NoError(t, json.Unmarshal(payload, &dids))
	assert.Equal(t, []string{"did:peaq:user-1", "did:peaq:user-2"}, dids)

	payload, err = h.GetControllerIdentities(stub, []string{"nobody"})
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(payload, &dids))
	assert.Empty(t, dids)
}
