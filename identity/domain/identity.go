package domain

import (
	"fmt"

	"github.com/aximobility/mobility-ledger/shared/validation"
)

// DIDDocument is the on-ledger identity document. The id and entity type are
// immutable once created.
type DIDDocument struct {
	ID              string                `json:"id"`
	Controller      string                `json:"controller"`
	PublicKey       string                `json:"publicKey"` // 32 bytes, hex encoded
	ServiceEndpoint string                `json:"serviceEndpoint"`
	Created         int64                 `json:"created"`
	Updated         int64                 `json:"updated"`
	Status          validation.DIDStatus  `json:"status"`
	EntityType      validation.EntityType `json:"entityType"`
}

// VehicleDIDMetadata is the type-specific metadata attached to a vehicle DID.
type VehicleDIDMetadata struct {
	VIN          string                `json:"vin"`
	Make         string                `json:"make"`
	Model        string                `json:"model"`
	Year         uint16                `json:"year"`
	LicensePlate string                `json:"licensePlate"`
	EngineType   validation.EngineType `json:"engineType"`
}

// SensorDIDMetadata is the type-specific metadata attached to a sensor DID.
type SensorDIDMetadata struct {
	SensorType       string `json:"sensorType"`
	Manufacturer     string `json:"manufacturer"`
	Model            string `json:"model"`
	Accuracy         string `json:"accuracy"`
	ParentVehicleDID string `json:"parentVehicleDID,omitempty"`
}

// IdentityStats is the aggregate statistics record for the identity registry.
type IdentityStats struct {
	TotalIdentities uint32 `json:"totalIdentities"`
}

// AuthorizationSet holds the principals delegated access to a DID. Map-backed
// for O(1) membership; exported accessors keep set semantics explicit.
type AuthorizationSet map[string]bool

// Contains reports set membership.
func (s AuthorizationSet) Contains(principal string) bool {
	return s[principal]
}

// Add inserts a principal, reporting whether it was newly added.
func (s AuthorizationSet) Add(principal string) bool {
	if s[principal] {
		return false
	}
	s[principal] = true
	return true
}

// Remove deletes a principal, reporting whether it was present.
func (s AuthorizationSet) Remove(principal string) bool {
	if !s[principal] {
		return false
	}
	delete(s, principal)
	return true
}

// CreateIdentityRequest registers a new DID document of any entity type.
// Vehicle metadata is required for VEHICLE identities and sensor metadata for
// SENSOR identities; the other kinds carry none.
type CreateIdentityRequest struct {
	Caller          string              `json:"caller"`
	DID             string              `json:"did"`
	EntityType      string              `json:"entityType"`
	PublicKey       string              `json:"publicKey"`
	ServiceEndpoint string              `json:"serviceEndpoint"`
	Vehicle         *VehicleDIDMetadata `json:"vehicle,omitempty"`
	Sensor          *SensorDIDMetadata  `json:"sensor,omitempty"`
}

// UpdateIdentityRequest rotates the key material and endpoint of a DID.
type UpdateIdentityRequest struct {
	Caller          string `json:"caller"`
	DID             string `json:"did"`
	PublicKey       string `json:"publicKey"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// RevokeIdentityRequest revokes a DID with a reason.
type RevokeIdentityRequest struct {
	Caller string `json:"caller"`
	DID    string `json:"did"`
	Reason string `json:"reason"`
}

// AuthorizationRequest grants or revokes delegated access on a DID.
type AuthorizationRequest struct {
	Caller  string `json:"caller"`
	DID     string `json:"did"`
	Account string `json:"account"`
}

// ValidateCreateIdentityRequest validates a registration request.
func ValidateCreateIdentityRequest(req *CreateIdentityRequest) error {
	if err := validation.ValidateRequired(map[string]string{
		"caller":    req.Caller,
		"did":       req.DID,
		"publicKey": req.PublicKey,
	}); err != nil {
		return err
	}

	if err := validation.ValidateDIDFormat(req.DID); err != nil {
		return err
	}

	if err := validation.ValidateEntityType(req.EntityType); err != nil {
		return err
	}

	if err := validation.ValidateHash32("publicKey", req.PublicKey); err != nil {
		return err
	}

	switch validation.EntityType(req.EntityType) {
	case validation.EntityTypeVehicle:
		if req.Vehicle == nil {
			return fmt.Errorf("vehicle metadata is required for VEHICLE identities")
		}
		if err := validation.ValidateEngineType(string(req.Vehicle.EngineType)); err != nil {
			return err
		}
	case validation.EntityTypeSensor:
		if req.Sensor == nil {
			return fmt.Errorf("sensor metadata is required for SENSOR identities")
		}
		if req.Sensor.ParentVehicleDID != "" {
			if err := validation.ValidateDIDFormat(req.Sensor.ParentVehicleDID); err != nil {
				return fmt.Errorf("invalid parent vehicle DID: %v", err)
			}
		}
	}

	return nil
}

// ValidateUpdateIdentityRequest validates an update request.
func ValidateUpdateIdentityRequest(req *UpdateIdentityRequest) error {
	if err := validation.ValidateRequired(map[string]string{
		"caller":    req.Caller,
		"did":       req.DID,
		"publicKey": req.PublicKey,
	}); err != nil {
		return err
	}
	return validation.ValidateHash32("publicKey", req.PublicKey)
}
