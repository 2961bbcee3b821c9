package validation

import (
	"fmt"
	"strings"

	"github.com/aximobility/mobility-ledger/shared/config"
	"github.com/aximobility/mobility-ledger/shared/utils"
)

// ValidateRequired checks if required fields are not empty
func ValidateRequired(fields map[string]string) error {
	for fieldName, value := range fields {
		if value == "" {
			return fmt.Errorf("required field '%s' is empty", fieldName)
		}
	}
	return nil
}

// ValidateDIDFormat checks the required DID scheme prefix and minimum length.
func ValidateDIDFormat(did string) error {
	if !strings.HasPrefix(did, config.DIDSchemePrefix) || len(did) < config.MinDIDLength {
		return fmt.Errorf("invalid DID format: %s", did)
	}
	return nil
}

// ValidateHash32 checks that a value is a hex-encoded 32-byte hash.
func ValidateHash32(fieldName, hexHash string) error {
	if !utils.IsHash32(hexHash) {
		return fmt.Errorf("field '%s' must be a hex-encoded 32-byte hash", fieldName)
	}
	return nil
}
