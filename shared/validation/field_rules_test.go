package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired(map[string]string{"a": "x", "b": "y"}))

	err := ValidateRequired(map[string]string{"caller": ""})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "caller")
}

func TestValidateDIDFormat(t *testing.T) {
	assert.NoError(t, ValidateDIDFormat("did:peaq:vehicle-1"))
	assert.Error(t, ValidateDIDFormat("did:peaq:"))
	assert.Error(t, ValidateDIDFormat("did:ethr:vehicle-1"))
	assert.Error(t, ValidateDIDFormat("vehicle-1"))
	assert.Error(t, ValidateDIDFormat(""))
}

func TestValidateHash32(t *testing.T) {
	assert.NoError(t, ValidateHash32("dataHash", strings.Repeat("ab", 32)))
	assert.Error(t, ValidateHash32("dataHash", strings.Repeat("ab", 31)))
	assert.Error(t, ValidateHash32("dataHash", strings.Repeat("zz", 32)))
	assert.Error(t, ValidateHash32("dataHash", ""))
}
