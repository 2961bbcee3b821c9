package chaincode

import (
	"fmt"

	"github.com/hyperledger/fabric-chaincode-go/shim"

	"github.com/aximobility/mobility-ledger/identity/handlers"
)

// Router handles function routing for the identity registry chaincode
type Router struct {
	handlers map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error)
}

// NewRouter creates a new router with all handler mappings
func NewRouter() *Router {
	identityHandler := handlers.NewIdentityHandler()

	return &Router{
		handlers: map[string]func(shim.ChaincodeStubInterface, []string) ([]byte, error){
			// Identity lifecycle
			"CreateIdentity": identityHandler.CreateIdentity,
			"UpdateIdentity": identityHandler.UpdateIdentity,
			"RevokeIdentity": identityHandler.RevokeIdentity,

			// Delegated authorization
			"GrantAuthorization":  identityHandler.GrantAuthorization,
			"RevokeAuthorization": identityHandler.RevokeAuthorization,

			// Query functions
			"GetIdentity":             identityHandler.GetIdentity,
			"GetVehicleMetadata":      identityHandler.GetVehicleMetadata,
			"GetSensorMetadata":       identityHandler.GetSensorMetadata,
			"GetControllerIdentities": identityHandler.GetControllerIdentities,
			"GetAuthorizations":       identityHandler.GetAuthorizations,
			"VerifyAccess":            identityHandler.VerifyAccess,
			"IsIdentityActive":        identityHandler.IsIdentityActive,
			"GetIdentityStats":        identityHandler.GetIdentityStats,
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
