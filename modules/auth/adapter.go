package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// ErrUnauthorized is returned by the adapter when the token does not
// resolve to an owner identity.
var ErrUnauthorized = errors.New("unauthorized")

// AuthPort defines the interface other modules use to resolve a bearer
// token to an owner identity.
type AuthPort interface {
	VerifyToken(ctx context.Context, token string) (ownerID string, err error)
}

// authAdapter wraps ServiceContainer for type-safe cross-module communication.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for auth services.
// container is the ServiceContainer from the auth module received via
// SetDependencyServiceContainer.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	if container == nil {
		panic("auth adapter requires non-nil ServiceContainer")
	}
	return &authAdapter{container: container}
}

// VerifyToken resolves a bearer token via the verify-token service.
func (a *authAdapter) VerifyToken(ctx context.Context, token string) (string, error) {
	req := VerifyTokenRequest{Token: token}
	var resp VerifyTokenResponse

	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"verify-token",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", fmt.Errorf("verify-token service call failed: %w", err)
	}

	if !resp.Valid {
		return "", fmt.Errorf("%w: %s", ErrUnauthorized, resp.Error)
	}

	return resp.OwnerID, nil
}
