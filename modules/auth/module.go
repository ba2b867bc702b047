package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// AuthModule provides token verification services. It stands in for the
// external identity provider from the rest of the application's point of
// view: other modules only ever see "verify-token".
type AuthModule struct {
	verifier Verifier
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule with the JWT verifier configured from
// the environment.
func NewModule() *AuthModule {
	return &AuthModule{
		verifier: NewJWTVerifier(loadJWTConfig()),
	}
}

// NewModuleWithVerifier creates a new AuthModule with a custom verifier.
func NewModuleWithVerifier(verifier Verifier) *AuthModule {
	return &AuthModule{verifier: verifier}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		"verify-token",
		json.Unmarshal,
		json.Marshal,
		m.handleVerifyToken,
	); err != nil {
		return fmt.Errorf("failed to register verify-token service: %w", err)
	}

	log.Printf("[auth] Registered services: verify-token")
	return nil
}

// handleVerifyToken handles token verification requests.
func (m *AuthModule) handleVerifyToken(_ context.Context, req VerifyTokenRequest, _ *mono.Msg) (VerifyTokenResponse, error) {
	ownerID, err := m.verifier.Verify(req.Token)
	if err != nil {
		errMsg := "invalid token"
		if errors.Is(err, ErrExpiredToken) {
			errMsg = "token expired"
		}
		return VerifyTokenResponse{
			Valid: false,
			Error: errMsg,
		}, nil // Return response, not error, for verification failures
	}

	return VerifyTokenResponse{
		Valid:   true,
		OwnerID: ownerID,
	}, nil
}

// Start initializes the module.
func (m *AuthModule) Start(_ context.Context) error {
	if m.verifier == nil {
		return fmt.Errorf("verifier not set")
	}
	log.Println("[auth] Module started")
	return nil
}

// Stop shuts down the module.
func (m *AuthModule) Stop(_ context.Context) error {
	log.Println("[auth] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.verifier != nil,
		Message: "operational",
	}
}
