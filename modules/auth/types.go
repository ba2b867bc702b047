package auth

// VerifyTokenRequest is the request for verifying a bearer token.
type VerifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyTokenResponse is the response for verifying a bearer token.
// Verification failures come back as Valid=false with Error set, not as a
// service error, so callers can distinguish a bad token from an outage.
type VerifyTokenResponse struct {
	Valid   bool   `json:"valid"`
	OwnerID string `json:"ownerId,omitempty"`
	Error   string `json:"error,omitempty"`
}
