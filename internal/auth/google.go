package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// GoogleClaims is the subset of Google's tokeninfo response we rely on.
type GoogleClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Audience      string `json:"aud"`
	Name          string `json:"name"`
}

// GoogleVerifier validates Google ID tokens against the tokeninfo endpoint.
type GoogleVerifier struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleVerifier creates a verifier. clientID may be empty, in which case
// the audience check is skipped (useful for local development).
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:   clientID,
		baseURL:    googleTokenInfoURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Verify checks the ID token with Google and returns its claims.
func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*GoogleClaims, error) {
	endpoint := v.baseURL + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call tokeninfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected token (status %d)", resp.StatusCode)
	}

	var claims GoogleClaims
	if err := json.NewDecoder(resp.Body).Decode(&claims); err != nil {
		return nil, fmt.Errorf("decode tokeninfo response: %w", err)
	}

	if v.clientID != "" && claims.Audience != v.clientID {
		return nil, fmt.Errorf("token audience mismatch")
	}
	if claims.EmailVerified != "true" {
		return nil, fmt.Errorf("google account email is not verified")
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("tokeninfo response missing email")
	}

	return &claims, nil
}
