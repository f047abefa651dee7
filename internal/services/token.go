package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/soundscope/internal/shared"
)

// tokenExpiryMargin treats tokens expiring within this window as already
// expired, so a request never starts with a token about to lapse mid-call.
const tokenExpiryMargin = 30 * time.Second

// tokenResponse is the token endpoint's success payload.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// ensureAccessToken returns a usable access token for the credential,
// refreshing at most once when the cached token is absent or expiring
// within the margin. A refresh installs the new token and expiry on the
// credential, plus a rotated refresh token when the provider returns one.
//
// Fails with [shared.ErrUnauthorized] before any remote call when the
// refresh token or client credentials are missing, and after the call when
// the provider rejects the refresh. There are no retries.
func (s *SpotifyClient) ensureAccessToken(ctx context.Context, cred *Credential) (string, error) {
	if cred == nil {
		return "", fmt.Errorf("%w: no credential supplied", shared.ErrUnauthorized)
	}

	if !cred.expiringWithin(tokenExpiryMargin, s.now()) {
		return cred.AccessToken, nil
	}

	return s.refreshAccessToken(ctx, cred)
}

// refreshAccessToken performs exactly one refresh-token grant against the
// token endpoint using HTTP Basic client authentication.
func (s *SpotifyClient) refreshAccessToken(ctx context.Context, cred *Credential) (string, error) {
	if cred.RefreshToken == "" {
		return "", fmt.Errorf("%w: missing refresh token", shared.ErrUnauthorized)
	}
	if s.clientID == "" || s.clientSecret == "" {
		return "", fmt.Errorf("%w: missing client credentials", shared.ErrUnauthorized)
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {cred.RefreshToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUnauthorized, err)
	}
	req.SetBasicAuth(s.clientID, s.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token refresh: %v", shared.ErrUnauthorized, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: token refresh: %v", shared.ErrUnauthorized, err)
	}

	var token tokenResponse
	// Malformed bodies fall through to the rejection path below.
	_ = json.Unmarshal(body, &token)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || token.AccessToken == "" {
		remote := remoteStatusError(resp.StatusCode, body)
		s.logger.Warn("token refresh rejected", "status", resp.StatusCode)
		return "", fmt.Errorf("%w: %s", shared.ErrUnauthorized, remote.Message)
	}

	expiresIn := token.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	cred.AccessToken = token.AccessToken
	cred.ExpiresAt = s.now().Add(time.Duration(expiresIn) * time.Second)
	if token.RefreshToken != "" {
		cred.RefreshToken = token.RefreshToken
	}
	cred.refreshed = true

	s.logger.Debug("access token refreshed", "expires_at", cred.ExpiresAt)
	return cred.AccessToken, nil
}
