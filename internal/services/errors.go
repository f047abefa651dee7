package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/desertthunder/soundscope/internal/shared"
)

// Reason classifies a RemoteError with a machine-checkable code, decided
// once at the gateway instead of by message inspection in callers.
type Reason string

const (
	ReasonStatus            Reason = "status"
	ReasonNetwork           Reason = "network"
	ReasonInsufficientScope Reason = "insufficient_scope"
)

// RemoteError wraps any provider, network, or decoding failure from a
// remote API. It unwraps to [shared.ErrRemote], or to
// [shared.ErrInsufficientScope] when the provider rejected the granted
// scopes, so callers classify with errors.Is rather than string matching.
type RemoteError struct {
	Status  int
	Reason  Reason
	Message string
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("remote error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("remote error: %s", e.Message)
}

func (e *RemoteError) Unwrap() error {
	if e.Reason == ReasonInsufficientScope {
		return shared.ErrInsufficientScope
	}
	return shared.ErrRemote
}

// apiErrorBody matches both error shapes Spotify uses: an OAuth-style
// error_description and a structured error object.
type apiErrorBody struct {
	ErrorDescription string `json:"error_description"`
	Error            struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// remoteStatusError maps a non-2xx response to a RemoteError, preferring
// the provider's structured message and falling back to the status phrase.
func remoteStatusError(status int, body []byte) *RemoteError {
	message := ""

	var parsed apiErrorBody
	if len(body) > 0 {
		// Malformed bodies decode to the zero value, leaving the fallback.
		_ = json.Unmarshal(body, &parsed)
	}

	switch {
	case parsed.ErrorDescription != "":
		message = parsed.ErrorDescription
	case parsed.Error.Message != "":
		message = parsed.Error.Message
	default:
		message = http.StatusText(status)
	}

	reason := ReasonStatus
	lowered := strings.ToLower(message)
	if strings.Contains(lowered, "insufficient client scope") || strings.Contains(lowered, "missing scope") {
		reason = ReasonInsufficientScope
	}

	return &RemoteError{Status: status, Reason: reason, Message: message}
}

// remoteTransportError wraps a network-layer failure (timeout, refused
// connection, DNS) into the same RemoteError kind as a bad status.
func remoteTransportError(err error) *RemoteError {
	return &RemoteError{Reason: ReasonNetwork, Message: err.Error()}
}
