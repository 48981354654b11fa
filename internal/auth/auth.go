// Package auth provides optional external authentication for player
// connections. Most tables run open (hotseat or trusted groups); clubs that
// track money against member accounts point the server at their own token
// endpoint.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds the whole token check. The handshake blocks on it,
// so a slow club endpoint must not stall new connections.
const requestTimeout = 500 * time.Millisecond

// maxResponseBytes caps how much of the endpoint's response we will read.
const maxResponseBytes = 1 << 20

var (
	// ErrInvalidToken means the endpoint definitively rejected the token.
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrUnavailable means the token could not be checked at all. The server
	// decides whether that fails open or closed.
	ErrUnavailable = errors.New("auth: unavailable")
)

// Identity is the club's record for an authenticated player.
type Identity struct {
	PlayerID    string `json:"player_id"`
	DisplayName string `json:"display_name"`
	MemberID    string `json:"member_id"`
}

// Validator checks a connection token. Implementations return:
//   - (*Identity, nil) when the token is valid
//   - (nil, ErrInvalidToken) when the token is definitively rejected
//   - (nil, ErrUnavailable) when the check could not be performed
//   - (nil, nil) when auth is disabled (NoopValidator)
type Validator interface {
	Validate(ctx context.Context, token string) (*Identity, error)
}

// HTTPValidator posts tokens to an external endpoint for verification.
type HTTPValidator struct {
	url         string
	adminSecret string
	client      *http.Client
}

// NewHTTPValidator builds a validator for the given endpoint. adminSecret, if
// set, is sent as an X-Admin-Secret header so the endpoint can reject calls
// that did not come from the game server.
func NewHTTPValidator(url, adminSecret string) *HTTPValidator {
	return &HTTPValidator{
		url:         url,
		adminSecret: adminSecret,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

type validateRequest struct {
	Token string `json:"token"`
}

type validateResponse struct {
	Valid       bool   `json:"valid"`
	PlayerID    string `json:"player_id,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	MemberID    string `json:"member_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (v *HTTPValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	resp, err := v.post(ctx, validateRequest{Token: token})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var body validateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrUnavailable, err)
	}
	if !body.Valid {
		return nil, ErrInvalidToken
	}

	return &Identity{
		PlayerID:    body.PlayerID,
		DisplayName: body.DisplayName,
		MemberID:    body.MemberID,
	}, nil
}

func (v *HTTPValidator) post(ctx context.Context, payload validateRequest) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if v.adminSecret != "" {
		req.Header.Set("X-Admin-Secret", v.adminSecret)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		// Network failures and timeouts are indistinguishable from an
		// endpoint outage here.
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// classifyStatus maps the endpoint's status code onto the two sentinel
// errors. Only 401/403 count as a rejection; everything else non-200 is an
// outage so that a misbehaving endpoint cannot lock every member out.
func classifyStatus(code int) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrInvalidToken
	default:
		return fmt.Errorf("%w: status %d", ErrUnavailable, code)
	}
}

// NoopValidator accepts every connection without checking anything. Used when
// no auth block is configured.
type NoopValidator struct{}

func NewNoopValidator() *NoopValidator {
	return &NoopValidator{}
}

func (v *NoopValidator) Validate(ctx context.Context, token string) (*Identity, error) {
	return nil, nil
}
