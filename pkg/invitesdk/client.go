package invitesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a small HTTP client for the invite service. Authenticated
// operations take the caller's platform-issued bearer token per call; the
// client itself holds no credentials.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates an invite service client for baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateInvite mints an invite. Requires a landlord bearer token.
func (c *Client) CreateInvite(
	ctx context.Context,
	bearerToken string,
	req CreateInviteRequest,
) (*CreateInviteResponse, error) {
	var out CreateInviteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invites", bearerToken, req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateInvite checks a candidate token. No authentication required.
func (c *Client) ValidateInvite(
	ctx context.Context,
	req ValidateInviteRequest,
) (*ValidateInviteResponse, error) {
	var out ValidateInviteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v1/invites/validate", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AcceptInvite redeems a token for the authenticated caller.
func (c *Client) AcceptInvite(
	ctx context.Context,
	bearerToken string,
	req AcceptInviteRequest,
) (*AcceptInviteResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/invites/accept", bearerToken, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	// The accept endpoint reports lifecycle outcomes in the body across
	// 200 and 400; only transport-level statuses are treated as errors.
	switch resp.StatusCode {
	case http.StatusOK, http.StatusBadRequest:
		var out AcceptInviteResponse
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &out, nil
	default:
		return nil, parseErrorResponse(resp)
	}
}

// RevokeInvite withdraws a pending invite. Requires the issuing landlord's
// bearer token.
func (c *Client) RevokeInvite(ctx context.Context, bearerToken, inviteID string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/invites/"+inviteID, bearerToken, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return parseErrorResponse(resp)
	}
	return nil
}

// Livez checks the liveness probe.
func (c *Client) Livez(ctx context.Context) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/livez", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func (c *Client) doJSON(
	ctx context.Context,
	method, path, bearerToken string,
	body, target any,
	expectedStatus int,
) error {
	resp, err := c.doRequest(ctx, method, path, bearerToken, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path, bearerToken string,
	body any,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// APIError is a non-2xx response from the service.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("invitesdk: %s (%s, status %d)", e.Description, e.Code, e.StatusCode)
	}
	return fmt.Sprintf("invitesdk: unexpected status %d", e.StatusCode)
}

func parseErrorResponse(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(resp.Body)

	var envelope ErrorResponse
	if err := json.Unmarshal(bodyBytes, &envelope); err == nil && envelope.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        envelope.Error,
			Description: envelope.ErrorDescription,
		}
	}

	return &APIError{StatusCode: resp.StatusCode}
}
