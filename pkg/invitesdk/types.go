// Package invitesdk provides shared request/response types and a small HTTP
// client for the invite service API.
package invitesdk

import "time"

// CreateInviteRequest mints an invite for one of the caller's properties.
type CreateInviteRequest struct {
	PropertyID     string `json:"property_id"`
	DeliveryMethod string `json:"delivery_method"` // "email" or "code"
	IntendedEmail  string `json:"intended_email,omitempty"`
}

// CreateInviteResponse carries the plaintext token. It appears in this
// response and nowhere else; responses are sent with no-store caching.
type CreateInviteResponse struct {
	InviteID  string    `json:"invite_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidateInviteRequest checks a candidate token without authentication.
type ValidateInviteRequest struct {
	Token string `json:"token"`
}

// PropertyPreview is the minimal property projection shown to a prospective
// tenant before they authenticate.
type PropertyPreview struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Type    string `json:"type"`
	Unit    string `json:"unit,omitempty"`
}

// ValidateInviteResponse answers a validation check. Every failure mode
// returns the identical {"valid":false} body with status 200.
type ValidateInviteResponse struct {
	Valid     bool             `json:"valid"`
	Property  *PropertyPreview `json:"property,omitempty"`
	ExpiresAt *time.Time       `json:"expires_at,omitempty"`
}

// AcceptInviteRequest redeems a token for the authenticated caller.
type AcceptInviteRequest struct {
	Token string `json:"token"`
}

// AcceptInviteResponse reports the acceptance outcome. Status is one of
// OK, ALREADY_LINKED, INVALID, EXPIRED, REVOKED, NOT_AUTHENTICATED, ERROR.
type AcceptInviteResponse struct {
	Status     string `json:"status"`
	PropertyID string `json:"property_id,omitempty"`
	LinkID     string `json:"link_id,omitempty"`
}

// ErrorResponse is the common error envelope.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HealthChecks reports per-dependency health on the readiness probe.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez and readyz endpoints.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
