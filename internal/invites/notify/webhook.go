// Package notify delivers invite lifecycle events to external systems over
// signed webhooks. Delivery is best effort: a dead receiver never blocks or
// fails the operation that produced the event.
package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

// SignatureHeader carries the hex-encoded HMAC-SHA256 of the request body,
// keyed with the shared webhook secret.
const SignatureHeader = "X-Doorstep-Signature"

// WebhookNotifier posts lifecycle events to a single configured endpoint.
type WebhookNotifier struct {
	client *resty.Client
	url    string
	secret string
}

// NewWebhookNotifier builds a notifier for url. secret keys the request
// signature; an empty secret disables signing.
func NewWebhookNotifier(url, secret string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})

	return &WebhookNotifier{
		client: client,
		url:    url,
		secret: secret,
	}
}

// InviteCreated posts the event. The event body never contains the token
// plaintext, so a compromised receiver cannot redeem invites.
func (n *WebhookNotifier) InviteCreated(ctx context.Context, event service.InviteCreatedEvent) {
	log := slogx.FromContext(ctx)

	body, err := json.Marshal(struct {
		Type string                     `json:"type"`
		Data service.InviteCreatedEvent `json:"data"`
	}{
		Type: "invite.created",
		Data: event,
	})
	if err != nil {
		log.Error("failed to marshal webhook event", slog.Any("error", err))
		return
	}

	req := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)

	if n.secret != "" {
		req.SetHeader(SignatureHeader, sign(body, n.secret))
	}

	resp, err := req.Post(n.url)
	if err != nil {
		log.Warn("webhook delivery failed",
			slog.String("event_type", "invite.created"),
			slog.Any("error", err),
		)
		return
	}
	if resp.IsError() {
		log.Warn("webhook receiver rejected event",
			slog.String("event_type", "invite.created"),
			slog.Int("status", resp.StatusCode()),
		)
		return
	}

	log.Debug("webhook delivered",
		slog.String("event_type", "invite.created"),
		slog.String("invite_id", event.InviteID),
	)
}

func sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// NoopNotifier drops every event. Used when no webhook endpoint is
// configured.
type NoopNotifier struct{}

func (NoopNotifier) InviteCreated(context.Context, service.InviteCreatedEvent) {}
