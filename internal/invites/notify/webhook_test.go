package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/service"
)

func TestWebhookNotifier(t *testing.T) {
	t.Parallel()

	event := service.InviteCreatedEvent{
		InviteID:       "01J5TESTINVITEAAAAAAAAAAAA",
		PropertyID:     "7d444840-9dc0-11d1-b245-5ffdce74fad2",
		PropertyName:   "Harbour Loft",
		DeliveryMethod: domain.DeliveryEmail,
		IntendedEmail:  "new.tenant@example.com",
		ExpiresAt:      time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC),
	}

	t.Run("delivers a signed event", func(t *testing.T) {
		const secret = "webhook-secret"

		var (
			gotBody      []byte
			gotSignature string
		)
		receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var err error
			gotBody, err = io.ReadAll(r.Body)
			require.NoError(t, err)
			gotSignature = r.Header.Get(SignatureHeader)
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(receiver.Close)

		n := NewWebhookNotifier(receiver.URL, secret)
		n.InviteCreated(context.Background(), event)

		require.NotEmpty(t, gotBody)

		// Signature covers the exact body bytes.
		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(gotBody)
		require.Equal(t, hex.EncodeToString(mac.Sum(nil)), gotSignature)

		var envelope struct {
			Type string                     `json:"type"`
			Data service.InviteCreatedEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(gotBody, &envelope))
		require.Equal(t, "invite.created", envelope.Type)
		require.Equal(t, event.InviteID, envelope.Data.InviteID)
		require.Equal(t, event.IntendedEmail, envelope.Data.IntendedEmail)
	})

	t.Run("unsigned when no secret is configured", func(t *testing.T) {
		var gotSignature string
		receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSignature = r.Header.Get(SignatureHeader)
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(receiver.Close)

		n := NewWebhookNotifier(receiver.URL, "")
		n.InviteCreated(context.Background(), event)

		require.Empty(t, gotSignature)
	})

	t.Run("delivery failure never panics or propagates", func(t *testing.T) {
		n := NewWebhookNotifier("http://127.0.0.1:1", "secret")
		require.NotPanics(t, func() {
			n.InviteCreated(context.Background(), event)
		})
	})

	t.Run("retries rejected deliveries", func(t *testing.T) {
		var attempts int
		receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attempts++
			w.WriteHeader(http.StatusInternalServerError)
		}))
		t.Cleanup(receiver.Close)

		n := NewWebhookNotifier(receiver.URL, "secret")
		n.InviteCreated(context.Background(), event)

		require.GreaterOrEqual(t, attempts, 2)
	})
}
