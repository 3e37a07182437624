package http

import (
	"encoding/json"
	"net/http"

	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/pkg/httpx"
	"github.com/doorstephq/doorstep/pkg/invitesdk"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

type InviteValidateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Validate Invite Endpoint
//	@Description	Check a candidate invite token without authentication. A valid token returns a minimal property preview; every failure, malformed body included, returns the identical generic response.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.ValidateInviteRequest		true	"Validation request"
//	@Success		200		{object}	invitesdk.ValidateInviteResponse	"valid, property, expires_at"
//	@Router			/v1/invites/validate [post].
func (h *InviteValidateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	// Every failure path below answers 200 with the same generic body.
	// Distinguishable responses, status codes included, would let an
	// attacker bisect the token space.
	var req invitesdk.ValidateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGenericInvalid(w)
		return
	}

	result, err := h.InviteService.ValidateInvite(ctx, req.Token, httpx.IPKeyExtractor(r))
	if err != nil {
		log.Error("invite validation failed", "err", err)
		writeGenericInvalid(w)
		return
	}
	if !result.Valid {
		writeGenericInvalid(w)
		return
	}

	resp := invitesdk.ValidateInviteResponse{
		Valid:     true,
		ExpiresAt: result.ExpiresAt,
	}
	if result.Property != nil {
		resp.Property = &invitesdk.PropertyPreview{
			Name:    result.Property.Name,
			Address: result.Property.Address,
			Type:    result.Property.Type,
			Unit:    result.Property.Unit,
		}
	}

	httpx.WriteJSON(w, http.StatusOK, resp)
}

func writeGenericInvalid(w http.ResponseWriter) {
	httpx.WriteJSON(w, http.StatusOK, invitesdk.ValidateInviteResponse{Valid: false})
}
