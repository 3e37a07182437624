package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/pkg/httpx"
	"github.com/doorstephq/doorstep/pkg/invitesdk"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

type InviteCreateHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Create Invite Endpoint
//	@Description	Mint an invite token for one of the caller's properties. The plaintext token is returned exactly once and never stored or logged.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.CreateInviteRequest	true	"Invite request"
//	@Success		201		{object}	invitesdk.CreateInviteResponse	"invite_id, token, expires_at"
//	@Failure		400		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		403		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Failure		500		{object}	invitesdk.ErrorResponse			"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites [post].
func (h *InviteCreateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req invitesdk.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
			Error:            "invalid_request",
			ErrorDescription: "Invalid JSON body",
		})
		return
	}

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteJSON(w, http.StatusUnauthorized, invitesdk.ErrorResponse{
			Error:            "unauthorized",
			ErrorDescription: "Authentication required",
		})
		return
	}

	created, err := h.InviteService.CreateInvite(
		ctx,
		userID,
		req.PropertyID,
		domain.DeliveryMethod(req.DeliveryMethod),
		req.IntendedEmail,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.ErrorResponse{
				Error:            "invalid_request",
				ErrorDescription: "Invalid invite parameters",
			})
		case errors.Is(err, service.ErrNotAuthorized):
			// Unknown property and someone else's property answer the
			// same, so property ids cannot be probed.
			httpx.WriteJSON(w, http.StatusForbidden, invitesdk.ErrorResponse{
				Error:            "forbidden",
				ErrorDescription: "Property not found or not owned by caller",
			})
		default:
			log.Error("failed to create invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to create invite",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, invitesdk.CreateInviteResponse{
		InviteID:  created.InviteID,
		Token:     created.Token,
		ExpiresAt: created.ExpiresAt,
	})
}
