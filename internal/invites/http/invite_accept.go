package http

import (
	"encoding/json"
	"net/http"

	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/pkg/httpx"
	"github.com/doorstephq/doorstep/pkg/invitesdk"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

type InviteAcceptHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Accept Invite Endpoint
//	@Description	Redeem an invite token as the authenticated caller, linking them to the property as its tenant. Repeating a successful acceptance answers ALREADY_LINKED.
//	@Tags			Invites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		invitesdk.AcceptInviteRequest	true	"Acceptance request"
//	@Success		200		{object}	invitesdk.AcceptInviteResponse	"status, property_id, link_id"
//	@Failure		400		{object}	invitesdk.AcceptInviteResponse	"status"
//	@Failure		401		{object}	invitesdk.AcceptInviteResponse	"status"
//	@Failure		500		{object}	invitesdk.AcceptInviteResponse	"status"
//	@Security		BearerAuth
//	@Router			/v1/invites/accept [post].
func (h *InviteAcceptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req invitesdk.AcceptInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteJSON(w, http.StatusBadRequest, invitesdk.AcceptInviteResponse{
			Status: string(service.AcceptInvalid),
		})
		return
	}

	result, err := h.InviteService.AcceptInvite(ctx, httpx.UserIDFromContext(ctx), req.Token)
	if err != nil {
		log.Error("failed to accept invite", "err", err)
		httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.AcceptInviteResponse{
			Status: string(service.AcceptError),
		})
		return
	}

	httpx.WriteJSON(w, acceptStatusCode(result.Status), invitesdk.AcceptInviteResponse{
		Status:     string(result.Status),
		PropertyID: result.PropertyID,
		LinkID:     result.LinkID,
	})
}

func acceptStatusCode(status service.AcceptStatus) int {
	switch status {
	case service.AcceptOK, service.AcceptAlreadyLinked:
		return http.StatusOK
	case service.AcceptNotAuthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusBadRequest
	}
}
