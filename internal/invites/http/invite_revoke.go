package http

import (
	"errors"
	"net/http"

	"github.com/doorstephq/doorstep/internal/invites/service"
	"github.com/doorstephq/doorstep/pkg/httpx"
	"github.com/doorstephq/doorstep/pkg/invitesdk"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

type InviteRevokeHandler struct {
	InviteService *service.InviteService
}

// ServeHTTP godoc
//
//	@Summary		Revoke Invite Endpoint
//	@Description	Withdraw a pending invite. Only the issuing landlord may revoke; an invite that does not exist, is not theirs, or is already terminal answers the same 404.
//	@Tags			Invites
//	@Produce		json
//	@Param			id	path	string	true	"Invite ID"
//	@Success		204	"invite revoked"
//	@Failure		404	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Failure		500	{object}	invitesdk.ErrorResponse	"error, error_description"
//	@Security		BearerAuth
//	@Router			/v1/invites/{id} [delete].
func (h *InviteRevokeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	err := h.InviteService.RevokeInvite(ctx, r.PathValue("id"), httpx.UserIDFromContext(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInviteNotFound), errors.Is(err, service.ErrInvalidInput):
			httpx.WriteJSON(w, http.StatusNotFound, invitesdk.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "Invite not found",
			})
		default:
			log.Error("failed to revoke invite", "err", err)
			httpx.WriteJSON(w, http.StatusInternalServerError, invitesdk.ErrorResponse{
				Error:            "server_error",
				ErrorDescription: "Failed to revoke invite",
			})
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
