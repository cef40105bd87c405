package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	householddomain "pantry-pilot/internal/domain/household"
	"pantry-pilot/internal/transport/httpserver/middleware"
)

type createInvitationRequest struct {
	Email string `json:"email"`
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

type invitationResponse struct {
	ID           string    `json:"id"`
	HouseholdID  string    `json:"householdId"`
	InvitedEmail string    `json:"invitedEmail"`
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	householdID, err := pathUUID(r, "household_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	invitations, err := h.Households.ListInvitations(r.Context(), user.ID, householdID)
	if err != nil {
		switch {
		case errors.Is(err, householddomain.ErrHouseholdNotFound):
			h.log.BusinessError("invitations.list: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
		case errors.Is(err, householddomain.ErrNotOwner):
			h.log.BusinessError("invitations.list: actor is not owner", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can manage invitations")
		default:
			h.log.InternalError("invitations.list: list failed", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toInvitationResponses(invitations))
}

func (h *Handlers) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	var req createInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "invalid_request", "email is invalid")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	householdID, err := pathUUID(r, "household_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	invitation, err := h.Households.Invite(r.Context(), user.ID, householdID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, householddomain.ErrHouseholdNotFound):
			h.log.BusinessError("invitations.create: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
		case errors.Is(err, householddomain.ErrNotOwner):
			h.log.BusinessError("invitations.create: actor is not owner", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can invite members")
		case errors.Is(err, householddomain.ErrAlreadyMember):
			h.log.BusinessError("invitations.create: email already belongs to a member", err, "household_id", householdID)
			writeError(w, http.StatusConflict, "already_member", "email already belongs to a household member")
		case errors.Is(err, householddomain.ErrDuplicateInvite):
			h.log.BusinessError("invitations.create: pending invitation exists", err, "household_id", householdID)
			writeError(w, http.StatusConflict, "duplicate_invitation", "a pending invitation for this email already exists")
		default:
			h.log.InternalError("invitations.create: create failed", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toInvitationResponse(invitation))
}

func (h *Handlers) RevokeInvitation(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	householdID, err := pathUUID(r, "household_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	invitationID, err := pathUUID(r, "invitation_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Households.RevokeInvitation(r.Context(), user.ID, householdID, invitationID); err != nil {
		switch {
		case errors.Is(err, householddomain.ErrHouseholdNotFound):
			h.log.BusinessError("invitations.revoke: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
		case errors.Is(err, householddomain.ErrNotOwner):
			h.log.BusinessError("invitations.revoke: actor is not owner", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can revoke invitations")
		case errors.Is(err, householddomain.ErrInvitationNotFound):
			h.log.BusinessError("invitations.revoke: invitation not found", err, "household_id", householdID, "invitation_id", invitationID)
			writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
		default:
			h.log.InternalError("invitations.revoke: revoke failed", err, "household_id", householdID, "invitation_id", invitationID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AcceptInvitation joins the caller to the household behind the token. The
// token arrives in the body rather than the path so it never lands in
// access logs.
func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	var req acceptInvitationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Households.Accept(r.Context(), householddomain.UserSnapshot{ID: user.ID, Email: user.Email}, req.Token)
	if err != nil {
		switch {
		case errors.Is(err, householddomain.ErrInvitationNotFound):
			h.log.BusinessError("invitations.accept: invitation not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invitation_not_found", "invitation not found")
		case errors.Is(err, householddomain.ErrInviteeMismatch):
			h.log.BusinessError("invitations.accept: invitation addressed to another email", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "invitee_mismatch", "invitation was issued to a different email")
		case errors.Is(err, householddomain.ErrInvitationExpired):
			h.log.BusinessError("invitations.accept: invitation expired", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invitation_expired", "invitation has expired")
		case errors.Is(err, householddomain.ErrAlreadyMember):
			h.log.BusinessError("invitations.accept: user already in a household", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_member", "user already belongs to a household")
		default:
			h.log.InternalError("invitations.accept: accept failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toHouseholdResponse(result))
}

func toInvitationResponse(i *householddomain.Invitation) invitationResponse {
	return invitationResponse{
		ID:           i.ID,
		HouseholdID:  i.HouseholdID,
		InvitedEmail: i.InvitedEmail,
		Token:        i.Token,
		ExpiresAt:    i.ExpiresAt,
		CreatedAt:    i.CreatedAt,
	}
}

func toInvitationResponses(invitations []householddomain.Invitation) []invitationResponse {
	response := make([]invitationResponse, 0, len(invitations))
	for i := range invitations {
		response = append(response, toInvitationResponse(&invitations[i]))
	}
	return response
}
