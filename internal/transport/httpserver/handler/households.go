package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	householddomain "pantry-pilot/internal/domain/household"
	"pantry-pilot/internal/transport/httpserver/middleware"
)

type createHouseholdRequest struct {
	Name string `json:"name"`
}

type renameHouseholdRequest struct {
	Name string `json:"name"`
}

type householdResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

type memberResponse struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	JoinedAt  time.Time `json:"joinedAt"`
	Email     *string   `json:"email"`
	AvatarURL *string   `json:"avatarUrl"`
}

type householdWithMembersResponse struct {
	householdResponse
	Members []memberResponse `json:"members"`
}

// ListHouseholds returns the caller's household as a zero-or-one element
// list; clients treat membership as a collection even though the invariant
// caps it at one.
func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Households.Get(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, householddomain.ErrHouseholdNotFound) {
			writeJSON(w, http.StatusOK, []householdResponse{})
			return
		}
		h.log.InternalError("households.list: get household failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, []householdResponse{toHouseholdResponse(result)})
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	result, err := h.Households.Create(r.Context(), user.ID, req.Name)
	if err != nil {
		if errors.Is(err, householddomain.ErrAlreadyOwner) {
			h.log.BusinessError("households.create: user already owns a household", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_owner", "user already owns a household")
			return
		}
		h.log.InternalError("households.create: create failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toHouseholdResponse(result))
}

func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.Households.GetWithMembers(r.Context(), user.ID, householdID)
	if err != nil {
		if errors.Is(err, householddomain.ErrHouseholdNotFound) {
			h.log.BusinessError("households.get: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
			return
		}
		h.log.InternalError("households.get: fetch failed", err, "user_id", user.ID, "household_id", householdID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := householdWithMembersResponse{
		householdResponse: toHouseholdResponse(&result.Household),
		Members:           toMemberResponses(result.Members),
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) RenameHousehold(w http.ResponseWriter, r *http.Request) {
	var req renameHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "name is required")
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

	result, err := h.Households.Rename(r.Context(), user.ID, householdID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, householddomain.ErrHouseholdNotFound):
			h.log.BusinessError("households.rename: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
		case errors.Is(err, householddomain.ErrNotOwner):
			h.log.BusinessError("households.rename: actor is not owner", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can rename the household")
		default:
			h.log.InternalError("households.rename: rename failed", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toHouseholdResponse(result))
}

func (h *Handlers) DeleteHousehold(w http.ResponseWriter, r *http.Request) {
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

	if err := h.Households.Delete(r.Context(), user.ID, householdID); err != nil {
		switch {
		case errors.Is(err, householddomain.ErrHouseholdNotFound):
			h.log.BusinessError("households.delete: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
		case errors.Is(err, householddomain.ErrNotOwner):
			h.log.BusinessError("households.delete: actor is not owner", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusForbidden, "not_owner", "only the owner can delete the household")
		case errors.Is(err, householddomain.ErrHasOtherMembers):
			h.log.BusinessError("households.delete: household has other members", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusConflict, "has_other_members", "household has other members")
		default:
			h.log.InternalError("households.delete: delete failed", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ListHouseholdMembers(w http.ResponseWriter, r *http.Request) {
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

	members, err := h.Households.ListMembers(r.Context(), user.ID, householdID)
	if err != nil {
		if errors.Is(err, householddomain.ErrHouseholdNotFound) {
			h.log.BusinessError("households.list_members: household not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "household_not_found", "household not found")
			return
		}
		h.log.InternalError("households.list_members: list failed", err, "user_id", user.ID, "household_id", householdID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponses(members))
}

func toHouseholdResponse(h *householddomain.Household) householdResponse {
	return householdResponse{
		ID:        h.ID,
		Name:      h.Name,
		OwnerID:   h.OwnerID,
		CreatedAt: h.CreatedAt,
	}
}

func toMemberResponses(members []householddomain.MemberProfile) []memberResponse {
	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			UserID:    member.UserID,
			Role:      member.Role,
			JoinedAt:  member.JoinedAt,
			Email:     member.Email,
			AvatarURL: member.AvatarURL,
		})
	}
	return response
}
