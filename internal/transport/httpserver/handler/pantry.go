package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	pantrydomain "pantry-pilot/internal/domain/pantry"
	"pantry-pilot/internal/transport/httpserver/middleware"
)

type pantryItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit"`
}

type addPantryItemsRequest struct {
	Items []pantryItemRequest `json:"items"`
}

type updatePantryItemRequest struct {
	Name     *string  `json:"name"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
}

type pantryItemResponse struct {
	ID        string    `json:"id"`
	PantryID  string    `json:"pantryId"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Unit      *string   `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type pantryResponse struct {
	ID          string               `json:"id"`
	HouseholdID string               `json:"householdId"`
	CreatedAt   time.Time            `json:"createdAt"`
	Items       []pantryItemResponse `json:"items"`
}

func (h *Handlers) GetPantry(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.Pantry.GetByHousehold(r.Context(), user.ID, householdID)
	if err != nil {
		if errors.Is(err, pantrydomain.ErrPantryNotFound) {
			h.log.BusinessError("pantry.get: pantry not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "pantry_not_found", "pantry not found")
			return
		}
		h.log.InternalError("pantry.get: fetch failed", err, "user_id", user.ID, "household_id", householdID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, pantryResponse{
		ID:          result.Pantry.ID,
		HouseholdID: result.Pantry.HouseholdID,
		CreatedAt:   result.Pantry.CreatedAt,
		Items:       toPantryItemResponses(result.Items),
	})
}

// AddPantryItems inserts a batch of up to 50 items. Any duplicate name,
// against the pantry or within the batch, rejects the whole batch.
func (h *Handlers) AddPantryItems(w http.ResponseWriter, r *http.Request) {
	var req addPantryItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "items are required")
		return
	}
	if len(req.Items) > pantrydomain.MaxBatchAddItems {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("at most %d items per request", pantrydomain.MaxBatchAddItems))
		return
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			writeError(w, http.StatusBadRequest, "invalid_request", "item name is required")
			return
		}
		if item.Quantity <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
			return
		}
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

	items := make([]pantrydomain.NewItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, pantrydomain.NewItem{Name: item.Name, Quantity: item.Quantity, Unit: item.Unit})
	}

	created, err := h.Pantry.AddItems(r.Context(), user.ID, householdID, items)
	if err != nil {
		switch {
		case errors.Is(err, pantrydomain.ErrPantryNotFound):
			h.log.BusinessError("pantry.add_items: pantry not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "pantry_not_found", "pantry not found")
		case errors.Is(err, pantrydomain.ErrDuplicateItem):
			h.log.BusinessError("pantry.add_items: duplicate item name", err, "household_id", householdID)
			writeError(w, http.StatusConflict, "duplicate_item", "an item with this name already exists")
		default:
			h.log.InternalError("pantry.add_items: insert failed", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, toPantryItemResponses(created))
}

func (h *Handlers) UpdatePantryItem(w http.ResponseWriter, r *http.Request) {
	var req updatePantryItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name == nil && req.Quantity == nil && req.Unit == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item name is required")
		return
	}
	if req.Quantity != nil && *req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "quantity must be positive")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	pantryID, err := pathUUID(r, "pantry_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	itemID, err := pathUUID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item, err := h.Pantry.UpdateItem(r.Context(), user.ID, pantryID, itemID, pantrydomain.UpdateItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		switch {
		case errors.Is(err, pantrydomain.ErrPantryNotFound):
			h.log.BusinessError("pantry.update_item: pantry not found", err, "user_id", user.ID, "pantry_id", pantryID)
			writeError(w, http.StatusNotFound, "pantry_not_found", "pantry not found")
		case errors.Is(err, pantrydomain.ErrItemNotFound):
			h.log.BusinessError("pantry.update_item: item not found", err, "pantry_id", pantryID, "item_id", itemID)
			writeError(w, http.StatusNotFound, "item_not_found", "pantry item not found")
		case errors.Is(err, pantrydomain.ErrDuplicateItem):
			h.log.BusinessError("pantry.update_item: duplicate item name", err, "pantry_id", pantryID)
			writeError(w, http.StatusConflict, "duplicate_item", "an item with this name already exists")
		default:
			h.log.InternalError("pantry.update_item: update failed", err, "pantry_id", pantryID, "item_id", itemID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toPantryItemResponse(item))
}

func (h *Handlers) DeletePantryItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	pantryID, err := pathUUID(r, "pantry_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	itemID, err := pathUUID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Pantry.DeleteItem(r.Context(), user.ID, pantryID, itemID); err != nil {
		switch {
		case errors.Is(err, pantrydomain.ErrPantryNotFound):
			h.log.BusinessError("pantry.delete_item: pantry not found", err, "user_id", user.ID, "pantry_id", pantryID)
			writeError(w, http.StatusNotFound, "pantry_not_found", "pantry not found")
		case errors.Is(err, pantrydomain.ErrItemNotFound):
			h.log.BusinessError("pantry.delete_item: item not found", err, "pantry_id", pantryID, "item_id", itemID)
			writeError(w, http.StatusNotFound, "item_not_found", "pantry item not found")
		default:
			h.log.InternalError("pantry.delete_item: delete failed", err, "pantry_id", pantryID, "item_id", itemID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toPantryItemResponse(item *pantrydomain.Item) pantryItemResponse {
	return pantryItemResponse{
		ID:        item.ID,
		PantryID:  item.PantryID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		Unit:      item.Unit,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}

func toPantryItemResponses(items []pantrydomain.Item) []pantryItemResponse {
	response := make([]pantryItemResponse, 0, len(items))
	for i := range items {
		response = append(response, toPantryItemResponse(&items[i]))
	}
	return response
}
