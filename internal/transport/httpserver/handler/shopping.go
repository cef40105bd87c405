package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	shoppingdomain "pantry-pilot/internal/domain/shopping"
	"pantry-pilot/internal/transport/httpserver/middleware"
)

type shoppingItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit"`
}

type addShoppingItemsRequest struct {
	Items []shoppingItemRequest `json:"items"`
}

type updateShoppingItemRequest struct {
	Name        *string  `json:"name"`
	Quantity    *float64 `json:"quantity"`
	Unit        *string  `json:"unit"`
	IsPurchased *bool    `json:"isPurchased"`
}

type bulkItemIDsRequest struct {
	ItemIDs []string `json:"itemIds"`
}

type shoppingItemResponse struct {
	ID          string    `json:"id"`
	ListID      string    `json:"listId"`
	Name        string    `json:"name"`
	Quantity    float64   `json:"quantity"`
	Unit        *string   `json:"unit"`
	IsPurchased bool      `json:"isPurchased"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type shoppingListResponse struct {
	ID          string                 `json:"id"`
	HouseholdID string                 `json:"householdId"`
	CreatedAt   time.Time              `json:"createdAt"`
	Items       []shoppingItemResponse `json:"items"`
}

type purchaseResponse struct {
	Item       shoppingItemResponse  `json:"item"`
	PantryItem pantryItemRefResponse `json:"pantryItem"`
}

type pantryItemRefResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit"`
}

// GetShoppingList returns the household's active list, creating it on first
// access.
func (h *Handlers) GetShoppingList(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.Shopping.GetByHousehold(r.Context(), user.ID, householdID)
	if err != nil {
		if errors.Is(err, shoppingdomain.ErrListNotFound) {
			h.log.BusinessError("shopping.get: list not found", err, "user_id", user.ID, "household_id", householdID)
			writeError(w, http.StatusNotFound, "list_not_found", "shopping list not found")
			return
		}
		h.log.InternalError("shopping.get: fetch failed", err, "user_id", user.ID, "household_id", householdID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, shoppingListResponse{
		ID:          result.List.ID,
		HouseholdID: result.List.HouseholdID,
		CreatedAt:   result.List.CreatedAt,
		Items:       toShoppingItemResponses(result.Items),
	})
}

func (h *Handlers) ListShoppingItems(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	listID, err := pathUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, err := h.Shopping.ListItems(r.Context(), user.ID, listID)
	if err != nil {
		if errors.Is(err, shoppingdomain.ErrListNotFound) {
			h.log.BusinessError("shopping.list_items: list not found", err, "user_id", user.ID, "list_id", listID)
			writeError(w, http.StatusNotFound, "list_not_found", "shopping list not found")
			return
		}
		h.log.InternalError("shopping.list_items: list failed", err, "user_id", user.ID, "list_id", listID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, toShoppingItemResponses(items))
}

func (h *Handlers) AddShoppingItems(w http.ResponseWriter, r *http.Request) {
	var req addShoppingItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "items are required")
		return
	}
	if len(req.Items) > shoppingdomain.MaxBatchAddItems {
		writeError(w, http.StatusBadRequest, "invalid_request", fmt.Sprintf("at most %d items per request", shoppingdomain.MaxBatchAddItems))
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

	listID, err := pathUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items := make([]shoppingdomain.NewItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, shoppingdomain.NewItem{Name: item.Name, Quantity: item.Quantity, Unit: item.Unit})
	}

	created, err := h.Shopping.AddItems(r.Context(), user.ID, listID, items)
	if err != nil {
		if errors.Is(err, shoppingdomain.ErrListNotFound) {
			h.log.BusinessError("shopping.add_items: list not found", err, "user_id", user.ID, "list_id", listID)
			writeError(w, http.StatusNotFound, "list_not_found", "shopping list not found")
			return
		}
		h.log.InternalError("shopping.add_items: insert failed", err, "user_id", user.ID, "list_id", listID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, toShoppingItemResponses(created))
}

// UpdateShoppingItem edits an item. Setting isPurchased to true is the
// purchase transition: the item moves to the pantry and leaves the list, and
// the response carries both sides of the move. isPurchased is never settable
// back to false.
func (h *Handlers) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req updateShoppingItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if req.Name == nil && req.Quantity == nil && req.Unit == nil && req.IsPurchased == nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}
	if req.IsPurchased != nil && !*req.IsPurchased {
		writeError(w, http.StatusBadRequest, "invalid_request", "isPurchased cannot be set to false")
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

	listID, err := pathUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	itemID, err := pathUUID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if req.IsPurchased != nil {
		result, err := h.Shopping.PurchaseItem(r.Context(), user.ID, listID, itemID)
		if err != nil {
			h.writeShoppingItemError(w, err, "shopping.purchase_item", user.ID, listID, itemID)
			return
		}
		item := result.Item
		writeJSON(w, http.StatusOK, purchaseResponse{
			Item: toShoppingItemResponse(&item),
			PantryItem: pantryItemRefResponse{
				ID:       result.PantryItem.ID,
				Name:     result.PantryItem.Name,
				Quantity: result.PantryItem.Quantity,
				Unit:     result.PantryItem.Unit,
			},
		})
		return
	}

	item, err := h.Shopping.UpdateItem(r.Context(), user.ID, listID, itemID, shoppingdomain.UpdateItemInput{
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
	})
	if err != nil {
		h.writeShoppingItemError(w, err, "shopping.update_item", user.ID, listID, itemID)
		return
	}

	writeJSON(w, http.StatusOK, toShoppingItemResponse(item))
}

func (h *Handlers) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	listID, err := pathUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	itemID, err := pathUUID(r, "item_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Shopping.DeleteItem(r.Context(), user.ID, listID, itemID); err != nil {
		h.writeShoppingItemError(w, err, "shopping.delete_item", user.ID, listID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// BulkPurchaseShoppingItems purchases up to 50 items in one call. Once the
// list-level checks pass the response is always 200; individual failures are
// reported per item.
func (h *Handlers) BulkPurchaseShoppingItems(w http.ResponseWriter, r *http.Request) {
	itemIDs, user, listID, ok := h.decodeBulkRequest(w, r, shoppingdomain.MaxBulkPurchaseItems)
	if !ok {
		return
	}

	result, err := h.Shopping.BulkPurchase(r.Context(), user, listID, itemIDs)
	if err != nil {
		h.writeBulkError(w, err, "shopping.bulk_purchase", user, listID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// BulkDeleteShoppingItems removes up to 100 items in one call, with the same
// partial-success contract as bulk purchase.
func (h *Handlers) BulkDeleteShoppingItems(w http.ResponseWriter, r *http.Request) {
	itemIDs, user, listID, ok := h.decodeBulkRequest(w, r, shoppingdomain.MaxBulkDeleteItems)
	if !ok {
		return
	}

	result, err := h.Shopping.BulkDelete(r.Context(), user, listID, itemIDs)
	if err != nil {
		h.writeBulkError(w, err, "shopping.bulk_delete", user, listID)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) decodeBulkRequest(w http.ResponseWriter, r *http.Request, max int) (itemIDs []string, userID, listID string, ok bool) {
	var req bulkItemIDsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return nil, "", "", false
	}
	if len(req.ItemIDs) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "itemIds are required")
		return nil, "", "", false
	}
	if len(req.ItemIDs) > max {
		writeError(w, http.StatusBadRequest, "too_many_items", fmt.Sprintf("at most %d items per request", max))
		return nil, "", "", false
	}
	itemIDs, err := validUUIDs(req.ItemIDs)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, "", "", false
	}

	user, authed := middleware.UserFromContext(r.Context())
	if !authed {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, "", "", false
	}

	listID, err = pathUUID(r, "list_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, "", "", false
	}

	return itemIDs, user.ID, listID, true
}

func (h *Handlers) writeShoppingItemError(w http.ResponseWriter, err error, op, userID, listID, itemID string) {
	switch {
	case errors.Is(err, shoppingdomain.ErrListNotFound):
		h.log.BusinessError(op+": list not found", err, "user_id", userID, "list_id", listID)
		writeError(w, http.StatusNotFound, "list_not_found", "shopping list not found")
	case errors.Is(err, shoppingdomain.ErrItemNotFound):
		h.log.BusinessError(op+": item not found", err, "list_id", listID, "item_id", itemID)
		writeError(w, http.StatusNotFound, "item_not_found", "shopping list item not found")
	default:
		h.log.InternalError(op+": failed", err, "list_id", listID, "item_id", itemID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (h *Handlers) writeBulkError(w http.ResponseWriter, err error, op, userID, listID string) {
	switch {
	case errors.Is(err, shoppingdomain.ErrListNotFound):
		h.log.BusinessError(op+": list not found", err, "user_id", userID, "list_id", listID)
		writeError(w, http.StatusNotFound, "list_not_found", "shopping list not found")
	case errors.Is(err, shoppingdomain.ErrTooManyItems):
		h.log.BusinessError(op+": too many items", err, "list_id", listID)
		writeError(w, http.StatusBadRequest, "too_many_items", "too many items in one request")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "list_id", listID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func toShoppingItemResponse(item *shoppingdomain.Item) shoppingItemResponse {
	return shoppingItemResponse{
		ID:          item.ID,
		ListID:      item.ListID,
		Name:        item.Name,
		Quantity:    item.Quantity,
		Unit:        item.Unit,
		IsPurchased: item.IsPurchased,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

func toShoppingItemResponses(items []shoppingdomain.Item) []shoppingItemResponse {
	response := make([]shoppingItemResponse, 0, len(items))
	for i := range items {
		response = append(response, toShoppingItemResponse(&items[i]))
	}
	return response
}
