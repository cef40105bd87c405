package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pantrydomain "pantry-pilot/internal/domain/pantry"

	"github.com/google/uuid"
)

const reasonItemNotFound = "Item not found"
const reasonInternal = "internal error"

// Members is the slice of the household service this package needs.
type Members interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}

// PantryTransfer receives purchased quantities.
type PantryTransfer interface {
	TransferIn(ctx context.Context, householdID, name string, quantity float64, unit *string) (*pantrydomain.Item, error)
}

type Service struct {
	repo    Repository
	members Members
	pantry  PantryTransfer
}

func NewService(repo Repository, members Members, pantry PantryTransfer) *Service {
	return &Service{repo: repo, members: members, pantry: pantry}
}

// EnsureForHousehold returns the household's active list, creating it when
// missing.
func (s *Service) EnsureForHousehold(ctx context.Context, householdID string) (*List, error) {
	list, err := s.repo.GetListByHousehold(ctx, householdID)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, ErrListNotFound) {
		return nil, err
	}

	created := List{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
	}
	if err := s.repo.CreateList(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) GetByHousehold(ctx context.Context, userID, householdID string) (*ListWithItems, error) {
	if err := s.requireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	list, err := s.EnsureForHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, list.ID)
	if err != nil {
		return nil, err
	}

	return &ListWithItems{List: *list, Items: items}, nil
}

func (s *Service) ListItems(ctx context.Context, userID, listID string) ([]Item, error) {
	if _, err := s.resolveList(ctx, userID, listID); err != nil {
		return nil, err
	}
	return s.repo.ListItems(ctx, listID)
}

// AddItems appends a batch of items. Unlike the pantry, repeated names are
// allowed; a shopping list may legitimately carry duplicates.
func (s *Service) AddItems(ctx context.Context, userID, listID string, items []NewItem) ([]Item, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("items are required")
	}
	if len(items) > MaxBatchAddItems {
		return nil, ErrTooManyItems
	}

	if _, err := s.resolveList(ctx, userID, listID); err != nil {
		return nil, err
	}

	rows := make([]Item, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive")
		}
		rows = append(rows, Item{
			ID:       uuid.NewString(),
			ListID:   listID,
			Name:     name,
			Quantity: item.Quantity,
			Unit:     normalizeUnit(item.Unit),
		})
	}

	if err := s.repo.CreateItems(ctx, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, listID, itemID string, input UpdateItemInput) (*Item, error) {
	if input.Name == nil && input.Quantity == nil && input.Unit == nil {
		return nil, fmt.Errorf("no fields to update")
	}

	if _, err := s.resolveList(ctx, userID, listID); err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required")
		}
		item.Name = name
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive")
		}
		item.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		item.Unit = normalizeUnit(input.Unit)
	}

	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, userID, listID, itemID string) error {
	if _, err := s.resolveList(ctx, userID, listID); err != nil {
		return err
	}
	if _, err := s.repo.GetItem(ctx, listID, itemID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, listID, itemID)
}

// PurchaseItem moves one item into the pantry and removes it from the list.
func (s *Service) PurchaseItem(ctx context.Context, userID, listID, itemID string) (*PurchaseResult, error) {
	list, err := s.resolveList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.GetItem(ctx, listID, itemID)
	if err != nil {
		return nil, err
	}

	pantryItem, err := s.transferAndDelete(ctx, list.HouseholdID, item)
	if err != nil {
		return nil, err
	}

	purchased := *item
	purchased.IsPurchased = true
	return &PurchaseResult{Item: purchased, PantryItem: *pantryItem}, nil
}

// BulkPurchase processes each item independently, in input order. A failing
// item is recorded and the loop moves on; earlier transfers are never rolled
// back. The items run sequentially because two list entries with the same
// name must merge into one pantry row, which a concurrent pass could split.
func (s *Service) BulkPurchase(ctx context.Context, userID, listID string, itemIDs []string) (*BulkPurchaseResult, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("itemIds are required")
	}
	if len(itemIDs) > MaxBulkPurchaseItems {
		return nil, ErrTooManyItems
	}

	list, err := s.resolveList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	result := BulkPurchaseResult{
		Purchased:   make([]string, 0, len(itemIDs)),
		Transferred: make([]Transfer, 0, len(itemIDs)),
		Failed:      make([]ItemFailure, 0),
		Summary:     BulkSummary{Total: len(itemIDs)},
	}

	for _, itemID := range itemIDs {
		item, err := s.repo.GetItem(ctx, listID, itemID)
		if err != nil {
			result.Failed = append(result.Failed, ItemFailure{ItemID: itemID, Reason: failureReason(err)})
			result.Summary.Failed++
			continue
		}

		pantryItem, err := s.transferAndDelete(ctx, list.HouseholdID, item)
		if err != nil {
			result.Failed = append(result.Failed, ItemFailure{ItemID: itemID, Reason: failureReason(err)})
			result.Summary.Failed++
			continue
		}

		result.Purchased = append(result.Purchased, itemID)
		result.Transferred = append(result.Transferred, Transfer{ItemID: itemID, PantryItemID: pantryItem.ID})
		result.Summary.Successful++
	}

	return &result, nil
}

// BulkDelete removes each item independently; absent ids are reported as
// per-item failures, not errors.
func (s *Service) BulkDelete(ctx context.Context, userID, listID string, itemIDs []string) (*BulkDeleteResult, error) {
	if len(itemIDs) == 0 {
		return nil, fmt.Errorf("itemIds are required")
	}
	if len(itemIDs) > MaxBulkDeleteItems {
		return nil, ErrTooManyItems
	}

	if _, err := s.resolveList(ctx, userID, listID); err != nil {
		return nil, err
	}

	result := BulkDeleteResult{
		Deleted: make([]string, 0, len(itemIDs)),
		Failed:  make([]ItemFailure, 0),
		Summary: BulkSummary{Total: len(itemIDs)},
	}

	for _, itemID := range itemIDs {
		if _, err := s.repo.GetItem(ctx, listID, itemID); err != nil {
			result.Failed = append(result.Failed, ItemFailure{ItemID: itemID, Reason: failureReason(err)})
			result.Summary.Failed++
			continue
		}
		if err := s.repo.DeleteItem(ctx, listID, itemID); err != nil {
			result.Failed = append(result.Failed, ItemFailure{ItemID: itemID, Reason: failureReason(err)})
			result.Summary.Failed++
			continue
		}
		result.Deleted = append(result.Deleted, itemID)
		result.Summary.Successful++
	}

	return &result, nil
}

func (s *Service) transferAndDelete(ctx context.Context, householdID string, item *Item) (*PantryItemRef, error) {
	pantryItem, err := s.pantry.TransferIn(ctx, householdID, item.Name, item.Quantity, item.Unit)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteItem(ctx, item.ListID, item.ID); err != nil {
		return nil, err
	}

	return &PantryItemRef{
		ID:       pantryItem.ID,
		Name:     pantryItem.Name,
		Quantity: pantryItem.Quantity,
		Unit:     pantryItem.Unit,
	}, nil
}

func (s *Service) resolveList(ctx context.Context, userID, listID string) (*List, error) {
	list, err := s.repo.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, list.HouseholdID, userID); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) requireMember(ctx context.Context, householdID, userID string) error {
	isMember, err := s.members.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		// Access and existence failures look identical on purpose.
		return ErrListNotFound
	}
	return nil
}

func failureReason(err error) string {
	if errors.Is(err, ErrItemNotFound) {
		return reasonItemNotFound
	}
	return reasonInternal
}

func normalizeUnit(unit *string) *string {
	if unit == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*unit)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
