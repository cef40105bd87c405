package pantry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Members is the slice of the household service the pantry needs.
type Members interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}

type Service struct {
	repo    Repository
	members Members
}

func NewService(repo Repository, members Members) *Service {
	return &Service{repo: repo, members: members}
}

// EnsureForHousehold returns the household's pantry, creating it when
// missing. Pantries are provisioned at household creation, but get-or-create
// keeps older households working.
func (s *Service) EnsureForHousehold(ctx context.Context, householdID string) (*Pantry, error) {
	p, err := s.repo.GetPantryByHousehold(ctx, householdID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPantryNotFound) {
		return nil, err
	}

	created := Pantry{
		ID:          uuid.NewString(),
		HouseholdID: householdID,
	}
	if err := s.repo.CreatePantry(ctx, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *Service) GetByHousehold(ctx context.Context, userID, householdID string) (*PantryWithItems, error) {
	if err := s.requireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	p, err := s.EnsureForHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &PantryWithItems{Pantry: *p, Items: items}, nil
}

// AddItems inserts a batch of items. The whole batch is rejected when any
// name collides case-insensitively with an existing item or with another
// name in the same batch.
func (s *Service) AddItems(ctx context.Context, userID, householdID string, items []NewItem) ([]Item, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("items are required")
	}
	if len(items) > MaxBatchAddItems {
		return nil, fmt.Errorf("at most %d items per request", MaxBatchAddItems)
	}

	if err := s.requireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	normalized := make([]NewItem, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required")
		}
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("quantity must be positive")
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return nil, ErrDuplicateItem
		}
		seen[key] = struct{}{}
		normalized = append(normalized, NewItem{Name: name, Quantity: item.Quantity, Unit: normalizeUnit(item.Unit)})
	}

	p, err := s.EnsureForHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	created := make([]Item, 0, len(normalized))
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for _, item := range normalized {
			exists, err := tx.ItemNameExists(ctx, p.ID, item.Name, "")
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicateItem
			}

			row := Item{
				ID:       uuid.NewString(),
				PantryID: p.ID,
				Name:     item.Name,
				Quantity: item.Quantity,
				Unit:     item.Unit,
			}
			if err := tx.CreateItem(ctx, &row); err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (s *Service) UpdateItem(ctx context.Context, userID, pantryID, itemID string, input UpdateItemInput) (*Item, error) {
	if input.Name == nil && input.Quantity == nil && input.Unit == nil {
		return nil, fmt.Errorf("no fields to update")
	}

	item, err := s.resolveItem(ctx, userID, pantryID, itemID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("item name is required")
		}
		if !strings.EqualFold(name, item.Name) {
			exists, err := s.repo.ItemNameExists(ctx, pantryID, name, item.ID)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrDuplicateItem
			}
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

func (s *Service) DeleteItem(ctx context.Context, userID, pantryID, itemID string) error {
	if _, err := s.resolveItem(ctx, userID, pantryID, itemID); err != nil {
		return err
	}
	return s.repo.DeleteItem(ctx, pantryID, itemID)
}

// TransferIn merges a purchased quantity into the pantry: a case-insensitive
// name match is incremented, anything else becomes a new item. Membership is
// the caller's responsibility.
func (s *Service) TransferIn(ctx context.Context, householdID, name string, quantity float64, unit *string) (*Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("item name is required")
	}
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	p, err := s.EnsureForHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}

	var result Item
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.FindItemByName(ctx, p.ID, name)
		if err != nil && !errors.Is(err, ErrItemNotFound) {
			return err
		}

		if existing != nil {
			if err := tx.AddItemQuantity(ctx, existing.ID, quantity); err != nil {
				return err
			}
			existing.Quantity += quantity
			result = *existing
			return nil
		}

		row := Item{
			ID:       uuid.NewString(),
			PantryID: p.ID,
			Name:     name,
			Quantity: quantity,
			Unit:     normalizeUnit(unit),
		}
		if err := tx.CreateItem(ctx, &row); err != nil {
			return err
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *Service) resolveItem(ctx context.Context, userID, pantryID, itemID string) (*Item, error) {
	p, err := s.repo.GetPantry(ctx, pantryID)
	if err != nil {
		return nil, err
	}

	if err := s.requireMember(ctx, p.HouseholdID, userID); err != nil {
		return nil, err
	}

	return s.repo.GetItem(ctx, pantryID, itemID)
}

func (s *Service) requireMember(ctx context.Context, householdID, userID string) error {
	isMember, err := s.members.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !isMember {
		// Access and existence failures look identical on purpose.
		return ErrPantryNotFound
	}
	return nil
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
