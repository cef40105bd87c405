package pantry

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakePantryRepo struct {
	pantries map[string]*Pantry
	items    map[string]*Item
}

func newFakePantryRepo() *fakePantryRepo {
	return &fakePantryRepo{
		pantries: make(map[string]*Pantry),
		items:    make(map[string]*Item),
	}
}

func (r *fakePantryRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakePantryRepo) GetPantry(ctx context.Context, pantryID string) (*Pantry, error) {
	p, ok := r.pantries[pantryID]
	if !ok {
		return nil, ErrPantryNotFound
	}
	return p, nil
}

func (r *fakePantryRepo) GetPantryByHousehold(ctx context.Context, householdID string) (*Pantry, error) {
	for _, p := range r.pantries {
		if p.HouseholdID == householdID {
			return p, nil
		}
	}
	return nil, ErrPantryNotFound
}

func (r *fakePantryRepo) CreatePantry(ctx context.Context, p *Pantry) error {
	r.pantries[p.ID] = p
	return nil
}

func (r *fakePantryRepo) ListItems(ctx context.Context, pantryID string) ([]Item, error) {
	result := make([]Item, 0)
	for _, item := range r.items {
		if item.PantryID == pantryID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakePantryRepo) GetItem(ctx context.Context, pantryID, itemID string) (*Item, error) {
	item, ok := r.items[itemID]
	if !ok || item.PantryID != pantryID {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakePantryRepo) FindItemByName(ctx context.Context, pantryID, name string) (*Item, error) {
	for _, item := range r.items {
		if item.PantryID == pantryID && strings.EqualFold(item.Name, name) {
			copied := *item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *fakePantryRepo) ItemNameExists(ctx context.Context, pantryID, name, excludeItemID string) (bool, error) {
	for _, item := range r.items {
		if item.PantryID == pantryID && item.ID != excludeItemID && strings.EqualFold(item.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePantryRepo) CreateItem(ctx context.Context, item *Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakePantryRepo) SaveItem(ctx context.Context, item *Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakePantryRepo) AddItemQuantity(ctx context.Context, itemID string, delta float64) error {
	item, ok := r.items[itemID]
	if !ok {
		return ErrItemNotFound
	}
	item.Quantity += delta
	return nil
}

func (r *fakePantryRepo) DeleteItem(ctx context.Context, pantryID, itemID string) error {
	item, ok := r.items[itemID]
	if ok && item.PantryID == pantryID {
		delete(r.items, itemID)
	}
	return nil
}

type fakeMembers map[string]map[string]bool

func (m fakeMembers) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	return m[householdID][userID], nil
}

func newPantryFixture() (*fakePantryRepo, *Service) {
	repo := newFakePantryRepo()
	members := fakeMembers{"hh-1": {"user-1": true}}
	return repo, NewService(repo, members)
}

func seedPantry(repo *fakePantryRepo) {
	repo.pantries["p-1"] = &Pantry{ID: "p-1", HouseholdID: "hh-1"}
}

func strPtr(s string) *string { return &s }

func TestGetByHouseholdCreatesPantry(t *testing.T) {
	repo, svc := newPantryFixture()

	result, err := svc.GetByHousehold(context.Background(), "user-1", "hh-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Pantry.HouseholdID != "hh-1" {
		t.Fatalf("expected pantry for hh-1, got %+v", result.Pantry)
	}
	if len(repo.pantries) != 1 {
		t.Fatalf("expected one pantry created, got %d", len(repo.pantries))
	}

	again, err := svc.GetByHousehold(context.Background(), "user-1", "hh-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if again.Pantry.ID != result.Pantry.ID {
		t.Fatalf("expected same pantry on second call")
	}
}

func TestGetByHouseholdNotMember(t *testing.T) {
	_, svc := newPantryFixture()

	_, err := svc.GetByHousehold(context.Background(), "stranger", "hh-1")
	if !errors.Is(err, ErrPantryNotFound) {
		t.Fatalf("expected ErrPantryNotFound for non-member, got %v", err)
	}
}

func TestAddItemsSuccess(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)

	created, err := svc.AddItems(context.Background(), "user-1", "hh-1", []NewItem{
		{Name: " Flour ", Quantity: 2, Unit: strPtr("kg")},
		{Name: "Milk", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created))
	}
	if created[0].Name != "Flour" {
		t.Fatalf("expected trimmed name, got %q", created[0].Name)
	}
}

func TestAddItemsDuplicateInBatch(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)

	_, err := svc.AddItems(context.Background(), "user-1", "hh-1", []NewItem{
		{Name: "Milk", Quantity: 1},
		{Name: "MILK", Quantity: 2},
	})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
	if len(repo.items) != 0 {
		t.Fatalf("expected no items persisted, got %d", len(repo.items))
	}
}

func TestAddItemsDuplicateExisting(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "Milk", Quantity: 1}

	_, err := svc.AddItems(context.Background(), "user-1", "hh-1", []NewItem{
		{Name: "milk", Quantity: 2},
	})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}

func TestUpdateItemRenameCollision(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "Milk", Quantity: 1}
	repo.items["i-2"] = &Item{ID: "i-2", PantryID: "p-1", Name: "Flour", Quantity: 2}

	_, err := svc.UpdateItem(context.Background(), "user-1", "p-1", "i-2", UpdateItemInput{Name: strPtr("MILK")})
	if !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("expected ErrDuplicateItem, got %v", err)
	}
}

func TestUpdateItemCaseOnlyRename(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "milk", Quantity: 1}

	item, err := svc.UpdateItem(context.Background(), "user-1", "p-1", "i-1", UpdateItemInput{Name: strPtr("Milk")})
	if err != nil {
		t.Fatalf("expected case-only rename to pass, got %v", err)
	}
	if item.Name != "Milk" {
		t.Fatalf("expected renamed item, got %q", item.Name)
	}
}

func TestUpdateItemClearsUnit(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "Milk", Quantity: 1, Unit: strPtr("l")}

	item, err := svc.UpdateItem(context.Background(), "user-1", "p-1", "i-1", UpdateItemInput{Unit: strPtr("")})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Unit != nil {
		t.Fatalf("expected unit cleared, got %q", *item.Unit)
	}
}

func TestDeleteItemTwice(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "Milk", Quantity: 1}

	if err := svc.DeleteItem(context.Background(), "user-1", "p-1", "i-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	err := svc.DeleteItem(context.Background(), "user-1", "p-1", "i-1")
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on second delete, got %v", err)
	}
}

func TestTransferInMergesCaseInsensitively(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)
	repo.items["i-1"] = &Item{ID: "i-1", PantryID: "p-1", Name: "Milk", Quantity: 1}

	item, err := svc.TransferIn(context.Background(), "hh-1", "MILK", 2, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.ID != "i-1" {
		t.Fatalf("expected merge into existing item, got %s", item.ID)
	}
	if repo.items["i-1"].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %v", repo.items["i-1"].Quantity)
	}
	if len(repo.items) != 1 {
		t.Fatalf("expected no new row, got %d items", len(repo.items))
	}
}

func TestTransferInCreatesNewItem(t *testing.T) {
	repo, svc := newPantryFixture()
	seedPantry(repo)

	item, err := svc.TransferIn(context.Background(), "hh-1", "Eggs", 12, strPtr("pcs"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Quantity != 12 {
		t.Fatalf("expected quantity 12, got %v", item.Quantity)
	}
	if stored := repo.items[item.ID]; stored == nil || stored.Name != "Eggs" {
		t.Fatalf("expected item persisted, got %+v", stored)
	}
}
