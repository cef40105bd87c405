package shopping

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	pantrydomain "pantry-pilot/internal/domain/pantry"
)

type fakeShoppingRepo struct {
	lists map[string]*List
	items map[string]*Item
}

func newFakeShoppingRepo() *fakeShoppingRepo {
	return &fakeShoppingRepo{
		lists: make(map[string]*List),
		items: make(map[string]*Item),
	}
}

func (r *fakeShoppingRepo) GetList(ctx context.Context, listID string) (*List, error) {
	list, ok := r.lists[listID]
	if !ok {
		return nil, ErrListNotFound
	}
	return list, nil
}

func (r *fakeShoppingRepo) GetListByHousehold(ctx context.Context, householdID string) (*List, error) {
	for _, list := range r.lists {
		if list.HouseholdID == householdID {
			return list, nil
		}
	}
	return nil, ErrListNotFound
}

func (r *fakeShoppingRepo) CreateList(ctx context.Context, list *List) error {
	r.lists[list.ID] = list
	return nil
}

func (r *fakeShoppingRepo) ListItems(ctx context.Context, listID string) ([]Item, error) {
	result := make([]Item, 0)
	for _, item := range r.items {
		if item.ListID == listID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *fakeShoppingRepo) GetItem(ctx context.Context, listID, itemID string) (*Item, error) {
	item, ok := r.items[itemID]
	if !ok || item.ListID != listID {
		return nil, ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeShoppingRepo) CreateItems(ctx context.Context, items []Item) error {
	for i := range items {
		copied := items[i]
		r.items[copied.ID] = &copied
	}
	return nil
}

func (r *fakeShoppingRepo) SaveItem(ctx context.Context, item *Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeShoppingRepo) DeleteItem(ctx context.Context, listID, itemID string) error {
	item, ok := r.items[itemID]
	if ok && item.ListID == listID {
		delete(r.items, itemID)
	}
	return nil
}

type fakeMembers map[string]map[string]bool

func (m fakeMembers) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	return m[householdID][userID], nil
}

// fakePantry accumulates transfers by lowercased name the way the real
// pantry merges case-insensitive matches.
type fakePantry struct {
	items  map[string]*pantrydomain.Item
	nextID int
	failOn string
}

func newFakePantry() *fakePantry {
	return &fakePantry{items: make(map[string]*pantrydomain.Item)}
}

func (p *fakePantry) TransferIn(ctx context.Context, householdID, name string, quantity float64, unit *string) (*pantrydomain.Item, error) {
	if p.failOn == name {
		return nil, fmt.Errorf("transfer failed")
	}
	for _, item := range p.items {
		if strings.EqualFold(item.Name, name) {
			item.Quantity += quantity
			copied := *item
			return &copied, nil
		}
	}
	p.nextID++
	item := &pantrydomain.Item{
		ID:       fmt.Sprintf("pantry-%d", p.nextID),
		Name:     name,
		Quantity: quantity,
		Unit:     unit,
	}
	p.items[item.ID] = item
	copied := *item
	return &copied, nil
}

func newShoppingFixture() (*fakeShoppingRepo, *fakePantry, *Service) {
	repo := newFakeShoppingRepo()
	pantry := newFakePantry()
	members := fakeMembers{"hh-1": {"user-1": true}}
	svc := NewService(repo, members, pantry)
	repo.lists["list-1"] = &List{ID: "list-1", HouseholdID: "hh-1"}
	return repo, pantry, svc
}

func seedItem(repo *fakeShoppingRepo, id, name string, quantity float64) {
	repo.items[id] = &Item{ID: id, ListID: "list-1", Name: name, Quantity: quantity}
}

func TestGetByHouseholdCreatesList(t *testing.T) {
	repo := newFakeShoppingRepo()
	members := fakeMembers{"hh-1": {"user-1": true}}
	svc := NewService(repo, members, newFakePantry())

	result, err := svc.GetByHousehold(context.Background(), "user-1", "hh-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.List.HouseholdID != "hh-1" {
		t.Fatalf("expected list for hh-1, got %+v", result.List)
	}
	if len(repo.lists) != 1 {
		t.Fatalf("expected one list created, got %d", len(repo.lists))
	}
}

func TestListItemsNotMember(t *testing.T) {
	_, _, svc := newShoppingFixture()

	_, err := svc.ListItems(context.Background(), "stranger", "list-1")
	if !errors.Is(err, ErrListNotFound) {
		t.Fatalf("expected ErrListNotFound for non-member, got %v", err)
	}
}

func TestAddItemsAllowsDuplicates(t *testing.T) {
	_, _, svc := newShoppingFixture()

	created, err := svc.AddItems(context.Background(), "user-1", "list-1", []NewItem{
		{Name: "Milk", Quantity: 1},
		{Name: "milk", Quantity: 2},
	})
	if err != nil {
		t.Fatalf("expected duplicates allowed, got %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 items, got %d", len(created))
	}
}

func TestAddItemsTooMany(t *testing.T) {
	_, _, svc := newShoppingFixture()

	items := make([]NewItem, MaxBatchAddItems+1)
	for i := range items {
		items[i] = NewItem{Name: fmt.Sprintf("item-%d", i), Quantity: 1}
	}
	_, err := svc.AddItems(context.Background(), "user-1", "list-1", items)
	if !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}
}

func TestPurchaseItemMovesToPantry(t *testing.T) {
	repo, pantry, svc := newShoppingFixture()
	seedItem(repo, "i-1", "Milk", 2)

	result, err := svc.PurchaseItem(context.Background(), "user-1", "list-1", "i-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !result.Item.IsPurchased {
		t.Fatalf("expected item marked purchased")
	}
	if result.PantryItem.Name != "Milk" || result.PantryItem.Quantity != 2 {
		t.Fatalf("expected pantry item Milk x2, got %+v", result.PantryItem)
	}
	if _, ok := repo.items["i-1"]; ok {
		t.Fatalf("expected item removed from list")
	}
	if len(pantry.items) != 1 {
		t.Fatalf("expected one pantry item, got %d", len(pantry.items))
	}
}

func TestBulkPurchasePartialFailure(t *testing.T) {
	repo, _, svc := newShoppingFixture()
	seedItem(repo, "item-a", "Milk", 1)

	result, err := svc.BulkPurchase(context.Background(), "user-1", "list-1", []string{"item-a", "item-b"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Summary.Total != 2 {
		t.Fatalf("expected total 2, got %d", result.Summary.Total)
	}
	if result.Summary.Successful+result.Summary.Failed != result.Summary.Total {
		t.Fatalf("expected counts to add up, got %+v", result.Summary)
	}
	if len(result.Purchased) != 1 || result.Purchased[0] != "item-a" {
		t.Fatalf("expected item-a purchased, got %v", result.Purchased)
	}
	if len(result.Transferred) != 1 || result.Transferred[0].ItemID != "item-a" {
		t.Fatalf("expected item-a transferred, got %v", result.Transferred)
	}
	if len(result.Failed) != 1 || result.Failed[0].ItemID != "item-b" {
		t.Fatalf("expected item-b failed, got %v", result.Failed)
	}
	if result.Failed[0].Reason != "Item not found" {
		t.Fatalf("expected not-found reason, got %q", result.Failed[0].Reason)
	}
}

func TestBulkPurchaseMergesSameName(t *testing.T) {
	repo, pantry, svc := newShoppingFixture()
	seedItem(repo, "i-1", "Milk", 1)
	seedItem(repo, "i-2", "MILK", 2)

	result, err := svc.BulkPurchase(context.Background(), "user-1", "list-1", []string{"i-1", "i-2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Summary.Successful != 2 {
		t.Fatalf("expected both purchased, got %+v", result.Summary)
	}
	if len(pantry.items) != 1 {
		t.Fatalf("expected same-name purchases to merge, got %d pantry items", len(pantry.items))
	}
	for _, item := range pantry.items {
		if item.Quantity != 3 {
			t.Fatalf("expected merged quantity 3, got %v", item.Quantity)
		}
	}
	if result.Transferred[0].PantryItemID != result.Transferred[1].PantryItemID {
		t.Fatalf("expected transfers to point at one pantry row, got %v", result.Transferred)
	}
}

func TestBulkPurchaseTransferFailureKeepsItem(t *testing.T) {
	repo, pantry, svc := newShoppingFixture()
	seedItem(repo, "i-1", "Milk", 1)
	seedItem(repo, "i-2", "Eggs", 6)
	pantry.failOn = "Eggs"

	result, err := svc.BulkPurchase(context.Background(), "user-1", "list-1", []string{"i-1", "i-2"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Summary.Successful != 1 || result.Summary.Failed != 1 {
		t.Fatalf("expected one of each, got %+v", result.Summary)
	}
	if _, ok := repo.items["i-2"]; !ok {
		t.Fatalf("expected failed item to stay on the list")
	}
	if _, ok := repo.items["i-1"]; ok {
		t.Fatalf("expected purchased item removed")
	}
}

func TestBulkPurchaseTooMany(t *testing.T) {
	_, _, svc := newShoppingFixture()

	ids := make([]string, MaxBulkPurchaseItems+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("id-%d", i)
	}
	_, err := svc.BulkPurchase(context.Background(), "user-1", "list-1", ids)
	if !errors.Is(err, ErrTooManyItems) {
		t.Fatalf("expected ErrTooManyItems, got %v", err)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	repo, _, svc := newShoppingFixture()
	seedItem(repo, "item-a", "Milk", 1)

	result, err := svc.BulkDelete(context.Background(), "user-1", "list-1", []string{"item-a", "item-b"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Summary.Total != 2 || result.Summary.Successful != 1 || result.Summary.Failed != 1 {
		t.Fatalf("unexpected summary %+v", result.Summary)
	}
	if len(result.Deleted) != 1 || result.Deleted[0] != "item-a" {
		t.Fatalf("expected item-a deleted, got %v", result.Deleted)
	}
	if result.Failed[0].ItemID != "item-b" || result.Failed[0].Reason != "Item not found" {
		t.Fatalf("unexpected failure %+v", result.Failed[0])
	}
	if _, ok := repo.items["item-a"]; ok {
		t.Fatalf("expected item-a removed")
	}
}

func TestBulkDeleteSameIDTwice(t *testing.T) {
	repo, _, svc := newShoppingFixture()
	seedItem(repo, "item-a", "Milk", 1)

	result, err := svc.BulkDelete(context.Background(), "user-1", "list-1", []string{"item-a", "item-a"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Summary.Successful != 1 || result.Summary.Failed != 1 {
		t.Fatalf("expected second occurrence to fail, got %+v", result.Summary)
	}
}

func TestDeleteItemUnknown(t *testing.T) {
	_, _, svc := newShoppingFixture()

	err := svc.DeleteItem(context.Background(), "user-1", "list-1", "missing")
	if !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
}

func TestUpdateItem(t *testing.T) {
	repo, _, svc := newShoppingFixture()
	seedItem(repo, "i-1", "Milk", 1)

	quantity := 3.0
	item, err := svc.UpdateItem(context.Background(), "user-1", "list-1", "i-1", UpdateItemInput{Quantity: &quantity})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if item.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %v", item.Quantity)
	}
	if repo.items["i-1"].Quantity != 3 {
		t.Fatalf("expected persisted quantity 3, got %v", repo.items["i-1"].Quantity)
	}
}
