package pantry

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	GetPantry(ctx context.Context, pantryID string) (*Pantry, error)
	GetPantryByHousehold(ctx context.Context, householdID string) (*Pantry, error)
	CreatePantry(ctx context.Context, p *Pantry) error

	ListItems(ctx context.Context, pantryID string) ([]Item, error)
	GetItem(ctx context.Context, pantryID, itemID string) (*Item, error)
	// FindItemByName matches case-insensitively.
	FindItemByName(ctx context.Context, pantryID, name string) (*Item, error)
	ItemNameExists(ctx context.Context, pantryID, name, excludeItemID string) (bool, error)
	CreateItem(ctx context.Context, item *Item) error
	SaveItem(ctx context.Context, item *Item) error
	AddItemQuantity(ctx context.Context, itemID string, delta float64) error
	DeleteItem(ctx context.Context, pantryID, itemID string) error
}
