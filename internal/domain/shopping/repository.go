package shopping

import "context"

type Repository interface {
	GetList(ctx context.Context, listID string) (*List, error)
	GetListByHousehold(ctx context.Context, householdID string) (*List, error)
	CreateList(ctx context.Context, list *List) error

	ListItems(ctx context.Context, listID string) ([]Item, error)
	GetItem(ctx context.Context, listID, itemID string) (*Item, error)
	CreateItems(ctx context.Context, items []Item) error
	SaveItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, listID, itemID string) error
}
