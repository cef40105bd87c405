package recipe

import "context"

type Repository interface {
	ListByHousehold(ctx context.Context, householdID string) ([]Recipe, error)
	Get(ctx context.Context, recipeID string) (*Recipe, error)
	Create(ctx context.Context, r *Recipe) error
	Save(ctx context.Context, r *Recipe) error
	Delete(ctx context.Context, recipeID string) error
}
