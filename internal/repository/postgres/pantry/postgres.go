package pantry

import (
	"context"
	"errors"

	domain "pantry-pilot/internal/domain/pantry"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetPantry(ctx context.Context, pantryID string) (*domain.Pantry, error) {
	var p domain.Pantry
	if err := r.db.WithContext(ctx).Where("id = ?", pantryID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetPantryByHousehold(ctx context.Context, householdID string) (*domain.Pantry, error) {
	var p domain.Pantry
	if err := r.db.WithContext(ctx).Where("household_id = ?", householdID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) CreatePantry(ctx context.Context, p *domain.Pantry) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PostgresRepository) ListItems(ctx context.Context, pantryID string) ([]domain.Item, error) {
	var items []domain.Item
	if err := r.db.WithContext(ctx).
		Where("pantry_id = ?", pantryID).
		Order("LOWER(name) asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetItem(ctx context.Context, pantryID, itemID string) (*domain.Item, error) {
	var item domain.Item
	if err := r.db.WithContext(ctx).Where("id = ? AND pantry_id = ?", itemID, pantryID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) FindItemByName(ctx context.Context, pantryID, name string) (*domain.Item, error) {
	var item domain.Item
	err := r.db.WithContext(ctx).
		Where("pantry_id = ? AND LOWER(name) = LOWER(?)", pantryID, name).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ItemNameExists(ctx context.Context, pantryID, name, excludeItemID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("pantry_id = ? AND LOWER(name) = LOWER(?)", pantryID, name)
	if excludeItemID != "" {
		query = query.Where("id <> ?", excludeItemID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) SaveItem(ctx context.Context, item *domain.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *PostgresRepository) AddItemQuantity(ctx context.Context, itemID string, delta float64) error {
	return r.db.WithContext(ctx).Model(&domain.Item{}).
		Where("id = ?", itemID).
		Update("quantity", gorm.Expr("quantity + ?", delta)).Error
}

func (r *PostgresRepository) DeleteItem(ctx context.Context, pantryID, itemID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Item{}, "id = ? AND pantry_id = ?", itemID, pantryID).Error
}
