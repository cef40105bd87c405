package pantry

import "time"

const MaxBatchAddItems = 50

type Pantry struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	HouseholdID string    `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Pantry) TableName() string {
	return "pantries"
}

// Item names are unique per pantry case-insensitively; the migration backs
// this with a unique index on (pantry_id, lower(name)).
type Item struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	PantryID  string    `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"not null"`
	Quantity  float64   `gorm:"not null"`
	Unit      *string   `gorm:"type:text"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "pantry_items"
}

type PantryWithItems struct {
	Pantry Pantry
	Items  []Item
}

type NewItem struct {
	Name     string
	Quantity float64
	Unit     *string
}

// UpdateItemInput carries optional fields; a non-nil Unit pointing at an
// empty string clears the unit.
type UpdateItemInput struct {
	Name     *string
	Quantity *float64
	Unit     *string
}
