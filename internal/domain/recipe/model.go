package recipe

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	MethodManual      = "manual"
	MethodAIGenerated = "ai_generated"
	MethodAIModified  = "ai_generated_modified"
)

type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     *string `json:"unit,omitempty"`
}

// IngredientList is stored as a jsonb column so ingredient order survives
// round trips.
type IngredientList []Ingredient

func (l IngredientList) Value() (driver.Value, error) {
	if l == nil {
		l = IngredientList{}
	}
	return json.Marshal(l)
}

func (l *IngredientList) Scan(value interface{}) error {
	if value == nil {
		*l = IngredientList{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported ingredient list type %T", value)
	}

	return json.Unmarshal(raw, l)
}

type Recipe struct {
	ID             string         `gorm:"type:uuid;primaryKey"`
	HouseholdID    string         `gorm:"type:uuid;not null;index"`
	Title          string         `gorm:"not null"`
	Ingredients    IngredientList `gorm:"type:jsonb;not null"`
	Instructions   string         `gorm:"not null"`
	PrepMinutes    *int
	CookMinutes    *int
	MealType       *string   `gorm:"type:varchar(32)"`
	CreationMethod string    `gorm:"type:varchar(32);not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

type CreateInput struct {
	Title          string
	Ingredients    []Ingredient
	Instructions   string
	PrepMinutes    *int
	CookMinutes    *int
	MealType       *string
	CreationMethod string
}

type UpdateInput struct {
	Title        string
	Ingredients  []Ingredient
	Instructions string
	PrepMinutes  *int
	CookMinutes  *int
	MealType     *string
}

type GenerateInput struct {
	Prompt         string
	MealType       *string
	MaxPrepMinutes *int
}

// GeneratedRecipe is a model response that has not been persisted; the
// client saves it explicitly with creation method ai_generated.
type GeneratedRecipe struct {
	Title        string         `json:"title"`
	Ingredients  IngredientList `json:"ingredients"`
	Instructions string         `json:"instructions"`
	PrepMinutes  *int           `json:"prepTime,omitempty"`
	CookMinutes  *int           `json:"cookTime,omitempty"`
	MealType     *string        `json:"mealType,omitempty"`
}
