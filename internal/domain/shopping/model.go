package shopping

import "time"

const (
	MaxBatchAddItems     = 50
	MaxBulkPurchaseItems = 50
	MaxBulkDeleteItems   = 100
)

type List struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	HouseholdID string    `gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (List) TableName() string {
	return "shopping_lists"
}

type Item struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	ListID      string    `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"not null"`
	Quantity    float64   `gorm:"not null"`
	Unit        *string   `gorm:"type:text"`
	IsPurchased bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (Item) TableName() string {
	return "shopping_list_items"
}

type ListWithItems struct {
	List  List
	Items []Item
}

type NewItem struct {
	Name     string
	Quantity float64
	Unit     *string
}

type UpdateItemInput struct {
	Name     *string
	Quantity *float64
	Unit     *string
}

// PantryItemRef is the pantry row a purchase landed in, as seen from this
// package.
type PantryItemRef struct {
	ID       string
	Name     string
	Quantity float64
	Unit     *string
}

// PurchaseResult is returned by the single-item purchase transition: the
// removed list item plus the pantry item that absorbed it.
type PurchaseResult struct {
	Item       Item
	PantryItem PantryItemRef
}

type ItemFailure struct {
	ItemID string `json:"itemId"`
	Reason string `json:"reason"`
}

type Transfer struct {
	ItemID       string `json:"itemId"`
	PantryItemID string `json:"pantryItemId"`
}

type BulkSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkPurchaseResult enumerates per-item outcomes; the request as a whole
// succeeds even when individual items fail.
type BulkPurchaseResult struct {
	Purchased   []string      `json:"purchased"`
	Transferred []Transfer    `json:"transferred"`
	Failed      []ItemFailure `json:"failed"`
	Summary     BulkSummary   `json:"summary"`
}

type BulkDeleteResult struct {
	Deleted []string      `json:"deleted"`
	Failed  []ItemFailure `json:"failed"`
	Summary BulkSummary   `json:"summary"`
}
