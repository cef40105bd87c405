package pantry

import "errors"

var (
	ErrPantryNotFound = errors.New("pantry not found")
	ErrItemNotFound   = errors.New("pantry item not found")
	ErrDuplicateItem  = errors.New("pantry item with this name already exists")
)
