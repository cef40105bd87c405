package shopping

import "errors"

var (
	ErrListNotFound = errors.New("shopping list not found")
	ErrItemNotFound = errors.New("shopping list item not found")
	ErrTooManyItems = errors.New("too many items in one request")
)
