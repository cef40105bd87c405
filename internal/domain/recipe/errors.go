package recipe

import "errors"

var (
	ErrRecipeNotFound        = errors.New("recipe not found")
	ErrNoHousehold           = errors.New("user has no household")
	ErrGenerationFailed      = errors.New("recipe generation failed")
	ErrGeneratorDisabled     = errors.New("recipe generation is not configured")
	ErrInvalidCreationMethod = errors.New("invalid creation method")
)
