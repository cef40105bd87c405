package handler

import (
	householddomain "pantry-pilot/internal/domain/household"
	pantrydomain "pantry-pilot/internal/domain/pantry"
	recipedomain "pantry-pilot/internal/domain/recipe"
	shoppingdomain "pantry-pilot/internal/domain/shopping"
	"pantry-pilot/pkg/logger"
)

type Handlers struct {
	Households *householddomain.Service
	Pantry     *pantrydomain.Service
	Shopping   *shoppingdomain.Service
	Recipes    *recipedomain.Service

	log logger.Logger
}

func New(households *householddomain.Service, pantry *pantrydomain.Service, shopping *shoppingdomain.Service, recipes *recipedomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Households: households,
		Pantry:     pantry,
		Shopping:   shopping,
		Recipes:    recipes,
		log:        log,
	}
}
