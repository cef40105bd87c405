package httpserver

import (
	"net/http"
	"time"

	"pantry-pilot/internal/config"
	"pantry-pilot/internal/transport/httpserver/handler"
	authmw "pantry-pilot/internal/transport/httpserver/middleware"
	"pantry-pilot/pkg/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, profiles authmw.ProfileSaver, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(authmw.NewCORS(cfg.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)

		auth := authmw.NewSessionAuth(cfg.Auth, profiles, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/auth/me", handlers.AuthMe)

			r.Get("/households", handlers.ListHouseholds)
			r.Post("/households", handlers.CreateHousehold)
			r.Get("/households/{household_id}", handlers.GetHousehold)
			r.Patch("/households/{household_id}", handlers.RenameHousehold)
			r.Delete("/households/{household_id}", handlers.DeleteHousehold)
			r.Get("/households/{household_id}/members", handlers.ListHouseholdMembers)

			r.Get("/households/{household_id}/invitations", handlers.ListInvitations)
			r.Post("/households/{household_id}/invitations", handlers.CreateInvitation)
			r.Delete("/households/{household_id}/invitations/{invitation_id}", handlers.RevokeInvitation)
			r.Post("/invitations/accept", handlers.AcceptInvitation)

			r.Get("/households/{household_id}/pantry", handlers.GetPantry)
			r.Post("/households/{household_id}/pantry/items", handlers.AddPantryItems)
			r.Patch("/pantries/{pantry_id}/items/{item_id}", handlers.UpdatePantryItem)
			r.Delete("/pantries/{pantry_id}/items/{item_id}", handlers.DeletePantryItem)

			r.Get("/households/{household_id}/shopping-list", handlers.GetShoppingList)
			r.Get("/shopping-lists/{list_id}/items", handlers.ListShoppingItems)
			r.Post("/shopping-lists/{list_id}/items", handlers.AddShoppingItems)
			// Static bulk segments are registered before the {item_id}
			// routes so chi never parses "bulk-delete" as an item id.
			r.Post("/shopping-lists/{list_id}/items/bulk-purchase", handlers.BulkPurchaseShoppingItems)
			r.Delete("/shopping-lists/{list_id}/items/bulk-delete", handlers.BulkDeleteShoppingItems)
			r.Patch("/shopping-lists/{list_id}/items/{item_id}", handlers.UpdateShoppingItem)
			r.Delete("/shopping-lists/{list_id}/items/{item_id}", handlers.DeleteShoppingItem)

			r.Get("/recipes", handlers.ListRecipes)
			r.Post("/recipes", handlers.CreateRecipe)
			r.Post("/recipes/generate", handlers.GenerateRecipe)
			r.Get("/recipes/{recipe_id}", handlers.GetRecipe)
			r.Put("/recipes/{recipe_id}", handlers.UpdateRecipe)
			r.Delete("/recipes/{recipe_id}", handlers.DeleteRecipe)
		})
	})

	return r
}
