package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	recipedomain "pantry-pilot/internal/domain/recipe"
	"pantry-pilot/internal/transport/httpserver/middleware"
)

type recipeRequest struct {
	Title          string                    `json:"title"`
	Ingredients    []recipedomain.Ingredient `json:"ingredients"`
	Instructions   string                    `json:"instructions"`
	PrepMinutes    *int                      `json:"prepTime"`
	CookMinutes    *int                      `json:"cookTime"`
	MealType       *string                   `json:"mealType"`
	CreationMethod string                    `json:"creationMethod"`
}

type generateRecipeRequest struct {
	Prompt         string  `json:"prompt"`
	MealType       *string `json:"mealType"`
	MaxPrepMinutes *int    `json:"maxPrepTime"`
}

type recipeResponse struct {
	ID             string                    `json:"id"`
	HouseholdID    string                    `json:"householdId"`
	Title          string                    `json:"title"`
	Ingredients    []recipedomain.Ingredient `json:"ingredients"`
	Instructions   string                    `json:"instructions"`
	PrepMinutes    *int                      `json:"prepTime"`
	CookMinutes    *int                      `json:"cookTime"`
	MealType       *string                   `json:"mealType"`
	CreationMethod string                    `json:"creationMethod"`
	CreatedAt      time.Time                 `json:"createdAt"`
	UpdatedAt      time.Time                 `json:"updatedAt"`
}

func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	recipes, err := h.Recipes.List(r.Context(), user.ID)
	if err != nil {
		h.writeRecipeError(w, err, "recipes.list", user.ID, "")
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponses(recipes))
}

func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := validateRecipeRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", message)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	created, err := h.Recipes.Create(r.Context(), user.ID, recipedomain.CreateInput{
		Title:          req.Title,
		Ingredients:    req.Ingredients,
		Instructions:   req.Instructions,
		PrepMinutes:    req.PrepMinutes,
		CookMinutes:    req.CookMinutes,
		MealType:       req.MealType,
		CreationMethod: req.CreationMethod,
	})
	if err != nil {
		if errors.Is(err, recipedomain.ErrInvalidCreationMethod) {
			writeError(w, http.StatusBadRequest, "invalid_request", "creationMethod is invalid")
			return
		}
		h.writeRecipeError(w, err, "recipes.create", user.ID, "")
		return
	}

	writeJSON(w, http.StatusCreated, toRecipeResponse(created))
}

func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	recipeID, err := pathUUID(r, "recipe_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.Recipes.Get(r.Context(), user.ID, recipeID)
	if err != nil {
		h.writeRecipeError(w, err, "recipes.get", user.ID, recipeID)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(result))
}

// UpdateRecipe replaces the recipe content wholesale; PUT semantics, no
// partial merge.
func (h *Handlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := validateRecipeRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", message)
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	recipeID, err := pathUUID(r, "recipe_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := h.Recipes.Update(r.Context(), user.ID, recipeID, recipedomain.UpdateInput{
		Title:        req.Title,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		PrepMinutes:  req.PrepMinutes,
		CookMinutes:  req.CookMinutes,
		MealType:     req.MealType,
	})
	if err != nil {
		h.writeRecipeError(w, err, "recipes.update", user.ID, recipeID)
		return
	}

	writeJSON(w, http.StatusOK, toRecipeResponse(updated))
}

func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	recipeID, err := pathUUID(r, "recipe_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	if err := h.Recipes.Delete(r.Context(), user.ID, recipeID); err != nil {
		h.writeRecipeError(w, err, "recipes.delete", user.ID, recipeID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateRecipe asks the model for a recipe matching the prompt. Nothing is
// persisted; the client saves the draft through CreateRecipe.
func (h *Handlers) GenerateRecipe(w http.ResponseWriter, r *http.Request) {
	var req generateRecipeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "prompt is required")
		return
	}
	if req.MaxPrepMinutes != nil && *req.MaxPrepMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "maxPrepTime must be positive")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return
	}

	generated, err := h.Recipes.Generate(r.Context(), user.ID, recipedomain.GenerateInput{
		Prompt:         req.Prompt,
		MealType:       req.MealType,
		MaxPrepMinutes: req.MaxPrepMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, recipedomain.ErrGeneratorDisabled):
			h.log.BusinessError("recipes.generate: generator disabled", err, "user_id", user.ID)
			writeError(w, http.StatusServiceUnavailable, "generation_unavailable", "recipe generation is not configured")
		case errors.Is(err, recipedomain.ErrNoHousehold):
			h.log.BusinessError("recipes.generate: user has no household", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "no_household", "user does not belong to a household")
		case errors.Is(err, recipedomain.ErrGenerationFailed):
			h.log.InternalError("recipes.generate: generation failed", err, "user_id", user.ID)
			writeError(w, http.StatusBadGateway, "generation_failed", "recipe generation failed")
		default:
			h.log.InternalError("recipes.generate: failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, generated)
}

func (h *Handlers) writeRecipeError(w http.ResponseWriter, err error, op, userID, recipeID string) {
	switch {
	case errors.Is(err, recipedomain.ErrNoHousehold):
		h.log.BusinessError(op+": user has no household", err, "user_id", userID)
		writeError(w, http.StatusNotFound, "no_household", "user does not belong to a household")
	case errors.Is(err, recipedomain.ErrRecipeNotFound):
		h.log.BusinessError(op+": recipe not found", err, "user_id", userID, "recipe_id", recipeID)
		writeError(w, http.StatusNotFound, "recipe_not_found", "recipe not found")
	default:
		h.log.InternalError(op+": failed", err, "user_id", userID, "recipe_id", recipeID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func validateRecipeRequest(req recipeRequest) (string, bool) {
	if strings.TrimSpace(req.Title) == "" {
		return "title is required", false
	}
	if len(req.Ingredients) == 0 {
		return "ingredients are required", false
	}
	for _, ingredient := range req.Ingredients {
		if strings.TrimSpace(ingredient.Name) == "" {
			return "ingredient name is required", false
		}
		if ingredient.Quantity <= 0 {
			return "ingredient quantity must be positive", false
		}
	}
	if strings.TrimSpace(req.Instructions) == "" {
		return "instructions are required", false
	}
	if req.PrepMinutes != nil && *req.PrepMinutes < 0 {
		return "prepTime must be non-negative", false
	}
	if req.CookMinutes != nil && *req.CookMinutes < 0 {
		return "cookTime must be non-negative", false
	}
	return "", true
}

func toRecipeResponse(r *recipedomain.Recipe) recipeResponse {
	return recipeResponse{
		ID:             r.ID,
		HouseholdID:    r.HouseholdID,
		Title:          r.Title,
		Ingredients:    r.Ingredients,
		Instructions:   r.Instructions,
		PrepMinutes:    r.PrepMinutes,
		CookMinutes:    r.CookMinutes,
		MealType:       r.MealType,
		CreationMethod: r.CreationMethod,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toRecipeResponses(recipes []recipedomain.Recipe) []recipeResponse {
	response := make([]recipeResponse, 0, len(recipes))
	for i := range recipes {
		response = append(response, toRecipeResponse(&recipes[i]))
	}
	return response
}
