package recipe

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Memberships resolves the caller's household; found=false means the user
// belongs to none.
type Memberships interface {
	HouseholdIDForUser(ctx context.Context, userID string) (string, bool, error)
}

// Generator produces a recipe from a free-form prompt. Implemented by the
// Gemini client in internal/ai; nil when no API key is configured.
type Generator interface {
	Generate(ctx context.Context, input GenerateInput) (*GeneratedRecipe, error)
}

type Service struct {
	repo        Repository
	memberships Memberships
	generator   Generator
}

func NewService(repo Repository, memberships Memberships, generator Generator) *Service {
	return &Service{repo: repo, memberships: memberships, generator: generator}
}

func (s *Service) List(ctx context.Context, userID string) ([]Recipe, error) {
	householdID, err := s.householdFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByHousehold(ctx, householdID)
}

func (s *Service) Get(ctx context.Context, userID, recipeID string) (*Recipe, error) {
	return s.resolve(ctx, userID, recipeID)
}

func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Recipe, error) {
	householdID, err := s.householdFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := validateContent(input.Title, input.Ingredients, input.Instructions, input.PrepMinutes, input.CookMinutes); err != nil {
		return nil, err
	}

	method := input.CreationMethod
	if method == "" {
		method = MethodManual
	}
	switch method {
	case MethodManual, MethodAIGenerated, MethodAIModified:
	default:
		return nil, ErrInvalidCreationMethod
	}

	r := Recipe{
		ID:             uuid.NewString(),
		HouseholdID:    householdID,
		Title:          strings.TrimSpace(input.Title),
		Ingredients:    IngredientList(input.Ingredients),
		Instructions:   strings.TrimSpace(input.Instructions),
		PrepMinutes:    input.PrepMinutes,
		CookMinutes:    input.CookMinutes,
		MealType:       normalizeMealType(input.MealType),
		CreationMethod: method,
	}
	if err := s.repo.Create(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update replaces the recipe content. Editing an AI-generated recipe marks
// it ai_generated_modified.
func (s *Service) Update(ctx context.Context, userID, recipeID string, input UpdateInput) (*Recipe, error) {
	r, err := s.resolve(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if err := validateContent(input.Title, input.Ingredients, input.Instructions, input.PrepMinutes, input.CookMinutes); err != nil {
		return nil, err
	}

	r.Title = strings.TrimSpace(input.Title)
	r.Ingredients = IngredientList(input.Ingredients)
	r.Instructions = strings.TrimSpace(input.Instructions)
	r.PrepMinutes = input.PrepMinutes
	r.CookMinutes = input.CookMinutes
	r.MealType = normalizeMealType(input.MealType)
	if r.CreationMethod == MethodAIGenerated {
		r.CreationMethod = MethodAIModified
	}

	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, userID, recipeID string) error {
	if _, err := s.resolve(ctx, userID, recipeID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, recipeID)
}

func (s *Service) Generate(ctx context.Context, userID string, input GenerateInput) (*GeneratedRecipe, error) {
	if s.generator == nil {
		return nil, ErrGeneratorDisabled
	}

	// Generation is household-scoped even though nothing is persisted;
	// users without a household have nowhere to save the result.
	if _, err := s.householdFor(ctx, userID); err != nil {
		return nil, err
	}

	input.Prompt = strings.TrimSpace(input.Prompt)
	if input.Prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	generated, err := s.generator.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(generated.Title) == "" || len(generated.Ingredients) == 0 {
		return nil, ErrGenerationFailed
	}
	return generated, nil
}

func (s *Service) resolve(ctx context.Context, userID, recipeID string) (*Recipe, error) {
	householdID, err := s.householdFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	r, err := s.repo.Get(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.HouseholdID != householdID {
		// Foreign recipes are indistinguishable from missing ones.
		return nil, ErrRecipeNotFound
	}
	return r, nil
}

func (s *Service) householdFor(ctx context.Context, userID string) (string, error) {
	householdID, found, err := s.memberships.HouseholdIDForUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "", ErrNoHousehold
	}
	return householdID, nil
}

func validateContent(title string, ingredients []Ingredient, instructions string, prepMinutes, cookMinutes *int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(ingredients) == 0 {
		return fmt.Errorf("ingredients are required")
	}
	for _, ingredient := range ingredients {
		if strings.TrimSpace(ingredient.Name) == "" {
			return fmt.Errorf("ingredient name is required")
		}
		if ingredient.Quantity <= 0 {
			return fmt.Errorf("ingredient quantity must be positive")
		}
	}
	if strings.TrimSpace(instructions) == "" {
		return fmt.Errorf("instructions are required")
	}
	if prepMinutes != nil && *prepMinutes < 0 {
		return fmt.Errorf("prepTime must be non-negative")
	}
	if cookMinutes != nil && *cookMinutes < 0 {
		return fmt.Errorf("cookTime must be non-negative")
	}
	return nil
}

func normalizeMealType(mealType *string) *string {
	if mealType == nil {
		return nil
	}
	trimmed := strings.ToLower(strings.TrimSpace(*mealType))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
