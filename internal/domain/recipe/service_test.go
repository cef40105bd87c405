package recipe

import (
	"context"
	"errors"
	"testing"
)

type fakeRecipeRepo struct {
	recipes map[string]*Recipe
}

func newFakeRecipeRepo() *fakeRecipeRepo {
	return &fakeRecipeRepo{recipes: make(map[string]*Recipe)}
}

func (r *fakeRecipeRepo) ListByHousehold(ctx context.Context, householdID string) ([]Recipe, error) {
	result := make([]Recipe, 0)
	for _, recipe := range r.recipes {
		if recipe.HouseholdID == householdID {
			result = append(result, *recipe)
		}
	}
	return result, nil
}

func (r *fakeRecipeRepo) Get(ctx context.Context, recipeID string) (*Recipe, error) {
	recipe, ok := r.recipes[recipeID]
	if !ok {
		return nil, ErrRecipeNotFound
	}
	copied := *recipe
	return &copied, nil
}

func (r *fakeRecipeRepo) Create(ctx context.Context, recipe *Recipe) error {
	copied := *recipe
	r.recipes[recipe.ID] = &copied
	return nil
}

func (r *fakeRecipeRepo) Save(ctx context.Context, recipe *Recipe) error {
	copied := *recipe
	r.recipes[recipe.ID] = &copied
	return nil
}

func (r *fakeRecipeRepo) Delete(ctx context.Context, recipeID string) error {
	delete(r.recipes, recipeID)
	return nil
}

type fakeMemberships map[string]string

func (m fakeMemberships) HouseholdIDForUser(ctx context.Context, userID string) (string, bool, error) {
	householdID, ok := m[userID]
	return householdID, ok, nil
}

type fakeGenerator struct {
	result *GeneratedRecipe
	err    error
	calls  int
}

func (g *fakeGenerator) Generate(ctx context.Context, input GenerateInput) (*GeneratedRecipe, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func validInput() CreateInput {
	return CreateInput{
		Title:        "Pancakes",
		Ingredients:  []Ingredient{{Name: "Flour", Quantity: 200}},
		Instructions: "Mix and fry.",
	}
}

func TestCreateDefaultsToManual(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	result, err := svc.Create(context.Background(), "user-1", validInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CreationMethod != MethodManual {
		t.Fatalf("expected manual method, got %q", result.CreationMethod)
	}
	if result.HouseholdID != "hh-1" {
		t.Fatalf("expected household hh-1, got %q", result.HouseholdID)
	}
}

func TestCreateInvalidMethod(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	input := validInput()
	input.CreationMethod = "imported"
	_, err := svc.Create(context.Background(), "user-1", input)
	if !errors.Is(err, ErrInvalidCreationMethod) {
		t.Fatalf("expected ErrInvalidCreationMethod, got %v", err)
	}
}

func TestCreateWithoutHousehold(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewService(repo, fakeMemberships{}, nil)

	_, err := svc.Create(context.Background(), "user-1", validInput())
	if !errors.Is(err, ErrNoHousehold) {
		t.Fatalf("expected ErrNoHousehold, got %v", err)
	}
}

func TestCreateNormalizesMealType(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	mealType := " Dinner "
	input := validInput()
	input.MealType = &mealType
	result, err := svc.Create(context.Background(), "user-1", input)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.MealType == nil || *result.MealType != "dinner" {
		t.Fatalf("expected normalized meal type, got %v", result.MealType)
	}
}

func TestGetForeignRecipeLooksMissing(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.recipes["r-1"] = &Recipe{ID: "r-1", HouseholdID: "hh-2", Title: "Soup"}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	_, err := svc.Get(context.Background(), "user-1", "r-1")
	if !errors.Is(err, ErrRecipeNotFound) {
		t.Fatalf("expected ErrRecipeNotFound for foreign recipe, got %v", err)
	}
}

func TestUpdateMarksAIGeneratedModified(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.recipes["r-1"] = &Recipe{
		ID:             "r-1",
		HouseholdID:    "hh-1",
		Title:          "Soup",
		Ingredients:    IngredientList{{Name: "Water", Quantity: 1}},
		Instructions:   "Boil.",
		CreationMethod: MethodAIGenerated,
	}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	result, err := svc.Update(context.Background(), "user-1", "r-1", UpdateInput{
		Title:        "Better Soup",
		Ingredients:  []Ingredient{{Name: "Water", Quantity: 2}},
		Instructions: "Boil longer.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CreationMethod != MethodAIModified {
		t.Fatalf("expected ai_generated_modified, got %q", result.CreationMethod)
	}
}

func TestUpdateKeepsManualMethod(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.recipes["r-1"] = &Recipe{
		ID:             "r-1",
		HouseholdID:    "hh-1",
		Title:          "Soup",
		Ingredients:    IngredientList{{Name: "Water", Quantity: 1}},
		Instructions:   "Boil.",
		CreationMethod: MethodManual,
	}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	result, err := svc.Update(context.Background(), "user-1", "r-1", UpdateInput{
		Title:        "Better Soup",
		Ingredients:  []Ingredient{{Name: "Water", Quantity: 2}},
		Instructions: "Boil longer.",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.CreationMethod != MethodManual {
		t.Fatalf("expected manual to stay manual, got %q", result.CreationMethod)
	}
}

func TestDeleteRecipe(t *testing.T) {
	repo := newFakeRecipeRepo()
	repo.recipes["r-1"] = &Recipe{ID: "r-1", HouseholdID: "hh-1", Title: "Soup"}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	if err := svc.Delete(context.Background(), "user-1", "r-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, ok := repo.recipes["r-1"]; ok {
		t.Fatalf("expected recipe deleted")
	}
}

func TestGenerateWithoutGenerator(t *testing.T) {
	repo := newFakeRecipeRepo()
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, nil)

	_, err := svc.Generate(context.Background(), "user-1", GenerateInput{Prompt: "something quick"})
	if !errors.Is(err, ErrGeneratorDisabled) {
		t.Fatalf("expected ErrGeneratorDisabled, got %v", err)
	}
}

func TestGenerateWithoutHousehold(t *testing.T) {
	repo := newFakeRecipeRepo()
	gen := &fakeGenerator{result: &GeneratedRecipe{Title: "Toast", Ingredients: IngredientList{{Name: "Bread", Quantity: 2}}}}
	svc := NewService(repo, fakeMemberships{}, gen)

	_, err := svc.Generate(context.Background(), "user-1", GenerateInput{Prompt: "breakfast"})
	if !errors.Is(err, ErrNoHousehold) {
		t.Fatalf("expected ErrNoHousehold, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected generator untouched, got %d calls", gen.calls)
	}
}

func TestGenerateSuccess(t *testing.T) {
	repo := newFakeRecipeRepo()
	gen := &fakeGenerator{result: &GeneratedRecipe{
		Title:        "Toast",
		Ingredients:  IngredientList{{Name: "Bread", Quantity: 2}},
		Instructions: "Toast the bread.",
	}}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, gen)

	result, err := svc.Generate(context.Background(), "user-1", GenerateInput{Prompt: "  quick breakfast  "})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Title != "Toast" {
		t.Fatalf("expected Toast, got %q", result.Title)
	}
	if len(repo.recipes) != 0 {
		t.Fatalf("generation must not persist anything, got %d recipes", len(repo.recipes))
	}
}

func TestGenerateEmptyResult(t *testing.T) {
	repo := newFakeRecipeRepo()
	gen := &fakeGenerator{result: &GeneratedRecipe{Title: "  "}}
	svc := NewService(repo, fakeMemberships{"user-1": "hh-1"}, gen)

	_, err := svc.Generate(context.Background(), "user-1", GenerateInput{Prompt: "dinner"})
	if !errors.Is(err, ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}
