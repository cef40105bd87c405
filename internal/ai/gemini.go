package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pantry-pilot/internal/config"
	recipedomain "pantry-pilot/internal/domain/recipe"
	"pantry-pilot/pkg/logger"

	"google.golang.org/genai"
)

const defaultTimeout = 30 * time.Second

// RecipeGenerator asks Gemini for a recipe constrained to the recipe JSON
// schema, so the response parses directly into the domain shape.
type RecipeGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

func NewRecipeGenerator(ctx context.Context, cfg config.GeminiConfig, log logger.Logger) (*RecipeGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &RecipeGenerator{
		client:  client,
		model:   cfg.Model,
		timeout: timeout,
		log:     log,
	}, nil
}

func (g *RecipeGenerator) Generate(ctx context.Context, input recipedomain.GenerateInput) (*recipedomain.GeneratedRecipe, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	response, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(input)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   recipeSchema(),
	})
	if err != nil {
		g.log.InternalError("ai: generate content failed", err, "model", g.model)
		return nil, fmt.Errorf("%w: %v", recipedomain.ErrGenerationFailed, err)
	}

	raw := strings.TrimSpace(response.Text())
	if raw == "" {
		return nil, recipedomain.ErrGenerationFailed
	}

	var generated recipedomain.GeneratedRecipe
	if err := json.Unmarshal([]byte(raw), &generated); err != nil {
		g.log.InternalError("ai: response did not match schema", err, "model", g.model)
		return nil, fmt.Errorf("%w: %v", recipedomain.ErrGenerationFailed, err)
	}

	return &generated, nil
}

func buildPrompt(input recipedomain.GenerateInput) string {
	var b strings.Builder
	b.WriteString("Create a single household recipe for the following request: ")
	b.WriteString(input.Prompt)
	b.WriteString("\nQuantities must be numeric and units metric where applicable.")
	if input.MealType != nil {
		fmt.Fprintf(&b, "\nThe recipe must be suitable as a %s.", *input.MealType)
	}
	if input.MaxPrepMinutes != nil {
		fmt.Fprintf(&b, "\nPreparation time must not exceed %d minutes.", *input.MaxPrepMinutes)
	}
	return b.String()
}

func recipeSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {Type: genai.TypeString},
			"ingredients": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":     {Type: genai.TypeString},
						"quantity": {Type: genai.TypeNumber},
						"unit":     {Type: genai.TypeString},
					},
					Required: []string{"name", "quantity"},
				},
			},
			"instructions": {Type: genai.TypeString},
			"prepTime":     {Type: genai.TypeInteger},
			"cookTime":     {Type: genai.TypeInteger},
			"mealType": {
				Type: genai.TypeString,
				Enum: []string{"breakfast", "lunch", "dinner", "snack", "dessert"},
			},
		},
		Required: []string{"title", "ingredients", "instructions"},
	}
}
