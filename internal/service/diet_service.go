package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gymflow/fitness-app/internal/integrations/gemini"
	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/nutrition"

	log "github.com/sirupsen/logrus"
)

var (
	ErrAIUnavailable = errors.New("AI assistant is not configured")
	ErrAIFailed      = errors.New("AI assistant failed to answer")
)

// AIClient is the generative model used for diet plans and food photos.
type AIClient interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	AnalyzeImage(ctx context.Context, prompt, mimeType string, image []byte) (string, error)
}

type DietPlanRequest struct {
	Body           nutrition.Body
	DietPreference string // e.g. "vegetarian"; empty means no preference
}

type DietPlanResult struct {
	BMR    int              `json:"bmr"`
	TDEE   int              `json:"tdee"`
	Macros nutrition.Macros `json:"macros"`
	Plan   string           `json:"plan"` // markdown
}

// FoodAnalysis is the model's estimate for a photographed meal. Analysis holds
// the raw answer when it could not be read as JSON.
type FoodAnalysis struct {
	FoodName string  `json:"foodName"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Analysis string  `json:"analysis,omitempty"`
}

type DietService interface {
	// Targets computes energy and macro targets without calling the model.
	Targets(body nutrition.Body) (*DietPlanResult, error)
	GenerateDietPlan(ctx context.Context, req DietPlanRequest) (*DietPlanResult, error)
	AnalyzeFood(ctx context.Context, mimeType string, image []byte) (*FoodAnalysis, error)
}

type dietService struct {
	ai      AIClient
	metrics *metrics.Manager
}

func NewDietService(ai AIClient, metricsManager *metrics.Manager) DietService {
	return &dietService{ai: ai, metrics: metricsManager}
}

func (s *dietService) Targets(body nutrition.Body) (*DietPlanResult, error) {
	if err := body.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return &DietPlanResult{
		BMR:    int(math.Round(nutrition.BMR(body))),
		TDEE:   int(math.Round(nutrition.TDEE(body))),
		Macros: nutrition.Targets(body),
	}, nil
}

func (s *dietService) GenerateDietPlan(ctx context.Context, req DietPlanRequest) (*DietPlanResult, error) {
	result, err := s.Targets(req.Body)
	if err != nil {
		return nil, err
	}

	text, err := s.ai.GenerateText(ctx, dietPrompt(req, result.Macros))
	if err != nil {
		return nil, s.aiError(ctx, "diet_plan", err)
	}
	if strings.Contains(strings.ToLower(text), "undefined") {
		s.countCall("diet_plan", "invalid")
		return nil, ErrAIFailed
	}
	s.countCall("diet_plan", "ok")

	result.Plan = text
	return result, nil
}

func (s *dietService) AnalyzeFood(ctx context.Context, mimeType string, image []byte) (*FoodAnalysis, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}
	if _, ok := pictureExtensions[mimeType]; !ok {
		return nil, ErrUnsupportedImageType
	}

	text, err := s.ai.AnalyzeImage(ctx, foodPrompt, mimeType, image)
	if err != nil {
		return nil, s.aiError(ctx, "food_analysis", err)
	}
	s.countCall("food_analysis", "ok")
	return parseFoodAnalysis(text), nil
}

func (s *dietService) aiError(ctx context.Context, api string, err error) error {
	if errors.Is(err, gemini.ErrNotConfigured) {
		return ErrAIUnavailable
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	s.countCall(api, "error")
	log.Errorf("%s: %s", api, err)
	return ErrAIFailed
}

func (s *dietService) countCall(api, result string) {
	if s.metrics != nil {
		s.metrics.CounterExternalAPICalls.WithLabelValues(api, result).Inc()
	}
}

const foodPrompt = "Identify the food in this image and provide the estimated macronutrients " +
	"(calories, protein, carbs, fats). Format the response as JSON with fields: " +
	"foodName, calories, protein, carbs, fats."

func dietPrompt(req DietPlanRequest, m nutrition.Macros) string {
	pref := req.DietPreference
	if pref == "" {
		pref = "balanced"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Generate a detailed %s diet plan based on:\n\n", pref)
	fmt.Fprintf(&sb, "Calories: %d kcal/day\n", m.Calories)
	fmt.Fprintf(&sb, "Protein: %dg/day\n", m.Protein)
	fmt.Fprintf(&sb, "Goal: %s weight\n", req.Body.Goal)
	fmt.Fprintf(&sb, "Activity Level: %s\n", req.Body.Activity)
	fmt.Fprintf(&sb, "Diet Preference: %s\n\n", pref)
	sb.WriteString("Format the response with these markdown sections: Daily Meal Schedule, " +
		"Food Recommendations (Proteins, Carbohydrates, Healthy Fats), Foods to Avoid, " +
		"Quick Meal Ideas (Breakfast, Lunch, Dinner, Healthy Snacks).\n")
	sb.WriteString("Keep suggestions practical and easy to follow. Use - for bullet points.\n")
	fmt.Fprintf(&sb, "Ensure all suggestions comply with %s preferences.", pref)
	return sb.String()
}

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\\n(.*?)\\n\\s*```")
	bareJSON   = regexp.MustCompile(`(?s)\{.*?\}`)
)

// parseFoodAnalysis reads the JSON object out of the model's answer, which may
// be wrapped in a markdown code fence or surrounded by prose.
func parseFoodAnalysis(text string) *FoodAnalysis {
	candidate := ""
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	} else if m := bareJSON.FindString(text); m != "" {
		candidate = m
	}

	if candidate != "" {
		var fa FoodAnalysis
		if err := json.Unmarshal([]byte(candidate), &fa); err == nil && fa.FoodName != "" {
			return &fa
		}
	}
	return &FoodAnalysis{FoodName: "Unknown", Analysis: text}
}
