package service

import (
	"context"
	"errors"
	"testing"

	"gymflow/fitness-app/internal/integrations/gemini"
	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/nutrition"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBody = nutrition.Body{
	Weight:   80,
	Height:   180,
	Age:      30,
	Gender:   nutrition.GenderMale,
	Activity: nutrition.ActivityModerate,
	Goal:     nutrition.GoalLose,
}

func TestDietService_GenerateDietPlan(t *testing.T) {
	ai := &fakeAI{text: "## Daily Meal Schedule\n- Breakfast: oats"}
	svc := NewDietService(ai, metrics.NewTestManager())

	res, err := svc.GenerateDietPlan(context.Background(), DietPlanRequest{Body: testBody, DietPreference: "vegetarian"})
	require.NoError(t, err)
	assert.Equal(t, 1780, res.BMR)
	assert.Equal(t, 2759, res.TDEE)
	assert.Equal(t, nutrition.Macros{Calories: 2207, Protein: 176, Carbs: 248, Fats: 61}, res.Macros)
	assert.Equal(t, ai.text, res.Plan)

	assert.Contains(t, ai.lastPrompt, "vegetarian diet plan")
	assert.Contains(t, ai.lastPrompt, "Calories: 2207 kcal/day")
	assert.Contains(t, ai.lastPrompt, "Protein: 176g/day")
}

func TestDietService_GenerateDietPlanErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewDietService(&fakeAI{}, nil).GenerateDietPlan(ctx, DietPlanRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewDietService(&fakeAI{text: "Calories: undefined"}, nil).GenerateDietPlan(ctx, DietPlanRequest{Body: testBody})
	assert.ErrorIs(t, err, ErrAIFailed)

	_, err = NewDietService(&fakeAI{err: gemini.ErrNotConfigured}, nil).GenerateDietPlan(ctx, DietPlanRequest{Body: testBody})
	assert.ErrorIs(t, err, ErrAIUnavailable)

	_, err = NewDietService(&fakeAI{err: errors.New("boom")}, nil).GenerateDietPlan(ctx, DietPlanRequest{Body: testBody})
	assert.ErrorIs(t, err, ErrAIFailed)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewDietService(&fakeAI{err: errors.New("request aborted")}, nil).GenerateDietPlan(canceled, DietPlanRequest{Body: testBody})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDietService_Targets(t *testing.T) {
	svc := NewDietService(nil, nil)
	res, err := svc.Targets(testBody)
	require.NoError(t, err)
	assert.Empty(t, res.Plan)
	assert.Equal(t, 2207, res.Macros.Calories)
}

func TestDietService_AnalyzeFood(t *testing.T) {
	ai := &fakeAI{text: "Here you go:\n```json\n{\"foodName\": \"Oatmeal\", \"calories\": 150, \"protein\": 5, \"carbs\": 27, \"fats\": 3}\n```"}
	svc := NewDietService(ai, nil)

	fa, err := svc.AnalyzeFood(context.Background(), "image/jpeg", []byte{0xff, 0xd8})
	require.NoError(t, err)
	assert.Equal(t, "Oatmeal", fa.FoodName)
	assert.Equal(t, 150.0, fa.Calories)
	assert.Equal(t, "image/jpeg", ai.lastMime)

	_, err = svc.AnalyzeFood(context.Background(), "image/jpeg", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.AnalyzeFood(context.Background(), "application/pdf", []byte("x"))
	assert.ErrorIs(t, err, ErrUnsupportedImageType)
}

func TestParseFoodAnalysis(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantName string
		wantCal  float64
		wantRaw  bool
	}{
		{
			name:     "fenced",
			text:     "```json\n{\"foodName\":\"Apple\",\"calories\":95,\"protein\":0.5,\"carbs\":25,\"fats\":0.3}\n```",
			wantName: "Apple",
			wantCal:  95,
		},
		{
			name:     "bare object in prose",
			text:     "The result is {\"foodName\":\"Egg\",\"calories\":78,\"protein\":6,\"carbs\":0.6,\"fats\":5} per egg.",
			wantName: "Egg",
			wantCal:  78,
		},
		{
			name:     "plain text",
			text:     "Looks like a salad with about 200 calories.",
			wantName: "Unknown",
			wantRaw:  true,
		},
		{
			name:     "broken json",
			text:     "{\"foodName\": \"Pizza\", calories: lots}",
			wantName: "Unknown",
			wantRaw:  true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fa := parseFoodAnalysis(tc.text)
			assert.Equal(t, tc.wantName, fa.FoodName)
			assert.Equal(t, tc.wantCal, fa.Calories)
			if tc.wantRaw {
				assert.Equal(t, tc.text, fa.Analysis)
			} else {
				assert.Empty(t, fa.Analysis)
			}
		})
	}
}
