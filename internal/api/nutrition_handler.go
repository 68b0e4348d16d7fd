package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"gymflow/fitness-app/internal/nutrition"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const maxFoodImageSize = 10 << 20

// NutritionHandler serves the diet planner and the food photo analysis.
type NutritionHandler struct {
	dietService service.DietService
}

func NewNutritionHandler(dietService service.DietService) *NutritionHandler {
	return &NutritionHandler{dietService: dietService}
}

type DietPlanRequest struct {
	Weight         float64 `json:"weight" binding:"required,gt=0"`
	Height         float64 `json:"height" binding:"required,gt=0"`
	Age            float64 `json:"age" binding:"required,gt=0"`
	Gender         string  `json:"gender" binding:"required,oneof=male female"`
	ActivityLevel  string  `json:"activityLevel" binding:"required,oneof=sedentary light moderate active veryActive"`
	Goal           string  `json:"goal" binding:"required,oneof=lose maintain gain"`
	DietPreference string  `json:"dietPreference"`
}

func handleAIError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnsupportedImageType):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrAIUnavailable):
		abortWithError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, service.ErrAIFailed):
		abortWithError(c, http.StatusBadGateway, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		abortWithError(c, http.StatusGatewayTimeout, "AI assistant took too long to answer")
	default:
		log.Errorf("%s: %s", fallback, err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// GenerateDietPlan godoc
// @Summary Generate a diet plan
// @Description Computes BMR, TDEE and macro targets and asks the AI assistant for a matching plan.
// @Tags Nutrition
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body DietPlanRequest true "Body measurements and preferences"
// @Success 200 {object} service.DietPlanResult
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 429 {object} gin.H "Too many AI requests"
// @Failure 502 {object} gin.H "AI assistant failed"
// @Failure 503 {object} gin.H "AI assistant not configured"
// @Router /api/diet-plan [post]
func (h *NutritionHandler) GenerateDietPlan(c *gin.Context) {
	var req DietPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.dietService.GenerateDietPlan(c.Request.Context(), service.DietPlanRequest{
		Body: nutrition.Body{
			Weight:   req.Weight,
			Height:   req.Height,
			Age:      req.Age,
			Gender:   nutrition.Gender(req.Gender),
			Activity: nutrition.ActivityLevel(req.ActivityLevel),
			Goal:     nutrition.Goal(req.Goal),
		},
		DietPreference: req.DietPreference,
	})
	if err != nil {
		handleAIError(c, err, "Failed to generate diet plan.")
		return
	}
	c.JSON(http.StatusOK, result)
}

// AnalyzeFood godoc
// @Summary Analyze a food photo
// @Description Estimates the food and its macronutrients from an uploaded image.
// @Tags Nutrition
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Food photo (jpeg, png, webp or gif)"
// @Success 200 {object} service.FoodAnalysis
// @Failure 400 {object} gin.H "Missing or unsupported image"
// @Failure 413 {object} gin.H "Image too large"
// @Failure 502 {object} gin.H "AI assistant failed"
// @Router /api/food-analysis [post]
func (h *NutritionHandler) AnalyzeFood(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "An image file is required in the 'image' field.")
		return
	}
	if fileHeader.Size > maxFoodImageSize {
		abortWithError(c, http.StatusRequestEntityTooLarge, "Image is too large.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read the uploaded image.")
		return
	}
	defer f.Close()

	image, err := io.ReadAll(io.LimitReader(f, maxFoodImageSize))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Could not read the uploaded image.")
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(image)
	}

	analysis, err := h.dietService.AnalyzeFood(c.Request.Context(), mimeType, image)
	if err != nil {
		handleAIError(c, err, "Failed to analyze food image.")
		return
	}
	c.JSON(http.StatusOK, analysis)
}
