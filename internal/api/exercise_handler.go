package api

import (
	"errors"
	"net/http"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the read-only exercise catalog.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseResponse is the DTO for returning catalog exercises.
type ExerciseResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Muscle       string `json:"muscle"`
	MuscleGroup  string `json:"muscleGroup"`
	Description1 string `json:"description1,omitempty"`
	Description2 string `json:"description2,omitempty"`
	GifURL       string `json:"gif_url,omitempty"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:           ex.ID,
		Name:         ex.Name,
		Muscle:       ex.Muscle,
		MuscleGroup:  ex.MuscleGroup,
		Description1: ex.Description1,
		Description2: ex.Description2,
		GifURL:       ex.GifURL,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary Browse the exercise catalog
// @Description Lists catalog exercises, optionally filtered by a name search and a muscle group.
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param search query string false "Case-insensitive name substring"
// @Param muscleGroup query string false "Muscle group tag"
// @Success 200 {array} ExerciseResponse "List of exercises"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /api/exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises := h.exerciseService.Search(c.Query("search"), c.Query("muscleGroup"))
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// ListMuscleGroups godoc
// @Summary List muscle groups
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string "Muscle group tags in catalog order"
// @Router /api/exercises/muscle-groups [get]
func (h *ExerciseHandler) ListMuscleGroups(c *gin.Context) {
	c.JSON(http.StatusOK, h.exerciseService.MuscleGroups())
}

// GetExercise godoc
// @Summary Get one catalog exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /api/exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exercise, err := h.exerciseService.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrExerciseNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve exercise.")
		}
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}
