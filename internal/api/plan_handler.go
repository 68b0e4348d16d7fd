package api

import (
	"errors"
	"net/http"
	"time"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/planner"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// PlanHandler serves the workout plan CRUD endpoints.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// WorkoutPlanRequest is the whole plan document sent on create and update.
// Rules are checked by the plan service so a rejected plan reports every
// offending field at once.
type WorkoutPlanRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Days        []domain.Day `json:"days"`
}

func (r *WorkoutPlanRequest) toDomain() *domain.WorkoutPlan {
	return &domain.WorkoutPlan{
		Name:        r.Name,
		Description: r.Description,
		Days:        r.Days,
	}
}

type WorkoutPlanResponse struct {
	ID          string       `json:"_id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Days        []domain.Day `json:"days"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func MapWorkoutPlanToResponse(p *domain.WorkoutPlan) WorkoutPlanResponse {
	if p == nil {
		return WorkoutPlanResponse{}
	}
	days := p.Days
	if days == nil {
		days = []domain.Day{}
	}
	return WorkoutPlanResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Days:        days,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func MapWorkoutPlansToResponse(plans []domain.WorkoutPlan) []WorkoutPlanResponse {
	responses := make([]WorkoutPlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapWorkoutPlanToResponse(&plans[i])
	}
	return responses
}

// handlePlanError maps plan service errors to responses.
func handlePlanError(c *gin.Context, err error, action string) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithValidation(c, verr)
	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Errorf("%s workout plan: %s", action, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+action+" workout plan.")
	}
}

// CreatePlan godoc
// @Summary Create a workout plan
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body WorkoutPlanRequest true "Whole plan document"
// @Success 201 {object} WorkoutPlanResponse "Plan created"
// @Failure 400 {object} gin.H "Validation error with field errors"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /api/workout-plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), userID, req.toDomain())
	if err != nil {
		handlePlanError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutPlanToResponse(plan))
}

// ListPlans godoc
// @Summary List my workout plans
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutPlanResponse "Plans, newest first (can be empty)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /api/workout-plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	plans, err := h.planService.List(c.Request.Context(), userID)
	if err != nil {
		handlePlanError(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlansToResponse(plans))
}

// GetPlan godoc
// @Summary Get one workout plan
// @Tags Workout Plans
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ObjectID Hex"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 404 {object} gin.H "Plan not found"
// @Router /api/workout-plans/{id} [get]
func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		handlePlanError(c, err, "get")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// UpdatePlan godoc
// @Summary Replace a workout plan
// @Description Full document replace. Concurrent updates are last-write-wins.
// @Tags Workout Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ObjectID Hex"
// @Param plan body WorkoutPlanRequest true "Whole plan document"
// @Success 200 {object} WorkoutPlanResponse
// @Failure 400 {object} gin.H "Validation error with field errors"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /api/workout-plans/{id} [put]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var req WorkoutPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), userID, c.Param("id"), req.toDomain())
	if err != nil {
		handlePlanError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, MapWorkoutPlanToResponse(plan))
}

// DeletePlan godoc
// @Summary Delete a workout plan
// @Tags Workout Plans
// @Security BearerAuth
// @Param id path string true "Plan ObjectID Hex"
// @Success 204 "Deleted"
// @Failure 404 {object} gin.H "Plan not found"
// @Router /api/workout-plans/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	if err := h.planService.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handlePlanError(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}
