package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"

	"gymflow/fitness-app/internal/integrations/places"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type GymHandler struct {
	gymService service.GymService
}

func NewGymHandler(gymService service.GymService) *GymHandler {
	return &GymHandler{gymService: gymService}
}

// NearbyGyms godoc
// @Summary Find gyms near a location
// @Tags Gyms
// @Produce json
// @Security BearerAuth
// @Param lat query number true "Latitude"
// @Param lng query number true "Longitude"
// @Param radius query int false "Search radius in meters (default 1500)"
// @Success 200 {array} places.Place
// @Failure 400 {object} gin.H "Invalid location"
// @Failure 502 {object} gin.H "Maps API failed"
// @Failure 503 {object} gin.H "Gym search not configured"
// @Router /api/gyms/nearby [get]
func (h *GymHandler) NearbyGyms(c *gin.Context) {
	lat, err := parseCoordinate(c.Query("lat"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'lat' must be a number.")
		return
	}
	lng, err := parseCoordinate(c.Query("lng"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'lng' must be a number.")
		return
	}
	radius := 0
	if raw := c.Query("radius"); raw != "" {
		if radius, err = strconv.Atoi(raw); err != nil || radius < 0 {
			abortWithError(c, http.StatusBadRequest, "Query parameter 'radius' must be a positive integer.")
			return
		}
	}

	gyms, err := h.gymService.Nearby(c.Request.Context(), lat, lng, radius)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrGymSearchUnavailable):
			abortWithError(c, http.StatusServiceUnavailable, err.Error())
		case errors.Is(err, service.ErrGymSearchFailed), errors.Is(err, context.DeadlineExceeded):
			abortWithError(c, http.StatusBadGateway, "Gym search failed.")
		default:
			log.Errorf("nearby gyms: %s", err)
			abortWithError(c, http.StatusInternalServerError, "Gym search failed.")
		}
		return
	}
	if gyms == nil {
		c.JSON(http.StatusOK, []places.Place{})
		return
	}
	c.JSON(http.StatusOK, gyms)
}

// parseCoordinate accepts finite numbers only; ParseFloat alone lets "NaN" and "Inf" through.
func parseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}
