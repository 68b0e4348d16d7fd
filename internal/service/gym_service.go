package service

import (
	"context"
	"errors"
	"fmt"

	"gymflow/fitness-app/internal/integrations/places"
	"gymflow/fitness-app/internal/metrics"

	log "github.com/sirupsen/logrus"
)

var (
	ErrGymSearchUnavailable = errors.New("gym search is not configured")
	ErrGymSearchFailed      = errors.New("gym search failed")
)

// GymFinder looks up gyms around a location.
type GymFinder interface {
	NearbyGyms(ctx context.Context, lat, lng float64, radius int) ([]places.Place, error)
}

type GymService interface {
	Nearby(ctx context.Context, lat, lng float64, radius int) ([]places.Place, error)
}

type gymService struct {
	finder  GymFinder
	metrics *metrics.Manager
}

func NewGymService(finder GymFinder, metricsManager *metrics.Manager) GymService {
	return &gymService{finder: finder, metrics: metricsManager}
}

func (s *gymService) Nearby(ctx context.Context, lat, lng float64, radius int) ([]places.Place, error) {
	gyms, err := s.finder.NearbyGyms(ctx, lat, lng, radius)
	switch {
	case err == nil:
		s.count("ok")
		return gyms, nil
	case errors.Is(err, places.ErrNotConfigured):
		return nil, ErrGymSearchUnavailable
	case errors.Is(err, places.ErrInvalidLocation):
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		s.count("error")
		log.Errorf("nearby gyms at %f,%f: %s", lat, lng, err)
		return nil, ErrGymSearchFailed
	}
}

func (s *gymService) count(result string) {
	if s.metrics != nil {
		s.metrics.CounterExternalAPICalls.WithLabelValues("places", result).Inc()
	}
}
