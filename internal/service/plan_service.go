package service

import (
	"context"
	"errors"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/planner"
	"gymflow/fitness-app/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrPlanNotFound = errors.New("workout plan not found")

// PlanService is the system of record for workout plans. Every operation is
// scoped to the calling user. Invalid plans are rejected with a
// *planner.ValidationError.
type PlanService interface {
	Create(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	Get(ctx context.Context, userID primitive.ObjectID, planID string) (*domain.WorkoutPlan, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// Update replaces the whole plan. Concurrent updates are last-write-wins.
	Update(ctx context.Context, userID primitive.ObjectID, planID string, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	Delete(ctx context.Context, userID primitive.ObjectID, planID string) error
}

type planService struct {
	planRepo repository.WorkoutPlanRepository
	metrics  *metrics.Manager
}

func NewPlanService(planRepo repository.WorkoutPlanRepository, metricsManager *metrics.Manager) PlanService {
	return &planService{
		planRepo: planRepo,
		metrics:  metricsManager,
	}
}

// validatePlan runs the same pre-save rules as the client plus the document
// shape check. The plan is stored exactly as sent.
func validatePlan(plan *domain.WorkoutPlan) error {
	if err := planner.ValidateForSave(plan); err != nil {
		return err
	}
	return planner.ValidateDocument(plan)
}

func (s *planService) Create(ctx context.Context, userID primitive.ObjectID, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	plan.UserID = userID
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		log.Errorf("create workout plan for user %s: %s", userID.Hex(), err)
		return nil, err
	}
	s.countWrite("create")
	return plan, nil
}

func (s *planService) Get(ctx context.Context, userID primitive.ObjectID, planID string) (*domain.WorkoutPlan, error) {
	id, err := primitive.ObjectIDFromHex(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	plan, err := s.planRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *planService) List(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	return plans, nil
}

func (s *planService) Update(ctx context.Context, userID primitive.ObjectID, planID string, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	id, err := primitive.ObjectIDFromHex(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	if err := validatePlan(plan); err != nil {
		return nil, err
	}

	existing, err := s.planRepo.GetByID(ctx, id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	existing.Name = plan.Name
	existing.Description = plan.Description
	existing.Days = plan.Days
	if err := s.planRepo.Replace(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	s.countWrite("update")
	return existing, nil
}

func (s *planService) Delete(ctx context.Context, userID primitive.ObjectID, planID string) error {
	id, err := primitive.ObjectIDFromHex(planID)
	if err != nil {
		return ErrPlanNotFound
	}
	if err := s.planRepo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	s.countWrite("delete")
	return nil
}

func (s *planService) countWrite(op string) {
	if s.metrics != nil {
		s.metrics.CounterPlanWrites.WithLabelValues(op).Inc()
	}
}
