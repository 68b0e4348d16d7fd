// Package client talks to the workout plan API on behalf of a signed-in user.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/planner"
)

const plansPath = "/api/workout-plans"

// PlanClient performs CRUD on the signed-in user's workout plans.
// It satisfies planner.PlanStore.
type PlanClient struct {
	t *transport
}

var _ planner.PlanStore = (*PlanClient)(nil)

func NewPlanClient(cfg Config) (*PlanClient, error) {
	if cfg.Tokens == nil {
		return nil, errors.New("client: token source is required")
	}
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &PlanClient{t: t}, nil
}

// Create stores a new plan and returns it with the server-assigned id and timestamps.
func (c *PlanClient) Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	var saved domain.WorkoutPlan
	if _, err := c.t.do(ctx, http.MethodPost, plansPath, true, plan, &saved); err != nil {
		return nil, err
	}
	if err := checkPlan(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Update replaces the whole plan identified by id.
func (c *PlanClient) Update(ctx context.Context, id string, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	var saved domain.WorkoutPlan
	if _, err := c.t.do(ctx, http.MethodPut, planPath(id), true, plan, &saved); err != nil {
		return nil, withID(err, id)
	}
	if err := checkPlan(&saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (c *PlanClient) FetchOne(ctx context.Context, id string) (*domain.WorkoutPlan, error) {
	var plan domain.WorkoutPlan
	if _, err := c.t.do(ctx, http.MethodGet, planPath(id), true, nil, &plan); err != nil {
		return nil, withID(err, id)
	}
	if err := checkPlan(&plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// FetchAll lists the user's plans. A user without plans gets an empty slice.
func (c *PlanClient) FetchAll(ctx context.Context) ([]*domain.WorkoutPlan, error) {
	var plans []*domain.WorkoutPlan
	if _, err := c.t.do(ctx, http.MethodGet, plansPath, true, nil, &plans); err != nil {
		return nil, err
	}
	for i, p := range plans {
		if p == nil {
			return nil, fmt.Errorf("%w: plan %d is null", ErrMalformedResponse, i)
		}
		if err := checkPlan(p); err != nil {
			return nil, err
		}
	}
	if plans == nil {
		plans = []*domain.WorkoutPlan{}
	}
	return plans, nil
}

// Remove deletes the plan. Deleting a plan that is already gone is not an error.
func (c *PlanClient) Remove(ctx context.Context, id string) error {
	_, err := c.t.do(ctx, http.MethodDelete, planPath(id), true, nil, nil)
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nil
	}
	return err
}

func planPath(id string) string {
	return plansPath + "/" + url.PathEscape(id)
}

func withID(err error, id string) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		nf.ID = id
	}
	return err
}

// checkPlan rejects server documents that are not well-formed plans.
func checkPlan(p *domain.WorkoutPlan) error {
	if p.ID.IsZero() {
		return fmt.Errorf("%w: plan without id", ErrMalformedResponse)
	}
	if err := planner.ValidateDocument(p); err != nil {
		return fmt.Errorf("%w: plan %s: %v", ErrMalformedResponse, p.ID.Hex(), err)
	}
	return nil
}
