package planner

import (
	"context"
	"sync/atomic"

	"gymflow/fitness-app/internal/domain"
)

// PlanStore is the persistence side of a save: create for new plans, full
// replace for plans that already have an id.
type PlanStore interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
	Update(ctx context.Context, id string, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error)
}

// Editor ties a Builder to a PlanStore. Only one save per editor may be in flight;
// the latch does not cover other editors of the same plan.
//
// Nothing detects concurrent edits of the same plan from different editors:
// whichever update reaches the server last wins.
type Editor struct {
	builder *Builder
	store   PlanStore
	saving  atomic.Bool
}

func NewEditor(builder *Builder, store PlanStore) *Editor {
	return &Editor{builder: builder, store: store}
}

func (e *Editor) Builder() *Builder {
	return e.builder
}

// Saving reports whether a save is currently in flight.
func (e *Editor) Saving() bool {
	return e.saving.Load()
}

// Save validates the plan and sends it to the store. A plan that fails
// validation never reaches the store.
func (e *Editor) Save(ctx context.Context) (*domain.WorkoutPlan, error) {
	if !e.saving.CompareAndSwap(false, true) {
		return nil, ErrSaveInProgress
	}
	defer e.saving.Store(false)

	if err := e.builder.ValidateForSave(); err != nil {
		return nil, err
	}

	plan := e.builder.Plan()
	var (
		saved *domain.WorkoutPlan
		err   error
	)
	if plan.ID.IsZero() {
		saved, err = e.store.Create(ctx, plan)
	} else {
		saved, err = e.store.Update(ctx, plan.ID.Hex(), plan)
	}
	if err != nil {
		return nil, err
	}
	e.builder.markSaved(saved)
	return saved, nil
}
