package planner

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gymflow/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type storeMock struct {
	mu      sync.Mutex
	creates int
	updates []string
	err     error
	block   chan struct{}
}

func (s *storeMock) Create(_ context.Context, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.err != nil {
		return nil, s.err
	}
	saved := plan.Clone()
	saved.ID = primitive.NewObjectID()
	saved.CreatedAt = time.Now().UTC()
	return saved, nil
}

func (s *storeMock) Update(_ context.Context, id string, plan *domain.WorkoutPlan) (*domain.WorkoutPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, id)
	if s.err != nil {
		return nil, s.err
	}
	return plan.Clone(), nil
}

func (s *storeMock) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates + len(s.updates)
}

func TestEditor_Save_InvalidPlanNeverReachesStore(t *testing.T) {
	store := &storeMock{}
	b := NewBuilder()
	require.NoError(t, b.AddExercise(0, benchPress()))
	b.SetName("")

	_, err := NewEditor(b, store).Save(context.Background())

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, store.calls())
}

func TestEditor_Save_CreateThenUpdate(t *testing.T) {
	store := &storeMock{}
	b := NewBuilder()
	b.SetName("Upper/Lower")
	require.NoError(t, b.AddExercise(0, benchPress()))
	e := NewEditor(b, store)

	saved, err := e.Save(context.Background())
	require.NoError(t, err)
	assert.False(t, saved.ID.IsZero())
	assert.Equal(t, 1, store.creates)

	require.NoError(t, b.UpdateExerciseField(0, 0, FieldReps, "8"))
	_, err = e.Save(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, []string{saved.ID.Hex()}, store.updates)
}

func TestEditor_Save_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("boom")
	store := &storeMock{err: boom}
	b := NewBuilder()
	b.SetName("x")
	require.NoError(t, b.AddExercise(0, benchPress()))

	_, err := NewEditor(b, store).Save(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, b.Plan().ID.IsZero())
}

func TestEditor_Save_RejectsOverlappingSave(t *testing.T) {
	store := &storeMock{block: make(chan struct{})}
	b := NewBuilder()
	b.SetName("x")
	require.NoError(t, b.AddExercise(0, benchPress()))
	e := NewEditor(b, store)

	done := make(chan error, 1)
	go func() {
		_, err := e.Save(context.Background())
		done <- err
	}()

	require.Eventually(t, e.Saving, time.Second, time.Millisecond)
	_, err := e.Save(context.Background())
	assert.ErrorIs(t, err, ErrSaveInProgress)

	close(store.block)
	require.NoError(t, <-done)
	assert.False(t, e.Saving())
	assert.Equal(t, 1, store.calls())
}
