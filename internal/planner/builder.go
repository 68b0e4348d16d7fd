// Package planner holds the in-memory workout plan editor, the read-only plan
// viewer and the save orchestration that sits between them and the plan store.
package planner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"gymflow/fitness-app/internal/domain"
)

// ExerciseField names the per-exercise overrides a user can edit.
type ExerciseField string

const (
	FieldSets ExerciseField = "sets"
	FieldReps ExerciseField = "reps"
)

// Builder owns the editable in-memory plan. A plan under edit always has at
// least one day. Builder is not safe for concurrent use.
type Builder struct {
	plan      *domain.WorkoutPlan
	activeDay int
}

// NewBuilder starts a new plan with a single empty "Day 1".
func NewBuilder() *Builder {
	return &Builder{
		plan: &domain.WorkoutPlan{
			Days: []domain.Day{newDay(1)},
		},
	}
}

// NewBuilderFromPlan starts editing a copy of an existing plan.
func NewBuilderFromPlan(plan *domain.WorkoutPlan) *Builder {
	cp := plan.Clone()
	if len(cp.Days) == 0 {
		cp.Days = []domain.Day{newDay(1)}
	}
	return &Builder{plan: cp}
}

func newDay(n int) domain.Day {
	return domain.Day{Name: fmt.Sprintf("Day %d", n), Exercises: []domain.PlanExercise{}}
}

// Plan returns a copy of the plan as currently edited.
func (b *Builder) Plan() *domain.WorkoutPlan {
	return b.plan.Clone()
}

func (b *Builder) DayCount() int {
	return len(b.plan.Days)
}

func (b *Builder) ActiveDay() int {
	return b.activeDay
}

func (b *Builder) SetActiveDay(index int) error {
	if index < 0 || index >= len(b.plan.Days) {
		return ErrIndexOutOfRange
	}
	b.activeDay = index
	return nil
}

func (b *Builder) SetName(name string) {
	b.plan.Name = name
}

func (b *Builder) SetDescription(description string) {
	b.plan.Description = description
}

// AddDay appends "Day {n+1}", makes it the active day and returns its index.
func (b *Builder) AddDay() int {
	b.plan.Days = append(b.plan.Days, newDay(len(b.plan.Days)+1))
	b.activeDay = len(b.plan.Days) - 1
	return b.activeDay
}

// RemoveDay deletes the day at index. Removing the only remaining day, or an
// index that does not exist, does nothing.
func (b *Builder) RemoveDay(index int) {
	if len(b.plan.Days) <= 1 || index < 0 || index >= len(b.plan.Days) {
		return
	}
	b.plan.Days = append(b.plan.Days[:index], b.plan.Days[index+1:]...)
	if b.activeDay >= index && b.activeDay > 0 {
		b.activeDay--
	}
}

// RenameDay sets a day's name. Names need not be unique.
func (b *Builder) RenameDay(index int, name string) error {
	if index < 0 || index >= len(b.plan.Days) {
		return ErrIndexOutOfRange
	}
	b.plan.Days[index].Name = name
	return nil
}

// AddExercise appends a snapshot of ex to the given day with the default
// sets and reps.
func (b *Builder) AddExercise(dayIndex int, ex domain.Exercise) error {
	if dayIndex < 0 || dayIndex >= len(b.plan.Days) {
		return ErrIndexOutOfRange
	}
	day := &b.plan.Days[dayIndex]
	day.Exercises = append(day.Exercises, domain.PlanExercise{
		Exercise: ex,
		Sets:     domain.DefaultSets,
		Reps:     domain.DefaultReps,
	})
	return nil
}

func (b *Builder) AddExerciseToActiveDay(ex domain.Exercise) error {
	return b.AddExercise(b.activeDay, ex)
}

// RemoveExercise deletes the exercise at exerciseIndex; later exercises move up by one.
func (b *Builder) RemoveExercise(dayIndex, exerciseIndex int) error {
	if err := b.checkExercise(dayIndex, exerciseIndex); err != nil {
		return err
	}
	day := &b.plan.Days[dayIndex]
	day.Exercises = append(day.Exercises[:exerciseIndex], day.Exercises[exerciseIndex+1:]...)
	return nil
}

// UpdateExerciseField stores raw, as typed by the user, into sets or reps.
// The value is read like a form field (leading integer, "12abc" is 12); anything
// non-numeric or below 1 is stored as 1.
func (b *Builder) UpdateExerciseField(dayIndex, exerciseIndex int, field ExerciseField, raw string) error {
	if err := b.checkExercise(dayIndex, exerciseIndex); err != nil {
		return err
	}
	ex := &b.plan.Days[dayIndex].Exercises[exerciseIndex]
	value := coercePositive(raw)
	switch field {
	case FieldSets:
		ex.Sets = value
	case FieldReps:
		ex.Reps = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// ValidateForSave runs the pre-flight save check on the current plan.
func (b *Builder) ValidateForSave() error {
	return ValidateForSave(b.plan)
}

// markSaved copies the server-assigned identity of a persisted plan so the
// next save becomes an update.
func (b *Builder) markSaved(saved *domain.WorkoutPlan) {
	b.plan.ID = saved.ID
	b.plan.CreatedAt = saved.CreatedAt
	b.plan.UpdatedAt = saved.UpdatedAt
}

func (b *Builder) checkExercise(dayIndex, exerciseIndex int) error {
	if dayIndex < 0 || dayIndex >= len(b.plan.Days) {
		return ErrIndexOutOfRange
	}
	if exerciseIndex < 0 || exerciseIndex >= len(b.plan.Days[dayIndex].Exercises) {
		return ErrIndexOutOfRange
	}
	return nil
}

func coercePositive(raw string) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == digitsStart {
		return 1
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n < 1 {
		return 1
	}
	return n
}
