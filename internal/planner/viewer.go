package planner

import "gymflow/fitness-app/internal/domain"

// Viewer pages through a fetched plan one day at a time. Paging clamps at both
// ends; it never wraps around.
type Viewer struct {
	plan     *domain.WorkoutPlan
	active   int
	expanded int
}

func NewViewer(plan *domain.WorkoutPlan) *Viewer {
	return &Viewer{plan: plan, expanded: -1}
}

func (v *Viewer) Plan() *domain.WorkoutPlan {
	return v.plan
}

func (v *Viewer) DayCount() int {
	return len(v.plan.Days)
}

func (v *Viewer) ActiveDay() int {
	return v.active
}

// SelectDay moves to index, clamped into the valid range, and returns the new position.
func (v *Viewer) SelectDay(index int) int {
	last := len(v.plan.Days) - 1
	switch {
	case last < 0 || index < 0:
		index = 0
	case index > last:
		index = last
	}
	if index != v.active {
		v.expanded = -1
	}
	v.active = index
	return v.active
}

func (v *Viewer) NextDay() int {
	return v.SelectDay(v.active + 1)
}

func (v *Viewer) PreviousDay() int {
	return v.SelectDay(v.active - 1)
}

// CurrentDay returns the selected day; ok is false for a plan without days.
func (v *Viewer) CurrentDay() (day domain.Day, ok bool) {
	if len(v.plan.Days) == 0 {
		return domain.Day{}, false
	}
	return v.plan.Days[v.active], true
}

func (v *Viewer) TotalExercises() int {
	return v.plan.TotalExercises()
}

// Expand marks an exercise of the current day as expanded for detail display.
func (v *Viewer) Expand(exerciseIndex int) bool {
	day, ok := v.CurrentDay()
	if !ok || exerciseIndex < 0 || exerciseIndex >= len(day.Exercises) {
		return false
	}
	v.expanded = exerciseIndex
	return true
}

func (v *Viewer) Collapse() {
	v.expanded = -1
}

func (v *Viewer) Expanded() (domain.PlanExercise, bool) {
	day, ok := v.CurrentDay()
	if !ok || v.expanded < 0 || v.expanded >= len(day.Exercises) {
		return domain.PlanExercise{}, false
	}
	return day.Exercises[v.expanded], true
}
