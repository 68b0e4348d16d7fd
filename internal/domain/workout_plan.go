// internal/domain/workout_plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default per-exercise overrides applied when an exercise is added to a plan.
const (
	DefaultSets = 3
	DefaultReps = 10
)

// PlanExercise is a snapshot of a catalog Exercise taken when it was added to a plan,
// plus the per-plan sets/reps overrides.
//
// The catalog fields are copied, not referenced: a plan keeps the exercise exactly as it
// looked when it was saved, and later catalog changes never rewrite saved plans.
type PlanExercise struct {
	Exercise `bson:",inline"`
	Sets     int `bson:"sets" json:"sets" binding:"min=1"`
	Reps     int `bson:"reps" json:"reps" binding:"min=1"`
}

// Day is one training day of a plan. Exercise order is the workout order.
type Day struct {
	Name      string         `bson:"name" json:"name"`
	Exercises []PlanExercise `bson:"exercises" json:"exercises" binding:"required,min=1,dive"`
}

// WorkoutPlan is a user's multi-day custom plan. It is always stored and transmitted
// as a whole document; there is no partial update.
type WorkoutPlan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"-"` // Owner, taken from the session, never sent to clients
	Name        string             `bson:"name" json:"name" binding:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Days        []Day              `bson:"days" json:"days" binding:"required,min=1,dive"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TotalExercises counts exercises across all days.
func (p *WorkoutPlan) TotalExercises() int {
	total := 0
	for _, d := range p.Days {
		total += len(d.Exercises)
	}
	return total
}

// Clone returns a deep copy of the plan so callers can mutate days and exercises
// without aliasing the original slices.
func (p *WorkoutPlan) Clone() *WorkoutPlan {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Days = make([]Day, len(p.Days))
	for i, d := range p.Days {
		cp.Days[i] = Day{Name: d.Name, Exercises: append([]PlanExercise(nil), d.Exercises...)}
		if cp.Days[i].Exercises == nil {
			cp.Days[i].Exercises = []PlanExercise{}
		}
	}
	return &cp
}
