package planner

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"gymflow/fitness-app/internal/domain"

	"github.com/go-playground/validator/v10"
)

const (
	msgPlanNameRequired = "Please enter a plan name"
	msgDayNeedsExercise = "Each day must have at least one exercise"
)

// ValidateForSave is the pre-flight check run before every create or update.
// It fails iff the plan name is blank or some day has no exercises, and never
// modifies the plan.
func ValidateForSave(plan *domain.WorkoutPlan) error {
	verr := &ValidationError{}
	if strings.TrimSpace(plan.Name) == "" {
		verr.add("name", msgPlanNameRequired)
	}
	for i, d := range plan.Days {
		if len(d.Exercises) == 0 {
			verr.add(fmt.Sprintf("days[%d].exercises", i), msgDayNeedsExercise)
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

var (
	docValidatorOnce sync.Once
	docValidator     *validator.Validate
)

// documentValidator checks the `binding` struct tags of the plan document, the
// same tags gin enforces on request bodies. Field names come from the json tags.
func documentValidator() *validator.Validate {
	docValidatorOnce.Do(func() {
		v := validator.New()
		v.SetTagName("binding")
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		docValidator = v
	})
	return docValidator
}

// ValidateDocument checks the shape of a whole plan document: a name, at least one
// day, at least one exercise per day, catalog fields present and sets/reps >= 1.
func ValidateDocument(plan *domain.WorkoutPlan) error {
	err := documentValidator().Struct(plan)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.add(fieldPath(fe.Namespace()), fieldMessage(fe))
	}
	return verr
}

// fieldPath turns "WorkoutPlan.days[0].exercises[1].Exercise.id" into
// "days[0].exercises[1].id".
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, p := range parts {
		if p == "Exercise" {
			continue
		}
		kept = append(kept, p)
	}
	return strings.Join(kept, ".")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s item(s)", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
