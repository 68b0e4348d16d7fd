package plancli

import (
	"fmt"
	"io"
	"strings"

	"gymflow/fitness-app/internal/planner"
)

// renderPlan prints the plan header, the day tabs with the active one in
// brackets, and the exercises of the active day.
func renderPlan(w io.Writer, v *planner.Viewer) {
	plan := v.Plan()
	fmt.Fprintf(w, "%s  (%d days, %d exercises)\n", plan.Name, v.DayCount(), v.TotalExercises())
	if plan.Description != "" {
		fmt.Fprintln(w, plan.Description)
	}

	tabs := make([]string, len(plan.Days))
	for i, d := range plan.Days {
		if i == v.ActiveDay() {
			tabs[i] = "[" + d.Name + "]"
		} else {
			tabs[i] = d.Name
		}
	}
	fmt.Fprintln(w, strings.Join(tabs, "  "))

	day, ok := v.CurrentDay()
	if !ok {
		return
	}
	if len(day.Exercises) == 0 {
		fmt.Fprintln(w, "  (no exercises)")
		return
	}
	for i, ex := range day.Exercises {
		fmt.Fprintf(w, "  %d. %s (%s)  %d x %d\n", i+1, ex.Name, ex.Muscle, ex.Sets, ex.Reps)
	}

	if ex, ok := v.Expanded(); ok {
		fmt.Fprintf(w, "\n%s\n", ex.Name)
		if ex.Description1 != "" {
			fmt.Fprintf(w, "  %s\n", ex.Description1)
		}
		if ex.Description2 != "" {
			fmt.Fprintf(w, "  %s\n", ex.Description2)
		}
		if ex.GifURL != "" {
			fmt.Fprintf(w, "  %s\n", ex.GifURL)
		}
	}
}
