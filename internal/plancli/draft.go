package plancli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gymflow/fitness-app/internal/catalog"
	"gymflow/fitness-app/internal/planner"

	"gopkg.in/yaml.v3"
)

// draft is the YAML file accepted by "plancli create":
//
//	name: Push Pull
//	days:
//	  - name: Push
//	    exercises:
//	      - id: bench-press
//	        sets: 4
//	        reps: 8
//
// Exercises are looked up in the catalog; sets and reps default to 3x10.
type draft struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Days        []draftDay `yaml:"days"`
}

type draftDay struct {
	Name      string          `yaml:"name"`
	Exercises []draftExercise `yaml:"exercises"`
}

type draftExercise struct {
	ID   string `yaml:"id"`
	Sets int    `yaml:"sets"`
	Reps int    `yaml:"reps"`
}

func loadDraft(path string, c *catalog.Catalog) (*planner.Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read draft: %w", err)
	}
	var d draft
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse draft %s: %w", path, err)
	}
	return d.build(c)
}

func (d *draft) build(c *catalog.Catalog) (*planner.Builder, error) {
	b := planner.NewBuilder()
	b.SetName(d.Name)
	b.SetDescription(d.Description)

	for i, day := range d.Days {
		if i > 0 {
			b.AddDay()
		}
		if day.Name != "" {
			if err := b.RenameDay(i, day.Name); err != nil {
				return nil, err
			}
		}
		for j, e := range day.Exercises {
			ex, err := c.Get(e.ID)
			if err != nil {
				return nil, fmt.Errorf("day %d exercise %d: unknown exercise %q", i+1, j+1, e.ID)
			}
			if err := b.AddExercise(i, ex); err != nil {
				return nil, err
			}
			if e.Sets != 0 {
				if err := b.UpdateExerciseField(i, j, planner.FieldSets, strconv.Itoa(e.Sets)); err != nil {
					return nil, err
				}
			}
			if e.Reps != 0 {
				if err := b.UpdateExerciseField(i, j, planner.FieldReps, strconv.Itoa(e.Reps)); err != nil {
					return nil, err
				}
			}
		}
	}
	return b, nil
}

// editOps are the changes requested by "plancli edit". They are applied in a
// fixed order: name and description, new days, renames, added exercises,
// sets and reps, removed exercises, removed days.
type editOps struct {
	name            string
	description     string
	addDays         int
	renameDays      []string
	addExercises    []string
	sets            []string
	reps            []string
	removeExercises []string
	removeDays      []int
}

func (o *editOps) apply(b *planner.Builder, c *catalog.Catalog) error {
	if o.name != "" {
		b.SetName(o.name)
	}
	if o.description != "" {
		b.SetDescription(o.description)
	}
	for i := 0; i < o.addDays; i++ {
		b.AddDay()
	}

	for _, arg := range o.renameDays {
		dayArg, name, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("%w: --rename-day wants N=name, got %q", ErrUsage, arg)
		}
		day, err := atoiArg(dayArg, "day")
		if err != nil {
			return err
		}
		if err := b.RenameDay(day-1, name); err != nil {
			return fmt.Errorf("rename day %d: %w", day, err)
		}
	}

	for _, arg := range o.addExercises {
		dayArg, id, ok := strings.Cut(arg, ":")
		if !ok {
			return fmt.Errorf("%w: --add-exercise wants N:exercise-id, got %q", ErrUsage, arg)
		}
		day, err := atoiArg(dayArg, "day")
		if err != nil {
			return err
		}
		ex, err := c.Get(id)
		if err != nil {
			return fmt.Errorf("unknown exercise %q", id)
		}
		if err := b.AddExercise(day-1, ex); err != nil {
			return fmt.Errorf("add exercise to day %d: %w", day, err)
		}
	}

	for _, f := range []struct {
		field planner.ExerciseField
		args  []string
	}{{planner.FieldSets, o.sets}, {planner.FieldReps, o.reps}} {
		for _, arg := range f.args {
			ref, value, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("%w: --%s wants N:M=value, got %q", ErrUsage, f.field, arg)
			}
			day, exercise, err := exerciseRef(ref)
			if err != nil {
				return err
			}
			if err := b.UpdateExerciseField(day-1, exercise-1, f.field, value); err != nil {
				return fmt.Errorf("set %s of day %d exercise %d: %w", f.field, day, exercise, err)
			}
		}
	}

	// Remove from the back so earlier positions stay valid. A position named
	// twice is removed once.
	type ref struct{ day, exercise int }
	seen := make(map[ref]bool, len(o.removeExercises))
	refs := make([]ref, 0, len(o.removeExercises))
	for _, arg := range o.removeExercises {
		day, exercise, err := exerciseRef(arg)
		if err != nil {
			return err
		}
		if r := (ref{day, exercise}); !seen[r] {
			seen[r] = true
			refs = append(refs, r)
		}
	}
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].day != refs[j].day {
			return refs[i].day > refs[j].day
		}
		return refs[i].exercise > refs[j].exercise
	})
	for _, r := range refs {
		if err := b.RemoveExercise(r.day-1, r.exercise-1); err != nil {
			return fmt.Errorf("remove day %d exercise %d: %w", r.day, r.exercise, err)
		}
	}

	days := append([]int(nil), o.removeDays...)
	sort.Sort(sort.Reverse(sort.IntSlice(days)))
	for i, day := range days {
		if i > 0 && days[i-1] == day {
			continue
		}
		b.RemoveDay(day - 1)
	}
	return nil
}

// exerciseRef parses "N:M" into a day and exercise number.
func exerciseRef(s string) (day, exercise int, err error) {
	dayArg, exArg, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("%w: want N:M, got %q", ErrUsage, s)
	}
	if day, err = atoiArg(dayArg, "day"); err != nil {
		return 0, 0, err
	}
	if exercise, err = atoiArg(exArg, "exercise"); err != nil {
		return 0, 0, err
	}
	return day, exercise, nil
}
