// Package catalog serves the static exercise catalog bundled with the binary.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gymflow/fitness-app/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed exercises.yaml
var bundled []byte

var ErrExerciseNotFound = errors.New("exercise not found in catalog")

type fileGroup struct {
	Name      string            `yaml:"name"`
	Exercises []domain.Exercise `yaml:"exercises"`
}

type file struct {
	Groups []fileGroup `yaml:"groups"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	groups []string
	byID   map[string]domain.Exercise
	all    []domain.Exercise // Flattened, in group order
}

// Load parses the bundled catalog.
func Load() (*Catalog, error) {
	return Parse(bundled)
}

// Parse builds a catalog from YAML data. Every exercise gets the muscle group
// of the section it is listed under.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing exercise catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]domain.Exercise)}
	for _, g := range f.Groups {
		if g.Name == "" {
			return nil, errors.New("exercise catalog: group without a name")
		}
		c.groups = append(c.groups, g.Name)
		for _, ex := range g.Exercises {
			if ex.ID == "" || ex.Name == "" {
				return nil, fmt.Errorf("exercise catalog: group %q has an exercise without id or name", g.Name)
			}
			if _, dup := c.byID[ex.ID]; dup {
				return nil, fmt.Errorf("exercise catalog: duplicate exercise id %q", ex.ID)
			}
			ex.MuscleGroup = g.Name
			c.byID[ex.ID] = ex
			c.all = append(c.all, ex)
		}
	}
	return c, nil
}

// All returns every exercise, flattened in group order.
func (c *Catalog) All() []domain.Exercise {
	return append([]domain.Exercise(nil), c.all...)
}

// MuscleGroups returns the group names in catalog order.
func (c *Catalog) MuscleGroups() []string {
	return append([]string(nil), c.groups...)
}

// ByMuscleGroup returns the exercises of one group; unknown groups yield an empty slice.
func (c *Catalog) ByMuscleGroup(group string) []domain.Exercise {
	return c.Filter("", group)
}

// Get looks an exercise up by id.
func (c *Catalog) Get(id string) (domain.Exercise, error) {
	ex, ok := c.byID[id]
	if !ok {
		return domain.Exercise{}, ErrExerciseNotFound
	}
	return ex, nil
}

// Filter matches exercises whose name contains search (case-insensitive) and,
// when muscleGroup is not empty, belong to that group.
func (c *Catalog) Filter(search, muscleGroup string) []domain.Exercise {
	search = strings.ToLower(strings.TrimSpace(search))
	result := []domain.Exercise{}
	for _, ex := range c.all {
		if muscleGroup != "" && ex.MuscleGroup != muscleGroup {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(ex.Name), search) {
			continue
		}
		result = append(result, ex)
	}
	return result
}
