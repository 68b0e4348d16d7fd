package service

import (
	"errors"

	"gymflow/fitness-app/internal/catalog"
	"gymflow/fitness-app/internal/domain"
)

var ErrExerciseNotFound = errors.New("exercise not found")

// ExerciseService serves the read-only exercise catalog.
type ExerciseService interface {
	Search(search, muscleGroup string) []domain.Exercise
	MuscleGroups() []string
	GetByID(id string) (*domain.Exercise, error)
}

type exerciseService struct {
	catalog *catalog.Catalog
}

func NewExerciseService(c *catalog.Catalog) ExerciseService {
	return &exerciseService{catalog: c}
}

func (s *exerciseService) Search(search, muscleGroup string) []domain.Exercise {
	return s.catalog.Filter(search, muscleGroup)
}

func (s *exerciseService) MuscleGroups() []string {
	return s.catalog.MuscleGroups()
}

func (s *exerciseService) GetByID(id string) (*domain.Exercise, error) {
	ex, err := s.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrExerciseNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &ex, nil
}
