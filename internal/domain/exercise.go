// internal/domain/exercise.go
package domain

// Exercise is a single record of the static exercise catalog.
// Catalog records are bundled with the application and never mutated at runtime.
type Exercise struct {
	ID           string `bson:"id" json:"id" yaml:"id" binding:"required"`
	Name         string `bson:"name" json:"name" yaml:"name" binding:"required"`
	Muscle       string `bson:"muscle" json:"muscle" yaml:"muscle"`                               // Target muscle label, e.g. "Upper Chest"
	MuscleGroup  string `bson:"muscleGroup" json:"muscleGroup" yaml:"-"`                          // Group tag, filled from the catalog section
	Description1 string `bson:"description1,omitempty" json:"description1,omitempty" yaml:"description1"` // Setup instructions
	Description2 string `bson:"description2,omitempty" json:"description2,omitempty" yaml:"description2"` // Execution instructions
	GifURL       string `bson:"gif_url,omitempty" json:"gif_url,omitempty" yaml:"gif_url"`
}
