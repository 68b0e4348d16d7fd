package repository

import (
	"context"

	"gymflow/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	// Create returns ErrDuplicateKey if the email is taken.
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// Update stores name, email and password hash. ErrDuplicateKey if the new email is taken.
	Update(ctx context.Context, user *domain.User) error
	SetProfilePicture(ctx context.Context, id primitive.ObjectID, objectKey string) error
}

// WorkoutPlanRepository stores whole plan documents. Every lookup is scoped
// by owner: a plan of another user behaves exactly like a missing one.
type WorkoutPlanRepository interface {
	Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlan, error)
	// ListByUser returns the user's plans, newest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error)
	// Replace overwrites name, description and days of an existing plan.
	Replace(ctx context.Context, plan *domain.WorkoutPlan) error
	Delete(ctx context.Context, id, userID primitive.ObjectID) error
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	// Create returns ErrDuplicateKey if the object key was already recorded.
	Create(ctx context.Context, upload *domain.Upload) (primitive.ObjectID, error)
	// GetLatestByUser returns the most recent upload of a kind for a user.
	GetLatestByUser(ctx context.Context, userID primitive.ObjectID, kind domain.UploadKind) (*domain.Upload, error)
}
