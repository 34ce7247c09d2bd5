package repository

import (
	"context"

	"ironlog/fitness-tracker/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

//go:generate mockgen -source=repository.go -destination=../mocks/repository_mock.go -package=mocks

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout records.
// Every method is scoped to a single owner.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.WorkoutRecord) error
	// ListByOwner skips documents that cannot be decoded.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutRecord, error)
	// Update replaces the stored record matching (OwnerID, WorkoutID) and loads
	// the stored result, including CreatedAt, back into workout.
	Update(ctx context.Context, workout *domain.WorkoutRecord) error
	Delete(ctx context.Context, ownerID, workoutID string) error
	// RenameExercise rewrites every entry named oldName and returns the number of workouts modified.
	RenameExercise(ctx context.Context, ownerID, oldName, newName string) (int64, error)
}
