package repository

import (
	"context"
	"time"

	"mindmentor/study-craft/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrForbidden = RepositoryError("document belongs to another user")
	ErrDuplicate = RepositoryError("duplicate document")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// StudyPlanRepository defines the interface for interacting with study plans.
type StudyPlanRepository interface {
	// Create returns ErrDuplicate when an active plan already exists for the same user and subject.
	Create(ctx context.Context, plan *domain.StudyPlan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StudyPlan, error)
	FindActiveBySubject(ctx context.Context, userID primitive.ObjectID, normalizedSubject string) (*domain.StudyPlan, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID, activeOnly bool) ([]domain.StudyPlan, error)
	// DeleteOwned returns nil, ErrNotFound (no such id) or ErrForbidden (id exists, other owner).
	DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) error
	UpdateProgress(ctx context.Context, id, ownerID primitive.ObjectID, progress int) error
	DeactivateExpired(ctx context.Context, before time.Time) (int64, error)
}

// ResourceSetRepository defines the interface for interacting with curated resource sets.
type ResourceSetRepository interface {
	// Create returns ErrDuplicate when a set already exists for the same user and topic.
	Create(ctx context.Context, set *domain.CuratedResourceSet) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CuratedResourceSet, error)
	FindByTopic(ctx context.Context, userID primitive.ObjectID, topic string) (*domain.CuratedResourceSet, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error)
	DeleteOwned(ctx context.Context, id, ownerID primitive.ObjectID) error
}

// StudySessionRepository stores completed timer sessions.
type StudySessionRepository interface {
	Create(ctx context.Context, session *domain.StudySession) (primitive.ObjectID, error)
	// ListByUser returns sessions that ended at or after since, oldest first.
	ListByUser(ctx context.Context, userID primitive.ObjectID, since time.Time) ([]domain.StudySession, error)
}
