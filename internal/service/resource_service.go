package service

import (
	"context"
	"errors"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/repository"
	"mindmentor/study-craft/internal/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CurationResult is returned by CurateResources. AlreadyExists means the
// duplicate guard short-circuited and Set is the stored one.
type CurationResult struct {
	Set           *domain.CuratedResourceSet
	AlreadyExists bool
	UsedFallback  bool
}

type ResourceService interface {
	CurateResources(ctx context.Context, userID primitive.ObjectID, subject string) (*CurationResult, error)
	ListResources(ctx context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error)
	GetResourceSet(ctx context.Context, userID, setID primitive.ObjectID) (*domain.CuratedResourceSet, error)
	DeleteResourceSet(ctx context.Context, userID, setID primitive.ObjectID) error
}

type resourceService struct {
	repo     repository.ResourceSetRepository
	searcher search.Searcher
	curator  ResourceCurator
	timeout  time.Duration
	log      *logger.Logger
}

func NewResourceService(
	repo repository.ResourceSetRepository,
	searcher search.Searcher,
	curator ResourceCurator,
	timeout time.Duration,
	log *logger.Logger,
) ResourceService {
	return &resourceService{
		repo:     repo,
		searcher: searcher,
		curator:  curator,
		timeout:  timeout,
		log:      log.With("service", "ResourceService"),
	}
}

// CurateResources runs search, generation and persistence for a new topic,
// or returns the user's existing set for that topic.
func (s *resourceService) CurateResources(ctx context.Context, userID primitive.ObjectID, subject string) (*CurationResult, error) {
	subject, err := cleanSubject(subject)
	if err != nil {
		return nil, err
	}
	topic := domain.NormalizeSubject(subject)

	// 1. Duplicate guard
	existing, err := s.repo.FindByTopic(ctx, userID, topic)
	if err == nil {
		return &CurationResult{Set: existing, AlreadyExists: true}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// 2. Search + generate under the generation deadline
	genCtx, cancel := withDeadline(ctx, s.timeout)
	defer cancel()

	sr := s.searcher.Search(genCtx, search.KindResources, subject)
	resources, usedFallback, err := s.curator.CurateResources(genCtx, subject, sr)
	if err != nil {
		return nil, generationError(genCtx, err)
	}

	// 3. Persist
	set := &domain.CuratedResourceSet{
		UserID:    userID,
		Topic:     topic,
		Resources: resources,
	}
	id, err := s.repo.Create(ctx, set)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent request for the same topic
			winner, findErr := s.repo.FindByTopic(ctx, userID, topic)
			if findErr != nil {
				return nil, findErr
			}
			return &CurationResult{Set: winner, AlreadyExists: true}, nil
		}
		return nil, err
	}
	set.ID = id

	s.log.Info("curated resources", "userId", userID.Hex(), "topic", topic, "fallback", usedFallback)
	return &CurationResult{Set: set, UsedFallback: usedFallback}, nil
}

func (s *resourceService) ListResources(ctx context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *resourceService) GetResourceSet(ctx context.Context, userID, setID primitive.ObjectID) (*domain.CuratedResourceSet, error) {
	set, err := s.repo.GetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if set.UserID != userID {
		return nil, ErrNotFound
	}
	return set, nil
}

// DeleteResourceSet deletes a set owned by userID. Foreign sets look missing.
func (s *resourceService) DeleteResourceSet(ctx context.Context, userID, setID primitive.ObjectID) error {
	err := s.repo.DeleteOwned(ctx, setID, userID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrForbidden):
		s.log.Warn("delete of foreign resource set refused", "userId", userID.Hex(), "setId", setID.Hex())
		return ErrNotFound
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

// withDeadline applies timeout when positive.
func withDeadline(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
