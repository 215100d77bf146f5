package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"mindmentor/study-craft/internal/ai"
	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/repository"
	"mindmentor/study-craft/internal/search"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- users ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	u.ID = primitive.NewObjectID()
	r.users[u.ID] = *u
	return u.ID, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// --- plans ---

type fakePlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]domain.StudyPlan
	// raceWinner, when set, is inserted just before Create reports ErrDuplicate.
	raceWinner *domain.StudyPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]domain.StudyPlan{}}
}

func (r *fakePlanRepo) Create(_ context.Context, p *domain.StudyPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceWinner != nil {
		r.plans[r.raceWinner.ID] = *r.raceWinner
		r.raceWinner = nil
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	for _, existing := range r.plans {
		if existing.IsActive && existing.UserID == p.UserID && existing.NormalizedSubject == p.NormalizedSubject {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	r.plans[p.ID] = *p
	return p.ID, nil
}

func (r *fakePlanRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.StudyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakePlanRepo) FindActiveBySubject(_ context.Context, userID primitive.ObjectID, subject string) (*domain.StudyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plans {
		if p.IsActive && p.UserID == userID && p.NormalizedSubject == subject {
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakePlanRepo) ListByUser(_ context.Context, userID primitive.ObjectID, activeOnly bool) ([]domain.StudyPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.StudyPlan{}
	for _, p := range r.plans {
		if p.UserID == userID && (!activeOnly || p.IsActive) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakePlanRepo) ownership(id, owner primitive.ObjectID) error {
	p, ok := r.plans[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.UserID != owner {
		return repository.ErrForbidden
	}
	return nil
}

func (r *fakePlanRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ownership(id, owner); err != nil {
		return err
	}
	delete(r.plans, id)
	return nil
}

func (r *fakePlanRepo) UpdateProgress(_ context.Context, id, owner primitive.ObjectID, progress int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.ownership(id, owner); err != nil {
		return err
	}
	p := r.plans[id]
	p.Progress = progress
	r.plans[id] = p
	return nil
}

func (r *fakePlanRepo) DeactivateExpired(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.plans {
		if p.IsActive && p.ExamAt.Before(before) {
			p.IsActive = false
			r.plans[id] = p
			n++
		}
	}
	return n, nil
}

// --- resource sets ---

type fakeResourceRepo struct {
	mu         sync.Mutex
	sets       map[primitive.ObjectID]domain.CuratedResourceSet
	raceWinner *domain.CuratedResourceSet
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{sets: map[primitive.ObjectID]domain.CuratedResourceSet{}}
}

func (r *fakeResourceRepo) Create(_ context.Context, s *domain.CuratedResourceSet) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.raceWinner != nil {
		r.sets[r.raceWinner.ID] = *r.raceWinner
		r.raceWinner = nil
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	for _, existing := range r.sets {
		if existing.UserID == s.UserID && existing.Topic == s.Topic {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	s.ID = primitive.NewObjectID()
	r.sets[s.ID] = *s
	return s.ID, nil
}

func (r *fakeResourceRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CuratedResourceSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *fakeResourceRepo) FindByTopic(_ context.Context, userID primitive.ObjectID, topic string) (*domain.CuratedResourceSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sets {
		if s.UserID == userID && s.Topic == topic {
			return &s, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeResourceRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.CuratedResourceSet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.CuratedResourceSet{}
	for _, s := range r.sets {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeResourceRepo) DeleteOwned(_ context.Context, id, owner primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if s.UserID != owner {
		return repository.ErrForbidden
	}
	delete(r.sets, id)
	return nil
}

// --- sessions ---

type fakeSessionRepo struct {
	sessions []domain.StudySession
}

func (r *fakeSessionRepo) Create(_ context.Context, s *domain.StudySession) (primitive.ObjectID, error) {
	s.ID = primitive.NewObjectID()
	r.sessions = append(r.sessions, *s)
	return s.ID, nil
}

func (r *fakeSessionRepo) ListByUser(_ context.Context, userID primitive.ObjectID, since time.Time) ([]domain.StudySession, error) {
	out := []domain.StudySession{}
	for _, s := range r.sessions {
		if s.UserID == userID && !s.EndedAt.Before(since) {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- vendors ---

type fakeSearcher struct {
	calls int
	kinds []search.Kind
}

func (f *fakeSearcher) Search(_ context.Context, kind search.Kind, _ string) search.Response {
	f.calls++
	f.kinds = append(f.kinds, kind)
	return search.Response{Answer: "context", Hits: []search.Hit{}}
}

type fakeCurator struct {
	calls    int
	fallback bool
	err      error
	block    bool
}

func (f *fakeCurator) CurateResources(ctx context.Context, subject string, _ search.Response) ([]domain.Resource, bool, error) {
	f.calls++
	if f.block {
		<-ctx.Done()
		return nil, false, ctx.Err()
	}
	if f.err != nil {
		return nil, false, f.err
	}
	return ai.TransformResources(ai.DefaultResources(subject)), f.fallback, nil
}

type fakePlanGenerator struct {
	calls int
	err   error
	block bool
	days  int
}

func (f *fakePlanGenerator) GeneratePlan(ctx context.Context, subject, examDate string, days int, _ search.Response) (ai.PlanDraft, error) {
	f.calls++
	f.days = days
	if f.block {
		<-ctx.Done()
		return ai.PlanDraft{}, ctx.Err()
	}
	if f.err != nil {
		return ai.PlanDraft{}, f.err
	}
	raw := &ai.RawPlan{
		WeeklyPlans: []ai.RawWeek{{
			Week:       "Week 1",
			Goals:      []string{"basics"},
			DailyTasks: []ai.RawDay{{Day: "Day 1", Tasks: []string{"read"}, Duration: "1 hour"}},
		}},
		Recommendations: []string{"rest"},
	}
	return ai.TransformPlan(raw, subject, examDate, days), nil
}

type fakeStorage struct {
	objects map[string][]byte
	deleted []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) PutObject(_ context.Context, key string, body []byte, _ string) error {
	f.objects[key] = body
	return nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://files.example/" + key + "?sig=1", nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	delete(f.objects, key)
	return nil
}
