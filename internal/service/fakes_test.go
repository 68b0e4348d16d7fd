package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/integrations/places"
	"gymflow/fitness-app/internal/repository"
	"gymflow/fitness-app/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	for _, u := range r.users {
		if u.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.Email = email
	user.CreatedAt = time.Now().UTC()
	cp := *user
	r.users[user.ID] = &cp
	return user.ID, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	email := strings.ToLower(user.Email)
	for id, u := range r.users {
		if id != user.ID && u.Email == email {
			return repository.ErrDuplicateKey
		}
	}
	u, ok := r.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Name, u.Email, u.PasswordHash = user.Name, email, user.PasswordHash
	return nil
}

func (r *memUserRepo) SetProfilePicture(_ context.Context, id primitive.ObjectID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.ProfilePictureKey = key
	return nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newMemPlanRepo() *memPlanRepo {
	return &memPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)}
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC()
	plan.UpdatedAt = plan.CreatedAt
	r.plans[plan.ID] = plan.Clone()
	return plan.ID, nil
}

func (r *memPlanRepo) GetByID(_ context.Context, id, userID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *memPlanRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]domain.WorkoutPlan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.UserID == userID {
			out = append(out, *p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memPlanRepo) Replace(_ context.Context, plan *domain.WorkoutPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[plan.ID]
	if !ok || p.UserID != plan.UserID {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = time.Now().UTC()
	r.plans[plan.ID] = plan.Clone()
	return nil
}

func (r *memPlanRepo) Delete(_ context.Context, id, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[id]
	if !ok || p.UserID != userID {
		return repository.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

type memUploadRepo struct {
	mu      sync.Mutex
	uploads []domain.Upload
}

func (r *memUploadRepo) Create(_ context.Context, upload *domain.Upload) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.uploads {
		if u.S3ObjectKey == upload.S3ObjectKey {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	upload.ID = primitive.NewObjectID()
	upload.UploadedAt = time.Now().UTC()
	r.uploads = append(r.uploads, *upload)
	return upload.ID, nil
}

func (r *memUploadRepo) GetLatestByUser(_ context.Context, userID primitive.ObjectID, kind domain.UploadKind) (*domain.Upload, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.uploads) - 1; i >= 0; i-- {
		if u := r.uploads[i]; u.UserID == userID && u.Kind == kind {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type fakeStorage struct {
	mu      sync.Mutex
	objects map[string]storage.ObjectMetadata
	deleted chan string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]storage.ObjectMetadata), deleted: make(chan string, 10)}
}

func (s *fakeStorage) put(key string, size int64, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storage.ObjectMetadata{Size: size, ContentType: contentType}
}

func (s *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://s3.test/upload/" + key + "?ct=" + contentType, nil
}

func (s *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://s3.test/download/" + key, nil
}

func (s *fakeStorage) StatObject(_ context.Context, key string) (*storage.ObjectMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return &m, nil
}

func (s *fakeStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	s.deleted <- key
	return nil
}

type fakeAI struct {
	text       string
	err        error
	lastPrompt string
	lastMime   string
}

func (a *fakeAI) GenerateText(_ context.Context, prompt string) (string, error) {
	a.lastPrompt = prompt
	return a.text, a.err
}

func (a *fakeAI) AnalyzeImage(_ context.Context, prompt, mimeType string, _ []byte) (string, error) {
	a.lastPrompt = prompt
	a.lastMime = mimeType
	return a.text, a.err
}

type fakeFinder struct {
	gyms []places.Place
	err  error
}

func (f *fakeFinder) NearbyGyms(_ context.Context, _, _ float64, _ int) ([]places.Place, error) {
	return f.gyms, f.err
}
