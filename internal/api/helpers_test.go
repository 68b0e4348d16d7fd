package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"gymflow/fitness-app/internal/catalog"
	"gymflow/fitness-app/internal/domain"
	"gymflow/fitness-app/internal/integrations/places"
	"gymflow/fitness-app/internal/metrics"
	"gymflow/fitness-app/internal/repository"
	"gymflow/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeAuthService accepts the tokens it knows about.
type fakeAuthService struct {
	tokens map[string]primitive.ObjectID
}

func (s *fakeAuthService) Register(_ context.Context, name, email, password string) (string, *domain.User, error) {
	if email == "taken@example.com" {
		return "", nil, service.ErrUserAlreadyExists
	}
	user := &domain.User{ID: primitive.NewObjectID(), Name: name, Email: email, CreatedAt: time.Now().UTC()}
	s.tokens["token-"+email] = user.ID
	return "token-" + email, user, nil
}

func (s *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	if password != "secret123" {
		return "", nil, service.ErrAuthenticationFailed
	}
	user := &domain.User{ID: primitive.NewObjectID(), Name: "Ana", Email: email}
	s.tokens["token-"+email] = user.ID
	return "token-" + email, user, nil
}

func (s *fakeAuthService) ParseToken(token string) (primitive.ObjectID, error) {
	id, ok := s.tokens[token]
	if !ok {
		return primitive.NilObjectID, service.ErrInvalidToken
	}
	return id, nil
}

type memPlanRepo struct {
	mu    sync.Mutex
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func (r *memPlanRepo) Create(_ context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
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
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() > out[j].ID.Hex() })
	return out, nil
}

func (r *memPlanRepo) Replace(_ context.Context, plan *domain.WorkoutPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.plans[plan.ID]
	if !ok || p.UserID != plan.UserID {
		return repository.ErrNotFound
	}
	plan.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
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

type fakeProfileService struct {
	profile *service.Profile
	err     error
}

func (s *fakeProfileService) GetProfile(context.Context, primitive.ObjectID) (*service.Profile, error) {
	return s.profile, s.err
}

func (s *fakeProfileService) UpdateProfile(_ context.Context, _ primitive.ObjectID, u service.ProfileUpdate) (*service.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.profile.Name, s.profile.Email = u.Name, u.Email
	return s.profile, nil
}

func (s *fakeProfileService) RequestPictureUploadURL(_ context.Context, userID primitive.ObjectID, contentType string) (*service.UploadURLResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	key := "profile-pictures/" + userID.Hex() + "/pic.png"
	return &service.UploadURLResponse{UploadURL: "https://s3.test/" + key, ObjectKey: key}, nil
}

func (s *fakeProfileService) ConfirmPictureUpload(_ context.Context, _ primitive.ObjectID, c service.PictureConfirmation) (*service.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.profile.ProfilePictureURL = "https://s3.test/download/" + c.ObjectKey
	return s.profile, nil
}

type fakeAI struct {
	text string
	err  error
	mime string
}

func (a *fakeAI) GenerateText(context.Context, string) (string, error) {
	return a.text, a.err
}

func (a *fakeAI) AnalyzeImage(_ context.Context, _, mimeType string, _ []byte) (string, error) {
	a.mime = mimeType
	return a.text, a.err
}

type fakeFinder struct {
	gyms       []places.Place
	err        error
	lastRadius int
}

func (f *fakeFinder) NearbyGyms(_ context.Context, _, _ float64, radius int) ([]places.Place, error) {
	f.lastRadius = radius
	return f.gyms, f.err
}

type testRequestRateLimiter struct {
	// key to limit map
	Limits map[string]int
	Err    error
}

func (l *testRequestRateLimiter) Allow(_ context.Context, key string, _ redis_rate.Limit) (*redis_rate.Result, error) {
	res := &redis_rate.Result{RetryAfter: 30 * time.Second}

	if l.Err != nil {
		return nil, l.Err
	}
	foundLimit, ok := l.Limits[key]
	if !ok || foundLimit == 0 {
		return res, nil
	}

	res.Allowed = l.Limits[key]
	l.Limits[key]--
	return res, nil
}

type testEnv struct {
	router   *gin.Engine
	auth     *fakeAuthService
	plans    *memPlanRepo
	profile  *fakeProfileService
	ai       *fakeAI
	finder   *fakeFinder
	limiter  *testRequestRateLimiter
	metrics  *metrics.Manager
	registry *prometheus.Registry
	userID   primitive.ObjectID
	token    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	c, err := catalog.Load()
	require.NoError(t, err)

	metricsManager, reg := metrics.NewTestManagerAndRegistry()
	env := &testEnv{
		router:   gin.New(),
		auth:     &fakeAuthService{tokens: make(map[string]primitive.ObjectID)},
		plans:    &memPlanRepo{plans: make(map[primitive.ObjectID]*domain.WorkoutPlan)},
		profile:  &fakeProfileService{profile: &service.Profile{Name: "Ana", Email: "ana@example.com"}},
		ai:       &fakeAI{},
		finder:   &fakeFinder{},
		limiter:  &testRequestRateLimiter{Limits: make(map[string]int)},
		metrics:  metricsManager,
		registry: reg,
		userID:   primitive.NewObjectID(),
		token:    "valid-token",
	}
	env.auth.tokens[env.token] = env.userID
	env.limiter.Limits["ai:"+env.userID.Hex()] = 100

	SetupRoutes(env.router, Services{
		Auth:     env.auth,
		Plans:    service.NewPlanService(env.plans, metricsManager),
		Exercise: service.NewExerciseService(c),
		Profile:  env.profile,
		Diet:     service.NewDietService(env.ai, metricsManager),
		Gyms:     service.NewGymService(env.finder, metricsManager),
	}, RateLimitConfig{Limiter: env.limiter, AIRequestsPerMin: 10}, metricsManager, nil)

	return env
}

// do sends a JSON request with the env's bearer token unless token is "-".
func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	switch token {
	case "-":
	case "":
		req.Header.Set("Authorization", "Bearer "+env.token)
	default:
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func samplePlanRequest(name string) map[string]any {
	return map[string]any{
		"name":        name,
		"description": "upper body",
		"days": []map[string]any{{
			"name": "Day 1",
			"exercises": []map[string]any{{
				"id": "bench-press", "name": "Bench Press", "muscle": "Middle Chest", "muscleGroup": "chest",
				"sets": 4, "reps": 8,
			}},
		}},
	}
}
