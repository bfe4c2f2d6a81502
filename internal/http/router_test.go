package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/llm"
	"prism-api/internal/repository"
	"prism-api/internal/service"
)

type stubItemRepo struct {
	bank []domain.Item
	err  error
}

func (s *stubItemRepo) ListActive(_ context.Context) ([]domain.Item, error) {
	return s.bank, s.err
}

type stubResponseRepo struct {
	saved map[string][]domain.Response
}

func newStubResponseRepo() *stubResponseRepo {
	return &stubResponseRepo{saved: make(map[string][]domain.Response)}
}

func (s *stubResponseRepo) Create(_ context.Context, sessionID string, resp domain.Response) error {
	s.saved[sessionID] = append(s.saved[sessionID], resp)
	return nil
}

func (s *stubResponseRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.Response, error) {
	return s.saved[sessionID], nil
}

type stubResultRepo struct {
	results map[string]domain.AssessmentResult
}

func newStubResultRepo() *stubResultRepo {
	return &stubResultRepo{results: make(map[string]domain.AssessmentResult)}
}

func (s *stubResultRepo) Upsert(_ context.Context, result domain.AssessmentResult) error {
	s.results[result.SessionID] = result
	return nil
}

func (s *stubResultRepo) GetBySessionID(_ context.Context, sessionID string) (domain.AssessmentResult, error) {
	result, ok := s.results[sessionID]
	if !ok {
		return domain.AssessmentResult{}, repository.ErrNotFound
	}
	return result, nil
}

type stubUserRepo struct {
	byID    map[string]domain.User
	byEmail map[string]domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]domain.User),
	}
}

func (s *stubUserRepo) Create(_ context.Context, user domain.User) error {
	s.byID[user.ID] = user
	s.byEmail[user.Email] = user
	return nil
}

func (s *stubUserRepo) GetByID(_ context.Context, id string) (domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return u, nil
}

type stubRoleProfileRepo struct {
	profiles map[string]domain.IdealProfile
}

func newStubRoleProfileRepo() *stubRoleProfileRepo {
	return &stubRoleProfileRepo{profiles: make(map[string]domain.IdealProfile)}
}

func (s *stubRoleProfileRepo) Create(_ context.Context, profile domain.IdealProfile) error {
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubRoleProfileRepo) GetByID(_ context.Context, id string) (domain.IdealProfile, error) {
	p, ok := s.profiles[id]
	if !ok {
		return domain.IdealProfile{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubRoleProfileRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.IdealProfile, error) {
	var out []domain.IdealProfile
	for _, p := range s.profiles {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// testBank arma un banco uniforme: `perDim` items rating por dimensión,
// todos tagueados como items prism.
func testBank(perDim int) []domain.Item {
	var bank []domain.Item
	idx := 0
	for i := 0; i < perDim; i++ {
		for _, dim := range domain.AllDimensions {
			bank = append(bank, domain.Item{
				ID:         fmt.Sprintf("q%03d", idx),
				Text:       fmt.Sprintf("item %d", idx),
				Type:       domain.ItemTypeRating,
				Dimension:  dim,
				Weight:     1.0,
				Frameworks: []string{domain.FrameworkPrism},
				OrderIndex: idx,
			})
			idx++
		}
	}
	return bank
}

type testEnv struct {
	router    *gin.Engine
	users     *stubUserRepo
	results   *stubResultRepo
	roles     *stubRoleProfileRepo
	jwtSvc    *service.JWTService
	llmClient *llm.MockClient
}

func newTestEnv(bank []domain.Item) *testEnv {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	users := newStubUserRepo()
	results := newStubResultRepo()
	roles := newStubRoleProfileRepo()
	llmClient := &llm.MockClient{}

	jwtSvc := service.NewJWTServiceWithStore("test-secret", 15*time.Minute, time.Hour, service.NewMemoryRefreshTokenStore())
	userSvc := service.NewUserService(users)
	assessSvc := service.NewAssessmentService(
		&stubItemRepo{bank: bank},
		newStubResponseRepo(),
		results,
		users,
		service.QuestionSelector{},
		service.ScoringEngine{},
		nil,
		nil,
		logger,
	)
	roleSvc := service.NewRoleProfileService(roles, llmClient, logger)

	router := NewRouter(
		logger,
		NewUserHandler(logger, userSvc, jwtSvc),
		NewAssessmentHandler(logger, assessSvc),
		NewFitHandler(logger, assessSvc, roleSvc, service.FitCalculator{}),
		NewRoleHandler(logger, roleSvc),
		jwtSvc,
		nil,
	)
	return &testEnv{
		router:    router,
		users:     users,
		results:   results,
		roles:     roles,
		jwtSvc:    jwtSvc,
		llmClient: llmClient,
	}
}

func performRequest(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) bearerFor(user domain.User) map[string]string {
	pair, err := env.jwtSvc.GeneratePair(user)
	if err != nil {
		panic(err)
	}
	return map[string]string{"Authorization": "Bearer " + pair.AccessToken}
}
