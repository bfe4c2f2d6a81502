package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/repository"
)

type mockItemRepo struct {
	bank  []domain.Item
	err   error
	calls int
}

func (m *mockItemRepo) ListActive(_ context.Context) ([]domain.Item, error) {
	m.calls++
	return m.bank, m.err
}

type mockResponseRepo struct {
	saved map[string][]domain.Response
	err   error
}

func newMockResponseRepo() *mockResponseRepo {
	return &mockResponseRepo{saved: make(map[string][]domain.Response)}
}

func (m *mockResponseRepo) Create(_ context.Context, sessionID string, resp domain.Response) error {
	if m.err != nil {
		return m.err
	}
	m.saved[sessionID] = append(m.saved[sessionID], resp)
	return nil
}

func (m *mockResponseRepo) ListBySessionID(_ context.Context, sessionID string) ([]domain.Response, error) {
	return m.saved[sessionID], nil
}

type mockResultRepo struct {
	results map[string]domain.AssessmentResult
	err     error
}

func newMockResultRepo() *mockResultRepo {
	return &mockResultRepo{results: make(map[string]domain.AssessmentResult)}
}

func (m *mockResultRepo) Upsert(_ context.Context, result domain.AssessmentResult) error {
	if m.err != nil {
		return m.err
	}
	m.results[result.SessionID] = result
	return nil
}

func (m *mockResultRepo) GetBySessionID(_ context.Context, sessionID string) (domain.AssessmentResult, error) {
	result, ok := m.results[sessionID]
	if !ok {
		return domain.AssessmentResult{}, repository.ErrNotFound
	}
	return result, nil
}

type memorySelectionCache struct {
	entries map[string][]string
	hits    int
	sets    int
}

func newMemorySelectionCache() *memorySelectionCache {
	return &memorySelectionCache{entries: make(map[string][]string)}
}

func (c *memorySelectionCache) Get(_ context.Context, key string) ([]string, bool) {
	ids, ok := c.entries[key]
	if ok {
		c.hits++
	}
	return ids, ok
}

func (c *memorySelectionCache) Set(_ context.Context, key string, itemIDs []string) {
	c.sets++
	c.entries[key] = itemIDs
}

type mockSender struct {
	sent []string
	err  error
}

func (m *mockSender) SendResultsReady(_ context.Context, toEmail string, sessionID string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, toEmail+"/"+sessionID)
	return nil
}

func newTestAssessmentService(bank []domain.Item) (*AssessmentService, *mockResponseRepo, *mockResultRepo, *mockUserRepo, *mockSender, *memorySelectionCache) {
	responses := newMockResponseRepo()
	results := newMockResultRepo()
	users := newMockUserRepo()
	sender := &mockSender{}
	cache := newMemorySelectionCache()
	svc := NewAssessmentService(
		&mockItemRepo{bank: bank},
		responses,
		results,
		users,
		QuestionSelector{},
		ScoringEngine{},
		cache,
		sender,
		zap.NewNop(),
	)
	return svc, responses, results, users, sender, cache
}

func TestAssessmentService_SelectQuestions(t *testing.T) {
	bank := evenBank(56, func(i int, _ domain.Dimension) []string {
		return []string{domain.FrameworkPrism}
	})
	svc, _, _, _, _, cache := newTestAssessmentService(bank)

	items, report, err := svc.SelectQuestions(context.Background(), domain.TierQuick, []string{domain.FrameworkPrism})
	if err != nil {
		t.Fatalf("SelectQuestions: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("expected 20 items for quick tier, got %d", len(items))
	}
	if !report.BudgetOK {
		t.Fatalf("expected budget ok, report %+v", report)
	}
	if cache.sets != 1 {
		t.Fatalf("expected selection to be cached once, sets=%d", cache.sets)
	}

	// Segunda llamada con el mismo banco: sale del cache.
	again, _, err := svc.SelectQuestions(context.Background(), domain.TierQuick, []string{domain.FrameworkPrism})
	if err != nil {
		t.Fatalf("second SelectQuestions: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected a cache hit, hits=%d", cache.hits)
	}
	if len(again) != len(items) {
		t.Fatalf("cached selection size %d != %d", len(again), len(items))
	}
	for i := range items {
		if again[i].ID != items[i].ID {
			t.Fatalf("cached selection diverges at %d: %s != %s", i, again[i].ID, items[i].ID)
		}
	}
}

func TestAssessmentService_SelectQuestionsEmptyBank(t *testing.T) {
	svc, _, _, _, _, _ := newTestAssessmentService(nil)

	if _, _, err := svc.SelectQuestions(context.Background(), domain.TierQuick, []string{domain.FrameworkPrism}); !errors.Is(err, ErrEmptyBank) {
		t.Fatalf("expected ErrEmptyBank, got %v", err)
	}
}

func TestAssessmentService_SelectQuestionsBadTier(t *testing.T) {
	bank := evenBank(30, nil)
	svc, _, _, _, _, _ := newTestAssessmentService(bank)

	if _, _, err := svc.SelectQuestions(context.Background(), "mega", []string{domain.FrameworkPrism}); !errors.Is(err, ErrUnknownTier) {
		t.Fatalf("expected ErrUnknownTier, got %v", err)
	}
}

func TestAssessmentService_ScoreSession(t *testing.T) {
	bank := []domain.Item{
		ratingItem("q1", domain.DimOpenness, false),
		ratingItem("q2", domain.DimResilience, true),
	}
	svc, responses, results, users, sender, _ := newTestAssessmentService(bank)
	users.byID["user-1"] = domain.User{ID: "user-1", Email: "ana@example.com"}

	answers := []domain.Response{answer("q1", "6"), answer("q2", "2")}
	result, err := svc.ScoreSession(context.Background(), "sess-1", "user-1", answers)
	if err != nil {
		t.Fatalf("ScoreSession: %v", err)
	}
	if result.SessionID != "sess-1" || result.UserID != "user-1" {
		t.Fatalf("result identity: %+v", result)
	}
	if len(result.Dimensions) != len(domain.AllDimensions) {
		t.Fatalf("expected a score per dimension, got %d", len(result.Dimensions))
	}
	if len(responses.saved["sess-1"]) != 2 {
		t.Fatalf("expected 2 persisted responses, got %d", len(responses.saved["sess-1"]))
	}
	if _, ok := results.results["sess-1"]; !ok {
		t.Fatal("result not persisted")
	}
	if len(sender.sent) != 1 || sender.sent[0] != "ana@example.com/sess-1" {
		t.Fatalf("results email not sent: %v", sender.sent)
	}
}

func TestAssessmentService_ScoreSessionEmailFailureIsNotFatal(t *testing.T) {
	bank := []domain.Item{ratingItem("q1", domain.DimOpenness, false)}
	svc, _, _, users, sender, _ := newTestAssessmentService(bank)
	users.byID["user-1"] = domain.User{ID: "user-1", Email: "ana@example.com"}
	sender.err = errors.New("smtp down")

	if _, err := svc.ScoreSession(context.Background(), "sess-1", "user-1", []domain.Response{answer("q1", "4")}); err != nil {
		t.Fatalf("ScoreSession should not fail on email error: %v", err)
	}
}

func TestAssessmentService_ScoreSessionValidation(t *testing.T) {
	bank := []domain.Item{ratingItem("q1", domain.DimOpenness, false)}
	svc, _, _, _, _, _ := newTestAssessmentService(bank)

	if _, err := svc.ScoreSession(context.Background(), "", "u", []domain.Response{answer("q1", "4")}); !errors.Is(err, ErrSessionRequired) {
		t.Fatalf("expected ErrSessionRequired, got %v", err)
	}
	if _, err := svc.ScoreSession(context.Background(), "sess-1", "u", nil); !errors.Is(err, ErrNoResponses) {
		t.Fatalf("expected ErrNoResponses, got %v", err)
	}
}

func TestAssessmentService_GetResult(t *testing.T) {
	bank := []domain.Item{ratingItem("q1", domain.DimOpenness, false)}
	svc, _, _, _, _, _ := newTestAssessmentService(bank)

	if _, err := svc.GetResult(context.Background(), "nope"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if _, err := svc.ScoreSession(context.Background(), "sess-1", "", []domain.Response{answer("q1", "4")}); err != nil {
		t.Fatalf("ScoreSession: %v", err)
	}
	result, err := svc.GetResult(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("GetResult: %v", err)
	}
	if result.SessionID != "sess-1" {
		t.Fatalf("unexpected result: %+v", result)
	}
}
