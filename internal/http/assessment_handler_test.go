package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"prism-api/internal/domain"
)

func TestGetQuestions(t *testing.T) {
	env := newTestEnv(testBank(8))

	rec := performRequest(env.router, http.MethodGet, "/questions?tier=quick&frameworks=prism", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Tier  string `json:"tier"`
		Items []struct {
			ID            string `json:"id"`
			Text          string `json:"text"`
			ReverseScored *bool  `json:"reverse_scored"`
		} `json:"items"`
		Report struct {
			Passed bool `json:"passed"`
		} `json:"report"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Tier != domain.TierQuick {
		t.Fatalf("tier = %q", body.Tier)
	}
	if len(body.Items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(body.Items))
	}
	if !body.Report.Passed {
		t.Fatalf("expected passing report: %s", rec.Body.String())
	}
	for _, it := range body.Items {
		if it.ReverseScored != nil {
			t.Fatalf("item %s leaks scoring flags", it.ID)
		}
	}
}

func TestGetQuestions_BadTier(t *testing.T) {
	env := newTestEnv(testBank(8))

	rec := performRequest(env.router, http.MethodGet, "/questions?tier=mega", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetQuestions_EmptyBank(t *testing.T) {
	env := newTestEnv(nil)

	rec := performRequest(env.router, http.MethodGet, "/questions", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestScoreAssessmentAndGetResult(t *testing.T) {
	bank := testBank(2)
	env := newTestEnv(bank)

	responses := []map[string]string{
		{"item_id": bank[0].ID, "value": "6"},
		{"item_id": bank[1].ID, "value": "3"},
	}
	rec := performRequest(env.router, http.MethodPost, "/assessments/sess-1/score", map[string]any{
		"responses": responses,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var scored struct {
		Result struct {
			SessionID  string                   `json:"session_id"`
			Dimensions []domain.DimensionScore  `json:"dimensions"`
			Frameworks domain.FrameworkMappings `json:"frameworks"`
		} `json:"result"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &scored); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if scored.Result.SessionID != "sess-1" {
		t.Fatalf("session = %q", scored.Result.SessionID)
	}
	if len(scored.Result.Dimensions) != len(domain.AllDimensions) {
		t.Fatalf("expected %d dimension scores, got %d", len(domain.AllDimensions), len(scored.Result.Dimensions))
	}

	rec = performRequest(env.router, http.MethodGet, "/assessments/sess-1/result", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on result fetch, got %d", rec.Code)
	}
}

func TestScoreAssessment_AttachesUserFromToken(t *testing.T) {
	bank := testBank(2)
	env := newTestEnv(bank)
	user := domain.User{ID: "user-9", Email: "ana@example.com"}

	rec := performRequest(env.router, http.MethodPost, "/assessments/sess-2/score", map[string]any{
		"responses": []map[string]string{{"item_id": bank[0].ID, "value": "4"}},
	}, env.bearerFor(user))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.results.results["sess-2"].UserID != "user-9" {
		t.Fatalf("user id not taken from token: %+v", env.results.results["sess-2"])
	}
}

func TestScoreAssessment_BadRequest(t *testing.T) {
	env := newTestEnv(testBank(2))

	rec := performRequest(env.router, http.MethodPost, "/assessments/sess-1/score", map[string]any{}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing responses, got %d", rec.Code)
	}
}

func TestGetResult_NotFound(t *testing.T) {
	env := newTestEnv(testBank(2))

	rec := performRequest(env.router, http.MethodGet, "/assessments/nope/result", nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
