package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"prism-api/internal/domain"
)

func seedResult(env *testEnv, sessionID string, percentiles map[domain.Dimension]float64) {
	var dims []domain.DimensionScore
	for dim, p := range percentiles {
		dims = append(dims, domain.DimensionScore{
			Dimension: dim, Raw: p, Percentile: p, CILow: p - 5, CIHigh: p + 5, Responses: 4,
		})
	}
	env.results.results[sessionID] = domain.AssessmentResult{
		ID:         "res-" + sessionID,
		SessionID:  sessionID,
		Dimensions: dims,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestCalculateFit_InlineProfile(t *testing.T) {
	env := newTestEnv(testBank(2))
	seedResult(env, "sess-1", map[domain.Dimension]float64{
		domain.DimOpenness:     70,
		domain.DimResilience:   90,
		domain.DimAdaptability: 55,
	})

	rec := performRequest(env.router, http.MethodPost, "/fit", map[string]any{
		"session_id": "sess-1",
		"profile": map[string]any{
			"openness":   70,
			"resilience": map[string]any{"target": 90, "weight": 1.2},
		},
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Fit domain.FitResult `json:"fit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Fit.Overall != 100 {
		t.Fatalf("expected perfect fit, got %+v", body.Fit)
	}
	if body.Fit.Rating != domain.FitRatingExcellent {
		t.Fatalf("rating = %q", body.Fit.Rating)
	}
}

func TestCalculateFit_StoredProfile(t *testing.T) {
	env := newTestEnv(testBank(2))
	seedResult(env, "sess-1", map[domain.Dimension]float64{domain.DimOpenness: 40})
	env.roles.profiles["role-1"] = domain.IdealProfile{
		ID:   "role-1",
		Name: "Analyst",
		Dimensions: map[domain.Dimension]domain.DimensionTarget{
			domain.DimOpenness: {Target: 90, Weight: 1.0},
		},
	}

	rec := performRequest(env.router, http.MethodPost, "/fit", map[string]any{
		"session_id":      "sess-1",
		"role_profile_id": "role-1",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Fit domain.FitResult `json:"fit"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Fit.Overall >= 100 {
		t.Fatalf("expected penalized fit, got %+v", body.Fit)
	}
}

func TestCalculateFit_MissingInputs(t *testing.T) {
	env := newTestEnv(testBank(2))
	seedResult(env, "sess-1", map[domain.Dimension]float64{domain.DimOpenness: 40})

	rec := performRequest(env.router, http.MethodPost, "/fit", map[string]any{
		"session_id": "sess-1",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without profile, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPost, "/fit", map[string]any{
		"session_id": "unknown",
		"profile":    map[string]any{"openness": 50},
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodPost, "/fit", map[string]any{
		"session_id":      "sess-1",
		"role_profile_id": "missing-role",
	}, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown role, got %d", rec.Code)
	}
}
