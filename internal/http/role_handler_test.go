package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"prism-api/internal/domain"
)

func employerHeaders(env *testEnv) map[string]string {
	return env.bearerFor(domain.User{ID: "employer-1", Email: "hr@example.com"})
}

func TestRolesRequireAuth(t *testing.T) {
	env := newTestEnv(testBank(2))

	rec := performRequest(env.router, http.MethodPost, "/roles", map[string]any{
		"name":       "Analyst",
		"dimensions": map[string]any{"openness": 60},
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestCreateAndGetRole(t *testing.T) {
	env := newTestEnv(testBank(2))
	headers := employerHeaders(env)

	rec := performRequest(env.router, http.MethodPost, "/roles", map[string]any{
		"name": "Analyst",
		"dimensions": map[string]any{
			"openness":          map[string]any{"target": 60, "weight": 0.8},
			"conscientiousness": 85,
		},
	}, headers)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Profile domain.IdealProfile `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if created.Profile.OwnerID != "employer-1" {
		t.Fatalf("owner = %q", created.Profile.OwnerID)
	}
	if len(created.Profile.Dimensions) != 2 {
		t.Fatalf("dimensions = %v", created.Profile.Dimensions)
	}

	rec = performRequest(env.router, http.MethodGet, "/roles/"+created.Profile.ID, nil, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on get, got %d", rec.Code)
	}

	rec = performRequest(env.router, http.MethodGet, "/roles", nil, headers)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", rec.Code)
	}
	var listed struct {
		Profiles []domain.IdealProfile `json:"profiles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(listed.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(listed.Profiles))
	}
}

func TestCreateRole_NoUsableDimensions(t *testing.T) {
	env := newTestEnv(testBank(2))

	rec := performRequest(env.router, http.MethodPost, "/roles", map[string]any{
		"name":       "Analyst",
		"dimensions": map[string]any{"star_sign": 50},
	}, employerHeaders(env))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAnalyzeRole(t *testing.T) {
	env := newTestEnv(testBank(2))
	env.llmClient.Response = `{"resilience": {"target": 80, "weight": 1.3}, "adaptability": 65}`

	rec := performRequest(env.router, http.MethodPost, "/roles/analyze", map[string]string{
		"name":        "SRE",
		"description": "On-call heavy infrastructure role",
	}, employerHeaders(env))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Profile domain.IdealProfile `json:"profile"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Profile.Dimensions[domain.DimResilience].Target != 80 {
		t.Fatalf("dimensions = %v", body.Profile.Dimensions)
	}
}

func TestAnalyzeRole_LLMGarbage(t *testing.T) {
	env := newTestEnv(testBank(2))
	env.llmClient.Response = "sorry, cannot help"

	rec := performRequest(env.router, http.MethodPost, "/roles/analyze", map[string]string{
		"description": "something",
	}, employerHeaders(env))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}
