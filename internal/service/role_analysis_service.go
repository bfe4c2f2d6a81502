package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/llm"
	"prism-api/internal/repository"
)

var (
	ErrEmptyJobDescription = errors.New("job description is empty")
	ErrEmptyProfile        = errors.New("profile has no usable dimensions")
)

// RoleProfileService convierte descripciones de puesto en perfiles
// ideales usando el LLM, y gestiona perfiles autorados a mano.
type RoleProfileService struct {
	repo   repository.RoleProfileRepository
	client llm.LLMClient
	logger *zap.Logger
}

func NewRoleProfileService(repo repository.RoleProfileRepository, client llm.LLMClient, logger *zap.Logger) *RoleProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleProfileService{repo: repo, client: client, logger: logger}
}

// AnalyzeJobDescription pide al LLM un perfil ideal en JSON, lo limpia y
// lo normaliza al esquema canonico de dimensiones antes de persistirlo.
func (s *RoleProfileService) AnalyzeJobDescription(ctx context.Context, ownerID, name, description string) (domain.IdealProfile, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.IdealProfile{}, ErrEmptyJobDescription
	}
	if s.client == nil {
		return domain.IdealProfile{}, errors.New("llm client not configured")
	}

	raw, err := s.client.Generate(ctx, buildProfilePrompt(description))
	if err != nil {
		return domain.IdealProfile{}, fmt.Errorf("llm generate: %w", err)
	}

	cleaned := cleanLLMJSONResponse(raw)
	jsonPart := extractFirstJSONObject(cleaned)
	if jsonPart == "" {
		s.logger.Warn("llm profile response without JSON object",
			zap.String("raw", truncateForLog(raw, 200)),
		)
		return domain.IdealProfile{}, errors.New("llm response contains no JSON object")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(jsonPart), &payload); err != nil {
		return domain.IdealProfile{}, fmt.Errorf("decoding llm profile: %w", err)
	}

	profile := NormalizeIdealProfile(payload)
	if len(profile.Dimensions) == 0 {
		return domain.IdealProfile{}, ErrEmptyProfile
	}

	profile.ID = uuid.NewString()
	profile.Name = strings.TrimSpace(name)
	profile.OwnerID = ownerID
	profile.CreatedAt = time.Now().UTC()
	if profile.Name == "" {
		profile.Name = "Untitled role"
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return domain.IdealProfile{}, fmt.Errorf("saving role profile: %w", err)
	}
	return profile, nil
}

// CreateProfile guarda un perfil autorado a mano. Acepta el mismo
// esquema laxo que el LLM: numeros sueltos o objetos target/weight.
func (s *RoleProfileService) CreateProfile(ctx context.Context, ownerID, name string, rawDims map[string]any) (domain.IdealProfile, error) {
	profile := NormalizeIdealProfile(rawDims)
	if len(profile.Dimensions) == 0 {
		return domain.IdealProfile{}, ErrEmptyProfile
	}
	profile.ID = uuid.NewString()
	profile.Name = strings.TrimSpace(name)
	profile.OwnerID = ownerID
	profile.CreatedAt = time.Now().UTC()
	if profile.Name == "" {
		return domain.IdealProfile{}, errors.New("profile name is required")
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return domain.IdealProfile{}, fmt.Errorf("saving role profile: %w", err)
	}
	return profile, nil
}

func (s *RoleProfileService) GetProfile(ctx context.Context, id string) (domain.IdealProfile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RoleProfileService) ListProfiles(ctx context.Context, ownerID string) ([]domain.IdealProfile, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func buildProfilePrompt(description string) string {
	var sb strings.Builder
	sb.WriteString("You are scoring the ideal personality profile for a job opening.\n")
	sb.WriteString("Given the job description below, respond ONLY with a JSON object.\n")
	sb.WriteString("Keys are these dimensions: ")
	for i, dim := range domain.AllDimensions {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(string(dim))
	}
	sb.WriteString(".\n")
	sb.WriteString("Each value is an object {\"target\": 0-100, \"weight\": 0-1.5}.\n")
	sb.WriteString("Omit dimensions the description gives no signal about.\n\n")
	sb.WriteString("Job description:\n")
	sb.WriteString(description)
	return sb.String()
}

func truncateForLog(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
