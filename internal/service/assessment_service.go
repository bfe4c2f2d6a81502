package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prism-api/internal/domain"
	"prism-api/internal/email"
	"prism-api/internal/repository"
)

var (
	ErrSessionRequired = errors.New("session id required")
	ErrNoResponses     = errors.New("no responses submitted")
	ErrEmptyBank       = errors.New("item bank is empty")
)

// AssessmentService orquesta selección de preguntas, scoring y entrega
// de resultados sobre el banco activo.
type AssessmentService struct {
	items     repository.ItemRepository
	responses repository.ResponseRepository
	results   repository.ResultRepository
	users     repository.UserRepository
	selector  QuestionSelector
	engine    ScoringEngine
	cache     SelectionCache
	sender    email.Sender
	logger    *zap.Logger
}

func NewAssessmentService(
	items repository.ItemRepository,
	responses repository.ResponseRepository,
	results repository.ResultRepository,
	users repository.UserRepository,
	selector QuestionSelector,
	engine ScoringEngine,
	cache SelectionCache,
	sender email.Sender,
	logger *zap.Logger,
) *AssessmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		items:     items,
		responses: responses,
		results:   results,
		users:     users,
		selector:  selector,
		engine:    engine,
		cache:     cache,
		sender:    sender,
		logger:    logger,
	}
}

// SelectQuestions arma el cuestionario para un tier y los frameworks
// pedidos. La selección es determinista sobre un banco dado, así que se
// cachea por fingerprint del banco; un banco degradado no es error, se
// reporta y se loguea.
func (s *AssessmentService) SelectQuestions(ctx context.Context, tier string, frameworks []string) ([]domain.Item, SelectionReport, error) {
	bank, err := s.items.ListActive(ctx)
	if err != nil {
		return nil, SelectionReport{}, fmt.Errorf("loading item bank: %w", err)
	}
	if len(bank) == 0 {
		return nil, SelectionReport{}, ErrEmptyBank
	}

	byID := make(map[string]domain.Item, len(bank))
	for _, it := range bank {
		byID[it.ID] = it
	}

	cacheKey := SelectionCacheKey(tier, frameworks, BankFingerprint(bank))
	if s.cache != nil {
		if cachedIDs, ok := s.cache.Get(ctx, cacheKey); ok {
			if items, ok := resolveItems(cachedIDs, byID); ok {
				report, err := s.selector.Validate(items, tier, frameworks)
				if err == nil {
					return items, report, nil
				}
			}
		}
	}

	selected, err := s.selector.Select(tier, frameworks, bank)
	if err != nil {
		return nil, SelectionReport{}, err
	}
	report, err := s.selector.Validate(selected, tier, frameworks)
	if err != nil {
		return nil, SelectionReport{}, err
	}
	if !report.Passed {
		s.logger.Warn("question selection degraded",
			zap.String("tier", tier),
			zap.Strings("frameworks", frameworks),
			zap.Int("selected", report.TotalSelected),
		)
	}

	if s.cache != nil {
		selectedIDs := make([]string, len(selected))
		for i, it := range selected {
			selectedIDs[i] = it.ID
		}
		s.cache.Set(ctx, cacheKey, selectedIDs)
	}
	return selected, report, nil
}

// ScoreSession persiste las respuestas de una sesión, corre el motor de
// scoring sobre el banco activo y guarda el resultado. El envío del mail
// de resultados es best effort.
func (s *AssessmentService) ScoreSession(ctx context.Context, sessionID, userID string, responses []domain.Response) (domain.AssessmentResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.AssessmentResult{}, ErrSessionRequired
	}
	if len(responses) == 0 {
		return domain.AssessmentResult{}, ErrNoResponses
	}

	bank, err := s.items.ListActive(ctx)
	if err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("loading item bank: %w", err)
	}
	if len(bank) == 0 {
		return domain.AssessmentResult{}, ErrEmptyBank
	}

	for _, resp := range responses {
		if err := s.responses.Create(ctx, sessionID, resp); err != nil {
			return domain.AssessmentResult{}, fmt.Errorf("saving response %s: %w", resp.ItemID, err)
		}
	}

	output := s.engine.Score(responses, bank)
	if len(output.Skipped) > 0 {
		s.logger.Info("responses skipped during scoring",
			zap.String("session_id", sessionID),
			zap.Strings("item_ids", output.Skipped),
		)
	}

	result := domain.AssessmentResult{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		UserID:     userID,
		Dimensions: output.Dimensions,
		Frameworks: output.Frameworks,
		Skipped:    output.Skipped,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.results.Upsert(ctx, result); err != nil {
		return domain.AssessmentResult{}, fmt.Errorf("saving result: %w", err)
	}

	s.notifyResultsReady(ctx, userID, sessionID)
	return result, nil
}

func (s *AssessmentService) GetResult(ctx context.Context, sessionID string) (domain.AssessmentResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.AssessmentResult{}, ErrSessionRequired
	}
	return s.results.GetBySessionID(ctx, sessionID)
}

func (s *AssessmentService) notifyResultsReady(ctx context.Context, userID, sessionID string) {
	if s.sender == nil || s.users == nil || strings.TrimSpace(userID) == "" {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}
	if err := s.sender.SendResultsReady(ctx, user.Email, sessionID); err != nil {
		s.logger.Warn("results email failed",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
}

func resolveItems(ids []string, byID map[string]domain.Item) ([]domain.Item, bool) {
	items := make([]domain.Item, 0, len(ids))
	for _, id := range ids {
		it, ok := byID[id]
		if !ok {
			return nil, false
		}
		items = append(items, it)
	}
	return items, len(items) > 0
}
