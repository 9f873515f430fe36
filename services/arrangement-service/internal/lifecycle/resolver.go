package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
)

type Repository interface {
	GetPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Performance, error)
	CreatePerformance(ctx context.Context, performance *models.Performance) error
	GetMatchByPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Match, error)
	SaveMatchSetup(ctx context.Context, match *models.Match) (*models.Match, error)
	LinkPerformance(ctx context.Context, match *models.Match) (*models.Match, error)
	DeleteMatch(ctx context.Context, tournamentId, matchId string) error
}

type Stage string

const (
	StageResolvePerformance Stage = "ResolvePerformance"
	StageResolveMatch       Stage = "ResolveMatch"
	StageValidatePanel      Stage = "ValidatePanel"
	StageOpenPresentation   Stage = "OpenPresentation"
)

type Outcome string

const (
	OutcomeCreated            Outcome = "created"
	OutcomeAlreadyExists      Outcome = "already-exists"
	OutcomeFailedPrecondition Outcome = "failed-precondition"
	OutcomeFailed             Outcome = "failed"
)

type StageResult struct {
	Stage   Stage
	Outcome Outcome
	Err     *apperrors.AppError
}

func (r StageResult) OK() bool {
	return r.Err == nil
}

// Resolver creates the performance and match behind a board match when they
// do not exist yet, and reuses them otherwise.
type Resolver struct {
	repo   Repository
	logger *logger.Logger
	now    func() time.Time
}

func NewResolver(repo Repository, log *logger.Logger) *Resolver {
	return &Resolver{
		repo:   repo,
		logger: log.Component("match-resolver"),
		now:    time.Now,
	}
}

func creatable(m *models.Match) bool {
	if len(m.ParticipantIds) != 1 {
		return false
	}
	return m.CompetitionType == models.CompetitionForms || m.CompetitionType == models.CompetitionMusic
}

// ResolvePerformance makes sure m.PerformanceId names a stored performance.
// A missing performance is only created for a single-participant forms or
// music entry.
func (r *Resolver) ResolvePerformance(ctx context.Context, m *models.Match) StageResult {
	result := StageResult{Stage: StageResolvePerformance}

	if m.PerformanceId != "" {
		existing, err := r.repo.GetPerformance(ctx, m.TournamentId, m.PerformanceId)
		if err != nil {
			return failed(result, err, "failed to load performance")
		}
		if existing != nil {
			result.Outcome = OutcomeAlreadyExists
			return result
		}
	}

	if !creatable(m) {
		result.Outcome = OutcomeFailedPrecondition
		result.Err = apperrors.New(apperrors.CodePreconditionFailed,
			"a performance can only be created for a single forms or music participant")
		return result
	}

	performance := &models.Performance{
		PerformanceId:   m.PerformanceId,
		TournamentId:    m.TournamentId,
		TeamName:        m.TeamName,
		ParticipantIds:  append([]string(nil), m.ParticipantIds...),
		CompetitionType: m.CompetitionType,
		Gender:          m.Gender,
		CreatedAt:       r.now().UTC(),
	}
	if performance.PerformanceId == "" {
		performance.PerformanceId = uuid.New().String()
	}
	if m.CompetitionType == models.CompetitionMusic {
		performance.MusicPieceId = m.MusicPieceId
	} else {
		performance.CategoryId = m.CategoryId
		performance.SubItemId = m.SubItemId
	}

	if err := r.repo.CreatePerformance(ctx, performance); err != nil {
		return failed(result, err, "failed to create performance")
	}

	m.PerformanceId = performance.PerformanceId
	r.logger.Info("Performance created",
		"performance_id", performance.PerformanceId,
		"tournament_id", performance.TournamentId,
	)
	result.Outcome = OutcomeCreated
	return result
}

// ResolveMatch loads the persisted match of m's performance or creates it. A
// stored match without a performance is linked to it instead of duplicated.
// On success m is replaced by the persisted match, keeping board-only fields.
func (r *Resolver) ResolveMatch(ctx context.Context, m *models.Match) StageResult {
	result := StageResult{Stage: StageResolveMatch}
	if m.PerformanceId == "" {
		result.Outcome = OutcomeFailedPrecondition
		result.Err = apperrors.New(apperrors.CodePreconditionFailed, "match has no performance")
		return result
	}

	existing, err := r.repo.GetMatchByPerformance(ctx, m.TournamentId, m.PerformanceId)
	if err != nil {
		return failed(result, err, "failed to load match")
	}
	if existing != nil {
		adopt(m, existing)
		result.Outcome = OutcomeAlreadyExists
		return result
	}

	if !m.Placeholder && m.MatchId != "" {
		linked, err := r.repo.LinkPerformance(ctx, m)
		if err != nil {
			return failed(result, err, "failed to link performance to match")
		}
		adopt(m, linked)
		r.logger.Info("Performance linked to match",
			"match_id", linked.MatchId,
			"performance_id", linked.PerformanceId,
		)
		result.Outcome = OutcomeCreated
		return result
	}

	draft := m.Clone()
	draft.Version = 0
	draft.Status = models.MatchStatusPending
	draft.ScopeContent()
	if draft.TimerSeconds <= 0 {
		draft.TimerSeconds = models.DefaultTimerSeconds
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = r.now().UTC()
	}
	draft.UpdatedAt = r.now().UTC()

	created, err := r.repo.SaveMatchSetup(ctx, &draft)
	if err != nil {
		return failed(result, err, "failed to create match")
	}
	adopt(m, created)
	r.logger.Info("Match created",
		"match_id", created.MatchId,
		"performance_id", created.PerformanceId,
	)
	result.Outcome = OutcomeCreated
	return result
}

// persisted reports whether m is a stored match linked to its performance.
func persisted(m *models.Match) bool {
	return !m.Placeholder && m.Version > 0 && m.PerformanceId != ""
}

// EnsureMatch runs ResolvePerformance and ResolveMatch. A match that is
// already persisted is returned as is.
func (r *Resolver) EnsureMatch(ctx context.Context, m *models.Match) (*models.Match, *apperrors.AppError) {
	resolved := m.Clone()
	if persisted(&resolved) {
		return &resolved, nil
	}

	for _, stage := range []func(context.Context, *models.Match) StageResult{r.ResolvePerformance, r.ResolveMatch} {
		if res := stage(ctx, &resolved); !res.OK() {
			return nil, res.Err
		}
	}
	return &resolved, nil
}

// adopt copies persisted identity and state onto a board match.
func adopt(m *models.Match, persisted *models.Match) {
	local := *m
	*m = persisted.Clone()
	m.Assessors = local.Assessors
	m.Seq = local.Seq
	m.Ordinal = local.Ordinal
	m.ContentOrdinal = local.ContentOrdinal
	m.RequestedStatus = local.RequestedStatus
	m.Placeholder = false
	if len(m.ParticipantNames) == 0 {
		m.ParticipantNames = append([]string(nil), local.ParticipantNames...)
	}
	if m.CategoryName == "" {
		m.CategoryName = local.CategoryName
	}
	if m.SubItemName == "" {
		m.SubItemName = local.SubItemName
	}
	if m.MusicPieceName == "" {
		m.MusicPieceName = local.MusicPieceName
	}
	if !m.IsTeam {
		m.IsTeam = local.IsTeam
	}
	m.Status = models.ParseMatchStatus(string(m.Status))
}

func failed(result StageResult, err error, message string) StageResult {
	result.Outcome = OutcomeFailed
	result.Err = toAppError(err, apperrors.CodeDatabaseError, message)
	return result
}

func toAppError(err error, code, message string) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(err, code, message)
}
