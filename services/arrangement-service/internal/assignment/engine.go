package assignment

import (
	"context"
	"sort"
	"strings"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
)

type Repository interface {
	ListAssignments(ctx context.Context, matchId string) ([]models.AssessorAssignment, error)
	ReplacePanel(ctx context.Context, matchId string, assignments []models.AssessorAssignment) error
	ListOfficials(ctx context.Context) ([]models.Official, error)
}

// MatchResolver makes sure the performance and match behind m are persisted
// and returns the persisted match.
type MatchResolver interface {
	EnsureMatch(ctx context.Context, m *models.Match) (*models.Match, *apperrors.AppError)
}

type Engine struct {
	repo     Repository
	resolver MatchResolver
	logger   *logger.Logger
}

func NewEngine(repo Repository, resolver MatchResolver, log *logger.Logger) *Engine {
	return &Engine{
		repo:     repo,
		resolver: resolver,
		logger:   log.Component("assignment-engine"),
	}
}

// Save persists the full panel of m, creating the performance and match first
// when needed. The previous assignment set is replaced as a whole.
func (e *Engine) Save(ctx context.Context, m *models.Match, panel models.Panel) (*models.Match, *apperrors.AppError) {
	if appErr := Validate(panel); appErr != nil {
		return nil, appErr
	}

	persisted, appErr := e.resolver.EnsureMatch(ctx, m)
	if appErr != nil {
		return nil, appErr
	}

	if err := e.repo.ReplacePanel(ctx, persisted.MatchId, Assignments(persisted.MatchId, panel)); err != nil {
		e.logger.Error("Failed to replace assessor panel",
			"match_id", persisted.MatchId,
			"error", err,
		)
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to save assessor panel")
	}

	saved := persisted.Clone()
	saved.Assessors = panel
	e.logger.Info("Assessor panel saved",
		"match_id", saved.MatchId,
		"performance_id", saved.PerformanceId,
	)
	return &saved, nil
}

// Load reads the stored panel of a persisted match.
func (e *Engine) Load(ctx context.Context, matchId string) (models.Panel, *apperrors.AppError) {
	assignments, err := e.repo.ListAssignments(ctx, matchId)
	if err != nil {
		return models.Panel{}, apperrors.Wrap(err, apperrors.CodeTransientFetch, "failed to load assessor panel")
	}

	panel, dropped := NormalizePositions(assignments)
	for _, a := range dropped {
		e.logger.Warn("Ignoring assignment outside the panel",
			"match_id", matchId,
			"user_id", a.UserId,
			"position", a.Position,
		)
	}
	return panel, nil
}

type OfficialOption struct {
	UserId      string
	DisplayName string
	// Position is the panel position the official already holds, or -1.
	Position int
}

func (o OfficialOption) Assigned() bool {
	return o.Position >= 0
}

// Officials lists active officials sorted by name, flagging those already on panel.
func (e *Engine) Officials(ctx context.Context, panel models.Panel) ([]OfficialOption, *apperrors.AppError) {
	officials, err := e.repo.ListOfficials(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "failed to list officials")
	}

	positions := make(map[string]int, models.PanelSize)
	for position, userId := range panel {
		if userId != "" {
			positions[userId] = position
		}
	}

	options := make([]OfficialOption, 0, len(officials))
	for _, o := range officials {
		if !o.Active {
			continue
		}
		option := OfficialOption{UserId: o.UserId, DisplayName: o.DisplayName, Position: -1}
		if position, ok := positions[o.UserId]; ok {
			option.Position = position
		}
		options = append(options, option)
	}

	sort.SliceStable(options, func(i, j int) bool {
		a, b := strings.ToLower(options[i].DisplayName), strings.ToLower(options[j].DisplayName)
		if a != b {
			return a < b
		}
		return options[i].UserId < options[j].UserId
	})
	return options, nil
}
