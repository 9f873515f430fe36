package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/assignment"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/board"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/handoff"
)

// Presenter opens the presentation context of a started match.
type Presenter interface {
	PublishPresentationOpened(ctx context.Context, event events.PresentationOpenedEvent) *apperrors.AppError
}

type Setup struct {
	TimerSeconds int
	VenueId      string
	VenueLabel   string
	Panel        models.Panel
}

type BeginResult struct {
	Match  models.Match
	Stages []StageResult
}

type Controller struct {
	repo      Repository
	resolver  *Resolver
	engine    *assignment.Engine
	handoff   handoff.Store
	presenter Presenter
	board     *board.Board
	logger    *logger.Logger

	defaultTimer int
	minTimer     int
	now          func() time.Time
}

func NewController(
	repo Repository,
	resolver *Resolver,
	engine *assignment.Engine,
	handoffStore handoff.Store,
	presenter Presenter,
	matches *board.Board,
	defaultTimerSeconds, minTimerSeconds int,
	log *logger.Logger,
) *Controller {
	if minTimerSeconds <= 0 {
		minTimerSeconds = models.MinTimerSeconds
	}
	if defaultTimerSeconds < minTimerSeconds {
		defaultTimerSeconds = models.DefaultTimerSeconds
	}
	return &Controller{
		repo:         repo,
		resolver:     resolver,
		engine:       engine,
		handoff:      handoffStore,
		presenter:    presenter,
		board:        matches,
		logger:       log.Component("match-lifecycle"),
		defaultTimer: defaultTimerSeconds,
		minTimer:     minTimerSeconds,
		now:          time.Now,
	}
}

func (c *Controller) lookup(matchId string) (models.Match, *apperrors.AppError) {
	m, ok := c.board.Get(matchId)
	if !ok {
		return models.Match{}, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("match %s not found", matchId))
	}
	return m, nil
}

func (c *Controller) validateSetup(setup *Setup) *apperrors.AppError {
	if setup.TimerSeconds == 0 {
		setup.TimerSeconds = c.defaultTimer
	}
	if setup.TimerSeconds < c.minTimer {
		return apperrors.New(apperrors.CodeInvalidTimer,
			fmt.Sprintf("timer must be at least %d seconds", c.minTimer))
	}
	if strings.TrimSpace(setup.VenueId) == "" {
		return apperrors.New(apperrors.CodeMissingVenue, "a venue is required")
	}
	return assignment.Validate(setup.Panel)
}

// SaveSetup validates and persists timer, venue and panel of a match. The
// match and its performance are created on first save.
func (c *Controller) SaveSetup(ctx context.Context, matchId string, setup Setup) (*models.Match, *apperrors.AppError) {
	if appErr := c.validateSetup(&setup); appErr != nil {
		return nil, appErr
	}
	local, appErr := c.lookup(matchId)
	if appErr != nil {
		return nil, appErr
	}

	boardId, stages := c.resolve(ctx, local.MatchId, &local)
	if last := stages[len(stages)-1]; !last.OK() {
		return nil, last.Err
	}

	update := local.Clone()
	update.TimerSeconds = setup.TimerSeconds
	update.VenueId = setup.VenueId
	update.VenueLabel = setup.VenueLabel
	update.UpdatedAt = c.now().UTC()
	update.ScopeContent()

	stored, err := c.repo.SaveMatchSetup(ctx, &update)
	if err != nil {
		c.logger.Warn("Failed to save match setup",
			"match_id", update.MatchId,
			"version", update.Version,
			"error", err,
		)
		return nil, toAppError(err, apperrors.CodeDatabaseError, "failed to save match setup")
	}
	adopt(&update, stored)
	boardId = c.track(boardId, &update)

	saved, appErr := c.engine.Save(ctx, &update, setup.Panel)
	if appErr != nil {
		return nil, appErr
	}

	c.track(boardId, saved)
	return saved, nil
}

// resolve runs the performance and match stages for a board match that is not
// fully persisted. What each stage creates is written to the board entry at
// once, so a retry after a later failure reuses it. It returns the board id of
// the match afterwards and the stage results; the last one tells the outcome.
func (c *Controller) resolve(ctx context.Context, boardId string, m *models.Match) (string, []StageResult) {
	if persisted(m) {
		return boardId, []StageResult{
			{Stage: StageResolvePerformance, Outcome: OutcomeAlreadyExists},
			{Stage: StageResolveMatch, Outcome: OutcomeAlreadyExists},
		}
	}

	stages := make([]StageResult, 0, 2)
	res := c.resolver.ResolvePerformance(ctx, m)
	stages = append(stages, res)
	if !res.OK() {
		return boardId, stages
	}
	if res.Outcome == OutcomeCreated && m.Placeholder {
		performanceId := m.PerformanceId
		c.board.Update(boardId, func(current *models.Match) {
			current.PerformanceId = performanceId
		})
	}

	res = c.resolver.ResolveMatch(ctx, m)
	stages = append(stages, res)
	if !res.OK() {
		return boardId, stages
	}
	return c.track(boardId, m), stages
}

// track copies the persisted state of m onto the board entry boardId and
// returns the id the entry carries afterwards. A status confirmed on the board
// in the meantime is kept when it is further along.
func (c *Controller) track(boardId string, m *models.Match) string {
	snapshot := m.Clone()
	c.board.Update(boardId, func(current *models.Match) {
		status := models.LaterStatus(snapshot.Status, current.Status)
		*current = snapshot.Clone()
		current.Status = status
	})
	return snapshot.MatchId
}

// Begin starts a match. Preconditions are checked locally first; the stages
// then run in order and stop at the first failure. The confirmed status is
// left for the realtime feed, only the requested status is set here.
func (c *Controller) Begin(ctx context.Context, matchId string) (*BeginResult, *apperrors.AppError) {
	local, appErr := c.lookup(matchId)
	if appErr != nil {
		return nil, appErr
	}
	if appErr := c.checkBegin(&local); appErr != nil {
		return nil, appErr
	}

	result := &BeginResult{}
	m := local.Clone()

	boardId, stages := c.resolve(ctx, m.MatchId, &m)
	result.Stages = append(result.Stages, stages...)
	if last := stages[len(stages)-1]; !last.OK() {
		return result, c.stageFailed(last, boardId)
	}

	res := c.validatePanel(ctx, &m)
	result.Stages = append(result.Stages, res)
	if !res.OK() {
		return result, c.stageFailed(res, boardId)
	}
	if res.Outcome == OutcomeCreated {
		boardId = c.track(boardId, &m)
	}

	res = c.openPresentation(ctx, &m)
	result.Stages = append(result.Stages, res)
	if !res.OK() {
		return result, c.stageFailed(res, boardId)
	}

	m.RequestedStatus = models.MatchStatusInProgress
	c.board.Update(boardId, func(current *models.Match) {
		status := models.LaterStatus(m.Status, current.Status)
		*current = m.Clone()
		current.Status = status
	})
	result.Match = m
	c.logger.Info("Match start requested",
		"match_id", m.MatchId,
		"performance_id", m.PerformanceId,
	)
	return result, nil
}

func (c *Controller) checkBegin(m *models.Match) *apperrors.AppError {
	if len(m.ParticipantIds) == 0 {
		return apperrors.New(apperrors.CodeLifecycleViolation, "match has no participants")
	}
	if appErr := assignment.Validate(m.Assessors); appErr != nil {
		return apperrors.Wrap(appErr, apperrors.CodeLifecycleViolation, "assessor panel is not complete")
	}
	if m.RequestedStatus == models.MatchStatusInProgress {
		return apperrors.New(apperrors.CodeLifecycleViolation, "match start already requested")
	}
	return checkTransition(m.Status, models.MatchStatusInProgress)
}

// validatePanel persists the local panel when the stored one differs.
func (c *Controller) validatePanel(ctx context.Context, m *models.Match) StageResult {
	result := StageResult{Stage: StageValidatePanel}

	stored, appErr := c.engine.Load(ctx, m.MatchId)
	if appErr != nil {
		result.Outcome = OutcomeFailed
		result.Err = appErr
		return result
	}
	if stored == m.Assessors {
		result.Outcome = OutcomeAlreadyExists
		return result
	}

	saved, appErr := c.engine.Save(ctx, m, m.Assessors)
	if appErr != nil {
		result.Outcome = OutcomeFailed
		if appErr.Category() == apperrors.CategoryValidation {
			result.Outcome = OutcomeFailedPrecondition
		}
		result.Err = appErr
		return result
	}
	*m = *saved
	result.Outcome = OutcomeCreated
	return result
}

func (c *Controller) openPresentation(ctx context.Context, m *models.Match) StageResult {
	result := StageResult{Stage: StageOpenPresentation}

	keys := handoff.Keys(m)
	if err := c.handoff.Put(ctx, keys, handoff.NewRecord(m, c.now())); err != nil {
		result.Outcome = OutcomeFailed
		result.Err = toAppError(err, apperrors.CodeRedisOperationError, "failed to write handoff record")
		return result
	}

	event := events.PresentationOpenedEvent{
		MatchId:       m.MatchId,
		PerformanceId: m.PerformanceId,
		HandoffKeys:   keys,
	}
	if appErr := c.presenter.PublishPresentationOpened(ctx, event); appErr != nil {
		result.Outcome = OutcomeFailed
		result.Err = appErr
		return result
	}

	result.Outcome = OutcomeCreated
	return result
}

func (c *Controller) stageFailed(res StageResult, matchId string) *apperrors.AppError {
	c.logger.Warn("Begin pipeline stopped",
		"match_id", matchId,
		"stage", string(res.Stage),
		"outcome", string(res.Outcome),
		"error", res.Err,
	)
	return res.Err
}

// Remove deletes a match. Placeholders only exist on the board; persisted
// matches are deleted first. The remaining matches are renumbered.
func (c *Controller) Remove(ctx context.Context, matchId string) *apperrors.AppError {
	m, appErr := c.lookup(matchId)
	if appErr != nil {
		return appErr
	}

	if !m.Placeholder {
		if err := c.repo.DeleteMatch(ctx, m.TournamentId, m.MatchId); err != nil {
			c.logger.Error("Failed to delete match",
				"match_id", m.MatchId,
				"error", err,
			)
			return toAppError(err, apperrors.CodeDatabaseError, "failed to delete match")
		}
	}

	c.board.Remove(matchId)
	c.logger.Info("Match removed",
		"match_id", matchId,
		"placeholder", m.Placeholder,
	)
	return nil
}
