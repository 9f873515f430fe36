package service

import (
	"context"
	"sync"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/assignment"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/athletecache"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/board"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/catalog"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/filter"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/lifecycle"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/normalizer"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/realtime"
)

type MatchLister interface {
	ListMatches(ctx context.Context, tournamentId string) ([]models.Match, error)
}

type Components struct {
	Matches    MatchLister
	Catalog    *catalog.Catalog
	Athletes   *athletecache.Cache
	Normalizer *normalizer.Normalizer
	Board      *board.Board
	Engine     *assignment.Engine
	Lifecycle  *lifecycle.Controller
	Bridge     *realtime.Bridge
}

// Arrangement drives one operator view: filter selection, the match board and
// the match operations behind it.
type Arrangement struct {
	Components
	logger *logger.Logger

	mu         sync.Mutex
	view       filter.ViewState
	snapshot   *catalog.Snapshot
	generation uint64
}

type VisibleMatch struct {
	models.Match
	Setup assignment.SetupState
}

func NewArrangement(components Components, log *logger.Logger) *Arrangement {
	return &Arrangement{
		Components: components,
		logger:     log.Component("arrangement-service"),
		view:       filter.NewViewState(),
		snapshot:   catalog.Empty(),
	}
}

func (s *Arrangement) View() filter.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Content returns the catalog snapshot of the selected tournament.
func (s *Arrangement) Content() *catalog.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

func (s *Arrangement) SelectTournament(ctx context.Context, tournamentId string) *apperrors.AppError {
	return s.Dispatch(ctx, filter.SelectTournament{TournamentId: tournamentId})
}

// Dispatch applies a view action and reloads whatever the change affects.
func (s *Arrangement) Dispatch(ctx context.Context, action filter.Action) *apperrors.AppError {
	s.mu.Lock()
	prev := s.view
	next := filter.Reduce(prev, action)
	s.view = next
	s.mu.Unlock()

	switch {
	case next.Filter.TournamentId != prev.Filter.TournamentId:
		return s.loadTournament(ctx, next.Filter)
	case next.Filter.CompetitionType != prev.Filter.CompetitionType:
		result := s.Athletes.SwitchCompetitionType(ctx, athletecache.KeyFor(next.Filter))
		return s.rebuild(ctx, next.Filter, result, false)
	case next.Filter.Signature() != prev.Filter.Signature():
		result := s.Athletes.Resolve(ctx, athletecache.KeyFor(next.Filter))
		return s.rebuild(ctx, next.Filter, result, false)
	case next.SetupMatchId != "" && next.SetupMatchId != prev.SetupMatchId:
		return s.loadPanel(ctx, next.SetupMatchId)
	default:
		s.syncBridge(ctx)
		return nil
	}
}

// Refresh refetches catalog, participants and persisted matches of the view.
func (s *Arrangement) Refresh(ctx context.Context) *apperrors.AppError {
	state := s.View().Filter
	if state.TournamentId != "" {
		snapshot := s.Catalog.Refresh(ctx, state.TournamentId)
		s.mu.Lock()
		s.snapshot = snapshot
		s.mu.Unlock()
	}
	result := s.Athletes.Refresh(ctx, athletecache.KeyFor(state))
	return s.rebuild(ctx, state, result, true)
}

func (s *Arrangement) loadTournament(ctx context.Context, state filter.State) *apperrors.AppError {
	snapshot := catalog.Empty()
	if state.TournamentId != "" {
		snapshot = s.Catalog.Load(ctx, state.TournamentId)
	}
	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.Board.Clear()
	var result athletecache.Result
	if state.TournamentId != "" {
		result = s.Athletes.SwitchCompetitionType(ctx, athletecache.KeyFor(state))
	} else {
		s.Athletes.ClearActive()
	}
	return s.rebuild(ctx, state, result, true)
}

// rebuild merges fetched rows with persisted matches into the board. Work
// started before a newer rebuild is dropped.
func (s *Arrangement) rebuild(ctx context.Context, state filter.State, rows athletecache.Result, reloadMatches bool) *apperrors.AppError {
	if rows.Stale {
		return nil
	}

	s.mu.Lock()
	s.generation++
	generation := s.generation
	snapshot := s.snapshot
	s.mu.Unlock()

	existing := s.Board.Snapshot()
	persisted := persistedOf(existing)
	if reloadMatches || len(persisted) == 0 {
		persisted = s.loadMatches(ctx, state.TournamentId, persisted)
	}

	result := s.Normalizer.Build(normalizer.Input{
		TournamentId: state.TournamentId,
		Participants: rows.Rows,
		Persisted:    persisted,
		Existing:     existing,
		Catalog:      snapshot,
	})

	s.mu.Lock()
	if generation != s.generation {
		s.mu.Unlock()
		s.logger.Debug("Discarding superseded board rebuild", "tournament_id", state.TournamentId)
		return nil
	}
	s.Board.Replace(result.Matches)
	s.mu.Unlock()

	if result.Unresolved > 0 {
		s.logger.Warn("Board contains matches with unresolved participants",
			"tournament_id", state.TournamentId,
			"count", result.Unresolved,
		)
	}
	s.syncBridge(ctx)
	return nil
}

// loadMatches falls back to the given matches when the fetch fails.
func (s *Arrangement) loadMatches(ctx context.Context, tournamentId string, fallback []models.Match) []models.Match {
	if tournamentId == "" {
		return fallback
	}
	matches, err := s.Matches.ListMatches(ctx, tournamentId)
	if err != nil {
		s.logger.Warn("Match fetch failed, keeping current matches",
			"tournament_id", tournamentId,
			"error", apperrors.Wrap(err, apperrors.CodeTransientFetch, "failed to fetch matches"),
		)
		return fallback
	}
	return matches
}

func persistedOf(matches []models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	for _, m := range matches {
		if !m.Placeholder {
			out = append(out, m)
		}
	}
	return out
}

// Visible returns the ordered matches the current filter shows. Without a
// tournament, template matches of the active type are shown.
func (s *Arrangement) Visible() []VisibleMatch {
	s.mu.Lock()
	state := s.view.Filter
	snapshot := s.snapshot
	s.mu.Unlock()

	var predicate filter.Predicate
	if state.TournamentId == "" {
		predicate = func(m *models.Match) bool { return m.CompetitionType == state.CompetitionType }
	} else {
		predicate = filter.Compile(state, snapshot)
	}

	matches := filter.Apply(predicate, s.Board.Snapshot())
	visible := make([]VisibleMatch, 0, len(matches))
	for _, m := range matches {
		visible = append(visible, VisibleMatch{Match: m, Setup: assignment.StateOf(m.Assessors)})
	}
	return visible
}

func (s *Arrangement) syncBridge(ctx context.Context) {
	visible := s.Visible()
	matches := make([]models.Match, 0, len(visible))
	for _, v := range visible {
		matches = append(matches, v.Match)
	}
	if appErr := s.Bridge.Sync(ctx, matches); appErr != nil {
		s.logger.Warn("Realtime status unavailable", "error", appErr)
	}
}

func (s *Arrangement) loadPanel(ctx context.Context, matchId string) *apperrors.AppError {
	m, ok := s.Board.Get(matchId)
	if !ok {
		return apperrors.New(apperrors.CodeNotFound, "match not found")
	}
	if m.Placeholder || m.Assessors.Filled() > 0 {
		return nil
	}

	panel, appErr := s.Engine.Load(ctx, matchId)
	if appErr != nil {
		s.logger.Warn("Assessor panel unavailable, showing it empty",
			"match_id", matchId,
			"error", appErr,
		)
		return nil
	}
	s.Board.Update(matchId, func(current *models.Match) {
		current.Assessors = panel
	})
	return nil
}

func (s *Arrangement) Officials(ctx context.Context, matchId string) ([]assignment.OfficialOption, *apperrors.AppError) {
	m, ok := s.Board.Get(matchId)
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "match not found")
	}
	return s.Engine.Officials(ctx, m.Assessors)
}

func (s *Arrangement) SaveSetup(ctx context.Context, matchId string, setup lifecycle.Setup) (*models.Match, *apperrors.AppError) {
	saved, appErr := s.Lifecycle.SaveSetup(ctx, matchId, setup)
	s.followPersisted(matchId)
	if appErr != nil {
		return nil, appErr
	}
	s.syncBridge(ctx)
	return saved, nil
}

func (s *Arrangement) Begin(ctx context.Context, matchId string) (*lifecycle.BeginResult, *apperrors.AppError) {
	result, appErr := s.Lifecycle.Begin(ctx, matchId)
	s.followPersisted(matchId)
	if appErr != nil {
		return result, appErr
	}
	s.syncBridge(ctx)
	return result, nil
}

func (s *Arrangement) Remove(ctx context.Context, matchId string) *apperrors.AppError {
	if appErr := s.Lifecycle.Remove(ctx, matchId); appErr != nil {
		return appErr
	}
	s.mu.Lock()
	if s.view.SetupMatchId == matchId {
		s.view.SetupMatchId = ""
	}
	s.mu.Unlock()
	s.syncBridge(ctx)
	return nil
}

// followPersisted points the open setup at the persisted id of matchId, which
// changes once a placeholder is stored even when a later step failed.
func (s *Arrangement) followPersisted(matchId string) {
	current := s.Board.Resolve(matchId)
	s.mu.Lock()
	if s.view.SetupMatchId == matchId {
		s.view.SetupMatchId = current
	}
	s.mu.Unlock()
}

// Close stops realtime updates of the view.
func (s *Arrangement) Close() {
	s.Bridge.Teardown()
}
