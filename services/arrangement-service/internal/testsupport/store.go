package testsupport

import (
	"context"
	"fmt"
	"sort"
	"sync"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

// Store is an in-memory stand-in for every DynamoDB repository.
type Store struct {
	mu sync.Mutex

	Tournaments  map[string]models.Tournament
	Categories   []models.ContentCategory
	SubItems     []models.ContentSubItem
	MusicPieces  []models.MusicPiece
	Participants []models.Participant
	Matches      map[string]models.Match
	Performances map[string]models.Performance
	Assignments  map[string][]models.AssessorAssignment
	Officials    []models.Official

	calls  map[string]int
	fail   map[string]error
	nextId int
}

func NewStore() *Store {
	return &Store{
		Tournaments:  make(map[string]models.Tournament),
		Matches:      make(map[string]models.Match),
		Performances: make(map[string]models.Performance),
		Assignments:  make(map[string][]models.AssessorAssignment),
		calls:        make(map[string]int),
		fail:         make(map[string]error),
	}
}

// FailOn makes every later call of method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, method)
		return
	}
	s.fail[method] = err
}

func (s *Store) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalWrites counts calls of every mutating method.
func (s *Store) TotalWrites() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls["SaveMatchSetup"] + s.calls["DeleteMatch"] + s.calls["CreatePerformance"] + s.calls["ReplacePanel"] + s.calls["LinkPerformance"]
}

func (s *Store) enter(method string) error {
	s.mu.Lock()
	s.calls[method]++
	return s.fail[method]
}

func (s *Store) newId(prefix string) string {
	s.nextId++
	return fmt.Sprintf("%s-%d", prefix, s.nextId)
}

func (s *Store) GetTournament(ctx context.Context, tournamentId string) (*models.Tournament, error) {
	if err := s.enter("GetTournament"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.Tournaments[tournamentId]
	if !ok {
		return nil, apperrors.New(apperrors.CodeNotFound, "tournament not found")
	}
	return &t, nil
}

func (s *Store) ListCategories(ctx context.Context, competitionType models.CompetitionType) ([]models.ContentCategory, error) {
	if err := s.enter("ListCategories"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	out := make([]models.ContentCategory, 0)
	for _, c := range s.Categories {
		if c.CompetitionType == competitionType {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) ListSubItems(ctx context.Context) ([]models.ContentSubItem, error) {
	if err := s.enter("ListSubItems"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return append([]models.ContentSubItem(nil), s.SubItems...), nil
}

func (s *Store) ListMusicPieces(ctx context.Context) ([]models.MusicPiece, error) {
	if err := s.enter("ListMusicPieces"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return append([]models.MusicPiece(nil), s.MusicPieces...), nil
}

func (s *Store) ListParticipants(ctx context.Context, q models.ParticipantQuery) ([]models.Participant, error) {
	if err := s.enter("ListParticipants"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	out := make([]models.Participant, 0)
	for _, p := range s.Participants {
		if q.TournamentId != "" && p.TournamentId != q.TournamentId {
			continue
		}
		if q.CompetitionType != "" && p.CompetitionType != q.CompetitionType {
			continue
		}
		if q.Gender != models.GenderUnset && p.Gender != q.Gender {
			continue
		}
		if q.CategoryId != "" && p.CategoryId != q.CategoryId {
			continue
		}
		if q.SubItemId != "" && p.SubItemId != q.SubItemId {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) ListMatches(ctx context.Context, tournamentId string) ([]models.Match, error) {
	if err := s.enter("ListMatches"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	out := make([]models.Match, 0)
	for _, m := range s.Matches {
		if m.TournamentId == tournamentId {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchId < out[j].MatchId })
	return out, nil
}

func (s *Store) GetMatchByPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Match, error) {
	if err := s.enter("GetMatchByPerformance"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	for _, m := range s.Matches {
		if m.TournamentId == tournamentId && m.PerformanceId == performanceId {
			clone := m.Clone()
			return &clone, nil
		}
	}
	return nil, nil
}

// SaveMatchSetup upserts by performance id, rejecting stale versions.
func (s *Store) SaveMatchSetup(ctx context.Context, match *models.Match) (*models.Match, error) {
	if err := s.enter("SaveMatchSetup"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()

	if match.PerformanceId == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "performance id is required")
	}

	saved := match.Clone()
	saved.Placeholder = false
	saved.Assessors = models.Panel{}
	for id, existing := range s.Matches {
		if existing.TournamentId != match.TournamentId || existing.PerformanceId != match.PerformanceId {
			continue
		}
		if existing.Version != match.Version {
			return nil, apperrors.New(apperrors.CodeConflict, "match was modified concurrently")
		}
		saved.MatchId = id
		saved.Version = existing.Version + 1
		saved.Order = existing.Order
		saved.Status = existing.Status
		s.Matches[id] = saved
		out := saved.Clone()
		return &out, nil
	}

	saved.MatchId = s.newId("match")
	saved.Version = 1
	if saved.Status == "" {
		saved.Status = models.MatchStatusPending
	}
	s.Matches[saved.MatchId] = saved
	out := saved.Clone()
	return &out, nil
}

// LinkPerformance sets the performance of a stored match that has none.
func (s *Store) LinkPerformance(ctx context.Context, match *models.Match) (*models.Match, error) {
	if err := s.enter("LinkPerformance"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()

	existing, ok := s.Matches[match.MatchId]
	if !ok || existing.TournamentId != match.TournamentId {
		return nil, apperrors.New(apperrors.CodeConflict, "match no longer exists")
	}
	if existing.Version != match.Version || existing.PerformanceId != "" {
		return nil, apperrors.New(apperrors.CodeConflict, "match was modified concurrently")
	}
	for id, other := range s.Matches {
		if id != match.MatchId && other.TournamentId == match.TournamentId && other.PerformanceId == match.PerformanceId {
			return nil, apperrors.New(apperrors.CodeConflict, "performance already has a match")
		}
	}

	existing.PerformanceId = match.PerformanceId
	existing.Version++
	s.Matches[match.MatchId] = existing
	linked := match.Clone()
	linked.Version = existing.Version
	linked.Placeholder = false
	return &linked, nil
}

func (s *Store) DeleteMatch(ctx context.Context, tournamentId, matchId string) error {
	if err := s.enter("DeleteMatch"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	delete(s.Matches, matchId)
	delete(s.Assignments, matchId)
	return nil
}

func (s *Store) GetPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Performance, error) {
	if err := s.enter("GetPerformance"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	p, ok := s.Performances[performanceId]
	if !ok || p.TournamentId != tournamentId {
		return nil, nil
	}
	return &p, nil
}

func (s *Store) CreatePerformance(ctx context.Context, performance *models.Performance) error {
	if err := s.enter("CreatePerformance"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	if performance.PerformanceId == "" {
		performance.PerformanceId = s.newId("performance")
	}
	if _, exists := s.Performances[performance.PerformanceId]; exists {
		return apperrors.New(apperrors.CodeAlreadyExists, "performance already exists")
	}
	s.Performances[performance.PerformanceId] = *performance
	return nil
}

func (s *Store) ListAssignments(ctx context.Context, matchId string) ([]models.AssessorAssignment, error) {
	if err := s.enter("ListAssignments"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return append([]models.AssessorAssignment(nil), s.Assignments[matchId]...), nil
}

func (s *Store) ReplacePanel(ctx context.Context, matchId string, assignments []models.AssessorAssignment) error {
	if err := s.enter("ReplacePanel"); err != nil {
		s.mu.Unlock()
		return err
	}
	defer s.mu.Unlock()
	s.Assignments[matchId] = append([]models.AssessorAssignment(nil), assignments...)
	return nil
}

func (s *Store) ListOfficials(ctx context.Context) ([]models.Official, error) {
	if err := s.enter("ListOfficials"); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	defer s.mu.Unlock()
	return append([]models.Official(nil), s.Officials...), nil
}
