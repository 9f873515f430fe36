package normalizer

import (
	"time"

	"github.com/google/uuid"

	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/catalog"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/classify"
)

type Input struct {
	// TournamentId is empty while no tournament is selected; zero-participant
	// template matches are only kept in that case.
	TournamentId string
	Participants []models.Participant
	Persisted    []models.Match
	// Existing is the current board. Placeholder ids and insertion order are
	// carried over from it so repeated builds are stable.
	Existing []models.Match
	Catalog  *catalog.Snapshot
}

type Result struct {
	Matches []models.Match
	// Unresolved counts persisted matches whose participants could not be
	// found in the fetched rows. They stay visible with their stored names.
	Unresolved int
}

type Normalizer struct {
	teamEmailDomain string
	defaultTimer    int
	logger          *logger.Logger
}

func New(teamEmailDomain string, defaultTimerSeconds int, log *logger.Logger) *Normalizer {
	if defaultTimerSeconds <= 0 {
		defaultTimerSeconds = models.DefaultTimerSeconds
	}
	return &Normalizer{
		teamEmailDomain: teamEmailDomain,
		defaultTimer:    defaultTimerSeconds,
		logger:          log.Component("match-normalizer"),
	}
}

// Build merges participant groupings with persisted matches into the ordered
// match list.
func (n *Normalizer) Build(in Input) Result {
	snapshot := in.Catalog
	if snapshot == nil {
		snapshot = catalog.Empty()
	}

	entries := groupEntries(in.Participants, n.teamEmailDomain)
	byPerformance := make(map[string]*entry, len(entries))
	byParticipant := make(map[string]models.Participant, len(in.Participants))
	for _, e := range entries {
		if id := e.performanceId(); id != "" {
			byPerformance[id] = e
		}
		for _, p := range e.members {
			byParticipant[p.ParticipantId] = p
		}
	}

	existingById := make(map[string]models.Match, len(in.Existing))
	existingByKey := make(map[string]models.Match, len(in.Existing))
	nextSeq := 1
	for _, m := range in.Existing {
		existingById[m.MatchId] = m
		if key := matchEntryKey(&m); key != "" {
			existingByKey[key] = m
		}
		// A placeholder whose performance was already created stays findable
		// by its participant until the rows carry the performance id.
		if m.Placeholder && m.PerformanceId != "" && len(m.ParticipantIds) == 1 {
			existingByKey[participantKey(m.ParticipantIds[0])] = m
		}
		if m.Seq >= nextSeq {
			nextSeq = m.Seq + 1
		}
	}

	result := Result{}
	merged := make([]models.Match, 0, len(in.Persisted)+len(entries))
	claimedPerformances := make(map[string]bool, len(in.Persisted))
	claimedIds := make(map[string]bool, len(in.Persisted))
	claimedParticipants := make(map[string]bool, len(in.Persisted))

	for _, persisted := range in.Persisted {
		m := persisted.Clone()
		if claimedIds[m.MatchId] || (m.PerformanceId != "" && claimedPerformances[m.PerformanceId]) {
			n.logger.Warn("Dropping duplicate persisted match",
				"match_id", m.MatchId,
				"performance_id", m.PerformanceId,
			)
			continue
		}
		claimedIds[m.MatchId] = true
		if m.PerformanceId != "" {
			claimedPerformances[m.PerformanceId] = true
		}
		for _, id := range m.ParticipantIds {
			claimedParticipants[id] = true
		}
		m.Status = models.ParseMatchStatus(string(m.Status))

		if e, ok := byPerformance[m.PerformanceId]; ok && m.PerformanceId != "" {
			n.applyEntry(&m, e)
		} else if !resolveMembers(&m, byParticipant) && len(m.ParticipantIds) > 0 {
			result.Unresolved++
			n.logger.Warn("Showing match with unresolved participants",
				"match_id", m.MatchId,
				"performance_id", m.PerformanceId,
				"participants", len(m.ParticipantIds),
			)
		}

		if prev, ok := existingById[m.MatchId]; ok {
			m.Seq = prev.Seq
			m.Assessors = prev.Assessors
			if prev.RequestedStatus != "" && prev.RequestedStatus != m.Status {
				m.RequestedStatus = prev.RequestedStatus
			}
		}
		if m.Seq == 0 {
			m.Seq = nextSeq
			nextSeq++
		}
		n.classify(&m, snapshot)
		merged = append(merged, m)
	}

	for _, e := range entries {
		if id := e.performanceId(); id != "" && claimedPerformances[id] {
			continue
		}
		if len(e.members) == 0 {
			n.logger.Debug("Skipping team header without members", "entry", e.key)
			continue
		}
		if e.performanceId() == "" && allClaimed(e.members, claimedParticipants) {
			continue
		}

		m := n.placeholder(e, in.TournamentId)
		if prev, ok := existingByKey[e.key]; ok && prev.Placeholder {
			m.MatchId = prev.MatchId
			m.Seq = prev.Seq
			m.Assessors = prev.Assessors
			m.TimerSeconds = prev.TimerSeconds
			m.VenueId, m.VenueLabel = prev.VenueId, prev.VenueLabel
			m.RequestedStatus = prev.RequestedStatus
			m.CreatedAt = prev.CreatedAt
			if m.PerformanceId == "" {
				m.PerformanceId = prev.PerformanceId
			}
		}
		if claimedIds[m.MatchId] {
			continue
		}
		claimedIds[m.MatchId] = true
		if m.Seq == 0 {
			m.Seq = nextSeq
			nextSeq++
		}
		n.classify(&m, snapshot)
		merged = append(merged, m)
	}

	if in.TournamentId != "" {
		kept := merged[:0]
		for _, m := range merged {
			if len(m.ParticipantIds) > 0 {
				kept = append(kept, m)
			}
		}
		merged = kept
	}

	result.Matches = Order(merged)
	return result
}

func (n *Normalizer) placeholder(e *entry, tournamentId string) models.Match {
	src := e.source()
	m := models.Match{
		MatchId:         uuid.New().String(),
		TournamentId:    firstNonEmpty(tournamentId, src.TournamentId),
		CompetitionType: src.CompetitionType,
		PerformanceId:   e.performanceId(),
		TimerSeconds:    n.defaultTimer,
		Status:          models.MatchStatusPending,
		CategoryId:      src.CategoryId,
		CategoryName:    src.CategoryName,
		SubItemId:       src.SubItemId,
		SubItemName:     src.SubItemName,
		MusicPieceId:    src.MusicPieceId,
		MusicPieceName:  src.MusicPieceName,
		Placeholder:     true,
		CreatedAt:       time.Now().UTC(),
	}
	n.applyEntry(&m, e)
	return m
}

// applyEntry refreshes the participant snapshot of m from the entry rows.
func (n *Normalizer) applyEntry(m *models.Match, e *entry) {
	m.ParticipantIds = make([]string, 0, len(e.members))
	m.ParticipantNames = make([]string, 0, len(e.members))
	for _, p := range e.members {
		m.ParticipantIds = append(m.ParticipantIds, p.ParticipantId)
		m.ParticipantNames = append(m.ParticipantNames, p.Name)
	}
	if m.TeamName == "" {
		m.TeamName = e.teamName()
	}
	if m.Gender == models.GenderUnset {
		m.Gender = models.DeriveGender(e.members)
	}
	if e.header != nil {
		m.IsTeam = true
	}
}

// resolveMembers refreshes names of persisted participant ids found among the
// fetched rows. It reports whether at least one id resolved.
func resolveMembers(m *models.Match, byParticipant map[string]models.Participant) bool {
	resolved := false
	members := make([]models.Participant, 0, len(m.ParticipantIds))
	for i, id := range m.ParticipantIds {
		p, ok := byParticipant[id]
		if !ok {
			continue
		}
		resolved = true
		members = append(members, p)
		if i < len(m.ParticipantNames) {
			m.ParticipantNames[i] = p.Name
		}
	}
	if resolved && m.Gender == models.GenderUnset {
		m.Gender = models.DeriveGender(members)
	}
	return resolved
}

func (n *Normalizer) classify(m *models.Match, snapshot *catalog.Snapshot) {
	if m.CategoryName == "" {
		m.CategoryName = snapshot.CategoryName(m.CategoryId)
	}
	if m.SubItemName == "" {
		m.SubItemName = snapshot.SubItemName(m.SubItemId)
	}
	if m.MusicPieceName == "" {
		m.MusicPieceName = snapshot.MusicPieceName(m.MusicPieceId)
	}

	if !m.IsTeam {
		result := classify.Classify(snapshot.ClassifyInput(
			m.CompetitionType,
			m.CategoryId, m.SubItemId, m.MusicPieceId,
			m.CategoryName, m.SubItemName, m.MusicPieceName,
		))
		if result.Source == classify.SourceHeuristic {
			n.logger.Debug("Classified match by text heuristic",
				"match_id", m.MatchId,
				"content", m.ContentName(),
				"team", result.Team,
			)
		}
		m.IsTeam = result.Team || len(m.ParticipantIds) > 1
	}
	m.ScopeContent()
}

func allClaimed(members []models.Participant, claimed map[string]bool) bool {
	for _, p := range members {
		if !claimed[p.ParticipantId] {
			return false
		}
	}
	return true
}

func matchEntryKey(m *models.Match) string {
	if m.PerformanceId != "" {
		return m.PerformanceId
	}
	if len(m.ParticipantIds) == 1 {
		return participantKey(m.ParticipantIds[0])
	}
	return ""
}
