package handoff

import (
	"fmt"
	"time"

	"github.com/burakmert236/arrangement/common/models"
)

type Participant struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Record is what a presentation surface reads to take over a started match.
type Record struct {
	MatchId        string                 `json:"matchId"`
	PerformanceId  string                 `json:"performanceId,omitempty"`
	CompetitionId  string                 `json:"competitionId"`
	Type           models.CompetitionType `json:"type"`
	ContentName    string                 `json:"contentName"`
	Participants   []Participant          `json:"participants"`
	OfficialsCount int                    `json:"officialsCount"`
	DefaultTimerMs int64                  `json:"defaultTimerMs"`
	StartedAt      time.Time              `json:"startedAt"`
}

func NewRecord(m *models.Match, startedAt time.Time) Record {
	participants := make([]Participant, 0, len(m.ParticipantIds))
	for i, id := range m.ParticipantIds {
		name := ""
		if i < len(m.ParticipantNames) {
			name = m.ParticipantNames[i]
		}
		participants = append(participants, Participant{Id: id, Name: name})
	}

	timer := m.TimerSeconds
	if timer <= 0 {
		timer = models.DefaultTimerSeconds
	}

	return Record{
		MatchId:        m.MatchId,
		PerformanceId:  m.PerformanceId,
		CompetitionId:  m.TournamentId,
		Type:           m.CompetitionType,
		ContentName:    m.ContentName(),
		Participants:   participants,
		OfficialsCount: m.Assessors.Filled(),
		DefaultTimerMs: int64(timer) * 1000,
		StartedAt:      startedAt.UTC(),
	}
}

func MatchKey(matchId string) string {
	return fmt.Sprintf("handoff:match:%s", matchId)
}

func PerformanceKey(performanceId string) string {
	return fmt.Sprintf("handoff:performance:%s", performanceId)
}

// Keys lists the keys a record is written under: always the match id, plus the
// performance id when known.
func Keys(m *models.Match) []string {
	keys := []string{MatchKey(m.MatchId)}
	if m.PerformanceId != "" {
		keys = append(keys, PerformanceKey(m.PerformanceId))
	}
	return keys
}
