package models

import (
	"fmt"
	"strings"
	"time"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "Pending"
	MatchStatusInProgress MatchStatus = "InProgress"
	MatchStatusCompleted  MatchStatus = "Completed"
	MatchStatusCancelled  MatchStatus = "Cancelled"
)

var legacyStatusNames = map[string]MatchStatus{
	"pending":     MatchStatusPending,
	"scheduled":   MatchStatusPending,
	"waiting":     MatchStatusPending,
	"inprogress":  MatchStatusInProgress,
	"in_progress": MatchStatusInProgress,
	"ongoing":     MatchStatusInProgress,
	"started":     MatchStatusInProgress,
	"completed":   MatchStatusCompleted,
	"finished":    MatchStatusCompleted,
	"done":        MatchStatusCompleted,
	"cancelled":   MatchStatusCancelled,
	"canceled":    MatchStatusCancelled,
}

// ParseMatchStatus maps upstream status strings onto the lifecycle states.
// Anything unrecognized is treated as Pending.
func ParseMatchStatus(raw string) MatchStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "_")
	if status, ok := legacyStatusNames[key]; ok {
		return status
	}
	if status, ok := legacyStatusNames[strings.ReplaceAll(key, "_", "")]; ok {
		return status
	}
	return MatchStatusPending
}

var statusRank = map[MatchStatus]int{
	MatchStatusPending:    0,
	MatchStatusInProgress: 1,
	MatchStatusCompleted:  2,
	MatchStatusCancelled:  2,
}

// LaterStatus returns whichever of a and b is further along the lifecycle,
// preferring a on a tie.
func LaterStatus(a, b MatchStatus) MatchStatus {
	if statusRank[ParseMatchStatus(string(b))] > statusRank[ParseMatchStatus(string(a))] {
		return b
	}
	return a
}

const (
	PanelSize           = 5
	DefaultTimerSeconds = 120
	MinTimerSeconds     = 30
)

// Panel holds the assessor user ids by position. Empty string means unfilled.
type Panel [PanelSize]string

// Filled returns the number of non-empty positions.
func (p Panel) Filled() int {
	n := 0
	for _, userId := range p {
		if strings.TrimSpace(userId) != "" {
			n++
		}
	}
	return n
}

type Match struct {
	MatchId          string          `dynamodbav:"match_id"`
	TournamentId     string          `dynamodbav:"tournament_id"`
	Order            *float64        `dynamodbav:"order,omitempty"`
	CompetitionType  CompetitionType `dynamodbav:"competition_type"`
	PerformanceId    string          `dynamodbav:"performance_id"`
	ParticipantIds   []string        `dynamodbav:"participant_ids"`
	ParticipantNames []string        `dynamodbav:"participant_names"`
	TimerSeconds     int             `dynamodbav:"timer_seconds"`
	VenueId          string          `dynamodbav:"venue_id"`
	VenueLabel       string          `dynamodbav:"venue_label"`
	Status           MatchStatus     `dynamodbav:"status"`
	CategoryId       string          `dynamodbav:"category_id"`
	CategoryName     string          `dynamodbav:"category_name"`
	SubItemId        string          `dynamodbav:"sub_item_id"`
	SubItemName      string          `dynamodbav:"sub_item_name"`
	MusicPieceId     string          `dynamodbav:"music_piece_id"`
	MusicPieceName   string          `dynamodbav:"music_piece_name"`
	Gender           Gender          `dynamodbav:"gender"`
	IsTeam           bool            `dynamodbav:"is_team"`
	TeamName         string          `dynamodbav:"team_name"`
	Version          int64           `dynamodbav:"version"`
	CreatedAt        time.Time       `dynamodbav:"created_at"`
	UpdatedAt        time.Time       `dynamodbav:"updated_at"`

	// Client-side state, never persisted.
	Assessors       Panel       `dynamodbav:"-"`
	Ordinal         int         `dynamodbav:"-"`
	ContentOrdinal  int         `dynamodbav:"-"`
	Seq             int         `dynamodbav:"-"`
	RequestedStatus MatchStatus `dynamodbav:"-"`
	Placeholder     bool        `dynamodbav:"-"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`

	GSI1PK string `dynamodbav:"GSI1PK"`
	GSI1SK string `dynamodbav:"GSI1SK"`
}

// ContentName is the most specific content label relevant to the match type.
func (m *Match) ContentName() string {
	if m.CompetitionType == CompetitionMusic {
		return m.MusicPieceName
	}
	if m.SubItemName != "" {
		return m.SubItemName
	}
	return m.CategoryName
}

// ContentKey is the content-grouping key of the match. Records without content
// ids fall back to their content names; a match with neither has no key.
func (m *Match) ContentKey() string {
	if key := ContentGroupKey(m.CompetitionType, m.CategoryId, m.SubItemId, m.MusicPieceId); key != "" {
		return key
	}
	if m.CompetitionType == CompetitionMusic {
		return ContentGroupKey(m.CompetitionType, "", "", nameKey(m.MusicPieceName))
	}
	return ContentGroupKey(m.CompetitionType, nameKey(m.CategoryName), nameKey(m.SubItemName), "")
}

func nameKey(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	if name == "" {
		return ""
	}
	return "name:" + name
}

// ContentGroupKey joins the content ids relevant to the competition type.
func ContentGroupKey(competitionType CompetitionType, categoryId, subItemId, musicPieceId string) string {
	if competitionType == CompetitionMusic {
		if musicPieceId == "" {
			return ""
		}
		return string(competitionType) + "|" + musicPieceId
	}
	if categoryId == "" {
		return ""
	}
	return string(competitionType) + "|" + categoryId + "|" + subItemId
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (m Match) Clone() Match {
	clone := m
	if m.Order != nil {
		order := *m.Order
		clone.Order = &order
	}
	if m.ParticipantIds != nil {
		clone.ParticipantIds = append([]string(nil), m.ParticipantIds...)
	}
	if m.ParticipantNames != nil {
		clone.ParticipantNames = append([]string(nil), m.ParticipantNames...)
	}
	return clone
}

// Key handlers

func MatchSK(matchId string) string {
	return fmt.Sprintf("MATCH#%s", matchId)
}

func MatchSKPrefix() string {
	return "MATCH#"
}

func PerformanceGSI1PK(performanceId string) string {
	return fmt.Sprintf("PERFORMANCE#%s", performanceId)
}

// ScopeContent drops content ids and names that do not apply to the match type.
func (m *Match) ScopeContent() {
	if m.CompetitionType == CompetitionMusic {
		m.CategoryId, m.CategoryName = "", ""
		m.SubItemId, m.SubItemName = "", ""
		return
	}
	m.MusicPieceId, m.MusicPieceName = "", ""
}

// PerformanceMatchSK keys the guard row that keeps one match per performance.
func PerformanceMatchSK(performanceId string) string {
	return fmt.Sprintf("PERFORMANCE_MATCH#%s", performanceId)
}
