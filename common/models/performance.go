package models

import (
	"fmt"
	"time"
)

type Performance struct {
	PerformanceId   string          `dynamodbav:"performance_id"`
	TournamentId    string          `dynamodbav:"tournament_id"`
	TeamName        string          `dynamodbav:"team_name"`
	ParticipantIds  []string        `dynamodbav:"participant_ids"`
	CompetitionType CompetitionType `dynamodbav:"competition_type"`
	CategoryId      string          `dynamodbav:"category_id"`
	SubItemId       string          `dynamodbav:"sub_item_id"`
	MusicPieceId    string          `dynamodbav:"music_piece_id"`
	Gender          Gender          `dynamodbav:"gender"`
	CreatedAt       time.Time       `dynamodbav:"created_at"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// Key handlers

func PerformanceSK(performanceId string) string {
	return fmt.Sprintf("PERFORMANCE#%s", performanceId)
}
