package models

import (
	"fmt"
	"time"
)

type AssessorAssignment struct {
	MatchId   string    `dynamodbav:"match_id"`
	UserId    string    `dynamodbav:"user_id"`
	Position  int       `dynamodbav:"position"`
	CreatedAt time.Time `dynamodbav:"created_at"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// Key handlers

func MatchPK(matchId string) string {
	return fmt.Sprintf("MATCH#%s", matchId)
}

func PositionSK(position int) string {
	return fmt.Sprintf("POSITION#%d", position)
}

func PositionSKPrefix() string {
	return "POSITION#"
}
