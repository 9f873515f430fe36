package models

import (
	"fmt"
	"time"
)

type Tournament struct {
	TournamentId         string    `dynamodbav:"tournament_id"`
	Name                 string    `dynamodbav:"name"`
	AllowedCategoryIds   []string  `dynamodbav:"allowed_category_ids"`
	AllowedSubItemIds    []string  `dynamodbav:"allowed_sub_item_ids"`
	AllowedMusicPieceIds []string  `dynamodbav:"allowed_music_piece_ids"`
	StartsAt             time.Time `dynamodbav:"starts_at"`
	CreatedAt            time.Time `dynamodbav:"created_at"`
	UpdatedAt            time.Time `dynamodbav:"updated_at"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`

	GSI1PK string `dynamodbav:"GSI1PK"`
	GSI1SK string `dynamodbav:"GSI1SK"`
}

// Key handlers
func TournamentPK(tournamentID string) string {
	return fmt.Sprintf("TOURNAMENT#%s", tournamentID)
}

func MetaSK() string {
	return "META"
}

func TournamentListGSI1PK() string {
	return "TOURNAMENTS"
}

func StartTimeGSI1SK(startTime string) string {
	return fmt.Sprintf("START#%s", startTime)
}

func ExtractTournamentID(pk string) (string, error) {
	if len(pk) < 12 || pk[:11] != "TOURNAMENT#" {
		return "", fmt.Errorf("invalid tournament PK format: %s", pk)
	}
	return pk[11:], nil
}
