package models

import "fmt"

type ContentCategory struct {
	CategoryId           string          `dynamodbav:"category_id"`
	Name                 string          `dynamodbav:"name"`
	CompetitionType      CompetitionType `dynamodbav:"competition_type"`
	ParticipantsPerEntry int             `dynamodbav:"participants_per_entry"`
	RequiresSubItem      bool            `dynamodbav:"requires_sub_item"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

type ContentSubItem struct {
	SubItemId            string `dynamodbav:"sub_item_id"`
	CategoryId           string `dynamodbav:"category_id"`
	Name                 string `dynamodbav:"name"`
	ParticipantsPerEntry int    `dynamodbav:"participants_per_entry"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

type MusicPiece struct {
	MusicPieceId       string `dynamodbav:"music_piece_id"`
	Name               string `dynamodbav:"name"`
	PerformersPerEntry int    `dynamodbav:"performers_per_entry"`

	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
}

// Key handlers

func ContentPK(competitionType CompetitionType) string {
	return fmt.Sprintf("CONTENT#%s", competitionType)
}

func CategorySK(categoryId string) string {
	return fmt.Sprintf("CATEGORY#%s", categoryId)
}

func SubItemSK(subItemId string) string {
	return fmt.Sprintf("SUBITEM#%s", subItemId)
}

func MusicPieceSK(musicPieceId string) string {
	return fmt.Sprintf("MUSIC#%s", musicPieceId)
}

const (
	CategorySKPrefix   = "CATEGORY#"
	SubItemSKPrefix    = "SUBITEM#"
	MusicPieceSKPrefix = "MUSIC#"
)
