package models

import "fmt"

type Participant struct {
	ParticipantId   string          `dynamodbav:"participant_id" json:"id"`
	TournamentId    string          `dynamodbav:"tournament_id" json:"tournamentId"`
	Name            string          `dynamodbav:"name" json:"name"`
	Gender          Gender          `dynamodbav:"gender" json:"gender"`
	StudentCode     string          `dynamodbav:"student_code" json:"studentCode"`
	Club            string          `dynamodbav:"club" json:"club"`
	Email           string          `dynamodbav:"email" json:"email"`
	TeamName        string          `dynamodbav:"team_name" json:"teamName"`
	CompetitionType CompetitionType `dynamodbav:"competition_type" json:"competitionType"`
	CategoryId      string          `dynamodbav:"category_id" json:"categoryId"`
	CategoryName    string          `dynamodbav:"category_name" json:"categoryName"`
	SubItemId       string          `dynamodbav:"sub_item_id" json:"subItemId"`
	SubItemName     string          `dynamodbav:"sub_item_name" json:"subItemName"`
	MusicPieceId    string          `dynamodbav:"music_piece_id" json:"musicPieceId"`
	MusicPieceName  string          `dynamodbav:"music_piece_name" json:"musicPieceName"`
	PerformanceId   string          `dynamodbav:"performance_id" json:"performanceId"`

	PK string `dynamodbav:"PK" json:"-"`
	SK string `dynamodbav:"SK" json:"-"`
}

// Key handlers

func ParticipantSK(participantId string) string {
	return fmt.Sprintf("PARTICIPANT#%s", participantId)
}

func ParticipantSKPrefix() string {
	return "PARTICIPANT#"
}
