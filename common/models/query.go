package models

// ParticipantQuery filters the participant roster of one tournament.
// Empty fields impose no constraint.
type ParticipantQuery struct {
	TournamentId    string
	CompetitionType CompetitionType
	Gender          Gender
	CategoryId      string
	SubItemId       string
}
