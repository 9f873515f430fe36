package filter

import "github.com/burakmert236/arrangement/common/models"

type TeamMode string

const (
	TeamModeUnset      TeamMode = ""
	TeamModeIndividual TeamMode = "individual"
	TeamModeTeam       TeamMode = "team"
)

// State is the multi-dimensional filter selection of one tournament view.
type State struct {
	TournamentId    string
	CompetitionType models.CompetitionType
	TeamMode        TeamMode
	Gender          models.Gender
	CategoryId      string
	SubItemId       string
	MusicPieceId    string
}

// ViewState is everything the operator view holds besides fetched data.
type ViewState struct {
	Filter       State
	SetupMatchId string
	OpenDropdown string
}

func NewViewState() ViewState {
	return ViewState{Filter: State{CompetitionType: models.CompetitionForms}}
}

// Signature identifies the filter dimensions that shape a participant query.
func (s State) Signature() string {
	return string(s.Gender) + "|" + s.CategoryId + "|" + s.SubItemId
}

// ContentKey is the content-grouping key the filter selects, empty when the
// selection is not specific enough to name one content.
func (s State) ContentKey() string {
	return models.ContentGroupKey(s.CompetitionType, s.CategoryId, s.SubItemId, s.MusicPieceId)
}
