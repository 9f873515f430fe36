package filter

import "github.com/burakmert236/arrangement/common/models"

// Action is a single change to the view. All mutations go through Reduce.
type Action interface {
	apply(ViewState) ViewState
}

// Reduce returns the view after applying action. The input is not modified.
func Reduce(view ViewState, action Action) ViewState {
	if action == nil {
		return view
	}
	return action.apply(view)
}

type SelectTournament struct{ TournamentId string }

func (a SelectTournament) apply(v ViewState) ViewState {
	if v.Filter.TournamentId == a.TournamentId {
		return v
	}
	return ViewState{Filter: State{
		TournamentId:    a.TournamentId,
		CompetitionType: v.Filter.CompetitionType,
	}}
}

// SelectCompetitionType resets every other filter dimension to its default.
type SelectCompetitionType struct{ Type models.CompetitionType }

func (a SelectCompetitionType) apply(v ViewState) ViewState {
	if v.Filter.CompetitionType == a.Type {
		return v
	}
	return ViewState{Filter: State{
		TournamentId:    v.Filter.TournamentId,
		CompetitionType: a.Type,
	}}
}

type SetTeamMode struct{ Mode TeamMode }

func (a SetTeamMode) apply(v ViewState) ViewState {
	v.Filter.TeamMode = a.Mode
	v.OpenDropdown = ""
	return v
}

type SetGender struct{ Gender models.Gender }

func (a SetGender) apply(v ViewState) ViewState {
	v.Filter.Gender = a.Gender
	v.OpenDropdown = ""
	return v
}

// SelectCategory clears the sub-item, which belongs to the previous category.
type SelectCategory struct{ CategoryId string }

func (a SelectCategory) apply(v ViewState) ViewState {
	if v.Filter.CategoryId != a.CategoryId {
		v.Filter.SubItemId = ""
	}
	v.Filter.CategoryId = a.CategoryId
	v.OpenDropdown = ""
	return v
}

type SelectSubItem struct{ SubItemId string }

func (a SelectSubItem) apply(v ViewState) ViewState {
	v.Filter.SubItemId = a.SubItemId
	v.OpenDropdown = ""
	return v
}

type SelectMusicPiece struct{ MusicPieceId string }

func (a SelectMusicPiece) apply(v ViewState) ViewState {
	v.Filter.MusicPieceId = a.MusicPieceId
	v.OpenDropdown = ""
	return v
}

type ToggleDropdown struct{ Name string }

func (a ToggleDropdown) apply(v ViewState) ViewState {
	if v.OpenDropdown == a.Name {
		v.OpenDropdown = ""
	} else {
		v.OpenDropdown = a.Name
	}
	return v
}

type OpenSetup struct{ MatchId string }

func (a OpenSetup) apply(v ViewState) ViewState {
	v.SetupMatchId = a.MatchId
	v.OpenDropdown = ""
	return v
}

type CloseSetup struct{}

func (CloseSetup) apply(v ViewState) ViewState {
	v.SetupMatchId = ""
	return v
}
