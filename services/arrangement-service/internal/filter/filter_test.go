package filter

import (
	"testing"

	"github.com/burakmert236/arrangement/common/models"
)

type stubLookup struct {
	requiresSubItem map[string]bool
	names           map[string]string
}

func (s stubLookup) CategoryRequiresSubItem(id string) bool { return s.requiresSubItem[id] }
func (s stubLookup) CategoryName(id string) string          { return s.names[id] }
func (s stubLookup) SubItemName(id string) string           { return s.names[id] }
func (s stubLookup) MusicPieceName(id string) string        { return s.names[id] }

var lookup = stubLookup{
	requiresSubItem: map[string]bool{"cat-team": true},
	names: map[string]string{
		"cat-solo": "Long Fist",
		"cat-team": "Team Forms",
		"sub-pair": "Paired Sword",
		"music-1":  "Dragon Dance",
	},
}

func formsMatch(id string, gender models.Gender) models.Match {
	return models.Match{
		MatchId:         id,
		CompetitionType: models.CompetitionForms,
		CategoryId:      "cat-solo",
		Gender:          gender,
		ParticipantIds:  []string{"p-" + id},
	}
}

func TestPredicateGenderMismatchExcluded(t *testing.T) {
	state := State{CompetitionType: models.CompetitionForms, CategoryId: "cat-solo", Gender: models.GenderFemale}
	pred := Compile(state, lookup)

	a := formsMatch("A", models.GenderMale)
	if pred(&a) {
		t.Fatal("MALE match must be excluded by FEMALE filter")
	}
	b := formsMatch("B", models.GenderFemale)
	if !pred(&b) {
		t.Fatal("FEMALE match should be included")
	}
}

func TestPredicateRequiresSubItem(t *testing.T) {
	matches := []models.Match{
		{MatchId: "1", CompetitionType: models.CompetitionForms, CategoryId: "cat-team", SubItemId: "sub-pair", IsTeam: true},
	}

	tests := []struct {
		name  string
		state State
		want  int
	}{
		{"no category", State{CompetitionType: models.CompetitionForms, TeamMode: TeamModeTeam}, 0},
		{"category without required sub-item", State{CompetitionType: models.CompetitionForms, TeamMode: TeamModeTeam, CategoryId: "cat-team"}, 0},
		{"category and sub-item", State{CompetitionType: models.CompetitionForms, TeamMode: TeamModeTeam, CategoryId: "cat-team", SubItemId: "sub-pair"}, 1},
		{"music without piece", State{CompetitionType: models.CompetitionMusic}, 0},
		{"no competition type", State{CategoryId: "cat-team", SubItemId: "sub-pair"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(Compile(tt.state, lookup), matches)
			if len(got) != tt.want {
				t.Fatalf("visible = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestPredicateTeamMode(t *testing.T) {
	solo := formsMatch("solo", models.GenderMale)
	team := formsMatch("team", models.GenderMale)
	team.IsTeam = true

	base := State{CompetitionType: models.CompetitionForms, CategoryId: "cat-solo"}

	teamOnly := base
	teamOnly.TeamMode = TeamModeTeam
	if Compile(teamOnly, lookup)(&solo) || !Compile(teamOnly, lookup)(&team) {
		t.Fatal("team mode should keep only team matches")
	}

	individualOnly := base
	individualOnly.TeamMode = TeamModeIndividual
	if !Compile(individualOnly, lookup)(&solo) || Compile(individualOnly, lookup)(&team) {
		t.Fatal("individual mode should keep only individual matches")
	}

	if !Compile(base, lookup)(&solo) || !Compile(base, lookup)(&team) {
		t.Fatal("unset team mode imposes no constraint")
	}
}

func TestPredicateNameFallbackForLegacyRecords(t *testing.T) {
	legacy := models.Match{
		MatchId:         "legacy",
		CompetitionType: models.CompetitionMusic,
		MusicPieceName:  "  dragon dance ",
	}
	other := models.Match{
		MatchId:         "other",
		CompetitionType: models.CompetitionMusic,
		MusicPieceId:    "music-2",
		MusicPieceName:  "Dragon Dance",
	}

	pred := Compile(State{CompetitionType: models.CompetitionMusic, MusicPieceId: "music-1"}, lookup)
	if !pred(&legacy) {
		t.Fatal("record without id should match by normalized name")
	}
	if pred(&other) {
		t.Fatal("record with a different id must not match by name")
	}
}

func TestPredicateRejectsOtherCompetitionType(t *testing.T) {
	m := models.Match{CompetitionType: models.CompetitionMusic, CategoryId: "cat-solo"}
	if Compile(State{CompetitionType: models.CompetitionForms, CategoryId: "cat-solo"}, lookup)(&m) {
		t.Fatal("music match must not appear under forms")
	}
}

func TestReduceCompetitionTypeResetsDimensions(t *testing.T) {
	view := NewViewState()
	view = Reduce(view, SelectTournament{TournamentId: "t-1"})
	view = Reduce(view, SetGender{Gender: models.GenderFemale})
	view = Reduce(view, SetTeamMode{Mode: TeamModeTeam})
	view = Reduce(view, SelectCategory{CategoryId: "cat-team"})
	view = Reduce(view, SelectSubItem{SubItemId: "sub-pair"})
	view = Reduce(view, OpenSetup{MatchId: "m-1"})

	switched := Reduce(view, SelectCompetitionType{Type: models.CompetitionMusic})
	want := ViewState{Filter: State{TournamentId: "t-1", CompetitionType: models.CompetitionMusic}}
	if switched != want {
		t.Fatalf("after type switch = %+v, want %+v", switched, want)
	}

	if view.Filter.Gender != models.GenderFemale {
		t.Fatal("Reduce must not modify its input")
	}

	same := Reduce(view, SelectCompetitionType{Type: models.CompetitionForms})
	if same != view {
		t.Fatal("selecting the active type is a no-op")
	}
}

func TestReduceCategoryClearsSubItem(t *testing.T) {
	view := NewViewState()
	view = Reduce(view, SelectCategory{CategoryId: "cat-team"})
	view = Reduce(view, SelectSubItem{SubItemId: "sub-pair"})
	view = Reduce(view, SelectCategory{CategoryId: "cat-team"})
	if view.Filter.SubItemId != "sub-pair" {
		t.Fatal("re-selecting the same category keeps the sub-item")
	}
	view = Reduce(view, SelectCategory{CategoryId: "cat-solo"})
	if view.Filter.SubItemId != "" {
		t.Fatal("changing category must clear the sub-item")
	}
}

func TestReduceDropdownAndSetup(t *testing.T) {
	view := Reduce(NewViewState(), ToggleDropdown{Name: "gender"})
	if view.OpenDropdown != "gender" {
		t.Fatalf("OpenDropdown = %q", view.OpenDropdown)
	}
	view = Reduce(view, SetGender{Gender: models.GenderMale})
	if view.OpenDropdown != "" {
		t.Fatal("choosing a value closes the dropdown")
	}
	view = Reduce(view, OpenSetup{MatchId: "m-9"})
	view = Reduce(view, CloseSetup{})
	if view.SetupMatchId != "" {
		t.Fatal("CloseSetup should clear the setup match")
	}
	if Reduce(view, nil) != view {
		t.Fatal("nil action is a no-op")
	}
}

func TestContentKey(t *testing.T) {
	if (State{CompetitionType: models.CompetitionForms}).ContentKey() != "" {
		t.Fatal("forms without category has no content key")
	}
	if got := (State{CompetitionType: models.CompetitionForms, CategoryId: "c", SubItemId: "s"}).ContentKey(); got != "forms|c|s" {
		t.Fatalf("ContentKey = %q", got)
	}
	if got := (State{CompetitionType: models.CompetitionMusic, MusicPieceId: "m"}).ContentKey(); got != "music|m" {
		t.Fatalf("ContentKey = %q", got)
	}
}
