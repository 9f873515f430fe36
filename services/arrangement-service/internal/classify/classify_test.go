package classify

import (
	"testing"

	"github.com/burakmert236/arrangement/common/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Quyền Đồng Đội", "quyen dong doi"},
		{"  Tập thể - Nữ ", "tap the nu"},
		{"Crème/Brûlée", "creme brulee"},
		{"Paired_Forms 2", "paired forms 2"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		in   Input
		want Result
	}{
		{
			name: "entry metadata wins over team text",
			in:   Input{CompetitionType: models.CompetitionForms, EntryParticipants: 1, CategoryParticipants: 3, SubItemName: "Group routine"},
			want: Result{Team: false, Source: SourceEntryMetadata},
		},
		{
			name: "entry metadata team",
			in:   Input{CompetitionType: models.CompetitionForms, EntryParticipants: 2},
			want: Result{Team: true, Source: SourceEntryMetadata},
		},
		{
			name: "category metadata when entry unknown",
			in:   Input{CompetitionType: models.CompetitionForms, CategoryParticipants: 4, SubItemName: "Solo"},
			want: Result{Team: true, Source: SourceCategoryMetadata},
		},
		{
			name: "heuristic team token",
			in:   Input{CompetitionType: models.CompetitionForms, CategoryName: "Quyền", SubItemName: "Đồng đội nam"},
			want: Result{Team: true, Source: SourceHeuristic},
		},
		{
			name: "heuristic individual token beats team token",
			in:   Input{CompetitionType: models.CompetitionForms, CategoryName: "Team forms", SubItemName: "Individual"},
			want: Result{Team: false, Source: SourceHeuristic},
		},
		{
			name: "heuristic without tokens is individual",
			in:   Input{CompetitionType: models.CompetitionForms, CategoryName: "Long fist"},
			want: Result{Team: false, Source: SourceHeuristic},
		},
		{
			name: "music performers per entry",
			in:   Input{CompetitionType: models.CompetitionMusic, EntryParticipants: 6, CategoryParticipants: 1},
			want: Result{Team: true, Source: SourceEntryMetadata},
		},
		{
			name: "music ignores category metadata",
			in:   Input{CompetitionType: models.CompetitionMusic, CategoryParticipants: 5, MusicPieceName: "Solo piece"},
			want: Result{Team: false, Source: SourceHeuristic},
		},
		{
			name: "music text heuristic",
			in:   Input{CompetitionType: models.CompetitionMusic, MusicPieceName: "Võ nhạc tập thể"},
			want: Result{Team: true, Source: SourceHeuristic},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.in)
			if got != tt.want {
				t.Fatalf("Classify = %+v, want %+v", got, tt.want)
			}
			if again := Classify(tt.in); again != got {
				t.Fatalf("Classify is not stable: %+v then %+v", got, again)
			}
		})
	}
}

func TestIsTeamHeader(t *testing.T) {
	tests := []struct {
		name string
		p    models.Participant
		want bool
	}{
		{"team marker domain", models.Participant{Name: "Dragons", Email: "dragons@Team.Local"}, true},
		{"name equals team name", models.Participant{Name: "Đội Rồng", TeamName: "doi rong"}, true},
		{"member", models.Participant{Name: "An", TeamName: "Dragons", Email: "an@school.edu"}, false},
		{"no team", models.Participant{Name: "An"}, false},
		{"domain suffix only", models.Participant{Name: "An", Email: "an@notteam.local"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTeamHeader(tt.p, "@team.local"); got != tt.want {
				t.Fatalf("IsTeamHeader = %v, want %v", got, tt.want)
			}
		})
	}
}
