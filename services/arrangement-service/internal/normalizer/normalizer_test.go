package normalizer

import (
	"reflect"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
)

func order(v float64) *float64 { return &v }

func formsMatch(id string, ord *float64, seq int, category string) models.Match {
	return models.Match{
		MatchId:         id,
		CompetitionType: models.CompetitionForms,
		Order:           ord,
		Seq:             seq,
		CategoryId:      category,
		CategoryName:    category,
		ParticipantIds:  []string{"p-" + id},
	}
}

func TestOrderContiguousOrdinals(t *testing.T) {
	tests := []struct {
		name    string
		matches []models.Match
		wantIds []string
	}{
		{
			name: "persisted order wins",
			matches: []models.Match{
				formsMatch("c", order(3), 1, "x"),
				formsMatch("a", order(1), 3, "x"),
				formsMatch("b", order(2), 2, "x"),
			},
			wantIds: []string{"a", "b", "c"},
		},
		{
			name: "sparse and fractional orders",
			matches: []models.Match{
				formsMatch("b", order(10.5), 0, "x"),
				formsMatch("a", order(-2), 0, "x"),
				formsMatch("c", nil, 1, "x"),
			},
			wantIds: []string{"a", "b", "c"},
		},
		{
			name: "duplicate ids keep first",
			matches: []models.Match{
				formsMatch("a", order(1), 0, "x"),
				formsMatch("a", order(5), 0, "x"),
				formsMatch("b", order(1), 0, "x"),
			},
			wantIds: []string{"a", "b"},
		},
		{
			name: "insertion order then content name then id",
			matches: []models.Match{
				formsMatch("z", nil, 2, "Beta"),
				formsMatch("y", nil, 2, "alpha"),
				formsMatch("x", nil, 1, "zeta"),
				formsMatch("w", nil, 2, "Alpha"),
			},
			wantIds: []string{"x", "w", "y", "z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Order(tt.matches)
			ids := make([]string, 0, len(got))
			for i, m := range got {
				ids = append(ids, m.MatchId)
				if m.Ordinal != i+1 {
					t.Fatalf("match %s ordinal = %d, want %d", m.MatchId, m.Ordinal, i+1)
				}
			}
			if !reflect.DeepEqual(ids, tt.wantIds) {
				t.Fatalf("order = %v, want %v", ids, tt.wantIds)
			}
		})
	}
}

func TestOrderPartitionsByType(t *testing.T) {
	music := models.Match{MatchId: "m1", CompetitionType: models.CompetitionMusic, MusicPieceId: "piece", Seq: 1}
	forms := formsMatch("f1", nil, 2, "cat")

	got := Order([]models.Match{music, forms})
	if got[0].MatchId != "f1" || got[1].MatchId != "m1" {
		t.Fatalf("forms must precede music, got %s, %s", got[0].MatchId, got[1].MatchId)
	}
	if got[0].Ordinal != 1 || got[1].Ordinal != 1 {
		t.Fatalf("ordinals restart per type, got %d and %d", got[0].Ordinal, got[1].Ordinal)
	}
}

func TestOrderContentOrdinals(t *testing.T) {
	a1 := formsMatch("a1", order(1), 0, "cat-a")
	b1 := formsMatch("b1", order(2), 0, "cat-b")
	a2 := formsMatch("a2", order(3), 0, "cat-a")
	none := models.Match{MatchId: "n", CompetitionType: models.CompetitionForms, Order: order(4)}

	got := Order([]models.Match{a1, b1, a2, none})
	want := map[string]int{"a1": 1, "b1": 1, "a2": 2, "n": 4}
	for _, m := range got {
		if m.ContentOrdinal != want[m.MatchId] {
			t.Errorf("match %s content ordinal = %d, want %d", m.MatchId, m.ContentOrdinal, want[m.MatchId])
		}
	}
}

func TestOrderIdempotent(t *testing.T) {
	input := []models.Match{
		formsMatch("c", nil, 3, "x"),
		formsMatch("a", order(2), 1, "y"),
		formsMatch("b", nil, 2, "x"),
		{MatchId: "m", CompetitionType: models.CompetitionMusic, MusicPieceId: "p", Seq: 4},
	}
	once := Order(input)
	twice := Order(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("Order is not idempotent:\n%+v\n%+v", once, twice)
	}
}

func participant(id, perf, name, email, team string) models.Participant {
	return models.Participant{
		ParticipantId:   id,
		TournamentId:    "t1",
		Name:            name,
		Email:           email,
		TeamName:        team,
		PerformanceId:   perf,
		CompetitionType: models.CompetitionForms,
		CategoryId:      "cat",
		CategoryName:    "Individual forms",
		Gender:          models.GenderMale,
	}
}

func TestBuildGroupsTeamsAndCreatesPlaceholders(t *testing.T) {
	n := New("team.local", 0, logger.Nop())
	rows := []models.Participant{
		participant("h", "perf-1", "Dragons", "dragons@team.local", "Dragons"),
		participant("m1", "perf-1", "An", "an@x.com", "Dragons"),
		participant("m2", "perf-1", "Binh", "binh@x.com", "Dragons"),
		participant("solo", "", "Chi", "chi@x.com", ""),
	}

	res := n.Build(Input{TournamentId: "t1", Participants: rows})
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(res.Matches))
	}

	team := res.Matches[0]
	if !team.IsTeam || team.TeamName != "Dragons" || team.PerformanceId != "perf-1" {
		t.Fatalf("unexpected team match %+v", team)
	}
	if !reflect.DeepEqual(team.ParticipantIds, []string{"m1", "m2"}) {
		t.Fatalf("team members = %v", team.ParticipantIds)
	}
	if !team.Placeholder || team.Status != models.MatchStatusPending || team.TimerSeconds != models.DefaultTimerSeconds {
		t.Fatalf("placeholder defaults not applied: %+v", team)
	}

	solo := res.Matches[1]
	if solo.IsTeam || solo.PerformanceId != "" || solo.Ordinal != 2 {
		t.Fatalf("unexpected solo match %+v", solo)
	}
}

func TestBuildReusesPersistedAndPlaceholderIds(t *testing.T) {
	n := New("team.local", 0, logger.Nop())
	rows := []models.Participant{
		participant("a", "perf-a", "An", "", ""),
		participant("b", "", "Binh", "", ""),
	}
	persisted := []models.Match{{
		MatchId:         "persisted-1",
		TournamentId:    "t1",
		CompetitionType: models.CompetitionForms,
		PerformanceId:   "perf-a",
		ParticipantIds:  []string{"a"},
		Status:          "finished",
		Version:         3,
	}}

	first := n.Build(Input{TournamentId: "t1", Participants: rows, Persisted: persisted})
	second := n.Build(Input{TournamentId: "t1", Participants: rows, Persisted: persisted, Existing: first.Matches})

	if len(second.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(second.Matches))
	}
	if second.Matches[0].MatchId != "persisted-1" || second.Matches[0].Status != models.MatchStatusCompleted {
		t.Fatalf("persisted match not merged: %+v", second.Matches[0])
	}
	if first.Matches[1].MatchId != second.Matches[1].MatchId {
		t.Fatalf("placeholder id changed between builds: %s != %s", first.Matches[1].MatchId, second.Matches[1].MatchId)
	}
	if !reflect.DeepEqual(first.Matches, second.Matches) {
		t.Fatalf("rebuild is not stable:\n%+v\n%+v", first.Matches, second.Matches)
	}
}

func TestBuildUnresolvedParticipantsFailOpen(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := New("", 0, logger.FromZap(zap.New(core)))

	persisted := []models.Match{{
		MatchId:          "orphan",
		CompetitionType:  models.CompetitionForms,
		PerformanceId:    "perf-x",
		ParticipantIds:   []string{"gone"},
		ParticipantNames: []string{"Stored Name"},
	}}

	res := n.Build(Input{TournamentId: "t1", Persisted: persisted})
	if len(res.Matches) != 1 || res.Unresolved != 1 {
		t.Fatalf("matches = %d unresolved = %d, want 1 and 1", len(res.Matches), res.Unresolved)
	}
	if res.Matches[0].ParticipantNames[0] != "Stored Name" {
		t.Fatalf("stored names must be kept, got %v", res.Matches[0].ParticipantNames)
	}
	if logs.FilterMessage("Showing match with unresolved participants").Len() != 1 {
		t.Fatalf("expected an unresolved-participants log line")
	}
}

func TestBuildTemplateMatchesOnlyWithoutTournament(t *testing.T) {
	n := New("", 0, logger.Nop())
	persisted := []models.Match{{MatchId: "template", CompetitionType: models.CompetitionForms}}

	if got := n.Build(Input{Persisted: persisted}).Matches; len(got) != 1 {
		t.Fatalf("template should be shown without tournament, got %d", len(got))
	}
	if got := n.Build(Input{TournamentId: "t1", Persisted: persisted}).Matches; len(got) != 0 {
		t.Fatalf("template should be hidden with tournament, got %d", len(got))
	}
}

func TestBuildLogsHeuristicClassification(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	n := New("", 0, logger.FromZap(zap.New(core)))

	p := participant("a", "", "An", "", "")
	p.CategoryName = "Paired sword"
	res := n.Build(Input{TournamentId: "t1", Participants: []models.Participant{p}})

	if !res.Matches[0].IsTeam {
		t.Fatalf("paired content should classify as team")
	}
	if logs.FilterMessage("Classified match by text heuristic").Len() != 1 {
		t.Fatalf("expected a heuristic classification log line")
	}
}
