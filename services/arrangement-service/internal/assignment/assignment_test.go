package assignment

import (
	"context"
	"errors"
	"testing"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/testsupport"
)

func fullPanel() models.Panel {
	return models.Panel{"u1", "u2", "u3", "u4", "u5"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		panel    models.Panel
		wantCode string
	}{
		{name: "full and distinct", panel: fullPanel()},
		{name: "empty position", panel: models.Panel{"u1", "u2", "", "u4", "u5"}, wantCode: apperrors.CodeIncompletePanel},
		{name: "blank position", panel: models.Panel{"u1", "u2", "u3", "u4", "  "}, wantCode: apperrors.CodeIncompletePanel},
		{name: "duplicate", panel: models.Panel{"u1", "u2", "u3", "u1", "u5"}, wantCode: apperrors.CodeDuplicateAssessor},
		{name: "incomplete wins over duplicate", panel: models.Panel{"u1", "u1", "", "", ""}, wantCode: apperrors.CodeIncompletePanel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := Validate(tt.panel)
			if tt.wantCode == "" {
				if appErr != nil {
					t.Fatalf("unexpected error %v", appErr)
				}
				return
			}
			if appErr == nil || appErr.Code != tt.wantCode {
				t.Fatalf("got %v, want code %s", appErr, tt.wantCode)
			}
			if appErr.Category() != apperrors.CategoryValidation {
				t.Fatalf("category = %s, want %s", appErr.Category(), apperrors.CategoryValidation)
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		panel models.Panel
		want  SetupState
	}{
		{models.Panel{}, Unconfigured},
		{models.Panel{"u1"}, PartiallyConfigured},
		{models.Panel{"u1", "u2", "u3", "u4"}, PartiallyConfigured},
		{fullPanel(), FullyConfigured},
	}
	for _, tt := range tests {
		if got := StateOf(tt.panel); got != tt.want {
			t.Errorf("StateOf(%v) = %s, want %s", tt.panel, got, tt.want)
		}
	}
}

func rows(positions ...int) []models.AssessorAssignment {
	out := make([]models.AssessorAssignment, 0, len(positions))
	for i, p := range positions {
		out = append(out, models.AssessorAssignment{MatchId: "m", UserId: string(rune('a' + i)), Position: p})
	}
	return out
}

func TestNormalizePositions(t *testing.T) {
	tests := []struct {
		name        string
		assignments []models.AssessorAssignment
		want        models.Panel
		wantDropped int
	}{
		{name: "zero based", assignments: rows(0, 1, 2, 3, 4), want: models.Panel{"a", "b", "c", "d", "e"}},
		{name: "one based", assignments: rows(1, 2, 3, 4, 5), want: models.Panel{"a", "b", "c", "d", "e"}},
		{name: "one based partial", assignments: rows(2, 5), want: models.Panel{"", "a", "", "", "b"}},
		{name: "no zero but max below five stays", assignments: rows(1, 3), want: models.Panel{"", "a", "", "b", ""}},
		{name: "zero based with stray five", assignments: rows(0, 5), want: models.Panel{"a"}, wantDropped: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := NormalizePositions(tt.assignments)
			if got != tt.want {
				t.Fatalf("panel = %v, want %v", got, tt.want)
			}
			if len(dropped) != tt.wantDropped {
				t.Fatalf("dropped = %d, want %d", len(dropped), tt.wantDropped)
			}
		})
	}
}

type stubResolver struct {
	calls int
	match *models.Match
	err   *apperrors.AppError
}

func (r *stubResolver) EnsureMatch(ctx context.Context, m *models.Match) (*models.Match, *apperrors.AppError) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return r.match, nil
}

func TestSaveRejectsInvalidPanelWithoutWrites(t *testing.T) {
	store := testsupport.NewStore()
	resolver := &stubResolver{match: &models.Match{MatchId: "m1"}}
	engine := NewEngine(store, resolver, logger.Nop())

	_, appErr := engine.Save(context.Background(), &models.Match{}, models.Panel{"u1"})
	if appErr == nil || appErr.Code != apperrors.CodeIncompletePanel {
		t.Fatalf("got %v, want INCOMPLETE_PANEL", appErr)
	}
	if resolver.calls != 0 || store.TotalWrites() != 0 {
		t.Fatalf("validation must happen before persistence: resolver=%d writes=%d", resolver.calls, store.TotalWrites())
	}
}

func TestSaveReplacesPanel(t *testing.T) {
	store := testsupport.NewStore()
	store.Assignments["m1"] = rows(1, 2, 3, 4, 5)
	resolver := &stubResolver{match: &models.Match{MatchId: "m1", PerformanceId: "p1"}}
	engine := NewEngine(store, resolver, logger.Nop())

	saved, appErr := engine.Save(context.Background(), &models.Match{}, fullPanel())
	if appErr != nil {
		t.Fatalf("unexpected error %v", appErr)
	}
	if saved.Assessors != fullPanel() {
		t.Fatalf("saved panel = %v", saved.Assessors)
	}

	panel, appErr := engine.Load(context.Background(), "m1")
	if appErr != nil {
		t.Fatalf("unexpected error %v", appErr)
	}
	if panel != fullPanel() {
		t.Fatalf("reloaded panel = %v, want %v", panel, fullPanel())
	}
}

func TestSaveSurfacesRepositoryFailure(t *testing.T) {
	store := testsupport.NewStore()
	store.FailOn("ReplacePanel", errors.New("boom"))
	engine := NewEngine(store, &stubResolver{match: &models.Match{MatchId: "m1"}}, logger.Nop())

	_, appErr := engine.Save(context.Background(), &models.Match{}, fullPanel())
	if appErr == nil || appErr.Code != apperrors.CodeDatabaseError {
		t.Fatalf("got %v, want DATABASE_ERROR", appErr)
	}
}

func TestLoadFailureIsTransient(t *testing.T) {
	store := testsupport.NewStore()
	store.FailOn("ListAssignments", errors.New("throttled"))
	engine := NewEngine(store, &stubResolver{}, logger.Nop())

	panel, appErr := engine.Load(context.Background(), "m1")
	if appErr == nil || appErr.Code != apperrors.CodeTransientFetch {
		t.Fatalf("got %v, want TRANSIENT_FETCH", appErr)
	}
	if panel.Filled() != 0 {
		t.Fatalf("failed load returned panel %v", panel)
	}
}

func TestOfficialsFlagsAssigned(t *testing.T) {
	store := testsupport.NewStore()
	store.Officials = []models.Official{
		{UserId: "u2", DisplayName: "binh", Active: true},
		{UserId: "u1", DisplayName: "An", Active: true},
		{UserId: "u9", DisplayName: "Retired", Active: false},
	}
	engine := NewEngine(store, &stubResolver{}, logger.Nop())

	options, appErr := engine.Officials(context.Background(), models.Panel{"", "u2"})
	if appErr != nil {
		t.Fatalf("unexpected error %v", appErr)
	}
	if len(options) != 2 {
		t.Fatalf("got %d officials, want 2", len(options))
	}
	if options[0].UserId != "u1" || options[0].Assigned() {
		t.Fatalf("unexpected first option %+v", options[0])
	}
	if options[1].UserId != "u2" || options[1].Position != 1 {
		t.Fatalf("unexpected second option %+v", options[1])
	}
}
