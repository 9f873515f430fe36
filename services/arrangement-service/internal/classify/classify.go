package classify

import (
	"strings"

	"github.com/burakmert236/arrangement/common/models"
)

type Source string

const (
	SourceEntryMetadata    Source = "entry-metadata"
	SourceCategoryMetadata Source = "category-metadata"
	SourceHeuristic        Source = "text-heuristic"
)

type Input struct {
	CompetitionType models.CompetitionType
	// EntryParticipants is participants-per-entry of the sub-item, or
	// performers-per-entry of the music piece. Zero means unknown.
	EntryParticipants int
	// CategoryParticipants is participants-per-entry configured on the category.
	CategoryParticipants int
	CategoryName         string
	SubItemName          string
	MusicPieceName       string
}

type Result struct {
	Team   bool
	Source Source
}

var (
	teamTokens = []string{
		"team", "group", "paired", "pair", "pairs", "duo", "trio", "synchronized",
		"doi", "dong doi", "tap the", "dong dien", "song luyen", "da luyen",
	}
	individualTokens = []string{
		"individual", "solo", "single", "ca nhan", "don", "don luyen",
	}
)

// Classify decides team vs individual. It is pure: the same Input always yields
// the same Result.
func Classify(in Input) Result {
	if in.EntryParticipants > 0 {
		return Result{Team: in.EntryParticipants > 1, Source: SourceEntryMetadata}
	}
	if in.CompetitionType != models.CompetitionMusic && in.CategoryParticipants > 0 {
		return Result{Team: in.CategoryParticipants > 1, Source: SourceCategoryMetadata}
	}
	return Result{Team: textIndicatesTeam(heuristicText(in)), Source: SourceHeuristic}
}

func heuristicText(in Input) string {
	parts := []string{in.CategoryName, in.SubItemName}
	if in.CompetitionType == models.CompetitionMusic {
		parts = []string{in.MusicPieceName, in.CategoryName}
	}
	return Normalize(strings.Join(parts, " "))
}

func textIndicatesTeam(text string) bool {
	if text == "" {
		return false
	}
	for _, token := range individualTokens {
		if containsToken(text, token) {
			return false
		}
	}
	for _, token := range teamTokens {
		if containsToken(text, token) {
			return true
		}
	}
	return false
}

// IsTeamHeader reports whether a participant row stands for a whole team: its
// email uses the team-marker domain, or its declared team name is its own name.
func IsTeamHeader(p models.Participant, teamEmailDomain string) bool {
	domain := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(teamEmailDomain), "@"))
	if domain != "" {
		email := strings.ToLower(strings.TrimSpace(p.Email))
		if at := strings.LastIndexByte(email, '@'); at >= 0 && email[at+1:] == domain {
			return true
		}
	}
	team := Normalize(p.TeamName)
	return team != "" && team == Normalize(p.Name)
}
