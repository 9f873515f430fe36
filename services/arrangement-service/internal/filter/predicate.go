package filter

import (
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/classify"
)

// ContentLookup resolves catalog facts the predicate needs.
type ContentLookup interface {
	CategoryRequiresSubItem(categoryId string) bool
	CategoryName(categoryId string) string
	SubItemName(subItemId string) string
	MusicPieceName(musicPieceId string) string
}

type Predicate func(m *models.Match) bool

func none(*models.Match) bool { return false }

// Ready reports whether every dimension the selected content requires is set.
// An unready filter shows nothing rather than an unscoped list.
func Ready(s State, lookup ContentLookup) bool {
	switch s.CompetitionType {
	case models.CompetitionMusic:
		return s.MusicPieceId != ""
	case models.CompetitionForms:
		if s.CategoryId == "" {
			return false
		}
		if lookup != nil && lookup.CategoryRequiresSubItem(s.CategoryId) && s.SubItemId == "" {
			return false
		}
		return true
	default:
		return false
	}
}

// Compile builds the match predicate for s. Unset dimensions impose no constraint.
func Compile(s State, lookup ContentLookup) Predicate {
	if !Ready(s, lookup) {
		return none
	}

	var categoryName, subItemName, musicName string
	if lookup != nil {
		categoryName = classify.Normalize(lookup.CategoryName(s.CategoryId))
		subItemName = classify.Normalize(lookup.SubItemName(s.SubItemId))
		musicName = classify.Normalize(lookup.MusicPieceName(s.MusicPieceId))
	}

	return func(m *models.Match) bool {
		if m == nil || m.CompetitionType != s.CompetitionType {
			return false
		}

		switch s.TeamMode {
		case TeamModeTeam:
			if !m.IsTeam {
				return false
			}
		case TeamModeIndividual:
			if m.IsTeam {
				return false
			}
		}

		if s.Gender != models.GenderUnset && m.Gender != s.Gender {
			return false
		}

		if s.CompetitionType == models.CompetitionMusic {
			return contentMatches(s.MusicPieceId, musicName, m.MusicPieceId, m.MusicPieceName)
		}
		if !contentMatches(s.CategoryId, categoryName, m.CategoryId, m.CategoryName) {
			return false
		}
		return contentMatches(s.SubItemId, subItemName, m.SubItemId, m.SubItemName)
	}
}

// contentMatches compares ids, falling back to names when the record has no id.
func contentMatches(wantId, wantName, gotId, gotName string) bool {
	if wantId == "" {
		return true
	}
	if gotId != "" {
		return gotId == wantId
	}
	return wantName != "" && classify.Normalize(gotName) == wantName
}

// Apply returns the matches accepted by p, preserving order.
func Apply(p Predicate, matches []models.Match) []models.Match {
	visible := make([]models.Match, 0, len(matches))
	for i := range matches {
		if p(&matches[i]) {
			visible = append(visible, matches[i])
		}
	}
	return visible
}
