package catalog

import (
	"sort"
	"strings"

	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/classify"
)

// Snapshot is an immutable view of the content a tournament allows.
type Snapshot struct {
	tournament  *models.Tournament
	categories  map[string]models.ContentCategory
	subItems    map[string]models.ContentSubItem
	musicPieces map[string]models.MusicPiece
	children    map[string][]string
}

func newSnapshot(
	tournament *models.Tournament,
	categories []models.ContentCategory,
	subItems []models.ContentSubItem,
	musicPieces []models.MusicPiece,
) *Snapshot {
	var allowedCats, allowedSubs, allowedMusic map[string]bool
	if tournament != nil {
		allowedCats = toSet(tournament.AllowedCategoryIds)
		allowedSubs = toSet(tournament.AllowedSubItemIds)
		allowedMusic = toSet(tournament.AllowedMusicPieceIds)
	}

	s := &Snapshot{
		tournament:  tournament,
		categories:  make(map[string]models.ContentCategory),
		subItems:    make(map[string]models.ContentSubItem),
		musicPieces: make(map[string]models.MusicPiece),
		children:    make(map[string][]string),
	}
	for _, c := range categories {
		if allowed(allowedCats, c.CategoryId) {
			s.categories[c.CategoryId] = c
		}
	}
	for _, item := range subItems {
		if _, ok := s.categories[item.CategoryId]; !ok {
			continue
		}
		if allowed(allowedSubs, item.SubItemId) {
			s.subItems[item.SubItemId] = item
			s.children[item.CategoryId] = append(s.children[item.CategoryId], item.SubItemId)
		}
	}
	for _, piece := range musicPieces {
		if allowed(allowedMusic, piece.MusicPieceId) {
			s.musicPieces[piece.MusicPieceId] = piece
		}
	}
	return s
}

// NewSnapshot builds a snapshot from already fetched data.
func NewSnapshot(
	tournament *models.Tournament,
	categories []models.ContentCategory,
	subItems []models.ContentSubItem,
	musicPieces []models.MusicPiece,
) *Snapshot {
	return newSnapshot(tournament, categories, subItems, musicPieces)
}

func toSet(ids []string) map[string]bool {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// allowed treats a tournament without an allow-list as allowing everything.
func allowed(set map[string]bool, id string) bool {
	return set == nil || set[id]
}

func (s *Snapshot) Tournament() *models.Tournament {
	return s.tournament
}

func (s *Snapshot) Category(id string) (models.ContentCategory, bool) {
	c, ok := s.categories[id]
	return c, ok
}

func (s *Snapshot) SubItem(id string) (models.ContentSubItem, bool) {
	item, ok := s.subItems[id]
	return item, ok
}

func (s *Snapshot) MusicPiece(id string) (models.MusicPiece, bool) {
	piece, ok := s.musicPieces[id]
	return piece, ok
}

// Categories lists the allowed categories of one competition type by name.
func (s *Snapshot) Categories(competitionType models.CompetitionType) []models.ContentCategory {
	out := make([]models.ContentCategory, 0)
	for _, c := range s.categories {
		if c.CompetitionType == competitionType {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *Snapshot) SubItems(categoryId string) []models.ContentSubItem {
	out := make([]models.ContentSubItem, 0, len(s.children[categoryId]))
	for _, id := range s.children[categoryId] {
		out = append(out, s.subItems[id])
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (s *Snapshot) MusicPieces() []models.MusicPiece {
	out := make([]models.MusicPiece, 0, len(s.musicPieces))
	for _, piece := range s.musicPieces {
		out = append(out, piece)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// CategoryRequiresSubItem reports whether a sub-item must be picked under
// categoryId. A category the snapshot does not know is never treated as ready.
func (s *Snapshot) CategoryRequiresSubItem(categoryId string) bool {
	c, ok := s.categories[categoryId]
	if !ok {
		return true
	}
	return c.RequiresSubItem || len(s.children[categoryId]) > 0
}

func (s *Snapshot) CategoryName(id string) string {
	return s.categories[id].Name
}

func (s *Snapshot) SubItemName(id string) string {
	return s.subItems[id].Name
}

func (s *Snapshot) MusicPieceName(id string) string {
	return s.musicPieces[id].Name
}

// ClassifyInput assembles the classification input for a content selection,
// filling names from the catalog when the record has none.
func (s *Snapshot) ClassifyInput(
	competitionType models.CompetitionType,
	categoryId, subItemId, musicPieceId string,
	categoryName, subItemName, musicPieceName string,
) classify.Input {
	in := classify.Input{
		CompetitionType: competitionType,
		CategoryName:    firstNonEmpty(categoryName, s.CategoryName(categoryId)),
		SubItemName:     firstNonEmpty(subItemName, s.SubItemName(subItemId)),
		MusicPieceName:  firstNonEmpty(musicPieceName, s.MusicPieceName(musicPieceId)),
	}
	if c, ok := s.categories[categoryId]; ok {
		in.CategoryParticipants = c.ParticipantsPerEntry
	}
	switch competitionType {
	case models.CompetitionMusic:
		if piece, ok := s.musicPieces[musicPieceId]; ok {
			in.EntryParticipants = piece.PerformersPerEntry
		}
	default:
		if item, ok := s.subItems[subItemId]; ok {
			in.EntryParticipants = item.ParticipantsPerEntry
		}
	}
	return in
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Empty is a snapshot with no content, used before a tournament is selected.
func Empty() *Snapshot {
	return newSnapshot(nil, nil, nil, nil)
}
