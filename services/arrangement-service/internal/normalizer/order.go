package normalizer

import (
	"math"
	"sort"
	"strings"

	"github.com/burakmert236/arrangement/common/models"
)

// Order partitions matches by competition type in the fixed domain sequence,
// sorts each partition and renumbers ordinals from 1. Duplicate ids keep their
// first occurrence. Order(Order(x)) equals Order(x).
func Order(matches []models.Match) []models.Match {
	out := make([]models.Match, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if m.MatchId != "" {
			if seen[m.MatchId] {
				continue
			}
			seen[m.MatchId] = true
		}
		out = append(out, m.Clone())
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})

	ordinals := make(map[models.CompetitionType]int)
	contentOrdinals := make(map[string]int)
	for i := range out {
		m := &out[i]
		ordinals[m.CompetitionType]++
		m.Ordinal = ordinals[m.CompetitionType]

		key := m.ContentKey()
		if key == "" {
			m.ContentOrdinal = m.Ordinal
			continue
		}
		contentOrdinals[key]++
		m.ContentOrdinal = contentOrdinals[key]
	}
	return out
}

func finiteOrder(m *models.Match) (float64, bool) {
	if m.Order == nil || math.IsNaN(*m.Order) || math.IsInf(*m.Order, 0) {
		return 0, false
	}
	return *m.Order, true
}

func less(a, b *models.Match) bool {
	if ra, rb := a.CompetitionType.Rank(), b.CompetitionType.Rank(); ra != rb {
		return ra < rb
	}
	if a.CompetitionType != b.CompetitionType {
		return a.CompetitionType < b.CompetitionType
	}

	oa, hasA := finiteOrder(a)
	ob, hasB := finiteOrder(b)
	switch {
	case hasA && hasB && oa != ob:
		return oa < ob
	case hasA != hasB:
		return hasA
	case !hasA && a.Seq != b.Seq:
		return a.Seq < b.Seq
	}

	na, nb := strings.ToLower(a.ContentName()), strings.ToLower(b.ContentName())
	if na != nb {
		return na < nb
	}
	return a.MatchId < b.MatchId
}

