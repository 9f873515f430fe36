package normalizer

import (
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/classify"
)

// entry is one competing unit: a single participant, or a team header with the
// members that share its performance id.
type entry struct {
	key     string
	header  *models.Participant
	members []models.Participant
}

func (e *entry) performanceId() string {
	if e.header != nil && e.header.PerformanceId != "" {
		return e.header.PerformanceId
	}
	for _, p := range e.members {
		if p.PerformanceId != "" {
			return p.PerformanceId
		}
	}
	return ""
}

// source is the row whose content fields describe the entry.
func (e *entry) source() models.Participant {
	if len(e.members) > 0 {
		return e.members[0]
	}
	if e.header != nil {
		return *e.header
	}
	return models.Participant{}
}

func (e *entry) teamName() string {
	if e.header != nil {
		return firstNonEmpty(e.header.TeamName, e.header.Name)
	}
	for _, p := range e.members {
		if p.TeamName != "" {
			return p.TeamName
		}
	}
	return ""
}

func participantKey(participantId string) string {
	return "participant:" + participantId
}

// groupEntries folds participant rows into entries in first-seen order. Rows
// sharing a performance id form one entry; rows without one stand alone.
func groupEntries(participants []models.Participant, teamEmailDomain string) []*entry {
	entries := make([]*entry, 0, len(participants))
	byKey := make(map[string]*entry, len(participants))
	seen := make(map[string]bool, len(participants))

	for i := range participants {
		p := participants[i]
		if p.ParticipantId != "" {
			if seen[p.ParticipantId] {
				continue
			}
			seen[p.ParticipantId] = true
		}

		key := participantKey(p.ParticipantId)
		if p.PerformanceId != "" {
			key = p.PerformanceId
		}

		e, ok := byKey[key]
		if !ok {
			e = &entry{key: key}
			byKey[key] = e
			entries = append(entries, e)
		}

		if p.PerformanceId != "" && e.header == nil && classify.IsTeamHeader(p, teamEmailDomain) {
			e.header = &p
			continue
		}
		e.members = append(e.members, p)
	}
	return entries
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
