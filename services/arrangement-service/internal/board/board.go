// Package board holds the in-memory match list of one operator view.
package board

import (
	"sync"

	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/normalizer"
)

// Board is safe for concurrent use; status events arrive on subscriber goroutines.
type Board struct {
	mu      sync.RWMutex
	matches []models.Match
	// aliases maps placeholder ids to the id the match was persisted under.
	aliases map[string]string
	// confirmed holds the latest realtime status per performance id.
	confirmed map[string]models.MatchStatus
}

func New() *Board {
	return &Board{
		aliases:   make(map[string]string),
		confirmed: make(map[string]models.MatchStatus),
	}
}

// Replace swaps in a normalized match list. Statuses confirmed by the
// realtime feed win over older ones in matches.
func (b *Board) Replace(matches []models.Match) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches = cloneAll(matches)
	for i := range b.matches {
		m := &b.matches[i]
		status, ok := b.confirmed[m.PerformanceId]
		if !ok || m.PerformanceId == "" {
			continue
		}
		m.Status = models.LaterStatus(models.ParseMatchStatus(string(m.Status)), status)
		if m.RequestedStatus == m.Status {
			m.RequestedStatus = ""
		}
	}
}

// Clear empties the board, dropping aliases and confirmed statuses.
func (b *Board) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches = nil
	b.aliases = make(map[string]string)
	b.confirmed = make(map[string]models.MatchStatus)
}

// Resolve returns the current id of a match, following persisted placeholders.
func (b *Board) Resolve(matchId string) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.resolveLocked(matchId)
}

func (b *Board) resolveLocked(matchId string) string {
	for i := 0; i < len(b.aliases); i++ {
		next, ok := b.aliases[matchId]
		if !ok {
			break
		}
		matchId = next
	}
	return matchId
}

// Snapshot returns copies of every match in board order.
func (b *Board) Snapshot() []models.Match {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return cloneAll(b.matches)
}

func (b *Board) Get(matchId string) (models.Match, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	matchId = b.resolveLocked(matchId)
	for _, m := range b.matches {
		if m.MatchId == matchId {
			return m.Clone(), true
		}
	}
	return models.Match{}, false
}

// Update applies fn to the match with the given id and reports whether it existed.
// When fn changes the id (a placeholder was persisted) the old id stays an
// alias of the new one and the board is reordered.
func (b *Board) Update(matchId string, fn func(m *models.Match)) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	matchId = b.resolveLocked(matchId)
	for i := range b.matches {
		if b.matches[i].MatchId != matchId {
			continue
		}
		fn(&b.matches[i])
		if renamed := b.matches[i].MatchId; renamed != matchId {
			b.aliases[matchId] = renamed
			b.matches = normalizer.Order(b.matches)
		}
		return true
	}
	return false
}

// ApplyStatus sets the confirmed status of the match following performanceId.
// A requested status equal to the confirmed one is cleared. Other matches are
// left untouched.
func (b *Board) ApplyStatus(performanceId string, status models.MatchStatus) bool {
	if performanceId == "" {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmed[performanceId] = status

	applied := false
	for i := range b.matches {
		m := &b.matches[i]
		if m.PerformanceId != performanceId {
			continue
		}
		m.Status = status
		if m.RequestedStatus == status {
			m.RequestedStatus = ""
		}
		applied = true
	}
	return applied
}

// Remove drops the match and renumbers the rest.
func (b *Board) Remove(matchId string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	matchId = b.resolveLocked(matchId)

	kept := make([]models.Match, 0, len(b.matches))
	removed := false
	for _, m := range b.matches {
		if m.MatchId == matchId {
			removed = true
			continue
		}
		kept = append(kept, m)
	}
	if removed {
		b.matches = normalizer.Order(kept)
	}
	return removed
}

func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.matches)
}

func cloneAll(matches []models.Match) []models.Match {
	out := make([]models.Match, len(matches))
	for i, m := range matches {
		out[i] = m.Clone()
	}
	return out
}
