package athletecache

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/filter"
)

type Fetcher interface {
	ListParticipants(ctx context.Context, query models.ParticipantQuery) ([]models.Participant, error)
}

// Key identifies one filtered participant query.
type Key struct {
	TournamentId    string
	CompetitionType models.CompetitionType
	Gender          models.Gender
	CategoryId      string
	SubItemId       string
}

func KeyFor(s filter.State) Key {
	return Key{
		TournamentId:    s.TournamentId,
		CompetitionType: s.CompetitionType,
		Gender:          s.Gender,
		CategoryId:      s.CategoryId,
		SubItemId:       s.SubItemId,
	}
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s", k.TournamentId, k.CompetitionType, k.Gender, k.CategoryId, k.SubItemId)
}

func (k Key) Query() models.ParticipantQuery {
	return models.ParticipantQuery{
		TournamentId:    k.TournamentId,
		CompetitionType: k.CompetitionType,
		Gender:          k.Gender,
		CategoryId:      k.CategoryId,
		SubItemId:       k.SubItemId,
	}
}

type Result struct {
	Rows []models.Participant
	// Hit is true when no fetch was made.
	Hit bool
	// Stale is true when a newer Resolve started while this fetch was in flight;
	// Rows are then not applied to the active view.
	Stale bool
}

// Cache memoizes participant queries and tracks the rows of the active view.
// Entries are only replaced by a newer fetch of the same key or by Invalidate.
type Cache struct {
	fetcher Fetcher
	logger  *logger.Logger
	group   singleflight.Group

	mu         sync.Mutex
	entries    map[Key][]models.Participant
	generation uint64
	activeKey  Key
	activeRows []models.Participant
}

func New(fetcher Fetcher, log *logger.Logger) *Cache {
	return &Cache{
		fetcher: fetcher,
		logger:  log.Component("athlete-cache"),
		entries: make(map[Key][]models.Participant),
	}
}

// Lookup returns cached rows without fetching.
func (c *Cache) Lookup(key Key) ([]models.Participant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rows, ok := c.entries[key]
	return rows, ok
}

// Resolve makes key the active one. A cache hit is committed before returning
// and without any suspension; a miss fetches and applies the rows only if no
// later Resolve happened meanwhile.
func (c *Cache) Resolve(ctx context.Context, key Key) Result {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.activeKey = key
	if rows, ok := c.entries[key]; ok {
		c.activeRows = rows
		c.mu.Unlock()
		return Result{Rows: rows, Hit: true}
	}
	c.mu.Unlock()

	return c.fetch(ctx, key, generation)
}

// Refresh refetches key regardless of the cache, for an explicit operator reload.
func (c *Cache) Refresh(ctx context.Context, key Key) Result {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	c.activeKey = key
	c.mu.Unlock()

	return c.fetch(ctx, key, generation)
}

// SwitchCompetitionType clears the active rows before resolving the new key so
// rows of the previous type are never served while a fetch is in flight.
func (c *Cache) SwitchCompetitionType(ctx context.Context, key Key) Result {
	c.ClearActive()
	return c.Resolve(ctx, key)
}

func (c *Cache) ClearActive() {
	c.mu.Lock()
	c.activeRows = nil
	c.mu.Unlock()
}

// Active returns the rows of the active key.
func (c *Cache) Active() (Key, []models.Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeKey, c.activeRows
}

// Invalidate drops every entry of the tournament.
func (c *Cache) Invalidate(tournamentId string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.TournamentId == tournamentId {
			delete(c.entries, key)
		}
	}
}

func (c *Cache) fetch(ctx context.Context, key Key, generation uint64) Result {
	value, err, _ := c.group.Do(key.String(), func() (interface{}, error) {
		return c.fetcher.ListParticipants(ctx, key.Query())
	})
	if err != nil {
		c.logger.Warn("Participant fetch failed, continuing with empty roster",
			"key", key.String(),
			"error", apperrors.Wrap(err, apperrors.CodeTransientFetch, "failed to fetch participants"),
		)
		value = []models.Participant(nil)
	}
	rows, _ := value.([]models.Participant)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.entries[key] = rows
	}
	if generation != c.generation {
		c.logger.Debug("Discarding superseded participant fetch", "key", key.String())
		return Result{Rows: rows, Stale: true}
	}
	c.activeRows = rows
	return Result{Rows: rows}
}
