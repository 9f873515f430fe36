package catalog

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
)

// Source is the read side of the tournament and content repositories.
type Source interface {
	GetTournament(ctx context.Context, tournamentId string) (*models.Tournament, error)
	ListCategories(ctx context.Context, competitionType models.CompetitionType) ([]models.ContentCategory, error)
	ListSubItems(ctx context.Context) ([]models.ContentSubItem, error)
	ListMusicPieces(ctx context.Context) ([]models.MusicPiece, error)
}

// Catalog caches one Snapshot per tournament until Refresh is called.
type Catalog struct {
	source Source
	logger *logger.Logger

	mu        sync.Mutex
	snapshots map[string]*Snapshot
}

func New(source Source, log *logger.Logger) *Catalog {
	return &Catalog{
		source:    source,
		logger:    log.Component("content-catalog"),
		snapshots: make(map[string]*Snapshot),
	}
}

// Load returns the cached snapshot of the tournament or fetches it.
func (c *Catalog) Load(ctx context.Context, tournamentId string) *Snapshot {
	c.mu.Lock()
	snapshot, ok := c.snapshots[tournamentId]
	c.mu.Unlock()
	if ok {
		return snapshot
	}
	return c.Refresh(ctx, tournamentId)
}

// Refresh fetches the tournament detail and all content catalogs concurrently.
// A failed fetch is logged and degrades to an empty list.
func (c *Catalog) Refresh(ctx context.Context, tournamentId string) *Snapshot {
	var (
		tournament  *models.Tournament
		formsCats   []models.ContentCategory
		musicCats   []models.ContentCategory
		subItems    []models.ContentSubItem
		musicPieces []models.MusicPiece
	)

	g, gCtx := errgroup.WithContext(ctx)

	if tournamentId != "" {
		g.Go(func() error {
			t, err := c.source.GetTournament(gCtx, tournamentId)
			if err != nil {
				c.transient("tournament detail", tournamentId, err)
				return nil
			}
			tournament = t
			return nil
		})
	}
	g.Go(func() error {
		cats, err := c.source.ListCategories(gCtx, models.CompetitionForms)
		if err != nil {
			c.transient("forms categories", tournamentId, err)
			return nil
		}
		formsCats = cats
		return nil
	})
	g.Go(func() error {
		cats, err := c.source.ListCategories(gCtx, models.CompetitionMusic)
		if err != nil {
			c.transient("music categories", tournamentId, err)
			return nil
		}
		musicCats = cats
		return nil
	})
	g.Go(func() error {
		items, err := c.source.ListSubItems(gCtx)
		if err != nil {
			c.transient("sub-items", tournamentId, err)
			return nil
		}
		subItems = items
		return nil
	})
	g.Go(func() error {
		pieces, err := c.source.ListMusicPieces(gCtx)
		if err != nil {
			c.transient("music pieces", tournamentId, err)
			return nil
		}
		musicPieces = pieces
		return nil
	})

	// Every goroutine swallows its own error, Wait only synchronizes.
	_ = g.Wait()

	snapshot := newSnapshot(tournament, append(formsCats, musicCats...), subItems, musicPieces)

	c.mu.Lock()
	c.snapshots[tournamentId] = snapshot
	c.mu.Unlock()

	c.logger.Debug("Content catalog loaded",
		"tournament_id", tournamentId,
		"categories", len(snapshot.categories),
		"sub_items", len(snapshot.subItems),
		"music_pieces", len(snapshot.musicPieces),
	)
	return snapshot
}

func (c *Catalog) transient(what, tournamentId string, err error) {
	c.logger.Warn("Content fetch failed, continuing with empty result",
		"what", what,
		"tournament_id", tournamentId,
		"error", apperrors.Wrap(err, apperrors.CodeTransientFetch, "failed to fetch "+what),
	)
}
