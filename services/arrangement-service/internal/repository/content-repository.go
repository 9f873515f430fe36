package repository

import (
	"context"
	"fmt"

	"github.com/burakmert236/arrangement/common/database"
	"github.com/burakmert236/arrangement/common/models"
)

type ContentRepository interface {
	ListCategories(ctx context.Context, competitionType models.CompetitionType) ([]models.ContentCategory, error)
	ListSubItems(ctx context.Context) ([]models.ContentSubItem, error)
	ListMusicPieces(ctx context.Context) ([]models.MusicPiece, error)
}

type contentRepo struct {
	db *database.DynamoDBClient
}

func NewContentRepository(db *database.DynamoDBClient) ContentRepository {
	return &contentRepo{db: db}
}

func (r *contentRepo) ListCategories(ctx context.Context, competitionType models.CompetitionType) ([]models.ContentCategory, error) {
	items, err := queryPrefix(ctx, r.db, models.ContentPK(competitionType), models.CategorySKPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s categories: %w", competitionType, err)
	}

	categories, err := unmarshalAll[models.ContentCategory](items, "category")
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].CompetitionType == "" {
			categories[i].CompetitionType = competitionType
		}
	}
	return categories, nil
}

// Sub-items only exist for forms categories.
func (r *contentRepo) ListSubItems(ctx context.Context) ([]models.ContentSubItem, error) {
	items, err := queryPrefix(ctx, r.db, models.ContentPK(models.CompetitionForms), models.SubItemSKPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub-items: %w", err)
	}
	return unmarshalAll[models.ContentSubItem](items, "sub-item")
}

func (r *contentRepo) ListMusicPieces(ctx context.Context) ([]models.MusicPiece, error) {
	items, err := queryPrefix(ctx, r.db, models.ContentPK(models.CompetitionMusic), models.MusicPieceSKPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list music pieces: %w", err)
	}
	return unmarshalAll[models.MusicPiece](items, "music piece")
}
