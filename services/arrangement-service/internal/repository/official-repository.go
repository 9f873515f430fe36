package repository

import (
	"context"
	"fmt"

	"github.com/burakmert236/arrangement/common/database"
	"github.com/burakmert236/arrangement/common/models"
)

type OfficialRepository interface {
	ListOfficials(ctx context.Context) ([]models.Official, error)
}

type officialRepo struct {
	db *database.DynamoDBClient
}

func NewOfficialRepository(db *database.DynamoDBClient) OfficialRepository {
	return &officialRepo{db: db}
}

func (r *officialRepo) ListOfficials(ctx context.Context) ([]models.Official, error) {
	items, err := queryPrefix(ctx, r.db, models.OfficialsPK(), "USER#")
	if err != nil {
		return nil, fmt.Errorf("failed to list officials: %w", err)
	}

	officials, err := unmarshalAll[models.Official](items, "official")
	if err != nil {
		return nil, err
	}
	for i := range officials {
		if officials[i].UserId == "" {
			if id, err := models.ExtractUserID(officials[i].SK); err == nil {
				officials[i].UserId = id
			}
		}
	}
	return officials, nil
}
