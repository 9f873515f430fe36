package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/google/uuid"

	"github.com/burakmert236/arrangement/common/database"
	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

type PerformanceRepository interface {
	GetPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Performance, error)
	CreatePerformance(ctx context.Context, performance *models.Performance) error
}

type performanceRepo struct {
	db *database.DynamoDBClient
}

func NewPerformanceRepository(db *database.DynamoDBClient) PerformanceRepository {
	return &performanceRepo{db: db}
}

// GetPerformance returns nil without error when the performance does not exist.
func (r *performanceRepo) GetPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Performance, error) {
	result, err := r.db.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.Table()),
		Key:       itemKey(models.TournamentPK(tournamentId), models.PerformanceSK(performanceId)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get performance: %w", err)
	}
	if result.Item == nil {
		return nil, nil
	}

	var performance models.Performance
	if err := attributevalue.UnmarshalMap(result.Item, &performance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal performance: %w", err)
	}
	return &performance, nil
}

func (r *performanceRepo) CreatePerformance(ctx context.Context, performance *models.Performance) error {
	if performance.PerformanceId == "" {
		performance.PerformanceId = uuid.New().String()
	}
	performance.PK = models.TournamentPK(performance.TournamentId)
	performance.SK = models.PerformanceSK(performance.PerformanceId)
	if performance.CreatedAt.IsZero() {
		performance.CreatedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(performance)
	if err != nil {
		return fmt.Errorf("failed to marshal performance: %w", err)
	}

	_, err = r.db.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.db.Table()),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionFailure(err) {
			return apperrors.Wrap(err, apperrors.CodeAlreadyExists, "performance already exists")
		}
		return fmt.Errorf("failed to create performance: %w", err)
	}
	return nil
}
