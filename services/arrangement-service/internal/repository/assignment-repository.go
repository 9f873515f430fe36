package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/burakmert236/arrangement/common/database"
	"github.com/burakmert236/arrangement/common/models"
)

type AssignmentRepository interface {
	ListAssignments(ctx context.Context, matchId string) ([]models.AssessorAssignment, error)
	ReplacePanel(ctx context.Context, matchId string, assignments []models.AssessorAssignment) error
}

type assignmentRepo struct {
	db *database.DynamoDBClient
}

func NewAssignmentRepository(db *database.DynamoDBClient) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) ListAssignments(ctx context.Context, matchId string) ([]models.AssessorAssignment, error) {
	items, err := queryPrefix(ctx, r.db, models.MatchPK(matchId), models.PositionSKPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return unmarshalAll[models.AssessorAssignment](items, "assignment")
}

// ReplacePanel writes the new assignment set and removes every stored row it
// does not cover, all in one transaction.
func (r *assignmentRepo) ReplacePanel(ctx context.Context, matchId string, assignments []models.AssessorAssignment) error {
	existing, err := queryPrefix(ctx, r.db, models.MatchPK(matchId), models.PositionSKPrefix())
	if err != nil {
		return fmt.Errorf("failed to list assignments: %w", err)
	}

	now := time.Now().UTC()
	tb := database.NewTransactionBuilder()
	written := make(map[string]bool, len(assignments))

	for _, a := range assignments {
		a.MatchId = matchId
		a.PK = models.MatchPK(matchId)
		a.SK = models.PositionSK(a.Position)
		a.CreatedAt = now
		written[a.SK] = true

		item, err := attributevalue.MarshalMap(a)
		if err != nil {
			return fmt.Errorf("failed to marshal assignment: %w", err)
		}
		if err := tb.AddPut(types.Put{
			TableName: aws.String(r.db.Table()),
			Item:      item,
		}); err != nil {
			return err
		}
	}

	for _, item := range existing {
		sk, ok := item["SK"].(*types.AttributeValueMemberS)
		if !ok || written[sk.Value] {
			continue
		}
		if err := tb.AddDelete(types.Delete{
			TableName: aws.String(r.db.Table()),
			Key:       map[string]types.AttributeValue{"PK": item["PK"], "SK": item["SK"]},
		}); err != nil {
			return err
		}
	}

	if tb.Count() == 0 {
		return nil
	}
	return tb.Execute(ctx, r.db.Client)
}
