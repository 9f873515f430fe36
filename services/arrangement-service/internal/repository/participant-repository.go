package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/burakmert236/arrangement/common/database"
	"github.com/burakmert236/arrangement/common/models"
)

type ParticipantRepository interface {
	ListParticipants(ctx context.Context, query models.ParticipantQuery) ([]models.Participant, error)
}

type participantRepo struct {
	db       *database.DynamoDBClient
	pageSize int32
}

// NewParticipantRepository reads participants page by page; pageSize <= 0
// leaves the page size to DynamoDB.
func NewParticipantRepository(db *database.DynamoDBClient, pageSize int32) ParticipantRepository {
	return &participantRepo{db: db, pageSize: pageSize}
}

func (r *participantRepo) ListParticipants(ctx context.Context, query models.ParticipantQuery) ([]models.Participant, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.db.Table()),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: models.TournamentPK(query.TournamentId)},
			":prefix": &types.AttributeValueMemberS{Value: models.ParticipantSKPrefix()},
		},
	}
	if r.pageSize > 0 {
		input.Limit = aws.Int32(r.pageSize)
	}

	var conditions []string
	addEquals := func(attribute, placeholder, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf("%s = %s", attribute, placeholder))
		input.ExpressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: value}
	}
	addEquals("competition_type", ":type", string(query.CompetitionType))
	addEquals("gender", ":gender", string(query.Gender))
	addEquals("category_id", ":category", query.CategoryId)
	addEquals("sub_item_id", ":subItem", query.SubItemId)
	if len(conditions) > 0 {
		input.FilterExpression = aws.String(strings.Join(conditions, " AND "))
	}

	items, err := queryAll(ctx, r.db, input)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	return unmarshalAll[models.Participant](items, "participant")
}
