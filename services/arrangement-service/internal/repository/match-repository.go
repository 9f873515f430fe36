package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/burakmert236/arrangement/common/database"
	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

type MatchRepository interface {
	ListMatches(ctx context.Context, tournamentId string) ([]models.Match, error)
	GetMatchByPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Match, error)
	SaveMatchSetup(ctx context.Context, match *models.Match) (*models.Match, error)
	LinkPerformance(ctx context.Context, match *models.Match) (*models.Match, error)
	DeleteMatch(ctx context.Context, tournamentId, matchId string) error
}

type matchRepo struct {
	db *database.DynamoDBClient
}

func NewMatchRepository(db *database.DynamoDBClient) MatchRepository {
	return &matchRepo{db: db}
}

func (r *matchRepo) ListMatches(ctx context.Context, tournamentId string) ([]models.Match, error) {
	items, err := queryPrefix(ctx, r.db, models.TournamentPK(tournamentId), models.MatchSKPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return unmarshalAll[models.Match](items, "match")
}

// GetMatchByPerformance returns nil without error when no match exists yet.
func (r *matchRepo) GetMatchByPerformance(ctx context.Context, tournamentId, performanceId string) (*models.Match, error) {
	items, err := queryAll(ctx, r.db, &dynamodb.QueryInput{
		TableName:              aws.String(r.db.Table()),
		IndexName:              aws.String("GSI1"),
		KeyConditionExpression: aws.String("GSI1PK = :performance"),
		FilterExpression:       aws.String("tournament_id = :tournament"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":performance": &types.AttributeValueMemberS{Value: models.PerformanceGSI1PK(performanceId)},
			":tournament":  &types.AttributeValueMemberS{Value: tournamentId},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get match by performance: %w", err)
	}
	if len(items) == 0 {
		return nil, nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(items[0], &match); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &match, nil
}

// SaveMatchSetup creates the match of a performance when match.Version is 0,
// otherwise updates its setup fields if the stored version still equals
// match.Version. Either race is reported as CONFLICT.
func (r *matchRepo) SaveMatchSetup(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.PerformanceId == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "performance id is required")
	}
	if match.Version == 0 {
		return r.create(ctx, match)
	}
	return r.update(ctx, match)
}

func (r *matchRepo) create(ctx context.Context, match *models.Match) (*models.Match, error) {
	now := time.Now().UTC()
	created := match.Clone()
	created.MatchId = uuid.New().String()
	created.Version = 1
	created.Status = models.ParseMatchStatus(string(created.Status))
	created.Placeholder = false
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now
	created.PK = models.TournamentPK(created.TournamentId)
	created.SK = models.MatchSK(created.MatchId)
	created.GSI1PK = models.PerformanceGSI1PK(created.PerformanceId)
	created.GSI1SK = models.MatchSK(created.MatchId)

	item, err := attributevalue.MarshalMap(created)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match: %w", err)
	}

	guard := itemKey(created.PK, models.PerformanceMatchSK(created.PerformanceId))
	guard["match_id"] = &types.AttributeValueMemberS{Value: created.MatchId}

	tb := database.NewTransactionBuilder()
	if err := tb.AddPut(types.Put{
		TableName:           aws.String(r.db.Table()),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}); err != nil {
		return nil, err
	}
	if err := tb.AddPut(types.Put{
		TableName:           aws.String(r.db.Table()),
		Item:                guard,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}); err != nil {
		return nil, err
	}

	if err := tb.Execute(ctx, r.db.Client); err != nil {
		if isConditionFailure(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict, "performance already has a match")
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	return &created, nil
}

func (r *matchRepo) update(ctx context.Context, match *models.Match) (*models.Match, error) {
	fields := map[string]any{
		"timer_seconds":     match.TimerSeconds,
		"venue_id":          match.VenueId,
		"venue_label":       match.VenueLabel,
		"participant_ids":   match.ParticipantIds,
		"participant_names": match.ParticipantNames,
		"category_id":       match.CategoryId,
		"category_name":     match.CategoryName,
		"sub_item_id":       match.SubItemId,
		"sub_item_name":     match.SubItemName,
		"music_piece_id":    match.MusicPieceId,
		"music_piece_name":  match.MusicPieceName,
		"gender":            match.Gender,
		"is_team":           match.IsTeam,
		"team_name":         match.TeamName,
		"updated_at":        time.Now().UTC(),
	}

	values := map[string]types.AttributeValue{
		":expected": &types.AttributeValueMemberN{Value: fmt.Sprint(match.Version)},
		":next":     &types.AttributeValueMemberN{Value: fmt.Sprint(match.Version + 1)},
	}
	names := map[string]string{"#version": "version"}
	expression := "SET #version = :next"
	attributes := make([]string, 0, len(fields))
	for attribute := range fields {
		attributes = append(attributes, attribute)
	}
	sort.Strings(attributes)

	for i, attribute := range attributes {
		av, err := attributevalue.Marshal(fields[attribute])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", attribute, err)
		}
		name, placeholder := fmt.Sprintf("#f%d", i), fmt.Sprintf(":f%d", i)
		names[name] = attribute
		values[placeholder] = av
		expression += fmt.Sprintf(", %s = %s", name, placeholder)
	}

	result, err := r.db.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.db.Table()),
		Key:                       itemKey(models.TournamentPK(match.TournamentId), models.MatchSK(match.MatchId)),
		UpdateExpression:          aws.String(expression),
		ConditionExpression:       aws.String("attribute_exists(PK) AND #version = :expected"),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		if isConditionFailure(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict, "match was modified concurrently")
		}
		return nil, fmt.Errorf("failed to update match: %w", err)
	}

	var updated models.Match
	if err := attributevalue.UnmarshalMap(result.Attributes, &updated); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}
	return &updated, nil
}

// LinkPerformance attaches match.PerformanceId to a stored match that has no
// performance yet, bumping its version and claiming the performance guard in
// the same transaction. A changed version, an already linked match or a
// performance owned by another match is reported as CONFLICT.
func (r *matchRepo) LinkPerformance(ctx context.Context, match *models.Match) (*models.Match, error) {
	if match.PerformanceId == "" {
		return nil, apperrors.New(apperrors.CodeInvalidInput, "performance id is required")
	}

	pk := models.TournamentPK(match.TournamentId)
	now := time.Now().UTC()
	nowValue, err := attributevalue.Marshal(now)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal timestamp: %w", err)
	}

	condition := "attribute_exists(PK) AND #version = :expected"
	if match.Version == 0 {
		condition = "attribute_exists(PK) AND (attribute_not_exists(#version) OR #version = :expected)"
	}
	condition += " AND (attribute_not_exists(#performance) OR #performance = :none)"

	guard := itemKey(pk, models.PerformanceMatchSK(match.PerformanceId))
	guard["match_id"] = &types.AttributeValueMemberS{Value: match.MatchId}

	tb := database.NewTransactionBuilder()
	if err := tb.AddUpdate(types.Update{
		TableName:           aws.String(r.db.Table()),
		Key:                 itemKey(pk, models.MatchSK(match.MatchId)),
		UpdateExpression:    aws.String("SET #version = :next, #performance = :performance, GSI1PK = :gsi1pk, GSI1SK = :gsi1sk, updated_at = :now"),
		ConditionExpression: aws.String(condition),
		ExpressionAttributeNames: map[string]string{
			"#version":     "version",
			"#performance": "performance_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":expected":    &types.AttributeValueMemberN{Value: fmt.Sprint(match.Version)},
			":next":        &types.AttributeValueMemberN{Value: fmt.Sprint(match.Version + 1)},
			":performance": &types.AttributeValueMemberS{Value: match.PerformanceId},
			":none":        &types.AttributeValueMemberS{Value: ""},
			":gsi1pk":      &types.AttributeValueMemberS{Value: models.PerformanceGSI1PK(match.PerformanceId)},
			":gsi1sk":      &types.AttributeValueMemberS{Value: models.MatchSK(match.MatchId)},
			":now":         nowValue,
		},
	}); err != nil {
		return nil, err
	}
	if err := tb.AddPut(types.Put{
		TableName:           aws.String(r.db.Table()),
		Item:                guard,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	}); err != nil {
		return nil, err
	}

	if err := tb.Execute(ctx, r.db.Client); err != nil {
		if isConditionFailure(err) {
			return nil, apperrors.Wrap(err, apperrors.CodeConflict, "match could not be linked to the performance")
		}
		return nil, fmt.Errorf("failed to link performance: %w", err)
	}

	linked := match.Clone()
	linked.Version = match.Version + 1
	linked.Placeholder = false
	linked.UpdatedAt = now
	linked.PK = pk
	linked.SK = models.MatchSK(linked.MatchId)
	linked.GSI1PK = models.PerformanceGSI1PK(linked.PerformanceId)
	linked.GSI1SK = models.MatchSK(linked.MatchId)
	return &linked, nil
}

// DeleteMatch removes the match, its performance guard and its panel in one
// transaction. A missing match is not an error.
func (r *matchRepo) DeleteMatch(ctx context.Context, tournamentId, matchId string) error {
	result, err := r.db.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.db.Table()),
		Key:       itemKey(models.TournamentPK(tournamentId), models.MatchSK(matchId)),
	})
	if err != nil {
		return fmt.Errorf("failed to get match: %w", err)
	}
	if result.Item == nil {
		return nil
	}

	var match models.Match
	if err := attributevalue.UnmarshalMap(result.Item, &match); err != nil {
		return fmt.Errorf("failed to unmarshal match: %w", err)
	}

	positions, err := queryPrefix(ctx, r.db, models.MatchPK(matchId), models.PositionSKPrefix())
	if err != nil {
		return fmt.Errorf("failed to list match panel: %w", err)
	}

	deletes := []map[string]types.AttributeValue{
		itemKey(models.TournamentPK(tournamentId), models.MatchSK(matchId)),
	}
	if match.PerformanceId != "" {
		deletes = append(deletes, itemKey(models.TournamentPK(tournamentId), models.PerformanceMatchSK(match.PerformanceId)))
	}
	for _, position := range positions {
		deletes = append(deletes, map[string]types.AttributeValue{"PK": position["PK"], "SK": position["SK"]})
	}

	tb := database.NewTransactionBuilder()
	for _, key := range deletes {
		if err := tb.AddDelete(types.Delete{
			TableName: aws.String(r.db.Table()),
			Key:       key,
		}); err != nil {
			return err
		}
	}
	return tb.Execute(ctx, r.db.Client)
}
