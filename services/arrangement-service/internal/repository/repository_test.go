package repository

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/burakmert236/arrangement/common/database"
	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

type fakeAPI struct {
	database.API

	queryPages   []*dynamodb.QueryOutput
	queries      []dynamodb.QueryInput
	getItem      *dynamodb.GetItemOutput
	putErr       error
	update       *dynamodb.UpdateItemOutput
	updateErr    error
	updates      []*dynamodb.UpdateItemInput
	transactions []*dynamodb.TransactWriteItemsInput
	transactErr  error
}

func (f *fakeAPI) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queries = append(f.queries, *params)
	if len(f.queryPages) == 0 {
		return &dynamodb.QueryOutput{}, nil
	}
	page := f.queryPages[0]
	f.queryPages = f.queryPages[1:]
	return page, nil
}

func (f *fakeAPI) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	if f.getItem == nil {
		return &dynamodb.GetItemOutput{}, nil
	}
	return f.getItem, nil
}

func (f *fakeAPI) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeAPI) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.updates = append(f.updates, params)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.update, nil
}

func (f *fakeAPI) TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.transactions = append(f.transactions, params)
	if f.transactErr != nil {
		return nil, f.transactErr
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func newDB(api *fakeAPI) *database.DynamoDBClient {
	return &database.DynamoDBClient{Client: api, TableName: "arrangement"}
}

func mustMarshal(t *testing.T, v any) map[string]types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return item
}

func TestListParticipantsPagesAndFilters(t *testing.T) {
	api := &fakeAPI{queryPages: []*dynamodb.QueryOutput{
		{
			Items:            []map[string]types.AttributeValue{mustMarshal(t, models.Participant{ParticipantId: "p1"})},
			LastEvaluatedKey: itemKey("TOURNAMENT#t1", "PARTICIPANT#p1"),
		},
		{
			Items: []map[string]types.AttributeValue{mustMarshal(t, models.Participant{ParticipantId: "p2"})},
		},
	}}
	repo := NewParticipantRepository(newDB(api), 50)

	participants, err := repo.ListParticipants(context.Background(), models.ParticipantQuery{
		TournamentId:    "t1",
		CompetitionType: models.CompetitionForms,
		Gender:          models.GenderFemale,
		CategoryId:      "cat",
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(participants) != 2 || participants[1].ParticipantId != "p2" {
		t.Fatalf("unexpected participants %+v", participants)
	}
	if len(api.queries) != 2 {
		t.Fatalf("got %d queries, want 2", len(api.queries))
	}

	first := api.queries[0]
	if aws.ToInt32(first.Limit) != 50 {
		t.Fatalf("page size = %d, want 50", aws.ToInt32(first.Limit))
	}
	wantFilter := "competition_type = :type AND gender = :gender AND category_id = :category"
	if aws.ToString(first.FilterExpression) != wantFilter {
		t.Fatalf("filter = %q, want %q", aws.ToString(first.FilterExpression), wantFilter)
	}
	if first.ExclusiveStartKey != nil || api.queries[1].ExclusiveStartKey == nil {
		t.Fatalf("second page must start after the first")
	}
}

func TestReplacePanelDeletesStaleRows(t *testing.T) {
	api := &fakeAPI{queryPages: []*dynamodb.QueryOutput{{
		Items: []map[string]types.AttributeValue{
			itemKey(models.MatchPK("m1"), models.PositionSK(0)),
			itemKey(models.MatchPK("m1"), models.PositionSK(5)),
		},
	}}}
	repo := NewAssignmentRepository(newDB(api))

	panel := make([]models.AssessorAssignment, 0, models.PanelSize)
	for i := 0; i < models.PanelSize; i++ {
		panel = append(panel, models.AssessorAssignment{UserId: string(rune('a' + i)), Position: i})
	}
	if err := repo.ReplacePanel(context.Background(), "m1", panel); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if len(api.transactions) != 1 {
		t.Fatalf("got %d transactions, want 1", len(api.transactions))
	}
	puts, deletes := 0, 0
	for _, item := range api.transactions[0].TransactItems {
		switch {
		case item.Put != nil:
			puts++
		case item.Delete != nil:
			deletes++
			sk := item.Delete.Key["SK"].(*types.AttributeValueMemberS).Value
			if sk != models.PositionSK(5) {
				t.Fatalf("deleted %s, want %s", sk, models.PositionSK(5))
			}
		}
	}
	if puts != models.PanelSize || deletes != 1 {
		t.Fatalf("puts = %d deletes = %d, want 5 and 1", puts, deletes)
	}
}

func TestSaveMatchSetupCreate(t *testing.T) {
	api := &fakeAPI{}
	repo := NewMatchRepository(newDB(api))

	created, err := repo.SaveMatchSetup(context.Background(), &models.Match{
		MatchId:       "placeholder",
		TournamentId:  "t1",
		PerformanceId: "perf-1",
		Placeholder:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if created.MatchId == "placeholder" || created.Version != 1 || created.Status != models.MatchStatusPending {
		t.Fatalf("unexpected created match %+v", created)
	}
	if created.GSI1PK != models.PerformanceGSI1PK("perf-1") {
		t.Fatalf("GSI1PK = %s", created.GSI1PK)
	}
	if len(api.transactions) != 1 || len(api.transactions[0].TransactItems) != 2 {
		t.Fatalf("create must write the match and its performance guard together")
	}
}

func TestSaveMatchSetupCreateRace(t *testing.T) {
	api := &fakeAPI{transactErr: &types.TransactionCanceledException{Message: aws.String("ConditionalCheckFailed")}}
	repo := NewMatchRepository(newDB(api))

	_, err := repo.SaveMatchSetup(context.Background(), &models.Match{TournamentId: "t1", PerformanceId: "perf-1"})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}

func TestSaveMatchSetupUpdate(t *testing.T) {
	stored := models.Match{MatchId: "m1", TournamentId: "t1", PerformanceId: "perf-1", VenueId: "v2", Version: 4}
	api := &fakeAPI{update: &dynamodb.UpdateItemOutput{Attributes: mustMarshal(t, stored)}}
	repo := NewMatchRepository(newDB(api))

	updated, err := repo.SaveMatchSetup(context.Background(), &models.Match{
		MatchId: "m1", TournamentId: "t1", PerformanceId: "perf-1", VenueId: "v2", Version: 3,
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if updated.Version != 4 || updated.VenueId != "v2" {
		t.Fatalf("unexpected updated match %+v", updated)
	}

	input := api.updates[0]
	expected := input.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value
	if expected != "3" || aws.ToString(input.ConditionExpression) != "attribute_exists(PK) AND #version = :expected" {
		t.Fatalf("update is not conditional on the read version: %s %s", expected, aws.ToString(input.ConditionExpression))
	}
}

func TestSaveMatchSetupUpdateConflict(t *testing.T) {
	api := &fakeAPI{updateErr: &types.ConditionalCheckFailedException{Message: aws.String("version")}}
	repo := NewMatchRepository(newDB(api))

	_, err := repo.SaveMatchSetup(context.Background(), &models.Match{MatchId: "m1", TournamentId: "t1", PerformanceId: "p", Version: 2})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}

func TestLinkPerformanceUpdatesMatchAndClaimsGuard(t *testing.T) {
	api := &fakeAPI{}
	repo := NewMatchRepository(newDB(api))

	linked, err := repo.LinkPerformance(context.Background(), &models.Match{
		MatchId: "legacy", TournamentId: "t1", PerformanceId: "perf-9", Version: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if linked.MatchId != "legacy" || linked.Version != 2 || linked.GSI1PK != models.PerformanceGSI1PK("perf-9") {
		t.Fatalf("unexpected linked match %+v", linked)
	}

	if len(api.transactions) != 1 {
		t.Fatalf("link must run as one transaction")
	}
	items := api.transactions[0].TransactItems
	if len(items) != 2 || items[0].Update == nil || items[1].Put == nil {
		t.Fatalf("expected a match update and a guard put, got %+v", items)
	}
	update := items[0].Update
	if got := update.Key["SK"].(*types.AttributeValueMemberS).Value; got != models.MatchSK("legacy") {
		t.Fatalf("update targets %s, want the existing match", got)
	}
	if expected := update.ExpressionAttributeValues[":expected"].(*types.AttributeValueMemberN).Value; expected != "1" {
		t.Fatalf("link is not conditional on the read version: %s", expected)
	}
	if got := items[1].Put.Item["SK"].(*types.AttributeValueMemberS).Value; got != models.PerformanceMatchSK("perf-9") {
		t.Fatalf("guard SK = %s", got)
	}
}

func TestLinkPerformanceConflict(t *testing.T) {
	api := &fakeAPI{transactErr: &types.TransactionCanceledException{Message: aws.String("ConditionalCheckFailed")}}
	repo := NewMatchRepository(newDB(api))

	_, err := repo.LinkPerformance(context.Background(), &models.Match{MatchId: "legacy", TournamentId: "t1", PerformanceId: "perf-9", Version: 1})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("got %v, want CONFLICT", err)
	}
}

func TestGetMatchByPerformanceMissing(t *testing.T) {
	repo := NewMatchRepository(newDB(&fakeAPI{}))

	match, err := repo.GetMatchByPerformance(context.Background(), "t1", "perf-1")
	if err != nil || match != nil {
		t.Fatalf("got %+v, %v; want nil, nil", match, err)
	}
}

func TestDeleteMatchRemovesGuardAndPanel(t *testing.T) {
	api := &fakeAPI{
		getItem: &dynamodb.GetItemOutput{Item: mustMarshal(t, models.Match{MatchId: "m1", TournamentId: "t1", PerformanceId: "perf-1"})},
		queryPages: []*dynamodb.QueryOutput{{
			Items: []map[string]types.AttributeValue{itemKey(models.MatchPK("m1"), models.PositionSK(0))},
		}},
	}
	repo := NewMatchRepository(newDB(api))

	if err := repo.DeleteMatch(context.Background(), "t1", "m1"); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(api.transactions) != 1 || len(api.transactions[0].TransactItems) != 3 {
		t.Fatalf("expected match, guard and position deletes in one transaction")
	}
}

func TestCreatePerformanceAlreadyExists(t *testing.T) {
	api := &fakeAPI{putErr: &types.ConditionalCheckFailedException{Message: aws.String("exists")}}
	repo := NewPerformanceRepository(newDB(api))

	err := repo.CreatePerformance(context.Background(), &models.Performance{TournamentId: "t1"})
	if !apperrors.HasCode(err, apperrors.CodeAlreadyExists) {
		t.Fatalf("got %v, want ALREADY_EXISTS", err)
	}
}

func TestGetTournamentNotFound(t *testing.T) {
	repo := NewTournamentRepository(newDB(&fakeAPI{}))

	_, err := repo.GetTournament(context.Background(), "missing")
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("got %v, want NOT_FOUND", err)
	}
}
