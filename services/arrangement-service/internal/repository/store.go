package repository

import (
	"github.com/burakmert236/arrangement/common/database"
)

// Store bundles every repository over one DynamoDB table.
type Store struct {
	TournamentRepository
	ContentRepository
	ParticipantRepository
	MatchRepository
	PerformanceRepository
	AssignmentRepository
	OfficialRepository
}

func NewStore(db *database.DynamoDBClient, participantPageSize int32) *Store {
	return &Store{
		TournamentRepository:  NewTournamentRepository(db),
		ContentRepository:     NewContentRepository(db),
		ParticipantRepository: NewParticipantRepository(db, participantPageSize),
		MatchRepository:       NewMatchRepository(db),
		PerformanceRepository: NewPerformanceRepository(db),
		AssignmentRepository:  NewAssignmentRepository(db),
		OfficialRepository:    NewOfficialRepository(db),
	}
}
