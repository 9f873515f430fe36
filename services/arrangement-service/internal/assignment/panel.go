package assignment

import (
	"fmt"
	"strings"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

type SetupState string

const (
	Unconfigured        SetupState = "Unconfigured"
	PartiallyConfigured SetupState = "PartiallyConfigured"
	FullyConfigured     SetupState = "FullyConfigured"
)

func StateOf(panel models.Panel) SetupState {
	switch filled := panel.Filled(); {
	case filled == 0:
		return Unconfigured
	case filled < models.PanelSize:
		return PartiallyConfigured
	default:
		return FullyConfigured
	}
}

// Validate checks a panel before anything is persisted: every position must be
// filled and no assessor may hold two positions.
func Validate(panel models.Panel) *apperrors.AppError {
	for position, userId := range panel {
		if strings.TrimSpace(userId) == "" {
			return apperrors.New(apperrors.CodeIncompletePanel,
				fmt.Sprintf("assessor position %d is empty", position+1))
		}
	}

	seen := make(map[string]int, models.PanelSize)
	for position, userId := range panel {
		userId = strings.TrimSpace(userId)
		if first, ok := seen[userId]; ok {
			return apperrors.New(apperrors.CodeDuplicateAssessor,
				fmt.Sprintf("assessor %s holds positions %d and %d", userId, first+1, position+1))
		}
		seen[userId] = position
	}
	return nil
}

// NormalizePositions builds a panel from stored assignments. Older rows used
// positions 1..5; when no position 0 is present and the highest is 5 the set
// is shifted down. Rows that still fall outside the panel are returned as dropped.
func NormalizePositions(assignments []models.AssessorAssignment) (panel models.Panel, dropped []models.AssessorAssignment) {
	hasZero, maxPosition := false, -1
	for _, a := range assignments {
		if a.Position == 0 {
			hasZero = true
		}
		if a.Position > maxPosition {
			maxPosition = a.Position
		}
	}

	shift := 0
	if !hasZero && maxPosition == models.PanelSize {
		shift = 1
	}

	for _, a := range assignments {
		position := a.Position - shift
		if position < 0 || position >= models.PanelSize || panel[position] != "" {
			dropped = append(dropped, a)
			continue
		}
		panel[position] = a.UserId
	}
	return panel, dropped
}

// Assignments expands a panel into one row per position.
func Assignments(matchId string, panel models.Panel) []models.AssessorAssignment {
	out := make([]models.AssessorAssignment, 0, models.PanelSize)
	for position, userId := range panel {
		userId = strings.TrimSpace(userId)
		if userId == "" {
			continue
		}
		out = append(out, models.AssessorAssignment{
			MatchId:  matchId,
			UserId:   userId,
			Position: position,
		})
	}
	return out
}
