package lifecycle

import (
	"fmt"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/models"
)

var transitions = map[models.MatchStatus][]models.MatchStatus{
	models.MatchStatusPending:    {models.MatchStatusInProgress, models.MatchStatusCancelled},
	models.MatchStatusInProgress: {models.MatchStatusCompleted, models.MatchStatusCancelled},
}

func CanTransition(from, to models.MatchStatus) bool {
	for _, next := range transitions[models.ParseMatchStatus(string(from))] {
		if next == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to models.MatchStatus) *apperrors.AppError {
	if CanTransition(from, to) {
		return nil
	}
	return apperrors.New(apperrors.CodeLifecycleViolation,
		fmt.Sprintf("cannot move match from %s to %s", models.ParseMatchStatus(string(from)), to))
}
