package publisher

import (
	"context"
	"time"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	commonevents "github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/common/natsjetstream"
)

type messagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) *apperrors.AppError
}

type EventPublisher struct {
	publisher messagePublisher
	logger    *logger.Logger
	now       func() time.Time
}

func NewEventPublisher(client *natsjetstream.Client, log *logger.Logger) *EventPublisher {
	return newEventPublisher(natsjetstream.NewPublisher(client), log)
}

func newEventPublisher(p messagePublisher, log *logger.Logger) *EventPublisher {
	return &EventPublisher{
		publisher: p,
		logger:    log.Component("event-publisher"),
		now:       time.Now,
	}
}

func (p *EventPublisher) PublishPresentationOpened(
	ctx context.Context,
	event commonevents.PresentationOpenedEvent,
) *apperrors.AppError {
	data, err := commonevents.EncodePresentationOpened(event)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to encode presentation event")
	}

	if appErr := p.publisher.Publish(ctx, commonevents.PresentationOpened, data); appErr != nil {
		p.logger.Error("Failed to publish presentation opened event",
			"match_id", event.MatchId,
			"error", appErr,
		)
		return appErr
	}

	p.logger.Info("Published presentation opened event", "match_id", event.MatchId)
	return nil
}

// PublishMatchStatus announces the confirmed status of a performance on its
// status topic.
func (p *EventPublisher) PublishMatchStatus(
	ctx context.Context,
	matchId, performanceId string,
	status models.MatchStatus,
) *apperrors.AppError {
	if performanceId == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "performance id is required")
	}

	data, err := commonevents.EncodeStatusEvent(commonevents.StatusEvent{
		Status:        string(status),
		PerformanceId: performanceId,
		MatchId:       matchId,
		At:            p.now().UTC(),
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeObjectMarshalError, "failed to encode status event")
	}

	subject := commonevents.PerformanceStatusSubject(performanceId)
	if appErr := p.publisher.Publish(ctx, subject, data); appErr != nil {
		p.logger.Error("Failed to publish match status",
			"performance_id", performanceId,
			"status", string(status),
			"error", appErr,
		)
		return appErr
	}

	p.logger.Debug("Published match status",
		"performance_id", performanceId,
		"status", string(status),
	)
	return nil
}
