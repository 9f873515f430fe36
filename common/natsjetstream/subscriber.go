package natsjetstream

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/logger"
)

// Subscription is an active status feed. Stop deactivates it.
type Subscription interface {
	Stop()
}

type StatusHandler func(event events.StatusEvent)

// StatusSubscriber follows per-performance status topics through an ordered,
// ephemeral consumer, starting from the last status of each subject.
type StatusSubscriber struct {
	client *Client
	stream string
	logger *logger.Logger
}

func NewStatusSubscriber(client *Client, stream string, log *logger.Logger) *StatusSubscriber {
	return &StatusSubscriber{
		client: client,
		stream: stream,
		logger: log.Component("status-subscriber"),
	}
}

func (s *StatusSubscriber) SubscribeStatus(
	ctx context.Context,
	performanceIds []string,
	handler StatusHandler,
) (Subscription, *apperrors.AppError) {
	subjects := make([]string, 0, len(performanceIds))
	for _, id := range performanceIds {
		subjects = append(subjects, events.PerformanceStatusSubject(id))
	}

	consumer, err := s.client.js.OrderedConsumer(ctx, s.stream, jetstream.OrderedConsumerConfig{
		FilterSubjects: subjects,
		DeliverPolicy:  jetstream.DeliverLastPerSubjectPolicy,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEventSubscribtionError, "failed to create status consumer")
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		event, decodeErr := events.DecodeStatusEvent(msg.Data())
		if decodeErr != nil {
			s.logger.Warn("Dropping undecodable status event",
				"subject", msg.Subject(),
				"error", decodeErr,
			)
			return
		}
		handler(event)
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeEventSubscribtionError, "failed to consume status events")
	}

	s.logger.Debug("Subscribed to performance status", "subjects", len(subjects))
	return consumeCtx, nil
}
