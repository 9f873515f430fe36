// Package realtime keeps board statuses in sync with per-performance status topics.
package realtime

import (
	"context"
	"sort"
	"strings"
	"sync"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/logger"
	"github.com/burakmert236/arrangement/common/models"
	"github.com/burakmert236/arrangement/common/natsjetstream"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/board"
)

type Subscriber interface {
	SubscribeStatus(
		ctx context.Context,
		performanceIds []string,
		handler natsjetstream.StatusHandler,
	) (natsjetstream.Subscription, *apperrors.AppError)
}

// Bridge holds at most one subscription, covering the performances of the
// currently visible matches.
type Bridge struct {
	subscriber Subscriber
	board      *board.Board
	logger     *logger.Logger

	mu     sync.Mutex
	key    string
	active natsjetstream.Subscription
}

func NewBridge(subscriber Subscriber, matches *board.Board, log *logger.Logger) *Bridge {
	return &Bridge{
		subscriber: subscriber,
		board:      matches,
		logger:     log.Component("realtime-bridge"),
	}
}

// SubscriptionKey is the sorted, comma-joined set of performance ids.
func SubscriptionKey(matches []models.Match) string {
	seen := make(map[string]bool, len(matches))
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.PerformanceId == "" || seen[m.PerformanceId] {
			continue
		}
		seen[m.PerformanceId] = true
		ids = append(ids, m.PerformanceId)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// Sync subscribes to the performances of matches. Nothing happens when the
// performance set is unchanged.
func (b *Bridge) Sync(ctx context.Context, matches []models.Match) *apperrors.AppError {
	key := SubscriptionKey(matches)

	b.mu.Lock()
	defer b.mu.Unlock()

	if key == b.key && (b.active != nil || key == "") {
		return nil
	}
	b.stopLocked()

	if key == "" {
		return nil
	}

	sub, appErr := b.subscriber.SubscribeStatus(ctx, strings.Split(key, ","), b.handle)
	if appErr != nil {
		b.logger.Warn("Status subscription failed",
			"performances", key,
			"error", appErr,
		)
		return appErr
	}
	b.key = key
	b.active = sub
	b.logger.Debug("Status subscription replaced", "performances", key)
	return nil
}

// Teardown stops the active subscription.
func (b *Bridge) Teardown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopLocked()
}

func (b *Bridge) Key() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.key
}

func (b *Bridge) stopLocked() {
	if b.active != nil {
		b.active.Stop()
	}
	b.active = nil
	b.key = ""
}

func (b *Bridge) handle(event events.StatusEvent) {
	if !event.Complete() {
		b.logger.Debug("Ignoring incomplete status event",
			"performance_id", event.PerformanceId,
			"status", event.Status,
		)
		return
	}
	status := models.ParseMatchStatus(event.Status)
	if !b.board.ApplyStatus(event.PerformanceId, status) {
		b.logger.Debug("Status event for unknown performance", "performance_id", event.PerformanceId)
	}
}
