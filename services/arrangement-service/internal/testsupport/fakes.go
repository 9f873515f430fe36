package testsupport

import (
	"context"
	"sync"

	apperrors "github.com/burakmert236/arrangement/common/errors"
	"github.com/burakmert236/arrangement/common/events"
	"github.com/burakmert236/arrangement/common/natsjetstream"
	"github.com/burakmert236/arrangement/services/arrangement-service/internal/handoff"
)

// FakeSubscriber records status subscriptions and lets tests push events.
type FakeSubscriber struct {
	mu      sync.Mutex
	subs    []*FakeSubscription
	FailErr *apperrors.AppError
}

type FakeSubscription struct {
	PerformanceIds []string
	handler        natsjetstream.StatusHandler
	stopped        bool
}

func (s *FakeSubscription) Stop() {
	s.stopped = true
}

func (s *FakeSubscription) Stopped() bool {
	return s.stopped
}

func (f *FakeSubscriber) SubscribeStatus(
	ctx context.Context,
	performanceIds []string,
	handler natsjetstream.StatusHandler,
) (natsjetstream.Subscription, *apperrors.AppError) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailErr != nil {
		return nil, f.FailErr
	}
	sub := &FakeSubscription{
		PerformanceIds: append([]string(nil), performanceIds...),
		handler:        handler,
	}
	f.subs = append(f.subs, sub)
	return sub, nil
}

// Subscriptions returns every subscription opened so far, oldest first.
func (f *FakeSubscriber) Subscriptions() []*FakeSubscription {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*FakeSubscription(nil), f.subs...)
}

// Emit delivers event to every subscription that is still active and
// follows the event's performance.
func (f *FakeSubscriber) Emit(event events.StatusEvent) {
	f.mu.Lock()
	targets := make([]*FakeSubscription, 0, len(f.subs))
	for _, sub := range f.subs {
		if sub.stopped {
			continue
		}
		for _, id := range sub.PerformanceIds {
			if id == event.PerformanceId {
				targets = append(targets, sub)
				break
			}
		}
	}
	f.mu.Unlock()

	for _, sub := range targets {
		sub.handler(event)
	}
}

// MemoryHandoff is a handoff.Store backed by a map.
type MemoryHandoff struct {
	mu      sync.Mutex
	Records map[string]handoff.Record
	FailErr error
}

func NewMemoryHandoff() *MemoryHandoff {
	return &MemoryHandoff{Records: make(map[string]handoff.Record)}
}

func (h *MemoryHandoff) Put(ctx context.Context, keys []string, record handoff.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.FailErr != nil {
		return h.FailErr
	}
	for _, key := range keys {
		h.Records[key] = record
	}
	return nil
}

func (h *MemoryHandoff) Get(key string) (handoff.Record, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	record, ok := h.Records[key]
	return record, ok
}

// RecordingPresenter captures presentation-opened events.
type RecordingPresenter struct {
	mu      sync.Mutex
	Events  []events.PresentationOpenedEvent
	FailErr *apperrors.AppError
}

func (p *RecordingPresenter) PublishPresentationOpened(
	ctx context.Context,
	event events.PresentationOpenedEvent,
) *apperrors.AppError {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailErr != nil {
		return p.FailErr
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingPresenter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Events)
}
