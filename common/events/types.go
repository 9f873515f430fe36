package events

import (
	"fmt"
	"strings"
)

const (
	// Streams
	PerformanceStatusStream = "PERFORMANCE_STATUS"
	PresentationStream      = "PRESENTATION_EVENTS"

	// Events
	PresentationOpened = "events.presentation.opened"

	// Event Wildcards
	PerformanceStatusWildcard = "events.performance.*.status"
	PresentationWildcard      = "events.presentation.*"
)

var subjectTokenReplacer = strings.NewReplacer(".", "_", "*", "_", ">", "_", " ", "_")

// PerformanceStatusSubject is the per-performance status topic. Characters that are
// special in NATS subjects are replaced so every id maps to a single token.
func PerformanceStatusSubject(performanceId string) string {
	return fmt.Sprintf("events.performance.%s.status", subjectTokenReplacer.Replace(performanceId))
}
