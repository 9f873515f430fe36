package events

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// PresentationOpenedEvent tells a presentation surface which handoff keys to read.
type PresentationOpenedEvent struct {
	MatchId       string
	PerformanceId string
	HandoffKeys   []string
}

func EncodePresentationOpened(event PresentationOpenedEvent) ([]byte, error) {
	keys := make([]any, 0, len(event.HandoffKeys))
	for _, key := range event.HandoffKeys {
		keys = append(keys, key)
	}

	msg, err := structpb.NewStruct(map[string]any{
		"matchId":       event.MatchId,
		"performanceId": event.PerformanceId,
		"handoffKeys":   keys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build presentation event: %w", err)
	}
	return proto.Marshal(msg)
}
