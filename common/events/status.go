package events

import (
	"bytes"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// StatusEvent is the payload published on a performance status topic.
type StatusEvent struct {
	Status        string
	PerformanceId string
	MatchId       string
	At            time.Time
}

// Complete reports whether the event carries enough to update a match.
func (e StatusEvent) Complete() bool {
	return e.Status != "" && e.PerformanceId != ""
}

func EncodeStatusEvent(event StatusEvent) ([]byte, error) {
	fields := map[string]any{
		"status":        event.Status,
		"performanceId": event.PerformanceId,
	}
	if event.MatchId != "" {
		fields["matchId"] = event.MatchId
	}
	if !event.At.IsZero() {
		fields["at"] = event.At.UTC().Format(time.RFC3339Nano)
	}

	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build status event: %w", err)
	}
	return proto.Marshal(msg)
}

// DecodeStatusEvent accepts either a binary structpb.Struct or its JSON form.
func DecodeStatusEvent(data []byte) (StatusEvent, error) {
	var msg structpb.Struct

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := protojson.Unmarshal(trimmed, &msg); err != nil {
			return StatusEvent{}, fmt.Errorf("failed to decode json status event: %w", err)
		}
	} else if err := proto.Unmarshal(data, &msg); err != nil {
		return StatusEvent{}, fmt.Errorf("failed to decode status event: %w", err)
	}

	event := StatusEvent{
		Status:        stringField(&msg, "status"),
		PerformanceId: stringField(&msg, "performanceId"),
		MatchId:       stringField(&msg, "matchId"),
	}
	if at := stringField(&msg, "at"); at != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, at); err == nil {
			event.At = parsed
		}
	}
	return event, nil
}

func stringField(msg *structpb.Struct, key string) string {
	value, ok := msg.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := value.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return fmt.Sprintf("%v", kind.NumberValue)
	default:
		return ""
	}
}
