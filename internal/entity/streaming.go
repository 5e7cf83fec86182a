package entity

import "time"

// StreamEventType identifies the kind of a streaming event.
type StreamEventType string

const (
	// EventThinking carries a reasoning chunk, for models that expose one.
	EventThinking StreamEventType = "thinking"
	// EventContent carries a main content chunk.
	EventContent StreamEventType = "content"
	// EventTemplate carries the final structured result.
	EventTemplate StreamEventType = "template"
	// EventError signals a failed generation; no further events follow.
	EventError StreamEventType = "error"
	// EventDone marks successful stream completion.
	EventDone StreamEventType = "done"
)

// StreamEvent is a single event in the generation stream. Data is a string
// for chunk events and a *StreamingResult for the template event.
type StreamEvent struct {
	EventType StreamEventType `json:"event_type"`
	Data      any             `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewStreamEvent stamps an event with the current time.
func NewStreamEvent(eventType StreamEventType, data any) StreamEvent {
	return StreamEvent{
		EventType: eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// StreamingResult is the terminal artifact of a completed generation stream.
type StreamingResult struct {
	Template    *Template `json:"template"`
	Explanation string    `json:"explanation"`
}
