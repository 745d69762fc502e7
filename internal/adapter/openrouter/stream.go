package openrouter

import (
	"encoding/json"
	"strings"

	"examgen/internal/logger"

	"go.uber.org/zap"
)

const (
	dataPrefix   = "data: "
	doneSentinel = "[DONE]"
)

// Event is one decoded payload from the event stream.
type Event struct {
	Choices []Choice `json:"choices"`
}

// Choice carries either an incremental delta (mid-stream) or a full
// message (non-streaming / terminal), never both.
type Choice struct {
	Delta   *EventMessage `json:"delta,omitempty"`
	Message *EventMessage `json:"message,omitempty"`
}

// EventMessage holds the content and reasoning channels of a choice.
// Pointers distinguish an absent field from an empty string.
type EventMessage struct {
	Content   *string `json:"content"`
	Reasoning *string `json:"reasoning"`
}

// LineDecoder reassembles event-stream records from arbitrarily split
// chunks. A partial trailing line is carried over to the next Feed
// call, so splitting a logical event across chunk boundaries yields the
// same events as feeding it whole. A decoder serves one stream; it is
// not restartable.
type LineDecoder struct {
	carry string
}

func NewLineDecoder() *LineDecoder {
	return &LineDecoder{}
}

// Feed appends the chunk to the carry-over buffer and returns the
// events completed by it.
func (d *LineDecoder) Feed(chunk []byte) []Event {
	d.carry += string(chunk)
	lines := strings.Split(d.carry, "\n")
	d.carry = lines[len(lines)-1]

	var events []Event
	for _, line := range lines[:len(lines)-1] {
		if ev, ok := decodeLine(line); ok {
			events = append(events, ev)
		}
	}
	return events
}

// Flush decodes whatever remains in the carry-over buffer once the
// chunk source has signaled completion.
func (d *LineDecoder) Flush() []Event {
	line := d.carry
	d.carry = ""
	if ev, ok := decodeLine(line); ok {
		return []Event{ev}
	}
	return nil
}

// decodeLine extracts the event payload from one logical line. Blank
// lines, the termination sentinel and unparseable payloads produce no
// event; a bad payload is logged and skipped, never fatal.
func decodeLine(line string) (Event, bool) {
	if strings.TrimSpace(line) == "" {
		return Event{}, false
	}

	data := strings.TrimPrefix(line, dataPrefix)
	if data == doneSentinel {
		return Event{}, false
	}
	if strings.TrimSpace(data) == "" {
		return Event{}, false
	}

	var ev Event
	if err := json.Unmarshal([]byte(data), &ev); err != nil {
		logger.Get().Warn("Failed to parse SSE data, skipping line",
			zap.String("data", data),
			zap.Error(err))
		return Event{}, false
	}
	return ev, true
}
