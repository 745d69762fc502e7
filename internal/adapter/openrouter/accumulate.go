package openrouter

import (
	"strings"

	"examgen/internal/domain"
)

// Accumulator merges streamed content and reasoning deltas for a single
// generation call. Both buffers are append-only: no event ever removes
// or reorders text that already arrived. After every event that adds to
// either buffer a snapshot is pushed to the progress sink.
type Accumulator struct {
	content   strings.Builder
	reasoning strings.Builder
	sink      domain.ProgressSink
}

func NewAccumulator(sink domain.ProgressSink) *Accumulator {
	return &Accumulator{sink: sink}
}

// Ingest folds one decoded event into the buffers. The delta shape is
// preferred over the message shape; exactly one applies per event.
func (a *Accumulator) Ingest(ev Event) {
	if len(ev.Choices) == 0 {
		return
	}

	choice := ev.Choices[0]
	var msg *EventMessage
	switch {
	case choice.Delta != nil:
		msg = choice.Delta
	case choice.Message != nil:
		msg = choice.Message
	default:
		return
	}

	appended := false
	if msg.Content != nil {
		a.content.WriteString(*msg.Content)
		appended = true
	}
	if msg.Reasoning != nil {
		a.reasoning.WriteString(*msg.Reasoning)
		appended = true
	}

	if appended && a.sink != nil {
		a.sink.Update(a.reasoning.String(), a.content.String())
	}
}

// Content returns the accumulated content buffer.
func (a *Accumulator) Content() string {
	return a.content.String()
}

// Reasoning returns the accumulated reasoning buffer.
func (a *Accumulator) Reasoning() string {
	return a.reasoning.String()
}
