package openrouter

import (
	"testing"

	"examgen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	reasoning string
	content   string
}

func recordingSink(snaps *[]snapshot) domain.ProgressSink {
	return domain.ProgressFunc(func(reasoning, content string) {
		*snaps = append(*snaps, snapshot{reasoning: reasoning, content: content})
	})
}

func TestAccumulator_ConcatenatesInArrivalOrder(t *testing.T) {
	acc := NewAccumulator(nil)

	for _, piece := range []string{"The ", "quick ", "brown ", "fox"} {
		p := piece
		acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Content: &p}}}})
	}

	assert.Equal(t, "The quick brown fox", acc.Content())
	assert.Empty(t, acc.Reasoning())
}

func TestAccumulator_SeparatesReasoningFromContent(t *testing.T) {
	acc := NewAccumulator(nil)

	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Reasoning: strptr("thinking...")}}}})
	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Content: strptr("answer")}}}})
	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Content: strptr(" text"), Reasoning: strptr(" more")}}}})

	assert.Equal(t, "answer text", acc.Content())
	assert.Equal(t, "thinking... more", acc.Reasoning())
}

func TestAccumulator_PrefersDeltaOverMessage(t *testing.T) {
	acc := NewAccumulator(nil)

	acc.Ingest(Event{Choices: []Choice{{
		Delta:   &EventMessage{Content: strptr("from delta")},
		Message: &EventMessage{Content: strptr("from message")},
	}}})

	assert.Equal(t, "from delta", acc.Content())
}

func TestAccumulator_SnapshotsOnlyWhenSomethingAppended(t *testing.T) {
	var snaps []snapshot
	acc := NewAccumulator(recordingSink(&snaps))

	// Nothing to append: no snapshot.
	acc.Ingest(Event{})
	acc.Ingest(Event{Choices: []Choice{{}}})
	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{}}}})
	assert.Empty(t, snaps)

	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Content: strptr("a")}}}})
	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Reasoning: strptr("r")}}}})

	require.Len(t, snaps, 2)
	assert.Equal(t, snapshot{reasoning: "", content: "a"}, snaps[0])
	assert.Equal(t, snapshot{reasoning: "r", content: "a"}, snaps[1])
}

func TestAccumulator_EmptyStringDeltaStillSnapshots(t *testing.T) {
	// An empty string is a present field, distinct from an absent one.
	var snaps []snapshot
	acc := NewAccumulator(recordingSink(&snaps))

	acc.Ingest(Event{Choices: []Choice{{Delta: &EventMessage{Content: strptr("")}}}})

	assert.Len(t, snaps, 1)
	assert.Empty(t, acc.Content())
}
