package openrouter

import (
	"testing"

	"examgen/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func domainErrCode(t *testing.T, err error) domain.ErrorCode {
	t.Helper()
	domainErr, ok := err.(*domain.DomainError)
	require.True(t, ok, "expected *domain.DomainError, got %T", err)
	return domainErr.Code
}

func TestBraceExtractor(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, true},
		{"wrapped in prose", `Here you go: {"a":1} hope it helps!`, `{"a":1}`, true},
		{"greedy over nested braces", `{"a":{"b":2}}`, `{"a":{"b":2}}`, true},
		{"no braces", "nothing here", "", false},
		{"only open brace", "{oops", "", false},
		{"close before open", "} then {", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BraceExtractor{}.Extract(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStructureParser_ValidExam(t *testing.T) {
	parser := NewStructureParser()

	doc, err := parser.Parse(`{
		"title": "T",
		"subject": "S",
		"sections": [
			{"id": 1, "type": "true_false", "title": "Sec 1",
			 "questions": [{"question": "Q1", "correct": true}]}
		]
	}`)

	require.NoError(t, err)
	assert.Equal(t, "T", doc.Title)
	assert.Equal(t, "S", doc.Subject)
	require.Len(t, doc.Sections, 1)
	require.Len(t, doc.Sections[0].Questions, 1)
	assert.Equal(t, "Q1", doc.Sections[0].Questions[0].Question)
}

func TestStructureParser_KeepsSchemaExampleFieldNames(t *testing.T) {
	// The field names the prompt examples ask the model to use must all
	// survive parsing, including the section-level answer list and the
	// per-type answer keys.
	parser := NewStructureParser()

	doc, err := parser.Parse(`{
		"title": "T",
		"subject": "S",
		"sections": [
			{"id": 1, "type": "fill_in_blank", "title": "FIB",
			 "answerList": ["followed", "ran"],
			 "questions": [{"question": "She ____ the rabbit.", "answer": "followed"}]},
			{"id": 2, "type": "long_answer", "title": "LA",
			 "questions": [{"question": "Discuss.", "modelAnswer": "A detailed answer."}]},
			{"id": 3, "type": "sentence_ordering", "title": "SO",
			 "questions": [{"question": "Order these.", "sentences": ["b", "a"], "correctOrder": [1, 0]}]}
		]
	}`)

	require.NoError(t, err)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, []string{"followed", "ran"}, doc.Sections[0].AnswerList)
	assert.Equal(t, "A detailed answer.", doc.Sections[1].Questions[0].ModelAnswer)
	assert.Equal(t, []string{"b", "a"}, doc.Sections[2].Questions[0].Sentences)
	assert.Equal(t, []int{1, 0}, doc.Sections[2].Questions[0].CorrectOrder)
}

func TestStructureParser_AcceptsProseWrappedJSON(t *testing.T) {
	parser := NewStructureParser()

	doc, err := parser.Parse(`Sure! Here is your exam:

{"title":"T","subject":"S","sections":[{"id":1,"type":"short_answer","title":"Sec","questions":[{"question":"Explain."}]}]}

Let me know if you need changes.`)

	require.NoError(t, err)
	assert.Equal(t, "T", doc.Title)
}

func TestStructureParser_MalformedResponses(t *testing.T) {
	parser := NewStructureParser()

	tests := []struct {
		name  string
		input string
	}{
		{"no json at all", "I could not generate an exam."},
		{"unparseable json", `{"title": "T", "subject":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			require.Error(t, err)
			assert.Equal(t, domain.ErrMalformedAIResponse, domainErrCode(t, err))
		})
	}
}

func TestStructureParser_InvalidStructures(t *testing.T) {
	parser := NewStructureParser()

	tests := []struct {
		name  string
		input string
	}{
		{"missing title", `{"subject":"S","sections":[]}`},
		{"missing subject", `{"title":"T","sections":[]}`},
		{"missing sections", `{"title":"T","subject":"S"}`},
		{"section without type", `{"title":"T","subject":"S","sections":[{"title":"Sec","questions":[{"question":"Q"}]}]}`},
		{"section without title", `{"title":"T","subject":"S","sections":[{"type":"true_false","questions":[{"question":"Q"}]}]}`},
		{"section with zero questions", `{"title":"T","subject":"S","sections":[{"type":"true_false","title":"Sec","questions":[]}]}`},
		{"question without text", `{"title":"T","subject":"S","sections":[{"type":"true_false","title":"Sec","questions":[{"correct":true}]}]}`},
		{"reading comprehension without passage", `{"title":"T","subject":"S","sections":[{"type":"reading_comprehension","title":"Sec"}]}`},
		{"reading comprehension with questions", `{"title":"T","subject":"S","sections":[{"type":"reading_comprehension","title":"Sec","passage":"P","questions":[{"question":"Q"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(tt.input)
			require.Error(t, err)
			assert.Equal(t, domain.ErrInvalidExamStructure, domainErrCode(t, err))
		})
	}
}

func TestStructureParser_EmptySectionsArrayIsValid(t *testing.T) {
	parser := NewStructureParser()

	doc, err := parser.Parse(`{"title":"T","subject":"S","sections":[]}`)

	require.NoError(t, err)
	assert.Empty(t, doc.Sections)
}

type fixedExtractor struct{ out string }

func (f fixedExtractor) Extract(string) (string, bool) { return f.out, f.out != "" }

func TestStructureParser_CustomExtractor(t *testing.T) {
	parser := NewStructureParserWith(fixedExtractor{out: `{"title":"T","subject":"S","sections":[]}`})

	doc, err := parser.Parse("ignored")

	require.NoError(t, err)
	assert.Equal(t, "T", doc.Title)
}
