package domain

import (
	"encoding/json"
	"time"
)

// SectionType identifies the kind of questions a section holds.
type SectionType string

const (
	SectionFillInBlank          SectionType = "fill_in_blank"
	SectionMultipleChoice       SectionType = "multiple_choice"
	SectionTrueFalse            SectionType = "true_false"
	SectionShortAnswer          SectionType = "short_answer"
	SectionLongAnswer           SectionType = "long_answer"
	SectionSentenceOrdering     SectionType = "sentence_ordering"
	SectionReadingComprehension SectionType = "reading_comprehension"
)

// Valid reports whether t names a known section type.
func (t SectionType) Valid() bool {
	switch t {
	case SectionFillInBlank, SectionMultipleChoice, SectionTrueFalse,
		SectionShortAnswer, SectionLongAnswer, SectionSentenceOrdering,
		SectionReadingComprehension:
		return true
	}
	return false
}

// DisplayName returns a human-readable title for the section type.
func (t SectionType) DisplayName() string {
	switch t {
	case SectionFillInBlank:
		return "Fill in the Blank"
	case SectionMultipleChoice:
		return "Multiple Choice"
	case SectionTrueFalse:
		return "True or False"
	case SectionShortAnswer:
		return "Short Answer"
	case SectionLongAnswer:
		return "Long Answer"
	case SectionSentenceOrdering:
		return "Sentence Ordering"
	case SectionReadingComprehension:
		return "Reading Comprehension"
	}
	return string(t)
}

// FillBlankStyle controls how fill-in-blank sections present answers.
type FillBlankStyle string

const (
	FillBlankNoHints    FillBlankStyle = "no_hints"
	FillBlankWithHints  FillBlankStyle = "with_hints"
	FillBlankAnswerList FillBlankStyle = "answer_list"
)

// Valid reports whether s names a known fill-in-blank style.
func (s FillBlankStyle) Valid() bool {
	switch s {
	case FillBlankNoHints, FillBlankWithHints, FillBlankAnswerList:
		return true
	}
	return false
}

// SectionSpec describes one requested section of an exam to generate.
// ReferenceSectionID, when nonzero, points at an earlier section whose
// content this section should build on.
type SectionSpec struct {
	ID                 int
	Type               SectionType
	Prompt             string
	ReferenceSectionID int
	FillBlankStyle     FillBlankStyle
	PassageLength      string
}

// GenerationRequest is the input to exam content generation.
type GenerationRequest struct {
	Subject  string
	Sections []SectionSpec
}

// Question is one generated question. The answer-key fields mirror the
// shapes models actually emit: the same logical key may arrive as
// "correct", "correct_answer", "correct_answers" or "answer", as a
// string, a number, a bool, or an array. ResolveAnswerKey canonicalizes
// them; nothing else should read the raw fields.
type Question struct {
	Question       string          `json:"question"`
	Options        []string        `json:"options,omitempty"`
	Correct        json.RawMessage `json:"correct,omitempty"`
	CorrectAnswer  json.RawMessage `json:"correct_answer,omitempty"`
	CorrectAnswers []string        `json:"correct_answers,omitempty"`
	Answer         json.RawMessage `json:"answer,omitempty"`
	Keywords       []string        `json:"keywords,omitempty"`
	ModelAnswer    string          `json:"modelAnswer,omitempty"`
	Sentences      []string        `json:"sentences,omitempty"`
	CorrectOrder   []int           `json:"correctOrder,omitempty"`
}

// Section is one section of a generated exam.
type Section struct {
	ID         int         `json:"id"`
	Type       SectionType `json:"type"`
	Title      string      `json:"title"`
	Passage    string      `json:"passage,omitempty"`
	AnswerList []string    `json:"answerList,omitempty"`
	Questions  []Question  `json:"questions"`
}

// ExamDocument is a complete stored exam.
type ExamDocument struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"createdAt"`
	Sections  []Section `json:"sections"`
}

// QuestionCount returns the total number of questions across sections.
func (d *ExamDocument) QuestionCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Questions)
	}
	return n
}
