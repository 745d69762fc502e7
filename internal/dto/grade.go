package dto

import "time"

// GradeRequest is the body of POST /api/exams/:id/grade. Answers are
// keyed by question identifier ("q_<sectionIndex>_<questionIndex>").
// StartedAt, when present, is the instant the exam was started and is
// used only to report elapsed time.
type GradeRequest struct {
	Answers   map[string]string `json:"answers"`
	StartedAt *time.Time        `json:"startedAt,omitempty"`
}

// GradeDetail is the per-question grading outcome. IsCorrect is nil
// when the question requires manual grading.
type GradeDetail struct {
	Question      string   `json:"question"`
	UserAnswer    string   `json:"userAnswer"`
	CorrectAnswer string   `json:"correctAnswer"`
	IsCorrect     *bool    `json:"isCorrect"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectIndex  *int     `json:"correctIndex,omitempty"`
	UserIndex     *int     `json:"userIndex,omitempty"`
}

// TimeTaken reports the elapsed exam duration.
type TimeTaken struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}

// GradeReport aggregates the grading outcome for one submission. It is
// recomputed fresh on every submission and never persisted.
type GradeReport struct {
	Score                  int           `json:"score"`
	Total                  int           `json:"total"`
	Percentage             int           `json:"percentage"`
	Details                []GradeDetail `json:"details"`
	AutoGradeableQuestions int           `json:"autoGradeableQuestions"`
	ManualGradingQuestions int           `json:"manualGradingQuestions"`
	TimeTaken              TimeTaken     `json:"timeTaken"`
}

// ModelInfo is one entry of the free-model listing.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConnectionStatus reports the outcome of a connection test.
type ConnectionStatus struct {
	OK bool `json:"ok"`
}

// ErrorResponse is the minimal error body used by handlers that bypass
// the error middleware.
type ErrorResponse struct {
	Error string `json:"error"`
}
