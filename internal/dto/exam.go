package dto

import (
	"time"

	"examgen/internal/domain"
)

// SectionSpecRequest is one requested section in a generation request.
type SectionSpecRequest struct {
	ID                 int    `json:"id"`
	Type               string `json:"type"`
	Prompt             string `json:"prompt,omitempty"`
	ReferenceSectionID int    `json:"referenceSectionId,omitempty"`
	FillBlankStyle     string `json:"fillBlankStyle,omitempty"`
	PassageLength      string `json:"passageLength,omitempty"`
}

// GenerateExamRequest is the body of POST /api/exams/generate.
type GenerateExamRequest struct {
	Subject  string               `json:"subject"`
	Sections []SectionSpecRequest `json:"sections"`
}

// ToDomain converts the request to its domain form.
func (r *GenerateExamRequest) ToDomain() *domain.GenerationRequest {
	sections := make([]domain.SectionSpec, 0, len(r.Sections))
	for _, s := range r.Sections {
		sections = append(sections, domain.SectionSpec{
			ID:                 s.ID,
			Type:               domain.SectionType(s.Type),
			Prompt:             s.Prompt,
			ReferenceSectionID: s.ReferenceSectionID,
			FillBlankStyle:     domain.FillBlankStyle(s.FillBlankStyle),
			PassageLength:      s.PassageLength,
		})
	}
	return &domain.GenerationRequest{Subject: r.Subject, Sections: sections}
}

// ExamResponse is the full exam document as served to clients.
type ExamResponse struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Subject   string           `json:"subject"`
	CreatedAt time.Time        `json:"createdAt"`
	Sections  []domain.Section `json:"sections"`
}

// ExamSummary is the listing shape: metadata plus counts, no content.
type ExamSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Subject       string    `json:"subject"`
	CreatedAt     time.Time `json:"createdAt"`
	SectionCount  int       `json:"sectionCount"`
	QuestionCount int       `json:"questionCount"`
}

// UpdateExamRequest replaces a stored exam wholesale.
type UpdateExamRequest struct {
	Title    string           `json:"title"`
	Subject  string           `json:"subject"`
	Sections []domain.Section `json:"sections"`
}

// ImportResponse reports how many exams an import ingested.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// NewExamResponse builds the response shape from a domain document.
func NewExamResponse(doc *domain.ExamDocument) *ExamResponse {
	return &ExamResponse{
		ID:        doc.ID,
		Title:     doc.Title,
		Subject:   doc.Subject,
		CreatedAt: doc.CreatedAt,
		Sections:  doc.Sections,
	}
}

// NewExamSummary builds the listing shape from a domain document.
func NewExamSummary(doc *domain.ExamDocument) *ExamSummary {
	return &ExamSummary{
		ID:            doc.ID,
		Title:         doc.Title,
		Subject:       doc.Subject,
		CreatedAt:     doc.CreatedAt,
		SectionCount:  len(doc.Sections),
		QuestionCount: doc.QuestionCount(),
	}
}
