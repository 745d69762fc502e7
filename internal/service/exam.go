package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"examgen/internal/domain"
	"examgen/internal/dto"
	"examgen/internal/logger"
	"examgen/internal/validation"

	"go.uber.org/zap"
)

// ExamService coordinates exam generation and document CRUD. At most
// one generation may run at a time per service instance; concurrent
// callers receive a GENERATION_IN_PROGRESS error instead of queuing.
type ExamService struct {
	repo       domain.ExamRepository
	generator  domain.ExamContentGenerator
	generating atomic.Bool
}

func NewExamService(repo domain.ExamRepository, generator domain.ExamContentGenerator) *ExamService {
	return &ExamService{
		repo:      repo,
		generator: generator,
	}
}

// GenerateExam validates the request, produces exam content (via the
// configured generator, or a static template when no credential is
// set), persists it, and returns the stored document.
func (s *ExamService) GenerateExam(ctx context.Context, req *dto.GenerateExamRequest, progress domain.ProgressSink) (*dto.ExamResponse, error) {
	if err := validation.ValidateGenerateRequest(req); err != nil {
		return nil, err
	}

	if !s.generating.CompareAndSwap(false, true) {
		return nil, domain.NewGenerationInProgressError()
	}
	// Released on return, so the guard covers persistence as well as
	// generation: no second generate call can interleave with AddExam.
	defer s.generating.Store(false)

	domainReq := req.ToDomain()

	var doc *domain.ExamDocument
	var err error
	if s.generator != nil && s.generator.IsConfigured() {
		doc, err = s.generator.GenerateExamContent(ctx, domainReq, progress)
		if err != nil {
			logger.Get().Error("Exam generation failed",
				zap.String("subject", req.Subject),
				zap.Error(err))
			return nil, err
		}
	} else {
		logger.Get().Info("Generator not configured, producing basic template",
			zap.String("subject", req.Subject))
		doc = basicTemplate(domainReq)
	}

	id, err := s.repo.AddExam(ctx, doc)
	if err != nil {
		return nil, domain.NewInternalError("failed to save generated exam", err)
	}
	doc.ID = id

	logger.Get().Info("Exam generated and saved",
		zap.String("exam_id", id),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("questions", doc.QuestionCount()))

	return dto.NewExamResponse(doc), nil
}

// GetExam returns the exam with the given ID.
func (s *ExamService) GetExam(ctx context.Context, id string) (*dto.ExamResponse, error) {
	doc, err := s.repo.GetExamByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if doc == nil {
		return nil, domain.NewExamNotFoundError(id)
	}
	return dto.NewExamResponse(doc), nil
}

// ListExams returns summaries of all stored exams.
func (s *ExamService) ListExams(ctx context.Context) ([]*dto.ExamSummary, error) {
	docs, err := s.repo.GetAllExams(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to list exams", err)
	}
	summaries := make([]*dto.ExamSummary, 0, len(docs))
	for _, doc := range docs {
		summaries = append(summaries, dto.NewExamSummary(doc))
	}
	return summaries, nil
}

// UpdateExam replaces a stored exam's content wholesale.
func (s *ExamService) UpdateExam(ctx context.Context, id string, req *dto.UpdateExamRequest) (*dto.ExamResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, domain.NewInvalidInputError("title is required")
	}

	existing, err := s.repo.GetExamByID(ctx, id)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if existing == nil {
		return nil, domain.NewExamNotFoundError(id)
	}

	doc := &domain.ExamDocument{
		ID:        id,
		Title:     req.Title,
		Subject:   req.Subject,
		CreatedAt: existing.CreatedAt,
		Sections:  req.Sections,
	}
	found, err := s.repo.UpdateExam(ctx, doc)
	if err != nil {
		return nil, domain.NewInternalError("failed to update exam", err)
	}
	if !found {
		return nil, domain.NewExamNotFoundError(id)
	}
	return dto.NewExamResponse(doc), nil
}

// DeleteExam removes a stored exam. Deleting an absent exam is an error.
func (s *ExamService) DeleteExam(ctx context.Context, id string) error {
	doc, err := s.repo.GetExamByID(ctx, id)
	if err != nil {
		return domain.NewInternalError("failed to load exam", err)
	}
	if doc == nil {
		return domain.NewExamNotFoundError(id)
	}
	if err := s.repo.RemoveExam(ctx, id); err != nil {
		return domain.NewInternalError("failed to delete exam", err)
	}
	logger.Get().Info("Exam deleted", zap.String("exam_id", id))
	return nil
}

// ExportExams returns every stored exam in full, for backup.
func (s *ExamService) ExportExams(ctx context.Context) ([]*dto.ExamResponse, error) {
	docs, err := s.repo.GetAllExams(ctx)
	if err != nil {
		return nil, domain.NewInternalError("failed to export exams", err)
	}
	out := make([]*dto.ExamResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, dto.NewExamResponse(doc))
	}
	return out, nil
}

// ImportExams ingests previously exported exams. Each entry is stored
// as a new document with a fresh ID and timestamp; incoming IDs are
// discarded so an import can never clobber existing exams.
func (s *ExamService) ImportExams(ctx context.Context, exams []dto.UpdateExamRequest) (*dto.ImportResponse, error) {
	if len(exams) == 0 {
		return nil, domain.NewInvalidInputError("no exams to import")
	}
	for i, exam := range exams {
		if strings.TrimSpace(exam.Title) == "" {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("exam %d has no title", i+1))
		}
		if len(exam.Sections) == 0 {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("exam %q has no sections", exam.Title))
		}
	}

	imported := 0
	for _, exam := range exams {
		doc := &domain.ExamDocument{
			Title:    exam.Title,
			Subject:  exam.Subject,
			Sections: exam.Sections,
		}
		if _, err := s.repo.AddExam(ctx, doc); err != nil {
			return nil, domain.NewInternalError("failed to import exams", err)
		}
		imported++
	}

	logger.Get().Info("Exams imported", zap.Int("count", imported))
	return &dto.ImportResponse{Imported: imported}, nil
}

// basicTemplate builds a placeholder exam when no generator credential
// is configured, so the authoring flow stays usable offline.
func basicTemplate(req *domain.GenerationRequest) *domain.ExamDocument {
	doc := &domain.ExamDocument{
		Title:   fmt.Sprintf("%s Exam", req.Subject),
		Subject: req.Subject,
	}

	for i, spec := range req.Sections {
		section := domain.Section{
			ID:    spec.ID,
			Type:  spec.Type,
			Title: fmt.Sprintf("Section %d: %s", i+1, spec.Type.DisplayName()),
		}

		switch spec.Type {
		case domain.SectionFillInBlank:
			section.Questions = append(section.Questions, domain.Question{
				Question: fmt.Sprintf("Fill in the blank about %s: The _____ is important.", req.Subject),
				Answer:   jsonString("concept"),
			})
		case domain.SectionMultipleChoice:
			section.Questions = append(section.Questions, domain.Question{
				Question: fmt.Sprintf("Which best describes %s?", req.Subject),
				Options:  []string{"Option A", "Option B", "Option C", "Option D"},
				Correct:  []byte("0"),
			})
		case domain.SectionTrueFalse:
			section.Questions = append(section.Questions, domain.Question{
				Question: fmt.Sprintf("%s is a fundamental subject.", req.Subject),
				Correct:  []byte("true"),
			})
		case domain.SectionReadingComprehension:
			section.Passage = fmt.Sprintf(
				"This is a sample passage about %s. It contains basic information for demonstration purposes.",
				req.Subject)
		default:
			section.Questions = append(section.Questions, domain.Question{
				Question: fmt.Sprintf("Sample question about %s", req.Subject),
				Answer:   jsonString("Sample answer"),
			})
		}

		doc.Sections = append(doc.Sections, section)
	}
	return doc
}

func jsonString(s string) []byte {
	return []byte(fmt.Sprintf("%q", s))
}
