package handler

import (
	"examgen/internal/domain"
	"examgen/internal/dto"
	"examgen/internal/logger"
	"examgen/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ExamHandler handles exam-related HTTP requests
type ExamHandler struct {
	examService    *service.ExamService
	gradingService *service.GradingService
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(examService *service.ExamService, gradingService *service.GradingService) *ExamHandler {
	return &ExamHandler{
		examService:    examService,
		gradingService: gradingService,
	}
}

// GenerateExam godoc
// @Summary Generate a new exam
// @Description Generates an exam from the requested section specs and saves it
// @Tags exams
// @Accept json
// @Produce json
// @Param request body dto.GenerateExamRequest true "Generation request"
// @Success 201 {object} dto.ExamResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /exams/generate [post]
func (h *ExamHandler) GenerateExam(c *fiber.Ctx) error {
	var req dto.GenerateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	// Streamed snapshots have no HTTP surface here; log them so a long
	// generation is observable.
	progress := domain.ProgressFunc(func(reasoning, content string) {
		logger.Get().Debug("Generation progress",
			zap.Int("reasoning_length", len(reasoning)),
			zap.Int("content_length", len(content)))
	})

	exam, err := h.examService.GenerateExam(c.Context(), &req, progress)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(exam)
}

// ListExams godoc
// @Summary List stored exams
// @Description Returns summaries of all stored exams, newest first
// @Tags exams
// @Produce json
// @Success 200 {array} dto.ExamSummary
// @Failure 500 {object} middleware.ErrorResponse
// @Router /exams [get]
func (h *ExamHandler) ListExams(c *fiber.Ctx) error {
	summaries, err := h.examService.ListExams(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

// GetExam godoc
// @Summary Get an exam
// @Description Returns the full exam document
// @Tags exams
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.ExamResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id} [get]
func (h *ExamHandler) GetExam(c *fiber.Ctx) error {
	exam, err := h.examService.GetExam(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(exam)
}

// UpdateExam godoc
// @Summary Update an exam
// @Description Replaces a stored exam's content
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Replacement content"
// @Success 200 {object} dto.ExamResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id} [put]
func (h *ExamHandler) UpdateExam(c *fiber.Ctx) error {
	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	exam, err := h.examService.UpdateExam(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(exam)
}

// DeleteExam godoc
// @Summary Delete an exam
// @Tags exams
// @Param id path string true "Exam ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id} [delete]
func (h *ExamHandler) DeleteExam(c *fiber.Ctx) error {
	if err := h.examService.DeleteExam(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExportExams godoc
// @Summary Export all exams
// @Description Returns every stored exam in full, for backup
// @Tags exams
// @Produce json
// @Success 200 {array} dto.ExamResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /exams/export [get]
func (h *ExamHandler) ExportExams(c *fiber.Ctx) error {
	exams, err := h.examService.ExportExams(c.Context())
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="exams.json"`)
	return c.JSON(exams)
}

// ImportExams godoc
// @Summary Import exams
// @Description Ingests previously exported exams as new documents
// @Tags exams
// @Accept json
// @Produce json
// @Param request body []dto.UpdateExamRequest true "Exams to import"
// @Success 200 {object} dto.ImportResponse
// @Failure 400 {object} middleware.ErrorResponse
// @Router /exams/import [post]
func (h *ExamHandler) ImportExams(c *fiber.Ctx) error {
	var exams []dto.UpdateExamRequest
	if err := c.BodyParser(&exams); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	result, err := h.examService.ImportExams(c.Context(), exams)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// GradeExam godoc
// @Summary Grade a submission
// @Description Grades submitted answers against the stored exam
// @Tags exams
// @Accept json
// @Produce json
// @Param id path string true "Exam ID"
// @Param request body dto.GradeRequest true "Submitted answers"
// @Success 200 {object} dto.GradeReport
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/{id}/grade [post]
func (h *ExamHandler) GradeExam(c *fiber.Ctx) error {
	var req dto.GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	report, err := h.gradingService.GradeExam(c.Context(), c.Params("id"), &req)
	if err != nil {
		return err
	}
	return c.JSON(report)
}
