package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"examgen/internal/domain"
	"examgen/internal/dto"
	"examgen/internal/logger"

	"go.uber.org/zap"
)

// GradingService grades submissions against stored exams. Grading is a
// pure computation over the document and the submitted answers; a
// report is recomputed on every call and never persisted.
type GradingService struct {
	repo domain.ExamRepository
	now  func() time.Time
}

func NewGradingService(repo domain.ExamRepository) *GradingService {
	return &GradingService{repo: repo, now: time.Now}
}

// GradeExam loads the exam and grades the submission. Objective
// questions (multiple choice, true/false, fill in the blank) are scored
// automatically; short and long answers are reported as requiring
// manual grading; sentence ordering and passage-only sections carry no
// gradable questions and are skipped.
func (s *GradingService) GradeExam(ctx context.Context, examID string, req *dto.GradeRequest) (*dto.GradeReport, error) {
	doc, err := s.repo.GetExamByID(ctx, examID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load exam", err)
	}
	if doc == nil {
		return nil, domain.NewExamNotFoundError(examID)
	}

	report := gradeDocument(doc, req.Answers)

	elapsed := 0
	if req.StartedAt != nil {
		if d := s.now().Sub(*req.StartedAt); d > 0 {
			elapsed = int(d.Seconds())
		}
	}
	report.TimeTaken = dto.TimeTaken{Seconds: elapsed, Formatted: formatElapsed(elapsed)}

	logger.Get().Info("Exam graded",
		zap.String("exam_id", examID),
		zap.Int("score", report.Score),
		zap.Int("total", report.Total))

	return report, nil
}

func gradeDocument(doc *domain.ExamDocument, answers map[string]string) *dto.GradeReport {
	report := &dto.GradeReport{Details: []dto.GradeDetail{}}

	for sectionIdx, section := range doc.Sections {
		for questionIdx := range section.Questions {
			question := &section.Questions[questionIdx]
			questionID := fmt.Sprintf("q_%d_%d", sectionIdx, questionIdx)
			submission, answered := answers[questionID]

			switch section.Type {
			case domain.SectionMultipleChoice:
				report.Total++
				detail := gradeObjective(section.Type, question, submission, answered)
				detail.Options = question.Options
				key := domain.ResolveAnswerKey(section.Type, question)
				detail.CorrectIndex = key.Index
				if answered {
					if idx, err := strconv.Atoi(submission); err == nil {
						detail.UserIndex = &idx
					}
				}
				if detail.IsCorrect != nil && *detail.IsCorrect {
					report.Score++
				}
				report.Details = append(report.Details, detail)

			case domain.SectionTrueFalse, domain.SectionFillInBlank:
				report.Total++
				detail := gradeObjective(section.Type, question, submission, answered)
				if detail.IsCorrect != nil && *detail.IsCorrect {
					report.Score++
				}
				report.Details = append(report.Details, detail)

			case domain.SectionShortAnswer, domain.SectionLongAnswer:
				report.Total++
				userAnswer := submission
				if userAnswer == "" {
					userAnswer = "No answer"
				}
				report.Details = append(report.Details, dto.GradeDetail{
					Question:      questionText(question),
					UserAnswer:    userAnswer,
					CorrectAnswer: "Requires manual grading",
					IsCorrect:     nil,
					Type:          string(section.Type),
				})
			}
		}
	}

	if report.Total > 0 {
		report.Percentage = int(math.Round(float64(report.Score) / float64(report.Total) * 100))
	}
	for _, d := range report.Details {
		if d.IsCorrect != nil {
			report.AutoGradeableQuestions++
		} else {
			report.ManualGradingQuestions++
		}
	}
	return report
}

// gradeObjective grades one objective question. A question whose answer
// key cannot be resolved is still counted; it simply never matches and
// its key is reported as not provided.
func gradeObjective(t domain.SectionType, q *domain.Question, submission string, answered bool) dto.GradeDetail {
	key := domain.ResolveAnswerKey(t, q)

	isCorrect := answered && key.Matches(t, submission)

	userAnswer := submission
	if userAnswer == "" {
		userAnswer = "No answer"
	}
	correctAnswer := key.Display
	if !key.Provided {
		correctAnswer = "Not provided"
	}

	return dto.GradeDetail{
		Question:      questionText(q),
		UserAnswer:    userAnswer,
		CorrectAnswer: correctAnswer,
		IsCorrect:     &isCorrect,
		Type:          string(t),
	}
}

func questionText(q *domain.Question) string {
	if q.Question != "" {
		return q.Question
	}
	return "Question"
}

// formatElapsed renders a duration like "1h 2m 3s". Minutes appear
// whenever hours do, even at zero.
func formatElapsed(totalSeconds int) string {
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	result := ""
	if hours > 0 {
		result += fmt.Sprintf("%dh ", hours)
	}
	if minutes > 0 || hours > 0 {
		result += fmt.Sprintf("%dm ", minutes)
	}
	result += fmt.Sprintf("%ds", seconds)
	return result
}
