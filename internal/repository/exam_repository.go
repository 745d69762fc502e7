package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"examgen/internal/domain"
	"examgen/internal/repository/models"
	"examgen/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxExamRepository implements domain.ExamRepository using sqlx over
// SQLite.
type sqlxExamRepository struct {
	db *sqlx.DB
}

// NewSQLXExamRepository creates a new instance of sqlxExamRepository.
func NewSQLXExamRepository(db *sqlx.DB) domain.ExamRepository {
	return &sqlxExamRepository{db: db}
}

// AddExam inserts a new exam, assigning a fresh ULID and creation
// timestamp regardless of what the document carries.
func (r *sqlxExamRepository) AddExam(ctx context.Context, doc *domain.ExamDocument) (string, error) {
	row, err := toRow(doc)
	if err != nil {
		return "", err
	}
	row.ID = util.NewULID()
	now := time.Now().UTC()
	row.CreatedAt = now
	row.UpdatedAt = now

	query := `INSERT INTO exams (id, title, subject, sections, created_at, updated_at)
	          VALUES (:id, :title, :subject, :sections, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return "", fmt.Errorf("failed to insert exam: %w", err)
	}

	doc.ID = row.ID
	doc.CreatedAt = row.CreatedAt
	return row.ID, nil
}

// GetExamByID retrieves an exam by ID. Returns nil, nil when no exam
// with that ID exists.
func (r *sqlxExamRepository) GetExamByID(ctx context.Context, id string) (*domain.ExamDocument, error) {
	var row models.Exam
	query := `SELECT id, title, subject, sections, created_at, updated_at FROM exams WHERE id = ?`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get exam by id: %w", err)
	}
	return fromRow(&row)
}

// GetAllExams retrieves every stored exam, newest first.
func (r *sqlxExamRepository) GetAllExams(ctx context.Context) ([]*domain.ExamDocument, error) {
	var rows []models.Exam
	query := `SELECT id, title, subject, sections, created_at, updated_at FROM exams ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	docs := make([]*domain.ExamDocument, 0, len(rows))
	for i := range rows {
		doc, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// UpdateExam replaces the stored exam content and reports whether a row
// with the document's ID existed.
func (r *sqlxExamRepository) UpdateExam(ctx context.Context, doc *domain.ExamDocument) (bool, error) {
	row, err := toRow(doc)
	if err != nil {
		return false, err
	}
	row.ID = doc.ID
	row.UpdatedAt = time.Now().UTC()

	query := `UPDATE exams SET title = :title, subject = :subject, sections = :sections, updated_at = :updated_at
	          WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return false, fmt.Errorf("failed to update exam: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// RemoveExam deletes an exam. Deleting an absent ID is not an error at
// this layer; the service decides whether absence matters.
func (r *sqlxExamRepository) RemoveExam(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	return nil
}

func toRow(doc *domain.ExamDocument) (*models.Exam, error) {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize exam sections: %w", err)
	}
	return &models.Exam{
		Title:    doc.Title,
		Subject:  doc.Subject,
		Sections: string(sections),
	}, nil
}

func fromRow(row *models.Exam) (*domain.ExamDocument, error) {
	var sections []domain.Section
	if err := json.Unmarshal([]byte(row.Sections), &sections); err != nil {
		return nil, fmt.Errorf("failed to deserialize sections for exam %s: %w", row.ID, err)
	}
	return &domain.ExamDocument{
		ID:        row.ID,
		Title:     row.Title,
		Subject:   row.Subject,
		CreatedAt: row.CreatedAt,
		Sections:  sections,
	}, nil
}
