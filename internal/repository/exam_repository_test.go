package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"examgen/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (domain.ExamRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewSQLXExamRepository(sqlx.NewDb(mockDB, "sqlite")), mock
}

func sampleDoc() *domain.ExamDocument {
	return &domain.ExamDocument{
		Title:   "Sample",
		Subject: "History",
		Sections: []domain.Section{
			{ID: 1, Type: domain.SectionTrueFalse, Title: "TF",
				Questions: []domain.Question{{Question: "Q", Correct: []byte("true")}}},
		},
	}
}

func sectionsJSON(t *testing.T, doc *domain.ExamDocument) string {
	t.Helper()
	raw, err := json.Marshal(doc.Sections)
	require.NoError(t, err)
	return string(raw)
}

func TestAddExam(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := sampleDoc()

	mock.ExpectExec("INSERT INTO exams").
		WillReturnResult(sqlmock.NewResult(1, 1))

	id, err := repo.AddExam(context.Background(), doc)

	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, doc.ID)
	assert.False(t, doc.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExamByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := sampleDoc()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "title", "subject", "sections", "created_at", "updated_at"}).
		AddRow("01ABC", "Sample", "History", sectionsJSON(t, doc), now, now)
	mock.ExpectQuery("SELECT (.+) FROM exams WHERE id").
		WithArgs("01ABC").
		WillReturnRows(rows)

	got, err := repo.GetExamByID(context.Background(), "01ABC")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "01ABC", got.ID)
	assert.Equal(t, "Sample", got.Title)
	require.Len(t, got.Sections, 1)
	assert.Equal(t, domain.SectionTrueFalse, got.Sections[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetExamByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM exams WHERE id").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "subject", "sections", "created_at", "updated_at"}))

	got, err := repo.GetExamByID(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllExams(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := sampleDoc()
	now := time.Now().UTC()

	rows := sqlmock.NewRows([]string{"id", "title", "subject", "sections", "created_at", "updated_at"}).
		AddRow("01B", "Newer", "History", sectionsJSON(t, doc), now, now).
		AddRow("01A", "Older", "History", sectionsJSON(t, doc), now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM exams ORDER BY created_at DESC").
		WillReturnRows(rows)

	docs, err := repo.GetAllExams(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Newer", docs[0].Title)
	assert.Equal(t, "Older", docs[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateExam(t *testing.T) {
	repo, mock := newMockRepo(t)
	doc := sampleDoc()
	doc.ID = "01ABC"

	t.Run("Found", func(t *testing.T) {
		mock.ExpectExec("UPDATE exams SET").
			WillReturnResult(sqlmock.NewResult(0, 1))

		found, err := repo.UpdateExam(context.Background(), doc)

		require.NoError(t, err)
		assert.True(t, found)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec("UPDATE exams SET").
			WillReturnResult(sqlmock.NewResult(0, 0))

		found, err := repo.UpdateExam(context.Background(), doc)

		require.NoError(t, err)
		assert.False(t, found)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveExam(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM exams WHERE id").
		WithArgs("01ABC").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveExam(context.Background(), "01ABC"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
