package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ExamRepository owns persisted exam documents. Mutations are
// whole-document replace-or-append operations; the pipeline never
// mutates a stored exam in place.
type ExamRepository interface {
	// AddExam stores the document, assigning a fresh ID and CreatedAt,
	// and returns the assigned ID.
	AddExam(ctx context.Context, doc *ExamDocument) (string, error)
	// GetExamByID returns nil (no error) when the exam does not exist.
	GetExamByID(ctx context.Context, id string) (*ExamDocument, error)
	GetAllExams(ctx context.Context) ([]*ExamDocument, error)
	// UpdateExam replaces the stored document and reports whether a row
	// with the document's ID existed.
	UpdateExam(ctx context.Context, doc *ExamDocument) (bool, error)
	RemoveExam(ctx context.Context, id string) error
}

// Cache is a string key-value cache with expiration.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ProgressSink receives accumulated reasoning/content snapshots while a
// generation call is streaming, so a caller can render live updates.
type ProgressSink interface {
	Update(reasoning, content string)
}

// ProgressFunc adapts a plain function to the ProgressSink interface.
type ProgressFunc func(reasoning, content string)

func (f ProgressFunc) Update(reasoning, content string) { f(reasoning, content) }

// ExamContentGenerator produces a validated exam document body from a
// generation request. The returned document carries no ID or CreatedAt;
// those are assigned at persistence time.
type ExamContentGenerator interface {
	IsConfigured() bool
	GenerateExamContent(ctx context.Context, req *GenerationRequest, progress ProgressSink) (*ExamDocument, error)
}

// ModelCatalog lists the models available at the generation service.
type ModelCatalog interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// ConnectionTester verifies that the generation service is reachable
// with the configured credentials.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}
