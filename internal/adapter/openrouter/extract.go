package openrouter

import (
	"encoding/json"
	"fmt"
	"strings"

	"examgen/internal/domain"
)

// JSONExtractor locates a JSON document inside surrounding prose. The
// default greedy strategy fails when a response contains two unrelated
// top-level braces; keeping it behind this interface lets a stricter
// strategy replace it without touching validation.
type JSONExtractor interface {
	Extract(text string) (string, bool)
}

// BraceExtractor takes the substring from the first '{' through the
// last '}'. Models are expected to wrap valid JSON in explanatory
// prose, and this is the tolerance mechanism for that.
type BraceExtractor struct{}

func (BraceExtractor) Extract(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}

// StructureParser turns sanitized model output into a validated exam
// document.
type StructureParser struct {
	extractor JSONExtractor
}

func NewStructureParser() *StructureParser {
	return &StructureParser{extractor: BraceExtractor{}}
}

// NewStructureParserWith uses a custom extraction strategy.
func NewStructureParserWith(extractor JSONExtractor) *StructureParser {
	return &StructureParser{extractor: extractor}
}

// Parse extracts a JSON object from the text, parses it and validates
// the exam schema invariants. Extraction or parse failures signal a
// malformed AI response; schema violations signal an invalid exam
// structure. Neither is retried here; the user must regenerate.
func (p *StructureParser) Parse(content string) (*domain.ExamDocument, error) {
	raw, ok := p.extractor.Extract(content)
	if !ok {
		return nil, domain.NewMalformedAIResponseError(fmt.Errorf("no JSON object found in response"))
	}

	var doc domain.ExamDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, domain.NewMalformedAIResponseError(err)
	}

	if err := validateExamStructure(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// validateExamStructure enforces the schema invariants: title, subject
// and a sections array are required; a reading comprehension section
// needs a passage and must not carry questions; every other section
// needs a non-empty question list and every question a non-empty text.
func validateExamStructure(doc *domain.ExamDocument) error {
	if doc.Title == "" {
		return domain.NewInvalidExamStructureError("missing exam title")
	}
	if doc.Subject == "" {
		return domain.NewInvalidExamStructureError("missing exam subject")
	}
	if doc.Sections == nil {
		return domain.NewInvalidExamStructureError("missing sections array")
	}

	for i, section := range doc.Sections {
		if section.Type == "" {
			return domain.NewInvalidExamStructureError(fmt.Sprintf("section %d has no type", i+1))
		}
		if section.Title == "" {
			return domain.NewInvalidExamStructureError(fmt.Sprintf("section %d has no title", i+1))
		}

		if section.Type == domain.SectionReadingComprehension {
			if section.Passage == "" {
				return domain.NewInvalidExamStructureError(fmt.Sprintf("reading comprehension section %d has no passage", i+1))
			}
			if len(section.Questions) > 0 {
				return domain.NewInvalidExamStructureError(fmt.Sprintf("reading comprehension section %d must not contain questions", i+1))
			}
			continue
		}

		if len(section.Questions) == 0 {
			return domain.NewInvalidExamStructureError(fmt.Sprintf("section %d has no questions", i+1))
		}
		for j, q := range section.Questions {
			if q.Question == "" {
				return domain.NewInvalidExamStructureError(fmt.Sprintf("section %d question %d has no question text", i+1, j+1))
			}
		}
	}
	return nil
}
