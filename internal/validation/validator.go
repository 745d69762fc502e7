package validation

import (
	"fmt"
	"strconv"
	"strings"

	"examgen/internal/domain"
	"examgen/internal/dto"
)

const maxPassageSentences = 20

// ValidateGenerateRequest checks the section-spec invariants before any
// generation work starts: a subject, at least one section, known types
// and styles, reference sections pointing strictly backwards, and a
// passage length that is either numeric (1..20) or a legacy descriptor.
func ValidateGenerateRequest(req *dto.GenerateExamRequest) error {
	if strings.TrimSpace(req.Subject) == "" {
		return domain.NewInvalidInputError("subject is required")
	}
	if len(req.Sections) == 0 {
		return domain.NewInvalidInputError("at least one section is required")
	}

	for _, section := range req.Sections {
		if section.ID <= 0 {
			return domain.NewInvalidInputError(fmt.Sprintf("section id %d must be positive", section.ID))
		}
		if !domain.SectionType(section.Type).Valid() {
			return domain.NewInvalidInputError(fmt.Sprintf("section %d has unknown type %q", section.ID, section.Type))
		}
		if section.ReferenceSectionID != 0 {
			if section.ReferenceSectionID < 0 || section.ReferenceSectionID >= section.ID {
				return domain.NewInvalidInputError(fmt.Sprintf(
					"section %d references section %d, which is not an earlier section",
					section.ID, section.ReferenceSectionID))
			}
		}
		if section.FillBlankStyle != "" && !domain.FillBlankStyle(section.FillBlankStyle).Valid() {
			return domain.NewInvalidInputError(fmt.Sprintf(
				"section %d has unknown fill-in-blank style %q", section.ID, section.FillBlankStyle))
		}
		if err := validatePassageLength(section); err != nil {
			return err
		}
	}
	return nil
}

func validatePassageLength(section dto.SectionSpecRequest) error {
	if section.PassageLength == "" {
		return nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(section.PassageLength)); err == nil {
		if n < 1 || n > maxPassageSentences {
			return domain.NewInvalidInputError(fmt.Sprintf(
				"section %d passage length must be between 1 and %d sentences", section.ID, maxPassageSentences))
		}
		return nil
	}
	switch section.PassageLength {
	case "short", "medium", "long":
		return nil
	}
	return domain.NewInvalidInputError(fmt.Sprintf(
		"section %d has unrecognized passage length %q", section.ID, section.PassageLength))
}
