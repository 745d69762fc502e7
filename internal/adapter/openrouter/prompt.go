package openrouter

import (
	"fmt"
	"strconv"
	"strings"

	"examgen/internal/domain"
)

// BuildExamPrompt turns a generation request into the natural-language
// prompt sent to the model: a per-section specification followed by a
// literal JSON example of the expected output, one example object per
// section in input order. The output depends only on the request, so
// the same request always yields the same prompt.
func BuildExamPrompt(req *domain.GenerationRequest) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Generate an educational exam for %s.\n\n", req.Subject)
	fmt.Fprintf(&sb, "The exam should have %d sections with the following specifications:\n\n", len(req.Sections))

	for _, section := range req.Sections {
		fmt.Fprintf(&sb, "SECTION %d: %s\n", section.ID, sectionTypeDescription(section.Type))

		if section.ReferenceSectionID > 0 {
			fmt.Fprintf(&sb, "- Use the same content/passage as Section %d\n", section.ReferenceSectionID)
		}
		if section.Prompt != "" {
			fmt.Fprintf(&sb, "- Specific requirements: %s\n", section.Prompt)
		}

		if section.Type == domain.SectionReadingComprehension {
			sb.WriteString("- This section should ONLY contain a reading passage, NO questions\n")
			sb.WriteString("- Questions based on this passage will be in subsequent sections\n")

			lengthDescription := passageLengthDescription(section.PassageLength)
			if section.Prompt != "" {
				fmt.Fprintf(&sb, "- Passage requirements: %s (%s)\n", section.Prompt, lengthDescription)
			} else {
				fmt.Fprintf(&sb, "- Generate a passage of %s appropriate for the topic\n", lengthDescription)
			}
		}

		if section.Type == domain.SectionFillInBlank {
			switch section.FillBlankStyle {
			case domain.FillBlankNoHints:
				sb.WriteString("- Fill-in-blank style: No hints provided, students input answers directly\n")
			case domain.FillBlankWithHints:
				sb.WriteString("- Fill-in-blank style: Include helpful hints in brackets directly after the blank in the question text (e.g., \"She ____ (follow) the white rabbit yesterday.\")\n")
			case domain.FillBlankAnswerList:
				sb.WriteString("- Fill-in-blank style: Provide a list of all answers at the top of the section\n")
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString("FORMAT INSTRUCTIONS:\n")
	sb.WriteString("Return the response as a valid JSON object with this exact structure:\n\n")
	sb.WriteString("{\n")
	sb.WriteString("    \"title\": \"Exam title\",\n")
	fmt.Fprintf(&sb, "    \"subject\": %q,\n", req.Subject)
	sb.WriteString("    \"sections\": [")

	for i, section := range req.Sections {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("\n        {\n")
		fmt.Fprintf(&sb, "            \"id\": %d,\n", section.ID)
		fmt.Fprintf(&sb, "            \"type\": %q,\n", section.Type)
		sb.WriteString("            \"title\": \"Section title\",\n")
		writeSectionExample(&sb, section)
		sb.WriteString("\n        }")
	}

	sb.WriteString("\n    ]\n}\n\n")
	sb.WriteString("IMPORTANT GUIDELINES:\n")
	sb.WriteString("- Include 5-10 questions per section\n")
	sb.WriteString("- Make questions clear and educational\n")
	sb.WriteString("- Provide realistic options for multiple choice questions\n")
	sb.WriteString("- Use appropriate difficulty level for the topic\n")
	sb.WriteString("- When sections reference other sections, use the exact same passage/content\n")
	sb.WriteString("- Ensure all JSON is valid and properly formatted\n")
	sb.WriteString("- Follow the specific fill-in-blank styles as requested\n\n")
	fmt.Fprintf(&sb, "Generate high-quality, educational content that tests real understanding of %s.", req.Subject)

	return sb.String()
}

// writeSectionExample emits the schema example object body for one
// section, tailored to its type and style variant.
func writeSectionExample(sb *strings.Builder, section domain.SectionSpec) {
	switch section.Type {
	case domain.SectionFillInBlank:
		if section.FillBlankStyle == domain.FillBlankAnswerList {
			sb.WriteString("            \"answerList\": [\"answer1\", \"answer2\", \"answer3\"],\n")
		}
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		if section.FillBlankStyle == domain.FillBlankWithHints {
			sb.WriteString("                    \"question\": \"She ____ (follow) the white rabbit yesterday.\",\n")
			sb.WriteString("                    \"answer\": \"followed\"\n")
		} else {
			sb.WriteString("                    \"question\": \"Question text with _____ for blanks\",\n")
			sb.WriteString("                    \"answer\": \"correct answer\"\n")
		}
		sb.WriteString("                }\n")
		sb.WriteString("            ]")

	case domain.SectionMultipleChoice:
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		sb.WriteString("                    \"question\": \"Question text\",\n")
		sb.WriteString("                    \"options\": [\"Option A\", \"Option B\", \"Option C\", \"Option D\"],\n")
		sb.WriteString("                    \"correct\": 0\n")
		sb.WriteString("                }\n")
		sb.WriteString("            ]")

	case domain.SectionTrueFalse:
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		sb.WriteString("                    \"question\": \"Statement to evaluate\",\n")
		sb.WriteString("                    \"correct\": true\n")
		sb.WriteString("                }\n")
		sb.WriteString("            ]")

	case domain.SectionReadingComprehension:
		count := passageSentenceCount(section.PassageLength)
		plural := "s"
		if count == "1" {
			plural = ""
		}
		fmt.Fprintf(sb, "            \"passage\": \"Reading passage text (%s sentence%s)\"", count, plural)

	case domain.SectionShortAnswer:
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		sb.WriteString("                    \"question\": \"Question text\",\n")
		sb.WriteString("                    \"keywords\": [\"keyword1\", \"keyword2\"]\n")
		sb.WriteString("                }\n")
		sb.WriteString("            ]")

	case domain.SectionLongAnswer:
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		sb.WriteString("                    \"question\": \"Question text\",\n")
		sb.WriteString("                    \"modelAnswer\": \"Detailed model answer\"\n")
		sb.WriteString("                }\n")
		sb.WriteString("            ]")

	case domain.SectionSentenceOrdering:
		sb.WriteString("            \"questions\": [\n")
		sb.WriteString("                {\n")
		sb.WriteString("                    \"question\": \"Instructions for ordering\",\n")
		sb.WriteString("                    \"sentences\": [\"Sentence 1\", \"Sentence 2\", \"Sentence 3\"],\n")
		sb.WriteString("                    \"correctOrder\": [0, 1, 2]\n")
		sb.WriteString("                }\n")
		sb.WriteString("            ]")
	}
}

func sectionTypeDescription(t domain.SectionType) string {
	switch t {
	case domain.SectionFillInBlank:
		return "Fill in the Blank - questions with missing words to complete"
	case domain.SectionMultipleChoice:
		return "Multiple Choice - questions with 4 answer options"
	case domain.SectionTrueFalse:
		return "True/False - binary choice questions"
	case domain.SectionSentenceOrdering:
		return "Sentence Ordering - arrange sentences in correct order"
	case domain.SectionShortAnswer:
		return "Short Answer - brief responses with keyword matching"
	case domain.SectionLongAnswer:
		return "Long Answer - detailed responses requiring comprehensive answers"
	case domain.SectionReadingComprehension:
		return "Reading Comprehension - passage-based questions"
	}
	return string(t)
}

// passageLengthDescription maps a passage length setting to a sentence
// count phrase. A numeric value always wins; the legacy short/medium/
// long descriptors only apply when no number is present.
func passageLengthDescription(raw string) string {
	if raw == "" {
		return "3 sentences"
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		if n == 1 {
			return "1 sentence"
		}
		return fmt.Sprintf("%d sentences", n)
	}
	switch raw {
	case "short":
		return "2-3 sentences"
	case "medium":
		return "3-5 sentences"
	case "long":
		return "5-8 sentences"
	}
	return "3 sentences"
}

// passageSentenceCount is the schema-example variant of the length
// mapping; legacy descriptors fall back to ranges here.
func passageSentenceCount(raw string) string {
	if raw == "" {
		return "3"
	}
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		return strconv.Itoa(n)
	}
	switch raw {
	case "short":
		return "2-3"
	case "long":
		return "5-8"
	}
	return "3-5"
}
