package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// AnswerKey is the canonical form of a question's answer key after the
// legacy field variants have been resolved. Provided reports whether any
// usable key was found. Display is the string shown to the user,
// Accepted the set of strings a submission is matched against, and
// Index the option index for multiple choice questions when the key
// was numeric.
type AnswerKey struct {
	Provided bool
	Display  string
	Accepted []string
	Index    *int
}

// ResolveAnswerKey canonicalizes a question's answer key for the given
// section type. Field precedence follows what generation actually
// emits: "correct" before "correct_answer" for choice questions, and
// "correct_answers" before "correct_answer" before "answer" for fill
// in the blank.
func ResolveAnswerKey(t SectionType, q *Question) AnswerKey {
	switch t {
	case SectionMultipleChoice:
		return resolveMultipleChoice(q)
	case SectionTrueFalse:
		return resolveTrueFalse(q)
	case SectionFillInBlank:
		return resolveFillInBlank(q)
	}
	return AnswerKey{}
}

func resolveMultipleChoice(q *Question) AnswerKey {
	raw := q.Correct
	if len(raw) == 0 {
		raw = q.CorrectAnswer
	}
	s, ok := rawToString(raw)
	if !ok {
		return AnswerKey{}
	}
	key := AnswerKey{Provided: true, Display: s, Accepted: []string{s}}
	if idx, err := strconv.Atoi(s); err == nil {
		key.Index = &idx
		if q.Options != nil && idx >= 0 && idx < len(q.Options) {
			key.Display = q.Options[idx]
		}
	}
	return key
}

func resolveTrueFalse(q *Question) AnswerKey {
	raw := q.Correct
	if len(raw) == 0 {
		raw = q.CorrectAnswer
	}
	s, ok := rawToString(raw)
	if !ok {
		return AnswerKey{}
	}
	return AnswerKey{Provided: true, Display: s, Accepted: []string{s}}
}

func resolveFillInBlank(q *Question) AnswerKey {
	if len(q.CorrectAnswers) > 0 {
		return AnswerKey{
			Provided: true,
			Display:  strings.Join(q.CorrectAnswers, ", "),
			Accepted: q.CorrectAnswers,
		}
	}
	for _, raw := range []json.RawMessage{q.CorrectAnswer, q.Answer} {
		if len(raw) == 0 {
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err == nil {
			if len(many) == 0 {
				continue
			}
			return AnswerKey{Provided: true, Display: strings.Join(many, ", "), Accepted: many}
		}
		if s, ok := rawToString(raw); ok {
			return AnswerKey{Provided: true, Display: s, Accepted: []string{s}}
		}
	}
	return AnswerKey{}
}

// Matches reports whether a submission satisfies the key. Fill in the
// blank comparisons are case-insensitive and whitespace-trimmed; every
// other type requires an exact string match.
func (k AnswerKey) Matches(t SectionType, submission string) bool {
	if !k.Provided {
		return false
	}
	if t == SectionFillInBlank {
		got := strings.ToLower(strings.TrimSpace(submission))
		for _, want := range k.Accepted {
			if got == strings.ToLower(strings.TrimSpace(want)) {
				return true
			}
		}
		return false
	}
	for _, want := range k.Accepted {
		if submission == want {
			return true
		}
	}
	return false
}

// rawToString flattens a scalar JSON value to the string used for
// comparison. Numbers keep their shortest decimal form so an index key
// of 2 compares equal to the submission "2".
func rawToString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b), true
	}
	return "", false
}
