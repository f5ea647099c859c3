package scoring

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/thoas/go-funk"
)

type FieldError struct {
	QuestionID string
	Message    string
}

func (f FieldError) Error() string {
	return fmt.Sprintf("%s: %s", f.QuestionID, f.Message)
}

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, f := range v {
		msgs = append(msgs, f.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks responses against the visible questions of the assessment.
// Hidden questions are never required and never validated. It returns nil
// when the responses are acceptable.
func Validate(assessment model.Assessment, responses map[string]api.Answer) error {
	var errs ValidationErrors

	for _, q := range VisibleQuestions(assessment, responses) {
		answer, ok := responses[q.ID]
		if !ok || answer.IsEmpty() {
			if q.Required {
				errs = append(errs, FieldError{QuestionID: q.ID, Message: "answer is required"})
			}
			continue
		}

		if msg := validateAnswer(q, answer); msg != "" {
			errs = append(errs, FieldError{QuestionID: q.ID, Message: msg})
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateAnswer(q model.Question, answer api.Answer) string {
	switch q.Type {
	case model.QuestionSingleChoice:
		if answer.IsList() {
			return "expected a single option"
		}
		if len(q.Options) > 0 && !funk.ContainsString(q.Options, answer.String()) {
			return fmt.Sprintf("%q is not one of the options", answer.String())
		}
	case model.QuestionMultiChoice:
		if len(q.Options) > 0 {
			for _, v := range answer.Values() {
				if !funk.ContainsString(q.Options, v) {
					return fmt.Sprintf("%q is not one of the options", v)
				}
			}
		}
	case model.QuestionNumeric:
		n, err := strconv.ParseFloat(strings.TrimSpace(answer.String()), 64)
		if err != nil {
			return "expected a number"
		}
		if v := q.Validation; v != nil {
			if v.Min != nil && n < *v.Min {
				return fmt.Sprintf("must be at least %v", *v.Min)
			}
			if v.Max != nil && n > *v.Max {
				return fmt.Sprintf("must be at most %v", *v.Max)
			}
		}
	case model.QuestionShortText, model.QuestionLongText:
		if v := q.Validation; v != nil {
			length := utf8.RuneCountInString(answer.String())
			if v.MinLength != nil && length < *v.MinLength {
				return fmt.Sprintf("must be at least %d characters", *v.MinLength)
			}
			if v.MaxLength != nil && length > *v.MaxLength {
				return fmt.Sprintf("must be at most %d characters", *v.MaxLength)
			}
		}
	}
	return ""
}
