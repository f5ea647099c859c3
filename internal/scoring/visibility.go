package scoring

import (
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store/model"
)

// Visible reports whether a question is shown for the given responses. A
// question without a conditional rule is always visible. With an "equals"
// rule it is visible only when the referenced response equals the rule value
// exactly; a list response matches only when it holds that single value.
func Visible(q model.Question, responses map[string]api.Answer) bool {
	rule := q.Conditional
	if rule == nil || rule.DependsOn == "" {
		return true
	}

	switch rule.Condition {
	case model.ConditionEquals, "":
		answer, ok := responses[rule.DependsOn]
		if !ok {
			return false
		}
		values := answer.Values()
		return len(values) == 1 && values[0] == rule.Value
	default:
		return true
	}
}

// VisibleQuestions returns the questions shown for responses, in section order.
func VisibleQuestions(assessment model.Assessment, responses map[string]api.Answer) []model.Question {
	var visible []model.Question
	for _, q := range assessment.Questions() {
		if Visible(q, responses) {
			visible = append(visible, q)
		}
	}
	return visible
}
