package validator

import (
	"github.com/go-playground/validator/v10"
	api "github.com/talentflow/talentflow/api/v1alpha1"
)

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewJobValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("slug", slugValidator),
		},
		{
			Rule: registerFn("job_status", jobStatusValidator),
		},
	}
}

func NewCandidateValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("required_uuid", uuidValidator),
		},
		{
			Rule: registerFn("stage", stageValidator),
		},
	}
}

func NewAssessmentValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("question_type", questionTypeValidator),
		},
		{
			Rule: registerFn("required_uuid", uuidValidator),
		},
		{
			Rule: func(v *validator.Validate) {
				v.RegisterStructValidation(choiceOptionsValidator, api.Question{})
			},
		},
	}
}
