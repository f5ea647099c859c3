package validator

import (
	"reflect"
	"regexp"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func stringField(fl validator.FieldLevel) (string, bool) {
	if fl.Field().Kind() != reflect.String {
		return "", false
	}
	return fl.Field().String(), true
}

func slugValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok {
		return false
	}
	return len(val) <= 200 && slugRegex.MatchString(val)
}

func stageValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok {
		return false
	}
	switch api.Stage(val) {
	case api.StageApplied, api.StageScreen, api.StageTech, api.StageOffer, api.StageHired, api.StageRejected:
		return true
	default:
		return false
	}
}

func jobStatusValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok {
		return false
	}
	switch api.JobStatus(val) {
	case api.JobStatusActive, api.JobStatusArchived:
		return true
	default:
		return false
	}
}

func questionTypeValidator(fl validator.FieldLevel) bool {
	val, ok := stringField(fl)
	if !ok {
		return false
	}
	switch api.QuestionType(val) {
	case api.QuestionTypeSingleChoice,
		api.QuestionTypeMultiChoice,
		api.QuestionTypeShortText,
		api.QuestionTypeLongText,
		api.QuestionTypeNumeric,
		api.QuestionTypeFileUpload:
		return true
	default:
		return false
	}
}

func uuidValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(uuid.UUID)
	if !ok {
		return false
	}
	return val != uuid.UUID{}
}

// choiceOptionsValidator requires options on choice questions.
func choiceOptionsValidator(sl validator.StructLevel) {
	q, ok := sl.Current().Interface().(api.Question)
	if !ok {
		return
	}
	isChoice := q.Type == api.QuestionTypeSingleChoice || q.Type == api.QuestionTypeMultiChoice
	if isChoice && len(q.Options) == 0 {
		sl.ReportError(q.Options, "Options", "options", "choice_options", "")
	}
}
