package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
)

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single-choice"
	QuestionMultiChoice  QuestionType = "multi-choice"
	QuestionShortText    QuestionType = "short-text"
	QuestionLongText     QuestionType = "long-text"
	QuestionNumeric      QuestionType = "numeric"
	QuestionFileUpload   QuestionType = "file-upload"
)

const ConditionEquals = "equals"

type Assessment struct {
	ID            uuid.UUID            `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	JobID         uuid.UUID            `gorm:"not null;type:VARCHAR(255);index:assessments_job_id_idx"`
	Title         string               `gorm:"not null"`
	Description   string               `gorm:"type:TEXT"`
	EnableScoring bool                 `gorm:"not null;default:false"`
	Sections      JSONField[[]Section] `gorm:"type:TEXT"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AssessmentList []Assessment

func (a Assessment) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}

// Questions flattens the sections preserving order.
func (a Assessment) Questions() []Question {
	var questions []Question
	for _, s := range a.Sections.Data {
		questions = append(questions, s.Questions...)
	}
	return questions
}

type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

type Question struct {
	ID            string       `json:"id"`
	Type          QuestionType `json:"type"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Required      bool         `json:"required"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer *api.Answer  `json:"correctAnswer,omitempty"`
	Points        *float64     `json:"points,omitempty"`
	Validation    *Validation  `json:"validation,omitempty"`
	Conditional   *Conditional `json:"conditional,omitempty"`
}

// PointsOrDefault returns the question weight, 1 when unset.
func (q Question) PointsOrDefault() float64 {
	if q.Points == nil {
		return 1
	}
	return *q.Points
}

func (q Question) IsChoice() bool {
	return q.Type == QuestionSingleChoice || q.Type == QuestionMultiChoice
}

type Validation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
}

// Conditional shows a question only when the response to DependsOn matches Value.
type Conditional struct {
	DependsOn string `json:"dependsOn"`
	Condition string `json:"condition"`
	Value     string `json:"value"`
}
