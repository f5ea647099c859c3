package v1alpha1

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusActive   JobStatus = "active"
	JobStatusArchived JobStatus = "archived"
)

type Stage string

const (
	StageApplied  Stage = "applied"
	StageScreen   Stage = "screen"
	StageTech     Stage = "tech"
	StageOffer    Stage = "offer"
	StageHired    Stage = "hired"
	StageRejected Stage = "rejected"
)

type QuestionType string

const (
	QuestionTypeSingleChoice QuestionType = "single-choice"
	QuestionTypeMultiChoice  QuestionType = "multi-choice"
	QuestionTypeShortText    QuestionType = "short-text"
	QuestionTypeLongText     QuestionType = "long-text"
	QuestionTypeNumeric      QuestionType = "numeric"
	QuestionTypeFileUpload   QuestionType = "file-upload"
)

// Envelope wraps every response payload.
type Envelope struct {
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	// Queued is set when a write was accepted into the offline queue instead of being applied.
	Queued  bool    `json:"queued,omitempty"`
	QueueId *string `json:"queueId,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

type Error struct {
	Message   string  `json:"message"`
	RequestId *string `json:"requestId,omitempty"`
}

type Job struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Status      JobStatus `json:"status"`
	Tags        []string  `json:"tags"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type JobCreate struct {
	Title       string     `json:"title" validate:"required,min=1,max=200"`
	Slug        *string    `json:"slug,omitempty" validate:"omitnil,slug"`
	Description string     `json:"description,omitempty" validate:"max=5000"`
	Location    string     `json:"location,omitempty" validate:"max=200"`
	Status      *JobStatus `json:"status,omitempty" validate:"omitnil,job_status"`
	Tags        []string   `json:"tags,omitempty" validate:"max=20,dive,min=1,max=50"`
}

// JobUpdate only touches the fields that are set.
type JobUpdate struct {
	Title       *string    `json:"title,omitempty" validate:"omitnil,min=1,max=200"`
	Slug        *string    `json:"slug,omitempty" validate:"omitnil,slug"`
	Description *string    `json:"description,omitempty" validate:"omitnil,max=5000"`
	Location    *string    `json:"location,omitempty" validate:"omitnil,max=200"`
	Status      *JobStatus `json:"status,omitempty" validate:"omitnil,job_status"`
	Tags        *[]string  `json:"tags,omitempty" validate:"omitnil,max=20,dive,min=1,max=50"`
}

type JobReorder struct {
	FromOrder int `json:"fromOrder" validate:"min=1"`
	ToOrder   int `json:"toOrder" validate:"min=1"`
}

type TimelineEntry struct {
	FromStage *Stage    `json:"fromStage,omitempty"`
	Stage     Stage     `json:"stage"`
	Notes     string    `json:"notes,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Candidate struct {
	Id                    uuid.UUID       `json:"id"`
	Name                  string          `json:"name"`
	Email                 string          `json:"email"`
	Phone                 string          `json:"phone"`
	Resume                string          `json:"resume,omitempty"`
	Stage                 Stage           `json:"stage"`
	JobId                 uuid.UUID       `json:"jobId"`
	AppliedAt             time.Time       `json:"appliedAt"`
	Timeline              []TimelineEntry `json:"timeline,omitempty"`
	AssessmentInvited     bool            `json:"assessmentInvited"`
	AssessmentInvitedAt   *time.Time      `json:"assessmentInvitedAt,omitempty"`
	AssessmentCompleted   bool            `json:"assessmentCompleted"`
	AssessmentCompletedAt *time.Time      `json:"assessmentCompletedAt,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

type CandidateCreate struct {
	Name   string    `json:"name" validate:"required,min=1,max=200"`
	Email  string    `json:"email" validate:"required,email"`
	Phone  string    `json:"phone,omitempty" validate:"max=64"`
	Resume string    `json:"resume,omitempty" validate:"max=20000"`
	JobId  uuid.UUID `json:"jobId" validate:"required_uuid"`
}

// CandidatePatch updates contact fields. A body carrying Stage is a stage
// transition and Notes and Actor then describe the timeline entry.
type CandidatePatch struct {
	Name   *string `json:"name,omitempty" validate:"omitnil,min=1,max=200"`
	Email  *string `json:"email,omitempty" validate:"omitnil,email"`
	Phone  *string `json:"phone,omitempty" validate:"omitnil,max=64"`
	Resume *string `json:"resume,omitempty" validate:"omitnil,max=20000"`
	Stage  *Stage  `json:"stage,omitempty" validate:"omitnil,stage"`
	Notes  string  `json:"notes,omitempty" validate:"max=2000"`
	Actor  string  `json:"actor,omitempty" validate:"max=200"`
}

type StageTransition struct {
	Stage Stage  `json:"stage" validate:"required,stage"`
	Notes string `json:"notes,omitempty" validate:"max=2000"`
	Actor string `json:"actor,omitempty" validate:"max=200"`
}

type Application struct {
	Id          uuid.UUID       `json:"id"`
	CandidateId uuid.UUID       `json:"candidateId"`
	JobId       uuid.UUID       `json:"jobId"`
	Stage       Stage           `json:"stage"`
	AppliedAt   time.Time       `json:"appliedAt"`
	Timeline    []TimelineEntry `json:"timeline"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type QuestionValidation struct {
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MinLength *int     `json:"minLength,omitempty" validate:"omitnil,min=0"`
	MaxLength *int     `json:"maxLength,omitempty" validate:"omitnil,min=0"`
}

type Conditional struct {
	DependsOn string `json:"dependsOn" validate:"required"`
	Condition string `json:"condition" validate:"required,oneof=equals"`
	Value     string `json:"value"`
}

type Question struct {
	Id            string              `json:"id" validate:"required,max=100"`
	Type          QuestionType        `json:"type" validate:"required,question_type"`
	Title         string              `json:"title" validate:"required,max=500"`
	Description   string              `json:"description,omitempty"`
	Required      bool                `json:"required"`
	Options       []string            `json:"options,omitempty" validate:"dive,min=1"`
	CorrectAnswer *Answer             `json:"correctAnswer,omitempty"`
	Points        *float64            `json:"points,omitempty" validate:"omitnil,gte=0"`
	Validation    *QuestionValidation `json:"validation,omitempty" validate:"omitnil"`
	Conditional   *Conditional        `json:"conditional,omitempty" validate:"omitnil"`
}

type Section struct {
	Id          string     `json:"id" validate:"required,max=100"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions" validate:"dive"`
}

type Assessment struct {
	Id            uuid.UUID `json:"id"`
	JobId         uuid.UUID `json:"jobId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	EnableScoring bool      `json:"enableScoring"`
	Sections      []Section `json:"sections"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type AssessmentForm struct {
	Title         string    `json:"title" validate:"required,min=1,max=200"`
	Description   string    `json:"description,omitempty" validate:"max=5000"`
	EnableScoring bool      `json:"enableScoring"`
	Sections      []Section `json:"sections" validate:"dive"`
}

type SubmissionForm struct {
	CandidateId uuid.UUID         `json:"candidateId" validate:"required_uuid"`
	Responses   map[string]Answer `json:"responses"`
}

type QuestionScore struct {
	QuestionId   string  `json:"questionId"`
	Earned       float64 `json:"earned"`
	Possible     float64 `json:"possible"`
	ManualReview bool    `json:"manualReview,omitempty"`
	Hidden       bool    `json:"hidden,omitempty"`
}

type Submission struct {
	Id              uuid.UUID         `json:"id"`
	JobId           uuid.UUID         `json:"jobId"`
	CandidateId     uuid.UUID         `json:"candidateId"`
	AssessmentId    uuid.UUID         `json:"assessmentId"`
	Responses       map[string]Answer `json:"responses"`
	Score           *int              `json:"score,omitempty"`
	MaxScore        float64           `json:"maxScore"`
	ScoredQuestions int               `json:"scoredQuestions"`
	Breakdown       []QuestionScore   `json:"breakdown,omitempty"`
	SubmittedAt     time.Time         `json:"submittedAt"`
}

type InviteRequest struct {
	JobId *uuid.UUID `json:"jobId,omitempty"`
}

type AssessmentStatus struct {
	CandidateId uuid.UUID   `json:"candidateId"`
	JobId       uuid.UUID   `json:"jobId"`
	Invited     bool        `json:"invited"`
	InvitedAt   *time.Time  `json:"invitedAt,omitempty"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	Submission  *Submission `json:"submission,omitempty"`
}

// ActorHeader names the user a mutating call is made on behalf of. It is
// recorded on timeline entries.
const ActorHeader = "X-Talentflow-Actor"
