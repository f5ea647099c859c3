package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
)

// Submission is immutable once created.
type Submission struct {
	ID              uuid.UUID                        `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	JobID           uuid.UUID                        `gorm:"not null;type:VARCHAR(255);index:submissions_job_id_idx;uniqueIndex:submissions_job_candidate_idx"`
	CandidateID     uuid.UUID                        `gorm:"not null;type:VARCHAR(255);uniqueIndex:submissions_job_candidate_idx"`
	AssessmentID    uuid.UUID                        `gorm:"not null;type:VARCHAR(255)"`
	Responses       JSONField[map[string]api.Answer] `gorm:"type:TEXT"`
	Score           *int
	MaxScore        float64
	ScoredQuestions int
	SubmittedAt     time.Time `gorm:"not null"`
}

type SubmissionList []Submission

func (s Submission) String() string {
	val, _ := json.Marshal(s)
	return string(val)
}
