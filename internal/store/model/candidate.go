package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	StageApplied  = "applied"
	StageScreen   = "screen"
	StageTech     = "tech"
	StageOffer    = "offer"
	StageHired    = "hired"
	StageRejected = "rejected"
)

// Stages lists the pipeline stages in display order.
var Stages = []string{StageApplied, StageScreen, StageTech, StageOffer, StageHired, StageRejected}

// Candidate.Stage mirrors the stage of the candidate's application and is only
// written together with it. Timeline is never persisted on the candidate; it
// is loaded from the application.
type Candidate struct {
	ID                    uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	Name                  string    `gorm:"not null"`
	Email                 string    `gorm:"not null;type:VARCHAR(255);index:candidates_email_idx"`
	Phone                 string    `gorm:"type:VARCHAR(64)"`
	Resume                string    `gorm:"type:TEXT"`
	Stage                 string    `gorm:"not null;type:VARCHAR(32);index:candidates_stage_job_idx,priority:1"`
	JobID                 uuid.UUID `gorm:"not null;type:VARCHAR(255);index:candidates_stage_job_idx,priority:2;index:candidates_job_id_idx"`
	AppliedAt             time.Time `gorm:"not null"`
	AssessmentInvited     bool
	AssessmentInvitedAt   *time.Time
	AssessmentCompleted   bool
	AssessmentCompletedAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time

	Timeline []TimelineEntry `gorm:"-"`
}

type CandidateList []Candidate

func (c Candidate) String() string {
	val, _ := json.Marshal(c)
	return string(val)
}
