package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Application is the aggregate owning the stage history of one candidate for one job.
type Application struct {
	ID          uuid.UUID       `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CandidateID uuid.UUID       `gorm:"not null;type:VARCHAR(255);uniqueIndex:applications_candidate_job_idx;index:applications_candidate_id_idx"`
	JobID       uuid.UUID       `gorm:"not null;type:VARCHAR(255);uniqueIndex:applications_candidate_job_idx;index:applications_job_id_idx"`
	Stage       string          `gorm:"not null;type:VARCHAR(32)"`
	AppliedAt   time.Time       `gorm:"not null"`
	Timeline    []TimelineEntry `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEntry is append-only.
type TimelineEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	ApplicationID uuid.UUID `gorm:"not null;type:VARCHAR(255);index:timeline_entries_application_id_idx"`
	FromStage     string    `gorm:"type:VARCHAR(32)"`
	Stage         string    `gorm:"not null;type:VARCHAR(32)"`
	Notes         string    `gorm:"type:TEXT"`
	Actor         string    `gorm:"type:VARCHAR(255)"`
	Timestamp     time.Time `gorm:"column:occurred_at;not null"`
}

type ApplicationList []Application

func (a Application) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}

// LastEntry returns nil for an application without history.
func (a Application) LastEntry() *TimelineEntry {
	if len(a.Timeline) == 0 {
		return nil
	}
	return &a.Timeline[len(a.Timeline)-1]
}
