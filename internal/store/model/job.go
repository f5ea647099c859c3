package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusActive   = "active"
	JobStatusArchived = "archived"
)

type Job struct {
	ID          uuid.UUID           `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	Title       string              `gorm:"not null"`
	Slug        string              `gorm:"not null;uniqueIndex:jobs_slug_idx"`
	Description string              `gorm:"type:TEXT"`
	Location    string              `gorm:"type:VARCHAR(255)"`
	Status      string              `gorm:"not null;type:VARCHAR(32);index:jobs_status_idx"`
	Tags        JSONField[[]string] `gorm:"type:TEXT"`
	Order       int                 `gorm:"column:position;not null;index:jobs_position_idx"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type JobList []Job

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
