package mappers

import (
	"time"

	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store/model"
)

type JobCreateForm struct {
	Title       string
	Slug        *string
	Description string
	Location    string
	Status      string
	Tags        []string
}

// ToJob leaves slug and order to the caller.
func (f JobCreateForm) ToJob() model.Job {
	status := f.Status
	if status == "" {
		status = model.JobStatusActive
	}
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Job{
		ID:          uuid.New(),
		Title:       f.Title,
		Description: f.Description,
		Location:    f.Location,
		Status:      status,
		Tags:        model.MakeJSONField(tags),
	}
}

type JobUpdateForm struct {
	Title       *string
	Slug        *string
	Description *string
	Location    *string
	Status      *string
	Tags        *[]string
}

func (f JobUpdateForm) Apply(job *model.Job) {
	if f.Title != nil {
		job.Title = *f.Title
	}
	if f.Slug != nil {
		job.Slug = *f.Slug
	}
	if f.Description != nil {
		job.Description = *f.Description
	}
	if f.Location != nil {
		job.Location = *f.Location
	}
	if f.Status != nil {
		job.Status = *f.Status
	}
	if f.Tags != nil {
		job.Tags = model.MakeJSONField(*f.Tags)
	}
}

type JobReorderForm struct {
	FromOrder int
	ToOrder   int
}

type CandidateCreateForm struct {
	Name   string
	Email  string
	Phone  string
	Resume string
	JobID  uuid.UUID
	Actor  string
}

func (f CandidateCreateForm) ToCandidate(appliedAt time.Time) model.Candidate {
	return model.Candidate{
		ID:        uuid.New(),
		Name:      f.Name,
		Email:     f.Email,
		Phone:     f.Phone,
		Resume:    f.Resume,
		Stage:     model.StageApplied,
		JobID:     f.JobID,
		AppliedAt: appliedAt,
	}
}

type CandidateUpdateForm struct {
	Name   *string
	Email  *string
	Phone  *string
	Resume *string
}

func (f CandidateUpdateForm) IsEmpty() bool {
	return f.Name == nil && f.Email == nil && f.Phone == nil && f.Resume == nil
}

func (f CandidateUpdateForm) Apply(c *model.Candidate) {
	if f.Name != nil {
		c.Name = *f.Name
	}
	if f.Email != nil {
		c.Email = *f.Email
	}
	if f.Phone != nil {
		c.Phone = *f.Phone
	}
	if f.Resume != nil {
		c.Resume = *f.Resume
	}
}

type StageTransitionForm struct {
	Stage string
	Notes string
	Actor string
}

type AssessmentForm struct {
	Title         string
	Description   string
	EnableScoring bool
	Sections      []model.Section
}

func (f AssessmentForm) Apply(a *model.Assessment) {
	a.Title = f.Title
	a.Description = f.Description
	a.EnableScoring = f.EnableScoring
	sections := f.Sections
	if sections == nil {
		sections = []model.Section{}
	}
	a.Sections = model.MakeJSONField(sections)
}

type SubmissionForm struct {
	CandidateID uuid.UUID
	Responses   map[string]api.Answer
}
