package service

import (
	"fmt"

	"github.com/google/uuid"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrJobNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "job")
}

func NewErrCandidateNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "candidate")
}

func NewErrApplicationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "application")
}

// NewErrAssessmentNotFound is keyed by job: a job has at most one assessment.
func NewErrAssessmentNotFound(jobID uuid.UUID) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("assessment for job %s not found", jobID)}
}

type ErrDuplicateSlug struct {
	error
}

func NewErrDuplicateSlug(slug string) *ErrDuplicateSlug {
	return &ErrDuplicateSlug{fmt.Errorf("slug %q is already used by another job", slug)}
}

type ErrInvalidStageTransition struct {
	error
}

func NewErrInvalidStageTransition(from, to string) *ErrInvalidStageTransition {
	return &ErrInvalidStageTransition{fmt.Errorf("invalid stage transition from %q to %q", from, to)}
}

type ErrValidation struct {
	error
}

func NewErrValidation(format string, args ...any) *ErrValidation {
	return &ErrValidation{fmt.Errorf(format, args...)}
}

type ErrSubmissionExists struct {
	error
}

func NewErrSubmissionExists(jobID, candidateID uuid.UUID) *ErrSubmissionExists {
	return &ErrSubmissionExists{fmt.Errorf("candidate %s already submitted the assessment of job %s", candidateID, jobID)}
}
