package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
)

type CandidateService struct {
	store        store.Store
	applications *ApplicationService
	logger       *log.StructuredLogger
	now          func() time.Time
}

func NewCandidateService(store store.Store, applications *ApplicationService) *CandidateService {
	return &CandidateService{
		store:        store,
		applications: applications,
		logger:       log.NewDebugLogger("candidate_service"),
		now:          time.Now,
	}
}

// AssessmentStatus is the invitation and completion state of a candidate for a job.
type AssessmentStatus struct {
	CandidateID uuid.UUID
	JobID       uuid.UUID
	InvitedAt   *time.Time
	CompletedAt *time.Time
	Invited     bool
	Completed   bool
	Submission  *model.Submission
}

func (cs *CandidateService) ListCandidates(ctx context.Context, filter CandidateFilter) (model.CandidateList, int64, error) {
	filter.Page = NewPage(filter.Page.Number, filter.Page.Size)

	tracer := cs.logger.WithContext(ctx).Operation("list_candidates").
		WithString("search", filter.Search).
		WithString("stage", filter.Stage).
		WithString("sort_by", string(filter.SortBy)).
		WithString("sort_order", filter.SortOrder).
		WithInt("page", filter.Page.Number).
		Build()

	storeFilter := store.NewCandidateQueryFilter()
	if filter.Stage != "" {
		storeFilter = storeFilter.ByStage(filter.Stage)
	}
	if filter.JobID != nil {
		storeFilter = storeFilter.ByJobID(*filter.JobID)
	}
	if filter.Search != "" {
		storeFilter = storeFilter.BySearch(filter.Search)
	}

	total, err := cs.store.Candidate().Count(ctx, storeFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	opts := store.NewCandidateQueryOptions().
		WithSort(filter.SortBy, filter.Descending()).
		WithLimit(filter.Page.Size).
		WithOffset(filter.Page.Offset())

	candidates, err := cs.store.Candidate().List(ctx, storeFilter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}

	tracer.Success().WithInt("count", len(candidates)).WithParam("total", total).Log()
	return candidates, total, nil
}

// GetCandidate returns the candidate with its timeline loaded from the application.
func (cs *CandidateService) GetCandidate(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	candidate, err := cs.store.Candidate().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(id)
		}
		return nil, err
	}

	app, err := cs.store.Application().GetByCandidate(ctx, id)
	switch {
	case err == nil:
		candidate.Timeline = app.Timeline
	case errors.Is(err, store.ErrRecordNotFound):
		candidate.Timeline = []model.TimelineEntry{}
	default:
		return nil, err
	}

	return candidate, nil
}

// CreateCandidate stores the candidate and its application with the initial
// "applied" entry in one transaction.
func (cs *CandidateService) CreateCandidate(ctx context.Context, form mappers.CandidateCreateForm) (*model.Candidate, error) {
	tracer := cs.logger.WithContext(ctx).Operation("create_candidate").
		WithString("email", form.Email).
		WithUUID("job_id", form.JobID).
		Build()

	ctx, err := cs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	if _, err := cs.store.Job().Get(ctx, form.JobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(form.JobID)
		}
		return nil, err
	}

	now := cs.now().UTC()
	candidate, err := cs.store.Candidate().Create(ctx, form.ToCandidate(now))
	if err != nil {
		return nil, err
	}

	appID := uuid.New()
	app, err := cs.store.Application().Create(ctx, model.Application{
		ID:          appID,
		CandidateID: candidate.ID,
		JobID:       candidate.JobID,
		Stage:       model.StageApplied,
		AppliedAt:   now,
		Timeline: []model.TimelineEntry{{
			ApplicationID: appID,
			Stage:         model.StageApplied,
			Notes:         "Application received",
			Actor:         form.Actor,
			Timestamp:     now,
		}},
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrValidation("candidate %s already applied to job %s", candidate.ID, candidate.JobID)
		}
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	candidate.Timeline = app.Timeline
	tracer.Success().WithUUID("candidate_id", candidate.ID).WithUUID("application_id", app.ID).Log()
	return candidate, nil
}

// UpdateCandidate changes contact fields only. Stage changes go through TransitionStage.
func (cs *CandidateService) UpdateCandidate(ctx context.Context, id uuid.UUID, form mappers.CandidateUpdateForm) (*model.Candidate, error) {
	return cs.PatchCandidate(ctx, id, form, nil)
}

// TransitionStage moves the candidate's application to form.Stage and appends
// exactly one timeline entry.
func (cs *CandidateService) TransitionStage(ctx context.Context, id uuid.UUID, form mappers.StageTransitionForm) (*model.Candidate, error) {
	return cs.PatchCandidate(ctx, id, mappers.CandidateUpdateForm{}, &form)
}

// PatchCandidate applies an optional stage transition and then the contact
// fields of update in one transaction. Either both are stored or neither is.
func (cs *CandidateService) PatchCandidate(ctx context.Context, id uuid.UUID, update mappers.CandidateUpdateForm, transition *mappers.StageTransitionForm) (*model.Candidate, error) {
	builder := cs.logger.WithContext(ctx).Operation("patch_candidate").
		WithUUID("candidate_id", id)
	if transition != nil {
		builder = builder.WithString("stage", transition.Stage)
	}
	tracer := builder.Build()

	txCtx, err := cs.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(txCtx)
	}()

	candidate, err := cs.store.Candidate().Get(txCtx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(id)
		}
		return nil, err
	}

	if transition != nil {
		app, err := cs.store.Application().GetByCandidate(txCtx, id)
		if err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrResourceNotFound(id, "application for candidate")
			}
			return nil, err
		}

		updated, err := cs.applications.transition(txCtx, app, *transition)
		if err != nil {
			tracer.Error(err).Log()
			return nil, err
		}
		tracer.Step("transitioned").WithString("from", app.Stage).Log()

		candidate.Stage = updated.Stage
		candidate.Timeline = updated.Timeline
	}

	if !update.IsEmpty() {
		update.Apply(candidate)
		if _, err := cs.store.Candidate().Update(txCtx, *candidate); err != nil {
			tracer.Error(err).Log()
			if errors.Is(err, store.ErrRecordNotFound) {
				return nil, NewErrCandidateNotFound(id)
			}
			return nil, err
		}
	}

	if _, err := store.Commit(txCtx); err != nil {
		return nil, err
	}

	tracer.Success().Log()
	return cs.GetCandidate(ctx, id)
}

func (cs *CandidateService) Timeline(ctx context.Context, id uuid.UUID) ([]model.TimelineEntry, error) {
	candidate, err := cs.GetCandidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return candidate.Timeline, nil
}

// InviteAssessment marks the candidate as invited to the assessment of jobID,
// or of the job they applied to when jobID is nil. The assessment must exist.
func (cs *CandidateService) InviteAssessment(ctx context.Context, id uuid.UUID, jobID *uuid.UUID) (*AssessmentStatus, error) {
	tracer := cs.logger.WithContext(ctx).Operation("invite_assessment").
		WithUUID("candidate_id", id).
		Build()

	candidate, err := cs.store.Candidate().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(id)
		}
		return nil, err
	}

	target := candidate.JobID
	if jobID != nil {
		target = *jobID
	}

	if _, err := cs.store.Assessment().GetByJobID(ctx, target); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAssessmentNotFound(target)
		}
		return nil, err
	}

	if err := cs.store.Candidate().MarkInvited(ctx, id, cs.now().UTC()); err != nil {
		return nil, err
	}

	tracer.Success().WithUUID("job_id", target).Log()
	return cs.AssessmentStatus(ctx, id, target)
}

func (cs *CandidateService) AssessmentStatus(ctx context.Context, id, jobID uuid.UUID) (*AssessmentStatus, error) {
	candidate, err := cs.store.Candidate().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(id)
		}
		return nil, err
	}

	status := &AssessmentStatus{
		CandidateID: id,
		JobID:       jobID,
		Invited:     candidate.AssessmentInvited,
		InvitedAt:   candidate.AssessmentInvitedAt,
	}

	submission, err := cs.store.Submission().Get(ctx, jobID, id)
	switch {
	case err == nil:
		status.Submission = submission
		status.Completed = true
		status.CompletedAt = &submission.SubmittedAt
	case errors.Is(err, store.ErrRecordNotFound):
	default:
		return nil, err
	}

	return status, nil
}
