package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/scoring"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
)

type AssessmentService struct {
	store  store.Store
	logger *log.StructuredLogger
	now    func() time.Time
}

func NewAssessmentService(store store.Store) *AssessmentService {
	return &AssessmentService{
		store:  store,
		logger: log.NewDebugLogger("assessment_service"),
		now:    time.Now,
	}
}

// SubmissionResult is a stored submission plus the per question breakdown.
// Breakdown is nil when scoring is disabled for the assessment.
type SubmissionResult struct {
	Submission model.Submission
	Breakdown  []scoring.QuestionResult
}

func (as *AssessmentService) GetAssessment(ctx context.Context, jobID uuid.UUID) (*model.Assessment, error) {
	assessment, err := as.store.Assessment().GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAssessmentNotFound(jobID)
		}
		return nil, err
	}
	return assessment, nil
}

// UpsertAssessment replaces the assessment of the job, creating it if needed.
func (as *AssessmentService) UpsertAssessment(ctx context.Context, jobID uuid.UUID, form mappers.AssessmentForm) (*model.Assessment, error) {
	tracer := as.logger.WithContext(ctx).Operation("upsert_assessment").
		WithUUID("job_id", jobID).
		WithString("title", form.Title).
		WithInt("sections", len(form.Sections)).
		Build()

	ctx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	if _, err := as.store.Job().Get(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(jobID)
		}
		return nil, err
	}

	var result *model.Assessment
	existing, err := as.store.Assessment().GetByJobID(ctx, jobID)
	switch {
	case err == nil:
		form.Apply(existing)
		result, err = as.store.Assessment().Update(ctx, *existing)
		tracer.Step("updated").WithUUID("assessment_id", existing.ID).Log()
	case errors.Is(err, store.ErrRecordNotFound):
		assessment := model.Assessment{ID: uuid.New(), JobID: jobID}
		form.Apply(&assessment)
		result, err = as.store.Assessment().Create(ctx, assessment)
		tracer.Step("created").WithUUID("assessment_id", assessment.ID).Log()
	}
	if err != nil {
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithBool("scoring", result.EnableScoring).Log()
	return result, nil
}

func (as *AssessmentService) DeleteAssessment(ctx context.Context, jobID uuid.UUID) error {
	if err := as.store.Assessment().DeleteByJobID(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return NewErrAssessmentNotFound(jobID)
		}
		return err
	}
	as.logger.WithContext(ctx).Operation("delete_assessment").WithUUID("job_id", jobID).Build().Success().Log()
	return nil
}

// Submit validates, scores and stores a submission and marks the candidate's
// assessment as completed. A candidate submits at most once per job.
func (as *AssessmentService) Submit(ctx context.Context, jobID uuid.UUID, form mappers.SubmissionForm) (*SubmissionResult, error) {
	tracer := as.logger.WithContext(ctx).Operation("submit_assessment").
		WithUUID("job_id", jobID).
		WithUUID("candidate_id", form.CandidateID).
		WithInt("responses", len(form.Responses)).
		Build()

	ctx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	assessment, err := as.store.Assessment().GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrAssessmentNotFound(jobID)
		}
		return nil, err
	}

	if _, err := as.store.Candidate().Get(ctx, form.CandidateID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(form.CandidateID)
		}
		return nil, err
	}

	if _, err := as.store.Submission().Get(ctx, jobID, form.CandidateID); err == nil {
		dupErr := NewErrSubmissionExists(jobID, form.CandidateID)
		tracer.Error(dupErr).Log()
		return nil, dupErr
	} else if !errors.Is(err, store.ErrRecordNotFound) {
		return nil, err
	}

	if err := scoring.Validate(*assessment, form.Responses); err != nil {
		tracer.Error(err).WithString("reason", "invalid_responses").Log()
		return nil, &ErrValidation{err}
	}

	now := as.now().UTC()
	submission := model.Submission{
		ID:           uuid.New(),
		JobID:        jobID,
		CandidateID:  form.CandidateID,
		AssessmentID: assessment.ID,
		Responses:    model.MakeJSONField(form.Responses),
		SubmittedAt:  now,
	}

	var breakdown []scoring.QuestionResult
	if assessment.EnableScoring {
		result := scoring.Score(*assessment, form.Responses)
		submission.Score = &result.Percent
		submission.MaxScore = result.Possible
		submission.ScoredQuestions = result.ScoredQuestions
		breakdown = result.Questions
		tracer.Step("scored").WithInt("score", result.Percent).WithInt("scored_questions", result.ScoredQuestions).Log()
	}

	created, err := as.store.Submission().Create(ctx, submission)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrSubmissionExists(jobID, form.CandidateID)
		}
		return nil, err
	}

	if err := as.store.Candidate().MarkCompleted(ctx, form.CandidateID, now); err != nil {
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithUUID("submission_id", created.ID).Log()
	return &SubmissionResult{Submission: *created, Breakdown: breakdown}, nil
}

func (as *AssessmentService) ListSubmissions(ctx context.Context, jobID uuid.UUID) (model.SubmissionList, error) {
	return as.store.Submission().List(ctx, store.NewSubmissionQueryFilter().ByJobID(jobID))
}
