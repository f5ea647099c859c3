package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
)

// ApplicationService owns stage transitions. The application timeline is the
// only history; the candidate stage column is rewritten in the same transaction.
type ApplicationService struct {
	store  store.Store
	logger *log.StructuredLogger
	now    func() time.Time
}

func NewApplicationService(store store.Store) *ApplicationService {
	return &ApplicationService{
		store:  store,
		logger: log.NewDebugLogger("application_service"),
		now:    time.Now,
	}
}

func (as *ApplicationService) ListApplications(ctx context.Context, jobID, candidateID *uuid.UUID) (model.ApplicationList, error) {
	filter := store.NewApplicationQueryFilter()
	if jobID != nil {
		filter = filter.ByJobID(*jobID)
	}
	if candidateID != nil {
		filter = filter.ByCandidateID(*candidateID)
	}
	return as.store.Application().List(ctx, filter)
}

func (as *ApplicationService) TransitionStage(ctx context.Context, id uuid.UUID, form mappers.StageTransitionForm) (*model.Application, error) {
	tracer := as.logger.WithContext(ctx).Operation("transition_application_stage").
		WithUUID("application_id", id).
		WithString("stage", form.Stage).
		WithString("actor", form.Actor).
		Build()

	ctx, err := as.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	app, err := as.store.Application().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(id)
		}
		return nil, err
	}

	updated, err := as.transition(ctx, app, form)
	if err != nil {
		tracer.Error(err).Log()
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithString("from", app.Stage).WithInt("timeline_length", len(updated.Timeline)).Log()
	return updated, nil
}

// transition must run inside the caller's transaction.
func (as *ApplicationService) transition(ctx context.Context, app *model.Application, form mappers.StageTransitionForm) (*model.Application, error) {
	if !CanTransition(app.Stage, form.Stage) {
		return nil, NewErrInvalidStageTransition(app.Stage, form.Stage)
	}

	entry := model.TimelineEntry{
		FromStage: app.Stage,
		Stage:     form.Stage,
		Notes:     form.Notes,
		Actor:     form.Actor,
		Timestamp: nextTimestamp(app, as.now().UTC()),
	}

	updated, err := as.store.Application().AppendTimeline(ctx, app.ID, entry)
	if err != nil {
		return nil, err
	}

	if err := as.store.Candidate().UpdateStage(ctx, app.CandidateID, form.Stage); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrCandidateNotFound(app.CandidateID)
		}
		return nil, err
	}

	return updated, nil
}
