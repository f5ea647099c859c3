package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
)

type JobService struct {
	store  store.Store
	logger *log.StructuredLogger
}

func NewJobService(store store.Store) *JobService {
	return &JobService{
		store:  store,
		logger: log.NewDebugLogger("job_service"),
	}
}

func (js *JobService) ListJobs(ctx context.Context, filter JobFilter) (model.JobList, int64, error) {
	filter.Page = NewPage(filter.Page.Number, filter.Page.Size)

	tracer := js.logger.WithContext(ctx).Operation("list_jobs").
		WithString("search", filter.Search).
		WithString("status", filter.Status).
		WithString("sort", string(filter.Sort)).
		WithInt("page", filter.Page.Number).
		WithInt("page_size", filter.Page.Size).
		Build()

	storeFilter := store.NewJobQueryFilter()
	if filter.Status != "" {
		storeFilter = storeFilter.ByStatus(filter.Status)
	}
	if filter.Search != "" {
		storeFilter = storeFilter.BySearch(filter.Search)
	}

	total, err := js.store.Job().Count(ctx, storeFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	opts := store.NewJobQueryOptions().
		WithSort(filter.Sort).
		WithLimit(filter.Page.Size).
		WithOffset(filter.Page.Offset())

	jobs, err := js.store.Job().List(ctx, storeFilter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list jobs: %w", err)
	}

	tracer.Success().WithInt("count", len(jobs)).WithParam("total", total).Log()
	return jobs, total, nil
}

func (js *JobService) GetJob(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}
	return job, nil
}

// CreateJob derives the slug from the title when none is given and suffixes
// it until it is free. An explicit slug that is taken is rejected.
func (js *JobService) CreateJob(ctx context.Context, form mappers.JobCreateForm) (*model.Job, error) {
	tracer := js.logger.WithContext(ctx).Operation("create_job").
		WithString("title", form.Title).
		WithStringPtr("slug", form.Slug).
		Build()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job := form.ToJob()

	if form.Slug != nil {
		if _, err := js.store.Job().GetBySlug(ctx, *form.Slug); err == nil {
			dupErr := NewErrDuplicateSlug(*form.Slug)
			tracer.Error(dupErr).Log()
			return nil, dupErr
		} else if !errors.Is(err, store.ErrRecordNotFound) {
			return nil, err
		}
		job.Slug = *form.Slug
	} else {
		slug, err := js.freeSlug(ctx, form.Title)
		if err != nil {
			return nil, err
		}
		job.Slug = slug
	}
	tracer.Step("slug_resolved").WithString("slug", job.Slug).Log()

	maxOrder, err := js.store.Job().MaxOrder(ctx)
	if err != nil {
		return nil, err
	}
	job.Order = maxOrder + 1

	created, err := js.store.Job().Create(ctx, job)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrDuplicateSlug(job.Slug)
		}
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithUUID("job_id", created.ID).WithInt("order", created.Order).Log()
	return created, nil
}

// freeSlug returns base, base-2, base-3... whichever is not used yet.
func (js *JobService) freeSlug(ctx context.Context, title string) (string, error) {
	base := store.Slugify(title)
	if base == "" {
		base = "job"
	}

	jobs, err := js.store.Job().List(ctx, store.NewJobQueryFilter().BySlugPrefix(base), nil)
	if err != nil {
		return "", err
	}
	taken := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		taken[j.Slug] = true
	}

	if !taken[base] {
		return base, nil
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if !taken[candidate] {
			return candidate, nil
		}
	}
}

func (js *JobService) UpdateJob(ctx context.Context, id uuid.UUID, form mappers.JobUpdateForm) (*model.Job, error) {
	tracer := js.logger.WithContext(ctx).Operation("update_job").
		WithUUID("job_id", id).
		WithRequestBody("form", form).
		Build()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	if form.Slug != nil && *form.Slug != job.Slug {
		count, err := js.store.Job().Count(ctx, store.NewJobQueryFilter().BySlug(*form.Slug).WithoutID(id))
		if err != nil {
			return nil, err
		}
		if count > 0 {
			dupErr := NewErrDuplicateSlug(*form.Slug)
			tracer.Error(dupErr).Log()
			return nil, dupErr
		}
	}

	form.Apply(job)

	updated, err := js.store.Job().Update(ctx, *job)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrDuplicateSlug(job.Slug)
		}
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithString("status", updated.Status).Log()
	return updated, nil
}

// ReorderJob moves the job to form.ToOrder and shifts the jobs in between by
// one so that ranks stay contiguous. The current rank of the job is
// authoritative; a stale FromOrder is only logged.
func (js *JobService) ReorderJob(ctx context.Context, id uuid.UUID, form mappers.JobReorderForm) (*model.Job, error) {
	tracer := js.logger.WithContext(ctx).Operation("reorder_job").
		WithUUID("job_id", id).
		WithInt("from_order", form.FromOrder).
		WithInt("to_order", form.ToOrder).
		Build()

	ctx, err := js.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	job, err := js.store.Job().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrJobNotFound(id)
		}
		return nil, err
	}

	maxOrder, err := js.store.Job().MaxOrder(ctx)
	if err != nil {
		return nil, err
	}
	if form.ToOrder < 1 || form.ToOrder > maxOrder {
		return nil, NewErrValidation("toOrder %d is out of range [1, %d]", form.ToOrder, maxOrder)
	}

	from := job.Order
	if form.FromOrder != from {
		tracer.Warn(fmt.Errorf("stale fromOrder %d, job is at %d", form.FromOrder, from)).Log()
	}

	if form.ToOrder == from {
		tracer.Success().WithString("result", "unchanged").Log()
		return job, nil
	}

	if form.ToOrder < from {
		err = js.store.Job().ShiftOrder(ctx, form.ToOrder, from-1, 1)
	} else {
		err = js.store.Job().ShiftOrder(ctx, from+1, form.ToOrder, -1)
	}
	if err != nil {
		return nil, err
	}

	job.Order = form.ToOrder
	updated, err := js.store.Job().Update(ctx, *job)
	if err != nil {
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	tracer.Success().WithInt("order", updated.Order).Log()
	return updated, nil
}
