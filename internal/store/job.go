package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

type Job interface {
	List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error)
	Count(ctx context.Context, filter *JobQueryFilter) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	GetBySlug(ctx context.Context, slug string) (*model.Job, error)
	Create(ctx context.Context, job model.Job) (*model.Job, error)
	BulkCreate(ctx context.Context, jobs model.JobList) error
	Update(ctx context.Context, job model.Job) (*model.Job, error)
	MaxOrder(ctx context.Context) (int, error)
	ShiftOrder(ctx context.Context, from, to, delta int) error
	InitialMigration(ctx context.Context) error
}

type JobStore struct {
	db *gorm.DB
}

// Make sure we conform to Job interface
var _ Job = (*JobStore)(nil)

func NewJobStore(db *gorm.DB) Job {
	return &JobStore{db: db}
}

func (s *JobStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Job{})
}

func (s *JobStore) List(ctx context.Context, filter *JobQueryFilter, opts *JobQueryOptions) (model.JobList, error) {
	var jobs model.JobList
	tx := s.getDB(ctx).Model(&jobs)

	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if opts != nil {
		tx = apply(tx, opts.QueryFn)
	} else {
		tx = tx.Order("position")
	}

	if err := tx.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *JobStore) Count(ctx context.Context, filter *JobQueryFilter) (int64, error) {
	var count int64
	tx := s.getDB(ctx).Model(&model.Job{})
	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *JobStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var job model.Job
	if err := s.getDB(ctx).First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *JobStore) GetBySlug(ctx context.Context, slug string) (*model.Job, error) {
	var job model.Job
	if err := s.getDB(ctx).First(&job, "slug = ?", slug).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (s *JobStore) Create(ctx context.Context, job model.Job) (*model.Job, error) {
	if err := s.getDB(ctx).Create(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &job, nil
}

func (s *JobStore) BulkCreate(ctx context.Context, jobs model.JobList) error {
	if len(jobs) == 0 {
		return nil
	}
	if err := s.getDB(ctx).CreateInBatches(&jobs, 100).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

func (s *JobStore) Update(ctx context.Context, job model.Job) (*model.Job, error) {
	result := s.getDB(ctx).Model(&job).
		Select("title", "slug", "description", "location", "status", "tags", "position", "updated_at").
		Updates(&job)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, job.ID)
}

// MaxOrder returns 0 when there are no jobs.
func (s *JobStore) MaxOrder(ctx context.Context) (int, error) {
	var max *int
	if err := s.getDB(ctx).Model(&model.Job{}).Select("MAX(position)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

// ShiftOrder adds delta to the rank of every job ranked within [from, to].
func (s *JobStore) ShiftOrder(ctx context.Context, from, to, delta int) error {
	if from > to {
		from, to = to, from
	}
	return s.getDB(ctx).Model(&model.Job{}).
		Where("position BETWEEN ? AND ?", from, to).
		UpdateColumn("position", gorm.Expr("position + ?", delta)).Error
}

func (s *JobStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
