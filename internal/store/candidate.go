package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

type Candidate interface {
	List(ctx context.Context, filter *CandidateQueryFilter, opts *CandidateQueryOptions) (model.CandidateList, error)
	Count(ctx context.Context, filter *CandidateQueryFilter) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error)
	Create(ctx context.Context, candidate model.Candidate) (*model.Candidate, error)
	BulkCreate(ctx context.Context, candidates model.CandidateList) error
	Update(ctx context.Context, candidate model.Candidate) (*model.Candidate, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage string) error
	MarkInvited(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error
	CountByStage(ctx context.Context) (map[string]int64, error)
	InitialMigration(ctx context.Context) error
}

type CandidateStore struct {
	db *gorm.DB
}

var _ Candidate = (*CandidateStore)(nil)

func NewCandidateStore(db *gorm.DB) Candidate {
	return &CandidateStore{db: db}
}

func (s *CandidateStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Candidate{})
}

func (s *CandidateStore) List(ctx context.Context, filter *CandidateQueryFilter, opts *CandidateQueryOptions) (model.CandidateList, error) {
	var candidates model.CandidateList
	tx := s.getDB(ctx).Model(&candidates)

	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if opts != nil {
		tx = apply(tx, opts.QueryFn)
	} else {
		tx = tx.Order("applied_at DESC")
	}

	if err := tx.Find(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

func (s *CandidateStore) Count(ctx context.Context, filter *CandidateQueryFilter) (int64, error) {
	var count int64
	tx := s.getDB(ctx).Model(&model.Candidate{})
	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (s *CandidateStore) Get(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := s.getDB(ctx).First(&candidate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &candidate, nil
}

func (s *CandidateStore) Create(ctx context.Context, candidate model.Candidate) (*model.Candidate, error) {
	if err := s.getDB(ctx).Create(&candidate).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &candidate, nil
}

func (s *CandidateStore) BulkCreate(ctx context.Context, candidates model.CandidateList) error {
	if len(candidates) == 0 {
		return nil
	}
	return s.getDB(ctx).CreateInBatches(&candidates, 100).Error
}

// Update writes the contact fields only. Stage and assessment flags have
// dedicated operations.
func (s *CandidateStore) Update(ctx context.Context, candidate model.Candidate) (*model.Candidate, error) {
	result := s.getDB(ctx).Model(&candidate).
		Select("name", "email", "phone", "resume", "updated_at").
		Updates(&candidate)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}
	return s.Get(ctx, candidate.ID)
}

func (s *CandidateStore) UpdateStage(ctx context.Context, id uuid.UUID, stage string) error {
	return s.updateColumns(ctx, id, map[string]any{"stage": stage, "updated_at": time.Now()})
}

func (s *CandidateStore) MarkInvited(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateColumns(ctx, id, map[string]any{
		"assessment_invited":    true,
		"assessment_invited_at": at,
		"updated_at":            time.Now(),
	})
}

func (s *CandidateStore) MarkCompleted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateColumns(ctx, id, map[string]any{
		"assessment_completed":    true,
		"assessment_completed_at": at,
		"updated_at":              time.Now(),
	})
}

func (s *CandidateStore) CountByStage(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Stage string
		Total int64
	}
	if err := s.getDB(ctx).Model(&model.Candidate{}).Select("stage, COUNT(*) as total").Group("stage").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(model.Stages))
	for _, stage := range model.Stages {
		counts[stage] = 0
	}
	for _, r := range rows {
		counts[r.Stage] = r.Total
	}
	return counts, nil
}

func (s *CandidateStore) updateColumns(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	result := s.getDB(ctx).Model(&model.Candidate{}).Where("id = ?", id).UpdateColumns(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *CandidateStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
