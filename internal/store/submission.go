package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

// Submission has no update or delete: submissions are immutable.
type Submission interface {
	List(ctx context.Context, filter *SubmissionQueryFilter) (model.SubmissionList, error)
	Get(ctx context.Context, jobID, candidateID uuid.UUID) (*model.Submission, error)
	Create(ctx context.Context, submission model.Submission) (*model.Submission, error)
	Count(ctx context.Context) (int64, error)
	InitialMigration(ctx context.Context) error
}

type SubmissionStore struct {
	db *gorm.DB
}

var _ Submission = (*SubmissionStore)(nil)

func NewSubmissionStore(db *gorm.DB) Submission {
	return &SubmissionStore{db: db}
}

func (s *SubmissionStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Submission{})
}

func (s *SubmissionStore) List(ctx context.Context, filter *SubmissionQueryFilter) (model.SubmissionList, error) {
	var submissions model.SubmissionList
	tx := s.getDB(ctx).Model(&submissions).Order("submitted_at DESC")
	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if err := tx.Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s *SubmissionStore) Get(ctx context.Context, jobID, candidateID uuid.UUID) (*model.Submission, error) {
	var submission model.Submission
	result := s.getDB(ctx).First(&submission, "job_id = ? AND candidate_id = ?", jobID, candidateID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &submission, nil
}

func (s *SubmissionStore) Create(ctx context.Context, submission model.Submission) (*model.Submission, error) {
	if err := s.getDB(ctx).Create(&submission).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &submission, nil
}

func (s *SubmissionStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.getDB(ctx).Model(&model.Submission{}).Count(&count).Error
	return count, err
}

func (s *SubmissionStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
