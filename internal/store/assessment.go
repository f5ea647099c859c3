package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

type Assessment interface {
	GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.Assessment, error)
	Create(ctx context.Context, assessment model.Assessment) (*model.Assessment, error)
	BulkCreate(ctx context.Context, assessments model.AssessmentList) error
	Update(ctx context.Context, assessment model.Assessment) (*model.Assessment, error)
	DeleteByJobID(ctx context.Context, jobID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
	InitialMigration(ctx context.Context) error
}

type AssessmentStore struct {
	db *gorm.DB
}

// Make sure we conform to Assessment interface
var _ Assessment = (*AssessmentStore)(nil)

func NewAssessmentStore(db *gorm.DB) Assessment {
	return &AssessmentStore{db: db}
}

func (a *AssessmentStore) InitialMigration(ctx context.Context) error {
	return a.getDB(ctx).AutoMigrate(&model.Assessment{})
}

// GetByJobID returns the most recently updated assessment of the job. Nothing
// prevents several rows per job, but the service upserts a single one.
func (a *AssessmentStore) GetByJobID(ctx context.Context, jobID uuid.UUID) (*model.Assessment, error) {
	var assessment model.Assessment
	result := a.getDB(ctx).Where("job_id = ?", jobID).Order("updated_at DESC").First(&assessment)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &assessment, nil
}

func (a *AssessmentStore) Create(ctx context.Context, assessment model.Assessment) (*model.Assessment, error) {
	if err := a.getDB(ctx).Create(&assessment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return &assessment, nil
}

func (a *AssessmentStore) BulkCreate(ctx context.Context, assessments model.AssessmentList) error {
	if len(assessments) == 0 {
		return nil
	}
	return a.getDB(ctx).CreateInBatches(&assessments, 100).Error
}

func (a *AssessmentStore) Update(ctx context.Context, assessment model.Assessment) (*model.Assessment, error) {
	result := a.getDB(ctx).Model(&assessment).
		Select("title", "description", "enable_scoring", "sections", "updated_at").
		Updates(&assessment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	var updated model.Assessment
	if err := a.getDB(ctx).First(&updated, "id = ?", assessment.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

func (a *AssessmentStore) DeleteByJobID(ctx context.Context, jobID uuid.UUID) error {
	result := a.getDB(ctx).Where("job_id = ?", jobID).Delete(&model.Assessment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (a *AssessmentStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := a.getDB(ctx).Model(&model.Assessment{}).Count(&count).Error
	return count, err
}

func (a *AssessmentStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return a.db.WithContext(ctx)
}
