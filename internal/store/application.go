package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

type Application interface {
	List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	GetByCandidate(ctx context.Context, candidateID uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, application model.Application) (*model.Application, error)
	BulkCreate(ctx context.Context, applications model.ApplicationList) error
	AppendTimeline(ctx context.Context, id uuid.UUID, entry model.TimelineEntry) (*model.Application, error)
	InitialMigration(ctx context.Context) error
}

type ApplicationStore struct {
	db *gorm.DB
}

var _ Application = (*ApplicationStore)(nil)

func NewApplicationStore(db *gorm.DB) Application {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) InitialMigration(ctx context.Context) error {
	return s.getDB(ctx).AutoMigrate(&model.Application{}, &model.TimelineEntry{})
}

func (s *ApplicationStore) List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error) {
	var applications model.ApplicationList
	tx := s.withTimeline(s.getDB(ctx).Model(&applications)).Order("applied_at DESC").Order("id")
	if filter != nil {
		tx = apply(tx, filter.QueryFn)
	}
	if err := tx.Find(&applications).Error; err != nil {
		return nil, err
	}
	return applications, nil
}

func (s *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := s.withTimeline(s.getDB(ctx)).First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &application, nil
}

// GetByCandidate returns the application of a candidate. A candidate applies
// to a single job, so there is at most one.
func (s *ApplicationStore) GetByCandidate(ctx context.Context, candidateID uuid.UUID) (*model.Application, error) {
	var application model.Application
	if err := s.withTimeline(s.getDB(ctx)).First(&application, "candidate_id = ?", candidateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &application, nil
}

// Create inserts the application together with its initial timeline entries.
func (s *ApplicationStore) Create(ctx context.Context, application model.Application) (*model.Application, error) {
	if err := s.getDB(ctx).Create(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, err
	}
	return s.Get(ctx, application.ID)
}

func (s *ApplicationStore) BulkCreate(ctx context.Context, applications model.ApplicationList) error {
	if len(applications) == 0 {
		return nil
	}
	return s.getDB(ctx).CreateInBatches(&applications, 100).Error
}

// AppendTimeline records the entry and moves the application to entry.Stage.
func (s *ApplicationStore) AppendTimeline(ctx context.Context, id uuid.UUID, entry model.TimelineEntry) (*model.Application, error) {
	db := s.getDB(ctx)

	result := db.Model(&model.Application{}).Where("id = ?", id).Update("stage", entry.Stage)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecordNotFound
	}

	entry.ID = 0
	entry.ApplicationID = id
	if err := db.Create(&entry).Error; err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

func (s *ApplicationStore) withTimeline(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Timeline", func(db *gorm.DB) *gorm.DB {
		return db.Order("timeline_entries.occurred_at").Order("timeline_entries.id")
	})
}

func (s *ApplicationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}
