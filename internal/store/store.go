package store

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Job() Job
	Candidate() Candidate
	Application() Application
	Assessment() Assessment
	Submission() Submission
	KeyValue() KeyValue
	InitialMigration(ctx context.Context) error
	Seed(ctx context.Context) error
	Statistics(ctx context.Context) (model.PipelineStats, error)
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	log         logrus.FieldLogger
	job         Job
	candidate   Candidate
	application Application
	assessment  Assessment
	submission  Submission
	keyValue    KeyValue
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		log:         logrus.WithField("pkg", "store"),
		job:         NewJobStore(db),
		candidate:   NewCandidateStore(db),
		application: NewApplicationStore(db),
		assessment:  NewAssessmentStore(db),
		submission:  NewSubmissionStore(db),
		keyValue:    NewKeyValueStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db, s.log)
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Candidate() Candidate {
	return s.candidate
}

func (s *DataStore) Application() Application {
	return s.application
}

func (s *DataStore) Assessment() Assessment {
	return s.assessment
}

func (s *DataStore) Submission() Submission {
	return s.submission
}

func (s *DataStore) KeyValue() KeyValue {
	return s.keyValue
}

func (s *DataStore) InitialMigration(ctx context.Context) error {
	ctx, err := s.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = Rollback(ctx)
	}()

	migrations := []func(context.Context) error{
		s.Job().InitialMigration,
		s.Candidate().InitialMigration,
		s.Application().InitialMigration,
		s.Assessment().InitialMigration,
		s.Submission().InitialMigration,
		s.KeyValue().InitialMigration,
	}
	for _, migrate := range migrations {
		if err := migrate(ctx); err != nil {
			return err
		}
	}

	_, err = Commit(ctx)
	return err
}

func (s *DataStore) Statistics(ctx context.Context) (model.PipelineStats, error) {
	stats := model.PipelineStats{
		JobsByStatus: map[string]int64{},
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var rows []statusCount
	if err := s.db.WithContext(ctx).Model(&model.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return stats, err
	}
	for _, r := range rows {
		stats.JobsByStatus[r.Status] = r.Count
	}

	byStage, err := s.Candidate().CountByStage(ctx)
	if err != nil {
		return stats, err
	}
	stats.CandidatesByStage = byStage

	if stats.SubmissionsTotal, err = s.Submission().Count(ctx); err != nil {
		return stats, err
	}
	if stats.AssessmentsTotal, err = s.Assessment().Count(ctx); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
