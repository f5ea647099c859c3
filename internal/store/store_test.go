package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	st "github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"gorm.io/gorm"
)

var _ = Describe("Store", func() {
	var (
		store  st.Store
		gormDB *gorm.DB
	)

	BeforeEach(func() {
		store, gormDB = newTestStore()
	})

	AfterEach(func() {
		store.Close()
	})

	Context("transaction", func() {
		It("insert a job successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			job, err := store.Job().Create(ctx, model.Job{
				ID:     uuid.New(),
				Title:  "Backend Engineer",
				Slug:   "backend-engineer",
				Status: model.JobStatusActive,
				Order:  1,
			})
			Expect(err).To(BeNil())
			Expect(job).ToNot(BeNil())

			_, cerr := st.Commit(ctx)
			Expect(cerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(1))
		})

		It("rollback a job successfully", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = store.Job().Create(ctx, model.Job{
				ID:     uuid.New(),
				Title:  "Backend Engineer",
				Slug:   "backend-engineer",
				Status: model.JobStatusActive,
				Order:  1,
			})
			Expect(err).To(BeNil())

			// count in the same transaction
			jobs, err := store.Job().List(ctx, st.NewJobQueryFilter(), nil)
			Expect(err).To(BeNil())
			Expect(jobs).To(HaveLen(1))

			_, rerr := st.Rollback(ctx)
			Expect(rerr).To(BeNil())

			count := 0
			err = gormDB.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error
			Expect(err).To(BeNil())
			Expect(count).To(Equal(0))
		})

		It("rollback after commit is a no-op", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			_, err = st.Commit(ctx)
			Expect(err).To(BeNil())

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())
		})

		It("reuses the transaction already in the context", func() {
			ctx, err := store.NewTransactionContext(context.TODO())
			Expect(err).To(BeNil())

			nested, err := store.NewTransactionContext(ctx)
			Expect(err).To(BeNil())
			Expect(st.FromContext(nested)).To(BeIdenticalTo(st.FromContext(ctx)))

			_, err = st.Rollback(ctx)
			Expect(err).To(BeNil())
		})
	})

	Context("seed", func() {
		It("seeds the database", func() {
			Expect(store.Seed(context.TODO())).To(Succeed())

			count := 0
			Expect(gormDB.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(6))

			Expect(gormDB.Raw("SELECT COUNT(*) from candidates;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(11))

			Expect(gormDB.Raw("SELECT COUNT(*) from applications;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(11))

			Expect(gormDB.Raw("SELECT COUNT(*) from assessments;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(2))
		})

		It("is idempotent", func() {
			Expect(store.Seed(context.TODO())).To(Succeed())
			Expect(store.Seed(context.TODO())).To(Succeed())

			count := 0
			Expect(gormDB.Raw("SELECT COUNT(*) from jobs;").Scan(&count).Error).To(BeNil())
			Expect(count).To(Equal(6))
		})

		It("keeps candidate stage equal to the last timeline entry", func() {
			Expect(store.Seed(context.TODO())).To(Succeed())

			applications, err := store.Application().List(context.TODO(), nil)
			Expect(err).To(BeNil())
			Expect(applications).ToNot(BeEmpty())

			for _, app := range applications {
				Expect(app.Timeline).ToNot(BeEmpty())
				Expect(app.Timeline[0].Stage).To(Equal(model.StageApplied))
				Expect(app.LastEntry().Stage).To(Equal(app.Stage))

				candidate, err := store.Candidate().Get(context.TODO(), app.CandidateID)
				Expect(err).To(BeNil())
				Expect(candidate.Stage).To(Equal(app.Stage))

				for i := 1; i < len(app.Timeline); i++ {
					Expect(app.Timeline[i].Timestamp.Before(app.Timeline[i-1].Timestamp)).To(BeFalse())
				}
			}
		})

		It("produces contiguous job order", func() {
			Expect(store.Seed(context.TODO())).To(Succeed())

			jobs, err := store.Job().List(context.TODO(), nil, nil)
			Expect(err).To(BeNil())
			for i, j := range jobs {
				Expect(j.Order).To(Equal(i + 1))
			}
		})
	})

	Context("statistics", func() {
		It("counts the seeded pipeline", func() {
			Expect(store.Seed(context.TODO())).To(Succeed())

			stats, err := store.Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.JobsByStatus[model.JobStatusActive]).To(BeNumerically("==", 5))
			Expect(stats.JobsByStatus[model.JobStatusArchived]).To(BeNumerically("==", 1))
			Expect(stats.CandidatesByStage[model.StageApplied]).To(BeNumerically("==", 3))
			Expect(stats.CandidatesByStage[model.StageRejected]).To(BeNumerically("==", 2))
			Expect(stats.CandidatesByStage[model.StageHired]).To(BeNumerically("==", 1))
			Expect(stats.AssessmentsTotal).To(BeNumerically("==", 2))
			Expect(stats.SubmissionsTotal).To(BeNumerically("==", 0))
		})

		It("reports every stage on an empty store", func() {
			stats, err := store.Statistics(context.TODO())
			Expect(err).To(BeNil())
			Expect(stats.CandidatesByStage).To(HaveLen(len(model.Stages)))
		})
	})

	Context("slug helpers", func() {
		It("slugifies titles", func() {
			Expect(st.Slugify("Senior Frontend Engineer")).To(Equal("senior-frontend-engineer"))
			Expect(st.Slugify("  Backend Engineer, Platform!  ")).To(Equal("backend-engineer-platform"))
			Expect(st.Slugify("C++ / Go")).To(Equal("c-go"))
			Expect(st.Slugify("!!!")).To(Equal(""))
		})

		It("derives stable seed ids", func() {
			Expect(st.SeedID("job", "a")).To(Equal(st.SeedID("job", "a")))
			Expect(st.SeedID("job", "a")).ToNot(Equal(st.SeedID("candidate", "a")))
		})

		It("walks stage paths", func() {
			Expect(st.StagePath(model.StageApplied)).To(Equal([]string{model.StageApplied}))
			Expect(st.StagePath(model.StageTech)).To(Equal([]string{model.StageApplied, model.StageScreen, model.StageTech}))
			Expect(st.StagePath(model.StageRejected)).To(Equal([]string{model.StageApplied, model.StageRejected}))
			Expect(st.StagePath(model.StageHired)).To(HaveLen(5))
		})
	})
})
