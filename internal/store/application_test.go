package store_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	st "github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
)

var _ = Describe("application store", func() {
	var (
		s           st.Store
		ctx         context.Context
		application model.Application
		now         time.Time
	)

	BeforeEach(func() {
		s, _ = newTestStore()
		ctx = context.TODO()
		now = time.Now().UTC().Truncate(time.Second)

		id := uuid.New()
		application = model.Application{
			ID:          id,
			CandidateID: uuid.New(),
			JobID:       uuid.New(),
			Stage:       model.StageApplied,
			AppliedAt:   now,
			Timeline: []model.TimelineEntry{
				{ApplicationID: id, Stage: model.StageApplied, Timestamp: now},
			},
		}
		_, err := s.Application().Create(ctx, application)
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		s.Close()
	})

	It("loads the timeline with the application", func() {
		app, err := s.Application().GetByCandidate(ctx, application.CandidateID)
		Expect(err).To(BeNil())
		Expect(app.Timeline).To(HaveLen(1))
		Expect(app.LastEntry().Stage).To(Equal(model.StageApplied))
	})

	It("appends entries and moves the stage", func() {
		app, err := s.Application().AppendTimeline(ctx, application.ID, model.TimelineEntry{
			FromStage: model.StageApplied,
			Stage:     model.StageScreen,
			Notes:     "phone screen booked",
			Actor:     "recruiter",
			Timestamp: now.Add(time.Minute),
		})
		Expect(err).To(BeNil())
		Expect(app.Stage).To(Equal(model.StageScreen))
		Expect(app.Timeline).To(HaveLen(2))
		Expect(app.Timeline[1].Notes).To(Equal("phone screen booked"))
		Expect(app.LastEntry().Stage).To(Equal(app.Stage))
	})

	It("rejects a second application for the same job", func() {
		dup := application
		dup.ID = uuid.New()
		dup.Timeline = nil
		_, err := s.Application().Create(ctx, dup)
		Expect(err).To(MatchError(st.ErrDuplicateKey))
	})

	It("filters by job", func() {
		apps, err := s.Application().List(ctx, st.NewApplicationQueryFilter().ByJobID(application.JobID))
		Expect(err).To(BeNil())
		Expect(apps).To(HaveLen(1))

		apps, err = s.Application().List(ctx, st.NewApplicationQueryFilter().ByJobID(uuid.New()))
		Expect(err).To(BeNil())
		Expect(apps).To(BeEmpty())
	})

	It("returns not found when appending to an unknown application", func() {
		_, err := s.Application().AppendTimeline(ctx, uuid.New(), model.TimelineEntry{Stage: model.StageScreen, Timestamp: now})
		Expect(err).To(MatchError(st.ErrRecordNotFound))
	})
})
