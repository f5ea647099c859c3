package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
)

var _ = Describe("application service", func() {
	var (
		s          store.Store
		ctx        context.Context
		apps       *service.ApplicationService
		candidates *service.CandidateService
		candidate  *model.Candidate
	)

	BeforeEach(func() {
		s = newTestStore()
		ctx = context.TODO()
		apps = service.NewApplicationService(s)
		candidates = service.NewCandidateService(s, apps)

		job, err := service.NewJobService(s).CreateJob(ctx, mappers.JobCreateForm{Title: "Designer"})
		Expect(err).To(BeNil())
		candidate, err = candidates.CreateCandidate(ctx, mappers.CandidateCreateForm{Name: "Mia", Email: "mia@example.com", JobID: job.ID})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		s.Close()
	})

	It("moves the candidate together with the application", func() {
		list, err := apps.ListApplications(ctx, nil, &candidate.ID)
		Expect(err).To(BeNil())
		Expect(list).To(HaveLen(1))

		app, err := apps.TransitionStage(ctx, list[0].ID, mappers.StageTransitionForm{Stage: model.StageScreen, Actor: "recruiter"})
		Expect(err).To(BeNil())
		Expect(app.Stage).To(Equal(model.StageScreen))
		Expect(app.Timeline).To(HaveLen(2))
		Expect(app.LastEntry().Actor).To(Equal("recruiter"))

		got, err := candidates.GetCandidate(ctx, candidate.ID)
		Expect(err).To(BeNil())
		Expect(got.Stage).To(Equal(model.StageScreen))
		Expect(got.Timeline).To(HaveLen(2))
	})

	It("filters by job", func() {
		list, err := apps.ListApplications(ctx, &candidate.JobID, nil)
		Expect(err).To(BeNil())
		Expect(list).To(HaveLen(1))

		other := uuid.New()
		list, err = apps.ListApplications(ctx, &other, nil)
		Expect(err).To(BeNil())
		Expect(list).To(BeEmpty())
	})

	It("returns not found for unknown applications", func() {
		_, err := apps.TransitionStage(ctx, uuid.New(), mappers.StageTransitionForm{Stage: model.StageScreen})
		var nf *service.ErrResourceNotFound
		Expect(errors.As(err, &nf)).To(BeTrue())
	})
})
