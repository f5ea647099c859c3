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

var _ = Describe("candidate service", func() {
	var (
		s      store.Store
		jobs   *service.JobService
		srv    *service.CandidateService
		apps   *service.ApplicationService
		ctx    context.Context
		job    *model.Job
		create func(name, email string) *model.Candidate
	)

	BeforeEach(func() {
		s = newTestStore()
		ctx = context.TODO()
		jobs = service.NewJobService(s)
		apps = service.NewApplicationService(s)
		srv = service.NewCandidateService(s, apps)

		var err error
		job, err = jobs.CreateJob(ctx, mappers.JobCreateForm{Title: "Backend Engineer"})
		Expect(err).To(BeNil())

		create = func(name, email string) *model.Candidate {
			c, err := srv.CreateCandidate(ctx, mappers.CandidateCreateForm{Name: name, Email: email, JobID: job.ID, Actor: "recruiter"})
			Expect(err).To(BeNil())
			return c
		}
	})

	AfterEach(func() {
		s.Close()
	})

	// expectConsistent checks that candidate and application agree on the
	// stage and that the timeline never goes back in time.
	expectConsistent := func(id uuid.UUID) *model.Candidate {
		candidate, err := srv.GetCandidate(ctx, id)
		Expect(err).To(BeNil())
		app, err := s.Application().GetByCandidate(ctx, id)
		Expect(err).To(BeNil())

		Expect(candidate.Stage).To(Equal(app.Stage))
		Expect(app.LastEntry().Stage).To(Equal(app.Stage))
		Expect(candidate.Timeline[0].Stage).To(Equal(model.StageApplied))
		for i := 1; i < len(app.Timeline); i++ {
			Expect(app.Timeline[i].Timestamp.Before(app.Timeline[i-1].Timestamp)).To(BeFalse())
			Expect(app.Timeline[i].FromStage).To(Equal(app.Timeline[i-1].Stage))
		}
		return candidate
	}

	Context("create", func() {
		It("creates the application with an applied entry", func() {
			c := create("Ava Thompson", "ava@example.com")
			Expect(c.Stage).To(Equal(model.StageApplied))
			Expect(c.Timeline).To(HaveLen(1))
			Expect(c.Timeline[0].Actor).To(Equal("recruiter"))

			expectConsistent(c.ID)
		})

		It("requires an existing job", func() {
			_, err := srv.CreateCandidate(ctx, mappers.CandidateCreateForm{Name: "x", Email: "x@example.com", JobID: uuid.New()})
			var nf *service.ErrResourceNotFound
			Expect(errors.As(err, &nf)).To(BeTrue())

			count, err := s.Candidate().Count(ctx, nil)
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", 0))
		})
	})

	Context("stage transitions", func() {
		It("walks the pipeline to hired", func() {
			c := create("Ava Thompson", "ava@example.com")
			for _, stage := range []string{model.StageScreen, model.StageTech, model.StageOffer, model.StageHired} {
				updated, err := srv.TransitionStage(ctx, c.ID, mappers.StageTransitionForm{Stage: stage, Notes: "moved", Actor: "hm"})
				Expect(err).To(BeNil())
				Expect(updated.Stage).To(Equal(stage))
			}

			got := expectConsistent(c.ID)
			Expect(got.Timeline).To(HaveLen(5))
			Expect(got.Timeline[4].Notes).To(Equal("moved"))
			Expect(got.Timeline[4].Actor).To(Equal("hm"))
		})

		It("rejects from any non terminal stage", func() {
			for _, path := range [][]string{
				{},
				{model.StageScreen},
				{model.StageScreen, model.StageTech},
				{model.StageScreen, model.StageTech, model.StageOffer},
			} {
				c := create("Candidate", uuid.NewString()+"@example.com")
				for _, stage := range path {
					_, err := srv.TransitionStage(ctx, c.ID, mappers.StageTransitionForm{Stage: stage})
					Expect(err).To(BeNil())
				}
				_, err := srv.TransitionStage(ctx, c.ID, mappers.StageTransitionForm{Stage: model.StageRejected})
				Expect(err).To(BeNil())
				expectConsistent(c.ID)
			}
		})

		DescribeTable("invalid transitions leave the candidate untouched",
			func(path []string, target string) {
				c := create("Candidate", "c@example.com")
				for _, stage := range path {
					_, err := srv.TransitionStage(ctx, c.ID, mappers.StageTransitionForm{Stage: stage})
					Expect(err).To(BeNil())
				}

				_, err := srv.TransitionStage(ctx, c.ID, mappers.StageTransitionForm{Stage: target})
				var invalid *service.ErrInvalidStageTransition
				Expect(errors.As(err, &invalid)).To(BeTrue())

				got := expectConsistent(c.ID)
				Expect(got.Timeline).To(HaveLen(len(path) + 1))
			},
			Entry("skipping a stage", []string{}, model.StageTech),
			Entry("same stage", []string{model.StageScreen}, model.StageScreen),
			Entry("going back", []string{model.StageScreen, model.StageTech}, model.StageScreen),
			Entry("leaving hired", []string{model.StageScreen, model.StageTech, model.StageOffer, model.StageHired}, model.StageRejected),
			Entry("leaving rejected", []string{model.StageRejected}, model.StageScreen),
			Entry("unknown stage", []string{}, "interview"),
		)

		It("returns not found for unknown candidates", func() {
			_, err := srv.TransitionStage(ctx, uuid.New(), mappers.StageTransitionForm{Stage: model.StageScreen})
			var nf *service.ErrResourceNotFound
			Expect(errors.As(err, &nf)).To(BeTrue())
		})
	})

	Context("update", func() {
		It("changes contact fields only", func() {
			c := create("Ava Thompson", "ava@example.com")
			updated, err := srv.UpdateCandidate(ctx, c.ID, mappers.CandidateUpdateForm{Phone: ptr("+1-555-0000")})
			Expect(err).To(BeNil())
			Expect(updated.Phone).To(Equal("+1-555-0000"))
			Expect(updated.Email).To(Equal("ava@example.com"))
			Expect(updated.Timeline).To(HaveLen(1))
		})
	})

	Context("patch", func() {
		It("stores the transition and the contact fields together", func() {
			c := create("Ava Thompson", "ava@example.com")
			patched, err := srv.PatchCandidate(ctx, c.ID,
				mappers.CandidateUpdateForm{Name: ptr("Ava T.")},
				&mappers.StageTransitionForm{Stage: model.StageScreen, Actor: "hm"})
			Expect(err).To(BeNil())
			Expect(patched.Name).To(Equal("Ava T."))
			Expect(patched.Stage).To(Equal(model.StageScreen))
			Expect(patched.Timeline).To(HaveLen(2))

			expectConsistent(c.ID)
		})

		It("rolls the transition back when the contact update fails", func() {
			c := create("Ava Thompson", "ava@example.com")

			broken := failingUpdateStore{Store: s}
			brokenSrv := service.NewCandidateService(broken, service.NewApplicationService(broken))
			_, err := brokenSrv.PatchCandidate(ctx, c.ID,
				mappers.CandidateUpdateForm{Name: ptr("Ava T.")},
				&mappers.StageTransitionForm{Stage: model.StageScreen})
			Expect(err).To(MatchError(errUpdateFailed))

			candidate := expectConsistent(c.ID)
			Expect(candidate.Stage).To(Equal(model.StageApplied))
			Expect(candidate.Name).To(Equal("Ava Thompson"))
			Expect(candidate.Timeline).To(HaveLen(1))
		})

		It("leaves contact fields alone when the transition is rejected", func() {
			c := create("Ava Thompson", "ava@example.com")
			_, err := srv.PatchCandidate(ctx, c.ID,
				mappers.CandidateUpdateForm{Name: ptr("Ava T.")},
				&mappers.StageTransitionForm{Stage: model.StageHired})
			var invalid *service.ErrInvalidStageTransition
			Expect(errors.As(err, &invalid)).To(BeTrue())

			candidate, err := srv.GetCandidate(ctx, c.ID)
			Expect(err).To(BeNil())
			Expect(candidate.Name).To(Equal("Ava Thompson"))
		})
	})

	Context("list", func() {
		It("filters, sorts and pages", func() {
			create("Zoe Adams", "zoe@example.com")
			ava := create("Ava Thompson", "ava@example.com")
			create("Liam Carter", "liam@example.com")
			_, err := srv.TransitionStage(ctx, ava.ID, mappers.StageTransitionForm{Stage: model.StageScreen})
			Expect(err).To(BeNil())

			list, total, err := srv.ListCandidates(ctx, service.CandidateFilter{
				SortBy:    store.CandidateSortByName,
				SortOrder: "asc",
				Page:      service.NewPage(1, 2),
			})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 3))
			Expect(list).To(HaveLen(2))
			Expect(list[0].Name).To(Equal("Ava Thompson"))
			Expect(list[1].Name).To(Equal("Liam Carter"))

			list, total, err = srv.ListCandidates(ctx, service.CandidateFilter{Stage: model.StageScreen, JobID: &job.ID})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 1))
			Expect(list[0].ID).To(Equal(ava.ID))

			_, total, err = srv.ListCandidates(ctx, service.CandidateFilter{Search: "LIAM@"})
			Expect(err).To(BeNil())
			Expect(total).To(BeNumerically("==", 1))
		})
	})

	Context("assessment invitation", func() {
		It("requires the assessment to exist", func() {
			c := create("Ava Thompson", "ava@example.com")
			_, err := srv.InviteAssessment(ctx, c.ID, nil)
			var nf *service.ErrResourceNotFound
			Expect(errors.As(err, &nf)).To(BeTrue())
		})

		It("marks the candidate invited", func() {
			c := create("Ava Thompson", "ava@example.com")
			_, err := service.NewAssessmentService(s).UpsertAssessment(ctx, job.ID, mappers.AssessmentForm{Title: "Screen"})
			Expect(err).To(BeNil())

			status, err := srv.InviteAssessment(ctx, c.ID, nil)
			Expect(err).To(BeNil())
			Expect(status.Invited).To(BeTrue())
			Expect(status.InvitedAt).ToNot(BeNil())
			Expect(status.Completed).To(BeFalse())
			Expect(status.JobID).To(Equal(job.ID))
		})
	})
})

var errUpdateFailed = errors.New("update failed")

// failingUpdateStore rejects every candidate contact update.
type failingUpdateStore struct {
	store.Store
}

func (f failingUpdateStore) Candidate() store.Candidate {
	return failingCandidates{Candidate: f.Store.Candidate()}
}

type failingCandidates struct {
	store.Candidate
}

func (failingCandidates) Update(context.Context, model.Candidate) (*model.Candidate, error) {
	return nil, errUpdateFailed
}
