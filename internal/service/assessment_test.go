package service_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
)

func screeningForm(enableScoring bool) mappers.AssessmentForm {
	level := api.StringAnswer("Advanced")
	hooks := api.ListAnswer("A", "B", "C")
	return mappers.AssessmentForm{
		Title:         "Screen",
		EnableScoring: enableScoring,
		Sections: []model.Section{{
			ID:    "s1",
			Title: "Basics",
			Questions: []model.Question{
				{ID: "level", Type: model.QuestionSingleChoice, Required: true, Options: []string{"Beginner", "Advanced"}, CorrectAnswer: &level, Points: ptr(2.0)},
				{ID: "hooks", Type: model.QuestionMultiChoice, Options: []string{"A", "B", "C", "D"}, CorrectAnswer: &hooks, Points: ptr(4.0)},
				{ID: "ssr", Type: model.QuestionSingleChoice, Required: true, Options: []string{"Yes", "No"}},
				{
					ID:          "ssr-detail",
					Type:        model.QuestionLongText,
					Required:    true,
					Conditional: &model.Conditional{DependsOn: "ssr", Condition: model.ConditionEquals, Value: "Yes"},
				},
			},
		}},
	}
}

var _ = Describe("assessment service", func() {
	var (
		s          store.Store
		ctx        context.Context
		srv        *service.AssessmentService
		candidates *service.CandidateService
		job        *model.Job
		candidate  *model.Candidate
	)

	BeforeEach(func() {
		s = newTestStore()
		ctx = context.TODO()
		srv = service.NewAssessmentService(s)
		candidates = service.NewCandidateService(s, service.NewApplicationService(s))

		var err error
		job, err = service.NewJobService(s).CreateJob(ctx, mappers.JobCreateForm{Title: "Frontend"})
		Expect(err).To(BeNil())
		candidate, err = candidates.CreateCandidate(ctx, mappers.CandidateCreateForm{Name: "Ava", Email: "ava@example.com", JobID: job.ID})
		Expect(err).To(BeNil())
	})

	AfterEach(func() {
		s.Close()
	})

	Context("upsert", func() {
		It("creates then replaces the assessment of a job", func() {
			created, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())

			form := screeningForm(false)
			form.Title = "Screen v2"
			updated, err := srv.UpsertAssessment(ctx, job.ID, form)
			Expect(err).To(BeNil())
			Expect(updated.ID).To(Equal(created.ID))
			Expect(updated.Title).To(Equal("Screen v2"))
			Expect(updated.EnableScoring).To(BeFalse())

			count, err := s.Assessment().Count(ctx)
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", 1))
		})

		It("requires the job", func() {
			_, err := srv.UpsertAssessment(ctx, uuid.New(), screeningForm(true))
			var nf *service.ErrResourceNotFound
			Expect(errors.As(err, &nf)).To(BeTrue())
		})

		It("deletes", func() {
			_, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())
			Expect(srv.DeleteAssessment(ctx, job.ID)).To(Succeed())

			_, err = srv.GetAssessment(ctx, job.ID)
			var nf *service.ErrResourceNotFound
			Expect(errors.As(err, &nf)).To(BeTrue())
			Expect(errors.As(srv.DeleteAssessment(ctx, job.ID), &nf)).To(BeTrue())
		})
	})

	Context("submit", func() {
		It("scores, stores and completes", func() {
			_, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())

			result, err := srv.Submit(ctx, job.ID, mappers.SubmissionForm{
				CandidateID: candidate.ID,
				Responses: map[string]api.Answer{
					"level": api.StringAnswer("Advanced"),
					"hooks": api.ListAnswer("A", "B"),
					"ssr":   api.StringAnswer("No"),
				},
			})
			Expect(err).To(BeNil())
			// (2 + 4*2/3) / 6
			Expect(result.Submission.Score).ToNot(BeNil())
			Expect(*result.Submission.Score).To(Equal(78))
			Expect(result.Submission.MaxScore).To(Equal(6.0))
			Expect(result.Submission.ScoredQuestions).To(Equal(2))
			Expect(result.Breakdown).To(HaveLen(4))

			status, err := candidates.AssessmentStatus(ctx, candidate.ID, job.ID)
			Expect(err).To(BeNil())
			Expect(status.Completed).To(BeTrue())
			Expect(status.Submission.ID).To(Equal(result.Submission.ID))

			got, err := s.Candidate().Get(ctx, candidate.ID)
			Expect(err).To(BeNil())
			Expect(got.AssessmentCompleted).To(BeTrue())
		})

		It("leaves the score empty when scoring is disabled", func() {
			_, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(false))
			Expect(err).To(BeNil())

			result, err := srv.Submit(ctx, job.ID, mappers.SubmissionForm{
				CandidateID: candidate.ID,
				Responses: map[string]api.Answer{
					"level": api.StringAnswer("Advanced"),
					"ssr":   api.StringAnswer("No"),
				},
			})
			Expect(err).To(BeNil())
			Expect(result.Submission.Score).To(BeNil())
			Expect(result.Breakdown).To(BeNil())
		})

		It("accepts one submission per candidate and job", func() {
			_, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())
			form := mappers.SubmissionForm{
				CandidateID: candidate.ID,
				Responses:   map[string]api.Answer{"level": api.StringAnswer("Beginner"), "ssr": api.StringAnswer("No")},
			}

			_, err = srv.Submit(ctx, job.ID, form)
			Expect(err).To(BeNil())
			_, err = srv.Submit(ctx, job.ID, form)
			var dup *service.ErrSubmissionExists
			Expect(errors.As(err, &dup)).To(BeTrue())

			subs, err := srv.ListSubmissions(ctx, job.ID)
			Expect(err).To(BeNil())
			Expect(subs).To(HaveLen(1))
		})

		It("requires visible required answers", func() {
			_, err := srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())

			_, err = srv.Submit(ctx, job.ID, mappers.SubmissionForm{
				CandidateID: candidate.ID,
				Responses:   map[string]api.Answer{"level": api.StringAnswer("Advanced"), "ssr": api.StringAnswer("Yes")},
			})
			var verr *service.ErrValidation
			Expect(errors.As(err, &verr)).To(BeTrue())

			count, err := s.Submission().Count(ctx)
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", 0))
		})

		It("requires the assessment and the candidate", func() {
			var nf *service.ErrResourceNotFound
			_, err := srv.Submit(ctx, job.ID, mappers.SubmissionForm{CandidateID: candidate.ID})
			Expect(errors.As(err, &nf)).To(BeTrue())

			_, err = srv.UpsertAssessment(ctx, job.ID, screeningForm(true))
			Expect(err).To(BeNil())
			_, err = srv.Submit(ctx, job.ID, mappers.SubmissionForm{CandidateID: uuid.New()})
			Expect(errors.As(err, &nf)).To(BeTrue())
		})
	})
})
