package v1alpha1_test

import (
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store"
)

func singleQuestionForm(enableScoring bool) api.AssessmentForm {
	correct := api.StringAnswer("Advanced")
	return api.AssessmentForm{
		Title:         "Screen",
		EnableScoring: enableScoring,
		Sections: []api.Section{{
			Id:    "s1",
			Title: "Basics",
			Questions: []api.Question{{
				Id:            "level",
				Type:          api.QuestionTypeSingleChoice,
				Title:         "Level",
				Required:      true,
				Options:       []string{"Beginner", "Advanced"},
				CorrectAnswer: &correct,
				Points:        ptr(2.0),
			}},
		}},
	}
}

var _ = Describe("assessment handler", func() {
	var (
		s         store.Store
		router    http.Handler
		job       api.Job
		candidate api.Candidate
		path      string
	)

	BeforeEach(func() {
		s = newTestStore()
		router = newRouter(s)
		Expect(do(router, http.MethodPost, "/jobs", api.JobCreate{Title: "Frontend"}, &job).Code).To(Equal(http.StatusCreated))
		Expect(do(router, http.MethodPost, "/candidates", api.CandidateCreate{Name: "Ava", Email: "ava@example.com", JobId: job.Id}, &candidate).Code).To(Equal(http.StatusCreated))
		path = "/assessments/" + job.Id.String()
	})

	AfterEach(func() {
		s.Close()
	})

	It("upserts, reads and deletes", func() {
		Expect(do(router, http.MethodGet, path, nil, nil).Code).To(Equal(http.StatusNotFound))

		var created api.Assessment
		Expect(do(router, http.MethodPut, path, singleQuestionForm(true), &created).Code).To(Equal(http.StatusOK))
		Expect(created.JobId).To(Equal(job.Id))
		Expect(created.Sections[0].Questions[0].CorrectAnswer.String()).To(Equal("Advanced"))

		var got api.Assessment
		Expect(do(router, http.MethodGet, path, nil, &got).Code).To(Equal(http.StatusOK))
		Expect(got.Id).To(Equal(created.Id))

		Expect(do(router, http.MethodDelete, path, nil, nil).Code).To(Equal(http.StatusOK))
		Expect(do(router, http.MethodGet, path, nil, nil).Code).To(Equal(http.StatusNotFound))
	})

	It("rejects choice questions without options", func() {
		form := singleQuestionForm(true)
		form.Sections[0].Questions[0].Options = nil
		Expect(do(router, http.MethodPut, path, form, nil).Code).To(Equal(http.StatusBadRequest))
	})

	DescribeTable("scores single choice submissions",
		func(answer string, expected int) {
			Expect(do(router, http.MethodPut, path, singleQuestionForm(true), nil).Code).To(Equal(http.StatusOK))

			var submission api.Submission
			rr := do(router, http.MethodPost, path+"/submit", api.SubmissionForm{
				CandidateId: candidate.Id,
				Responses:   map[string]api.Answer{"level": api.StringAnswer(answer)},
			}, &submission)
			Expect(rr.Code).To(Equal(http.StatusCreated))
			Expect(submission.Score).ToNot(BeNil())
			Expect(*submission.Score).To(Equal(expected))
			Expect(submission.MaxScore).To(Equal(2.0))
			Expect(submission.Breakdown).To(HaveLen(1))
		},
		Entry("correct", "Advanced", 100),
		Entry("wrong", "Beginner", 0),
	)

	It("omits the score when scoring is disabled", func() {
		Expect(do(router, http.MethodPut, path, singleQuestionForm(false), nil).Code).To(Equal(http.StatusOK))

		var submission api.Submission
		rr := do(router, http.MethodPost, path+"/submit", api.SubmissionForm{
			CandidateId: candidate.Id,
			Responses:   map[string]api.Answer{"level": api.StringAnswer("Advanced")},
		}, &submission)
		Expect(rr.Code).To(Equal(http.StatusCreated))
		Expect(submission.Score).To(BeNil())
		Expect(rr.Body.String()).ToNot(ContainSubstring(`"score"`))
	})

	It("invites, completes and reports the status", func() {
		Expect(do(router, http.MethodPut, path, singleQuestionForm(true), nil).Code).To(Equal(http.StatusOK))

		var status api.AssessmentStatus
		rr := do(router, http.MethodPost, fmt.Sprintf("/candidates/%s/invite-assessment", candidate.Id), nil, &status)
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(status.Invited).To(BeTrue())
		Expect(status.Completed).To(BeFalse())

		form := api.SubmissionForm{CandidateId: candidate.Id, Responses: map[string]api.Answer{"level": api.StringAnswer("Advanced")}}
		Expect(do(router, http.MethodPost, path+"/submit", form, nil).Code).To(Equal(http.StatusCreated))
		Expect(do(router, http.MethodPost, path+"/submit", form, nil).Code).To(Equal(http.StatusConflict))

		rr = do(router, http.MethodGet, fmt.Sprintf("/candidates/%s/assessment-status/%s", candidate.Id, job.Id), nil, &status)
		Expect(rr.Code).To(Equal(http.StatusOK))
		Expect(status.Completed).To(BeTrue())
		Expect(status.Submission).ToNot(BeNil())
		Expect(*status.Submission.Score).To(Equal(100))

		var submissions []api.Submission
		Expect(do(router, http.MethodGet, path+"/submissions", nil, &submissions).Code).To(Equal(http.StatusOK))
		Expect(submissions).To(HaveLen(1))
	})

	It("returns 400 for missing required answers", func() {
		Expect(do(router, http.MethodPut, path, singleQuestionForm(true), nil).Code).To(Equal(http.StatusOK))
		rr := do(router, http.MethodPost, path+"/submit", api.SubmissionForm{CandidateId: candidate.Id}, nil)
		Expect(rr.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(rr).Message).To(ContainSubstring("level"))
	})

	It("returns 404 when inviting without an assessment", func() {
		rr := do(router, http.MethodPost, fmt.Sprintf("/candidates/%s/invite-assessment", candidate.Id), nil, nil)
		Expect(rr.Code).To(Equal(http.StatusNotFound))
	})
})
