package v1alpha1_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/store"
)

var _ = Describe("candidate handler", func() {
	var (
		s      store.Store
		router http.Handler
		job    api.Job
	)

	BeforeEach(func() {
		s = newTestStore()
		router = newRouter(s)
		rr := do(router, http.MethodPost, "/jobs", api.JobCreate{Title: "Frontend"}, &job)
		Expect(rr.Code).To(Equal(http.StatusCreated))
	})

	AfterEach(func() {
		s.Close()
	})

	createCandidate := func(name, email string) api.Candidate {
		var c api.Candidate
		rr := do(router, http.MethodPost, "/candidates", api.CandidateCreate{Name: name, Email: email, JobId: job.Id}, &c)
		Expect(rr.Code).To(Equal(http.StatusCreated))
		return c
	}

	It("creates a candidate with an applied timeline", func() {
		c := createCandidate("Ava", "ava@example.com")
		Expect(c.Stage).To(Equal(api.StageApplied))
		Expect(c.Timeline).To(HaveLen(1))
		Expect(c.Timeline[0].FromStage).To(BeNil())
		Expect(c.Timeline[0].Actor).To(Equal("system"))
	})

	It("rejects bad bodies and unknown jobs", func() {
		rr := do(router, http.MethodPost, "/candidates", api.CandidateCreate{Name: "Ava", Email: "nope", JobId: job.Id}, nil)
		Expect(rr.Code).To(Equal(http.StatusBadRequest))

		rr = do(router, http.MethodPost, "/candidates", api.CandidateCreate{Name: "Ava", Email: "ava@example.com"}, nil)
		Expect(rr.Code).To(Equal(http.StatusBadRequest))

		rr = do(router, http.MethodPost, "/candidates", api.CandidateCreate{Name: "Ava", Email: "ava@example.com", JobId: uuid.New()}, nil)
		Expect(rr.Code).To(Equal(http.StatusNotFound))
	})

	Context("patch", func() {
		It("routes a stage to the transition and records the actor", func() {
			c := createCandidate("Ava", "ava@example.com")

			body := strings.NewReader(`{"stage":"screen","notes":"phone screen booked"}`)
			req := httptest.NewRequest(http.MethodPatch, "/candidates/"+c.Id.String(), body)
			req.Header.Set(api.ActorHeader, "maria")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var timeline []api.TimelineEntry
			rr = do(router, http.MethodGet, fmt.Sprintf("/candidates/%s/timeline", c.Id), nil, &timeline)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(timeline).To(HaveLen(2))
			Expect(timeline[1].Stage).To(Equal(api.StageScreen))
			Expect(*timeline[1].FromStage).To(Equal(api.StageApplied))
			Expect(timeline[1].Actor).To(Equal("maria"))
			Expect(timeline[1].Notes).To(Equal("phone screen booked"))

			var apps []api.Application
			rr = do(router, http.MethodGet, "/applications?candidateId="+c.Id.String(), nil, &apps)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(apps).To(HaveLen(1))
			Expect(apps[0].Stage).To(Equal(api.StageScreen))
		})

		It("updates contact fields without touching the timeline", func() {
			c := createCandidate("Ava", "ava@example.com")

			var updated api.Candidate
			rr := do(router, http.MethodPatch, "/candidates/"+c.Id.String(), api.CandidatePatch{Phone: ptr("+1 555 0100")}, &updated)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(updated.Phone).To(Equal("+1 555 0100"))
			Expect(updated.Timeline).To(HaveLen(1))
		})

		It("rejects invalid transitions without applying contact changes", func() {
			c := createCandidate("Ava", "ava@example.com")
			stage := api.StageOffer

			rr := do(router, http.MethodPatch, "/candidates/"+c.Id.String(), api.CandidatePatch{Stage: &stage, Name: ptr("Changed")}, nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))

			var got api.Candidate
			rr = do(router, http.MethodGet, "/candidates/"+c.Id.String(), nil, &got)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(got.Name).To(Equal("Ava"))
			Expect(got.Stage).To(Equal(api.StageApplied))
		})

		It("rejects empty patches and unknown stages", func() {
			c := createCandidate("Ava", "ava@example.com")
			rr := do(router, http.MethodPatch, "/candidates/"+c.Id.String(), map[string]any{}, nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))

			rr = do(router, http.MethodPatch, "/candidates/"+c.Id.String(), map[string]any{"stage": "interview"}, nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("application stage", func() {
		It("moves the candidate with the application", func() {
			c := createCandidate("Ava", "ava@example.com")
			var apps []api.Application
			do(router, http.MethodGet, "/applications?jobId="+job.Id.String(), nil, &apps)
			Expect(apps).To(HaveLen(1))

			var app api.Application
			rr := do(router, http.MethodPatch, fmt.Sprintf("/applications/%s/stage", apps[0].Id), api.StageTransition{Stage: api.StageRejected, Actor: "hm"}, &app)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(app.Timeline).To(HaveLen(2))

			var got api.Candidate
			do(router, http.MethodGet, "/candidates/"+c.Id.String(), nil, &got)
			Expect(got.Stage).To(Equal(api.StageRejected))
			Expect(got.Timeline[1].Actor).To(Equal("hm"))

			rr = do(router, http.MethodPatch, fmt.Sprintf("/applications/%s/stage", apps[0].Id), api.StageTransition{Stage: api.StageScreen}, nil)
			Expect(rr.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Context("list", func() {
		It("filters by stage and searches", func() {
			createCandidate("Ava Thompson", "ava@example.com")
			liam := createCandidate("Liam Carter", "liam@example.com")
			stage := api.StageScreen
			rr := do(router, http.MethodPatch, "/candidates/"+liam.Id.String(), api.CandidatePatch{Stage: &stage}, nil)
			Expect(rr.Code).To(Equal(http.StatusOK))

			var list []api.Candidate
			rr = do(router, http.MethodGet, "/candidates?stage=screen&jobId="+job.Id.String(), nil, &list)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(list).To(HaveLen(1))
			Expect(list[0].Id).To(Equal(liam.Id))

			rr = do(router, http.MethodGet, "/candidates?search=THOMPSON&sortBy=name&sortOrder=asc", nil, &list)
			Expect(rr.Code).To(Equal(http.StatusOK))
			Expect(list).To(HaveLen(1))
			Expect(list[0].Name).To(Equal("Ava Thompson"))
		})

		DescribeTable("rejects bad query parameters",
			func(query string) {
				rr := do(router, http.MethodGet, "/candidates?"+query, nil, nil)
				Expect(rr.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("stage", "stage=interview"),
			Entry("job id", "jobId=x"),
			Entry("sort by", "sortBy=email"),
			Entry("sort order", "sortOrder=up"),
			Entry("page size", "pageSize=-1"),
		)
	})
})
