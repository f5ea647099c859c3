package store_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	st "github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
)

var _ = Describe("assessment store", func() {
	var (
		s   st.Store
		ctx context.Context
	)

	BeforeEach(func() {
		s, _ = newTestStore()
		ctx = context.TODO()
	})

	AfterEach(func() {
		s.Close()
	})

	It("stores sections as a document", func() {
		points := 4.0
		correct := api.ListAnswer("A", "B")
		jobID := uuid.New()
		_, err := s.Assessment().Create(ctx, model.Assessment{
			ID:            uuid.New(),
			JobID:         jobID,
			Title:         "Screen",
			EnableScoring: true,
			Sections: model.MakeJSONField([]model.Section{{
				ID:    "s1",
				Title: "Basics",
				Questions: []model.Question{{
					ID:            "q1",
					Type:          model.QuestionMultiChoice,
					Title:         "Pick",
					Options:       []string{"A", "B", "C"},
					CorrectAnswer: &correct,
					Points:        &points,
				}},
			}}),
		})
		Expect(err).To(BeNil())

		got, err := s.Assessment().GetByJobID(ctx, jobID)
		Expect(err).To(BeNil())
		questions := got.Questions()
		Expect(questions).To(HaveLen(1))
		Expect(questions[0].CorrectAnswer.IsList()).To(BeTrue())
		Expect(questions[0].CorrectAnswer.Values()).To(Equal([]string{"A", "B"}))
		Expect(questions[0].PointsOrDefault()).To(Equal(4.0))
	})

	It("updates and deletes by job", func() {
		jobID := uuid.New()
		created, err := s.Assessment().Create(ctx, model.Assessment{ID: uuid.New(), JobID: jobID, Title: "Draft"})
		Expect(err).To(BeNil())

		created.Title = "Final"
		updated, err := s.Assessment().Update(ctx, *created)
		Expect(err).To(BeNil())
		Expect(updated.Title).To(Equal("Final"))

		Expect(s.Assessment().DeleteByJobID(ctx, jobID)).To(Succeed())
		_, err = s.Assessment().GetByJobID(ctx, jobID)
		Expect(err).To(MatchError(st.ErrRecordNotFound))
		Expect(s.Assessment().DeleteByJobID(ctx, jobID)).To(MatchError(st.ErrRecordNotFound))
	})
})
