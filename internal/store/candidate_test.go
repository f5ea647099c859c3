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

func newCandidate(name, email, stage string, jobID uuid.UUID, appliedAt time.Time) model.Candidate {
	return model.Candidate{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Phone:     "+1-555-0100",
		Stage:     stage,
		JobID:     jobID,
		AppliedAt: appliedAt,
	}
}

var _ = Describe("candidate store", func() {
	var (
		s     st.Store
		ctx   context.Context
		jobID uuid.UUID
		now   time.Time
	)

	BeforeEach(func() {
		s, _ = newTestStore()
		ctx = context.TODO()
		jobID = uuid.New()
		now = time.Now().UTC().Truncate(time.Second)

		Expect(s.Candidate().BulkCreate(ctx, model.CandidateList{
			newCandidate("Ava Thompson", "ava@example.com", model.StageTech, jobID, now.Add(-3*time.Hour)),
			newCandidate("Liam Carter", "liam@example.com", model.StageApplied, jobID, now.Add(-2*time.Hour)),
			newCandidate("Zoe Adams", "zoe@example.com", model.StageApplied, uuid.New(), now.Add(-1*time.Hour)),
		})).To(Succeed())
	})

	AfterEach(func() {
		s.Close()
	})

	It("lists newest first by default", func() {
		candidates, err := s.Candidate().List(ctx, nil, nil)
		Expect(err).To(BeNil())
		Expect(candidates).To(HaveLen(3))
		Expect(candidates[0].Name).To(Equal("Zoe Adams"))
	})

	It("filters by stage and job", func() {
		filter := st.NewCandidateQueryFilter().ByStage(model.StageApplied).ByJobID(jobID)
		candidates, err := s.Candidate().List(ctx, filter, nil)
		Expect(err).To(BeNil())
		Expect(candidates).To(HaveLen(1))
		Expect(candidates[0].Name).To(Equal("Liam Carter"))
	})

	It("searches name and email case-insensitively", func() {
		count, err := s.Candidate().Count(ctx, st.NewCandidateQueryFilter().BySearch("AVA"))
		Expect(err).To(BeNil())
		Expect(count).To(BeNumerically("==", 1))

		count, err = s.Candidate().Count(ctx, st.NewCandidateQueryFilter().BySearch("example.com"))
		Expect(err).To(BeNil())
		Expect(count).To(BeNumerically("==", 3))
	})

	It("treats LIKE wildcards in the search term literally", func() {
		Expect(s.Candidate().BulkCreate(ctx, model.CandidateList{
			newCandidate("Ann Lee", "ann_lee@example.com", model.StageApplied, jobID, now),
		})).To(Succeed())

		for term, expected := range map[string]int64{
			"_":   1,
			"n_l": 1,
			"%":   0,
			"a%t": 0,
		} {
			count, err := s.Candidate().Count(ctx, st.NewCandidateQueryFilter().BySearch(term))
			Expect(err).To(BeNil())
			Expect(count).To(BeNumerically("==", expected), "term %q", term)
		}
	})

	It("sorts by name ascending", func() {
		opts := st.NewCandidateQueryOptions().WithSort(st.CandidateSortByName, false).WithLimit(2)
		candidates, err := s.Candidate().List(ctx, nil, opts)
		Expect(err).To(BeNil())
		Expect(candidates).To(HaveLen(2))
		Expect(candidates[0].Name).To(Equal("Ava Thompson"))
		Expect(candidates[1].Name).To(Equal("Liam Carter"))
	})

	It("updates contact fields without touching the stage", func() {
		candidates, err := s.Candidate().List(ctx, st.NewCandidateQueryFilter().BySearch("ava"), nil)
		Expect(err).To(BeNil())
		c := candidates[0]

		c.Phone = "+1-555-9999"
		c.Stage = model.StageHired
		updated, err := s.Candidate().Update(ctx, c)
		Expect(err).To(BeNil())
		Expect(updated.Phone).To(Equal("+1-555-9999"))
		Expect(updated.Stage).To(Equal(model.StageTech))
	})

	It("tracks assessment flags", func() {
		candidates, err := s.Candidate().List(ctx, st.NewCandidateQueryFilter().BySearch("liam"), nil)
		Expect(err).To(BeNil())
		id := candidates[0].ID

		Expect(s.Candidate().MarkInvited(ctx, id, now)).To(Succeed())
		Expect(s.Candidate().MarkCompleted(ctx, id, now.Add(time.Minute))).To(Succeed())

		c, err := s.Candidate().Get(ctx, id)
		Expect(err).To(BeNil())
		Expect(c.AssessmentInvited).To(BeTrue())
		Expect(c.AssessmentCompleted).To(BeTrue())
		Expect(c.AssessmentInvitedAt).ToNot(BeNil())
		Expect(c.AssessmentCompletedAt).ToNot(BeNil())
	})

	It("returns not found for unknown ids", func() {
		_, err := s.Candidate().Get(ctx, uuid.New())
		Expect(err).To(MatchError(st.ErrRecordNotFound))
		Expect(s.Candidate().UpdateStage(ctx, uuid.New(), model.StageScreen)).To(MatchError(st.ErrRecordNotFound))
	})

	It("counts by stage", func() {
		counts, err := s.Candidate().CountByStage(ctx)
		Expect(err).To(BeNil())
		Expect(counts[model.StageApplied]).To(BeNumerically("==", 2))
		Expect(counts[model.StageTech]).To(BeNumerically("==", 1))
		Expect(counts[model.StageHired]).To(BeNumerically("==", 0))
	})
})
