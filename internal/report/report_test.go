package report_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/talentflow/talentflow/internal/config"
	"github.com/talentflow/talentflow/internal/report"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("pipeline report", Ordered, func() {
	var (
		ctx  context.Context
		s    store.Store
		rows []report.Row
	)

	BeforeAll(func() {
		ctx = context.TODO()
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration(ctx)).To(Succeed())
		Expect(s.Seed(ctx)).To(Succeed())

		rows, err = report.Pipeline(ctx, s)
		Expect(err).To(BeNil())
	})

	AfterAll(func() {
		s.Close()
	})

	It("has one row per candidate", func() {
		count, err := s.Candidate().Count(ctx, nil)
		Expect(err).To(BeNil())
		Expect(rows).To(HaveLen(int(count)))

		for _, r := range rows {
			Expect(r.JobTitle).NotTo(BeEmpty())
			Expect(model.Stages).To(ContainElement(r.Stage))
		}
	})

	It("writes csv", func() {
		var buf bytes.Buffer
		Expect(report.WriteCSV(&buf, rows)).To(Succeed())

		records, err := csv.NewReader(&buf).ReadAll()
		Expect(err).To(BeNil())
		Expect(records).To(HaveLen(len(rows) + 1))
		Expect(records[0]).To(Equal(report.Headers))
		Expect(records[1][0]).To(Equal(rows[0].CandidateID.String()))
	})

	It("writes xlsx with a stage summary", func() {
		var buf bytes.Buffer
		Expect(report.WriteXLSX(&buf, rows)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).To(BeNil())
		defer f.Close()

		pipeline, err := f.GetRows(report.PipelineSheet)
		Expect(err).To(BeNil())
		Expect(pipeline).To(HaveLen(len(rows) + 1))
		Expect(pipeline[0]).To(Equal(report.Headers))
		Expect(pipeline[1][1]).To(Equal(rows[0].Name))

		summary, err := f.GetRows(report.SummarySheet)
		Expect(err).To(BeNil())
		Expect(summary).To(HaveLen(len(model.Stages) + 1))

		total := 0
		for _, line := range summary[1:] {
			n, err := strconv.Atoi(line[1])
			Expect(err).To(BeNil())
			total += n
		}
		Expect(total).To(Equal(len(rows)))
	})
})
