package report

import (
	"fmt"
	"io"

	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	PipelineSheet = "Pipeline"
	SummarySheet  = "Stages"
)

// WriteXLSX writes the rows to a Pipeline sheet and the candidate count per
// stage to a Stages sheet.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			zap.S().Named("report").Warnf("failed to close workbook: %s", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", PipelineSheet); err != nil {
		return err
	}
	if err := setRow(f, PipelineSheet, 1, toAny(Headers)); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{
			r.CandidateID.String(),
			r.Name,
			r.Email,
			r.JobTitle,
			r.Stage,
			r.AppliedAt.UTC(),
			r.AssessmentCompleted,
			"",
		}
		if r.Score != nil {
			values[7] = *r.Score
		}
		if err := setRow(f, PipelineSheet, i+2, values); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}
	if err := setRow(f, SummarySheet, 1, []any{"Stage", "Candidates"}); err != nil {
		return err
	}
	for i, sc := range countByStage(rows) {
		if err := setRow(f, SummarySheet, i+2, []any{sc.stage, sc.count}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

type stageCount struct {
	stage string
	count int
}

// countByStage lists every pipeline stage in display order.
func countByStage(rows []Row) []stageCount {
	counts := make(map[string]int, len(model.Stages))
	for _, r := range rows {
		counts[r.Stage]++
	}
	out := make([]stageCount, 0, len(model.Stages))
	for _, stage := range model.Stages {
		out = append(out, stageCount{stage: stage, count: counts[stage]})
	}
	return out
}
