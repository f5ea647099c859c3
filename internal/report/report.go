// Package report flattens the candidate pipeline into rows for export.
package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store"
)

var Headers = []string{"Candidate ID", "Name", "Email", "Job", "Stage", "Applied At", "Assessment Completed", "Score"}

type Row struct {
	CandidateID         uuid.UUID
	Name                string
	Email               string
	JobTitle            string
	Stage               string
	AppliedAt           time.Time
	AssessmentCompleted bool
	// Score is nil when the candidate has not submitted or scoring was disabled.
	Score *int

	jobOrder int
}

// Values renders the row in Headers order.
func (r Row) Values() []string {
	score := ""
	if r.Score != nil {
		score = strconv.Itoa(*r.Score)
	}
	return []string{
		r.CandidateID.String(),
		r.Name,
		r.Email,
		r.JobTitle,
		r.Stage,
		r.AppliedAt.UTC().Format(time.RFC3339),
		strconv.FormatBool(r.AssessmentCompleted),
		score,
	}
}

type submissionKey struct {
	jobID       uuid.UUID
	candidateID uuid.UUID
}

// Pipeline returns one row per candidate, grouped by job order and then by
// application date, newest first.
func Pipeline(ctx context.Context, s store.Store) ([]Row, error) {
	jobs, err := s.Job().List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	candidates, err := s.Candidate().List(ctx, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	submissions, err := s.Submission().List(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}

	titles := make(map[uuid.UUID]string, len(jobs))
	positions := make(map[uuid.UUID]int, len(jobs))
	for _, j := range jobs {
		titles[j.ID] = j.Title
		positions[j.ID] = j.Order
	}

	scores := make(map[submissionKey]*int, len(submissions))
	for _, sub := range submissions {
		scores[submissionKey{jobID: sub.JobID, candidateID: sub.CandidateID}] = sub.Score
	}

	rows := make([]Row, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, Row{
			CandidateID:         c.ID,
			Name:                c.Name,
			Email:               c.Email,
			JobTitle:            titles[c.JobID],
			Stage:               c.Stage,
			AppliedAt:           c.AppliedAt,
			AssessmentCompleted: c.AssessmentCompleted,
			Score:               scores[submissionKey{jobID: c.JobID, candidateID: c.ID}],
			jobOrder:            positions[c.JobID],
		})
	}

	sort.SliceStable(rows, func(i, k int) bool {
		return rows[i].jobOrder < rows[k].jobOrder
	})

	return rows, nil
}
