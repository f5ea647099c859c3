package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/talentflow/talentflow/internal/store/model"
	"sigs.k8s.io/yaml"
)

//go:embed seed.yaml
var seedData []byte

var seedNamespace = uuid.MustParse("6f1a6b1e-9d0c-4f57-8c53-7c2b0a3f9e10")

type seedFixture struct {
	Jobs []seedJob `json:"jobs"`
}

type seedJob struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Status      string          `json:"status"`
	Tags        []string        `json:"tags"`
	Candidates  []seedCandidate `json:"candidates"`
	Assessment  *seedAssessment `json:"assessment"`
}

type seedCandidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Stage string `json:"stage"`
}

type seedAssessment struct {
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	EnableScoring bool            `json:"enableScoring"`
	Sections      []model.Section `json:"sections"`
}

// SeedID derives a stable id so that seeding is reproducible across runs.
func SeedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(seedNamespace, []byte(kind+"/"+key))
}

// Slugify lowercases s and collapses every run of non alphanumeric characters into a dash.
func Slugify(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}

// StagePath returns the stages a candidate walked through to reach stage.
// Rejected candidates are rejected straight after applying.
func StagePath(stage string) []string {
	switch stage {
	case model.StageRejected:
		return []string{model.StageApplied, model.StageRejected}
	case model.StageHired:
		return []string{model.StageApplied, model.StageScreen, model.StageTech, model.StageOffer, model.StageHired}
	}
	path := []string{}
	for _, s := range []string{model.StageApplied, model.StageScreen, model.StageTech, model.StageOffer} {
		path = append(path, s)
		if s == stage {
			return path
		}
	}
	return []string{model.StageApplied}
}

type seedBatch struct {
	jobs         model.JobList
	candidates   model.CandidateList
	applications model.ApplicationList
	assessments  model.AssessmentList
}

func buildSeed(data []byte, now time.Time) (*seedBatch, error) {
	var fixture seedFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("parsing seed fixture: %w", err)
	}

	batch := &seedBatch{}
	day := 24 * time.Hour
	candidateIndex := 0

	for i, j := range fixture.Jobs {
		slug := Slugify(j.Title)
		jobID := SeedID("job", slug)
		created := now.Add(-time.Duration(60-i) * day)

		batch.jobs = append(batch.jobs, model.Job{
			ID:          jobID,
			Title:       j.Title,
			Slug:        slug,
			Description: j.Description,
			Location:    j.Location,
			Status:      j.Status,
			Tags:        model.MakeJSONField(j.Tags),
			Order:       i + 1,
			CreatedAt:   created,
			UpdatedAt:   created,
		})

		for _, c := range j.Candidates {
			candidateIndex++
			candidateID := SeedID("candidate", c.Email)
			applicationID := SeedID("application", c.Email)
			appliedAt := now.Add(-time.Duration(30-candidateIndex%30) * day)

			var timeline []model.TimelineEntry
			from := ""
			for step, stage := range StagePath(c.Stage) {
				timeline = append(timeline, model.TimelineEntry{
					ApplicationID: applicationID,
					FromStage:     from,
					Stage:         stage,
					Notes:         seedNote(stage),
					Actor:         "seed",
					Timestamp:     appliedAt.Add(time.Duration(step) * day),
				})
				from = stage
			}

			batch.candidates = append(batch.candidates, model.Candidate{
				ID:        candidateID,
				Name:      c.Name,
				Email:     c.Email,
				Phone:     c.Phone,
				Resume:    fmt.Sprintf("%s applied for %s.", c.Name, j.Title),
				Stage:     c.Stage,
				JobID:     jobID,
				AppliedAt: appliedAt,
			})
			batch.applications = append(batch.applications, model.Application{
				ID:          applicationID,
				CandidateID: candidateID,
				JobID:       jobID,
				Stage:       c.Stage,
				AppliedAt:   appliedAt,
				Timeline:    timeline,
			})
		}

		if j.Assessment != nil {
			batch.assessments = append(batch.assessments, model.Assessment{
				ID:            SeedID("assessment", slug),
				JobID:         jobID,
				Title:         j.Assessment.Title,
				Description:   j.Assessment.Description,
				EnableScoring: j.Assessment.EnableScoring,
				Sections:      model.MakeJSONField(j.Assessment.Sections),
			})
		}
	}

	return batch, nil
}

func seedNote(stage string) string {
	if stage == model.StageApplied {
		return "Application received"
	}
	return fmt.Sprintf("Moved to %s", stage)
}

// Seed loads the embedded fixture once: it does nothing when jobs already exist.
func (s *DataStore) Seed(ctx context.Context) error {
	count, err := s.Job().Count(ctx, nil)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Debugf("store already holds %d jobs, skipping seed", count)
		return nil
	}

	batch, err := buildSeed(seedData, time.Now().UTC())
	if err != nil {
		return err
	}

	ctx, err = s.NewTransactionContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = Rollback(ctx)
	}()

	if err := s.Job().BulkCreate(ctx, batch.jobs); err != nil {
		return fmt.Errorf("seeding jobs: %w", err)
	}
	if err := s.Candidate().BulkCreate(ctx, batch.candidates); err != nil {
		return fmt.Errorf("seeding candidates: %w", err)
	}
	if err := s.Application().BulkCreate(ctx, batch.applications); err != nil {
		return fmt.Errorf("seeding applications: %w", err)
	}
	if err := s.Assessment().BulkCreate(ctx, batch.assessments); err != nil {
		return fmt.Errorf("seeding assessments: %w", err)
	}

	if _, err := Commit(ctx); err != nil {
		return err
	}

	s.log.Infof("seeded %d jobs, %d candidates, %d assessments", len(batch.jobs), len(batch.candidates), len(batch.assessments))
	return nil
}
