package mappers

import (
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/scoring"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/store/model"
)

func JobToApi(j model.Job) api.Job {
	tags := j.Tags.Data
	if tags == nil {
		tags = []string{}
	}
	return api.Job{
		Id:          j.ID,
		Title:       j.Title,
		Slug:        j.Slug,
		Description: j.Description,
		Location:    j.Location,
		Status:      api.JobStatus(j.Status),
		Tags:        tags,
		Order:       j.Order,
		CreatedAt:   j.CreatedAt,
		UpdatedAt:   j.UpdatedAt,
	}
}

func JobListToApi(jobs model.JobList) []api.Job {
	result := make([]api.Job, 0, len(jobs))
	for _, j := range jobs {
		result = append(result, JobToApi(j))
	}
	return result
}

func TimelineToApi(entries []model.TimelineEntry) []api.TimelineEntry {
	result := make([]api.TimelineEntry, 0, len(entries))
	for _, e := range entries {
		entry := api.TimelineEntry{
			Stage:     api.Stage(e.Stage),
			Notes:     e.Notes,
			Actor:     e.Actor,
			Timestamp: e.Timestamp,
		}
		if e.FromStage != "" {
			from := api.Stage(e.FromStage)
			entry.FromStage = &from
		}
		result = append(result, entry)
	}
	return result
}

// CandidateToApi leaves the timeline out when it was not loaded, as in list results.
func CandidateToApi(c model.Candidate) api.Candidate {
	candidate := api.Candidate{
		Id:                    c.ID,
		Name:                  c.Name,
		Email:                 c.Email,
		Phone:                 c.Phone,
		Resume:                c.Resume,
		Stage:                 api.Stage(c.Stage),
		JobId:                 c.JobID,
		AppliedAt:             c.AppliedAt,
		AssessmentInvited:     c.AssessmentInvited,
		AssessmentInvitedAt:   c.AssessmentInvitedAt,
		AssessmentCompleted:   c.AssessmentCompleted,
		AssessmentCompletedAt: c.AssessmentCompletedAt,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
	if c.Timeline != nil {
		candidate.Timeline = TimelineToApi(c.Timeline)
	}
	return candidate
}

func CandidateListToApi(candidates model.CandidateList) []api.Candidate {
	result := make([]api.Candidate, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, CandidateToApi(c))
	}
	return result
}

func ApplicationToApi(a model.Application) api.Application {
	return api.Application{
		Id:          a.ID,
		CandidateId: a.CandidateID,
		JobId:       a.JobID,
		Stage:       api.Stage(a.Stage),
		AppliedAt:   a.AppliedAt,
		Timeline:    TimelineToApi(a.Timeline),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func ApplicationListToApi(apps model.ApplicationList) []api.Application {
	result := make([]api.Application, 0, len(apps))
	for _, a := range apps {
		result = append(result, ApplicationToApi(a))
	}
	return result
}

func AssessmentToApi(a model.Assessment) api.Assessment {
	sections := make([]api.Section, 0, len(a.Sections.Data))
	for _, s := range a.Sections.Data {
		section := api.Section{
			Id:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Questions:   make([]api.Question, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			section.Questions = append(section.Questions, questionToApi(q))
		}
		sections = append(sections, section)
	}

	return api.Assessment{
		Id:            a.ID,
		JobId:         a.JobID,
		Title:         a.Title,
		Description:   a.Description,
		EnableScoring: a.EnableScoring,
		Sections:      sections,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func questionToApi(q model.Question) api.Question {
	question := api.Question{
		Id:            q.ID,
		Type:          api.QuestionType(q.Type),
		Title:         q.Title,
		Description:   q.Description,
		Required:      q.Required,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
	}
	if q.Validation != nil {
		question.Validation = &api.QuestionValidation{
			Min:       q.Validation.Min,
			Max:       q.Validation.Max,
			MinLength: q.Validation.MinLength,
			MaxLength: q.Validation.MaxLength,
		}
	}
	if q.Conditional != nil {
		question.Conditional = &api.Conditional{
			DependsOn: q.Conditional.DependsOn,
			Condition: q.Conditional.Condition,
			Value:     q.Conditional.Value,
		}
	}
	return question
}

func SubmissionToApi(s model.Submission) api.Submission {
	responses := s.Responses.Data
	if responses == nil {
		responses = map[string]api.Answer{}
	}
	return api.Submission{
		Id:              s.ID,
		JobId:           s.JobID,
		CandidateId:     s.CandidateID,
		AssessmentId:    s.AssessmentID,
		Responses:       responses,
		Score:           s.Score,
		MaxScore:        s.MaxScore,
		ScoredQuestions: s.ScoredQuestions,
		SubmittedAt:     s.SubmittedAt,
	}
}

func SubmissionListToApi(submissions model.SubmissionList) []api.Submission {
	result := make([]api.Submission, 0, len(submissions))
	for _, s := range submissions {
		result = append(result, SubmissionToApi(s))
	}
	return result
}

func SubmissionResultToApi(r service.SubmissionResult) api.Submission {
	submission := SubmissionToApi(r.Submission)
	if r.Breakdown != nil {
		submission.Breakdown = BreakdownToApi(r.Breakdown)
	}
	return submission
}

func BreakdownToApi(results []scoring.QuestionResult) []api.QuestionScore {
	scores := make([]api.QuestionScore, 0, len(results))
	for _, r := range results {
		scores = append(scores, api.QuestionScore{
			QuestionId:   r.QuestionID,
			Earned:       r.Earned,
			Possible:     r.Possible,
			ManualReview: r.ManualReview,
			Hidden:       r.Hidden,
		})
	}
	return scores
}

func AssessmentStatusToApi(s service.AssessmentStatus) api.AssessmentStatus {
	status := api.AssessmentStatus{
		CandidateId: s.CandidateID,
		JobId:       s.JobID,
		Invited:     s.Invited,
		InvitedAt:   s.InvitedAt,
		Completed:   s.Completed,
		CompletedAt: s.CompletedAt,
	}
	if s.Submission != nil {
		submission := SubmissionToApi(*s.Submission)
		status.Submission = &submission
	}
	return status
}

func PaginationToApi(page service.Page, total int64) *api.Pagination {
	return &api.Pagination{
		Page:       page.Number,
		PageSize:   page.Size,
		Total:      total,
		TotalPages: page.TotalPages(total),
	}
}
