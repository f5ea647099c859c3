package mappers

import (
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/service/mappers"
	"github.com/talentflow/talentflow/internal/store/model"
)

func JobCreateToForm(resource api.JobCreate) mappers.JobCreateForm {
	form := mappers.JobCreateForm{
		Title:       resource.Title,
		Slug:        resource.Slug,
		Description: resource.Description,
		Location:    resource.Location,
		Tags:        resource.Tags,
	}
	if resource.Status != nil {
		form.Status = string(*resource.Status)
	}
	return form
}

func JobUpdateToForm(resource api.JobUpdate) mappers.JobUpdateForm {
	form := mappers.JobUpdateForm{
		Title:       resource.Title,
		Slug:        resource.Slug,
		Description: resource.Description,
		Location:    resource.Location,
		Tags:        resource.Tags,
	}
	if resource.Status != nil {
		status := string(*resource.Status)
		form.Status = &status
	}
	return form
}

func JobReorderToForm(resource api.JobReorder) mappers.JobReorderForm {
	return mappers.JobReorderForm{FromOrder: resource.FromOrder, ToOrder: resource.ToOrder}
}

func CandidateCreateToForm(resource api.CandidateCreate, actor string) mappers.CandidateCreateForm {
	return mappers.CandidateCreateForm{
		Name:   resource.Name,
		Email:  resource.Email,
		Phone:  resource.Phone,
		Resume: resource.Resume,
		JobID:  resource.JobId,
		Actor:  actor,
	}
}

// CandidatePatchToForms splits a patch body into the contact update and, when
// the body carries a stage, the stage transition.
func CandidatePatchToForms(resource api.CandidatePatch, actor string) (mappers.CandidateUpdateForm, *mappers.StageTransitionForm) {
	update := mappers.CandidateUpdateForm{
		Name:   resource.Name,
		Email:  resource.Email,
		Phone:  resource.Phone,
		Resume: resource.Resume,
	}
	if resource.Stage == nil {
		return update, nil
	}
	if resource.Actor != "" {
		actor = resource.Actor
	}
	return update, &mappers.StageTransitionForm{
		Stage: string(*resource.Stage),
		Notes: resource.Notes,
		Actor: actor,
	}
}

func StageTransitionToForm(resource api.StageTransition, actor string) mappers.StageTransitionForm {
	if resource.Actor != "" {
		actor = resource.Actor
	}
	return mappers.StageTransitionForm{
		Stage: string(resource.Stage),
		Notes: resource.Notes,
		Actor: actor,
	}
}

func AssessmentFormToForm(resource api.AssessmentForm) mappers.AssessmentForm {
	sections := make([]model.Section, 0, len(resource.Sections))
	for _, s := range resource.Sections {
		section := model.Section{
			ID:          s.Id,
			Title:       s.Title,
			Description: s.Description,
			Questions:   make([]model.Question, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			section.Questions = append(section.Questions, questionToModel(q))
		}
		sections = append(sections, section)
	}

	return mappers.AssessmentForm{
		Title:         resource.Title,
		Description:   resource.Description,
		EnableScoring: resource.EnableScoring,
		Sections:      sections,
	}
}

func questionToModel(q api.Question) model.Question {
	question := model.Question{
		ID:            q.Id,
		Type:          model.QuestionType(q.Type),
		Title:         q.Title,
		Description:   q.Description,
		Required:      q.Required,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
	}
	if q.Validation != nil {
		question.Validation = &model.Validation{
			Min:       q.Validation.Min,
			Max:       q.Validation.Max,
			MinLength: q.Validation.MinLength,
			MaxLength: q.Validation.MaxLength,
		}
	}
	if q.Conditional != nil {
		question.Conditional = &model.Conditional{
			DependsOn: q.Conditional.DependsOn,
			Condition: q.Conditional.Condition,
			Value:     q.Conditional.Value,
		}
	}
	return question
}

func SubmissionFormToForm(resource api.SubmissionForm) mappers.SubmissionForm {
	responses := resource.Responses
	if responses == nil {
		responses = map[string]api.Answer{}
	}
	return mappers.SubmissionForm{CandidateID: resource.CandidateId, Responses: responses}
}
