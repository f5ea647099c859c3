package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/handlers/v1alpha1/mappers"
	"github.com/talentflow/talentflow/pkg/log"
)

// (GET /assessments/{jobId})
func (h *ServiceHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("assessment_handler").
		WithContext(r.Context()).
		Operation("get_assessment").
		WithString("job_id", chi.URLParam(r, "jobId")).
		Build()

	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	assessment, err := h.assessmentSrv.GetAssessment(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.AssessmentToApi(*assessment)})
}

// (PUT /assessments/{jobId})
func (h *ServiceHandler) UpsertAssessment(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("assessment_handler").
		WithContext(r.Context()).
		Operation("upsert_assessment").
		WithString("job_id", chi.URLParam(r, "jobId")).
		Build()

	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.AssessmentForm
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	assessment, err := h.assessmentSrv.UpsertAssessment(r.Context(), jobID, mappers.AssessmentFormToForm(body))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("assessment_id", assessment.ID).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.AssessmentToApi(*assessment)})
}

// (DELETE /assessments/{jobId})
func (h *ServiceHandler) DeleteAssessment(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("assessment_handler").
		WithContext(r.Context()).
		Operation("delete_assessment").
		WithString("job_id", chi.URLParam(r, "jobId")).
		Build()

	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.assessmentSrv.DeleteAssessment(r.Context(), jobID); err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: map[string]any{"jobId": jobID, "deleted": true}})
}

// (POST /assessments/{jobId}/submit)
func (h *ServiceHandler) SubmitAssessment(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("assessment_handler").
		WithContext(r.Context()).
		Operation("submit_assessment").
		WithString("job_id", chi.URLParam(r, "jobId")).
		Build()

	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.SubmissionForm
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	result, err := h.assessmentSrv.Submit(r.Context(), jobID, mappers.SubmissionFormToForm(body))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("submission_id", result.Submission.ID).Log()
	respond(w, r, http.StatusCreated, api.Envelope{Data: mappers.SubmissionResultToApi(*result)})
}

// (GET /assessments/{jobId}/submissions)
func (h *ServiceHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("assessment_handler").
		WithContext(r.Context()).
		Operation("list_submissions").
		WithString("job_id", chi.URLParam(r, "jobId")).
		Build()

	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	submissions, err := h.assessmentSrv.ListSubmissions(r.Context(), jobID)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithInt("count", len(submissions)).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.SubmissionListToApi(submissions)})
}
