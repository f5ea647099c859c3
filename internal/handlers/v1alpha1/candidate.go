package v1alpha1

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/handlers/v1alpha1/mappers"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/thoas/go-funk"
)

var candidateSorts = []string{
	string(store.CandidateSortByAppliedAt),
	string(store.CandidateSortByName),
	string(store.CandidateSortByStage),
}

// (GET /candidates)
func (h *ServiceHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("list_candidates").
		WithString("query", r.URL.RawQuery).
		Build()

	page, err := queryPage(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	jobID, err := queryUUID(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	filter := service.CandidateFilter{
		Search:    query.Get("search"),
		Stage:     query.Get("stage"),
		JobID:     jobID,
		SortBy:    store.CandidateSort(query.Get("sortBy")),
		SortOrder: query.Get("sortOrder"),
		Page:      page,
	}
	if filter.Stage != "" && !funk.ContainsString(model.Stages, filter.Stage) {
		respondError(w, r, http.StatusBadRequest, "unknown stage "+filter.Stage)
		return
	}
	if filter.SortBy != "" && !funk.ContainsString(candidateSorts, string(filter.SortBy)) {
		respondError(w, r, http.StatusBadRequest, "unknown sortBy "+string(filter.SortBy))
		return
	}
	if filter.SortOrder != "" && filter.SortOrder != "asc" && filter.SortOrder != "desc" {
		respondError(w, r, http.StatusBadRequest, "sortOrder must be asc or desc")
		return
	}

	candidates, total, err := h.candidateSrv.ListCandidates(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithInt("count", len(candidates)).Log()
	respond(w, r, http.StatusOK, api.Envelope{
		Data:       mappers.CandidateListToApi(candidates),
		Pagination: mappers.PaginationToApi(filter.Page, total),
	})
}

// (POST /candidates)
func (h *ServiceHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("create_candidate").
		Build()

	var body api.CandidateCreate
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	candidate, err := h.candidateSrv.CreateCandidate(r.Context(), mappers.CandidateCreateToForm(body, actor(r)))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("candidate_id", candidate.ID).Log()
	respond(w, r, http.StatusCreated, api.Envelope{Data: mappers.CandidateToApi(*candidate)})
}

// (GET /candidates/{id})
func (h *ServiceHandler) GetCandidate(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("get_candidate").
		WithString("candidate_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	candidate, err := h.candidateSrv.GetCandidate(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.CandidateToApi(*candidate)})
}

// (PATCH /candidates/{id})
//
// A body carrying stage is a stage transition. It is stored together with the
// contact fields or not at all.
func (h *ServiceHandler) PatchCandidate(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("patch_candidate").
		WithString("candidate_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.CandidatePatch
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	update, transition := mappers.CandidatePatchToForms(body, actor(r))
	if transition == nil && update.IsEmpty() {
		respondError(w, r, http.StatusBadRequest, "empty patch")
		return
	}

	candidate, err := h.candidateSrv.PatchCandidate(r.Context(), id, update, transition)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithString("stage", candidate.Stage).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.CandidateToApi(*candidate)})
}

// (GET /candidates/{id}/timeline)
func (h *ServiceHandler) GetCandidateTimeline(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("get_candidate_timeline").
		WithString("candidate_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	timeline, err := h.candidateSrv.Timeline(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.TimelineToApi(timeline)})
}

// (POST /candidates/{id}/invite-assessment)
func (h *ServiceHandler) InviteAssessment(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("invite_assessment").
		WithString("candidate_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	// the body is optional
	var body api.InviteRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil && !errors.Is(err, io.EOF) {
		logger.Error(err).WithString("step", "decode").Log()
		respondError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	status, err := h.candidateSrv.InviteAssessment(r.Context(), id, body.JobId)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("job_id", status.JobID).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.AssessmentStatusToApi(*status)})
}

// (GET /candidates/{id}/assessment-status/{jobId})
func (h *ServiceHandler) GetAssessmentStatus(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("candidate_handler").
		WithContext(r.Context()).
		Operation("get_assessment_status").
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	jobID, err := uuidParam(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.candidateSrv.AssessmentStatus(r.Context(), id, jobID)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.AssessmentStatusToApi(*status)})
}
