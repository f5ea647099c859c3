package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/handlers/v1alpha1/mappers"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/internal/store/model"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/thoas/go-funk"
)

var jobSorts = []string{
	string(store.JobSortByOrder),
	string(store.JobSortByTitle),
	string(store.JobSortByTitleDesc),
	string(store.JobSortByCreatedAt),
	string(store.JobSortByCreatedAtDesc),
}

// (GET /jobs)
func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	logger := log.NewDebugLogger("job_handler").
		WithContext(r.Context()).
		Operation("list_jobs").
		WithString("query", r.URL.RawQuery).
		Build()

	page, err := queryPage(r)
	if err != nil {
		logger.Error(err).Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	filter := service.JobFilter{
		Search: query.Get("search"),
		Status: query.Get("status"),
		Sort:   store.JobSort(query.Get("sort")),
		Page:   page,
	}
	if filter.Status != "" && filter.Status != model.JobStatusActive && filter.Status != model.JobStatusArchived {
		respondError(w, r, http.StatusBadRequest, "status must be one of active, archived")
		return
	}
	if filter.Sort != "" && !funk.ContainsString(jobSorts, string(filter.Sort)) {
		respondError(w, r, http.StatusBadRequest, "unknown sort "+string(filter.Sort))
		return
	}

	jobs, total, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithInt("count", len(jobs)).Log()
	respond(w, r, http.StatusOK, api.Envelope{
		Data:       mappers.JobListToApi(jobs),
		Pagination: mappers.PaginationToApi(filter.Page, total),
	})
}

// (POST /jobs)
func (h *ServiceHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("job_handler").
		WithContext(r.Context()).
		Operation("create_job").
		Build()

	var body api.JobCreate
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	job, err := h.jobSrv.CreateJob(r.Context(), mappers.JobCreateToForm(body))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("job_id", job.ID).WithString("slug", job.Slug).Log()
	respond(w, r, http.StatusCreated, api.Envelope{Data: mappers.JobToApi(*job)})
}

// (GET /jobs/{id})
func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("job_handler").
		WithContext(r.Context()).
		Operation("get_job").
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.JobToApi(*job)})
}

// (PATCH /jobs/{id})
func (h *ServiceHandler) UpdateJob(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("job_handler").
		WithContext(r.Context()).
		Operation("update_job").
		WithString("job_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.JobUpdate
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	job, err := h.jobSrv.UpdateJob(r.Context(), id, mappers.JobUpdateToForm(body))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithString("status", job.Status).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.JobToApi(*job)})
}

// (PATCH /jobs/{id}/reorder)
func (h *ServiceHandler) ReorderJob(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("job_handler").
		WithContext(r.Context()).
		Operation("reorder_job").
		WithString("job_id", chi.URLParam(r, "id")).
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.JobReorder
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	job, err := h.jobSrv.ReorderJob(r.Context(), id, mappers.JobReorderToForm(body))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithInt("order", job.Order).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.JobToApi(*job)})
}
