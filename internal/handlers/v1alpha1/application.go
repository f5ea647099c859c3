package v1alpha1

import (
	"net/http"

	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/handlers/v1alpha1/mappers"
	"github.com/talentflow/talentflow/pkg/log"
)

// (GET /applications)
func (h *ServiceHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("application_handler").
		WithContext(r.Context()).
		Operation("list_applications").
		WithString("query", r.URL.RawQuery).
		Build()

	jobID, err := queryUUID(r, "jobId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	candidateID, err := queryUUID(r, "candidateId")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	apps, err := h.applicationSrv.ListApplications(r.Context(), jobID, candidateID)
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithInt("count", len(apps)).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.ApplicationListToApi(apps)})
}

// (PATCH /applications/{id}/stage)
func (h *ServiceHandler) TransitionApplicationStage(w http.ResponseWriter, r *http.Request) {
	logger := log.NewDebugLogger("application_handler").
		WithContext(r.Context()).
		Operation("transition_application_stage").
		Build()

	id, err := uuidParam(r, "id")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var body api.StageTransition
	if !h.decodeAndValidate(w, r, logger, &body) {
		return
	}

	app, err := h.applicationSrv.TransitionStage(r.Context(), id, mappers.StageTransitionToForm(body, actor(r)))
	if err != nil {
		respondServiceError(w, r, logger, err)
		return
	}

	logger.Success().WithUUID("application_id", app.ID).WithString("stage", app.Stage).Log()
	respond(w, r, http.StatusOK, api.Envelope{Data: mappers.ApplicationToApi(*app)})
}
