package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/auth"
	"github.com/talentflow/talentflow/internal/handlers/validator"
	"github.com/talentflow/talentflow/internal/service"
	"github.com/talentflow/talentflow/internal/store"
	"github.com/talentflow/talentflow/pkg/log"
	"github.com/talentflow/talentflow/pkg/requestid"
)

type ServiceHandler struct {
	jobSrv         *service.JobService
	candidateSrv   *service.CandidateService
	applicationSrv *service.ApplicationService
	assessmentSrv  *service.AssessmentService
	validator      *validator.Validator
}

func NewServiceHandler(jobSrv *service.JobService, candidateSrv *service.CandidateService, applicationSrv *service.ApplicationService, assessmentSrv *service.AssessmentService) *ServiceHandler {
	v := validator.NewValidator()
	v.Register(validator.NewJobValidationRules()...)
	v.Register(validator.NewCandidateValidationRules()...)
	v.Register(validator.NewAssessmentValidationRules()...)

	return &ServiceHandler{
		jobSrv:         jobSrv,
		candidateSrv:   candidateSrv,
		applicationSrv: applicationSrv,
		assessmentSrv:  assessmentSrv,
		validator:      v,
	}
}

// NewServiceHandlerFromStore wires the services over s.
func NewServiceHandlerFromStore(s store.Store) *ServiceHandler {
	applications := service.NewApplicationService(s)
	return NewServiceHandler(
		service.NewJobService(s),
		service.NewCandidateService(s, applications),
		applications,
		service.NewAssessmentService(s),
	)
}

// Register mounts the endpoint surface on r.
func (h *ServiceHandler) Register(r chi.Router) {
	h.register(r, false)
}

// RegisterReads mounts the GET endpoints only.
func (h *ServiceHandler) RegisterReads(r chi.Router) {
	h.register(r, true)
}

func (h *ServiceHandler) register(r chi.Router, readsOnly bool) {
	write := func(r chi.Router, method, pattern string, fn http.HandlerFunc) {
		if !readsOnly {
			r.Method(method, pattern, fn)
		}
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, fmt.Sprintf("no endpoint %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("method %s not allowed on %s", r.Method, r.URL.Path))
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", h.ListJobs)
		r.Get("/{id}", h.GetJob)
		write(r, http.MethodPost, "/", h.CreateJob)
		write(r, http.MethodPatch, "/{id}", h.UpdateJob)
		write(r, http.MethodPatch, "/{id}/reorder", h.ReorderJob)
	})

	r.Route("/candidates", func(r chi.Router) {
		r.Get("/", h.ListCandidates)
		r.Get("/{id}", h.GetCandidate)
		r.Get("/{id}/timeline", h.GetCandidateTimeline)
		r.Get("/{id}/assessment-status/{jobId}", h.GetAssessmentStatus)
		write(r, http.MethodPost, "/", h.CreateCandidate)
		write(r, http.MethodPatch, "/{id}", h.PatchCandidate)
		write(r, http.MethodPost, "/{id}/invite-assessment", h.InviteAssessment)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Get("/", h.ListApplications)
		write(r, http.MethodPatch, "/{id}/stage", h.TransitionApplicationStage)
	})

	r.Route("/assessments/{jobId}", func(r chi.Router) {
		r.Get("/", h.GetAssessment)
		r.Get("/submissions", h.ListSubmissions)
		write(r, http.MethodPut, "/", h.UpsertAssessment)
		write(r, http.MethodDelete, "/", h.DeleteAssessment)
		write(r, http.MethodPost, "/submit", h.SubmitAssessment)
	})
}

func respond(w http.ResponseWriter, r *http.Request, status int, body api.Envelope) {
	render.Status(r, status)
	render.JSON(w, r, body)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, api.Error{Message: message, RequestId: requestid.FromContextPtr(r.Context())})
}

// respondServiceError maps the service error types to their status code.
func respondServiceError(w http.ResponseWriter, r *http.Request, tracer *log.OperationTracer, err error) {
	tracer.Error(err).Log()

	switch err.(type) {
	case *service.ErrResourceNotFound:
		respondError(w, r, http.StatusNotFound, err.Error())
	case *service.ErrValidation, *service.ErrInvalidStageTransition:
		respondError(w, r, http.StatusBadRequest, err.Error())
	case *service.ErrDuplicateSlug, *service.ErrSubmissionExists:
		respondError(w, r, http.StatusConflict, err.Error())
	default:
		respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("internal error: %v", err))
	}
}

// decodeAndValidate reports false after writing the 400 response itself.
func (h *ServiceHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, tracer *log.OperationTracer, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		tracer.Error(err).WithString("step", "decode").Log()
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := h.validator.Struct(v); err != nil {
		tracer.Error(err).WithString("step", "validation").Log()
		respondError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", name, chi.URLParam(r, name))
	}
	return id, nil
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &id, nil
}

// queryPage reads page and pageSize. Missing values fall back to the defaults.
func queryPage(r *http.Request) (service.Page, error) {
	number, err := queryInt(r, "page")
	if err != nil {
		return service.Page{}, err
	}
	size, err := queryInt(r, "pageSize")
	if err != nil {
		return service.Page{}, err
	}
	return service.NewPage(number, size), nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return v, nil
}

func actor(r *http.Request) string {
	return auth.UsernameFromContext(r.Context())
}
