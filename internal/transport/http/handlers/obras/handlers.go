package obrashandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/obras"
	"civitec/internal/listview"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
	"civitec/internal/transport/http/shared"
)

type Handler struct {
	Store       *obras.Store
	Audit       *audit.Service
	PageSize    int
	MaxPageSize int
}

func NewHandler(db *pgxpool.Pool, pageSize, maxPageSize int) *Handler {
	return &Handler{
		Store:       obras.NewStore(db),
		Audit:       audit.New(db),
		PageSize:    pageSize,
		MaxPageSize: maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/obras", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleObras))

		r.Get("/projetos", h.handleListProjects)
		r.Post("/projetos", h.handleCreateProject)
		r.Get("/projetos/{projectID}", h.handleGetProject)
		r.Put("/projetos/{projectID}", h.handleUpdateProject)
		r.Get("/mapa", h.handleMap)
	})
}

func projectColumns() []listview.Column[obras.Project] {
	return []listview.Column[obras.Project]{
		{Key: "name", Label: "Obra", Value: func(p obras.Project) any { return p.Name }, Sortable: true},
		{Key: "contractor", Label: "Contratada", Value: func(p obras.Project) any { return p.Contractor }, Sortable: true, Filterable: true},
		{Key: "budget", Label: "Orçamento", Value: func(p obras.Project) any { return p.Budget }, Sortable: true},
		{Key: "progress", Label: "Progresso", Value: func(p obras.Project) any { return p.Progress }, Sortable: true},
		{Key: "status", Label: "Situação", Value: func(p obras.Project) any { return p.Status }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListProjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list projects", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(projectColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type projectPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Contractor  string   `json:"contractor"`
	Budget      float64  `json:"budget"`
	Progress    int      `json:"progress"`
	Status      string   `json:"status"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	StartDate   string   `json:"startDate"`
	Deadline    string   `json:"deadline"`
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Enum("status", payload.Status, []string{"planned", "in_progress", "paused", "completed"}, "unknown status")
	start, _ := v.Date("startDate", payload.StartDate)
	deadline, _ := v.Date("deadline", payload.Deadline)
	v.DateOrder("startDate", start, "deadline", deadline)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	status := obras.ProjectStatus(payload.Status)
	if status == "" {
		status = obras.ProjectPlanned
	}
	p := &obras.Project{
		Name:        payload.Name,
		Description: payload.Description,
		Contractor:  payload.Contractor,
		Budget:      payload.Budget,
		Progress:    obras.ClampProgress(payload.Progress),
		Status:      status,
		StartDate:   start,
		Deadline:    deadline,
	}
	if payload.Latitude != nil && payload.Longitude != nil {
		if err := obras.ValidateCoordinates(*payload.Latitude, *payload.Longitude); err != nil {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_coordinates", err.Error(), requestctx.GetRequestID(r.Context()))
			return
		}
		p.Latitude = *payload.Latitude
		p.Longitude = *payload.Longitude
	}

	if err := h.Store.CreateProject(r.Context(), p); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create project", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "obras.project.create", "works_project", p.ID, requestctx.GetRequestID(r.Context()), nil, p)
	api.Created(w, p, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		h.storeError(w, r, err, "could not load project")
		return
	}
	api.Success(w, p, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	before, err := h.Store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		h.storeError(w, r, err, "could not load project")
		return
	}

	var payload projectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Enum("status", payload.Status, []string{"planned", "in_progress", "paused", "completed"}, "unknown status")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	p := *before
	p.Name = payload.Name
	p.Description = payload.Description
	p.Contractor = payload.Contractor
	p.Budget = payload.Budget
	p.Progress = obras.ClampProgress(payload.Progress)
	if payload.Status != "" {
		p.Status = obras.ProjectStatus(payload.Status)
	}
	if payload.Latitude != nil && payload.Longitude != nil {
		if err := obras.ValidateCoordinates(*payload.Latitude, *payload.Longitude); err != nil {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_coordinates", err.Error(), requestctx.GetRequestID(r.Context()))
			return
		}
		p.Latitude = *payload.Latitude
		p.Longitude = *payload.Longitude
	}

	if err := h.Store.UpdateProject(r.Context(), &p); err != nil {
		h.storeError(w, r, err, "could not update project")
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "obras.project.update", "works_project", p.ID, requestctx.GetRequestID(r.Context()), before, p)
	api.Success(w, p, requestctx.GetRequestID(r.Context()))
}

// handleMap serves the trimmed marker projection; unpositioned
// projects are left out.
func (h *Handler) handleMap(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListProjects(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not load map markers", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"markers": obras.Markers(records)}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, obras.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", message, requestctx.GetRequestID(r.Context()))
}
