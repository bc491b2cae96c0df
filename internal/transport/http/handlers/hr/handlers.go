package hrhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/hr"
	"civitec/internal/domain/reports"
	"civitec/internal/listview"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
	"civitec/internal/transport/http/shared"
)

type Handler struct {
	Store        *hr.Store
	Audit        *audit.Service
	Municipality string
	PageSize     int
	MaxPageSize  int
}

func NewHandler(db *pgxpool.Pool, municipality string, pageSize, maxPageSize int) *Handler {
	return &Handler{
		Store:        hr.NewStore(db),
		Audit:        audit.New(db),
		Municipality: municipality,
		PageSize:     pageSize,
		MaxPageSize:  maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/rh", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleRH))

		r.Get("/funcionarios", h.handleListEmployees)
		r.Post("/funcionarios", h.handleCreateEmployee)
		r.Get("/funcionarios/{employeeID}", h.handleGetEmployee)
		r.Put("/funcionarios/{employeeID}", h.handleUpdateEmployee)

		r.Get("/ferias", h.handleListVacations)
		r.Post("/ferias", h.handleCreateVacation)
		r.Post("/ferias/{requestID}/aprovar", h.handleDecideVacation(true))
		r.Post("/ferias/{requestID}/rejeitar", h.handleDecideVacation(false))

		r.Get("/contracheques", h.handleListPayslips)
		r.Post("/contracheques", h.handleCreatePayslip)
		r.Get("/contracheques/{payslipID}/pdf", h.handlePayslipPDF)
	})
}

// canManage gates HR mutations: employees browse their module but do
// not alter records.
func canManage(role access.Role) bool {
	return role == access.RoleMasterAdmin || role == access.RoleSectorAdmin || role == access.RoleSectorOperator
}

func (h *Handler) requireManager(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, _ := middleware.GetUser(r.Context())
	if !canManage(user.Role) {
		api.Fail(w, http.StatusForbidden, "access_denied", "você não tem permissão para alterar registros deste módulo",
			requestctx.GetRequestID(r.Context()))
		return "", false
	}
	return user.UserID, true
}

func employeeColumns() []listview.Column[hr.Employee] {
	return []listview.Column[hr.Employee]{
		{Key: "name", Label: "Nome", Value: func(e hr.Employee) any { return e.Name }, Sortable: true},
		{Key: "email", Label: "E-mail", Value: func(e hr.Employee) any { return e.Email }, Sortable: true},
		{Key: "registry", Label: "Matrícula", Value: func(e hr.Employee) any { return e.Registry }, Sortable: true},
		{Key: "position", Label: "Cargo", Value: func(e hr.Employee) any { return e.Position }, Sortable: true},
		{Key: "department", Label: "Departamento", Value: func(e hr.Employee) any { return e.Department }, Sortable: true, Filterable: true},
		{Key: "salary", Label: "Salário", Value: func(e hr.Employee) any { return e.Salary }, Sortable: true},
		{Key: "status", Label: "Situação", Value: func(e hr.Employee) any { return e.Status }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list employees", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(employeeColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type employeePayload struct {
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Registry   string  `json:"registry"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Salary     float64 `json:"salary"`
	HiredAt    string  `json:"hiredAt"`
	Status     string  `json:"status"`
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("status", payload.Status, []string{"active", "inactive", "vacation"}, "unknown status")
	hiredAt, _ := v.Date("hiredAt", payload.HiredAt)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	status := hr.EmployeeStatus(payload.Status)
	if status == "" {
		status = hr.EmployeeActive
	}
	emp := &hr.Employee{
		Name:       payload.Name,
		Email:      payload.Email,
		Registry:   payload.Registry,
		Position:   payload.Position,
		Department: payload.Department,
		Salary:     payload.Salary,
		HiredAt:    hiredAt,
		Status:     status,
	}
	if err := h.Store.CreateEmployee(r.Context(), emp); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create employee", requestctx.GetRequestID(r.Context()))
		return
	}

	_ = h.Audit.Record(r.Context(), actorID, "hr.employee.create", "employee", emp.ID, requestctx.GetRequestID(r.Context()), nil, emp)
	api.Created(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.storeError(w, r, err, "could not load employee")
		return
	}
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	before, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		h.storeError(w, r, err, "could not load employee")
		return
	}

	var payload employeePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("email", payload.Email, "email is required")
	v.Enum("status", payload.Status, []string{"active", "inactive", "vacation"}, "unknown status")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	emp := *before
	emp.Name = payload.Name
	emp.Email = payload.Email
	emp.Registry = payload.Registry
	emp.Position = payload.Position
	emp.Department = payload.Department
	emp.Salary = payload.Salary
	if payload.Status != "" {
		emp.Status = hr.EmployeeStatus(payload.Status)
	}
	if err := h.Store.UpdateEmployee(r.Context(), &emp); err != nil {
		h.storeError(w, r, err, "could not update employee")
		return
	}

	_ = h.Audit.Record(r.Context(), actorID, "hr.employee.update", "employee", emp.ID, requestctx.GetRequestID(r.Context()), before, emp)
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func vacationColumns() []listview.Column[hr.VacationRequest] {
	return []listview.Column[hr.VacationRequest]{
		{Key: "employee", Label: "Servidor", Value: func(v hr.VacationRequest) any { return v.Employee }, Sortable: true},
		{Key: "startDate", Label: "Início", Value: func(v hr.VacationRequest) any { return v.StartDate.Format("2006-01-02") }, Sortable: true},
		{Key: "days", Label: "Dias", Value: func(v hr.VacationRequest) any { return v.Days }, Sortable: true},
		{Key: "status", Label: "Situação", Value: func(v hr.VacationRequest) any { return v.Status }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListVacations(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListVacations(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list vacation requests", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(vacationColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type vacationPayload struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

func (h *Handler) handleCreateVacation(w http.ResponseWriter, r *http.Request) {
	var payload vacationPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	existing, err := h.Store.ListVacationsByEmployee(r.Context(), payload.EmployeeID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create vacation request", requestctx.GetRequestID(r.Context()))
		return
	}
	used, err := h.Store.UsedVacationDays(r.Context(), payload.EmployeeID, start.Year())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create vacation request", requestctx.GetRequestID(r.Context()))
		return
	}

	days, err := hr.ValidateRequest(start, end, existing, used)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_request", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	req := &hr.VacationRequest{
		EmployeeID: payload.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Days:       days,
		Status:     hr.VacationPending,
	}
	if err := h.Store.CreateVacation(r.Context(), req); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create vacation request", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "hr.vacation.create", "vacation_request", req.ID, requestctx.GetRequestID(r.Context()), nil, req)
	api.Created(w, req, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDecideVacation(approve bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorID, ok := h.requireManager(w, r)
		if !ok {
			return
		}

		req, err := h.Store.GetVacation(r.Context(), chi.URLParam(r, "requestID"))
		if err != nil {
			h.storeError(w, r, err, "could not load vacation request")
			return
		}

		before := *req
		if err := hr.Decide(req, approve, actorID, time.Now()); err != nil {
			api.Fail(w, http.StatusConflict, "already_decided", err.Error(), requestctx.GetRequestID(r.Context()))
			return
		}
		if err := h.Store.UpdateVacationDecision(r.Context(), req); err != nil {
			h.storeError(w, r, err, "could not update vacation request")
			return
		}

		action := "hr.vacation.reject"
		if approve {
			action = "hr.vacation.approve"
		}
		_ = h.Audit.Record(r.Context(), actorID, action, "vacation_request", req.ID, requestctx.GetRequestID(r.Context()), before, req)
		api.Success(w, req, requestctx.GetRequestID(r.Context()))
	}
}

func payslipColumns() []listview.Column[hr.Payslip] {
	return []listview.Column[hr.Payslip]{
		{Key: "employee", Label: "Servidor", Value: func(p hr.Payslip) any { return p.Employee }, Sortable: true},
		{Key: "reference", Label: "Referência", Value: func(p hr.Payslip) any { return p.Reference }, Sortable: true, Filterable: true},
		{Key: "net", Label: "Líquido", Value: func(p hr.Payslip) any { return p.Net }, Sortable: true},
	}
}

func (h *Handler) handleListPayslips(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPayslips(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list payslips", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(payslipColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type payslipPayload struct {
	EmployeeID string  `json:"employeeId"`
	Reference  string  `json:"reference"`
	Gross      float64 `json:"gross"`
	Deductions float64 `json:"deductions"`
}

func (h *Handler) handleCreatePayslip(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.requireManager(w, r)
	if !ok {
		return
	}

	var payload payslipPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("employeeId", payload.EmployeeID, "employeeId is required")
	v.Required("reference", payload.Reference, "reference is required")
	if payload.Gross < 0 || payload.Deductions < 0 || payload.Deductions > payload.Gross {
		v.Add("deductions", "deductions must be between zero and the gross amount")
	}
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	slip := &hr.Payslip{
		EmployeeID: payload.EmployeeID,
		Reference:  payload.Reference,
		Gross:      payload.Gross,
		Deductions: payload.Deductions,
		Net:        payload.Gross - payload.Deductions,
	}
	if err := h.Store.CreatePayslip(r.Context(), slip); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create payslip", requestctx.GetRequestID(r.Context()))
		return
	}

	_ = h.Audit.Record(r.Context(), actorID, "hr.payslip.create", "payslip", slip.ID, requestctx.GetRequestID(r.Context()), nil, slip)
	api.Created(w, slip, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslipPDF(w http.ResponseWriter, r *http.Request) {
	payslipID := chi.URLParam(r, "payslipID")
	slips, err := h.Store.ListPayslips(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "could not load payslip", requestctx.GetRequestID(r.Context()))
		return
	}

	var target *hr.Payslip
	for i := range slips {
		if slips[i].ID == payslipID {
			target = &slips[i]
			break
		}
	}
	if target == nil {
		api.Fail(w, http.StatusNotFound, "not_found", "payslip not found", requestctx.GetRequestID(r.Context()))
		return
	}

	doc, err := reports.PayslipPDF(h.Municipality, target.Employee, target.Reference, target.Gross, target.Deductions, target.Net)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "could not render payslip", requestctx.GetRequestID(r.Context()))
		return
	}

	api.PDF(w, "contracheque-"+target.Reference, doc)
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, hr.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", message, requestctx.GetRequestID(r.Context()))
}
