package tributoshandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/tributos"
	"civitec/internal/listview"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
	"civitec/internal/transport/http/shared"
)

type Handler struct {
	Store       *tributos.Store
	Audit       *audit.Service
	PageSize    int
	MaxPageSize int
}

func NewHandler(db *pgxpool.Pool, pageSize, maxPageSize int) *Handler {
	return &Handler{
		Store:       tributos.NewStore(db),
		Audit:       audit.New(db),
		PageSize:    pageSize,
		MaxPageSize: maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/tributos", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleTributos))

		r.Get("/contribuintes", h.handleListTaxpayers)
		r.Post("/contribuintes", h.handleCreateTaxpayer)
		r.Get("/contribuintes/{taxpayerID}", h.handleGetTaxpayer)
		r.Put("/contribuintes/{taxpayerID}", h.handleUpdateTaxpayer)

		r.Get("/guias", h.handleListInvoices)
		r.Post("/guias", h.handleCreateInvoice)
		r.Post("/guias/{invoiceID}/pagar", h.handlePayInvoice)

		r.Get("/lancamentos", h.handleListAssessments)
		r.Post("/lancamentos", h.handleCreateAssessment)
	})
}

func taxpayerColumns() []listview.Column[tributos.Taxpayer] {
	return []listview.Column[tributos.Taxpayer]{
		{Key: "name", Label: "Nome", Value: func(t tributos.Taxpayer) any { return t.Name }, Sortable: true},
		{Key: "document", Label: "Documento", Value: func(t tributos.Taxpayer) any { return t.Document }, Sortable: true},
		{Key: "kind", Label: "Tipo", Value: func(t tributos.Taxpayer) any { return t.Kind }, Sortable: true, Filterable: true},
		{Key: "address", Label: "Endereço", Value: func(t tributos.Taxpayer) any { return t.Address }},
	}
}

func (h *Handler) handleListTaxpayers(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListTaxpayers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list taxpayers", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(taxpayerColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type taxpayerPayload struct {
	Name     string `json:"name"`
	Document string `json:"document"`
	Address  string `json:"address"`
	Active   *bool  `json:"active"`
}

func (h *Handler) handleCreateTaxpayer(w http.ResponseWriter, r *http.Request) {
	var payload taxpayerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Required("document", payload.Document, "document is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	document, kind, err := tributos.NormalizeDocument(payload.Document)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_document", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	tp := &tributos.Taxpayer{
		Name:     payload.Name,
		Document: document,
		Kind:     kind,
		Address:  payload.Address,
		Active:   true,
	}
	if payload.Active != nil {
		tp.Active = *payload.Active
	}
	if err := h.Store.CreateTaxpayer(r.Context(), tp); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create taxpayer", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "tributos.taxpayer.create", "taxpayer", tp.ID, requestctx.GetRequestID(r.Context()), nil, tp)
	api.Created(w, tp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetTaxpayer(w http.ResponseWriter, r *http.Request) {
	tp, err := h.Store.GetTaxpayer(r.Context(), chi.URLParam(r, "taxpayerID"))
	if err != nil {
		h.storeError(w, r, err, "could not load taxpayer")
		return
	}
	api.Success(w, tp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateTaxpayer(w http.ResponseWriter, r *http.Request) {
	before, err := h.Store.GetTaxpayer(r.Context(), chi.URLParam(r, "taxpayerID"))
	if err != nil {
		h.storeError(w, r, err, "could not load taxpayer")
		return
	}

	var payload taxpayerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	tp := *before
	tp.Name = payload.Name
	tp.Address = payload.Address
	if payload.Active != nil {
		tp.Active = *payload.Active
	}
	if payload.Document != "" {
		document, kind, err := tributos.NormalizeDocument(payload.Document)
		if err != nil {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_document", err.Error(), requestctx.GetRequestID(r.Context()))
			return
		}
		tp.Document = document
		tp.Kind = kind
	}
	if err := h.Store.UpdateTaxpayer(r.Context(), &tp); err != nil {
		h.storeError(w, r, err, "could not update taxpayer")
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "tributos.taxpayer.update", "taxpayer", tp.ID, requestctx.GetRequestID(r.Context()), before, tp)
	api.Success(w, tp, requestctx.GetRequestID(r.Context()))
}

func invoiceColumns(now time.Time) []listview.Column[tributos.Invoice] {
	return []listview.Column[tributos.Invoice]{
		{Key: "number", Label: "Guia", Value: func(i tributos.Invoice) any { return i.Number }, Sortable: true},
		{Key: "taxpayer", Label: "Contribuinte", Value: func(i tributos.Invoice) any { return i.Taxpayer }, Sortable: true},
		{Key: "amount", Label: "Valor", Value: func(i tributos.Invoice) any { return i.Amount }, Sortable: true},
		{Key: "dueDate", Label: "Vencimento", Value: func(i tributos.Invoice) any { return i.DueDate.Format("2006-01-02") }, Sortable: true},
		{Key: "status", Label: "Situação", Value: func(i tributos.Invoice) any { return tributos.EffectiveStatus(i, now) }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list invoices", requestctx.GetRequestID(r.Context()))
		return
	}

	now := time.Now()
	for i := range records {
		records[i].Status = tributos.EffectiveStatus(records[i], now)
	}

	table := listview.New(invoiceColumns(now))
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type invoicePayload struct {
	TaxpayerID string  `json:"taxpayerId"`
	Number     string  `json:"number"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"dueDate"`
}

func (h *Handler) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("taxpayerId", payload.TaxpayerID, "taxpayerId is required")
	v.Required("number", payload.Number, "number is required")
	v.Positive("amount", payload.Amount)
	dueDate, _ := v.Date("dueDate", payload.DueDate)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	inv := &tributos.Invoice{
		TaxpayerID: payload.TaxpayerID,
		Number:     payload.Number,
		Amount:     payload.Amount,
		DueDate:    dueDate,
		Status:     tributos.InvoicePending,
	}
	if err := h.Store.CreateInvoice(r.Context(), inv); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create invoice", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "tributos.invoice.create", "invoice", inv.ID, requestctx.GetRequestID(r.Context()), nil, inv)
	api.Created(w, inv, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "invoiceID")
	paidAt := time.Now()
	if err := h.Store.MarkInvoicePaid(r.Context(), invoiceID, paidAt); err != nil {
		h.storeError(w, r, err, "could not mark invoice as paid")
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "tributos.invoice.pay", "invoice", invoiceID, requestctx.GetRequestID(r.Context()), nil,
		map[string]any{"paidAt": paidAt})
	api.Success(w, map[string]any{"id": invoiceID, "status": tributos.InvoicePaid, "paidAt": paidAt}, requestctx.GetRequestID(r.Context()))
}

func assessmentColumns() []listview.Column[tributos.Assessment] {
	return []listview.Column[tributos.Assessment]{
		{Key: "taxpayer", Label: "Contribuinte", Value: func(a tributos.Assessment) any { return a.Taxpayer }, Sortable: true},
		{Key: "kind", Label: "Tributo", Value: func(a tributos.Assessment) any { return a.Kind }, Sortable: true, Filterable: true},
		{Key: "year", Label: "Exercício", Value: func(a tributos.Assessment) any { return a.Year }, Sortable: true, Filterable: true},
		{Key: "amount", Label: "Valor", Value: func(a tributos.Assessment) any { return a.Amount }, Sortable: true},
	}
}

func (h *Handler) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListAssessments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list assessments", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(assessmentColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type assessmentPayload struct {
	TaxpayerID string  `json:"taxpayerId"`
	Kind       string  `json:"kind"`
	Year       int     `json:"year"`
	Amount     float64 `json:"amount"`
	Notes      string  `json:"notes"`
}

func (h *Handler) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var payload assessmentPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("taxpayerId", payload.TaxpayerID, "taxpayerId is required")
	v.Required("kind", payload.Kind, "kind is required")
	if payload.Year < 2000 || payload.Year > time.Now().Year()+1 {
		v.Add("year", "year is out of range")
	}
	v.Positive("amount", payload.Amount)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	as := &tributos.Assessment{
		TaxpayerID: payload.TaxpayerID,
		Kind:       payload.Kind,
		Year:       payload.Year,
		Amount:     payload.Amount,
		Notes:      payload.Notes,
	}
	if err := h.Store.CreateAssessment(r.Context(), as); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create assessment", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "tributos.assessment.create", "assessment", as.ID, requestctx.GetRequestID(r.Context()), nil, as)
	api.Created(w, as, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, tributos.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", message, requestctx.GetRequestID(r.Context()))
}
