package licitacaohandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/licitacao"
	"civitec/internal/listview"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
	"civitec/internal/transport/http/shared"
)

type Handler struct {
	Store       *licitacao.Store
	Audit       *audit.Service
	PageSize    int
	MaxPageSize int
}

func NewHandler(db *pgxpool.Pool, pageSize, maxPageSize int) *Handler {
	return &Handler{
		Store:       licitacao.NewStore(db),
		Audit:       audit.New(db),
		PageSize:    pageSize,
		MaxPageSize: maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/licitacao", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleLicitacao))

		r.Get("/processos", h.handleListProcesses)
		r.Post("/processos", h.handleCreateProcess)
		r.Get("/processos/{processID}", h.handleGetProcess)
		r.Post("/processos/{processID}/publicar", h.handleTransition(licitacao.ProcessPublished))
		r.Post("/processos/{processID}/analisar", h.handleTransition(licitacao.ProcessUnderReview))
		r.Post("/processos/{processID}/adjudicar", h.handleTransition(licitacao.ProcessAwarded))
		r.Post("/processos/{processID}/cancelar", h.handleTransition(licitacao.ProcessCancelled))

		r.Get("/processos/{processID}/propostas", h.handleListProposals)
		r.Post("/processos/{processID}/propostas", h.handleCreateProposal)
		r.Post("/processos/{processID}/propostas/{proposalID}/vencedora", h.handleMarkWinner)

		r.Get("/contratos", h.handleListContracts)
		r.Post("/contratos", h.handleCreateContract)
	})
}

func processColumns() []listview.Column[licitacao.Process] {
	return []listview.Column[licitacao.Process]{
		{Key: "number", Label: "Número", Value: func(p licitacao.Process) any { return p.Number }, Sortable: true},
		{Key: "object", Label: "Objeto", Value: func(p licitacao.Process) any { return p.Object }, Sortable: true},
		{Key: "modality", Label: "Modalidade", Value: func(p licitacao.Process) any { return p.Modality }, Sortable: true, Filterable: true},
		{Key: "budget", Label: "Orçamento", Value: func(p licitacao.Process) any { return p.Budget }, Sortable: true},
		{Key: "status", Label: "Situação", Value: func(p licitacao.Process) any { return p.Status }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListProcesses(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListProcesses(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list procurement processes", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(processColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type processPayload struct {
	Number      string  `json:"number"`
	Object      string  `json:"object"`
	Modality    string  `json:"modality"`
	Budget      float64 `json:"budget"`
	OpeningDate string  `json:"openingDate"`
}

func (h *Handler) handleCreateProcess(w http.ResponseWriter, r *http.Request) {
	var payload processPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("number", payload.Number, "number is required")
	v.Required("object", payload.Object, "object is required")
	v.Required("modality", payload.Modality, "modality is required")
	v.Positive("budget", payload.Budget)
	openingDate, _ := v.Date("openingDate", payload.OpeningDate)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	proc := &licitacao.Process{
		Number:      payload.Number,
		Object:      payload.Object,
		Modality:    payload.Modality,
		Budget:      payload.Budget,
		Status:      licitacao.ProcessDraft,
		OpeningDate: openingDate,
	}
	if err := h.Store.CreateProcess(r.Context(), proc); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create process", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "licitacao.process.create", "procurement_process", proc.ID, requestctx.GetRequestID(r.Context()), nil, proc)
	api.Created(w, proc, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetProcess(w http.ResponseWriter, r *http.Request) {
	proc, err := h.Store.GetProcess(r.Context(), chi.URLParam(r, "processID"))
	if err != nil {
		h.storeError(w, r, err, "could not load process")
		return
	}

	proposals, err := h.Store.ListProposals(r.Context(), proc.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not load proposals", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{"process": proc, "proposals": proposals}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleTransition(to licitacao.ProcessStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		proc, err := h.Store.GetProcess(r.Context(), chi.URLParam(r, "processID"))
		if err != nil {
			h.storeError(w, r, err, "could not load process")
			return
		}

		proposals, err := h.Store.ListProposals(r.Context(), proc.ID)
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "internal_error", "could not load proposals", requestctx.GetRequestID(r.Context()))
			return
		}

		before := proc.Status
		if err := licitacao.Transition(proc, to, proposals); err != nil {
			api.FailWithDetails(w, http.StatusConflict, "invalid_transition", err.Error(),
				map[string]string{"from": string(before), "to": string(to)}, requestctx.GetRequestID(r.Context()))
			return
		}
		if err := h.Store.UpdateProcessStatus(r.Context(), proc.ID, proc.Status); err != nil {
			h.storeError(w, r, err, "could not update process")
			return
		}

		user, _ := middleware.GetUser(r.Context())
		_ = h.Audit.Record(r.Context(), user.UserID, "licitacao.process."+string(to), "procurement_process", proc.ID,
			requestctx.GetRequestID(r.Context()), map[string]string{"status": string(before)}, map[string]string{"status": string(proc.Status)})
		api.Success(w, proc, requestctx.GetRequestID(r.Context()))
	}
}

func (h *Handler) handleListProposals(w http.ResponseWriter, r *http.Request) {
	proposals, err := h.Store.ListProposals(r.Context(), chi.URLParam(r, "processID"))
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list proposals", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{
		"proposals": proposals,
		"lowest":    licitacao.LowestProposal(proposals),
	}, requestctx.GetRequestID(r.Context()))
}

type proposalPayload struct {
	Supplier string  `json:"supplier"`
	Document string  `json:"document"`
	Amount   float64 `json:"amount"`
}

func (h *Handler) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	proc, err := h.Store.GetProcess(r.Context(), chi.URLParam(r, "processID"))
	if err != nil {
		h.storeError(w, r, err, "could not load process")
		return
	}
	if proc.Status != licitacao.ProcessPublished && proc.Status != licitacao.ProcessUnderReview {
		api.Fail(w, http.StatusConflict, "process_closed", "process is not accepting proposals", requestctx.GetRequestID(r.Context()))
		return
	}

	var payload proposalPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("supplier", payload.Supplier, "supplier is required")
	v.Positive("amount", payload.Amount)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	prop := &licitacao.Proposal{
		ProcessID: proc.ID,
		Supplier:  payload.Supplier,
		Document:  payload.Document,
		Amount:    payload.Amount,
	}
	if err := h.Store.CreateProposal(r.Context(), prop); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create proposal", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "licitacao.proposal.create", "proposal", prop.ID, requestctx.GetRequestID(r.Context()), nil, prop)
	api.Created(w, prop, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleMarkWinner(w http.ResponseWriter, r *http.Request) {
	proc, err := h.Store.GetProcess(r.Context(), chi.URLParam(r, "processID"))
	if err != nil {
		h.storeError(w, r, err, "could not load process")
		return
	}
	if proc.Status != licitacao.ProcessUnderReview {
		api.Fail(w, http.StatusConflict, "invalid_transition", "winner can only be marked while the process is under review", requestctx.GetRequestID(r.Context()))
		return
	}

	proposalID := chi.URLParam(r, "proposalID")
	if err := h.Store.MarkWinner(r.Context(), proc.ID, proposalID); err != nil {
		h.storeError(w, r, err, "could not mark winning proposal")
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "licitacao.proposal.winner", "proposal", proposalID, requestctx.GetRequestID(r.Context()), nil,
		map[string]string{"processId": proc.ID})
	api.Success(w, map[string]string{"processId": proc.ID, "proposalId": proposalID}, requestctx.GetRequestID(r.Context()))
}

func contractColumns() []listview.Column[licitacao.Contract] {
	return []listview.Column[licitacao.Contract]{
		{Key: "supplier", Label: "Fornecedor", Value: func(c licitacao.Contract) any { return c.Supplier }, Sortable: true},
		{Key: "amount", Label: "Valor", Value: func(c licitacao.Contract) any { return c.Amount }, Sortable: true},
		{Key: "startDate", Label: "Início", Value: func(c licitacao.Contract) any { return c.StartDate.Format("2006-01-02") }, Sortable: true},
		{Key: "endDate", Label: "Fim", Value: func(c licitacao.Contract) any { return c.EndDate.Format("2006-01-02") }, Sortable: true},
	}
}

func (h *Handler) handleListContracts(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListContracts(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list contracts", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(contractColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type contractPayload struct {
	ProcessID string `json:"processId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// handleCreateContract formalizes an awarded process: the contract is
// bound to the winning proposal's supplier and amount.
func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	var payload contractPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("processId", payload.ProcessID, "processId is required")
	start, _ := v.Date("startDate", payload.StartDate)
	end, _ := v.Date("endDate", payload.EndDate)
	v.DateOrder("startDate", start, "endDate", end)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	proc, err := h.Store.GetProcess(r.Context(), payload.ProcessID)
	if err != nil {
		h.storeError(w, r, err, "could not load process")
		return
	}
	if proc.Status != licitacao.ProcessAwarded {
		api.Fail(w, http.StatusConflict, "not_awarded", "contracts require an awarded process", requestctx.GetRequestID(r.Context()))
		return
	}

	proposals, err := h.Store.ListProposals(r.Context(), proc.ID)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not load proposals", requestctx.GetRequestID(r.Context()))
		return
	}
	var winner *licitacao.Proposal
	for i := range proposals {
		if proposals[i].Winner {
			winner = &proposals[i]
			break
		}
	}
	if winner == nil {
		api.Fail(w, http.StatusConflict, "no_winner", "process has no winning proposal", requestctx.GetRequestID(r.Context()))
		return
	}

	c := &licitacao.Contract{
		ProcessID:  proc.ID,
		ProposalID: winner.ID,
		Supplier:   winner.Supplier,
		Amount:     winner.Amount,
		StartDate:  start,
		EndDate:    end,
	}
	if err := h.Store.CreateContract(r.Context(), c); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create contract", requestctx.GetRequestID(r.Context()))
		return
	}

	user, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), user.UserID, "licitacao.contract.create", "contract", c.ID, requestctx.GetRequestID(r.Context()), nil, c)
	api.Created(w, c, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, licitacao.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", message, requestctx.GetRequestID(r.Context()))
}
