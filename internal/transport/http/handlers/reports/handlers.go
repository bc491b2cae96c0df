package reportshandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/reports"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
)

type Handler struct {
	Store        *reports.Store
	Audit        *audit.Service
	Municipality string
}

func NewHandler(db *pgxpool.Pool, municipality string) *Handler {
	return &Handler{Store: reports.NewStore(db), Audit: audit.New(db), Municipality: municipality}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/relatorios", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleRelatorios))

		r.Get("/resumo", h.handleSummary)
		r.Get("/resumo/pdf", h.handleSummaryPDF)
		r.Get("/auditoria", h.handleAuditTrail)
	})
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Store.Summary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "could not build summary", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"summary":        sum,
		"collectionRate": reports.CollectionRate(sum.RevenueBilled, sum.RevenueCollected),
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	sum, err := h.Store.Summary(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "summary_failed", "could not build summary", requestctx.GetRequestID(r.Context()))
		return
	}

	generatedAt := time.Now()
	doc, err := reports.SummaryPDF(h.Municipality, sum, generatedAt)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "pdf_failed", "could not render report", requestctx.GetRequestID(r.Context()))
		return
	}

	api.PDF(w, "resumo-"+generatedAt.Format("2006-01-02"), doc)
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}
	events, err := h.Audit.List(r.Context(), limit)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list audit events", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]any{"events": events}, requestctx.GetRequestID(r.Context()))
}
