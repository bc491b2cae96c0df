package adminhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/auth"
	"civitec/internal/domain/users"
	"civitec/internal/listview"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
	"civitec/internal/transport/http/shared"
)

type Handler struct {
	Store       *users.Store
	Audit       *audit.Service
	Mailer      users.Mailer
	BaseURL     string
	InviteTTL   time.Duration
	PageSize    int
	MaxPageSize int
}

func NewHandler(db *pgxpool.Pool, mailer users.Mailer, baseURL string, inviteTTL time.Duration, pageSize, maxPageSize int) *Handler {
	return &Handler{
		Store:       users.NewStore(db),
		Audit:       audit.New(db),
		Mailer:      mailer,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		InviteTTL:   inviteTTL,
		PageSize:    pageSize,
		MaxPageSize: maxPageSize,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/configuracoes", func(r chi.Router) {
		r.Use(middleware.RequireModule(access.ModuleConfiguracoes))

		r.Get("/usuarios", h.handleListUsers)
		r.Put("/usuarios/{userID}", h.handleUpdateUser)

		r.Get("/convites", h.handleListInvites)
		r.Post("/convites", h.handleCreateInvite)
		r.Delete("/convites/{inviteID}", h.handleRevokeInvite)
	})
}

// RegisterPublicRoutes mounts the invite acceptance endpoint, which is
// reached by people who do not have an account yet.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/convites/aceitar", h.handleAcceptInvite)
}

func userColumns() []listview.Column[users.User] {
	return []listview.Column[users.User]{
		{Key: "name", Label: "Nome", Value: func(u users.User) any { return u.Name }, Sortable: true},
		{Key: "email", Label: "E-mail", Value: func(u users.User) any { return u.Email }, Sortable: true},
		{Key: "role", Label: "Perfil", Value: func(u users.User) any { return u.Role }, Sortable: true, Filterable: true},
		{Key: "sector", Label: "Setor", Value: func(u users.User) any { return u.Sector }, Sortable: true, Filterable: true},
		{Key: "status", Label: "Situação", Value: func(u users.User) any { return u.Status }, Sortable: true, Filterable: true},
	}
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListUsers(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list users", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(userColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type userPayload struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Sector string `json:"sector"`
	Status string `json:"status"`
}

func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	before, err := h.Store.GetUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		h.storeError(w, r, err, "could not load user")
		return
	}

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("name", payload.Name, "name is required")
	v.Enum("status", payload.Status, []string{"active", "inactive"}, "unknown status")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	role := access.ParseRole(payload.Role)
	if !role.Valid() {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_role", "unknown role", requestctx.GetRequestID(r.Context()))
		return
	}
	sector := access.ParseSector(payload.Sector)
	switch role {
	case access.RoleSectorAdmin, access.RoleSectorOperator:
		if !sector.Valid() || sector == access.SectorNone {
			api.Fail(w, http.StatusUnprocessableEntity, "invalid_sector", "sector roles require a valid sector", requestctx.GetRequestID(r.Context()))
			return
		}
	default:
		sector = access.SectorNone
	}

	u := *before
	u.Name = payload.Name
	u.Role = role
	u.Sector = sector
	if payload.Status != "" {
		u.Status = users.Status(payload.Status)
	}
	if err := h.Store.UpdateUser(r.Context(), &u); err != nil {
		h.storeError(w, r, err, "could not update user")
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), actor.UserID, "users.update", "user", u.ID, requestctx.GetRequestID(r.Context()), before, u)
	api.Success(w, u, requestctx.GetRequestID(r.Context()))
}

func inviteColumns() []listview.Column[users.Invite] {
	return []listview.Column[users.Invite]{
		{Key: "email", Label: "E-mail", Value: func(i users.Invite) any { return i.Email }, Sortable: true},
		{Key: "role", Label: "Perfil", Value: func(i users.Invite) any { return i.Role }, Sortable: true, Filterable: true},
		{Key: "status", Label: "Situação", Value: func(i users.Invite) any { return i.Status }, Sortable: true, Filterable: true},
		{Key: "expiresAt", Label: "Expira em", Value: func(i users.Invite) any { return i.ExpiresAt.Format("2006-01-02") }, Sortable: true},
	}
}

func (h *Handler) handleListInvites(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListInvites(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "could not list invites", requestctx.GetRequestID(r.Context()))
		return
	}

	table := listview.New(inviteColumns())
	query := shared.ParseListQuery(r, table.FilterableKeys(), h.PageSize, h.MaxPageSize)
	shared.ApplyListQuery(table, query)
	api.Success(w, shared.NewListPayload(table.View(records)), requestctx.GetRequestID(r.Context()))
}

type invitePayload struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Sector string `json:"sector"`
}

func (h *Handler) handleCreateInvite(w http.ResponseWriter, r *http.Request) {
	var payload invitePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("email", payload.Email, "email is required")
	v.Required("role", payload.Role, "role is required")
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	inv, err := users.NewInvite(
		strings.ToLower(strings.TrimSpace(payload.Email)),
		access.ParseRole(payload.Role),
		access.ParseSector(payload.Sector),
		actor.UserID,
		h.InviteTTL,
		time.Now(),
	)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "invalid_invite", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.CreateInvite(r.Context(), inv); err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "could not create invite", requestctx.GetRequestID(r.Context()))
		return
	}

	acceptURL := h.BaseURL + "/convites/aceitar?token=" + url.QueryEscape(inv.Token)
	if err := h.Mailer.SendInvite(r.Context(), *inv, acceptURL); err != nil {
		slog.Warn("invite email failed", "inviteId", inv.ID, "err", err)
	}

	_ = h.Audit.Record(r.Context(), actor.UserID, "users.invite.create", "invite", inv.ID, requestctx.GetRequestID(r.Context()), nil, inv)
	api.Created(w, inv, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleRevokeInvite(w http.ResponseWriter, r *http.Request) {
	inviteID := chi.URLParam(r, "inviteID")
	if err := h.Store.RevokeInvite(r.Context(), inviteID); err != nil {
		h.storeError(w, r, err, "could not revoke invite")
		return
	}

	actor, _ := middleware.GetUser(r.Context())
	_ = h.Audit.Record(r.Context(), actor.UserID, "users.invite.revoke", "invite", inviteID, requestctx.GetRequestID(r.Context()), nil, nil)
	api.Success(w, map[string]string{"id": inviteID, "status": string(users.InviteRevoked)}, requestctx.GetRequestID(r.Context()))
}

type acceptPayload struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	var payload acceptPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	v := shared.NewValidator()
	v.Required("token", payload.Token, "token is required")
	v.Required("name", payload.Name, "name is required")
	v.MinLen("password", payload.Password, 8)
	if v.Reject(w, requestctx.GetRequestID(r.Context())) {
		return
	}

	inv, err := h.Store.GetInviteByToken(r.Context(), payload.Token)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Fail(w, http.StatusNotFound, "invite_not_found", "invite not found", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not load invite", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := users.Accept(inv, time.Now()); err != nil {
		// Lazy expiry: persist the flip so the invite list reflects it.
		if errors.Is(err, users.ErrInviteExpired) {
			_ = h.Store.UpdateInviteStatus(r.Context(), inv)
		}
		api.Fail(w, http.StatusConflict, "invite_unusable", err.Error(), requestctx.GetRequestID(r.Context()))
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not create account", requestctx.GetRequestID(r.Context()))
		return
	}

	u, err := h.Store.CreateFromInvite(r.Context(), inv, payload.Name, hash)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "internal_error", "could not create account", requestctx.GetRequestID(r.Context()))
		return
	}
	if err := h.Store.UpdateInviteStatus(r.Context(), inv); err != nil {
		slog.Warn("invite status update failed", "inviteId", inv.ID, "err", err)
	}

	_ = h.Audit.Record(r.Context(), u.ID, "users.invite.accept", "user", u.ID, requestctx.GetRequestID(r.Context()), nil, u)
	api.Created(w, u, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) storeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	if errors.Is(err, users.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Fail(w, http.StatusInternalServerError, "internal_error", message, requestctx.GetRequestID(r.Context()))
}
