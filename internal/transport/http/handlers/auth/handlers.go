package authhandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"civitec/internal/domain/access"
	"civitec/internal/domain/audit"
	"civitec/internal/domain/auth"
	"civitec/internal/platform/requestctx"
	"civitec/internal/transport/http/api"
	"civitec/internal/transport/http/middleware"
)

type Handler struct {
	Store  *auth.Store
	Audit  *audit.Service
	Secret string
}

func NewHandler(db *pgxpool.Pool, secret string) *Handler {
	return &Handler{Store: auth.NewStore(db), Audit: audit.New(db), Secret: secret}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	rec, err := h.Store.FindActiveByEmail(r.Context(), payload.Email)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := auth.CheckPassword(rec.PasswordHash, payload.Password); err != nil {
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
		return
	}

	token, err := auth.GenerateToken(h.Secret, auth.Claims{
		UserID: rec.ID,
		Name:   rec.Name,
		Role:   rec.Role,
		Sector: rec.Sector,
	}, auth.TokenTTL)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "login_failed", "login failed", requestctx.GetRequestID(r.Context()))
		return
	}

	_ = h.Store.UpdateLastLogin(r.Context(), rec.ID)
	_ = h.Audit.Record(r.Context(), rec.ID, "auth.login", "user", rec.ID, requestctx.GetRequestID(r.Context()), nil, nil)

	api.Success(w, map[string]any{
		"token": token,
		"user": map[string]string{
			"id":     rec.ID,
			"name":   rec.Name,
			"email":  rec.Email,
			"role":   rec.Role,
			"sector": rec.Sector,
		},
	}, requestctx.GetRequestID(r.Context()))
}

// HandleLogout exists for client symmetry; tokens are stateless so
// there is nothing to revoke server-side.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok {
		_ = h.Audit.Record(r.Context(), user.UserID, "auth.logout", "user", user.UserID, requestctx.GetRequestID(r.Context()), nil, nil)
	}
	api.Success(w, map[string]bool{"loggedOut": true}, requestctx.GetRequestID(r.Context()))
}

// HandleMe is the snapshot the client's auth provider polls while in
// its "checking" state: identity plus the composed menu.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestctx.GetRequestID(r.Context()))
		return
	}

	api.Success(w, map[string]any{
		"user": map[string]string{
			"id":     user.UserID,
			"name":   user.Name,
			"role":   string(user.Role),
			"sector": string(user.Sector),
		},
		"menu": access.Compose(user.Snapshot()),
	}, requestctx.GetRequestID(r.Context()))
}
