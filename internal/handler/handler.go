package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/Roger0222/dandelion/internal/config"
	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
	"github.com/Roger0222/dandelion/internal/registration"
	"github.com/Roger0222/dandelion/internal/routes"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (navigation.Outcome, *domain.Session, error)
	Logout(ctx context.Context, session *domain.Session) (navigation.Outcome, error)
}

type RegistrationService interface {
	Submit(flow *registration.Flow, draft domain.RegistrationDraft) error
	Confirm(ctx context.Context, flow *registration.Flow) error
}

type Handler struct {
	Templates    map[string]*template.Template
	Public       config.Public
	Routes       *routes.Table
	Sections     map[string]template.HTML // rendered body per tab
	Auth         AuthService
	Registration RegistrationService
	Drafts       *registration.DraftStore
	Cookies      middleware.Cookies
}

func New(
	templates map[string]*template.Template,
	publicCfg config.Public,
	table *routes.Table,
	sections map[string]template.HTML,
	auth AuthService,
	reg RegistrationService,
	drafts *registration.DraftStore,
) *Handler {
	return &Handler{
		Templates:    templates,
		Public:       publicCfg,
		Routes:       table,
		Sections:     sections,
		Auth:         auth,
		Registration: reg,
		Drafts:       drafts,
		Cookies:      middleware.Cookies{Secure: publicCfg.SecureCookies, Path: table.Base()},
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
