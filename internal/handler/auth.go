package handler

import (
	goerrors "errors"
	"net/http"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
)

type loginPage struct {
	Email    string
	Password string
}

func (h *Handler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	h.renderTemplate(w, r, loginTemplate, http.StatusOK, loginPage{}, nil)
}

func (h *Handler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	creds := domain.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	outcome, session, err := h.Auth.Login(r.Context(), creds)
	if err == nil {
		h.Cookies.SetSession(w, session)
	}

	view := &htmlView{}
	if perr := navigation.Present(r.Context(), view, outcome); perr != nil {
		// Client went away; nothing left to render.
		return
	}
	if view.navigation != nil {
		h.renderTransition(w, r, view)
		return
	}

	// Keep both fields as typed so the user can correct and retry.
	h.renderTemplate(w, r, loginTemplate, errors.StatusCode(err), loginPage{Email: creds.Email, Password: creds.Password}, view.alert())
}

func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session := middleware.GetSessionFromContext(r)

	outcome, err := h.Auth.Logout(r.Context(), session)
	if err == nil {
		h.Cookies.ClearSession(w)
	}

	view := &htmlView{}
	if perr := navigation.Present(r.Context(), view, outcome); perr != nil {
		if !goerrors.Is(perr, errors.ErrNavigationNoop) {
			logger.Log.Error("presenting logout outcome", "error", perr)
		}
		return
	}
	if view.navigation != nil {
		h.renderTransition(w, r, view)
		return
	}

	// Stay on the section the user logged out from.
	section, ok := h.Routes.Section(r.PostFormValue("tab"))
	if !ok {
		section = h.Routes.DefaultSection()
	}
	h.renderSection(w, r, section, session, errors.StatusCode(err), view.alert())
}
