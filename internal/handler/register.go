package handler

import (
	goerrors "errors"
	"net/http"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
	"github.com/Roger0222/dandelion/internal/registration"
)

const (
	draftCookie       = "registration_draft"
	msgDraftExpired   = "Your registration has expired. Please start again."
	msgAccountCreated = "Please check your email address."
)

type registerPage struct {
	Draft       domain.RegistrationDraft
	EmailSuffix string
}

func draftFromForm(r *http.Request) domain.RegistrationDraft {
	return domain.RegistrationDraft{
		Username:        r.PostFormValue("username"),
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
}

func (h *Handler) setDraftCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     draftCookie,
		Value:    id,
		Path:     h.Routes.Register(),
		MaxAge:   int(h.Public.DraftTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearDraftCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     draftCookie,
		Value:    "",
		Path:     h.Routes.Register(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentDraft returns the caller's live flow, if any.
func (h *Handler) currentDraft(r *http.Request) (string, *registration.Flow, bool) {
	c, err := r.Cookie(draftCookie)
	if err != nil {
		return "", nil, false
	}
	flow, ok := h.Drafts.Get(c.Value)
	return c.Value, flow, ok
}

func (h *Handler) redirectToRegister(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, h.Routes.Register(), http.StatusSeeOther)
}

// RegisterGetHandler shows whichever step the caller's draft is at.
func (h *Handler) RegisterGetHandler(w http.ResponseWriter, r *http.Request) {
	id, flow, ok := h.currentDraft(r)
	if !ok {
		h.renderTemplate(w, r, registerTemplate, http.StatusOK, registerPage{EmailSuffix: h.Public.AllowedEmailSuffix}, nil)
		return
	}

	snap := flow.Snapshot()
	page := registerPage{Draft: snap.Draft, EmailSuffix: h.Public.AllowedEmailSuffix}

	switch snap.State {
	case registration.Reviewing, registration.Committing:
		h.renderTemplate(w, r, reviewTemplate, http.StatusOK, page, nil)
	case registration.Succeeded:
		h.Drafts.Delete(id)
		h.clearDraftCookie(w)
		h.renderTemplate(w, r, successTemplate, http.StatusOK, page, nil)
	default:
		var alert *navigation.Notice
		if err := flow.TakeErr(); err != nil {
			alert = navigation.NewAlert(alertHeader, errors.UserMessage(err))
		}
		h.renderTemplate(w, r, registerTemplate, http.StatusOK, page, alert)
	}
}

// RegisterPostHandler validates the form. Valid drafts go to review; invalid
// ones come straight back with the alert and every field as typed.
func (h *Handler) RegisterPostHandler(w http.ResponseWriter, r *http.Request) {
	_, flow, ok := h.currentDraft(r)
	if !ok {
		var id string
		id, flow = h.Drafts.Create()
		h.setDraftCookie(w, id)
	}

	draft := draftFromForm(r)
	err := h.Registration.Submit(flow, draft)
	if err == nil {
		h.redirectToRegister(w, r)
		return
	}

	var ve *errors.ValidationError
	if !goerrors.As(err, &ve) {
		// Draft is mid-commit or already done; show its current step.
		h.redirectToRegister(w, r)
		return
	}
	page := registerPage{Draft: draft, EmailSuffix: h.Public.AllowedEmailSuffix}
	h.renderTemplate(w, r, registerTemplate, http.StatusUnprocessableEntity, page, navigation.NewAlert(alertHeader, ve.Message))
}

func (h *Handler) RegisterCancelHandler(w http.ResponseWriter, r *http.Request) {
	if _, flow, ok := h.currentDraft(r); ok {
		if err := flow.Cancel(); err != nil {
			logger.Log.Debug("cancel ignored", "state", flow.State())
		}
	}
	h.redirectToRegister(w, r)
}

// RegisterConfirmHandler commits the reviewed draft. The outcome, success or
// the first failure, is read back by RegisterGetHandler.
func (h *Handler) RegisterConfirmHandler(w http.ResponseWriter, r *http.Request) {
	_, flow, ok := h.currentDraft(r)
	if !ok {
		h.Cookies.SetFlash(w, middleware.FlashCookieError, msgDraftExpired)
		h.clearDraftCookie(w)
		h.redirectToRegister(w, r)
		return
	}

	err := h.Registration.Confirm(r.Context(), flow)
	if goerrors.Is(err, registration.ErrNotReviewing) {
		logger.Log.Debug("duplicate registration confirm ignored", "state", flow.State())
	}
	h.redirectToRegister(w, r)
}
