package handler

import (
	goerrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
	"github.com/Roger0222/dandelion/internal/registration"
	"github.com/Roger0222/dandelion/internal/utils"
)

type sessionResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
	Email        string    `json:"email,omitempty"`
}

type outcomeResponse struct {
	navigation.Outcome
	Error   string           `json:"error,omitempty"`
	Session *sessionResponse `json:"session,omitempty"`
}

// presentJSON encodes the outcome a flow produced. A navigation for a client
// that already disconnected is dropped without a response.
func presentJSON(w http.ResponseWriter, r *http.Request, outcome navigation.Outcome, err error, session *domain.Session) {
	view := &jsonView{}
	if perr := navigation.Present(r.Context(), view, outcome); perr != nil {
		return
	}

	resp := outcomeResponse{Outcome: view.outcome}
	status := http.StatusOK
	if err != nil {
		resp.Error = errors.UserMessage(err)
		status = errors.StatusCode(err)
	}
	if session != nil {
		resp.Session = &sessionResponse{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresAt:    session.ExpiresAt,
			Email:        session.Email,
		}
	}
	utils.WriteJSON(w, status, resp)
}

func (h *Handler) APILogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	// Empty fields go to the backend like the login form does, so both
	// report the backend's own message.
	if err := utils.Decode(r.Body, &creds); err != nil {
		utils.WriteJSONError(w, err)
		return
	}

	outcome, session, err := h.Auth.Login(r.Context(), creds)
	presentJSON(w, r, outcome, err, session)
}

func (h *Handler) APILogout(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.Auth.Logout(r.Context(), middleware.GetSessionFromContext(r))
	presentJSON(w, r, outcome, err, nil)
}

type reviewResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type draftResponse struct {
	ID      string          `json:"id,omitempty"`
	State   string          `json:"state"`
	Review  *reviewResponse `json:"review,omitempty"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func draftState(id string, snap registration.Snapshot) draftResponse {
	resp := draftResponse{ID: id, State: snap.State.String()}
	switch snap.State {
	case registration.Reviewing, registration.Committing:
		resp.Review = &reviewResponse{
			Username: snap.Draft.Username,
			Email:    snap.Draft.Email,
			Name:     snap.Draft.FullName(),
		}
	case registration.Succeeded:
		resp.Message = msgAccountCreated
	}
	if snap.Err != nil {
		resp.Error = errors.UserMessage(snap.Err)
	}
	return resp
}

func (h *Handler) submitDraft(w http.ResponseWriter, r *http.Request, id string, flow *registration.Flow, status int) {
	var draft domain.RegistrationDraft
	// Decode only: validation is the flow's job and yields the user-facing messages.
	if err := utils.Decode(r.Body, &draft); err != nil {
		utils.WriteJSONError(w, err)
		return
	}

	err := h.Registration.Submit(flow, draft)
	if goerrors.Is(err, registration.ErrNotReviewing) || goerrors.Is(err, registration.ErrFinished) {
		utils.WriteJSON(w, http.StatusConflict, draftResponse{ID: id, State: flow.State().String(), Error: err.Error()})
		return
	}
	if err != nil {
		utils.WriteJSON(w, errors.StatusCode(err), draftState(id, flow.Snapshot()))
		return
	}
	utils.WriteJSON(w, status, draftState(id, flow.Snapshot()))
}

// APIRegister starts a draft and submits it for review.
func (h *Handler) APIRegister(w http.ResponseWriter, r *http.Request) {
	id, flow := h.Drafts.Create()
	h.submitDraft(w, r, id, flow, http.StatusCreated)
}

// APIResubmit replaces the fields of an existing draft.
func (h *Handler) APIResubmit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flow, ok := h.Drafts.Get(id)
	if !ok {
		utils.WriteJSONError(w, &errors.ErrorWithStatusCode{Message: msgDraftExpired, StatusCode: http.StatusNotFound})
		return
	}
	h.submitDraft(w, r, id, flow, http.StatusOK)
}

func (h *Handler) APIRegisterCancel(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flow, ok := h.Drafts.Get(id)
	if !ok {
		utils.WriteJSONError(w, &errors.ErrorWithStatusCode{Message: msgDraftExpired, StatusCode: http.StatusNotFound})
		return
	}
	if err := flow.Cancel(); err != nil {
		utils.WriteJSON(w, http.StatusConflict, draftResponse{ID: id, State: flow.State().String(), Error: err.Error()})
		return
	}
	utils.WriteJSON(w, http.StatusOK, draftState(id, flow.Snapshot()))
}

func (h *Handler) APIRegisterConfirm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flow, ok := h.Drafts.Get(id)
	if !ok {
		utils.WriteJSONError(w, &errors.ErrorWithStatusCode{Message: msgDraftExpired, StatusCode: http.StatusNotFound})
		return
	}

	err := h.Registration.Confirm(r.Context(), flow)
	switch {
	case goerrors.Is(err, registration.ErrNotReviewing):
		utils.WriteJSON(w, http.StatusConflict, draftResponse{ID: id, State: flow.State().String(), Error: err.Error()})
	case err != nil:
		utils.WriteJSON(w, errors.StatusCode(err), draftState(id, flow.Snapshot()))
	default:
		h.Drafts.Delete(id)
		logger.Log.Debug("registration draft completed", "id", id)
		utils.WriteJSON(w, http.StatusOK, draftState("", flow.Snapshot()))
	}
}
