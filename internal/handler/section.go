package handler

import (
	"html/template"
	"net/http"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
	"github.com/Roger0222/dandelion/internal/routes"
)

type sectionPage struct {
	Active   routes.Section
	Sections []routes.Section
	Body     template.HTML
	Email    string
}

// AppHandler serves every page under <base>/app through the route table:
// container paths redirect, tab paths render.
func (h *Handler) AppHandler(w http.ResponseWriter, r *http.Request) {
	m := h.Routes.Resolve(r.URL.Path)
	switch {
	case m.Kind == routes.Redirect:
		http.Redirect(w, r, m.Target, http.StatusFound)
	case m.Kind == routes.Render && m.View == routes.SectionView:
		h.renderSection(w, r, m.Section, middleware.GetSessionFromContext(r), http.StatusOK, nil)
	default:
		http.NotFound(w, r)
	}
}

func (h *Handler) renderSection(w http.ResponseWriter, r *http.Request, s routes.Section, session *domain.Session, status int, alert *navigation.Notice) {
	page := sectionPage{
		Active:   s,
		Sections: h.Routes.Sections(),
		Body:     h.Sections[s.Tab],
	}
	if session != nil {
		page.Email = session.Email
	}
	h.renderTemplate(w, r, sectionTemplate, status, page, alert)
}
