package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"time"

	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/middleware"
	"github.com/Roger0222/dandelion/internal/navigation"
)

const (
	baseTemplate       = "base.html"
	loginTemplate      = "login.html"
	registerTemplate   = "register.html"
	reviewTemplate     = "review.html"
	successTemplate    = "success.html"
	sectionTemplate    = "section.html"
	transitionTemplate = "transition.html"
)

// ParseTemplates pairs every page in dir with the base layout.
func ParseTemplates(fsys fs.FS, dir string) (map[string]*template.Template, error) {
	pages, err := fs.Glob(fsys, path.Join(dir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, page := range pages {
		name := path.Base(page)
		if name == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).ParseFS(fsys, path.Join(dir, baseTemplate), page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return templates, nil
}

// Paths are the links templates need.
type Paths struct {
	Login           string
	Register        string
	RegisterConfirm string
	RegisterCancel  string
	Home            string
	Logout          string
}

// CommonTemplateData holds fields that are common to all page templates.
// Available in templates as .Common via the TemplateData wrapper.
type CommonTemplateData struct {
	Toast      *navigation.Notice
	Alert      *navigation.Notice
	Success    string
	CSRFToken  string
	StaticPath string
	Paths      Paths
}

// TemplateData wraps page-specific data with common template data.
type TemplateData struct {
	Data   any
	Common CommonTemplateData
}

func (h *Handler) initCommonTemplateData(w http.ResponseWriter, r *http.Request) CommonTemplateData {
	common := CommonTemplateData{
		CSRFToken:  middleware.GetCSRFTokenFromContext(r),
		StaticPath: h.Routes.Static(),
		Paths: Paths{
			Login:           h.Routes.Login(),
			Register:        h.Routes.Register(),
			RegisterConfirm: path.Join(h.Routes.Register(), "confirm"),
			RegisterCancel:  path.Join(h.Routes.Register(), "cancel"),
			Home:            h.Routes.Home(),
			Logout:          h.Routes.Logout(),
		},
	}
	if msg := h.Cookies.PopFlash(w, r, middleware.FlashCookieError); msg != "" {
		common.Alert = navigation.NewAlert(alertHeader, msg)
	}
	common.Success = h.Cookies.PopFlash(w, r, middleware.FlashCookieSuccess)
	return common
}

func (h *Handler) renderTemplate(w http.ResponseWriter, r *http.Request, name string, status int, data any, alert *navigation.Notice) {
	tmpl, ok := h.Templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("Template %s not found", name), http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	if alert != nil {
		common.Alert = alert
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", name, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type transitionPage struct {
	Navigation   navigation.Navigation
	DelaySeconds int
}

// renderTransition shows the toast and lets the client move on after the delay.
func (h *Handler) renderTransition(w http.ResponseWriter, r *http.Request, view *htmlView) {
	tmpl, ok := h.Templates[transitionTemplate]
	if !ok {
		http.Error(w, "Template transition.html not found", http.StatusInternalServerError)
		return
	}

	common := h.initCommonTemplateData(w, r)
	common.Toast = view.toast()
	common.Alert = nil

	nav := *view.navigation
	data := transitionPage{
		Navigation:   nav,
		DelaySeconds: int((nav.Delay + time.Second - 1) / time.Second),
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, TemplateData{Data: data, Common: common}); err != nil {
		logger.Log.Error("error executing template", "template", transitionTemplate, "error", err)
		http.Error(w, "Internal Server Error rendering template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
