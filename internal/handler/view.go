package handler

import (
	"github.com/Roger0222/dandelion/internal/navigation"
)

const alertHeader = "Notification"

// htmlView collects what a flow presented so the handler can pick a page.
type htmlView struct {
	notice     *navigation.Notice
	navigation *navigation.Navigation
}

func (v *htmlView) Notify(n navigation.Notice) { v.notice = &n }
func (v *htmlView) Navigate(nav navigation.Navigation) { v.navigation = &nav }

func (v *htmlView) toast() *navigation.Notice {
	if v.notice != nil && v.notice.Kind == navigation.Toast {
		return v.notice
	}
	return nil
}

func (v *htmlView) alert() *navigation.Notice {
	if v.notice != nil && v.notice.Kind == navigation.Alert {
		return v.notice
	}
	return nil
}

// jsonView is the same for the mobile shell; the outcome is encoded as-is.
type jsonView struct {
	outcome navigation.Outcome
}

func (v *jsonView) Notify(n navigation.Notice) { v.outcome.Notice = &n }
func (v *jsonView) Navigate(nav navigation.Navigation) { v.outcome.Navigation = &nav }
