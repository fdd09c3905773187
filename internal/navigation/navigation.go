// Package navigation describes what a finished auth flow asks the user's view
// to do: show one notice and, optionally, move to another page.
package navigation

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
)

type Kind string

const (
	// Toast is transient and dismisses itself after Duration.
	Toast Kind = "toast"
	// Alert blocks until the user acknowledges it.
	Alert Kind = "alert"
)

type Notice struct {
	Kind     Kind
	Header   string
	Message  string
	Duration time.Duration
}

func NewToast(message string, d time.Duration) *Notice {
	return &Notice{Kind: Toast, Message: message, Duration: d}
}

func NewAlert(header, message string) *Notice {
	return &Notice{Kind: Alert, Header: header, Message: message}
}

type Direction string

const (
	Forward Direction = "forward"
	Back    Direction = "back"
)

// Navigation is a page change. Replace drops the current page from history,
// so the user cannot go back to it. Delay is how long the client waits
// before moving, so a preceding toast is visible.
type Navigation struct {
	Path      string
	Replace   bool
	Direction Direction
	Delay     time.Duration
}

func ReplaceWith(path string, dir Direction, delay time.Duration) *Navigation {
	return &Navigation{Path: path, Replace: true, Direction: dir, Delay: delay}
}

// Outcome is the result of a flow as seen by the view.
// A nil Navigation means stay on the current page.
type Outcome struct {
	Notice     *Notice     `json:"notice,omitempty"`
	Navigation *Navigation `json:"navigation,omitempty"`
}

// View is the surface a flow reports to.
type View interface {
	Notify(n Notice)
	Navigate(nav Navigation)
}

// Present delivers o to v: the notice first, then the navigation.
// If ctx is done by the time navigation is due, the view is treated as torn
// down and ErrNavigationNoop is returned without navigating.
func Present(ctx context.Context, v View, o Outcome) error {
	if o.Notice != nil {
		v.Notify(*o.Notice)
	}
	if o.Navigation == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		logger.Log.Debug("navigation dropped", "path", o.Navigation.Path, "reason", err)
		return errors.ErrNavigationNoop
	}
	v.Navigate(*o.Navigation)
	return nil
}

type noticeJSON struct {
	Kind       Kind   `json:"kind"`
	Header     string `json:"header,omitempty"`
	Message    string `json:"message"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

func (n Notice) MarshalJSON() ([]byte, error) {
	return json.Marshal(noticeJSON{
		Kind:       n.Kind,
		Header:     n.Header,
		Message:    n.Message,
		DurationMS: n.Duration.Milliseconds(),
	})
}

type navigationJSON struct {
	Path      string    `json:"path"`
	Replace   bool      `json:"replace"`
	Direction Direction `json:"direction"`
	DelayMS   int64     `json:"delay_ms"`
}

func (n Navigation) MarshalJSON() ([]byte, error) {
	return json.Marshal(navigationJSON{
		Path:      n.Path,
		Replace:   n.Replace,
		Direction: n.Direction,
		DelayMS:   n.Delay.Milliseconds(),
	})
}
