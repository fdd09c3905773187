package navigation

import (
	"context"
	"encoding/json"
	goerrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roger0222/dandelion/internal/errors"
)

type recordingView struct {
	calls   []string
	notices []Notice
	navs    []Navigation
}

func (v *recordingView) Notify(n Notice) {
	v.calls = append(v.calls, "notify")
	v.notices = append(v.notices, n)
}

func (v *recordingView) Navigate(nav Navigation) {
	v.calls = append(v.calls, "navigate")
	v.navs = append(v.navs, nav)
}

func TestPresent_NotifyThenNavigate(t *testing.T) {
	v := &recordingView{}
	o := Outcome{
		Notice:     NewToast("Login successful! Redirecting...", 1500*time.Millisecond),
		Navigation: ReplaceWith("/dandelion/app", Forward, 300*time.Millisecond),
	}

	require.NoError(t, Present(context.Background(), v, o))

	assert.Equal(t, []string{"notify", "navigate"}, v.calls)
	require.Len(t, v.navs, 1)
	assert.True(t, v.navs[0].Replace)
	assert.Equal(t, 300*time.Millisecond, v.navs[0].Delay)
}

func TestPresent_AlertOnly(t *testing.T) {
	v := &recordingView{}

	require.NoError(t, Present(context.Background(), v, Outcome{Notice: NewAlert("Notification", "Invalid login credentials")}))

	assert.Equal(t, []string{"notify"}, v.calls)
	assert.Equal(t, Alert, v.notices[0].Kind)
}

func TestPresent_TornDownView(t *testing.T) {
	v := &recordingView{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Present(ctx, v, Outcome{
		Notice:     NewToast("Logout Successful", time.Second),
		Navigation: ReplaceWith("/dandelion/", Back, 300*time.Millisecond),
	})

	assert.True(t, goerrors.Is(err, errors.ErrNavigationNoop))
	assert.Equal(t, []string{"notify"}, v.calls)
	assert.Empty(t, v.navs)
}

func TestOutcomeJSON(t *testing.T) {
	o := Outcome{
		Notice:     NewToast("Logout Successful", 1500*time.Millisecond),
		Navigation: ReplaceWith("/dandelion/", Back, 300*time.Millisecond),
	}

	data, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"notice": {"kind": "toast", "message": "Logout Successful", "duration_ms": 1500},
		"navigation": {"path": "/dandelion/", "replace": true, "direction": "back", "delay_ms": 300}
	}`, string(data))

	data, err = json.Marshal(Outcome{Notice: NewAlert("Logout Failed", "network down")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notice": {"kind": "alert", "header": "Logout Failed", "message": "network down"}}`, string(data))
}
