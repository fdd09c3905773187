// Package registration tracks one registration attempt from the editable
// form through review to the backend commit.
package registration

import (
	goerrors "errors"
	"sync"

	"github.com/Roger0222/dandelion/internal/domain"
)

type State int

const (
	Editing State = iota
	Reviewing
	Committing
	Succeeded
	// Failed is editable: the form is shown again with Err set.
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Reviewing:
		return "reviewing"
	case Committing:
		return "committing"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

var (
	ErrNotReviewing  = goerrors.New("registration is not awaiting confirmation")
	ErrNotCommitting = goerrors.New("registration is not being committed")
	ErrFinished      = goerrors.New("registration already completed")
)

type Validator interface {
	Validate(draft domain.RegistrationDraft) error
}

// Flow is safe for concurrent use. Only one Confirm per review can win.
type Flow struct {
	mu    sync.Mutex
	state State
	draft domain.RegistrationDraft
	err   error
}

func NewFlow() *Flow {
	return &Flow{state: Editing}
}

// Snapshot is a consistent copy of the flow for rendering.
type Snapshot struct {
	State State
	Draft domain.RegistrationDraft
	Err   error
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{State: f.state, Draft: f.draft, Err: f.err}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submit stores the draft and moves to Reviewing if it validates.
// The draft is kept even when validation fails, so the form can be refilled.
// Submitting again while Reviewing replaces the draft under review.
func (f *Flow) Submit(v Validator, draft domain.RegistrationDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case Committing:
		return ErrNotReviewing
	case Succeeded:
		return ErrFinished
	}

	f.draft = draft
	if err := v.Validate(draft); err != nil {
		f.state = Editing
		f.err = err
		return err
	}
	f.state = Reviewing
	f.err = nil
	return nil
}

// Cancel returns from review to editing with the draft untouched.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Reviewing {
		return ErrNotReviewing
	}
	f.state = Editing
	return nil
}

// Confirm claims the commit. Callers that lose the race get ErrNotReviewing
// and must not contact the backend.
func (f *Flow) Confirm() (domain.RegistrationDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Reviewing {
		return domain.RegistrationDraft{}, ErrNotReviewing
	}
	f.state = Committing
	return f.draft, nil
}

// Succeed finishes the flow and drops the draft, passwords included.
func (f *Flow) Succeed() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Committing {
		return ErrNotCommitting
	}
	f.state = Succeeded
	f.draft = domain.RegistrationDraft{Email: f.draft.Email}
	f.err = nil
	return nil
}

// Fail records the first commit error and reopens the form.
func (f *Flow) Fail(err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != Committing {
		return ErrNotCommitting
	}
	f.state = Failed
	f.err = err
	return nil
}

// TakeErr returns the pending error once and clears it. A Failed flow goes
// back to Editing, so the error is shown a single time.
func (f *Flow) TakeErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	err := f.err
	f.err = nil
	if f.state == Failed {
		f.state = Editing
	}
	return err
}
