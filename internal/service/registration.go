package service

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/Roger0222/dandelion/internal/backend"
	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
	"github.com/Roger0222/dandelion/internal/logger"
	"github.com/Roger0222/dandelion/internal/registration"
)

const (
	stepSignUp = "Account creation failed"
	stepInsert = "Failed to save user data"
)

type Registration struct {
	auth       backend.Authenticator
	rows       backend.RowInserter
	validator  registration.Validator
	table      string
	bcryptCost int
}

func NewRegistration(auth backend.Authenticator, rows backend.RowInserter, validator registration.Validator, table string, bcryptCost int) *Registration {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Registration{
		auth:       auth,
		rows:       rows,
		validator:  validator,
		table:      table,
		bcryptCost: bcryptCost,
	}
}

// Submit validates draft and moves flow to review. Nothing leaves the process.
func (s *Registration) Submit(flow *registration.Flow, draft domain.RegistrationDraft) error {
	err := flow.Submit(s.validator, draft)
	if err != nil {
		authEventsTotal.WithLabelValues(flowRegister, resultInvalid).Inc()
	}
	return err
}

// Confirm commits the reviewed draft. A concurrent second confirm gets
// registration.ErrNotReviewing without touching the backend.
// The commit outlives ctx cancellation so a dropped request cannot stop it
// between sign-up and insert; the backend client's timeout still bounds it.
func (s *Registration) Confirm(ctx context.Context, flow *registration.Flow) error {
	draft, err := flow.Confirm()
	if err != nil {
		return err
	}

	err = s.commit(context.WithoutCancel(ctx), draft)
	countEvent(flowRegister, err)
	if err != nil {
		if ferr := flow.Fail(err); ferr != nil {
			return ferr
		}
		return err
	}
	return flow.Succeed()
}

// commit creates the auth account, then the profile row with a hashed password.
// There is no rollback: an account whose profile insert failed stays in the
// auth backend.
func (s *Registration) commit(ctx context.Context, draft domain.RegistrationDraft) error {
	if _, err := s.auth.SignUp(ctx, draft.Credentials()); err != nil {
		logger.Log.Info("sign-up rejected", "email", draft.Email, "error", err)
		return &errors.StepError{Step: stepSignUp, Err: err}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), s.bcryptCost)
	if err != nil {
		logger.Log.Error("password hashing failed after sign-up", "email", draft.Email, "error", err)
		return &errors.StepError{Step: stepInsert, Err: err}
	}

	record := domain.UserRecord{
		Username:     draft.Username,
		Email:        draft.Email,
		FirstName:    draft.FirstName,
		LastName:     draft.LastName,
		PasswordHash: string(hash),
	}
	if err := s.rows.InsertRow(ctx, s.table, record); err != nil {
		logger.Log.Warn("profile insert failed after sign-up, auth account left in place",
			"email", draft.Email,
			"table", s.table,
			"error", err)
		return &errors.StepError{Step: stepInsert, Err: err}
	}

	logger.Log.Info("user registered", "email", draft.Email, "username", draft.Username)
	return nil
}
