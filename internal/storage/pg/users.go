package pg

import (
	"context"
	goerrors "errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Roger0222/dandelion/internal/domain"
	"github.com/Roger0222/dandelion/internal/errors"
)

// InsertRow saves a profile row. Constraint violations come back as
// BackendError carrying the Postgres message, like the REST path does.
func (s *Storage) InsertRow(ctx context.Context, table string, record domain.UserRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (username, user_email, user_firstname, user_lastname, user_password)
		VALUES ($1, $2, $3, $4, $5)`, pq.QuoteIdentifier(table))

	_, err := s.db.ExecContext(ctx, query,
		record.Username, record.Email, record.FirstName, record.LastName, record.PasswordHash)
	if err != nil {
		var pqErr *pq.Error
		if goerrors.As(err, &pqErr) {
			return &errors.BackendError{Message: pqErr.Message, Code: string(pqErr.Code)}
		}
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}
