package supabase

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Roger0222/dandelion/internal/domain"
)

// InsertRow adds one record to table through PostgREST.
func (c *Client) InsertRow(ctx context.Context, table string, record domain.UserRecord) error {
	resp, err := c.do(ctx, http.MethodPost, "/rest/v1/"+url.PathEscape(table), []domain.UserRecord{record}, "",
		map[string]string{"Prefer": "return=minimal"})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	return nil
}
