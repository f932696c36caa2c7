package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/TemirB/sales-dashboard/internal/domain"
	"github.com/TemirB/sales-dashboard/internal/observability"
	"github.com/TemirB/sales-dashboard/internal/pkg/breaker"
)

// Status is the one UI state a view is in. The states never overlap.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusError   Status = "error"
	StatusEmpty   Status = "empty"
	StatusReady   Status = "ready"
)

// FetchStats describes how the displayed page was obtained.
type FetchStats struct {
	Source observability.Source `json:"source,omitempty"`
	DurMs  float64              `json:"durMs"`
}

// View is an immutable snapshot of the controller state.
type View struct {
	Filter     domain.Filter         `json:"filter"`
	Sort       domain.Sort           `json:"sort"`
	PageNumber int                   `json:"pageNumber"`
	HasNext    bool                  `json:"hasNext"`
	HasPrev    bool                  `json:"hasPrev"`
	Loading    bool                  `json:"loading"`
	Error      string                `json:"error,omitempty"`
	AuthFailed bool                  `json:"authFailed,omitempty"`
	Response   *domain.SalesResponse `json:"response,omitempty"`
	Last       FetchStats            `json:"last"`
}

// Status resolves precedence: a running fetch hides an error, an error hides data.
func (v View) Status() Status {
	switch {
	case v.Loading:
		return StatusLoading
	case v.Error != "":
		return StatusError
	case v.Response == nil:
		return StatusIdle
	case len(v.Response.Rows) == 0 && len(v.Response.Totals) == 0:
		return StatusEmpty
	default:
		return StatusReady
	}
}

func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	return View{
		Filter:     c.filter,
		Sort:       c.sort,
		PageNumber: c.page.number,
		HasNext:    c.page.after != "",
		HasPrev:    c.page.before != "" && c.page.number > 1,
		Loading:    c.loading,
		Error:      c.errMsg,
		AuthFailed: c.authFailed,
		Response:   c.resp,
		Last:       c.last,
	}
}

func userMessage(err error) string {
	var (
		verr *domain.ValidationError
		aerr *domain.AuthError
		ferr *domain.FetchError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Reason
	case errors.As(err, &aerr):
		return "Could not authorize with the sales service. Retry to try again."
	case errors.Is(err, breaker.ErrOpenState):
		return "The sales service is unavailable right now. Try again in a few seconds."
	case errors.Is(err, domain.ErrMalformedResponse):
		return "The sales service returned an unexpected response."
	case errors.Is(err, context.DeadlineExceeded):
		return "The sales service did not answer in time."
	case errors.As(err, &ferr) && ferr.Status != 0:
		return fmt.Sprintf("Failed to load sales (HTTP %d).", ferr.Status)
	default:
		return "Failed to load sales."
	}
}
