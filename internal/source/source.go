// Package source contains the three upstream adapters: the paginated
// catalog API, the RSS feed, and the official agenda page. Each
// adapter fetches raw content and parses it into one normalized
// batch; it either returns a complete batch or nothing.
package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/confplanner/reinvent/internal/model"
)

// Source is one upstream data source.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (model.Batch, error)
}

// Error reports that a single source's fetch or parse failed. The
// orchestrator logs it and moves on to the remaining sources.
type Error struct {
	Source string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func srcErr(source string, err error) error {
	return &Error{Source: source, Err: err}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
