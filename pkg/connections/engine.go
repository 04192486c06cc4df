package connections

import (
	"context"
	"database/sql"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

// Engine is a live database handle plus the dialect and arguments it
// was built with. Engines are created once per connection request and
// owned by the caller; pooling is the engine manager's concern.
type Engine struct {
	DB      *sql.DB
	URL     string
	Args    map[string]any
	Dialect dialect.Registration
}

// Ping verifies the engine is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	return e.DB.PingContext(ctx)
}

// Close releases the underlying handle.
func (e *Engine) Close() error {
	if e.DB == nil {
		return nil
	}
	return e.DB.Close()
}
