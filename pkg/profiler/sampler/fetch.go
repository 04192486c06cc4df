package sampler

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dataprobe-io/probe-engine/pkg/logging"
)

// Sample is the materialized result of one sampling request.
type Sample struct {
	Columns []string
	Rows    [][]any
}

// Fetch executes the random sample query on db and decodes result
// values through the dialect's decode hook. Execution failures are the
// caller's concern and surface wrapped but otherwise untouched.
func (s *Sampler) Fetch(ctx context.Context, db *sql.DB, column *Column, label string) (*Sample, error) {
	stmt := s.RandomSampleSQL(column, label)
	s.logger.Debug("running sample query",
		zap.String("table", s.table.Name),
		zap.String("query", logging.SanitizeQuery(stmt)),
	)

	rows, err := db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, fmt.Errorf("execute sample query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read sample columns: %w", err)
	}

	typeFor := make(map[string]string, len(s.table.Columns))
	for _, col := range s.table.Columns {
		typeFor[col.Name] = col.Type
	}

	sample := &Sample{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}

		if s.dialect.DecodeValue != nil {
			for i, name := range cols {
				decoded, err := s.dialect.DecodeValue(typeFor[name], values[i])
				if err != nil {
					return nil, fmt.Errorf("decode column %s: %w", name, err)
				}
				values[i] = decoded
			}
		}
		sample.Rows = append(sample.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return sample, nil
}
