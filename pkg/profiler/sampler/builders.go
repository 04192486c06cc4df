package sampler

import (
	"sync"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

// BaseQueryBuilder builds the candidate-rows query a dialect feeds into
// the shared random-selection stage. Builders are selected by dialect
// type; dialects without a registered builder get defaultBaseQuery.
type BaseQueryBuilder func(s *Sampler, column *Column, label string) *SampleQuery

var (
	buildersMu sync.RWMutex
	builders   = make(map[string]BaseQueryBuilder)
)

// RegisterBaseQueryBuilder installs a per-dialect base query strategy.
func RegisterBaseQueryBuilder(dialectType string, b BaseQueryBuilder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[dialectType] = b
}

func builderFor(dialectType string) BaseQueryBuilder {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	if b, ok := builders[dialectType]; ok {
		return b
	}
	return defaultBaseQuery
}

// defaultBaseQuery projects the entity with no filtering.
func defaultBaseQuery(s *Sampler, column *Column, label string) *SampleQuery {
	return s.client.Query(s.table, column, label)
}

// nanFilteredBaseQuery excludes rows whose float-typed columns all hold
// NaN sentinels before sampling. The filter is an inclusive OR of
// per-column validity tests, so a row with one valid float column and
// one NaN float column still passes. RandomLabel is never a candidate,
// even if its type matches FloatTypeSet.
func nanFilteredBaseQuery(s *Sampler, column *Column, label string) *SampleQuery {
	if s.dialect.NaNPredicate == nil {
		return defaultBaseQuery(s, column, label)
	}

	q := s.client.Query(s.table, column, label)

	var preds []string
	for _, col := range s.table.Columns {
		if col.Name == RandomLabel {
			continue
		}
		if !dialect.FloatTypeSet.Has(col.Type) {
			continue
		}
		preds = append(preds, s.dialect.NaNPredicate(col.Name))
	}

	if len(preds) > 0 {
		q.Where(preds...)
	}
	return q
}

func init() {
	RegisterBaseQueryBuilder("trino", nanFilteredBaseQuery)
}
