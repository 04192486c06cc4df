package sampler

import (
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

// DefaultSamplePercent keeps every ranked row unless the caller asks
// for a smaller sample.
const DefaultSamplePercent = 100.0

// Sampler produces a reduced, randomized subset of rows from a table
// for profiling without scanning the full table. The base-query step is
// a per-dialect strategy; the random-selection stage is shared.
type Sampler struct {
	dialect   dialect.Registration
	table     TableHandle
	client    QueryClient
	baseQuery BaseQueryBuilder
	percent   float64
	rowLimit  int
	logger    *zap.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithClient replaces the query client (tests inject capture clients).
func WithClient(c QueryClient) Option {
	return func(s *Sampler) { s.client = c }
}

// WithSamplePercent sets the share of ranked rows kept, in (0, 100].
func WithSamplePercent(p float64) Option {
	return func(s *Sampler) {
		if p > 0 && p <= 100 {
			s.percent = p
		}
	}
}

// WithRowLimit caps the number of sampled rows.
func WithRowLimit(n int) Option {
	return func(s *Sampler) { s.rowLimit = n }
}

// WithLogger sets the sampler's logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sampler) { s.logger = l }
}

// New builds a sampler for the table. The base-query builder is picked
// from the strategy registry by the dialect's type tag.
func New(reg dialect.Registration, table TableHandle, opts ...Option) *Sampler {
	s := &Sampler{
		dialect: reg,
		table:   table,
		client:  sqlQueryClient{dialect: reg},
		percent: DefaultSamplePercent,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.baseQuery = builderFor(reg.Info.Type)
	return s
}

// BaseSampleQuery returns the candidate-rows query: the whole table
// when column is nil, otherwise the given column with label attached.
// The random-selection stage consumes the result unchanged.
func (s *Sampler) BaseSampleQuery(column *Column, label string) *SampleQuery {
	return s.baseQuery(s, column, label)
}

// RandomSampleSQL wraps the base query with the shared selection stage:
// rank rows under RandomLabel with the dialect's random expression and
// keep those below the sample percentage.
func (s *Sampler) RandomSampleSQL(column *Column, label string) string {
	base := s.BaseSampleQuery(column, label).SQL()
	randomCol := s.dialect.QuoteIdentifier(RandomLabel)

	stmt := fmt.Sprintf(
		"SELECT * FROM (SELECT _probe.*, %s AS %s FROM (%s) AS _probe) AS _ranked WHERE %s < %s",
		s.dialect.RandomExpr, randomCol, base, randomCol,
		strconv.FormatFloat(s.percent, 'f', -1, 64),
	)
	if s.rowLimit > 0 {
		stmt = s.dialect.WrapLimit(stmt, s.rowLimit)
	}
	return stmt
}
