package sampler

import (
	"fmt"
	"strings"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

// RandomLabel is the synthetic column the sampling stage projects to
// rank rows for random selection. It is infrastructure, not user data,
// and is excluded from column enumeration everywhere.
const RandomLabel = "random"

// Column is one column of a table handle.
type Column struct {
	Name string
	Type string
}

// TableHandle is a read-only reference to a table's schema.
type TableHandle struct {
	Schema  string
	Name    string
	Columns []Column
}

// QualifiedName renders the table reference, schema-qualified when a
// schema is set.
func (t TableHandle) QualifiedName(quote func(string) string) string {
	if t.Schema != "" {
		return quote(t.Schema) + "." + quote(t.Name)
	}
	return quote(t.Name)
}

// SampleQuery represents "rows to sample from": a projection over the
// whole table or a single column, with an optional disjunctive filter.
// Built fresh per sampling request and discarded after the random
// selection stage consumes it.
type SampleQuery struct {
	dialect dialect.Registration
	table   TableHandle
	column  *Column // nil means whole-row projection
	label   string
	orPreds []string
}

// Where attaches filter predicates. Predicates accumulate into a single
// disjunction: a row passes when at least one predicate holds.
func (q *SampleQuery) Where(preds ...string) *SampleQuery {
	q.orPreds = append(q.orPreds, preds...)
	return q
}

// Filtered reports whether any predicate is attached.
func (q *SampleQuery) Filtered() bool {
	return len(q.orPreds) > 0
}

// SQL renders the query in the dialect's syntax.
func (q *SampleQuery) SQL() string {
	quote := q.dialect.QuoteIdentifier

	projection := "*"
	if q.column != nil {
		projection = quote(q.column.Name)
		if q.label != "" {
			projection += " AS " + quote(q.label)
		}
	}

	stmt := fmt.Sprintf("SELECT %s FROM %s", projection, q.table.QualifiedName(quote))
	if len(q.orPreds) > 0 {
		stmt += " WHERE " + strings.Join(q.orPreds, " OR ")
	}
	return stmt
}

// QueryClient produces sample query objects for an entity: the whole
// table when column is nil, otherwise the single given column with the
// optional label attached to the projection.
type QueryClient interface {
	Query(table TableHandle, column *Column, label string) *SampleQuery
}

type sqlQueryClient struct {
	dialect dialect.Registration
}

func (c sqlQueryClient) Query(table TableHandle, column *Column, label string) *SampleQuery {
	return &SampleQuery{
		dialect: c.dialect,
		table:   table,
		column:  column,
		label:   label,
	}
}
