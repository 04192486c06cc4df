package sampler

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

func ordersTable() TableHandle {
	return TableHandle{
		Schema: "sales",
		Name:   "orders",
		Columns: []Column{
			{Name: "id", Type: "BIGINT"},
			{Name: "amount", Type: "DOUBLE"},
			{Name: "discount", Type: "DOUBLE"},
			{Name: "note", Type: "VARCHAR"},
		},
	}
}

func TestBaseSampleQueryNoFloatColumns(t *testing.T) {
	table := TableHandle{
		Name: "users",
		Columns: []Column{
			{Name: "id", Type: "BIGINT"},
			{Name: "name", Type: "VARCHAR"},
		},
	}
	s := New(trinoReg(t), table)

	q := s.BaseSampleQuery(nil, "")
	assert.False(t, q.Filtered(), "no NaN filter without float columns")
	assert.Equal(t, `SELECT * FROM "users"`, q.SQL())
}

func TestBaseSampleQueryFiltersFloatColumns(t *testing.T) {
	s := New(trinoReg(t), ordersTable())

	q := s.BaseSampleQuery(nil, "")
	assert.Equal(t,
		`SELECT * FROM "sales"."orders" WHERE is_nan(amount) = false OR is_nan(discount) = false`,
		q.SQL(),
	)
}

func TestBaseSampleQueryExcludesRandomLabelColumn(t *testing.T) {
	table := ordersTable()
	// The synthetic ranking column must never be a filter candidate,
	// even when its declared type matches FloatTypeSet.
	table.Columns = append(table.Columns, Column{Name: RandomLabel, Type: "DOUBLE"})

	s := New(trinoReg(t), table)
	sql := s.BaseSampleQuery(nil, "").SQL()

	assert.Contains(t, sql, "is_nan(amount) = false")
	assert.Contains(t, sql, "is_nan(discount) = false")
	assert.NotContains(t, sql, "is_nan("+RandomLabel+")")
}

func TestBaseSampleQuerySingleColumnEntityKeepsTableWideFilter(t *testing.T) {
	s := New(trinoReg(t), ordersTable())

	q := s.BaseSampleQuery(&Column{Name: "note", Type: "VARCHAR"}, "note_sample")
	assert.Equal(t,
		`SELECT "note" AS "note_sample" FROM "sales"."orders" WHERE is_nan(amount) = false OR is_nan(discount) = false`,
		q.SQL(),
	)
}

// The filter is an inclusive OR: a row is excluded only when every
// float column holds NaN. Evaluate the rendered predicates against
// synthetic rows to pin that down.
func TestNaNFilterInclusiveOrSemantics(t *testing.T) {
	s := New(trinoReg(t), ordersTable())
	q := s.BaseSampleQuery(nil, "")

	sql := q.SQL()
	_, where, found := strings.Cut(sql, " WHERE ")
	require.True(t, found)
	preds := strings.Split(where, " OR ")
	require.Len(t, preds, 2)

	evaluate := func(row map[string]float64) bool {
		for _, pred := range preds {
			name := strings.TrimSuffix(strings.TrimPrefix(pred, "is_nan("), ") = false")
			if !math.IsNaN(row[name]) {
				return true
			}
		}
		return false
	}

	assert.True(t, evaluate(map[string]float64{"amount": math.NaN(), "discount": 0.1}),
		"one valid float column is enough to pass")
	assert.True(t, evaluate(map[string]float64{"amount": 12.5, "discount": 0.1}))
	assert.False(t, evaluate(map[string]float64{"amount": math.NaN(), "discount": math.NaN()}),
		"row is excluded only when every float column is NaN")
}

func TestDialectsWithoutNaNTestGetDefaultBuilder(t *testing.T) {
	reg, ok := dialect.Lookup("postgres")
	require.True(t, ok)

	s := New(reg, ordersTable())
	q := s.BaseSampleQuery(nil, "")

	assert.False(t, q.Filtered(), "postgres has no registered base query strategy")
	assert.Equal(t, `SELECT * FROM "sales"."orders"`, q.SQL())
}

func TestRandomSampleSQLWrapsBaseQuery(t *testing.T) {
	s := New(trinoReg(t), ordersTable(), WithSamplePercent(20))

	got := s.RandomSampleSQL(nil, "")
	want := `SELECT * FROM (SELECT _probe.*, floor(random() * 100) AS "random" FROM (` +
		`SELECT * FROM "sales"."orders" WHERE is_nan(amount) = false OR is_nan(discount) = false` +
		`) AS _probe) AS _ranked WHERE "random" < 20`
	assert.Equal(t, want, got)
}

func TestRandomSampleSQLAppliesRowLimit(t *testing.T) {
	s := New(trinoReg(t), ordersTable(), WithSamplePercent(20), WithRowLimit(1000))

	got := s.RandomSampleSQL(nil, "")
	assert.True(t, strings.HasPrefix(got, "SELECT * FROM ("))
	assert.True(t, strings.HasSuffix(got, ") AS _limited LIMIT 1000"))
}

func TestWithSamplePercentRejectsOutOfRange(t *testing.T) {
	s := New(trinoReg(t), ordersTable(), WithSamplePercent(0), WithSamplePercent(101))
	assert.Equal(t, DefaultSamplePercent, s.percent)
}

type captureQueryClient struct {
	table  TableHandle
	column *Column
	label  string
	inner  QueryClient
}

func (c *captureQueryClient) Query(table TableHandle, column *Column, label string) *SampleQuery {
	c.table = table
	c.column = column
	c.label = label
	return c.inner.Query(table, column, label)
}

func TestBaseSampleQueryEntitySelection(t *testing.T) {
	reg := trinoReg(t)
	capture := &captureQueryClient{inner: sqlQueryClient{dialect: reg}}
	s := New(reg, ordersTable(), WithClient(capture))

	s.BaseSampleQuery(nil, "")
	assert.Nil(t, capture.column, "nil column means whole-table entity")

	col := &Column{Name: "amount", Type: "DOUBLE"}
	s.BaseSampleQuery(col, "amount_0")
	assert.Equal(t, col, capture.column)
	assert.Equal(t, "amount_0", capture.label)
}
