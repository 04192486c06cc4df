package dialect

import "strings"

// TypeSet is a closed set of column type tags. Membership test only.
type TypeSet map[string]struct{}

// Has reports whether the type tag belongs to the set.
// Matching is case-insensitive and ignores length suffixes like
// "FLOAT(53)".
func (s TypeSet) Has(typeTag string) bool {
	tag := strings.ToUpper(strings.TrimSpace(typeTag))
	if i := strings.IndexByte(tag, '('); i >= 0 {
		tag = strings.TrimSpace(tag[:i])
	}
	_, ok := s[tag]
	return ok
}

func newTypeSet(tags ...string) TypeSet {
	s := make(TypeSet, len(tags))
	for _, tag := range tags {
		s[tag] = struct{}{}
	}
	return s
}

// FloatTypeSet holds the column type tags treated as floating point for
// NaN filtering. Fixed-point types (NUMERIC, DECIMAL) cannot hold NaN
// sentinels and are deliberately absent.
var FloatTypeSet = newTypeSet(
	"FLOAT",
	"FLOAT4",
	"FLOAT8",
	"REAL",
	"DOUBLE",
	"DOUBLE PRECISION",
)
