package dialect

import (
	"encoding/json"
	"fmt"
	"strings"

	_ "github.com/trinodb/trino-go-client/trino" // registers the "trino" driver
)

// trinoJSONDeserializer decodes JSON-typed result values. The default
// parses into generic Go values, which loses the raw representation the
// sampling pipeline scans for, so the dialect's Init hook disables it.
// The hook is process-wide: reassigning it affects every subsequent use
// of the trino dialect in this process.
var trinoJSONDeserializer func([]byte) (any, error) = defaultTrinoJSONDeserializer

func defaultTrinoJSONDeserializer(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode trino json value: %w", err)
	}
	return v, nil
}

// DisableTrinoJSONDeserialization replaces the trino JSON hook with a
// no-op, leaving JSON columns as raw strings. Idempotent; calling it
// more than once has no additional effect.
func DisableTrinoJSONDeserialization() {
	trinoJSONDeserializer = nil
}

// decodeTrinoValue applies the JSON hook to JSON-typed values and
// passes everything else through untouched.
func decodeTrinoValue(typeTag string, raw any) (any, error) {
	if !strings.EqualFold(typeTag, "JSON") {
		return raw, nil
	}

	var buf []byte
	switch v := raw.(type) {
	case []byte:
		buf = v
	case string:
		buf = []byte(v)
	default:
		return raw, nil
	}

	if trinoJSONDeserializer == nil {
		return string(buf), nil
	}
	return trinoJSONDeserializer(buf)
}

func init() {
	Register(Registration{
		Info: Info{
			Type:        "trino",
			DisplayName: "Trino",
			Description: "Connect to Trino 400+ clusters",
		},
		DriverName:      "trino",
		QuoteIdentifier: quoteDouble,
		RandomExpr:      "floor(random() * 100)",
		WrapLimit:       wrapLimitClause,
		NaNPredicate: func(column string) string {
			return fmt.Sprintf("is_nan(%s) = false", column)
		},
		DecodeValue: decodeTrinoValue,
		Init:        DisableTrinoJSONDeserialization,
	})
}
