package dialect

import (
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// The sqlite DSN is a file path (or ":memory:") rather than a URL, so
// callers building sqlite engines supply their own URL function.
func init() {
	Register(Registration{
		Info: Info{
			Type:        "sqlite",
			DisplayName: "SQLite",
			Description: "Connect to SQLite database files",
		},
		DriverName:      "sqlite",
		QuoteIdentifier: quoteDouble,
		RandomExpr:      "abs(random()) % 100",
		WrapLimit:       wrapLimitClause,
	})
}
