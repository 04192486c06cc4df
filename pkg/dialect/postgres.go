package dialect

import (
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
)

func init() {
	Register(Registration{
		Info: Info{
			Type:        "postgres",
			DisplayName: "PostgreSQL",
			Description: "Connect to PostgreSQL 12+, Aurora PostgreSQL, Supabase",
		},
		DriverName:      "pgx",
		QuoteIdentifier: quoteDouble,
		RandomExpr:      "floor(random() * 100)",
		WrapLimit:       wrapLimitClause,
	})
}
