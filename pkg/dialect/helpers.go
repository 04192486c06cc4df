package dialect

import (
	"fmt"
	"strings"
)

// quoteDouble quotes an identifier with ANSI double quotes, escaping
// embedded quotes by doubling them. Used by trino, postgres and sqlite.
func quoteDouble(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// quoteBracket quotes an identifier SQL Server style, escaping ] as ]].
func quoteBracket(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

// wrapLimitClause bounds a SELECT with a trailing LIMIT, the form
// understood by trino, postgres and sqlite.
func wrapLimitClause(sqlQuery string, n int) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS _limited LIMIT %d", sqlQuery, n)
}

// wrapLimitTop bounds a SELECT with TOP, the SQL Server form.
func wrapLimitTop(sqlQuery string, n int) string {
	return fmt.Sprintf("SELECT TOP (%d) * FROM (%s) AS _limited", n, sqlQuery)
}
