package dialect

import (
	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver
)

func init() {
	Register(Registration{
		Info: Info{
			Type:        "sqlserver",
			DisplayName: "Microsoft SQL Server",
			Description: "Connect to SQL Server 2019+, Azure SQL Database",
		},
		DriverName:      "sqlserver",
		QuoteIdentifier: quoteBracket,
		RandomExpr:      "ABS(CHECKSUM(NEWID())) % 100",
		WrapLimit:       wrapLimitTop,
	})
}
