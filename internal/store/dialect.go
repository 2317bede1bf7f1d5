package store

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/cbo-qa/cbo-smoke/internal/config"
)

const stagingSchema = "dbo"

// Dialect holds the statement differences between SQL Server and DuckDB.
type Dialect struct {
	Name        string
	Placeholder sq.PlaceholderFormat
	quoteOpen   string
	quoteClose  string
}

var (
	SQLServer = Dialect{Name: config.DriverSQLServer, Placeholder: sq.AtP, quoteOpen: "[", quoteClose: "]"}
	DuckDB    = Dialect{Name: config.DriverDuckDB, Placeholder: sq.Question, quoteOpen: `"`, quoteClose: `"`}
)

// DialectFor returns the dialect of driver, defaulting to SQL Server.
func DialectFor(driver string) Dialect {
	if driver == config.DriverDuckDB {
		return DuckDB
	}
	return SQLServer
}

func (d Dialect) Quote(ident string) string {
	return d.quoteOpen + ident + d.quoteClose
}

// Table returns the schema qualified, quoted name of a staging table.
func (d Dialect) Table(name string) string {
	return d.Quote(stagingSchema) + "." + d.Quote(name)
}

func (d Dialect) Columns(names ...string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = d.Quote(n)
	}
	return out
}
