package storage

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Dialect names a supported SQL backend. The value doubles as the
// database/sql driver name and the migrations subdirectory.
type Dialect string

const (
	DialectSQLite Dialect = "sqlite"
	DialectMySQL  Dialect = "mysql"
)

func (d Dialect) DriverName() string { return string(d) }

func (d Dialect) Valid() bool { return d == DialectSQLite || d == DialectMySQL }

// sqlitePragmas are applied to every pooled connection; foreign keys are
// off by default in SQLite.
var sqlitePragmas = []string{"foreign_keys(1)", "busy_timeout(5000)"}

// connDSN returns the DSN used by the application pool.
func (d Dialect) connDSN(dsn string) (string, error) {
	switch d {
	case DialectSQLite:
		return withSQLitePragmas(dsn), nil
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		// report matched rows on UPDATE so unchanged rows are not mistaken for missing ones
		cfg.ClientFoundRows = true
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// migrationDSN returns the DSN used by golang-migrate.
func (d Dialect) migrationDSN(dsn string) (string, error) {
	switch d {
	case DialectSQLite:
		return withSQLitePragmas(dsn), nil
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", fmt.Errorf("parse mysql dsn: %w", err)
		}
		cfg.MultiStatements = true
		return cfg.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

func withSQLitePragmas(path string) string {
	var b strings.Builder
	b.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		b.WriteString(sep)
		b.WriteString("_pragma=")
		b.WriteString(p)
		sep = "&"
	}
	return b.String()
}
