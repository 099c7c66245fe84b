package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// MySQL server error numbers for constraint failures.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced2 = 1217
)

// translateError maps driver constraint failures onto core.ErrConflict so
// callers never depend on a specific driver. Other errors pass through.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		// extended codes carry the primary code in the low byte
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: %s", core.ErrConflict, constraintMessage(se.Code()))
		}
		return err
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDuplicateEntry:
			return fmt.Errorf("%w: duplicate id", core.ErrConflict)
		case mysqlRowIsReferenced, mysqlRowIsReferenced2:
			return fmt.Errorf("%w: row is referenced by transactions", core.ErrConflict)
		case mysqlNoReferencedRow:
			return fmt.Errorf("%w: referenced person or category does not exist", core.ErrConflict)
		}
	}
	return err
}

func constraintMessage(code int) string {
	switch code {
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return "foreign key constraint failed"
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return "duplicate id"
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return "check constraint failed"
	default:
		return "constraint failed"
	}
}

// notFoundOr converts sql.ErrNoRows into a core.ErrNotFound error.
func notFoundOr(err error, entity string, id fmt.Stringer) error {
	if errors.Is(err, sql.ErrNoRows) {
		return core.NotFound(entity, id)
	}
	return fmt.Errorf("get %s %s: %w", entity, id, err)
}
