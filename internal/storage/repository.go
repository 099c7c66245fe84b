package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
)

// SQLRepository implements Store on top of database/sql. The queries are
// portable between the SQLite and MySQL dialects.
type SQLRepository struct {
	db      *sql.DB
	dialect Dialect
}

var _ Store = (*SQLRepository)(nil)

// Open connects to the database, verifies the connection and applies
// pending migrations.
func Open(ctx context.Context, d Dialect, dsn string) (*SQLRepository, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("open store: unsupported dialect %q", d)
	}
	connDSN, err := d.connDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(d.DriverName(), connDSN)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", d, err)
	}

	switch d {
	case DialectSQLite:
		// one writer at a time keeps SQLite free of SQLITE_BUSY under load
		db.SetMaxOpenConns(1)
	case DialectMySQL:
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(d, dsn); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLRepository{db: db, dialect: d}, nil
}

// NewSQLiteRepository opens (creating if needed) the SQLite file at dbPath.
func NewSQLiteRepository(ctx context.Context, dbPath string) (*SQLRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	return Open(ctx, DialectSQLite, dbPath)
}

func NewMySQLRepository(ctx context.Context, dsn string) (*SQLRepository, error) {
	return Open(ctx, DialectMySQL, dsn)
}

func (r *SQLRepository) Dialect() Dialect { return r.dialect }

func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const (
	qGetPerson    = `SELECT id, name, age FROM people WHERE id = ?`
	qListPeople   = `SELECT id, name, age FROM people ORDER BY seq`
	qInsertPerson = `INSERT INTO people (id, name, age) VALUES (?, ?, ?)`
	qUpdatePerson = `UPDATE people SET name = ?, age = ? WHERE id = ?`
	qDeletePerson = `DELETE FROM people WHERE id = ?`

	qGetCategory    = `SELECT id, description, purpose FROM categories WHERE id = ?`
	qListCategories = `SELECT id, description, purpose FROM categories ORDER BY seq`
	qInsertCategory = `INSERT INTO categories (id, description, purpose) VALUES (?, ?, ?)`
	qUpdateCategory = `UPDATE categories SET description = ?, purpose = ? WHERE id = ?`
	qDeleteCategory = `DELETE FROM categories WHERE id = ?`

	txColumns          = `id, description, amount_cents, type, category_id, person_id`
	qGetTransaction    = `SELECT ` + txColumns + ` FROM transactions WHERE id = ?`
	qListTransactions  = `SELECT ` + txColumns + ` FROM transactions ORDER BY seq`
	qListTxByPerson    = `SELECT ` + txColumns + ` FROM transactions WHERE person_id = ? ORDER BY seq`
	qCountTxByCategory = `SELECT COUNT(*) FROM transactions WHERE category_id = ?`
	qInsertTransaction = `INSERT INTO transactions (` + txColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPerson(s rowScanner) (core.Person, error) {
	var p core.Person
	err := s.Scan(&p.ID, &p.Name, &p.Age)
	return p, err
}

func scanCategory(s rowScanner) (core.Category, error) {
	var (
		c       core.Category
		purpose int
	)
	if err := s.Scan(&c.ID, &c.Description, &purpose); err != nil {
		return c, err
	}
	c.Purpose = core.Purpose(purpose)
	return c, nil
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t      core.Transaction
		cents  int64
		txType int
	)
	if err := s.Scan(&t.ID, &t.Description, &cents, &txType, &t.CategoryID, &t.PersonID); err != nil {
		return t, err
	}
	t.Amount = core.FromCents(cents)
	t.Type = core.TransactionType(txType)
	return t, nil
}

func queryAll[T any](ctx context.Context, db *sql.DB, scan func(rowScanner) (T, error), query string, args ...any) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// execAffecting runs a statement and returns the number of affected rows.
func (r *SQLRepository) execAffecting(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, translateError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) GetPerson(ctx context.Context, id uuid.UUID) (core.Person, error) {
	p, err := scanPerson(r.db.QueryRowContext(ctx, qGetPerson, id))
	if err != nil {
		return core.Person{}, notFoundOr(err, "person", id)
	}
	return p, nil
}

func (r *SQLRepository) ListPeople(ctx context.Context) ([]core.Person, error) {
	people, err := queryAll(ctx, r.db, scanPerson, qListPeople)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return people, nil
}

func (r *SQLRepository) AddPerson(ctx context.Context, p core.Person) error {
	if _, err := r.execAffecting(ctx, qInsertPerson, p.ID, p.Name, p.Age); err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdatePerson(ctx context.Context, p core.Person) error {
	n, err := r.execAffecting(ctx, qUpdatePerson, p.Name, p.Age, p.ID)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	if n == 0 {
		return core.NotFound("person", p.ID)
	}
	return nil
}

func (r *SQLRepository) DeletePerson(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.execAffecting(ctx, qDeletePerson, id)
	if err != nil {
		return false, fmt.Errorf("delete person: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) GetCategory(ctx context.Context, id uuid.UUID) (core.Category, error) {
	c, err := scanCategory(r.db.QueryRowContext(ctx, qGetCategory, id))
	if err != nil {
		return core.Category{}, notFoundOr(err, "category", id)
	}
	return c, nil
}

func (r *SQLRepository) ListCategories(ctx context.Context) ([]core.Category, error) {
	cats, err := queryAll(ctx, r.db, scanCategory, qListCategories)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (r *SQLRepository) AddCategory(ctx context.Context, c core.Category) error {
	if _, err := r.execAffecting(ctx, qInsertCategory, c.ID, c.Description, int(c.Purpose)); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *SQLRepository) UpdateCategory(ctx context.Context, c core.Category) error {
	n, err := r.execAffecting(ctx, qUpdateCategory, c.Description, int(c.Purpose), c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return core.NotFound("category", c.ID)
	}
	return nil
}

func (r *SQLRepository) DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := r.execAffecting(ctx, qDeleteCategory, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

func (r *SQLRepository) GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, qGetTransaction, id))
	if err != nil {
		return core.Transaction{}, notFoundOr(err, "transaction", id)
	}
	return t, nil
}

func (r *SQLRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	txs, err := queryAll(ctx, r.db, scanTransaction, qListTransactions)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *SQLRepository) ListTransactionsByPerson(ctx context.Context, personID uuid.UUID) ([]core.Transaction, error) {
	txs, err := queryAll(ctx, r.db, scanTransaction, qListTxByPerson, personID)
	if err != nil {
		return nil, fmt.Errorf("list transactions of person %s: %w", personID, err)
	}
	return txs, nil
}

func (r *SQLRepository) CountTransactionsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, qCountTxByCategory, categoryID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions of category %s: %w", categoryID, err)
	}
	return n, nil
}

func (r *SQLRepository) AddTransaction(ctx context.Context, t core.Transaction) error {
	_, err := r.execAffecting(ctx, qInsertTransaction,
		t.ID, t.Description, core.ToCents(t.Amount), int(t.Type), t.CategoryID, t.PersonID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
