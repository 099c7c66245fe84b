package storage

import (
	"context"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
)

// Ports implemented by every storage backend. Lookups of missing ids
// return an error wrapping core.ErrNotFound; referential violations
// return an error wrapping core.ErrConflict.
type (
	PersonRepository interface {
		GetPerson(ctx context.Context, id uuid.UUID) (core.Person, error)
		ListPeople(ctx context.Context) ([]core.Person, error)
		AddPerson(ctx context.Context, p core.Person) error
		UpdatePerson(ctx context.Context, p core.Person) error
		// DeletePerson removes the person and, by cascade, its transactions.
		// It reports whether a row was removed.
		DeletePerson(ctx context.Context, id uuid.UUID) (bool, error)
	}

	CategoryRepository interface {
		GetCategory(ctx context.Context, id uuid.UUID) (core.Category, error)
		ListCategories(ctx context.Context) ([]core.Category, error)
		AddCategory(ctx context.Context, c core.Category) error
		UpdateCategory(ctx context.Context, c core.Category) error
		// DeleteCategory fails with core.ErrConflict while transactions reference it.
		DeleteCategory(ctx context.Context, id uuid.UUID) (bool, error)
	}

	TransactionRepository interface {
		GetTransaction(ctx context.Context, id uuid.UUID) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
		ListTransactionsByPerson(ctx context.Context, personID uuid.UUID) ([]core.Transaction, error)
		CountTransactionsByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
		AddTransaction(ctx context.Context, t core.Transaction) error
	}

	// Store bundles the three repositories of one backend.
	Store interface {
		PersonRepository
		CategoryRepository
		TransactionRepository
		Ping(ctx context.Context) error
		Close() error
	}
)
