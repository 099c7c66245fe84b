// Package memory is an in-process Store used for development and tests.
// It enforces the same referential rules as the SQL schema: deleting a
// person cascades to its transactions, deleting a referenced category
// fails, and transactions must reference existing rows.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"github.com/google/uuid"
)

type Store struct {
	mu         sync.RWMutex
	people     []core.Person
	categories []core.Category
	txs        []core.Transaction
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close() error               { return nil }

func indexOf[T any](items []T, match func(T) bool) int {
	return slices.IndexFunc(items, match)
}

func (s *Store) GetPerson(_ context.Context, id uuid.UUID) (core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.people, func(p core.Person) bool { return p.ID == id })
	if i < 0 {
		return core.Person{}, core.NotFound("person", id)
	}
	return s.people[i], nil
}

func (s *Store) ListPeople(context.Context) ([]core.Person, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Person{}, s.people...), nil
}

func (s *Store) AddPerson(_ context.Context, p core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.IndexFunc(s.people, func(x core.Person) bool { return x.ID == p.ID }) >= 0 {
		return fmt.Errorf("insert person: %w: duplicate id", core.ErrConflict)
	}
	s.people = append(s.people, p)
	return nil
}

func (s *Store) UpdatePerson(_ context.Context, p core.Person) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.people, func(x core.Person) bool { return x.ID == p.ID })
	if i < 0 {
		return core.NotFound("person", p.ID)
	}
	s.people[i] = p
	return nil
}

func (s *Store) DeletePerson(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.people, func(x core.Person) bool { return x.ID == id })
	if i < 0 {
		return false, nil
	}
	s.people = slices.Delete(s.people, i, i+1)
	s.txs = slices.DeleteFunc(s.txs, func(t core.Transaction) bool { return t.PersonID == id })
	return true, nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.categories, func(c core.Category) bool { return c.ID == id })
	if i < 0 {
		return core.Category{}, core.NotFound("category", id)
	}
	return s.categories[i], nil
}

func (s *Store) ListCategories(context.Context) ([]core.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Category{}, s.categories...), nil
}

func (s *Store) AddCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.IndexFunc(s.categories, func(x core.Category) bool { return x.ID == c.ID }) >= 0 {
		return fmt.Errorf("insert category: %w: duplicate id", core.ErrConflict)
	}
	s.categories = append(s.categories, c)
	return nil
}

func (s *Store) UpdateCategory(_ context.Context, c core.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(x core.Category) bool { return x.ID == c.ID })
	if i < 0 {
		return core.NotFound("category", c.ID)
	}
	s.categories[i] = c
	return nil
}

func (s *Store) DeleteCategory(_ context.Context, id uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.categories, func(x core.Category) bool { return x.ID == id })
	if i < 0 {
		return false, nil
	}
	if slices.ContainsFunc(s.txs, func(t core.Transaction) bool { return t.CategoryID == id }) {
		return false, fmt.Errorf("delete category: %w: row is referenced by transactions", core.ErrConflict)
	}
	s.categories = slices.Delete(s.categories, i, i+1)
	return true, nil
}

func (s *Store) GetTransaction(_ context.Context, id uuid.UUID) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.txs, func(t core.Transaction) bool { return t.ID == id })
	if i < 0 {
		return core.Transaction{}, core.NotFound("transaction", id)
	}
	return s.txs[i], nil
}

func (s *Store) ListTransactions(context.Context) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction{}, s.txs...), nil
}

func (s *Store) ListTransactionsByPerson(_ context.Context, personID uuid.UUID) ([]core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []core.Transaction{}
	for _, t := range s.txs {
		if t.PersonID == personID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) CountTransactionsByCategory(_ context.Context, categoryID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, t := range s.txs {
		if t.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.people, func(p core.Person) bool { return p.ID == t.PersonID }) ||
		!slices.ContainsFunc(s.categories, func(c core.Category) bool { return c.ID == t.CategoryID }) {
		return fmt.Errorf("insert transaction: %w: referenced person or category does not exist", core.ErrConflict)
	}
	if slices.ContainsFunc(s.txs, func(x core.Transaction) bool { return x.ID == t.ID }) {
		return fmt.Errorf("insert transaction: %w: duplicate id", core.ErrConflict)
	}
	s.txs = append(s.txs, t)
	return nil
}
