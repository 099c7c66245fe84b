// Package storetest holds a behavioural suite that every storage.Store
// implementation must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run executes the suite; newStore must return an empty store per call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	tests := []struct {
		name string
		fn   func(t *testing.T, s storage.Store)
	}{
		{"PersonRoundTrip", testPersonRoundTrip},
		{"ListPreservesInsertionOrder", testListOrder},
		{"UpdateMissingIsNotFound", testUpdateMissing},
		{"DeletePersonCascades", testDeletePersonCascades},
		{"DeleteReferencedCategoryConflicts", testDeleteReferencedCategory},
		{"TransactionNeedsExistingRefs", testTransactionRefs},
		{"TransactionAmountExact", testTransactionAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fn(t, newStore(t))
		})
	}
}

// MustPerson creates and stores a person.
func MustPerson(t *testing.T, s storage.Store, name string, age int) core.Person {
	t.Helper()
	p, err := core.NewPerson(name, age)
	require.NoError(t, err)
	require.NoError(t, s.AddPerson(context.Background(), p))
	return p
}

func MustCategory(t *testing.T, s storage.Store, desc string, purpose core.Purpose) core.Category {
	t.Helper()
	c, err := core.NewCategory(desc, purpose)
	require.NoError(t, err)
	require.NoError(t, s.AddCategory(context.Background(), c))
	return c
}

func MustTransaction(t *testing.T, s storage.Store, amount string, typ core.TransactionType, c core.Category, p core.Person) core.Transaction {
	t.Helper()
	tx, err := core.NewTransaction("tx "+amount, decimal.RequireFromString(amount), typ, c.ID, p.ID)
	require.NoError(t, err)
	require.NoError(t, s.AddTransaction(context.Background(), tx))
	return tx
}

func testPersonRoundTrip(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := MustPerson(t, s, "Ana", 30)

	got, err := s.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	updated, err := p.WithUpdate("Ana Maria", 31)
	require.NoError(t, err)
	require.NoError(t, s.UpdatePerson(ctx, updated))
	// same values again must not look like a missing row
	require.NoError(t, s.UpdatePerson(ctx, updated))

	got, err = s.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, 31, got.Age)

	_, err = s.GetPerson(ctx, uuid.New())
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func testListOrder(t *testing.T, s storage.Store) {
	ctx := context.Background()
	names := []string{"Zeca", "Ana", "Maria"}
	for _, n := range names {
		MustPerson(t, s, n, 20)
	}
	people, err := s.ListPeople(ctx)
	require.NoError(t, err)
	require.Len(t, people, 3)
	for i, p := range people {
		assert.Equal(t, names[i], p.Name)
	}

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func testUpdateMissing(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p, err := core.NewPerson("Ghost", 40)
	require.NoError(t, err)
	assert.ErrorIs(t, s.UpdatePerson(ctx, p), core.ErrNotFound)

	c, err := core.NewCategory("Ghost", core.PurposeBoth)
	require.NoError(t, err)
	assert.ErrorIs(t, s.UpdateCategory(ctx, c), core.ErrNotFound)

	removed, err := s.DeletePerson(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func testDeletePersonCascades(t *testing.T, s storage.Store) {
	ctx := context.Background()
	a := MustPerson(t, s, "A", 30)
	b := MustPerson(t, s, "B", 30)
	c := MustCategory(t, s, "Geral", core.PurposeBoth)
	MustTransaction(t, s, "10.00", core.TypeExpense, c, a)
	MustTransaction(t, s, "20.00", core.TypeIncome, c, a)
	keep := MustTransaction(t, s, "5.00", core.TypeExpense, c, b)

	removed, err := s.DeletePerson(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, keep.ID, txs[0].ID)

	byA, err := s.ListTransactionsByPerson(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, byA)
}

func testDeleteReferencedCategory(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := MustPerson(t, s, "A", 30)
	used := MustCategory(t, s, "Usada", core.PurposeExpense)
	free := MustCategory(t, s, "Livre", core.PurposeExpense)
	MustTransaction(t, s, "1.00", core.TypeExpense, used, p)

	n, err := s.CountTransactionsByCategory(ctx, used.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.DeleteCategory(ctx, used.ID)
	assert.ErrorIs(t, err, core.ErrConflict)

	removed, err := s.DeleteCategory(ctx, free.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, used.ID, cats[0].ID)
}

func testTransactionRefs(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := MustPerson(t, s, "A", 30)
	tx, err := core.NewTransaction("orphan", decimal.NewFromInt(1), core.TypeExpense, uuid.New(), p.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, s.AddTransaction(ctx, tx), core.ErrConflict)
}

func testTransactionAmount(t *testing.T, s storage.Store) {
	ctx := context.Background()
	p := MustPerson(t, s, "A", 30)
	c := MustCategory(t, s, "Geral", core.PurposeBoth)
	tx := MustTransaction(t, s, "150.50", core.TypeIncome, c, p)

	got, err := s.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "150.50", core.FormatAmount(got.Amount))
	assert.Equal(t, core.TypeIncome, got.Type)
	assert.Equal(t, c.ID, got.CategoryID)
	assert.Equal(t, p.ID, got.PersonID)
}
