package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []amqp.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, e amqp.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) kinds() []amqp.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return log.New(cfg)
}

func newLedger(t *testing.T, opts ...Option) (*Ledger, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	opts = append([]Option{WithPublisher(pub), WithLogger(quietLogger())}, opts...)
	return NewLedger(memory.New(), opts...), pub
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPersonLifecycle(t *testing.T) {
	ctx := context.Background()
	l, pub := newLedger(t)

	p, err := l.People.Create(ctx, CreatePersonCommand{Name: "Ana", Age: 30})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)

	got, err := l.People.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	updated, err := l.People.Update(ctx, UpdatePersonCommand{ID: p.ID, Name: "Ana Paula", Age: 31})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", updated.Name)

	require.NoError(t, l.People.Delete(ctx, p.ID))
	_, err = l.People.Get(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// unknown id: no error and no event
	require.NoError(t, l.People.Delete(ctx, uuid.New()))

	assert.Equal(t, []amqp.EventKind{amqp.PersonCreated, amqp.PersonUpdated, amqp.PersonDeleted}, pub.kinds())
}

func TestCreatePersonValidationHappensFirst(t *testing.T) {
	l, pub := newLedger(t)
	_, err := l.People.Create(context.Background(), CreatePersonCommand{Name: "", Age: 0})

	var verr *core.ValidationErrors
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
	assert.Empty(t, pub.kinds())

	people, err := l.People.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, people)
}

func TestUpdateMissingPerson(t *testing.T) {
	l, _ := newLedger(t)
	_, err := l.People.Update(context.Background(), UpdatePersonCommand{ID: uuid.New(), Name: "X", Age: 20})
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestMinorCannotRecordIncome(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	pedro, err := l.People.Create(ctx, CreatePersonCommand{Name: "Pedro", Age: 17})
	require.NoError(t, err)
	food, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Food", Purpose: core.PurposeExpense})
	require.NoError(t, err)
	both, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Geral", Purpose: core.PurposeBoth})
	require.NoError(t, err)

	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "Lanche", Amount: dec("15.00"), Type: core.TypeExpense, CategoryID: food.ID, PersonID: pedro.ID,
	})
	require.NoError(t, err)

	// the category rejects income too, but the minor rule is reported
	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "Mesada", Amount: dec("50.00"), Type: core.TypeIncome, CategoryID: food.ID, PersonID: pedro.ID,
	})
	assert.ErrorIs(t, err, core.ErrMinorIncome)
	assert.NotErrorIs(t, err, core.ErrCategoryTypeMismatch)
	assert.ErrorIs(t, err, core.ErrBusinessRule)

	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "Mesada", Amount: dec("50.00"), Type: core.TypeIncome, CategoryID: both.ID, PersonID: pedro.ID,
	})
	assert.ErrorIs(t, err, core.ErrMinorIncome)

	txs, err := l.Transactions.List(ctx)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestTransactionCheckOrder(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	adult, err := l.People.Create(ctx, CreatePersonCommand{Name: "Maria", Age: 25})
	require.NoError(t, err)
	incomeOnly, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Salário", Purpose: core.PurposeIncome})
	require.NoError(t, err)

	tests := []struct {
		name    string
		cmd     CreateTransactionCommand
		wantErr error
	}{
		{
			name:    "unknown person and category reports person",
			cmd:     CreateTransactionCommand{Description: "x", Amount: dec("1"), Type: core.TypeIncome, CategoryID: uuid.New(), PersonID: uuid.New()},
			wantErr: core.ErrNotFound,
		},
		{
			name:    "unknown category",
			cmd:     CreateTransactionCommand{Description: "x", Amount: dec("1"), Type: core.TypeIncome, CategoryID: uuid.New(), PersonID: adult.ID},
			wantErr: core.ErrNotFound,
		},
		{
			name:    "purpose mismatch",
			cmd:     CreateTransactionCommand{Description: "x", Amount: dec("1"), Type: core.TypeExpense, CategoryID: incomeOnly.ID, PersonID: adult.ID},
			wantErr: core.ErrCategoryTypeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Transactions.Create(ctx, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "x", Amount: dec("1"), Type: core.TypeIncome, CategoryID: uuid.New(), PersonID: uuid.New(),
	})
	assert.Contains(t, err.Error(), "person")
}

func TestCategoryDeleteRules(t *testing.T) {
	ctx := context.Background()
	l, pub := newLedger(t)
	p, err := l.People.Create(ctx, CreatePersonCommand{Name: "João", Age: 30})
	require.NoError(t, err)
	used, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Alimentação", Purpose: core.PurposeExpense})
	require.NoError(t, err)
	free, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Lazer", Purpose: core.PurposeExpense})
	require.NoError(t, err)
	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "Mercado", Amount: dec("150.50"), Type: core.TypeExpense, CategoryID: used.ID, PersonID: p.ID,
	})
	require.NoError(t, err)

	err = l.Categories.Delete(ctx, used.ID)
	assert.ErrorIs(t, err, core.ErrConflict)

	require.NoError(t, l.Categories.Delete(ctx, free.ID))
	cats, err := l.Categories.List(ctx)
	require.NoError(t, err)
	for _, c := range cats {
		assert.NotEqual(t, free.ID, c.ID)
	}

	assert.ErrorIs(t, l.Categories.Delete(ctx, free.ID), core.ErrNotFound)
	assert.Contains(t, pub.kinds(), amqp.CategoryDeleted)
}

func TestDeletingPersonRemovesTheirTransactions(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)
	p, err := l.People.Create(ctx, CreatePersonCommand{Name: "João", Age: 30})
	require.NoError(t, err)
	c, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Geral", Purpose: core.PurposeBoth})
	require.NoError(t, err)
	_, err = l.Transactions.Create(ctx, CreateTransactionCommand{
		Description: "Mercado", Amount: dec("10"), Type: core.TypeExpense, CategoryID: c.ID, PersonID: p.ID,
	})
	require.NoError(t, err)

	txs, err := l.People.Transactions(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)

	require.NoError(t, l.People.Delete(ctx, p.ID))
	all, err := l.Transactions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = l.People.Transactions(ctx, p.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	// category is free again once the cascade removed its transactions
	assert.NoError(t, l.Categories.Delete(ctx, c.ID))
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	ctx := context.Background()
	l, pub := newLedger(t)
	pub.err = errors.New("broker down")

	p, err := l.People.Create(ctx, CreatePersonCommand{Name: "Ana", Age: 30})
	require.NoError(t, err)
	_, err = l.People.Get(ctx, p.ID)
	assert.NoError(t, err)
}

func TestReportsFollowWrites(t *testing.T) {
	ctx := context.Background()
	l, _ := newLedger(t)

	a, err := l.People.Create(ctx, CreatePersonCommand{Name: "A", Age: 30})
	require.NoError(t, err)
	b, err := l.People.Create(ctx, CreatePersonCommand{Name: "B", Age: 30})
	require.NoError(t, err)
	both, err := l.Categories.Create(ctx, CreateCategoryCommand{Description: "Geral", Purpose: core.PurposeBoth})
	require.NoError(t, err)

	record := func(amount string, typ core.TransactionType, person uuid.UUID) {
		t.Helper()
		_, err := l.Transactions.Create(ctx, CreateTransactionCommand{
			Description: "t", Amount: dec(amount), Type: typ, CategoryID: both.ID, PersonID: person,
		})
		require.NoError(t, err)
	}
	record("1000", core.TypeIncome, a.ID)
	record("400", core.TypeExpense, a.ID)

	// warm the cache, then write again and make sure the report moves
	first, err := l.Reports.TotalsByPerson(ctx)
	require.NoError(t, err)
	assert.Equal(t, "600.00", core.FormatAmount(first.GrandTotal.Balance))

	record("200", core.TypeExpense, b.ID)

	report, err := l.Reports.TotalsByPerson(ctx)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "600.00", core.FormatAmount(report.Rows[0].Balance))
	assert.Equal(t, "-200.00", core.FormatAmount(report.Rows[1].Balance))
	assert.Equal(t, "1000.00", core.FormatAmount(report.GrandTotal.TotalIncome))
	assert.Equal(t, "600.00", core.FormatAmount(report.GrandTotal.TotalExpense))
	assert.Equal(t, "400.00", core.FormatAmount(report.GrandTotal.Balance))

	byCategory, err := l.Reports.TotalsByCategory(ctx)
	require.NoError(t, err)
	require.Len(t, byCategory.Rows, 1)
	assert.Equal(t, "Geral", byCategory.Rows[0].Label)
	assert.Equal(t, "400.00", core.FormatAmount(byCategory.Rows[0].Balance))

	// second read is served from the cache
	_, err = l.Reports.TotalsByCategory(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, l.Reports.CacheStats().Hits, uint64(1))
}

func TestReportsWithoutCache(t *testing.T) {
	l, _ := newLedger(t, WithReportCacheTTL(0))
	report, err := l.Reports.TotalsByCategory(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.Zero(t, l.Reports.CacheStats().Hits)

	_, err = l.Reports.Totals(context.Background(), core.ReportKind("month"))
	assert.Error(t, err)
}
