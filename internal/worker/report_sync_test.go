package worker

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	sheetsmem "github.com/FriggD/controle-gastos-residenciais/internal/sheets/memory"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	cfg := log.DefaultConfig()
	cfg.Output = io.Discard
	return log.New(cfg)
}

// fakeEvents delivers a fixed list of events and then blocks until cancelled.
type fakeEvents struct {
	events []amqp.LedgerEvent
	errs   chan error
}

func (f *fakeEvents) ConsumeEvents(ctx context.Context, handler func(context.Context, amqp.LedgerEvent) error) error {
	for _, e := range f.events {
		f.errs <- handler(ctx, e)
	}
	<-ctx.Done()
	return ctx.Err()
}

// redeliveringEvents mimics a broker that redelivers a message for as long
// as the handler fails, up to limit deliveries.
type redeliveringEvents struct {
	event      amqp.LedgerEvent
	limit      int
	deliveries int
	done       chan struct{}
}

func (f *redeliveringEvents) ConsumeEvents(ctx context.Context, handler func(context.Context, amqp.LedgerEvent) error) error {
	for f.deliveries < f.limit {
		f.deliveries++
		if err := handler(ctx, f.event); err == nil {
			break
		}
	}
	close(f.done)
	<-ctx.Done()
	return ctx.Err()
}

type failingExporter struct{}

func (failingExporter) ExportTotals(context.Context, core.TotalsReport) error {
	return errors.New("quota exceeded")
}

func seededLedger(t *testing.T) *services.Ledger {
	t.Helper()
	ctx := context.Background()
	l := services.NewLedger(memory.New(), services.WithLogger(quietLogger()), services.WithReportCacheTTL(0))
	p, err := l.People.Create(ctx, services.CreatePersonCommand{Name: "Maria Santos", Age: 25})
	require.NoError(t, err)
	c, err := l.Categories.Create(ctx, services.CreateCategoryCommand{Description: "Salário", Purpose: core.PurposeIncome})
	require.NoError(t, err)
	_, err = l.Transactions.Create(ctx, services.CreateTransactionCommand{
		Description: "Salário", Amount: decimal.NewFromInt(3000), Type: core.TypeIncome, CategoryID: c.ID, PersonID: p.ID,
	})
	require.NoError(t, err)
	return l
}

func TestSyncAllExportsBothReports(t *testing.T) {
	l := seededLedger(t)
	exp := sheetsmem.New()
	w := NewReportSyncWorker(l.Reports, exp, quietLogger())

	require.NoError(t, w.SyncAll(context.Background()))

	byPerson, ok := exp.Last(core.ReportByPerson)
	require.True(t, ok)
	assert.Equal(t, "3000.00", core.FormatAmount(byPerson.GrandTotal.Balance))
	byCategory, ok := exp.Last(core.ReportByCategory)
	require.True(t, ok)
	assert.Equal(t, "Salário", byCategory.Rows[0].Label)

	last, n := w.Status()
	assert.False(t, last.IsZero())
	assert.Equal(t, 1, n)
}

func TestHandleEventPropagatesExportErrors(t *testing.T) {
	l := seededLedger(t)
	w := NewReportSyncWorker(l.Reports, failingExporter{}, quietLogger())

	err := w.HandleEvent(context.Background(), amqp.NewLedgerEvent(amqp.TransactionCreated, "x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	_, n := w.Status()
	assert.Zero(t, n)
}

func TestRunConsumesEventsUntilCancelled(t *testing.T) {
	l := seededLedger(t)
	exp := sheetsmem.New()
	w := NewReportSyncWorker(l.Reports, exp, quietLogger())
	events := &fakeEvents{
		events: []amqp.LedgerEvent{amqp.NewLedgerEvent(amqp.PersonCreated, "a")},
		errs:   make(chan error, 1),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events, time.Hour) }()

	select {
	case err := <-events.errs:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not handled")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	// startup sync plus one event, two reports each
	assert.Equal(t, 4, exp.Exports())
}

func TestRunAcksEventsWhenExportFails(t *testing.T) {
	l := seededLedger(t)
	w := NewReportSyncWorker(l.Reports, failingExporter{}, quietLogger())
	events := &redeliveringEvents{
		event: amqp.NewLedgerEvent(amqp.TransactionCreated, "tx"),
		limit: 10,
		done:  make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events, time.Hour) }()

	select {
	case <-events.done:
	case <-time.After(5 * time.Second):
		t.Fatal("event was not handled")
	}
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 1, events.deliveries, "failed sync must not trigger redelivery")
	_, n := w.Status()
	assert.Zero(t, n)
}

func TestRunWithoutIntervalReturnsEventErrors(t *testing.T) {
	l := seededLedger(t)
	w := NewReportSyncWorker(l.Reports, failingExporter{}, quietLogger())
	events := &redeliveringEvents{
		event: amqp.NewLedgerEvent(amqp.PersonCreated, "p"),
		limit: 3,
		done:  make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, events, 0) }()

	select {
	case <-events.done:
	case <-time.After(5 * time.Second):
		t.Fatal("event was not handled")
	}
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 3, events.deliveries)
}
