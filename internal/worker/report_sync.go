package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/sheets"
	"golang.org/x/sync/errgroup"
)

// ReportSource computes totals reports; satisfied by *services.ReportService.
type ReportSource interface {
	Totals(ctx context.Context, kind core.ReportKind) (core.TotalsReport, error)
}

// EventSource delivers ledger events; satisfied by *amqp.Client.
type EventSource interface {
	ConsumeEvents(ctx context.Context, handler func(context.Context, amqp.LedgerEvent) error) error
}

// ReportSyncWorker keeps the exported totals in step with the ledger.
// Every event triggers a full re-export; a periodic sync covers lost
// messages and runs without a broker too.
type ReportSyncWorker struct {
	reports  ReportSource
	exporter sheets.ReportExporter
	logger   *log.Logger

	mu       sync.Mutex
	lastSync time.Time
	syncs    int
}

func NewReportSyncWorker(reports ReportSource, exporter sheets.ReportExporter, logger *log.Logger) *ReportSyncWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &ReportSyncWorker{
		reports:  reports,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
	}
}

var kinds = []core.ReportKind{core.ReportByPerson, core.ReportByCategory}

// SyncAll computes both reports concurrently and exports them.
func (w *ReportSyncWorker) SyncAll(ctx context.Context) error {
	results := make([]core.TotalsReport, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			r, err := w.reports.Totals(gctx, kind)
			if err != nil {
				return fmt.Errorf("compute %s totals: %w", kind, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var errs []error
	for _, r := range results {
		if err := w.exporter.ExportTotals(ctx, r); err != nil {
			errs = append(errs, fmt.Errorf("export %s totals: %w", r.Kind, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	w.mu.Lock()
	w.lastSync = time.Now()
	w.syncs++
	w.mu.Unlock()
	return nil
}

// HandleEvent re-exports the reports after any ledger change. An error
// makes the consumer requeue the message.
func (w *ReportSyncWorker) HandleEvent(ctx context.Context, event amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventKind, event.Kind,
		"entity_id", event.EntityID)
	if err := w.SyncAll(ctx); err != nil {
		return fmt.Errorf("sync after %s: %w", event.Kind, err)
	}
	return nil
}

// handleEventUntilTick acks an event whose sync failed; the next periodic
// sync retries the export.
func (w *ReportSyncWorker) handleEventUntilTick(ctx context.Context, event amqp.LedgerEvent) error {
	if err := w.HandleEvent(ctx, event); err != nil {
		w.logger.ErrorContext(ctx, "Event sync failed, waiting for periodic sync",
			log.FieldError, err,
			log.FieldEventKind, event.Kind)
	}
	return nil
}

// Run performs a startup sync, then consumes events (when events is not
// nil) and re-syncs every interval until ctx is cancelled.
func (w *ReportSyncWorker) Run(ctx context.Context, events EventSource, interval time.Duration) error {
	if err := w.SyncAll(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", log.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	if events != nil {
		handler := w.HandleEvent
		if interval > 0 {
			handler = w.handleEventUntilTick
		}
		g.Go(func() error {
			return events.ConsumeEvents(gctx, handler)
		})
	}
	if interval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case <-ticker.C:
					if err := w.SyncAll(gctx); err != nil {
						w.logger.ErrorContext(gctx, "Periodic sync failed", log.FieldError, err)
					}
				}
			}
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Status returns when the last successful sync finished and how many ran.
func (w *ReportSyncWorker) Status() (time.Time, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSync, w.syncs
}
