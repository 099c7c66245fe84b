package services

import (
	"context"
	"time"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/cache"
	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/storage"
)

// EventPublisher is satisfied by *amqp.Client.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event amqp.LedgerEvent) error
}

// Ledger groups the application services over one store.
type Ledger struct {
	People       *PersonService
	Categories   *CategoryService
	Transactions *TransactionService
	Reports      *ReportService
}

type options struct {
	publisher EventPublisher
	logger    *log.Logger
	cacheTTL  time.Duration
}

type Option func(*options)

// WithPublisher enables best-effort event publication after writes.
func WithPublisher(p EventPublisher) Option {
	return func(o *options) { o.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithReportCacheTTL sets how long computed reports are reused. Zero
// disables the cache.
func WithReportCacheTTL(ttl time.Duration) Option {
	return func(o *options) { o.cacheTTL = ttl }
}

func NewLedger(store storage.Store, opts ...Option) *Ledger {
	o := options{cacheTTL: 30 * time.Second}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(log.DefaultConfig())
	}

	var reportCache *cache.LRUCache[core.TotalsReport]
	if o.cacheTTL > 0 {
		reportCache = cache.NewLRUCache[core.TotalsReport](4, o.cacheTTL)
	}

	reports := &ReportService{
		people:       store,
		categories:   store,
		transactions: store,
		cache:        reportCache,
		logger:       o.logger.WithComponent(log.ComponentReports),
	}
	w := writer{
		publisher: o.publisher,
		reports:   reports,
		logger:    o.logger.WithComponent(log.ComponentLedger),
	}

	return &Ledger{
		People:       &PersonService{store: store, writer: w},
		Categories:   &CategoryService{store: store, transactions: store, writer: w},
		Transactions: &TransactionService{store: store, people: store, categories: store, writer: w},
		Reports:      reports,
	}
}

// writer holds the post-write side effects shared by the services.
type writer struct {
	publisher EventPublisher
	reports   *ReportService
	logger    *log.Logger
}

// committed runs after a successful write: cached reports are dropped
// and an event is published. Publication errors are logged only.
func (w writer) committed(ctx context.Context, kind amqp.EventKind, id string) {
	w.reports.Invalidate()
	if w.publisher == nil {
		return
	}
	if err := w.publisher.PublishEvent(ctx, amqp.NewLedgerEvent(kind, id)); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEventKind, kind,
			log.FieldError, err)
	}
}
