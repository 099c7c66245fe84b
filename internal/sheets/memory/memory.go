package memory

import (
	"context"
	"sync"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/sheets"
)

// Exporter keeps the last exported report per kind. Used when no
// spreadsheet is configured and in tests.
type Exporter struct {
	mu      sync.Mutex
	last    map[core.ReportKind]core.TotalsReport
	exports int
}

var _ sheets.ReportExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{last: make(map[core.ReportKind]core.TotalsReport)}
}

func (e *Exporter) ExportTotals(_ context.Context, report core.TotalsReport) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := append([]core.TotalsRow(nil), report.Rows...)
	report.Rows = rows
	e.last[report.Kind] = report
	e.exports++
	return nil
}

// Last returns the most recent export of the given kind.
func (e *Exporter) Last(kind core.ReportKind) (core.TotalsReport, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.last[kind]
	return r, ok
}

// Exports counts ExportTotals calls.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
