package sheets

import (
	"context"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
)

// ReportExporter publishes a totals report to an external destination,
// replacing whatever was exported before for the same report kind.
type ReportExporter interface {
	ExportTotals(ctx context.Context, report core.TotalsReport) error
}
