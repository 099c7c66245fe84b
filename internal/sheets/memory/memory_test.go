package memory

import (
	"context"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
)

func TestExporterKeepsLastPerKind(t *testing.T) {
	e := New()
	ctx := context.Background()

	first := core.TotalsReport{Kind: core.ReportByPerson, Rows: []core.TotalsRow{{ID: uuid.New(), Label: "A"}}}
	second := core.TotalsReport{Kind: core.ReportByPerson, Rows: []core.TotalsRow{{ID: uuid.New(), Label: "B"}}}
	if err := e.ExportTotals(ctx, first); err != nil {
		t.Fatalf("ExportTotals() error = %v", err)
	}
	if err := e.ExportTotals(ctx, second); err != nil {
		t.Fatalf("ExportTotals() error = %v", err)
	}

	got, ok := e.Last(core.ReportByPerson)
	if !ok || got.Rows[0].Label != "B" {
		t.Errorf("Last(person) = %+v, %v; want label B", got, ok)
	}
	if _, ok := e.Last(core.ReportByCategory); ok {
		t.Error("Last(category) should be empty")
	}
	if e.Exports() != 2 {
		t.Errorf("Exports() = %d, want 2", e.Exports())
	}

	// mutating the caller's slice must not leak into the stored copy
	second.Rows[0].Label = "changed"
	got, _ = e.Last(core.ReportByPerson)
	if got.Rows[0].Label != "B" {
		t.Errorf("stored row label = %q, want B", got.Rows[0].Label)
	}
}
