package main

import (
	"fmt"
	"strings"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/FriggD/controle-gastos-residenciais/internal/services"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the totals report",
		Long:  `Print income, expense and balance per person or per category, with the grand total.`,
		Args:  cobra.NoArgs,
		RunE:  runReport,
	}
	cmd.Flags().String("by", string(core.ReportByPerson), "Group totals by person or category")
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	by, _ := cmd.Flags().GetString("by")
	kind := core.ReportKind(strings.ToLower(by))
	if !kind.Valid() {
		return fmt.Errorf("invalid --by %q: use person or category", by)
	}

	ctx := cmd.Context()
	a, err := bootstrap(ctx, services.WithReportCacheTTL(0))
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	report, err := a.ledger.Reports.Totals(ctx, kind)
	if err != nil {
		return err
	}
	cmd.Println(renderTotals(report))
	return nil
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	numberStyle   = cellStyle.Align(lipgloss.Right)
	negativeStyle = numberStyle.Foreground(lipgloss.Color("196"))
	totalStyle    = numberStyle.Bold(true)
)

// renderTotals draws the report as a bordered table whose last row is
// the grand total.
func renderTotals(report core.TotalsReport) string {
	label := "Person"
	if report.Kind == core.ReportByCategory {
		label = "Category"
	}

	rows := make([][]string, 0, len(report.Rows)+1)
	negative := make(map[int]bool)
	for i, r := range report.Rows {
		rows = append(rows, []string{
			r.Label,
			core.FormatAmount(r.TotalIncome),
			core.FormatAmount(r.TotalExpense),
			core.FormatAmount(r.Balance),
		})
		negative[i] = r.Balance.IsNegative()
	}
	g := report.GrandTotal
	rows = append(rows, []string{
		"Total",
		core.FormatAmount(g.TotalIncome),
		core.FormatAmount(g.TotalExpense),
		core.FormatAmount(g.Balance),
	})
	totalRow := len(rows) - 1

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(label, "Income", "Expense", "Balance").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row == totalRow && col > 0:
				return totalStyle
			case row == totalRow:
				return cellStyle.Bold(true)
			case col == 0:
				return cellStyle
			case col == 3 && negative[row]:
				return negativeStyle
			default:
				return numberStyle
			}
		})
	return t.Render()
}
