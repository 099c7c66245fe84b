package google

import (
	"encoding/json"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
)

// reportValues lays out a report as a header, one line per row, a blank
// separator and the grand total line.
func reportValues(report core.TotalsReport) [][]any {
	label := "Nome"
	if report.Kind == core.ReportByCategory {
		label = "Descrição"
	}
	values := make([][]any, 0, len(report.Rows)+3)
	values = append(values, []any{"ID", label, "Total Receitas", "Total Despesas", "Saldo"})
	for _, r := range report.Rows {
		values = append(values, []any{
			r.ID.String(), r.Label, cell(r.TotalIncome), cell(r.TotalExpense), cell(r.Balance),
		})
	}
	g := report.GrandTotal
	values = append(values,
		[]any{},
		[]any{"", "Total Geral", cell(g.TotalIncome), cell(g.TotalExpense), cell(g.Balance)},
	)
	return values
}

// cell renders an amount as a spreadsheet number with two decimals.
func cell(d decimal.Decimal) float64 {
	return core.RoundAmount(d).InexactFloat64()
}

// DecodeToken parses a token file written by oauth-init.
func DecodeToken(b []byte) (*oauth2.Token, error) {
	var tok oauth2.Token
	if err := json.Unmarshal(b, &tok); err != nil {
		return nil, fmt.Errorf("decode oauth token: %w", err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, fmt.Errorf("decode oauth token: token has neither access nor refresh token")
	}
	return &tok, nil
}
