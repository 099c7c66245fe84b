package google

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FriggD/controle-gastos-residenciais/internal/core"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNewRequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || !strings.Contains(err.Error(), "spreadsheet id") {
		t.Fatalf("New() error = %v, want missing spreadsheet id", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet"})
	if err == nil || !strings.Contains(err.Error(), "missing credentials") {
		t.Fatalf("New() error = %v, want missing credentials", err)
	}
}

func TestNewWithInvalidOAuthClient(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:   "sheet",
		OAuthClientJSON: "invalid-json",
		OAuthTokenJSON:  `{"access_token":"test"}`,
	})
	if err == nil || !strings.Contains(err.Error(), "oauth config") {
		t.Fatalf("New() error = %v, want oauth config error", err)
	}
}

func TestNewWithMissingTokenFile(t *testing.T) {
	_, err := New(context.Background(), Config{
		SpreadsheetID:   "sheet",
		OAuthClientJSON: `{"installed":{"client_id":"id","client_secret":"s","auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token","redirect_uris":["http://localhost"]}}`,
		OAuthTokenFile:  filepath.Join(t.TempDir(), "missing.json"),
	})
	if err == nil || !strings.Contains(err.Error(), "read oauth token file") {
		t.Fatalf("New() error = %v, want token file error", err)
	}
}

func TestDecodeToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"access_token":"a","refresh_token":"r","token_type":"Bearer"}`), 0o600); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(path)
	tok, err := DecodeToken(b)
	if err != nil {
		t.Fatalf("DecodeToken() error = %v", err)
	}
	if tok.RefreshToken != "r" {
		t.Errorf("RefreshToken = %q, want r", tok.RefreshToken)
	}

	if _, err := DecodeToken([]byte(`{}`)); err == nil {
		t.Error("DecodeToken({}) should fail")
	}
}

func TestReportValues(t *testing.T) {
	id := uuid.New()
	report := core.TotalsReport{
		Kind: core.ReportByCategory,
		Rows: []core.TotalsRow{{
			ID:           id,
			Label:        "Alimentação",
			TotalIncome:  decimal.Zero,
			TotalExpense: decimal.RequireFromString("166.30"),
			Balance:      decimal.RequireFromString("-166.30"),
		}},
		GrandTotal: core.GrandTotal{
			TotalIncome:  decimal.RequireFromString("3000"),
			TotalExpense: decimal.RequireFromString("166.30"),
			Balance:      decimal.RequireFromString("2833.70"),
		},
	}

	values := reportValues(report)
	if len(values) != 4 {
		t.Fatalf("len(values) = %d, want 4", len(values))
	}
	if values[0][1] != "Descrição" {
		t.Errorf("header label = %v, want Descrição", values[0][1])
	}
	if values[1][0] != id.String() || values[1][4] != -166.30 {
		t.Errorf("row = %v", values[1])
	}
	if len(values[2]) != 0 {
		t.Errorf("separator row = %v, want empty", values[2])
	}
	if values[3][1] != "Total Geral" || values[3][4] != 2833.70 {
		t.Errorf("grand total row = %v", values[3])
	}
}

func TestSheetTitle(t *testing.T) {
	if got := sheetTitle("Totais", core.ReportByPerson); got != "Totais - Pessoas" {
		t.Errorf("sheetTitle(person) = %q", got)
	}
	if got := sheetTitle("Totais", core.ReportByCategory); got != "Totais - Categorias" {
		t.Errorf("sheetTitle(category) = %q", got)
	}
}
