package backend

import (
	"context"
	"fmt"

	"github.com/FriggD/controle-gastos-residenciais/internal/amqp"
	"github.com/FriggD/controle-gastos-residenciais/internal/config"
	"github.com/FriggD/controle-gastos-residenciais/internal/log"
	"github.com/FriggD/controle-gastos-residenciais/internal/sheets"
	gsheet "github.com/FriggD/controle-gastos-residenciais/internal/sheets/google"
	memsheet "github.com/FriggD/controle-gastos-residenciais/internal/sheets/memory"
)

// NewAMQPClient connects to the broker when AMQP_URL is set. It returns
// nil without error when messaging is disabled.
func NewAMQPClient(cfg *config.Config, logger *log.Logger) (*amqp.Client, error) {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP disabled, ledger events will not be published")
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect to AMQP: %w", err)
	}
	logger.Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client, nil
}

// NewReportExporter returns the Google Sheets exporter when a spreadsheet
// is configured and an in-memory one otherwise.
func NewReportExporter(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.ReportExporter, error) {
	if !cfg.SheetsEnabled() {
		logger.Warn("No spreadsheet configured, reports are exported in memory only")
		return memsheet.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Config{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetBase:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
		OAuthClientJSON:    cfg.GoogleOAuthClientJSON,
		OAuthClientFile:    cfg.GoogleOAuthClientFile,
		OAuthTokenJSON:     cfg.GoogleOAuthTokenJSON,
		OAuthTokenFile:     cfg.GoogleOAuthTokenFile,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets exporter: %w", err)
	}
	logger.Info("Initialized Google Sheets exporter", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	return client, nil
}
