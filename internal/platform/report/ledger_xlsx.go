// Package report renders a stock's transaction ledger as an XLSX workbook.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	stockentity "portfolio_ledger/internal/feature/stocks/domain/entity"
	"portfolio_ledger/internal/feature/transactions/domain/entity"
	"portfolio_ledger/internal/ledger"
	"portfolio_ledger/internal/shared/format"
)

// ContentType is the MIME type of the generated workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var header = []any{
	"Date", "Action", "Signal", "Price", "Investment", "Quantity",
	"Play Shares", "Hold Shares", "LBD", "TP", "Shares Type", "Profit",
}

type LedgerXLSX struct{}

func NewLedgerXLSX() *LedgerXLSX {
	return &LedgerXLSX{}
}

// Generate writes one sheet named after the stock symbol: a header, one row per
// transaction in the given order, then the reconstructed position and budget.
func (g *LedgerXLSX) Generate(ctx context.Context, stock *stockentity.Stock, txns []entity.Transaction, opts ledger.BudgetOptions) ([]byte, error) {
	op := "LedgerXLSX.Generate"
	slog.DebugContext(ctx, "Generate start", slog.String("op", op), slog.String("stock_id", stock.ID))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	sheet := SheetName(stock.Symbol)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "L1", headerStyle); err != nil {
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	for i := range txns {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := ledgerRow(&txns[i])
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	pos := ledger.ReconstructPosition(txns)
	budget := ledger.StockBudget(stock.Budget, txns, opts)
	summary := [][]any{
		{"Total Shares", pos.TotalShares()},
		{"Play Shares", pos.PlayShares},
		{"Hold Shares", pos.HoldShares},
		{"Realized Profit", pos.RealizedProfit},
		{"Budget", cellFloat(budget.Initial)},
		{"Remaining Budget", budget.Remaining},
	}
	start := len(txns) + 3
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, start+i)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to buffer", slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}
	slog.DebugContext(ctx, "Generate completed", slog.String("op", op), slog.Int("rows", len(txns)))
	return buf.Bytes(), nil
}

func ledgerRow(t *entity.Transaction) []any {
	return []any{
		t.Date.Format(entity.DateLayout),
		string(t.Action),
		format.Text(t.Signal, format.NotAvailable),
		cellFloat(t.Price),
		cellFloat(t.Investment),
		cellFloat(t.Quantity),
		cellFloat(t.PlayShares),
		cellFloat(t.HoldShares),
		cellFloat(t.LBD),
		cellFloat(t.TP),
		format.Text(t.SharesType, ""),
		cellFloat(t.Profit),
	}
}

// cellFloat keeps numbers numeric in the sheet and writes N/A for missing values.
func cellFloat(v *float64) any {
	if v == nil {
		return format.NotAvailable
	}
	return *v
}

// SheetName returns a valid worksheet name for a symbol.
func SheetName(symbol string) string {
	name := strings.NewReplacer(":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_").Replace(symbol)
	if name == "" {
		name = "Ledger"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
