package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/portledger/internal/domain"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrPortfolioNotFound) || errors.Is(err, domain.ErrImportBatchNotFound)
}

func (c *cli) printSummary(w io.Writer, s *domain.ImportSummary) error {
	if c.asJSON {
		return printJSON(w, s)
	}

	fmt.Fprintf(w, "batch %d (%s): %d transaction(s) inserted\n", s.BatchID, s.BatchType, s.InsertedRowCount)
	for _, p := range s.PortfoliosAffected {
		verb := "updated"
		if p.Created {
			verb = "created"
		}
		fmt.Fprintf(w, "  %s (id %d) %s\n", p.PortfolioName, p.PortfolioID, verb)
	}
	return nil
}

func printPortfolios(w io.Writer, portfolios []*domain.Portfolio) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tBASE\tCREATED\tUPDATED")
	for _, p := range portfolios {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.BaseCcy, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	}
	return tw.Flush()
}

func printPositions(w io.Writer, positions []*domain.Position) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tQTY")
	for _, p := range positions {
		fmt.Fprintf(tw, "%s\t%s\n", p.AssetID, p.Qty.String())
	}
	return tw.Flush()
}

func printTxns(w io.Writer, txns []*domain.Txn) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPORTFOLIO\tBATCH\tTIME\tTYPE\tASSET\tQTY\tPRICE\tCCY\tCASH\tFEE")
	for _, t := range txns {
		asset := ""
		if t.AssetID != nil {
			asset = *t.AssetID
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.PortfolioID, t.BatchID, formatTime(t.Timestamp), t.Type, asset,
			formatDecimal(t.Qty), formatDecimal(t.Price), t.Ccy, formatDecimal(t.CashAmt), formatDecimal(t.FeeAmt))
	}
	return tw.Flush()
}

func printBatches(w io.Writer, batches []*domain.ImportBatch) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tIMPORTED")
	for _, b := range batches {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", b.ID, b.Type, formatTime(b.ImportTime))
	}
	return tw.Flush()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.DateTime)
}

func formatDecimal(d *decimal.Decimal) string {
	if d == nil {
		return "-"
	}
	return d.String()
}
