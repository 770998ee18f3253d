package usecase

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/iho/portledger/internal/domain"
)

// RowSource produces the raw rows of one import.
type RowSource interface {
	BatchType() domain.BatchType
	// Rows reads the whole input. It runs before a batch is allocated, so
	// any error it returns leaves the ledger untouched.
	Rows(ctx context.Context) ([]StagedRow, error)
}

// ManualEntry is one transaction typed in by the user, as raw text.
type ManualEntry struct {
	PortfolioName string
	TimeStamp     string
	TxnType       string
	AssetID       string
	Qty           string
	Price         string
	Ccy           string
	CashAmt       string
	FeeAmt        string
}

// ManualSource stages a single manual entry.
type ManualSource struct {
	Entry ManualEntry
}

// NewManualSource creates a new ManualSource.
func NewManualSource(entry ManualEntry) *ManualSource {
	return &ManualSource{Entry: entry}
}

func (s *ManualSource) BatchType() domain.BatchType {
	return domain.BatchTypeManual
}

func (s *ManualSource) Rows(ctx context.Context) ([]StagedRow, error) {
	e := s.Entry
	return []StagedRow{{
		PortfolioName: e.PortfolioName,
		TimeStamp:     e.TimeStamp,
		TxnType:       e.TxnType,
		AssetID:       e.AssetID,
		Qty:           e.Qty,
		Price:         e.Price,
		Ccy:           e.Ccy,
		CashAmt:       e.CashAmt,
		FeeAmt:        e.FeeAmt,
	}}, nil
}

// DelimitedSource stages every row of a delimited stream.
type DelimitedSource struct {
	open      func() (io.ReadCloser, error)
	reader    DelimitedReader
	name      string
	delimiter rune
}

// NewFileSource reads the delimited file at path.
func NewFileSource(reader DelimitedReader, path string, delimiter rune) *DelimitedSource {
	return &DelimitedSource{
		reader:    reader,
		name:      path,
		delimiter: delimiter,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// NewStreamSource reads an already opened delimited stream, e.g. an upload.
func NewStreamSource(reader DelimitedReader, name string, r io.Reader, delimiter rune) *DelimitedSource {
	return &DelimitedSource{
		reader:    reader,
		name:      name,
		delimiter: delimiter,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(r), nil
		},
	}
}

func (s *DelimitedSource) BatchType() domain.BatchType {
	return domain.BatchTypeCSV
}

func (s *DelimitedSource) Rows(ctx context.Context) ([]StagedRow, error) {
	delimiter := s.delimiter
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}

	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.name, err)
	}
	defer f.Close()

	header, records, err := s.reader.Read(f, delimiter)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}

	if err := checkRequiredColumns(header); err != nil {
		return nil, err
	}

	rows := make([]StagedRow, len(records))
	for i, rec := range records {
		rows[i] = StagedRow{
			PortfolioName: rec["portfolio_name"],
			TimeStamp:     rec["time_stamp"],
			TxnType:       rec["txn_type"],
			AssetID:       rec["asset_id"],
			Qty:           rec["qty"],
			Price:         rec["price"],
			Ccy:           rec["ccy"],
			CashAmt:       rec["cash_amt"],
			FeeAmt:        rec["fee_amt"],
		}
	}

	return rows, nil
}

func checkRequiredColumns(header []string) error {
	present := make(map[string]bool, len(header))
	found := make([]string, 0, len(header))
	for _, col := range header {
		col = strings.TrimSpace(col)
		present[col] = true
		found = append(found, col)
	}

	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &domain.SchemaError{Missing: missing, Found: found}
	}

	return nil
}
