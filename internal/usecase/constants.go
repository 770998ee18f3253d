package usecase

import "time"

const (
	// Sequence names, one per id-bearing table.
	SequenceImportBatch = "import_batch"
	SequencePortfolio   = "portfolio"
	SequenceTxn         = "txn"

	// DefaultDelimiter separates columns of an import file.
	DefaultDelimiter = ','

	// PortfolioCacheTTL is how long a portfolio lookup stays cached.
	PortfolioCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// RequiredColumns must all be present in the header of an import file.
var RequiredColumns = []string{
	"portfolio_name",
	"time_stamp",
	"txn_type",
	"asset_id",
	"qty",
	"price",
	"ccy",
	"cash_amt",
	"fee_amt",
}

func portfolioCacheKey(name string) string {
	return "portfolio:name:" + name
}
