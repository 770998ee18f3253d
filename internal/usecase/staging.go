package usecase

import "github.com/iho/portledger/internal/domain"

// StagedRow holds the raw text of one transaction awaiting normalization.
type StagedRow struct {
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

// StagingSession is the holding area of one in-flight import. Every import
// owns exactly one session; its contents are replaced wholesale, never merged.
//
// A session is not safe for concurrent use and the importer does not
// serialize imports against each other.
type StagingSession struct {
	ID         string
	batchID    int64
	staged     []StagedRow
	normalized []NormalizedRow
}

// NewStagingSession creates an empty session identified by id.
func NewStagingSession(id string) *StagingSession {
	return &StagingSession{ID: id}
}

// Replace drops whatever the session held and stages rows for batchID.
func (s *StagingSession) Replace(batchID int64, rows []StagedRow) {
	s.batchID = batchID
	s.staged = make([]StagedRow, len(rows))
	copy(s.staged, rows)
	s.normalized = nil
}

// Normalize runs the field normalizer over every staged row.
func (s *StagingSession) Normalize() []NormalizedRow {
	s.normalized = make([]NormalizedRow, len(s.staged))
	for i, row := range s.staged {
		s.normalized[i] = NormalizeRow(row)
	}
	return s.normalized
}

// BatchID returns the batch the staged rows belong to.
func (s *StagingSession) BatchID() int64 {
	return s.batchID
}

// Len returns the number of staged rows.
func (s *StagingSession) Len() int {
	return len(s.staged)
}

// Normalized returns the rows produced by the last Normalize call.
func (s *StagingSession) Normalized() []NormalizedRow {
	return s.normalized
}

// PortfolioNames returns the distinct normalized portfolio names in first-seen order.
func (s *StagingSession) PortfolioNames() []string {
	seen := make(map[string]bool)

	var names []string
	for _, row := range s.normalized {
		if !seen[row.PortfolioName] {
			seen[row.PortfolioName] = true
			names = append(names, row.PortfolioName)
		}
	}

	return names
}

// Txns converts the normalized rows into ledger transactions. portfolioIDs maps
// names to resolved ids; rows whose name is absent are reported by position.
func (s *StagingSession) Txns(portfolioIDs map[string]int64) ([]*domain.Txn, []int) {
	txns := make([]*domain.Txn, 0, len(s.normalized))

	var unresolved []int
	for i, row := range s.normalized {
		id, ok := portfolioIDs[row.PortfolioName]
		if !ok {
			unresolved = append(unresolved, i+1)
			continue
		}
		txns = append(txns, row.Txn(id, s.batchID))
	}

	return txns, unresolved
}
