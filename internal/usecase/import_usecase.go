package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/domain"
)

// ImportConfig holds the collaborators of an ImportUseCase.
type ImportConfig struct {
	TxManager     TransactionManager
	BatchRepo     ImportBatchRepository
	PortfolioRepo PortfolioRepository
	TxnRepo       TxnRepository
	Sequences     SequenceRepository
	IDGen         IDGenerator
	Reader        DelimitedReader
	Cache         Cache         // optional, invalidated for every affected portfolio
	Metrics       ImportMetrics // optional
	Logger        *zerolog.Logger
	Suite         ValidationSuite  // defaults to DefaultValidationSuite
	Clock         func() time.Time // defaults to time.Now

	// DefaultBaseCcy is the base currency of portfolios created by an import.
	DefaultBaseCcy string
}

// ImportUseCase runs the staging, normalization, validation and commit
// pipeline for manual entries and delimited files.
type ImportUseCase struct {
	txManager TransactionManager
	batchRepo ImportBatchRepository
	txnRepo   TxnRepository
	sequences SequenceRepository
	resolver  *PortfolioResolver
	idGen     IDGenerator
	reader    DelimitedReader
	cache     Cache
	metrics   ImportMetrics
	logger    zerolog.Logger
	suite     ValidationSuite
	clock     func() time.Time
}

// NewImportUseCase creates a new ImportUseCase.
func NewImportUseCase(cfg ImportConfig) *ImportUseCase {
	if cfg.Suite == nil {
		cfg.Suite = DefaultValidationSuite()
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &ImportUseCase{
		txManager: cfg.TxManager,
		batchRepo: cfg.BatchRepo,
		txnRepo:   cfg.TxnRepo,
		sequences: cfg.Sequences,
		resolver:  NewPortfolioResolver(cfg.PortfolioRepo, cfg.Sequences, cfg.DefaultBaseCcy),
		idGen:     cfg.IDGen,
		reader:    cfg.Reader,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
		logger:    logger.With().Str("component", "importer").Logger(),
		suite:     cfg.Suite,
		clock:     cfg.Clock,
	}
}

// ImportManual records a single manually entered transaction as its own batch.
func (uc *ImportUseCase) ImportManual(ctx context.Context, entry ManualEntry) (*domain.ImportSummary, error) {
	return uc.Run(ctx, NewManualSource(entry))
}

// ImportFile imports every row of the delimited file at path as one batch.
func (uc *ImportUseCase) ImportFile(ctx context.Context, path string, delimiter rune) (*domain.ImportSummary, error) {
	return uc.Run(ctx, NewFileSource(uc.reader, path, delimiter))
}

// ImportStream imports a delimited stream, such as an uploaded file, as one batch.
func (uc *ImportUseCase) ImportStream(ctx context.Context, name string, r io.Reader, delimiter rune) (*domain.ImportSummary, error) {
	return uc.Run(ctx, NewStreamSource(uc.reader, name, r, delimiter))
}

// Run executes the import pipeline for src. The ledger is either fully
// updated or left untouched: any failure after the batch is allocated deletes
// the batch row before the error is returned.
func (uc *ImportUseCase) Run(ctx context.Context, src RowSource) (*domain.ImportSummary, error) {
	start := time.Now()
	batchType := src.BatchType()

	// 0. Read the input; I/O and schema errors never allocate a batch
	rows, err := src.Rows(ctx)
	if err != nil {
		uc.observeAborted(batchType, err)
		return nil, err
	}
	if len(rows) == 0 {
		uc.observeAborted(batchType, domain.ErrEmptyImport)
		return nil, domain.ErrEmptyImport
	}

	// 1. Allocate the batch
	batch, err := uc.allocateBatch(ctx, batchType)
	if err != nil {
		uc.observeAborted(batchType, err)
		return nil, err
	}

	session := NewStagingSession(uc.idGen.Generate())
	log := uc.logger.With().
		Int64("batch_id", batch.ID).
		Str("batch_type", string(batchType)).
		Str("session", session.ID).
		Logger()

	summary, err := uc.stageAndCommit(ctx, log, session, batch, rows)
	if err != nil {
		// Rollback must complete even when ctx is already cancelled.
		if delErr := uc.batchRepo.Delete(context.WithoutCancel(ctx), batch.ID); delErr != nil {
			err = errors.Join(err, fmt.Errorf("delete batch %d: %w", batch.ID, delErr))
		}
		log.Debug().Err(err).Msg("batch aborted")
		uc.observeAborted(batchType, err)
		return nil, err
	}

	uc.invalidatePortfolios(ctx, summary.PortfoliosAffected)

	created := 0
	for _, p := range summary.PortfoliosAffected {
		if p.Created {
			created++
		}
	}
	if uc.metrics != nil {
		uc.metrics.ObserveCommitted(batchType, summary.InsertedRowCount, created, time.Since(start))
	}

	log.Info().
		Int64("inserted_rows", summary.InsertedRowCount).
		Int("portfolios", len(summary.PortfoliosAffected)).
		Int("portfolios_created", created).
		Msg("batch committed")

	return summary, nil
}

func (uc *ImportUseCase) allocateBatch(ctx context.Context, batchType domain.BatchType) (*domain.ImportBatch, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	id, err := uc.sequences.Next(ctx, tx, SequenceImportBatch, 1)
	if err != nil {
		return nil, fmt.Errorf("next batch id: %w", err)
	}

	// Postgres keeps microseconds; truncating keeps the returned value canonical.
	importTime := uc.clock().UTC().Truncate(time.Microsecond)

	batch := &domain.ImportBatch{
		ID:         id,
		Type:       batchType,
		ImportTime: importTime,
	}

	if err := uc.batchRepo.Create(ctx, tx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return batch, nil
}

func (uc *ImportUseCase) stageAndCommit(
	ctx context.Context,
	log zerolog.Logger,
	session *StagingSession,
	batch *domain.ImportBatch,
	rows []StagedRow,
) (*domain.ImportSummary, error) {
	// 2. Stage
	session.Replace(batch.ID, rows)
	log.Debug().Int("rows", session.Len()).Msg("rows staged")

	// 3. Normalize
	normalized := session.Normalize()

	// 4. Validate
	if err := uc.suite.Validate(normalized); err != nil {
		return nil, err
	}
	log.Debug().Msg("rows validated")

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 5. Resolve every distinct portfolio
	names := session.PortfolioNames()
	outcomes := make([]domain.PortfolioImportOutcome, 0, len(names))
	portfolioIDs := make(map[string]int64, len(names))
	for _, name := range names {
		outcome, err := uc.resolver.Resolve(ctx, tx, name, batch.ID, batch.ImportTime)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
		portfolioIDs[name] = outcome.PortfolioID
	}
	log.Debug().Int("portfolios", len(outcomes)).Msg("portfolios resolved")

	// 6. Commit
	txns, unresolved := session.Txns(portfolioIDs)
	if len(unresolved) > 0 {
		return nil, &domain.ValidationError{
			Check:      domain.CheckUnresolvedPortfolio,
			Violations: len(unresolved),
			Rows:       unresolved,
		}
	}

	first, err := uc.sequences.Next(ctx, tx, SequenceTxn, int64(len(txns)))
	if err != nil {
		return nil, fmt.Errorf("next txn id: %w", err)
	}
	for i, txn := range txns {
		txn.ID = first + int64(i)
	}

	inserted, err := uc.txnRepo.InsertBatch(ctx, tx, txns)
	if err != nil {
		return nil, fmt.Errorf("insert transactions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &domain.ImportSummary{
		BatchID:            batch.ID,
		BatchType:          batch.Type,
		InsertedRowCount:   inserted,
		PortfoliosAffected: outcomes,
	}, nil
}

// ListBatches lists the most recent import batches.
func (uc *ImportUseCase) ListBatches(ctx context.Context, limit int) ([]*domain.ImportBatch, error) {
	return uc.batchRepo.List(ctx, domain.ValidatePagination(limit))
}

// GetBatch retrieves an import batch by id.
func (uc *ImportUseCase) GetBatch(ctx context.Context, id int64) (*domain.ImportBatch, error) {
	return uc.batchRepo.GetByID(ctx, id)
}

// CountBatchTxns returns how many transactions the batch committed.
func (uc *ImportUseCase) CountBatchTxns(ctx context.Context, id int64) (int64, error) {
	return uc.txnRepo.CountByBatch(ctx, id)
}

func (uc *ImportUseCase) invalidatePortfolios(ctx context.Context, outcomes []domain.PortfolioImportOutcome) {
	if uc.cache == nil {
		return
	}
	for _, p := range outcomes {
		if err := uc.cache.Delete(ctx, portfolioCacheKey(p.PortfolioName)); err != nil {
			uc.logger.Warn().Err(err).Str("portfolio", p.PortfolioName).Msg("failed to invalidate cached portfolio")
		}
	}
}

func (uc *ImportUseCase) observeAborted(batchType domain.BatchType, err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.ObserveAborted(batchType, abortReason(err))
}

func abortReason(err error) string {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return string(verr.Check)
	case errors.Is(err, domain.ErrSchemaMismatch):
		return "schema"
	case errors.Is(err, domain.ErrEmptyImport):
		return "empty"
	default:
		return "error"
	}
}
