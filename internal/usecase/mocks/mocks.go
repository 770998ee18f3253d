package mocks

import (
	"context"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/usecase"
)

// InMemoryLedger is a stateful stand-in for the ledger database. Begin takes a
// snapshot that Rollback restores unless the transaction was committed, so
// tests can observe the same all-or-nothing outcome Postgres gives.
type InMemoryLedger struct {
	mu         sync.Mutex
	batches    map[int64]*domain.ImportBatch
	portfolios map[int64]*domain.Portfolio
	txns       []*domain.Txn
	sequences  map[string]int64

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	Batches    *InMemoryImportBatchRepository
	Portfolios *InMemoryPortfolioRepository
	Txns       *InMemoryTxnRepository
	Positions  *InMemoryPositionRepository
	Sequences  *InMemorySequenceRepository
}

// NewInMemoryLedger creates an empty ledger with every sequence at zero.
func NewInMemoryLedger() *InMemoryLedger {
	l := &InMemoryLedger{
		batches:    make(map[int64]*domain.ImportBatch),
		portfolios: make(map[int64]*domain.Portfolio),
		sequences: map[string]int64{
			usecase.SequenceImportBatch: 0,
			usecase.SequencePortfolio:   0,
			usecase.SequenceTxn:         0,
		},
	}
	l.Batches = &InMemoryImportBatchRepository{ledger: l}
	l.Portfolios = &InMemoryPortfolioRepository{ledger: l}
	l.Txns = &InMemoryTxnRepository{ledger: l}
	l.Positions = &InMemoryPositionRepository{ledger: l}
	l.Sequences = &InMemorySequenceRepository{ledger: l}
	return l
}

type ledgerSnapshot struct {
	batches    map[int64]*domain.ImportBatch
	portfolios map[int64]*domain.Portfolio
	txns       []*domain.Txn
	sequences  map[string]int64
}

func (l *InMemoryLedger) snapshot() ledgerSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := ledgerSnapshot{
		batches:    make(map[int64]*domain.ImportBatch, len(l.batches)),
		portfolios: make(map[int64]*domain.Portfolio, len(l.portfolios)),
		txns:       make([]*domain.Txn, len(l.txns)),
		sequences:  make(map[string]int64, len(l.sequences)),
	}
	for id, b := range l.batches {
		cp := *b
		s.batches[id] = &cp
	}
	for id, p := range l.portfolios {
		cp := *p
		s.portfolios[id] = &cp
	}
	copy(s.txns, l.txns)
	for name, v := range l.sequences {
		s.sequences[name] = v
	}
	return s
}

func (l *InMemoryLedger) restore(s ledgerSnapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.batches = s.batches
	l.portfolios = s.portfolios
	l.txns = s.txns
	l.sequences = s.sequences
}

// Begin implements usecase.TransactionManager.
func (l *InMemoryLedger) Begin(ctx context.Context) (usecase.Transaction, error) {
	if l.BeginFunc != nil {
		return l.BeginFunc(ctx)
	}
	return &InMemoryTransaction{ledger: l, snap: l.snapshot()}, nil
}

// BatchList returns every stored batch ordered by id.
func (l *InMemoryLedger) BatchList() []*domain.ImportBatch {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.ImportBatch, 0, len(l.batches))
	for _, b := range l.batches {
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// PortfolioList returns every stored portfolio ordered by id.
func (l *InMemoryLedger) PortfolioList() []*domain.Portfolio {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.Portfolio, 0, len(l.portfolios))
	for _, p := range l.portfolios {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// TxnList returns every stored transaction in insertion order.
func (l *InMemoryLedger) TxnList() []*domain.Txn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.Txn, len(l.txns))
	copy(out, l.txns)
	return out
}

// InMemoryTransaction is a transaction over an InMemoryLedger.
type InMemoryTransaction struct {
	ledger    *InMemoryLedger
	snap      ledgerSnapshot
	committed bool
	done      bool

	CommitFunc func(ctx context.Context) error
}

func (t *InMemoryTransaction) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		if err := t.CommitFunc(ctx); err != nil {
			return err
		}
	}
	t.committed = true
	t.done = true
	return nil
}

func (t *InMemoryTransaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.ledger.restore(t.snap)
	return nil
}

// InMemoryImportBatchRepository implements usecase.ImportBatchRepository.
type InMemoryImportBatchRepository struct {
	ledger *InMemoryLedger

	CreateFunc func(ctx context.Context, tx usecase.Transaction, batch *domain.ImportBatch) error
	DeleteFunc func(ctx context.Context, id int64) error
}

func (r *InMemoryImportBatchRepository) Create(ctx context.Context, tx usecase.Transaction, batch *domain.ImportBatch) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, batch)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	cp := *batch
	r.ledger.batches[batch.ID] = &cp
	return nil
}

func (r *InMemoryImportBatchRepository) Delete(ctx context.Context, id int64) error {
	if r.DeleteFunc != nil {
		return r.DeleteFunc(ctx, id)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	delete(r.ledger.batches, id)
	return nil
}

func (r *InMemoryImportBatchRepository) GetByID(ctx context.Context, id int64) (*domain.ImportBatch, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	if b, ok := r.ledger.batches[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, domain.ErrImportBatchNotFound
}

func (r *InMemoryImportBatchRepository) List(ctx context.Context, limit int) ([]*domain.ImportBatch, error) {
	all := r.ledger.BatchList()
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// InMemoryPortfolioRepository implements usecase.PortfolioRepository.
type InMemoryPortfolioRepository struct {
	ledger *InMemoryLedger

	CreateFunc func(ctx context.Context, tx usecase.Transaction, portfolio *domain.Portfolio) error
	TouchFunc  func(ctx context.Context, tx usecase.Transaction, id int64, updatedAt time.Time) error
}

func (r *InMemoryPortfolioRepository) Create(ctx context.Context, tx usecase.Transaction, portfolio *domain.Portfolio) error {
	if r.CreateFunc != nil {
		return r.CreateFunc(ctx, tx, portfolio)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, p := range r.ledger.portfolios {
		if p.Name == portfolio.Name {
			return domain.ErrPortfolioNameConflict
		}
	}
	cp := *portfolio
	r.ledger.portfolios[portfolio.ID] = &cp
	return nil
}

func (r *InMemoryPortfolioRepository) GetByID(ctx context.Context, id int64) (*domain.Portfolio, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	if p, ok := r.ledger.portfolios[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPortfolioNotFound
}

func (r *InMemoryPortfolioRepository) GetByName(ctx context.Context, name string) (*domain.Portfolio, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, p := range r.ledger.portfolios {
		if p.Name == name {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPortfolioNotFound
}

func (r *InMemoryPortfolioRepository) GetByNameTx(ctx context.Context, tx usecase.Transaction, name string) (*domain.Portfolio, error) {
	return r.GetByName(ctx, name)
}

func (r *InMemoryPortfolioRepository) Touch(ctx context.Context, tx usecase.Transaction, id int64, updatedAt time.Time) error {
	if r.TouchFunc != nil {
		return r.TouchFunc(ctx, tx, id, updatedAt)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	p, ok := r.ledger.portfolios[id]
	if !ok {
		return domain.ErrPortfolioNotFound
	}
	p.UpdatedAt = updatedAt
	return nil
}

func (r *InMemoryPortfolioRepository) UpdateBaseCcy(ctx context.Context, tx usecase.Transaction, id int64, baseCcy string, updatedAt time.Time) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	p, ok := r.ledger.portfolios[id]
	if !ok {
		return domain.ErrPortfolioNotFound
	}
	p.BaseCcy = baseCcy
	p.UpdatedAt = updatedAt
	return nil
}

func (r *InMemoryPortfolioRepository) List(ctx context.Context, limit int) ([]*domain.Portfolio, error) {
	all := r.ledger.PortfolioList()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// InMemoryTxnRepository implements usecase.TxnRepository.
type InMemoryTxnRepository struct {
	ledger *InMemoryLedger

	InsertBatchFunc func(ctx context.Context, tx usecase.Transaction, txns []*domain.Txn) (int64, error)
}

func (r *InMemoryTxnRepository) InsertBatch(ctx context.Context, tx usecase.Transaction, txns []*domain.Txn) (int64, error) {
	if r.InsertBatchFunc != nil {
		return r.InsertBatchFunc(ctx, tx, txns)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, t := range txns {
		cp := *t
		r.ledger.txns = append(r.ledger.txns, &cp)
	}
	return int64(len(txns)), nil
}

func (r *InMemoryTxnRepository) List(ctx context.Context, filter domain.TxnFilter) ([]*domain.Txn, error) {
	var out []*domain.Txn
	for _, t := range r.ledger.TxnList() {
		if filter.PortfolioID != 0 && t.PortfolioID != filter.PortfolioID {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		if filter.AssetID != "" && (t.AssetID == nil || *t.AssetID != filter.AssetID) {
			continue
		}
		if filter.Day != nil {
			y1, m1, d1 := t.Timestamp.UTC().Date()
			y2, m2, d2 := filter.Day.Date()
			if y1 != y2 || m1 != m2 || d1 != d2 {
				continue
			}
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *InMemoryTxnRepository) CountByBatch(ctx context.Context, batchID int64) (int64, error) {
	var n int64
	for _, t := range r.ledger.TxnList() {
		if t.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

// InMemoryPositionRepository derives positions from stored transactions:
// buys add quantity, sells subtract it and zero positions are omitted.
type InMemoryPositionRepository struct {
	ledger *InMemoryLedger
}

func (r *InMemoryPositionRepository) ListByPortfolio(ctx context.Context, portfolioID int64) ([]*domain.Position, error) {
	sums := make(map[string]decimal.Decimal)
	for _, t := range r.ledger.TxnList() {
		if t.PortfolioID != portfolioID || t.AssetID == nil || t.Qty == nil {
			continue
		}
		switch t.Type {
		case domain.TxnTypeBuy:
			sums[*t.AssetID] = sums[*t.AssetID].Add(*t.Qty)
		case domain.TxnTypeSell:
			sums[*t.AssetID] = sums[*t.AssetID].Sub(*t.Qty)
		}
	}

	var out []*domain.Position
	for asset, qty := range sums {
		if qty.IsZero() {
			continue
		}
		out = append(out, &domain.Position{PortfolioID: portfolioID, AssetID: asset, Qty: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out, nil
}

// InMemorySequenceRepository implements usecase.SequenceRepository.
type InMemorySequenceRepository struct {
	ledger *InMemoryLedger

	NextFunc func(ctx context.Context, tx usecase.Transaction, name string, n int64) (int64, error)
}

func (r *InMemorySequenceRepository) Next(ctx context.Context, tx usecase.Transaction, name string, n int64) (int64, error) {
	if r.NextFunc != nil {
		return r.NextFunc(ctx, tx, name, n)
	}
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	last := r.ledger.sequences[name]
	r.ledger.sequences[name] = last + n
	return last + 1, nil
}

// CountingIDGenerator returns session-1, session-2 and so on.
type CountingIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func (g *CountingIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return "session-" + strconv.Itoa(g.counter)
}

// InMemoryCache implements usecase.Cache with a plain map; ttl is ignored.
type InMemoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{data: make(map[string][]byte)}
}

func (c *InMemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Has reports whether key is cached.
func (c *InMemoryCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

// InMemoryIdempotencyStore implements usecase.IdempotencyStore.
type InMemoryIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *InMemoryIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *InMemoryIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

// Release drops key so the request can be retried.
func (m *InMemoryIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// StaticReader implements usecase.DelimitedReader by returning canned rows.
type StaticReader struct {
	Header []string
	Rows   []map[string]string
	Err    error
}

func (s *StaticReader) Read(r io.Reader, delimiter rune) ([]string, []map[string]string, error) {
	return s.Header, s.Rows, s.Err
}
