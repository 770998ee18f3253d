package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/iho/portledger/internal/domain"
	"github.com/iho/portledger/internal/infrastructure/postgres"
	"github.com/iho/portledger/internal/infrastructure/postgres/generated"
)

// TestDB provides a migrated test database connection.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB connects to TEST_DATABASE_URL and migrates it. The test is
// skipped when the variable is unset or -short is given.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	if err := postgres.RunMigrations(dbURL, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, dbURL, 4, 0)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)

	return db
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all ledger data and resets every id counter.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE txn, import_batch, portfolio, asset CASCADE;
		UPDATE id_sequence SET last_value = 0;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CountRows returns the number of rows in table.
func (db *TestDB) CountRows(ctx context.Context, table string) int64 {
	db.t.Helper()

	var n int64
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM "+pgx.Identifier{table}.Sanitize()).Scan(&n); err != nil {
		db.t.Fatalf("failed to count %s: %v", table, err)
	}
	return n
}

// CreateTestPortfolio inserts a portfolio, taking its id from the portfolio sequence.
func (db *TestDB) CreateTestPortfolio(ctx context.Context, name, baseCcy string) *domain.Portfolio {
	db.t.Helper()

	id, err := db.Queries.AdvanceSequence(ctx, generated.AdvanceSequenceParams{Name: "portfolio", N: 1})
	if err != nil {
		db.t.Fatalf("failed to reserve portfolio id: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	ts := pgtype.Timestamptz{Time: now, Valid: true}

	err = db.Queries.CreatePortfolio(ctx, generated.CreatePortfolioParams{
		ID:        id,
		Name:      name,
		BaseCcy:   baseCcy,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test portfolio: %v", err)
	}

	return &domain.Portfolio{
		ID:        id,
		Name:      name,
		BaseCcy:   baseCcy,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WriteFile writes lines joined by newlines to a file in a temporary directory.
func WriteFile(t *testing.T, name string, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
