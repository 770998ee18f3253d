package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/portledger/internal/usecase"
)

func TestStagingSession_ReplaceDropsPreviousRows(t *testing.T) {
	t.Parallel()

	s := usecase.NewStagingSession("s1")
	s.Replace(1, []usecase.StagedRow{validRow(), validRow(), validRow()})
	s.Normalize()
	require.Equal(t, 3, s.Len())

	s.Replace(2, []usecase.StagedRow{validRow()})

	assert.Equal(t, int64(2), s.BatchID())
	assert.Equal(t, 1, s.Len())
	assert.Nil(t, s.Normalized())
}

func TestStagingSession_ReplaceCopiesInput(t *testing.T) {
	t.Parallel()

	rows := []usecase.StagedRow{validRow()}
	s := usecase.NewStagingSession("s1")
	s.Replace(1, rows)
	rows[0].PortfolioName = "changed"

	normalized := s.Normalize()
	assert.Equal(t, "test 1", normalized[0].PortfolioName)
}

func TestStagingSession_PortfolioNames(t *testing.T) {
	t.Parallel()

	a := validRow()
	a.PortfolioName = " b "
	b := validRow()
	b.PortfolioName = "a"
	c := validRow()
	c.PortfolioName = "b"

	s := usecase.NewStagingSession("s1")
	s.Replace(1, []usecase.StagedRow{a, b, c})
	s.Normalize()

	assert.Equal(t, []string{"b", "a"}, s.PortfolioNames())
}

func TestStagingSession_Txns(t *testing.T) {
	t.Parallel()

	a := validRow()
	a.PortfolioName = "known"
	b := validRow()
	b.PortfolioName = "unknown"

	s := usecase.NewStagingSession("s1")
	s.Replace(9, []usecase.StagedRow{a, b, a})
	s.Normalize()

	txns, unresolved := s.Txns(map[string]int64{"known": 4})

	require.Len(t, txns, 2)
	for _, txn := range txns {
		assert.Equal(t, int64(4), txn.PortfolioID)
		assert.Equal(t, int64(9), txn.BatchID)
	}
	assert.Equal(t, []int{2}, unresolved)
}
