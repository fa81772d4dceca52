package game

import (
	"testing"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func fixedFillers(earnings ...string) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, len(earnings))
	for i, e := range earnings {
		entries[i] = model.LeaderboardEntry{
			Rank:     i + 1,
			Name:     fillerNames[i%len(fillerNames)],
			Earnings: decimal.RequireFromString(e),
		}
	}
	return entries
}

func assertBoardInvariants(t *testing.T, board []model.LeaderboardEntry) {
	t.Helper()

	assert.Len(t, board, LeaderboardSize)
	for i, e := range board {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.True(t, board[i-1].Earnings.GreaterThanOrEqual(e.Earnings),
				"board not sorted at index %d", i)
		}
	}
}

func TestGenerateFillers(t *testing.T) {
	board := GenerateFillers(&stubRand{draws: []float64{0.9, 0.1, 0.5, 0.3, 0.7, 0.2, 0.8, 0.4, 0.6, 0.05}})

	assertBoardInvariants(t, board)
	for _, e := range board {
		assert.True(t, e.Earnings.GreaterThanOrEqual(decimal.NewFromInt(fillerEarningsMin)))
		assert.True(t, e.Earnings.LessThan(decimal.NewFromInt(fillerEarningsMin+fillerEarningsSpan)))
		assert.Contains(t, fillerNames, e.Name)
	}
}

func TestBuildLeaderboard(t *testing.T) {
	fillers := fixedFillers("480", "450", "400", "350", "300", "250", "200", "180", "150", "120")

	t.Run("viewer slots in above the first smaller entry", func(t *testing.T) {
		board := BuildLeaderboard(fillers, "miner42", decimal.RequireFromString("320.50"))

		assertBoardInvariants(t, board)
		assert.Equal(t, "miner42", board[4].Name)
		assert.Equal(t, 5, board[4].Rank)
		// Lowest filler dropped, not the board size.
		assert.Equal(t, "150", board[len(board)-1].Earnings.String())
	})

	t.Run("viewer above everyone takes rank 1", func(t *testing.T) {
		board := BuildLeaderboard(fillers, "whale", decimal.NewFromInt(1000))

		assertBoardInvariants(t, board)
		assert.Equal(t, "whale", board[0].Name)
		assert.Equal(t, 1, board[0].Rank)
	})

	t.Run("viewer below everyone is left off", func(t *testing.T) {
		board := BuildLeaderboard(fillers, "rookie", decimal.RequireFromString("5.25"))

		assertBoardInvariants(t, board)
		for _, e := range board {
			assert.NotEqual(t, "rookie", e.Name)
		}
	})

	t.Run("zero balance viewer sees plain fillers", func(t *testing.T) {
		board := BuildLeaderboard(fillers, "fresh", decimal.Zero)

		assertBoardInvariants(t, board)
		for _, e := range board {
			assert.NotEqual(t, "fresh", e.Name)
		}
	})

	t.Run("anonymous viewer sees plain fillers", func(t *testing.T) {
		board := BuildLeaderboard(fillers, "", decimal.NewFromInt(999))

		assertBoardInvariants(t, board)
	})

	t.Run("fillers are not mutated", func(t *testing.T) {
		BuildLeaderboard(fillers, "miner42", decimal.NewFromInt(999))

		assert.Equal(t, "480", fillers[0].Earnings.String())
		assert.Len(t, fillers, LeaderboardSize)
	})

	t.Run("two viewers can see different boards", func(t *testing.T) {
		a := BuildLeaderboard(fillers, "alice", decimal.NewFromInt(460))
		b := BuildLeaderboard(fillers, "bob", decimal.NewFromInt(130))

		assert.Equal(t, "alice", a[1].Name)
		assert.Equal(t, "bob", b[9].Name)
		assert.NotEqual(t, a, b)
	})
}
