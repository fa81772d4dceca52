package service

import (
	"context"
	"testing"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/internal/service/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// cyclingRand walks a fixed sequence so filler generation is repeatable.
type cyclingRand struct {
	seq []float64
	i   int
}

func (r *cyclingRand) Float64() float64 {
	v := r.seq[r.i%len(r.seq)]
	r.i++
	return v
}

func TestLeaderboardService_Board(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	repo.On("GetUserByID", mock.Anything, int64(1)).Return(&model.UserAccount{
		ID: 1, Username: "miner42", Balance: decimal.NewFromInt(100000),
	}, nil)

	svc := NewLeaderboardService(repo, &cyclingRand{seq: []float64{0.9, 0.5, 0.1, 0.7, 0.3}})

	board, err := svc.Board(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, board, game.LeaderboardSize)

	// A balance far above the filler range always tops the board.
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "miner42", board[0].Name)
	for i := 1; i < len(board); i++ {
		assert.Equal(t, i+1, board[i].Rank)
		assert.True(t, board[i-1].Earnings.GreaterThanOrEqual(board[i].Earnings))
	}
}

func TestLeaderboardService_Board_AnonymousViewer(t *testing.T) {
	svc := NewLeaderboardService(&mocks.MockUserRepository{}, &cyclingRand{seq: []float64{0.4, 0.8}})

	board, err := svc.Board(context.Background(), 0)
	assert.NoError(t, err)
	assert.Len(t, board, game.LeaderboardSize)
	for _, e := range board {
		assert.NotEqual(t, "miner42", e.Name)
	}
}

func TestLeaderboardService_Board_UnknownViewer(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	repo.On("GetUserByID", mock.Anything, int64(99)).Return(nil, repository.ErrNotFound)

	svc := NewLeaderboardService(repo, &cyclingRand{seq: []float64{0.5}})

	_, err := svc.Board(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLeaderboardService_RefreshInvokesHook(t *testing.T) {
	svc := NewLeaderboardService(&mocks.MockUserRepository{}, &cyclingRand{seq: []float64{0.2, 0.6}})

	var got []model.LeaderboardEntry
	svc.OnRefresh(func(fillers []model.LeaderboardEntry) { got = fillers })

	fillers := svc.Refresh()
	assert.Equal(t, fillers, got)
	assert.Equal(t, fillers, svc.Fillers())
}
