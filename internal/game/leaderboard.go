package game

import (
	"sort"

	"crypto_miner_webapp/internal/model"

	"github.com/shopspring/decimal"
)

// LeaderboardSize is the fixed number of rows on the board.
const LeaderboardSize = 10

const (
	fillerEarningsMin  = 100
	fillerEarningsSpan = 400
)

var fillerNames = []string{
	"CryptoKing", "BitMaster", "CoinHunter", "MinerPro", "BlockchainGuru",
	"HashPower", "TokenMiner", "DigiGold", "CryptoNinja", "BitLord",
	"MinerElite", "CoinMaster", "CryptoWhale",
}

// GenerateFillers produces the synthetic board that keeps the leaderboard
// populated even with few real users: ten entries with plausible earnings,
// sorted descending.
func GenerateFillers(rng Rand) []model.LeaderboardEntry {
	entries := make([]model.LeaderboardEntry, LeaderboardSize)
	for i := range entries {
		name := fillerNames[int(rng.Float64()*float64(len(fillerNames)))%len(fillerNames)]
		earnings := decimal.NewFromFloat(rng.Float64()*fillerEarningsSpan + fillerEarningsMin).Round(2)
		entries[i] = model.LeaderboardEntry{Name: name, Earnings: earnings}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Earnings.GreaterThan(entries[j].Earnings)
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}

// BuildLeaderboard blends the viewer into a copy of the filler board. The
// viewer is slotted before the first entry with strictly smaller earnings,
// dropping the lowest row to hold the board at ten. A viewer with no
// balance or no name sees the fillers untouched. The result is
// per-viewer: two users looking at the same moment can see different
// boards.
func BuildLeaderboard(fillers []model.LeaderboardEntry, viewerName string, viewerBalance decimal.Decimal) []model.LeaderboardEntry {
	board := make([]model.LeaderboardEntry, len(fillers))
	copy(board, fillers)

	if viewerName == "" || !viewerBalance.GreaterThan(decimal.Zero) {
		return board
	}

	viewer := model.LeaderboardEntry{Name: viewerName, Earnings: viewerBalance}

	pos := -1
	for i, e := range board {
		if e.Earnings.LessThan(viewerBalance) {
			pos = i
			break
		}
	}

	switch {
	case pos != -1:
		board = append(board[:pos], append([]model.LeaderboardEntry{viewer}, board[pos:len(board)-1]...)...)
	case len(board) > 0 && viewerBalance.GreaterThan(board[len(board)-1].Earnings):
		board[len(board)-1] = viewer
	}

	for i := range board {
		board[i].Rank = i + 1
	}

	return board
}
