package api

import (
	"net/http"
	"sync"

	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/pkg/auth"
	"crypto_miner_webapp/pkg/logger"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type FeedMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type BalanceUpdate struct {
	Balance         string `json:"balance"`
	Earning         string `json:"earning"`
	ClicksRemaining int    `json:"clicks_remaining"`
}

type feedConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (fc *feedConn) send(msg FeedMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.conn.WriteMessage(websocket.TextMessage, payload)
}

// BalanceFeed pushes balance changes to their owner and leaderboard
// refreshes to everyone over long-lived websocket connections. A user may
// hold several connections at once (multiple tabs).
type BalanceFeed struct {
	mu    sync.RWMutex
	conns map[int64]map[*feedConn]struct{}
}

func NewBalanceFeed() *BalanceFeed {
	return &BalanceFeed{
		conns: map[int64]map[*feedConn]struct{}{},
	}
}

func NewFeedRoutes(handler *gin.RouterGroup, feed *BalanceFeed, a *auth.JWTAuth) {
	h := handler.Group("/ws")
	h.Use(a.AuthMiddleware())

	h.GET("", feed.handleWebSocket)
}

func (f *BalanceFeed) handleWebSocket(c *gin.Context) {
	log := logger.Logger()

	userID, ok := auth.UserID(c)
	if !ok {
		log.Error("user id not found in context")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	fc := &feedConn{conn: conn}
	f.add(userID, fc)

	go f.readLoop(userID, fc)
}

// readLoop drains inbound frames so pings and closes are processed. The
// feed is push-only and ignores message contents.
func (f *BalanceFeed) readLoop(userID int64, fc *feedConn) {
	defer func() {
		fc.conn.Close()
		f.remove(userID, fc)
	}()

	for {
		if _, _, err := fc.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Logger().Debug("websocket closed unexpectedly",
					zap.Int64("user_id", userID), zap.Error(err))
			}
			return
		}
	}
}

func (f *BalanceFeed) add(userID int64, fc *feedConn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conns[userID] == nil {
		f.conns[userID] = map[*feedConn]struct{}{}
	}
	f.conns[userID][fc] = struct{}{}
}

func (f *BalanceFeed) remove(userID int64, fc *feedConn) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns[userID], fc)
	if len(f.conns[userID]) == 0 {
		delete(f.conns, userID)
	}
}

// PushBalance notifies the user's open connections about a balance change.
func (f *BalanceFeed) PushBalance(userID int64, balance, earning decimal.Decimal, clicksRemaining int) {
	msg := FeedMessage{
		Type: "balance_update",
		Data: BalanceUpdate{
			Balance:         balance.StringFixed(2),
			Earning:         earning.StringFixed(2),
			ClicksRemaining: clicksRemaining,
		},
	}

	f.mu.RLock()
	targets := make([]*feedConn, 0, len(f.conns[userID]))
	for fc := range f.conns[userID] {
		targets = append(targets, fc)
	}
	f.mu.RUnlock()

	for _, fc := range targets {
		if err := fc.send(msg); err != nil {
			logger.Logger().Debug("failed to push balance update",
				zap.Int64("user_id", userID), zap.Error(err))
		}
	}
}

// BroadcastLeaderboard sends the fresh filler board to every connection.
func (f *BalanceFeed) BroadcastLeaderboard(entries []model.LeaderboardEntry) {
	msg := FeedMessage{
		Type: "leaderboard_refresh",
		Data: newLeaderboardResponse(entries),
	}

	f.mu.RLock()
	targets := make([]*feedConn, 0)
	for _, set := range f.conns {
		for fc := range set {
			targets = append(targets, fc)
		}
	}
	f.mu.RUnlock()

	for _, fc := range targets {
		if err := fc.send(msg); err != nil {
			logger.Logger().Debug("failed to broadcast leaderboard", zap.Error(err))
		}
	}
}
