package service

import (
	"context"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrValidation         = errors.New("invalid input")
	ErrDuplicate          = errors.New("username or phone already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSkinNotFound       = errors.New("skin not found")
	ErrQuotaExhausted     = errors.New("no clicks remaining today")
	ErrTooFast            = errors.New("clicks submitted too fast")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrPremiumRequired    = errors.New("premium subscription required")
	ErrInvalidCredentials = errors.New("invalid phone or password")
	ErrSkinNotOwned       = errors.New("skin not owned")
	ErrPaymentNotFound    = errors.New("payment not found or already settled")
)

type Service struct {
	*UserService
	*MiningService
	*PremiumService
	*SkinService
	*LeaderboardService
}

func NewService(
	userService *UserService,
	miningService *MiningService,
	premiumService *PremiumService,
	skinService *SkinService,
	leaderboardService *LeaderboardService,
) *Service {
	return &Service{
		UserService:        userService,
		MiningService:      miningService,
		PremiumService:     premiumService,
		SkinService:        skinService,
		LeaderboardService: leaderboardService,
	}
}

type UserServiceI interface {
	Register(ctx context.Context, in RegisterInput) (*model.UserAccount, error)
	Authenticate(ctx context.Context, phone, password string) (*model.UserAccount, error)
	GetProfile(ctx context.Context, userID int64) (*model.UserAccount, error)
}

type MiningServiceI interface {
	Mine(ctx context.Context, userID int64) (*MineResult, error)
}

type PremiumServiceI interface {
	Plans() []game.Plan
	Activate(ctx context.Context, userID int64, months int, paymentMethod string) (*model.UserAccount, error)
	Payments(ctx context.Context, userID int64) ([]*model.Payment, error)
	ConfirmPayment(ctx context.Context, paymentID int64, transactionID string) error
	SweepExpired(ctx context.Context) (int64, error)
}

type SkinServiceI interface {
	List(ctx context.Context) ([]*model.Skin, error)
	ListOwned(ctx context.Context, userID int64) ([]*model.Skin, error)
	ListOwnedIDs(ctx context.Context, userID int64) ([]string, error)
	Purchase(ctx context.Context, userID int64, skinID string) (*model.UserAccount, error)
	Select(ctx context.Context, userID int64, skinID string) (*model.UserAccount, error)
}

type LeaderboardServiceI interface {
	Board(ctx context.Context, viewerID int64) ([]model.LeaderboardEntry, error)
}

type LedgerServiceI interface {
	Ledger(ctx context.Context) (*model.AdminLedger, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *model.UserAccount) error
	GetUserByID(ctx context.Context, id int64) (*model.UserAccount, error)
	GetUserByPhone(ctx context.Context, phone string) (*model.UserAccount, error)
	GetUserByReferralCode(ctx context.Context, code string) (*model.UserAccount, error)
	IncrementReferrals(ctx context.Context, id int64) error
	MutateUser(ctx context.Context, id int64, fn func(u *model.UserAccount, selected *model.Skin) (*model.UserMutation, error)) (*model.UserAccount, error)
	SweepExpiredPremium(ctx context.Context, now time.Time) (int64, error)
}

type SkinRepository interface {
	GetSkin(ctx context.Context, skinID string) (*model.Skin, error)
	ListSkins(ctx context.Context) ([]*model.Skin, error)
	ListUserSkins(ctx context.Context, userID int64) ([]*model.Skin, error)
	GetOwnedSkinIDs(ctx context.Context, userID int64) ([]string, error)
}

type PaymentRepository interface {
	UpdatePaymentStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, transactionID *string) error
	ListUserPayments(ctx context.Context, userID int64) ([]*model.Payment, error)
}

type LedgerRepository interface {
	GetLedger(ctx context.Context) (*model.AdminLedger, error)
}

type MineResult struct {
	Earning         decimal.Decimal
	AdminCut        decimal.Decimal
	Balance         decimal.Decimal
	ClicksRemaining int
}
