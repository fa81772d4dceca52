package mocks

import (
	"context"
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock

	// User and Skin are the locked row handed to MutateUser closures;
	// Mutations collects the side effects those closures returned.
	User      *model.UserAccount
	Skin      *model.Skin
	Mutations []*model.UserMutation
}

func (m *MockUserRepository) CreateUser(ctx context.Context, u *model.UserAccount) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id int64) (*model.UserAccount, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*model.UserAccount); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByPhone(ctx context.Context, phone string) (*model.UserAccount, error) {
	args := m.Called(ctx, phone)
	if u, ok := args.Get(0).(*model.UserAccount); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetUserByReferralCode(ctx context.Context, code string) (*model.UserAccount, error) {
	args := m.Called(ctx, code)
	if u, ok := args.Get(0).(*model.UserAccount); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) IncrementReferrals(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MutateUser mimics the real repository: the closure runs against the
// stored User/Skin pair, its error aborts the call, and its mutation is
// recorded. A skin grant also lands on the stored user's OwnedSkinIDs,
// like the committed edge would. Expectations only stub the outer lookup.
func (m *MockUserRepository) MutateUser(
	ctx context.Context,
	id int64,
	fn func(u *model.UserAccount, selected *model.Skin) (*model.UserMutation, error),
) (*model.UserAccount, error) {
	args := m.Called(ctx, id)
	if err := args.Error(1); err != nil {
		return nil, err
	}

	mutation, err := fn(m.User, m.Skin)
	if err != nil {
		return nil, err
	}

	m.Mutations = append(m.Mutations, mutation)
	if mutation != nil && mutation.OwnSkin != nil {
		m.User.OwnedSkinIDs = append(m.User.OwnedSkinIDs, mutation.OwnSkin.SkinID)
	}
	return m.User, nil
}

func (m *MockUserRepository) SweepExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type MockSkinRepository struct {
	mock.Mock
}

func (m *MockSkinRepository) GetSkin(ctx context.Context, skinID string) (*model.Skin, error) {
	args := m.Called(ctx, skinID)
	if s, ok := args.Get(0).(*model.Skin); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSkinRepository) ListSkins(ctx context.Context) ([]*model.Skin, error) {
	args := m.Called(ctx)
	if s, ok := args.Get(0).([]*model.Skin); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSkinRepository) ListUserSkins(ctx context.Context, userID int64) ([]*model.Skin, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).([]*model.Skin); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSkinRepository) GetOwnedSkinIDs(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if ids, ok := args.Get(0).([]string); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) GetLedger(ctx context.Context) (*model.AdminLedger, error) {
	args := m.Called(ctx)
	if l, ok := args.Get(0).(*model.AdminLedger); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, transactionID *string) error {
	args := m.Called(ctx, paymentID, status, transactionID)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListUserPayments(ctx context.Context, userID int64) ([]*model.Payment, error) {
	args := m.Called(ctx, userID)
	if p, ok := args.Get(0).([]*model.Payment); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
