package service

import (
	"context"
	"testing"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestUserService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setup         func(repo *mocks.MockUserRepository)
		expectedError error
		check         func(t *testing.T, repo *mocks.MockUserRepository, u *model.UserAccount)
	}{
		{
			name:  "new account gets standard defaults",
			input: RegisterInput{Username: "miner42", Phone: "+79001234567", Password: "hunter22"},
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
			},
			check: func(t *testing.T, repo *mocks.MockUserRepository, u *model.UserAccount) {
				assert.Equal(t, game.StandardDailyQuota, u.DailyClickQuota)
				assert.True(t, u.MiningMultiplier.Equal(game.StandardMiningMultiplier))
				assert.True(t, u.Balance.IsZero())
				assert.Equal(t, game.DayKey(testNow), u.LastResetDate)
				assert.Equal(t, model.DefaultSkinID, u.SelectedSkinID)
				assert.Equal(t, "ru", u.Language)
				assert.Len(t, u.ReferralCode, 10)
				assert.False(t, u.IsPremium)

				assert.NoError(t, bcrypt.CompareHashAndPassword(
					[]byte(u.PasswordHash), []byte("hunter22")))
				assert.NotEqual(t, "hunter22", u.PasswordHash)
			},
		},
		{
			name: "referral code credits the referrer",
			input: RegisterInput{
				Username: "invited", Phone: "+79001234568",
				Password: "hunter22", ReferralCode: "ABCDEF1234",
			},
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
				repo.On("GetUserByReferralCode", mock.Anything, "ABCDEF1234").
					Return(&model.UserAccount{ID: 7}, nil)
				repo.On("IncrementReferrals", mock.Anything, int64(7)).Return(nil)
			},
		},
		{
			name: "unknown referral code does not fail registration",
			input: RegisterInput{
				Username: "invited", Phone: "+79001234568",
				Password: "hunter22", ReferralCode: "NOSUCHCODE",
			},
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)
				repo.On("GetUserByReferralCode", mock.Anything, "NOSUCHCODE").
					Return(nil, repository.ErrNotFound)
			},
		},
		{
			name:  "duplicate phone",
			input: RegisterInput{Username: "miner42", Phone: "+79001234567", Password: "hunter22"},
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("CreateUser", mock.Anything, mock.Anything).
					Return(repository.ErrDuplicate)
			},
			expectedError: ErrDuplicate,
		},
		{
			name:          "password below the minimum length",
			input:         RegisterInput{Username: "miner42", Phone: "+79001234567", Password: "abc"},
			setup:         func(repo *mocks.MockUserRepository) {},
			expectedError: ErrValidation,
		},
		{
			name:          "missing phone",
			input:         RegisterInput{Username: "miner42", Password: "hunter22"},
			setup:         func(repo *mocks.MockUserRepository) {},
			expectedError: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tt.setup(repo)

			svc := NewUserService(repo, fixedClock{now: testNow})
			u, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, u)
			}
			if tt.check != nil {
				tt.check(t, repo, u)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Register_ReferralCodesAreUnique(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	repo.On("CreateUser", mock.Anything, mock.Anything).Return(nil)

	svc := NewUserService(repo, fixedClock{now: testNow})
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u, err := svc.Register(context.Background(), RegisterInput{
			Username: "miner", Phone: "+7900", Password: "hunter22",
		})
		assert.NoError(t, err)
		assert.False(t, seen[u.ReferralCode])
		seen[u.ReferralCode] = true
	}
}

func TestUserService_Authenticate(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	assert.NoError(t, err)
	stored := &model.UserAccount{ID: 1, Phone: "+79001234567", PasswordHash: string(hash)}

	tests := []struct {
		name          string
		phone         string
		password      string
		setup         func(repo *mocks.MockUserRepository)
		expectedError error
	}{
		{
			name:     "valid credentials",
			phone:    "+79001234567",
			password: "hunter22",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByPhone", mock.Anything, "+79001234567").Return(stored, nil)
			},
		},
		{
			name:     "wrong password",
			phone:    "+79001234567",
			password: "letmein",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByPhone", mock.Anything, "+79001234567").Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "unknown phone reads the same as a wrong password",
			phone:    "+70000000000",
			password: "hunter22",
			setup: func(repo *mocks.MockUserRepository) {
				repo.On("GetUserByPhone", mock.Anything, "+70000000000").
					Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "empty password",
			phone:         "+79001234567",
			password:      "",
			setup:         func(repo *mocks.MockUserRepository) {},
			expectedError: ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mocks.MockUserRepository{}
			tt.setup(repo)

			svc := NewUserService(repo, fixedClock{now: testNow})
			u, err := svc.Authenticate(context.Background(), tt.phone, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, stored.ID, u.ID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_GetProfile_AppliesRollover(t *testing.T) {
	repo := &mocks.MockUserRepository{}
	expiry := testNow.Add(-time.Hour)
	u := standardUser()
	u.IsPremium = true
	u.PremiumExpiry = &expiry
	u.MiningMultiplier = game.PremiumMiningMultiplier
	u.DailyClickQuota = game.PremiumDailyQuota
	u.ClicksUsedToday = 80
	u.LastResetDate = "2025-06-01"
	repo.User = u
	repo.On("MutateUser", mock.Anything, int64(1)).Return(nil, nil)

	svc := NewUserService(repo, fixedClock{now: testNow})
	got, err := svc.GetProfile(context.Background(), 1)

	assert.NoError(t, err)
	assert.False(t, got.IsPremium)
	assert.Equal(t, 0, got.ClicksUsedToday)
	assert.Equal(t, game.StandardDailyQuota, got.DailyClickQuota)
	assert.Equal(t, game.DayKey(testNow), got.LastResetDate)
	repo.AssertExpectations(t)
}
