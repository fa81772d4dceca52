package service

import (
	"context"
	"crypto/rand"
	"fmt"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"
	"crypto_miner_webapp/pkg/logger"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	referralCodeLength  = 10
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	minPasswordLength = 6

	defaultLanguage = "ru"
	defaultTheme    = "light"
)

type UserService struct {
	repo  UserRepository
	clock game.Clock
}

func NewUserService(repo UserRepository, clock game.Clock) *UserService {
	return &UserService{
		repo:  repo,
		clock: clock,
	}
}

type RegisterInput struct {
	Username     string
	Phone        string
	Password     string
	Email        *string
	Language     string
	ReferralCode string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.UserAccount, error) {
	if in.Username == "" || in.Phone == "" {
		return nil, ErrValidation
	}
	if len(in.Password) < minPasswordLength {
		return nil, ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	language := in.Language
	if language == "" {
		language = defaultLanguage
	}

	code, err := newReferralCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	now := s.clock.Now()
	user := &model.UserAccount{
		Username:         in.Username,
		Phone:            in.Phone,
		PasswordHash:     string(hash),
		Email:            in.Email,
		Balance:          decimal.Zero,
		DailyClickQuota:  game.StandardDailyQuota,
		LastResetDate:    game.DayKey(now),
		ReferralCode:     code,
		MiningMultiplier: game.StandardMiningMultiplier,
		SelectedSkinID:   model.DefaultSkinID,
		Theme:            defaultTheme,
		Language:         language,
	}

	err = s.repo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if in.ReferralCode != "" {
		s.creditReferrer(ctx, in.ReferralCode, user.ID)
	}

	return user, nil
}

// creditReferrer bumps the referrer's count. A bad or stale code does not
// fail the registration.
func (s *UserService) creditReferrer(ctx context.Context, code string, newUserID int64) {
	referrer, err := s.repo.GetUserByReferralCode(ctx, code)
	if err != nil {
		logger.Logger().Warn("unknown referral code on registration",
			zap.String("code", code), zap.Int64("new_user_id", newUserID))
		return
	}
	if referrer.ID == newUserID {
		return
	}

	if err := s.repo.IncrementReferrals(ctx, referrer.ID); err != nil {
		logger.Logger().Warn("failed to credit referrer",
			zap.Int64("referrer_id", referrer.ID), zap.Error(err))
	}
}

func (s *UserService) Authenticate(ctx context.Context, phone, password string) (*model.UserAccount, error) {
	if phone == "" || password == "" {
		return nil, ErrValidation
	}

	user, err := s.repo.GetUserByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetProfile returns the user with day rollover and premium expiry applied,
// so a session load never shows yesterday's quota or a lapsed premium rate.
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*model.UserAccount, error) {
	user, err := s.repo.MutateUser(ctx, userID, func(u *model.UserAccount, skin *model.Skin) (*model.UserMutation, error) {
		now := s.clock.Now()
		game.Lapse(u, now)
		game.ApplyDailyReset(u, game.DayKey(now), skin)
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return user, nil
}

func newReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeCharset[int(b)%len(referralCodeCharset)]
	}
	return string(buf), nil
}
