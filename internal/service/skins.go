package service

import (
	"context"
	"fmt"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"
	"crypto_miner_webapp/internal/repository"

	"github.com/pkg/errors"
)

type SkinService struct {
	users UserRepository
	skins SkinRepository
	clock game.Clock
}

func NewSkinService(users UserRepository, skins SkinRepository, clock game.Clock) *SkinService {
	return &SkinService{
		users: users,
		skins: skins,
		clock: clock,
	}
}

func (s *SkinService) List(ctx context.Context) ([]*model.Skin, error) {
	return s.skins.ListSkins(ctx)
}

func (s *SkinService) ListOwned(ctx context.Context, userID int64) ([]*model.Skin, error) {
	return s.skins.ListUserSkins(ctx, userID)
}

func (s *SkinService) ListOwnedIDs(ctx context.Context, userID int64) ([]string, error) {
	return s.skins.GetOwnedSkinIDs(ctx, userID)
}

// Purchase adds the skin to the user's collection, debiting its price.
// Premium-only skins are gated on a live premium check, never the stored
// flag. Buying an already-owned skin is a no-op, not a second charge; the
// ownership check runs under the user's row lock so concurrent purchases
// of the same skin cannot both debit.
func (s *SkinService) Purchase(ctx context.Context, userID int64, skinID string) (*model.UserAccount, error) {
	skin, err := s.skins.GetSkin(ctx, skinID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSkinNotFound
		}
		return nil, fmt.Errorf("failed to load skin: %w", err)
	}

	user, err := s.users.MutateUser(ctx, userID, func(u *model.UserAccount, _ *model.Skin) (*model.UserMutation, error) {
		if u.OwnsSkin(skin.SkinID) {
			return nil, nil
		}

		now := s.clock.Now()
		if skin.PremiumOnly && !game.PremiumActive(u, now) {
			return nil, ErrPremiumRequired
		}

		if skin.Price != nil {
			if u.Balance.LessThan(*skin.Price) {
				return nil, ErrInsufficientFunds
			}
			u.Balance = u.Balance.Sub(*skin.Price).Round(2)
		}

		return &model.UserMutation{
			OwnSkin: &model.UserSkin{UserID: u.ID, SkinID: skin.SkinID, AcquiredAt: now},
		}, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, ErrPremiumRequired) || errors.Is(err, ErrInsufficientFunds) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to purchase skin: %w", err)
	}

	return user, nil
}

// Select makes an owned skin the active one. Ownership is checked under
// the row lock like Purchase. The skin's click bonus lands on the next
// daily reset; its mining bonus applies immediately.
func (s *SkinService) Select(ctx context.Context, userID int64, skinID string) (*model.UserAccount, error) {
	user, err := s.users.MutateUser(ctx, userID, func(u *model.UserAccount, _ *model.Skin) (*model.UserMutation, error) {
		if skinID != model.DefaultSkinID && !u.OwnsSkin(skinID) {
			return nil, ErrSkinNotOwned
		}
		u.SelectedSkinID = skinID
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		if errors.Is(err, ErrSkinNotOwned) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to select skin: %w", err)
	}

	return user, nil
}
