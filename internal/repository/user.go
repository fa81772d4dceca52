package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crypto_miner_webapp/internal/game"
	"crypto_miner_webapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type userRow struct {
	ID                int64            `db:"id"`
	Username          string           `db:"username"`
	Phone             string           `db:"phone"`
	PasswordHash      string           `db:"password_hash"`
	Email             *string          `db:"email"`
	Balance           decimal.Decimal  `db:"balance"`
	ClicksUsedToday   int              `db:"clicks_used_today"`
	DailyClickQuota   int              `db:"daily_click_quota"`
	LastResetDate     string           `db:"last_reset_date"`
	LastMinedAt       *time.Time       `db:"last_mined_at"`
	ReferralCode      string           `db:"referral_code"`
	Referrals         int              `db:"referrals"`
	IsPremium         bool             `db:"is_premium"`
	PremiumExpiry     *time.Time       `db:"premium_expiry"`
	MiningMultiplier  decimal.Decimal  `db:"mining_multiplier"`
	LastPaymentAmount *decimal.Decimal `db:"last_payment_amount"`
	PaymentMethod     *string          `db:"payment_method"`
	SelectedSkinID    string           `db:"selected_skin_id"`
	Theme             string           `db:"theme"`
	Language          string           `db:"language"`
	CreatedAt         time.Time        `db:"created_at"`
}

func (row *userRow) toModel() *model.UserAccount {
	return &model.UserAccount{
		ID:                row.ID,
		Username:          row.Username,
		Phone:             row.Phone,
		PasswordHash:      row.PasswordHash,
		Email:             row.Email,
		Balance:           row.Balance,
		ClicksUsedToday:   row.ClicksUsedToday,
		DailyClickQuota:   row.DailyClickQuota,
		LastResetDate:     row.LastResetDate,
		LastMinedAt:       row.LastMinedAt,
		ReferralCode:      row.ReferralCode,
		Referrals:         row.Referrals,
		IsPremium:         row.IsPremium,
		PremiumExpiry:     row.PremiumExpiry,
		MiningMultiplier:  row.MiningMultiplier,
		LastPaymentAmount: row.LastPaymentAmount,
		PaymentMethod:     row.PaymentMethod,
		SelectedSkinID:    row.SelectedSkinID,
		Theme:             row.Theme,
		Language:          row.Language,
		CreatedAt:         row.CreatedAt,
	}
}

func userSetMap(u *model.UserAccount) map[string]interface{} {
	return map[string]interface{}{
		"balance":             u.Balance,
		"clicks_used_today":   u.ClicksUsedToday,
		"daily_click_quota":   u.DailyClickQuota,
		"last_reset_date":     u.LastResetDate,
		"last_mined_at":       u.LastMinedAt,
		"referrals":           u.Referrals,
		"is_premium":          u.IsPremium,
		"premium_expiry":      u.PremiumExpiry,
		"mining_multiplier":   u.MiningMultiplier,
		"last_payment_amount": u.LastPaymentAmount,
		"payment_method":      u.PaymentMethod,
		"selected_skin_id":    u.SelectedSkinID,
		"theme":               u.Theme,
		"language":            u.Language,
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *model.UserAccount) error {
	return r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Insert("users").
			SetMap(map[string]interface{}{
				"username":          user.Username,
				"phone":             user.Phone,
				"password_hash":     user.PasswordHash,
				"email":             user.Email,
				"balance":           user.Balance,
				"clicks_used_today": user.ClicksUsedToday,
				"daily_click_quota": user.DailyClickQuota,
				"last_reset_date":   user.LastResetDate,
				"referral_code":     user.ReferralCode,
				"referrals":         user.Referrals,
				"is_premium":        user.IsPremium,
				"mining_multiplier": user.MiningMultiplier,
				"selected_skin_id":  user.SelectedSkinID,
				"theme":             user.Theme,
				"language":          user.Language,
			}).
			Suffix("RETURNING id, created_at").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build user insert query: %w", err)
		}

		err = tx.QueryRowxContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicate
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}

		// Everyone owns the default skin from day one.
		ownQuery, ownArgs, err := squirrel.
			Insert("user_skins").
			Columns("user_id", "skin_id").
			Values(user.ID, model.DefaultSkinID).
			Suffix("ON CONFLICT (user_id, skin_id) DO NOTHING").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build default skin insert query: %w", err)
		}

		_, err = tx.ExecContext(ctx, ownQuery, ownArgs...)
		if err != nil {
			return fmt.Errorf("failed to grant default skin: %w", err)
		}
		user.OwnedSkinIDs = []string{model.DefaultSkinID}

		return nil
	})
}

func (r *Repository) getUserBy(ctx context.Context, pred squirrel.Eq) (*model.UserAccount, error) {
	query, args, err := squirrel.
		Select("*").
		From("users").
		Where(pred).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row userRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.UserAccount, error) {
	return r.getUserBy(ctx, squirrel.Eq{"id": id})
}

func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (*model.UserAccount, error) {
	return r.getUserBy(ctx, squirrel.Eq{"phone": phone})
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*model.UserAccount, error) {
	return r.getUserBy(ctx, squirrel.Eq{"username": username})
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.UserAccount, error) {
	return r.getUserBy(ctx, squirrel.Eq{"referral_code": code})
}

func (r *Repository) IncrementReferrals(ctx context.Context, id int64) error {
	query, args, err := squirrel.
		Update("users").
		Set("referrals", squirrel.Expr("referrals + 1")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// MutateUser runs fn against the user's row held under a FOR UPDATE lock,
// then persists the mutated row together with the side effects fn returned.
// Concurrent calls for the same user serialize on the row lock; an error
// from fn rolls everything back. The user's selected skin and ownership
// edges are loaded inside the same transaction, so fn decides against
// state no concurrent update can still invalidate.
func (r *Repository) MutateUser(
	ctx context.Context,
	id int64,
	fn func(u *model.UserAccount, selected *model.Skin) (*model.UserMutation, error),
) (*model.UserAccount, error) {
	var result *model.UserAccount

	err := r.Transaction(ctx, func(tx *sqlx.Tx) error {
		query, args, err := squirrel.
			Select("*").
			From("users").
			Where(squirrel.Eq{"id": id}).
			Suffix("FOR UPDATE").
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		var row userRow
		err = tx.GetContext(ctx, &row, query, args...)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}

		user := row.toModel()

		skin, err := r.getSkinTx(ctx, tx, user.SelectedSkinID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}

		user.OwnedSkinIDs, err = r.getOwnedSkinIDsTx(ctx, tx, id)
		if err != nil {
			return err
		}

		mutation, err := fn(user, skin)
		if err != nil {
			return err
		}

		updateQuery, updateArgs, err := squirrel.
			Update("users").
			SetMap(userSetMap(user)).
			Where(squirrel.Eq{"id": id}).
			PlaceholderFormat(squirrel.Dollar).
			ToSql()
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, updateQuery, updateArgs...)
		if err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}

		if mutation != nil {
			if mutation.Ledger != nil {
				if err := r.creditLedgerTx(ctx, tx, mutation.Ledger); err != nil {
					return err
				}
			}
			if mutation.Payment != nil {
				if err := r.insertPaymentTx(ctx, tx, mutation.Payment); err != nil {
					return err
				}
			}
			if mutation.OwnSkin != nil {
				if err := r.addUserSkinTx(ctx, tx, mutation.OwnSkin); err != nil {
					return err
				}
			}
		}

		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// SweepExpiredPremium drops every lapsed premium back to the standard tier
// in one statement. Idempotent.
func (r *Repository) SweepExpiredPremium(ctx context.Context, now time.Time) (int64, error) {
	query, args, err := squirrel.
		Update("users").
		SetMap(map[string]interface{}{
			"is_premium":        false,
			"mining_multiplier": game.StandardMiningMultiplier,
			"daily_click_quota": game.StandardDailyQuota,
			"clicks_used_today": squirrel.Expr("LEAST(clicks_used_today, ?)", game.StandardDailyQuota),
		}).
		Where(squirrel.Eq{"is_premium": true}).
		Where(squirrel.Lt{"premium_expiry": now}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
