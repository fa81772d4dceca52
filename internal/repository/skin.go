package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type skinRow struct {
	SkinID      string           `db:"skin_id"`
	Name        string           `db:"name"`
	Description string           `db:"description"`
	Rarity      string           `db:"rarity"`
	MiningBonus decimal.Decimal  `db:"mining_bonus"`
	ClickBonus  int              `db:"click_bonus"`
	PremiumOnly bool             `db:"premium_only"`
	Price       *decimal.Decimal `db:"price"`
}

func (row *skinRow) toModel() *model.Skin {
	return &model.Skin{
		SkinID:      row.SkinID,
		Name:        row.Name,
		Description: row.Description,
		Rarity:      model.Rarity(row.Rarity),
		MiningBonus: row.MiningBonus,
		ClickBonus:  row.ClickBonus,
		PremiumOnly: row.PremiumOnly,
		Price:       row.Price,
	}
}

func (r *Repository) GetSkin(ctx context.Context, skinID string) (*model.Skin, error) {
	query, args, err := squirrel.
		Select("*").
		From("skins").
		Where(squirrel.Eq{"skin_id": skinID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row skinRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) getSkinTx(ctx context.Context, tx *sqlx.Tx, skinID string) (*model.Skin, error) {
	query, args, err := squirrel.
		Select("*").
		From("skins").
		Where(squirrel.Eq{"skin_id": skinID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row skinRow
	err = tx.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return row.toModel(), nil
}

func (r *Repository) ListSkins(ctx context.Context) ([]*model.Skin, error) {
	query, args, err := squirrel.
		Select("*").
		From("skins").
		OrderBy("skin_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []skinRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list skins: %w", err)
	}

	skins := make([]*model.Skin, len(rows))
	for i := range rows {
		skins[i] = rows[i].toModel()
	}

	return skins, nil
}

func ownedSkinIDsQuery(userID int64) (string, []interface{}, error) {
	return squirrel.
		Select("COALESCE(array_agg(skin_id ORDER BY acquired_at), '{}')").
		From("user_skins").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// GetOwnedSkinIDs aggregates the user's ownership edges into one array scan.
func (r *Repository) GetOwnedSkinIDs(ctx context.Context, userID int64) ([]string, error) {
	query, args, err := ownedSkinIDsQuery(userID)
	if err != nil {
		return nil, err
	}

	var ids pq.StringArray
	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned skin ids: %w", err)
	}

	return []string(ids), nil
}

// getOwnedSkinIDsTx reads the ownership edges inside the caller's
// transaction, so a locked user update decides against edges no
// concurrent purchase can still change.
func (r *Repository) getOwnedSkinIDsTx(ctx context.Context, tx *sqlx.Tx, userID int64) ([]string, error) {
	query, args, err := ownedSkinIDsQuery(userID)
	if err != nil {
		return nil, err
	}

	var ids pq.StringArray
	err = tx.QueryRowxContext(ctx, query, args...).Scan(&ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get owned skin ids: %w", err)
	}

	return []string(ids), nil
}

func (r *Repository) ListUserSkins(ctx context.Context, userID int64) ([]*model.Skin, error) {
	query, args, err := squirrel.
		Select("s.skin_id", "s.name", "s.description", "s.rarity", "s.mining_bonus", "s.click_bonus", "s.premium_only", "s.price").
		From("skins s").
		Join("user_skins us ON us.skin_id = s.skin_id").
		Where(squirrel.Eq{"us.user_id": userID}).
		OrderBy("us.acquired_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []skinRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list user skins: %w", err)
	}

	skins := make([]*model.Skin, len(rows))
	for i := range rows {
		skins[i] = rows[i].toModel()
	}

	return skins, nil
}

func (r *Repository) addUserSkinTx(ctx context.Context, tx *sqlx.Tx, edge *model.UserSkin) error {
	acquiredAt := edge.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = time.Now().UTC()
	}

	query, args, err := squirrel.
		Insert("user_skins").
		Columns("user_id", "skin_id", "acquired_at").
		Values(edge.UserID, edge.SkinID, acquiredAt).
		Suffix("ON CONFLICT (user_id, skin_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to add user skin: %w", err)
	}

	return nil
}
