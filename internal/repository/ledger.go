package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crypto_miner_webapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type ledgerRow struct {
	ID           int             `db:"id"`
	Total        decimal.Decimal `db:"total"`
	PremiumTotal decimal.Decimal `db:"premium_total"`
}

// creditLedgerTx adds to the house totals inside the caller's transaction,
// so a mining or premium write commits with its cut or not at all. The
// singleton row is created on first credit.
func (r *Repository) creditLedgerTx(ctx context.Context, tx *sqlx.Tx, credit *model.LedgerCredit) error {
	setMap := map[string]interface{}{
		"total": squirrel.Expr("total + ?", credit.Amount),
	}
	if credit.Premium {
		setMap["premium_total"] = squirrel.Expr("premium_total + ?", credit.Amount)
	}

	query, args, err := squirrel.
		Update("admin_ledger").
		SetMap(setMap).
		Where(squirrel.Eq{"id": 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to credit admin ledger: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	premiumTotal := decimal.Zero
	if credit.Premium {
		premiumTotal = credit.Amount
	}

	insertQuery, insertArgs, err := squirrel.
		Insert("admin_ledger").
		SetMap(map[string]interface{}{
			"id":            1,
			"total":         credit.Amount,
			"premium_total": premiumTotal,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, insertQuery, insertArgs...)
	if err != nil {
		return fmt.Errorf("failed to initialize admin ledger: %w", err)
	}

	return nil
}

func (r *Repository) GetLedger(ctx context.Context) (*model.AdminLedger, error) {
	query, args, err := squirrel.
		Select("*").
		From("admin_ledger").
		Where(squirrel.Eq{"id": 1}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var row ledgerRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &model.AdminLedger{Total: decimal.Zero, PremiumTotal: decimal.Zero}, nil
		}
		return nil, err
	}

	return &model.AdminLedger{Total: row.Total, PremiumTotal: row.PremiumTotal}, nil
}
