package repository

import (
	"context"
	"fmt"
	"time"

	"crypto_miner_webapp/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type paymentRow struct {
	ID            int64           `db:"id"`
	UserID        int64           `db:"user_id"`
	Amount        decimal.Decimal `db:"amount"`
	Method        string          `db:"payment_method"`
	Status        string          `db:"status"`
	TransactionID *string         `db:"transaction_id"`
	CreatedAt     time.Time       `db:"created_at"`
	CompletedAt   *time.Time      `db:"completed_at"`
}

func (row *paymentRow) toModel() *model.Payment {
	return &model.Payment{
		ID:            row.ID,
		UserID:        row.UserID,
		Amount:        row.Amount,
		Method:        row.Method,
		Status:        model.PaymentStatus(row.Status),
		TransactionID: row.TransactionID,
		CreatedAt:     row.CreatedAt,
		CompletedAt:   row.CompletedAt,
	}
}

func (r *Repository) insertPaymentTx(ctx context.Context, tx *sqlx.Tx, p *model.Payment) error {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query, args, err := squirrel.
		Insert("payments").
		SetMap(map[string]interface{}{
			"user_id":        p.UserID,
			"amount":         p.Amount,
			"payment_method": p.Method,
			"status":         string(p.Status),
			"transaction_id": p.TransactionID,
			"created_at":     createdAt,
			"completed_at":   p.CompletedAt,
		}).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	err = tx.QueryRowxContext(ctx, query, args...).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	return nil
}

// UpdatePaymentStatus moves a pending payment to its terminal state.
func (r *Repository) UpdatePaymentStatus(ctx context.Context, paymentID int64, status model.PaymentStatus, transactionID *string) error {
	builder := squirrel.
		Update("payments").
		Set("status", string(status)).
		Where(squirrel.Eq{"id": paymentID, "status": string(model.PaymentPending)})

	if status == model.PaymentCompleted {
		builder = builder.Set("completed_at", time.Now().UTC())
	}
	if transactionID != nil {
		builder = builder.Set("transaction_id", transactionID)
	}

	query, args, err := builder.PlaceholderFormat(squirrel.Dollar).ToSql()
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

func (r *Repository) ListUserPayments(ctx context.Context, userID int64) ([]*model.Payment, error) {
	query, args, err := squirrel.
		Select("*").
		From("payments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []paymentRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]*model.Payment, len(rows))
	for i := range rows {
		payments[i] = rows[i].toModel()
	}

	return payments, nil
}
