package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads wallet transaction history.
type Repository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error)
}

// PostgresRepository reads transactions from PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed transaction repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListByUser returns the most recent transactions for a user.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, amount, type, description, created_at
        FROM transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`, uid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []Transaction
	for rows.Next() {
		var (
			id        uuid.UUID
			ownerID   uuid.UUID
			createdAt time.Time
			tx        Transaction
		)
		if err := rows.Scan(&id, &ownerID, &tx.Amount, &tx.Type, &tx.Description, &createdAt); err != nil {
			return nil, err
		}
		tx.ID = id.String()
		tx.UserID = ownerID.String()
		tx.CreatedAt = createdAt.UTC()
		list = append(list, tx)
	}
	return list, rows.Err()
}
