package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates no user row matched the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateMobile indicates the mobile number is already registered.
	// The unique constraint on users.mobile is the only duplicate check.
	ErrDuplicateMobile = errors.New("mobile already registered")
)

const uniqueViolation = "23505"

// Repository persists users. All operations are single-row, single-statement.
type Repository interface {
	Create(ctx context.Context, user User) error
	FindByMobile(ctx context.Context, mobile string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmailAndRole(ctx context.Context, email, role string) (User, error)
	UpdatePINHash(ctx context.Context, id string, hash []byte) error
	UpdatePINHashByMobile(ctx context.Context, mobile string, hash []byte) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed user repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, mobile, full_name, email, age, city, pincode, pin_hash, role,
	is_verified, wallet_balance, total_earnings, is_paid_member, referral_code, referred_by, created_at`

// Create inserts a new user row. A unique-constraint violation on the
// mobile column maps to ErrDuplicateMobile.
func (r *PostgresRepository) Create(ctx context.Context, user User) error {
	userID, err := uuid.Parse(user.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO users (`+userColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		userID, user.Mobile, user.FullName, user.Email, user.Age, user.City, user.Pincode,
		user.PINHash, user.Role, user.IsVerified, user.WalletBalance, user.TotalEarnings,
		user.IsPaidMember, user.ReferralCode, user.ReferredBy, user.CreatedAt.UTC())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateMobile
		}
		return err
	}
	return nil
}

// FindByMobile fetches a user by normalized mobile number.
func (r *PostgresRepository) FindByMobile(ctx context.Context, mobile string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE mobile = $1`, mobile)
	return scanUser(row)
}

// FindByID fetches a user by identifier.
func (r *PostgresRepository) FindByID(ctx context.Context, id string) (User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return User{}, ErrNotFound
	}
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// FindByEmailAndRole fetches a user keyed by email and role. Only the
// admin login path uses it.
func (r *PostgresRepository) FindByEmailAndRole(ctx context.Context, email, role string) (User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 AND role = $2`, email, role)
	return scanUser(row)
}

// UpdatePINHash overwrites the credential hash for the given user.
func (r *PostgresRepository) UpdatePINHash(ctx context.Context, id string, hash []byte) error {
	userID, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	cmd, err := r.db.Exec(ctx, `UPDATE users SET pin_hash = $1 WHERE id = $2`, hash, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdatePINHashByMobile overwrites the credential hash for the row
// matched by mobile and returns the updated user.
func (r *PostgresRepository) UpdatePINHashByMobile(ctx context.Context, mobile string, hash []byte) (User, error) {
	row := r.db.QueryRow(ctx, `UPDATE users SET pin_hash = $1 WHERE mobile = $2
        RETURNING `+userColumns, hash, mobile)
	return scanUser(row)
}

func scanUser(row pgx.Row) (User, error) {
	var (
		id        uuid.UUID
		createdAt time.Time
		user      User
	)
	err := row.Scan(&id, &user.Mobile, &user.FullName, &user.Email, &user.Age, &user.City,
		&user.Pincode, &user.PINHash, &user.Role, &user.IsVerified, &user.WalletBalance,
		&user.TotalEarnings, &user.IsPaidMember, &user.ReferralCode, &user.ReferredBy, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.ID = id.String()
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
