package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/scms-platform/auth-service/internal/auth/domain"
)

// PgxPool is the subset of pgxpool.Pool the repository uses. pgxmock
// satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type PostgresRepository struct {
	db PgxPool
}

func NewPostgresRepository(db PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `user_id, student_id, name, email, password_hash, date_of_birth, address, role,
		is_active, login_fail_count, account_locked, locked_at, last_login_at, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(&user.ID, &user.StudentID, &user.Name, &user.Email, &user.PasswordHash,
		&user.DateOfBirth, &user.Address, &user.Role, &user.IsActive, &user.LoginFailCount,
		&user.AccountLocked, &user.LockedAt, &user.LastLoginAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return &user, nil
}

func (r *PostgresRepository) GetByStudentID(ctx context.Context, studentID string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE student_id = $1 LIMIT 1;`, userColumns)

	return scanUser(r.db.QueryRow(ctx, query, studentID))
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1 LIMIT 1;`, userColumns)

	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (student_id, name, email, password_hash, date_of_birth, address, role,
			is_active, login_fail_count, account_locked, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING user_id;
	`

	err := r.db.QueryRow(ctx, query,
		user.StudentID, user.Name, user.Email, user.PasswordHash, user.DateOfBirth, user.Address,
		user.Role, user.IsActive, user.LoginFailCount, user.AccountLocked,
		user.CreatedAt, user.UpdatedAt).Scan(&user.ID)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string, unlock bool) error {
	query := `
		UPDATE users
		SET password_hash = $2,
			login_fail_count = CASE WHEN $3 THEN 0 ELSE login_fail_count END,
			account_locked = CASE WHEN $3 THEN false ELSE account_locked END,
			locked_at = CASE WHEN $3 THEN NULL ELSE locked_at END,
			updated_at = now()
		WHERE user_id = $1;
	`

	_, err := r.db.Exec(ctx, query, userID, passwordHash, unlock)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

// RecordLoginAttempt appends a login history record without touching the user
// row. Used for attempts rejected before the password check.
func (r *PostgresRepository) RecordLoginAttempt(ctx context.Context, userID int64, success bool, failReason, ip, userAgent string) error {
	query := `
		INSERT INTO login_history (history_id, user_id, login_at, ip_address, user_agent, success, fail_reason)
		VALUES (gen_random_uuid(), $1, now(), $2, $3, $4, NULLIF($5, ''));
	`

	_, err := r.db.Exec(ctx, query, userID, ip, userAgent, success, failReason)
	if err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	return nil
}

// RecordLoginFailure increments the fail count and appends the failed history
// record in one transaction. The user row is locked for the duration so
// concurrent failures for the same identity cannot under-count, and a recorded
// lockout can never be missing its history entry.
func (r *PostgresRepository) RecordLoginFailure(ctx context.Context, userID int64, failReason, ip, userAgent string) (*domain.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user := domain.User{ID: userID}

	row := tx.QueryRow(ctx,
		`SELECT login_fail_count, account_locked, locked_at FROM users WHERE user_id = $1 FOR UPDATE;`, userID)
	if err := row.Scan(&user.LoginFailCount, &user.AccountLocked, &user.LockedAt); err != nil {
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	user.IncreaseLoginFailCount(time.Now())

	if _, err := tx.Exec(ctx,
		`UPDATE users SET login_fail_count = $2, account_locked = $3, locked_at = $4, updated_at = now() WHERE user_id = $1;`,
		userID, user.LoginFailCount, user.AccountLocked, user.LockedAt); err != nil {
		return nil, fmt.Errorf("failed to update lockout state: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO login_history (history_id, user_id, login_at, ip_address, user_agent, success, fail_reason)
		VALUES (gen_random_uuid(), $1, now(), $2, $3, false, $4);`,
		userID, ip, userAgent, failReason); err != nil {
		return nil, fmt.Errorf("failed to record login failure: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit login failure: %w", err)
	}

	return &user, nil
}

// RecordLoginSuccess resets the lockout state and appends the successful
// history record in one transaction.
func (r *PostgresRepository) RecordLoginSuccess(ctx context.Context, userID int64, ip, userAgent string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`UPDATE users SET login_fail_count = 0, account_locked = false, locked_at = NULL,
			last_login_at = now(), updated_at = now() WHERE user_id = $1;`, userID); err != nil {
		return fmt.Errorf("failed to reset lockout state: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO login_history (history_id, user_id, login_at, ip_address, user_agent, success, fail_reason)
		VALUES (gen_random_uuid(), $1, now(), $2, $3, true, NULL);`,
		userID, ip, userAgent); err != nil {
		return fmt.Errorf("failed to record login success: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit login success: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetRecentLoginHistory(ctx context.Context, userID int64, limit int) ([]domain.LoginHistory, error) {
	query := `
		SELECT history_id, user_id, login_at, ip_address, user_agent, success, fail_reason
		FROM login_history
		WHERE user_id = $1
		ORDER BY login_at DESC
		LIMIT $2;
	`

	rows, err := r.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get login history: %w", err)
	}
	defer rows.Close()

	var history []domain.LoginHistory
	for rows.Next() {
		var h domain.LoginHistory
		if err := rows.Scan(&h.ID, &h.UserID, &h.LoginAt, &h.IPAddress, &h.UserAgent, &h.Success, &h.FailReason); err != nil {
			return nil, fmt.Errorf("failed to scan login history: %w", err)
		}
		history = append(history, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read login history: %w", err)
	}

	return history, nil
}

func (r *PostgresRepository) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	var exists bool

	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM token_blacklist WHERE token = $1);`, token).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}

	return exists, nil
}

func (r *PostgresRepository) AddToBlacklist(ctx context.Context, entry *domain.BlacklistedToken) error {
	query := `
		INSERT INTO token_blacklist (blacklist_id, token, blacklisted_at, expires_at, user_id)
		VALUES ($1, $2, $3, $4, $5);
	`

	_, err := r.db.Exec(ctx, query, entry.ID, entry.Token, entry.BlacklistedAt, entry.ExpiresAt, entry.UserID)
	if err != nil {
		return fmt.Errorf("failed to add token to blacklist: %w", err)
	}

	return nil
}

func (r *PostgresRepository) DeleteExpiredBlacklistTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM token_blacklist WHERE expires_at < $1;`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge blacklist: %w", err)
	}

	return tag.RowsAffected(), nil
}
