package domain

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByStudentID(ctx context.Context, studentID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string, unlock bool) error
	RecordLoginAttempt(ctx context.Context, userID int64, success bool, failReason, ip, userAgent string) error
	RecordLoginFailure(ctx context.Context, userID int64, failReason, ip, userAgent string) (*User, error)
	RecordLoginSuccess(ctx context.Context, userID int64, ip, userAgent string) error
	GetRecentLoginHistory(ctx context.Context, userID int64, limit int) ([]LoginHistory, error)
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
	AddToBlacklist(ctx context.Context, entry *BlacklistedToken) error
	DeleteExpiredBlacklistTokens(ctx context.Context, cutoff time.Time) (int64, error)
}
