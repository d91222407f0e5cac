package domain

import (
	"time"

	"github.com/scms-platform/auth-service/pkg/constant"
)

type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleAdmin      Role = "ADMIN"
	RoleCounselor  Role = "COUNSELOR"
	RoleInstructor Role = "INSTRUCTOR"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleCounselor, RoleInstructor:
		return true
	}
	return false
}

type User struct {
	ID             int64
	StudentID      string
	Name           string
	Email          string
	PasswordHash   string
	DateOfBirth    *time.Time
	Address        string
	Role           Role
	IsActive       bool
	LoginFailCount int
	AccountLocked  bool
	LockedAt       *time.Time
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IncreaseLoginFailCount records one failed password check. Reaching the
// threshold locks the account; there is no automatic unlock.
func (u *User) IncreaseLoginFailCount(now time.Time) {
	u.LoginFailCount++
	if u.LoginFailCount >= constant.LoginFailThreshold {
		u.AccountLocked = true
		u.LockedAt = &now
	}
}

// ResetLoginFailCount clears the lockout state after a successful login.
func (u *User) ResetLoginFailCount(now time.Time) {
	u.LoginFailCount = 0
	u.AccountLocked = false
	u.LockedAt = nil
	u.LastLoginAt = &now
}

// Unlock clears the lockout state without touching LastLoginAt. Used by the
// password-reset flow.
func (u *User) Unlock() {
	u.LoginFailCount = 0
	u.AccountLocked = false
	u.LockedAt = nil
}

type LoginHistory struct {
	ID         string
	UserID     int64
	LoginAt    time.Time
	IPAddress  string
	UserAgent  string
	Success    bool
	FailReason *string
}

type BlacklistedToken struct {
	ID            string
	Token         string
	BlacklistedAt time.Time
	ExpiresAt     time.Time
	UserID        int64
}
