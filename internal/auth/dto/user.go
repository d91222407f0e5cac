package dto

import "time"

// UserInfo is the sanitized identity summary returned on login. The password
// hash never leaves the service layer.
type UserInfo struct {
	UserID    int64  `json:"user_id"`
	StudentID string `json:"student_id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

type LoginHistoryOutput struct {
	LoginAt    time.Time `json:"login_at"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	Success    bool      `json:"success"`
	FailReason *string   `json:"fail_reason,omitempty"`
}
