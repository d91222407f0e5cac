package constant

const (
	// LoginFailThreshold is the number of consecutive failed logins that locks an account.
	LoginFailThreshold = 5

	DefaultTokenType = "Bearer"

	TempPasswordLength  = 8
	TempPasswordCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789!@#$%"

	RecentLoginHistoryLimit = 10
)
