package errors

import "net/http"

// Error is a caller-visible failure with a stable machine-readable code.
// Infrastructure failures are never wrapped into one of these; they propagate
// as plain errors and surface as a generic 500 at the boundary.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrInvalidCredentials = &Error{Code: "A002", Message: "student id or password is incorrect", Status: http.StatusUnauthorized}
	ErrAccountLocked      = &Error{Code: "A003", Message: "account is locked, contact an administrator", Status: http.StatusForbidden}
	ErrAccountDisabled    = &Error{Code: "A004", Message: "account is disabled", Status: http.StatusForbidden}
	ErrInvalidToken       = &Error{Code: "A005", Message: "invalid token", Status: http.StatusUnauthorized}
	ErrExpiredToken       = &Error{Code: "A006", Message: "expired token", Status: http.StatusUnauthorized}
	ErrUserNotFound       = &Error{Code: "U001", Message: "user not found", Status: http.StatusNotFound}
	ErrDuplicateEmail     = &Error{Code: "U002", Message: "email already in use", Status: http.StatusConflict}
	ErrDuplicateStudentID = &Error{Code: "U003", Message: "student id already in use", Status: http.StatusConflict}
	ErrPasswordMismatch   = &Error{Code: "U005", Message: "passwords do not match", Status: http.StatusBadRequest}
)
