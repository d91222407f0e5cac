package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/scms-platform/auth-service/internal/auth/domain"
	"github.com/scms-platform/auth-service/internal/auth/dto"
	"github.com/scms-platform/auth-service/internal/auth/service"
	autherror "github.com/scms-platform/auth-service/internal/errors"
	"github.com/scms-platform/auth-service/internal/mocks"
	authconstant "github.com/scms-platform/auth-service/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*service.AuthService, *mocks.MockUserRepository, *mocks.MockTokenGenerator, *mocks.MockNotifier) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokens := mocks.NewMockTokenGenerator(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)

	return service.NewAuthService(mockRepo, mockTokens, mockNotifier), mockRepo, mockTokens, mockNotifier
}

func activeUser(t *testing.T, password string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	return &domain.User{
		ID:           42,
		StudentID:    "2024010",
		Name:         "Kim Minsoo",
		Email:        "minsoo@example.com",
		PasswordHash: string(hash),
		Role:         domain.RoleStudent,
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	password := "password123"
	user := activeUser(t, password)

	input := dto.LoginInput{
		StudentID: user.StudentID,
		Password:  password,
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginSuccess(gomock.Any(), user.ID, input.IPAddress, input.UserAgent).Return(nil)
	mockTokens.EXPECT().Generate(user.StudentID, "STUDENT", service.KindAccess).
		Return("access-token", time.Now().Add(time.Hour), nil)
	mockTokens.EXPECT().Generate(user.StudentID, "STUDENT", service.KindRefresh).
		Return("refresh-token", time.Now().Add(7*24*time.Hour), nil)
	mockTokens.EXPECT().GetAccessTokenExpiry().Return(time.Hour)

	response, err := s.Login(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "access-token", response.AccessToken)
	assert.Equal(t, "refresh-token", response.RefreshToken)
	assert.Equal(t, authconstant.DefaultTokenType, response.TokenType)
	assert.Equal(t, int64(3600), response.ExpiresIn)
	assert.Equal(t, user.ID, response.User.UserID)
	assert.Equal(t, user.StudentID, response.User.StudentID)
	assert.Equal(t, user.Email, response.User.Email)
	assert.Equal(t, "STUDENT", response.User.Role)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	input := dto.LoginInput{StudentID: "9999999", Password: "password123", IPAddress: "192.168.1.1"}

	// No history record is written when the identity cannot be resolved.
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(nil, nil)

	response, err := s.Login(context.Background(), input)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestAuthService_Login_AccountLocked(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	lockedAt := time.Now().Add(-time.Hour)
	user := activeUser(t, "password123")
	user.LoginFailCount = 5
	user.AccountLocked = true
	user.LockedAt = &lockedAt

	input := dto.LoginInput{
		StudentID: user.StudentID,
		Password:  "password123", // correct password is still rejected
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), user.ID, false, "account locked", input.IPAddress, input.UserAgent).Return(nil)

	response, err := s.Login(context.Background(), input)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrAccountLocked)
}

func TestAuthService_Login_AccountDisabled(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	user := activeUser(t, "password123")
	user.IsActive = false

	input := dto.LoginInput{
		StudentID: user.StudentID,
		Password:  "password123",
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginAttempt(gomock.Any(), user.ID, false, "account disabled", input.IPAddress, input.UserAgent).Return(nil)

	response, err := s.Login(context.Background(), input)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrAccountDisabled)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	user := activeUser(t, "correct-password")

	input := dto.LoginInput{
		StudentID: user.StudentID,
		Password:  "wrong-password",
		IPAddress: "192.168.1.1",
		UserAgent: "test-agent",
	}

	updated := &domain.User{ID: user.ID, LoginFailCount: 1}
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginFailure(gomock.Any(), user.ID, "password mismatch", input.IPAddress, input.UserAgent).Return(updated, nil)

	response, err := s.Login(context.Background(), input)

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestAuthService_Login_FifthFailureStillInvalidCredentials(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	user := activeUser(t, "correct-password")
	user.LoginFailCount = 4

	input := dto.LoginInput{StudentID: user.StudentID, Password: "wrong-password", IPAddress: "192.168.1.1"}

	now := time.Now()
	locked := &domain.User{ID: user.ID, LoginFailCount: 5, AccountLocked: true, LockedAt: &now}
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginFailure(gomock.Any(), user.ID, "password mismatch", input.IPAddress, input.UserAgent).Return(locked, nil)

	response, err := s.Login(context.Background(), input)

	// The locking attempt itself reports invalid credentials; subsequent
	// attempts are rejected as locked.
	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
}

func TestAuthService_Login_AuditWriteFailureSurfaces(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	user := activeUser(t, "correct-password")

	input := dto.LoginInput{StudentID: user.StudentID, Password: "wrong-password", IPAddress: "192.168.1.1"}

	storeErr := errors.New("connection reset")
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().RecordLoginFailure(gomock.Any(), user.ID, "password mismatch", input.IPAddress, input.UserAgent).Return(nil, storeErr)

	response, err := s.Login(context.Background(), input)

	assert.Nil(t, response)
	require.Error(t, err)
	// Infrastructure failures are never mapped to a domain kind.
	assert.NotErrorIs(t, err, autherror.ErrInvalidCredentials)
	assert.ErrorIs(t, err, storeErr)
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	expectedErr := errors.New("database error")
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), "2024010").Return(nil, expectedErr)

	response, err := s.Login(context.Background(), dto.LoginInput{StudentID: "2024010", Password: "password123"})

	assert.Nil(t, response)
	assert.Equal(t, expectedErr, err)
}

func TestAuthService_Logout_Success(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	user := activeUser(t, "password123")
	expiresAt := time.Now().Add(time.Hour)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.StudentID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "the-token").Return(false, nil)
	mockTokens.EXPECT().Verify("the-token").Return(claims, nil)
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), user.StudentID).Return(user, nil)
	mockRepo.EXPECT().AddToBlacklist(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, entry *domain.BlacklistedToken) error {
			assert.Equal(t, "the-token", entry.Token)
			assert.Equal(t, user.ID, entry.UserID)
			assert.NotEmpty(t, entry.ID)
			// The natural expiry is preserved so the entry can be purged later.
			assert.WithinDuration(t, expiresAt, entry.ExpiresAt, time.Second)
			return nil
		})

	err := s.Logout(context.Background(), "the-token")

	assert.NoError(t, err)
}

func TestAuthService_Logout_AlreadyBlacklistedIsIdempotent(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "the-token").Return(true, nil)

	err := s.Logout(context.Background(), "the-token")

	assert.NoError(t, err)
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "garbage").Return(false, nil)
	mockTokens.EXPECT().Verify("garbage").Return(nil, autherror.ErrInvalidToken)

	err := s.Logout(context.Background(), "garbage")

	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestAuthService_Logout_ExpiredToken(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "stale-token").Return(false, nil)
	mockTokens.EXPECT().Verify("stale-token").Return(nil, autherror.ErrExpiredToken)

	err := s.Logout(context.Background(), "stale-token")

	assert.ErrorIs(t, err, autherror.ErrExpiredToken)
}

func TestAuthService_Logout_UserNotFound(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9999999",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "orphan-token").Return(false, nil)
	mockTokens.EXPECT().Verify("orphan-token").Return(claims, nil)
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), "9999999").Return(nil, nil)

	err := s.Logout(context.Background(), "orphan-token")

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_Signup_Success(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	input := dto.SignupInput{
		StudentID:       "2024010",
		Name:            "Kim Minsoo",
		Email:           "minsoo@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
		DateOfBirth:     "2002-03-15",
		Address:         "Seoul",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(nil, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, user *domain.User) error {
			assert.Equal(t, input.StudentID, user.StudentID)
			assert.Equal(t, domain.RoleStudent, user.Role)
			assert.True(t, user.IsActive)
			assert.Equal(t, 0, user.LoginFailCount)
			assert.False(t, user.AccountLocked)
			assert.NotEqual(t, input.Password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)))
			require.NotNil(t, user.DateOfBirth)
			assert.Equal(t, "2002-03-15", user.DateOfBirth.Format(dto.DateLayout))
			return nil
		})

	err := s.Signup(context.Background(), input)

	assert.NoError(t, err)
}

func TestAuthService_Signup_PasswordMismatch(t *testing.T) {
	s, _, _, _ := newService(t)

	input := dto.SignupInput{
		StudentID:       "2024010",
		Name:            "Kim Minsoo",
		Email:           "minsoo@example.com",
		Password:        "password123",
		PasswordConfirm: "different456",
	}

	err := s.Signup(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrPasswordMismatch)
}

func TestAuthService_Signup_DuplicateStudentID(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	input := dto.SignupInput{
		StudentID:       "2024010",
		Name:            "Kim Minsoo",
		Email:           "minsoo@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(&domain.User{ID: 1}, nil)

	err := s.Signup(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrDuplicateStudentID)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	input := dto.SignupInput{
		StudentID:       "2024011",
		Name:            "Kim Minsoo",
		Email:           "minsoo@example.com",
		Password:        "password123",
		PasswordConfirm: "password123",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(nil, nil)
	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: 1}, nil)

	err := s.Signup(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrDuplicateEmail)
}

func TestAuthService_Refresh_Success(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	user := activeUser(t, "password123")

	claims := &service.JWTCustomClaims{
		Role:      "STUDENT",
		TokenType: string(service.KindRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.StudentID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("refresh-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "refresh-token").Return(false, nil)
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), user.StudentID).Return(user, nil)
	mockTokens.EXPECT().Generate(user.StudentID, "STUDENT", service.KindAccess).
		Return("new-access-token", time.Now().Add(time.Hour), nil)
	mockTokens.EXPECT().GetAccessTokenExpiry().Return(time.Hour)

	response, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

	require.NoError(t, err)
	assert.Equal(t, "new-access-token", response.AccessToken)
	assert.Equal(t, authconstant.DefaultTokenType, response.TokenType)
	assert.Equal(t, int64(3600), response.ExpiresIn)
}

func TestAuthService_Refresh_ExpiredToken(t *testing.T) {
	s, _, mockTokens, _ := newService(t)

	mockTokens.EXPECT().Verify("stale-token").Return(nil, autherror.ErrExpiredToken)

	response, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "stale-token"})

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrExpiredToken)
}

func TestAuthService_Refresh_RevokedToken(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "2024010",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("revoked-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "revoked-token").Return(true, nil)

	response, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "revoked-token"})

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestAuthService_Refresh_WrongKind(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	// A well-formed, unexpired access token must still be rejected here.
	claims := &service.JWTCustomClaims{
		Role:      "STUDENT",
		TokenType: string(service.KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "2024010",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("access-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "access-token").Return(false, nil)

	response, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "access-token"})

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestAuthService_Refresh_UserNotFound(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "9999999",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("refresh-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "refresh-token").Return(false, nil)
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), "9999999").Return(nil, nil)

	response, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

	assert.Nil(t, response)
	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_ResetPassword_Success(t *testing.T) {
	s, mockRepo, _, mockNotifier := newService(t)

	dob := time.Date(2002, 3, 15, 0, 0, 0, 0, time.UTC)
	user := activeUser(t, "old-password")
	user.DateOfBirth = &dob

	input := dto.PasswordResetInput{
		StudentID:   user.StudentID,
		Name:        user.Name,
		DateOfBirth: "2002-03-15",
	}

	var delivered string
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockNotifier.EXPECT().SendTemporaryPassword(gomock.Any(), user.Email, user.Name, gomock.Any()).DoAndReturn(
		func(_ context.Context, _, _, tempPassword string) error {
			delivered = tempPassword
			return nil
		})
	mockRepo.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any(), false).DoAndReturn(
		func(_ context.Context, _ int64, passwordHash string, _ bool) error {
			assert.NotEqual(t, user.PasswordHash, passwordHash)
			return nil
		})

	err := s.ResetPassword(context.Background(), input)

	require.NoError(t, err)
	assert.Len(t, delivered, authconstant.TempPasswordLength)
	for _, c := range delivered {
		assert.Contains(t, authconstant.TempPasswordCharset, string(c))
	}
}

func TestAuthService_ResetPassword_UnlocksLockedAccount(t *testing.T) {
	s, mockRepo, _, mockNotifier := newService(t)

	lockedAt := time.Now().Add(-time.Hour)
	user := activeUser(t, "old-password")
	user.LoginFailCount = 5
	user.AccountLocked = true
	user.LockedAt = &lockedAt

	input := dto.PasswordResetInput{StudentID: user.StudentID, Name: user.Name}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any(), true).Return(nil)
	mockNotifier.EXPECT().SendTemporaryPassword(gomock.Any(), user.Email, user.Name, gomock.Any()).Return(nil)

	err := s.ResetPassword(context.Background(), input)

	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_WrongName(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	user := activeUser(t, "old-password")

	input := dto.PasswordResetInput{StudentID: user.StudentID, Name: "Wrong Name"}

	// No UpdatePassword expectation: the stored hash must stay unchanged.
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)

	err := s.ResetPassword(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_ResetPassword_WrongDateOfBirth(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	dob := time.Date(2002, 3, 15, 0, 0, 0, 0, time.UTC)
	user := activeUser(t, "old-password")
	user.DateOfBirth = &dob

	input := dto.PasswordResetInput{
		StudentID:   user.StudentID,
		Name:        user.Name,
		DateOfBirth: "1999-01-01",
	}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)

	err := s.ResetPassword(context.Background(), input)

	// Same kind as an unknown account so callers cannot probe which field
	// was wrong.
	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_ResetPassword_UserNotFound(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), "9999999").Return(nil, nil)

	err := s.ResetPassword(context.Background(), dto.PasswordResetInput{StudentID: "9999999", Name: "Anyone"})

	assert.ErrorIs(t, err, autherror.ErrUserNotFound)
}

func TestAuthService_ResetPassword_DeliveryFailureDoesNotFail(t *testing.T) {
	s, mockRepo, _, mockNotifier := newService(t)

	user := activeUser(t, "old-password")

	input := dto.PasswordResetInput{StudentID: user.StudentID, Name: user.Name}

	mockRepo.EXPECT().GetByStudentID(gomock.Any(), input.StudentID).Return(user, nil)
	mockRepo.EXPECT().UpdatePassword(gomock.Any(), user.ID, gomock.Any(), false).Return(nil)
	mockNotifier.EXPECT().SendTemporaryPassword(gomock.Any(), user.Email, user.Name, gomock.Any()).
		Return(errors.New("smtp unreachable"))

	err := s.ResetPassword(context.Background(), input)

	// The password is already persisted; delivery failures are logged only.
	assert.NoError(t, err)
}

func TestAuthService_GetLoginHistory_Success(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	user := activeUser(t, "password123")
	reason := "password mismatch"

	claims := &service.JWTCustomClaims{
		Role:      "STUDENT",
		TokenType: string(service.KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.StudentID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	history := []domain.LoginHistory{
		{UserID: user.ID, LoginAt: time.Now(), IPAddress: "192.168.1.1", UserAgent: "test-agent", Success: true},
		{UserID: user.ID, LoginAt: time.Now().Add(-time.Hour), Success: false, FailReason: &reason},
	}

	mockTokens.EXPECT().Verify("access-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "access-token").Return(false, nil)
	mockRepo.EXPECT().GetByStudentID(gomock.Any(), user.StudentID).Return(user, nil)
	mockRepo.EXPECT().GetRecentLoginHistory(gomock.Any(), user.ID, authconstant.RecentLoginHistoryLimit).Return(history, nil)

	out, err := s.GetLoginHistory(context.Background(), "access-token")

	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.True(t, out[0].Success)
	assert.Equal(t, &reason, out[1].FailReason)
}

func TestAuthService_GetLoginHistory_RevokedToken(t *testing.T) {
	s, mockRepo, mockTokens, _ := newService(t)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "2024010",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("revoked-token").Return(claims, nil)
	mockRepo.EXPECT().IsTokenBlacklisted(gomock.Any(), "revoked-token").Return(true, nil)

	out, err := s.GetLoginHistory(context.Background(), "revoked-token")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestAuthService_GetLoginHistory_RefreshTokenRejected(t *testing.T) {
	s, _, mockTokens, _ := newService(t)

	claims := &service.JWTCustomClaims{
		TokenType: string(service.KindRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "2024010",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	mockTokens.EXPECT().Verify("refresh-token").Return(claims, nil)

	out, err := s.GetLoginHistory(context.Background(), "refresh-token")

	assert.Nil(t, out)
	assert.ErrorIs(t, err, autherror.ErrInvalidToken)
}

func TestAuthService_PurgeExpiredTokens(t *testing.T) {
	s, mockRepo, _, _ := newService(t)

	mockRepo.EXPECT().DeleteExpiredBlacklistTokens(gomock.Any(), gomock.Any()).Return(int64(3), nil)

	n, err := s.PurgeExpiredTokens(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
