package service

//go:generate mockgen -destination=../../mocks/mock_repository.go -package=mocks github.com/scms-platform/auth-service/internal/auth/domain UserRepository

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/scms-platform/auth-service/internal/auth/domain"
	"github.com/scms-platform/auth-service/internal/auth/dto"
	autherror "github.com/scms-platform/auth-service/internal/errors"
	"github.com/scms-platform/auth-service/pkg/constant"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	repo     domain.UserRepository
	tokens   TokenGenerator
	notifier Notifier
}

func NewAuthService(repo domain.UserRepository, tokens TokenGenerator, notifier Notifier) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Login verifies the student id and password, updates the lockout state and
// writes one login history record per attempt that resolved an identity.
func (s *AuthService) Login(ctx context.Context, input dto.LoginInput) (*dto.LoginResponse, error) {
	user, err := s.repo.GetByStudentID(ctx, input.StudentID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		// No identity to attach a history record to. The caller-visible
		// error must not reveal whether the student id exists.
		log.Printf("login failed - user not found: %s", input.StudentID)
		return nil, autherror.ErrInvalidCredentials
	}

	if user.AccountLocked {
		if err := s.repo.RecordLoginAttempt(ctx, user.ID, false, "account locked", input.IPAddress, input.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		return nil, autherror.ErrAccountLocked
	}

	if !user.IsActive {
		if err := s.repo.RecordLoginAttempt(ctx, user.ID, false, "account disabled", input.IPAddress, input.UserAgent); err != nil {
			return nil, fmt.Errorf("failed to record login attempt: %w", err)
		}
		return nil, autherror.ErrAccountDisabled
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		updated, err := s.repo.RecordLoginFailure(ctx, user.ID, "password mismatch", input.IPAddress, input.UserAgent)
		if err != nil {
			return nil, fmt.Errorf("failed to record login failure: %w", err)
		}

		log.Printf("login failed - invalid password for %s, fail count %d", user.StudentID, updated.LoginFailCount)

		return nil, autherror.ErrInvalidCredentials
	}

	if err := s.repo.RecordLoginSuccess(ctx, user.ID, input.IPAddress, input.UserAgent); err != nil {
		return nil, fmt.Errorf("failed to record login success: %w", err)
	}

	accessToken, _, err := s.tokens.Generate(user.StudentID, string(user.Role), KindAccess)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.tokens.Generate(user.StudentID, string(user.Role), KindRefresh)
	if err != nil {
		return nil, err
	}

	log.Printf("login successful for %s", user.StudentID)

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    constant.DefaultTokenType,
		ExpiresIn:    int64(s.tokens.GetAccessTokenExpiry().Seconds()),
		User: dto.UserInfo{
			UserID:    user.ID,
			StudentID: user.StudentID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      string(user.Role),
		},
	}, nil
}

// Logout revokes a token of either kind by adding it to the blacklist with
// its natural expiry preserved. Revoking an already-revoked token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	blacklisted, err := s.repo.IsTokenBlacklisted(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to check blacklist: %w", err)
	}

	if blacklisted {
		log.Printf("token already blacklisted")
		return nil
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByStudentID(ctx, claims.Subject)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	entry := &domain.BlacklistedToken{
		ID:            uuid.NewString(),
		Token:         token,
		BlacklistedAt: time.Now(),
		ExpiresAt:     claims.ExpiresAt.Time,
		UserID:        user.ID,
	}

	if err := s.repo.AddToBlacklist(ctx, entry); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	log.Printf("token blacklisted for %s", claims.Subject)

	return nil
}

// Signup creates a new student account. No token is issued; a separate login
// call is required.
func (s *AuthService) Signup(ctx context.Context, input dto.SignupInput) error {
	if input.Password != input.PasswordConfirm {
		return autherror.ErrPasswordMismatch
	}

	existing, err := s.repo.GetByStudentID(ctx, input.StudentID)
	if err != nil {
		return err
	}
	if existing != nil {
		return autherror.ErrDuplicateStudentID
	}

	existing, err = s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return autherror.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var dateOfBirth *time.Time
	if input.DateOfBirth != "" {
		parsed, err := time.Parse(dto.DateLayout, input.DateOfBirth)
		if err != nil {
			return fmt.Errorf("invalid date of birth: %w", err)
		}
		dateOfBirth = &parsed
	}

	now := time.Now()

	user := &domain.User{
		StudentID:      input.StudentID,
		Name:           input.Name,
		Email:          input.Email,
		PasswordHash:   string(hash),
		DateOfBirth:    dateOfBirth,
		Address:        input.Address,
		Role:           domain.RoleStudent,
		IsActive:       true,
		LoginFailCount: 0,
		AccountLocked:  false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	log.Printf("new user registered: %s", user.StudentID)

	return nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access token.
// The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	claims, err := s.tokens.Verify(input.RefreshToken)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.repo.IsTokenBlacklisted(ctx, input.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		log.Printf("refresh rejected - token revoked for %s", claims.Subject)
		return nil, autherror.ErrInvalidToken
	}

	if claims.TokenType != string(KindRefresh) {
		log.Printf("refresh rejected - wrong token kind for %s", claims.Subject)
		return nil, autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByStudentID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	accessToken, _, err := s.tokens.Generate(user.StudentID, string(user.Role), KindAccess)
	if err != nil {
		return nil, err
	}

	log.Printf("token refreshed for %s", user.StudentID)

	return &dto.RefreshResponse{
		AccessToken: accessToken,
		TokenType:   constant.DefaultTokenType,
		ExpiresIn:   int64(s.tokens.GetAccessTokenExpiry().Seconds()),
	}, nil
}

// ResetPassword issues a temporary password after verifying the claimed name
// and, when supplied, date of birth. Any mismatch reports the same error kind
// as an unknown account.
func (s *AuthService) ResetPassword(ctx context.Context, input dto.PasswordResetInput) error {
	user, err := s.repo.GetByStudentID(ctx, input.StudentID)
	if err != nil {
		return err
	}
	if user == nil {
		return autherror.ErrUserNotFound
	}

	if user.Name != input.Name {
		return autherror.ErrUserNotFound
	}

	if input.DateOfBirth != "" {
		if user.DateOfBirth == nil || user.DateOfBirth.Format(dto.DateLayout) != input.DateOfBirth {
			return autherror.ErrUserNotFound
		}
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		return fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash), user.AccountLocked); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.notifier.SendTemporaryPassword(ctx, user.Email, user.Name, tempPassword); err != nil {
		// The password is already persisted; a delivery failure must not
		// roll the reset back.
		log.Printf("warn: failed to deliver temporary password for %s: %v", user.StudentID, err)
	}

	log.Printf("password reset for %s", user.StudentID)

	return nil
}

// GetLoginHistory returns the most recent login attempts for the account
// behind a valid, unrevoked access token.
func (s *AuthService) GetLoginHistory(ctx context.Context, accessToken string) ([]dto.LoginHistoryOutput, error) {
	claims, err := s.tokens.Verify(accessToken)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != string(KindAccess) {
		return nil, autherror.ErrInvalidToken
	}

	blacklisted, err := s.repo.IsTokenBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check blacklist: %w", err)
	}
	if blacklisted {
		return nil, autherror.ErrInvalidToken
	}

	user, err := s.repo.GetByStudentID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, autherror.ErrUserNotFound
	}

	history, err := s.repo.GetRecentLoginHistory(ctx, user.ID, constant.RecentLoginHistoryLimit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.LoginHistoryOutput, 0, len(history))
	for _, h := range history {
		out = append(out, dto.LoginHistoryOutput{
			LoginAt:    h.LoginAt,
			IPAddress:  h.IPAddress,
			UserAgent:  h.UserAgent,
			Success:    h.Success,
			FailReason: h.FailReason,
		})
	}

	return out, nil
}

// PurgeExpiredTokens drops blacklist entries whose natural expiry has passed.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredBlacklistTokens(ctx, time.Now())
}

func generateTempPassword() (string, error) {
	buf := make([]byte, constant.TempPasswordLength)
	max := big.NewInt(int64(len(constant.TempPasswordCharset)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = constant.TempPasswordCharset[n.Int64()]
	}

	return string(buf), nil
}
