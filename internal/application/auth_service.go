package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/metrics"
)

// Notifier sends account emails (pkg/mailer.Notifier).
type Notifier interface {
	SendVerificationCode(ctx context.Context, to, name, code string, resend bool) error
	SendResetOTP(ctx context.Context, to, name, code string, expiresAt time.Time) error
}

// AuthService owns registration, verification, password reset and sessions.
type AuthService struct {
	Accounts repo.AccountRepository
	Notifier Notifier
	Index    repo.StudentIndex // optional
	JWT      *helpers.JWTManager
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics
	ResetTTL time.Duration

	// Now is the clock used for reset code expiry.
	Now func() time.Time
	// GenCode produces verification and reset codes.
	GenCode func() (string, error)
}

func NewAuthService(accounts repo.AccountRepository, notifier Notifier, index repo.StudentIndex, jwt *helpers.JWTManager, resetTTL time.Duration, logger *logrus.Logger, m *metrics.Metrics) *AuthService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AuthService{
		Accounts: accounts,
		Notifier: notifier,
		Index:    index,
		JWT:      jwt,
		Logger:   logger,
		Metrics:  m,
		ResetTTL: resetTTL,
		Now:      time.Now,
		GenCode:  helpers.GenOTPCode,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// MinPasswordLength is the shortest password accepted at signup.
const MinPasswordLength = 6

func checkPasswordLength(p string) error {
	if len(p) < MinPasswordLength {
		return newErr(KindInvalidInput, fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
	if len(p) > helpers.MaxPasswordBytes {
		return newErr(KindInvalidInput, fmt.Sprintf("Password must be at most %d bytes", helpers.MaxPasswordBytes))
	}
	return nil
}

type RegisterInput struct {
	FullName        string
	Email           string
	Password        string
	ConfirmPassword string
	Role            entity.Role
	AcceptTerms     bool
}

// Register creates an unverified account and emails its verification code.
// If the email cannot be delivered the account is removed again so the
// address stays free for a retry.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.Account, error) {
	email := NormalizeEmail(in.Email)

	if _, err := s.Accounts.GetByEmail(ctx, email); err == nil {
		return nil, newErr(KindConflict, "User is already registered")
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, internal("lookup account", err)
	}

	if err := checkPasswordLength(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, newErr(KindInvalidInput, "Passwords do not match")
	}
	if !in.AcceptTerms {
		return nil, newErr(KindInvalidInput, "Terms and conditions must be accepted")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleStudent
	}
	if role != entity.RoleStudent && role != entity.RoleInstructor {
		return nil, newErr(KindInvalidInput, "Invalid role")
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, internal("hash password", err)
	}
	code, err := s.GenCode()
	if err != nil {
		return nil, internal("generate code", err)
	}

	now := s.Now().UTC()
	acc := &entity.Account{
		Email:            email,
		PasswordHash:     hash,
		FullName:         strings.TrimSpace(in.FullName),
		Role:             role,
		AcceptTerms:      true,
		VerificationCode: code,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.Accounts.Create(ctx, acc); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, newErr(KindConflict, "User is already registered")
		}
		return nil, internal("create account", err)
	}

	sendErr := s.Notifier.SendVerificationCode(ctx, acc.Email, acc.FullName, code, false)
	s.Metrics.EmailSent("verification_code", sendErr)
	if sendErr != nil {
		if delErr := s.Accounts.Delete(ctx, acc.ID); delErr != nil {
			helpers.LogError(s.Logger, "rollback account after email failure", delErr, logrus.Fields{"account_id": acc.ID})
		}
		return nil, &Error{Kind: KindEmailDelivery, Message: "Failed to send verification email", Err: sendErr}
	}

	s.Metrics.Signup()
	s.index(ctx, acc)
	return acc, nil
}

// Verify checks the verification code. Already verified accounts succeed
// without change; verified reports whether this call flipped the flag.
func (s *AuthService) Verify(ctx context.Context, email, code string) (verified bool, err error) {
	acc, err := s.accountByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if acc.Verified {
		return false, nil
	}
	if acc.VerificationCode == "" || acc.VerificationCode != code {
		return false, newErr(KindInvalidCode, "Invalid verification code")
	}
	if err := s.Accounts.MarkVerified(ctx, acc.ID); err != nil {
		return false, internal("Failed to verify user", err)
	}
	acc.Verified = true
	acc.VerificationCode = ""
	s.index(ctx, acc)
	return true, nil
}

// ResendVerification issues and emails a fresh verification code.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	acc, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc.Verified {
		return newErr(KindAlreadyVerified, "Email is already verified")
	}
	code, err := s.GenCode()
	if err != nil {
		return internal("generate code", err)
	}
	if err := s.Accounts.SetVerificationCode(ctx, acc.ID, code); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return newErr(KindNotFound, "User not found")
		}
		return internal("store verification code", err)
	}
	sendErr := s.Notifier.SendVerificationCode(ctx, acc.Email, acc.FullName, code, true)
	s.Metrics.EmailSent("verification_code", sendErr)
	if sendErr != nil {
		return &Error{Kind: KindEmailDelivery, Message: "Failed to send verification email", Err: sendErr}
	}
	return nil
}

// Session is an issued session token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
}

// Login checks credentials and signs a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*entity.Account, Session, error) {
	acc, err := s.Accounts.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, Session{}, internal("lookup account", err)
	}
	if err != nil || !helpers.CompareHashAndPassword(acc.PasswordHash, password) {
		s.Metrics.Login(ErrInvalidCredentials)
		return nil, Session{}, ErrInvalidCredentials
	}

	ttl := s.JWT.Lifetime(remember)
	tok, exp, err := s.JWT.GenerateSessionToken(acc.ID, acc.Email, ttl)
	if err != nil {
		return nil, Session{}, internal("sign session", err)
	}
	s.Metrics.Login(nil)
	return acc, Session{Token: tok, ExpiresAt: exp, TTL: ttl}, nil
}

// Identity is the caller resolved from a session token.
type Identity struct {
	AccountID string
	Email     string
}

// ParseSession validates a session token.
func (s *AuthService) ParseSession(token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}
	claims, err := s.JWT.ParseSessionToken(token)
	if err != nil {
		return Identity{}, &Error{Kind: KindUnauthorized, Message: "Invalid token", Err: err}
	}
	return Identity{AccountID: claims.UserID, Email: claims.Email}, nil
}

// Account loads the account behind an identity.
func (s *AuthService) Account(ctx context.Context, id string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("load account", err)
	}
	return acc, nil
}

func (s *AuthService) accountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, internal("lookup account", err)
	}
	return acc, nil
}

// index pushes the account to the search index; failures are only logged.
func (s *AuthService) index(ctx context.Context, acc *entity.Account) {
	if s.Index == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.Index.Index(c, acc); err != nil {
		s.Logger.WithError(err).WithField("account_id", acc.ID).Warn("es index failed")
	}
}
