package application

import (
	"context"
	"errors"
	"time"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/helpers"
)

// RequestReset issues a reset code valid for ResetTTL and emails it.
// A new request replaces any outstanding code.
func (s *AuthService) RequestReset(ctx context.Context, email string) (time.Time, error) {
	acc, err := s.accountByEmail(ctx, email)
	if err != nil {
		return time.Time{}, err
	}
	code, err := s.GenCode()
	if err != nil {
		return time.Time{}, internal("generate code", err)
	}
	expires := s.Now().UTC().Add(s.ResetTTL)
	if err := s.Accounts.SetResetOTP(ctx, acc.ID, code, expires); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return time.Time{}, newErr(KindNotFound, "User not found")
		}
		return time.Time{}, internal("store reset code", err)
	}
	sendErr := s.Notifier.SendResetOTP(ctx, acc.Email, acc.FullName, code, expires)
	s.Metrics.EmailSent("reset_otp", sendErr)
	if sendErr != nil {
		return time.Time{}, &Error{Kind: KindEmailDelivery, Message: "Failed to send OTP email", Err: sendErr}
	}
	return expires, nil
}

// CheckOTP validates a reset code without consuming it.
func (s *AuthService) CheckOTP(ctx context.Context, email, code string) error {
	_, err := s.validOTP(ctx, email, code)
	return err
}

type ChangePasswordInput struct {
	Email           string
	OTP             string
	Password        string
	ConfirmPassword string
}

// ChangePassword sets a new password when the reset code is still valid and
// clears the code in the same update.
func (s *AuthService) ChangePassword(ctx context.Context, in ChangePasswordInput) error {
	if err := checkPasswordLength(in.Password); err != nil {
		return err
	}
	if in.Password != in.ConfirmPassword {
		return newErr(KindInvalidInput, "Passwords do not match")
	}
	acc, err := s.validOTP(ctx, in.Email, in.OTP)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return internal("hash password", err)
	}
	if err := s.Accounts.UpdatePassword(ctx, acc.ID, hash); err != nil {
		return internal("update password", err)
	}
	return nil
}

// validOTP applies the reset code checks in order: pending, match, expiry.
// Expiry is strict: a code is still valid at exactly its expiry instant.
func (s *AuthService) validOTP(ctx context.Context, email, code string) (*entity.Account, error) {
	acc, err := s.Accounts.GetByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, newErr(KindNoOtpPending, "OTP not requested or invalid.")
	}
	if err != nil {
		return nil, internal("lookup account", err)
	}
	if !acc.ResetPending() {
		return nil, newErr(KindNoOtpPending, "OTP not requested or invalid.")
	}
	if acc.ResetOTP != code {
		return nil, newErr(KindInvalidCode, "Invalid OTP.")
	}
	if s.Now().After(*acc.ResetOTPExpires) {
		return nil, newErr(KindExpired, "OTP expired.")
	}
	return acc, nil
}
