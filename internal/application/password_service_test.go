package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alnnovate/academy/pkg/helpers"
)

func TestRequestReset(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	acc := f.register(t, "ada@example.com")

	exp, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, f.now.Add(5*time.Minute), exp)

	stored := f.accounts.Get(acc.ID)
	require.True(t, stored.ResetPending())
	assert.Equal(t, exp, *stored.ResetOTPExpires)
	assert.Equal(t, stored.ResetOTP, f.mail.Last().Code)
	assert.Equal(t, "reset", f.mail.Last().Kind)

	_, err = f.svc.RequestReset(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckOTP(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "ada@example.com")

	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "ada@example.com", "123456"), ErrNoOtpPending)
	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "nobody@example.com", "123456"), ErrNoOtpPending)

	codes := []string{"111111", "222222"}
	f.svc.GenCode = func() (string, error) {
		c := codes[0]
		codes = codes[1:]
		return c, nil
	}
	_, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	_, err = f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.CheckOTP(ctx, "ada@example.com", "111111"), ErrInvalidCode, "only the latest code is valid")
	require.NoError(t, f.svc.CheckOTP(ctx, "ada@example.com", "222222"))
	require.NoError(t, f.svc.CheckOTP(ctx, "ada@example.com", "222222"), "checking does not consume the code")
}

func TestCheckOTP_ExpiryBoundary(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		wantErr error
	}{
		{name: "well within window", elapsed: time.Minute},
		{name: "exactly at expiry is still valid", elapsed: 5 * time.Minute},
		{name: "one nanosecond past expiry", elapsed: 5*time.Minute + time.Nanosecond, wantErr: ErrExpired},
		{name: "301 seconds later", elapsed: 301 * time.Second, wantErr: ErrExpired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture(t)
			ctx := context.Background()
			f.register(t, "ada@example.com")
			_, err := f.svc.RequestReset(ctx, "ada@example.com")
			require.NoError(t, err)
			code := f.mail.Last().Code

			f.now = f.now.Add(tt.elapsed)
			err = f.svc.CheckOTP(ctx, "ada@example.com", code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	acc := f.register(t, "ada@example.com")
	_, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	code := f.mail.Last().Code

	err = f.svc.ChangePassword(ctx, ChangePasswordInput{Email: "ada@example.com", OTP: code, Password: "newpass1", ConfirmPassword: "newpass1"})
	require.NoError(t, err)

	stored := f.accounts.Get(acc.ID)
	assert.True(t, helpers.CompareHashAndPassword(stored.PasswordHash, "newpass1"))
	assert.False(t, stored.ResetPending())
	assert.Empty(t, stored.ResetOTP)
	assert.Nil(t, stored.ResetOTPExpires)

	err = f.svc.ChangePassword(ctx, ChangePasswordInput{Email: "ada@example.com", OTP: code, Password: "again11", ConfirmPassword: "again11"})
	assert.ErrorIs(t, err, ErrNoOtpPending, "a used code cannot be replayed")

	_, _, err = f.svc.Login(ctx, "ada@example.com", "newpass1", false)
	assert.NoError(t, err)
}

func TestChangePassword_MismatchMutatesNothing(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	acc := f.register(t, "ada@example.com")
	_, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	before := f.accounts.Get(acc.ID)

	err = f.svc.ChangePassword(ctx, ChangePasswordInput{Email: "ada@example.com", OTP: before.ResetOTP, Password: "newpass1", ConfirmPassword: "newpass2"})
	require.ErrorIs(t, err, ErrInvalidInput)

	after := f.accounts.Get(acc.ID)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)
	assert.Equal(t, before.ResetOTP, after.ResetOTP)
	assert.Equal(t, before.ResetOTPExpires, after.ResetOTPExpires)
}

func TestChangePassword_TooLongKeepsCode(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	acc := f.register(t, "ada@example.com")
	_, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	before := f.accounts.Get(acc.ID)

	long := strings.Repeat("p", 73)
	err = f.svc.ChangePassword(ctx, ChangePasswordInput{Email: "ada@example.com", OTP: before.ResetOTP, Password: long, ConfirmPassword: long})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, f.accounts.Get(acc.ID).ResetPending())
}

func TestChangePassword_ExpiredScenario(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	acc := f.register(t, "ada@example.com")
	_, err := f.svc.RequestReset(ctx, "ada@example.com")
	require.NoError(t, err)
	code := f.mail.Last().Code
	before := f.accounts.Get(acc.ID).PasswordHash

	f.now = f.now.Add(301 * time.Second)
	err = f.svc.ChangePassword(ctx, ChangePasswordInput{Email: "ada@example.com", OTP: code, Password: "newpass1", ConfirmPassword: "newpass1"})
	require.ErrorIs(t, err, ErrExpired)
	assert.Equal(t, before, f.accounts.Get(acc.ID).PasswordHash)
}
