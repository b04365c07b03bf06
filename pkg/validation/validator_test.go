package validation

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Role     string `json:"role" binding:"required,signuprole"`
	Code     string `json:"code" binding:"omitempty,otp"`
}

func TestToDetails_ValidationErrors(t *testing.T) {
	Init()

	tests := []struct {
		name string
		in   signupForm
		want map[string]string
	}{
		{
			name: "missing email",
			in:   signupForm{Password: "secret1", Role: "student"},
			want: map[string]string{"email": "is required"},
		},
		{
			name: "short password uses alias message",
			in:   signupForm{Email: "a@b.co", Password: "abc", Role: "student"},
			want: map[string]string{"password": "must be at least 6 characters long"},
		},
		{
			name: "admin cannot self register",
			in:   signupForm{Email: "a@b.co", Password: "secret1", Role: "admin"},
			want: map[string]string{"role": "must be one of: student, instructor"},
		},
		{
			name: "otp must be six digits",
			in:   signupForm{Email: "a@b.co", Password: "secret1", Role: "student", Code: "12ab56"},
			want: map[string]string{"code": "must be a 6 digit code"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.in)
			assert.Equal(t, tt.want, ToDetails(err))
		})
	}
}

func TestToDetails_JSONErrors(t *testing.T) {
	var v map[string]any
	err := json.Unmarshal([]byte("{"), &v)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}
