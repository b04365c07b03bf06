package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTManager signs and validates session tokens (HS256).
type JWTManager struct {
	Secret      []byte
	TTL         time.Duration
	RememberTTL time.Duration
}

func NewJWTManager(secret string, ttl, rememberTTL time.Duration) *JWTManager {
	return &JWTManager{
		Secret:      []byte(secret),
		TTL:         ttl,
		RememberTTL: rememberTTL,
	}
}

// Claims identifies the account a session belongs to.
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Lifetime returns the session lifetime for the remember flag.
func (m *JWTManager) Lifetime(remember bool) time.Duration {
	if remember {
		return m.RememberTTL
	}
	return m.TTL
}

// GenerateSessionToken signs a token for the account that expires after ttl.
func (m *JWTManager) GenerateSessionToken(userID, email string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.Secret)
	return s, exp, err
}

func (m *JWTManager) ParseSessionToken(tokenStr string) (*Claims, error) {
	return parseToken(tokenStr, m.Secret)
}

func parseToken(tokenStr string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
