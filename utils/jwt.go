package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// Token roles.
const (
	RoleUser       = "user"
	RoleTechnician = "technician"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the caller identity.
type Claims struct {
	Role string `json:"role"`
	jwt.StandardClaims
}

// TokenManager signs and validates HS256 tokens.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// GenerateToken creates a signed token for subject with the given role.
func (m *TokenManager) GenerateToken(subject, role string, duration time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(duration).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ValidateToken parses tokenString and returns its claims.
func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	if len(m.secret) == 0 {
		return nil, errors.New("token secret is not configured")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || (claims.Role != RoleUser && claims.Role != RoleTechnician) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
