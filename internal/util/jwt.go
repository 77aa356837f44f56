package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the bearer-token payload: identity plus the role/dept used for
// authorization decisions.
type Claims struct {
	UserID uint   `json:"id"`
	Role   string `json:"role"`
	Dept   string `json:"dept"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken signs an HS256 JWT for the user, valid for ttl
// (default 7 days).
func GenerateToken(secret string, userID uint, role, dept, email string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		Dept:   dept,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies an HS256 JWT and returns its claims. Errors wrap the
// jwt/v5 sentinels, so callers can distinguish expiry from a bad signature
// with errors.Is.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
