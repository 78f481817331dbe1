package service

import (
	"errors"
	"time"

	"lockbox/backend/common"
	"lockbox/backend/model"

	"github.com/golang-jwt/jwt/v5"
)

const (
	accessTokenLifetime  = 24 * time.Hour
	refreshTokenLifetime = 7 * 24 * time.Hour
	tokenIssuer          = "lockbox"
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID      int64  `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        int    `json:"role"`
	jwt.RegisteredClaims
}

func newClaims(user *model.User, lifetime time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID:      user.ID,
		Username:    user.Username,
		DisplayName: user.ScreenName(),
		Role:        user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}
}

// GenerateToken issues a signed access token for the user.
func GenerateToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(user, accessTokenLifetime))
	return token.SignedString([]byte(common.JWTSecret))
}

// GenerateRefreshToken issues a longer-lived token signed with the refresh
// secret.
func GenerateRefreshToken(user *model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, newClaims(user, refreshTokenLifetime))
	return token.SignedString([]byte(common.JWTRefreshSecret))
}

func parseToken(tokenString string, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func ValidateToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, common.JWTSecret)
}

func ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, common.JWTRefreshSecret)
}
