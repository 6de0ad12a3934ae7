package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTTL      = 24 * time.Hour
	tokenIssuer   = "investcast"
	tokenAudience = "admin"

	AdminUserID = "admin"
	RoleAdmin   = "admin"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carried by an admin session token.
type Claims struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies signed admin session tokens (HS256).
type TokenService struct {
	secret []byte
	// ability to inject the clock (for unit testing token expiry)
	NowFunc func() time.Time
}

func NewTokenService(secret string) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is empty")
	}
	return &TokenService{
		secret:  []byte(secret),
		NowFunc: time.Now,
	}, nil
}

// Mint issues a signed session token, expiring TokenTTL from now.
func (ts *TokenService) Mint(userID, role string) (string, error) {
	now := ts.NowFunc()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience, and returns the
// decoded claims. Any failure maps to ErrInvalidToken.
func (ts *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			return ts.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return ts.NowFunc() }),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
