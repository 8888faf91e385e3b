package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

const tokenTTL = 24 * time.Hour

var ErrInvalidToken = fmt.Errorf("invalid token: %w", apperror.ErrUnauthorized)

type AuthService interface {
	GenerateToken(playerID string) (string, error)
	ParseToken(token string) (string, error)
}

type playerClaims struct {
	jwt.RegisteredClaims
}

type authService struct {
	secretKey []byte
	now       func() time.Time
}

func NewAuthService(secretKey string) AuthService {
	return &authService{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}
}

func (that *authService) GenerateToken(playerID string) (string, error) {
	issuedAt := that.now()

	claims := playerClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   playerID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(that.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ParseToken returns the player id carried by a valid, unexpired token.
func (that *authService) ParseToken(tokenString string) (string, error) {
	claims := &playerClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return that.secretKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
