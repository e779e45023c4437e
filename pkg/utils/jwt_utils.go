package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSecretKey signs and verifies tokens. Overridable via JWT_SECRET so
// deployments never run on the built-in development key.
var jwtSecretKey = []byte(Getenv("JWT_SECRET", "dev-only-kiosco-pos-jwt-key"))

const (
	AccessTokenTTL  = 8 * time.Hour      // Covers a full shift
	RefreshTokenTTL = 7 * 24 * time.Hour // Refresh token lives for 7 days
)

// Claims defines the JWT claims structure
type Claims struct {
	OperatorID int64  `json:"operator_id"`
	Username   string `json:"username"`
	Role       string `json:"role"` // Operator role for authorization
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a new JWT access token for a given operator ID, username, and role.
func GenerateAccessToken(operatorID int64, username string, role string) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)
	claims := &Claims{
		OperatorID: operatorID,
		Username:   username,
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "kiosco-pos-backend",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return tokenString, nil
}

// GenerateRefreshToken creates a new JWT refresh token for a given operator ID.
// Refresh tokens carry fewer claims and a longer expiry.
func GenerateRefreshToken(operatorID int64) (string, error) {
	expirationTime := time.Now().Add(RefreshTokenTTL)
	claims := &Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "kiosco-pos-backend-refresh",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token string.
// It returns the claims if the token is valid, otherwise an error.
func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecretKey, nil
	})

	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}
