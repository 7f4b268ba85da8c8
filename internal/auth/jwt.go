package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lalith-99/almoftah/internal/models"
)

// Claims is the payload inside every JWT token.
//
// Role and Username travel in the token so handlers can build access
// filters and audit entries (createdByName, share history) without a
// database round-trip.
type Claims struct {
	UserID   uuid.UUID   `json:"user_id"`
	Role     models.Role `json:"role"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	jwt.RegisteredClaims
}

// Identity is who a token is issued for.
type Identity struct {
	UserID   uuid.UUID
	Role     models.Role
	Username string
	Email    string
}

// GenerateToken creates a signed HS256 JWT for the given identity.
func GenerateToken(id Identity, secret string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		UserID:   id.UserID,
		Role:     id.Role,
		Username: id.Username,
		Email:    id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "almoftah",
			Subject:   id.UserID.String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a JWT string and extracts the claims.
//
// It verifies the signature, the expiry, and that the signing method is
// HMAC (a token signed with "none" or RSA is rejected before the key is
// used).
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}
