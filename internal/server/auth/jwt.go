// Package auth mints and verifies the stateless bearer tokens that gate the
// admin API. Tokens are HS256-signed JWTs carrying the account ID and role;
// validity is determined entirely by the signature and the expiry claim, so
// no server-side session table is needed.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/davidmr/portfoliocms/internal/common"
	"github.com/davidmr/portfoliocms/internal/server/models"
)

// Claims are the registered claims plus the account identity and role.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
	Role   string `json:"role"`
}

// GenerateToken mints a signed token for the given account, valid for
// validityDuration from now.
func GenerateToken(userID, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserID: userID,
		Role:   role,
	})

	return token.SignedString(secretKey)
}

// ParseToken verifies the signature and expiry and returns the embedded
// claims. Expired tokens yield common.ErrTokenExpired; anything else that
// fails to verify yields common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// Manager bundles the signing secret and TTL so that handlers do not carry
// them around individually.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue mints a token bound to the user's identity and role.
func (m *Manager) Issue(user *models.User) (string, error) {
	return GenerateToken(user.ID, user.Role, m.secret, m.ttl)
}

// Parse verifies a presented token.
func (m *Manager) Parse(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, m.secret)
}
