package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/legacyapp/legacyapp-api/internal/core/domain"
)

// DefaultTokenTTL is the validity window of an issued token.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Claims is the payload of a bearer token: the user id travels in sub.
type Claims struct {
	jwt.RegisteredClaims
	Role domain.Role `json:"role"`
}

// JWTManager issues and verifies HS256 tokens signed with a shared secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTManager returns a JWTManager. A non-positive ttl falls back to
// DefaultTokenTTL.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &JWTManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock replaces the time source used for issuing and verifying.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	m.now = now
	return m
}

func (m *JWTManager) Issue(userID string, role domain.Role) (string, error) {
	if userID == "" {
		return "", errors.New("issue token: empty user id")
	}
	now := m.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
		Role: role,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Verify never reports why a token was rejected; every failure is
// domain.ErrInvalidToken.
func (m *JWTManager) Verify(token string) (domain.Caller, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return domain.Caller{}, domain.ErrInvalidToken
	}
	if claims.Subject == "" || !claims.Role.Valid() {
		return domain.Caller{}, domain.ErrInvalidToken
	}
	return domain.Caller{UserID: claims.Subject, Role: claims.Role}, nil
}
