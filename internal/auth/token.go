package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/pdam-portal/internal/domain"
)

// TokenManager handles issuing and validating JWT session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	if ttlMinutes <= 0 {
		ttlMinutes = 7 * 24 * 60
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlMinutes) * time.Minute}
}

// Claims describes the JWT payload. Role and status gate route access;
// customer number and water quota are cached so dashboards can render
// without an extra lookup (refreshed via the session refresh endpoint).
type Claims struct {
	UserID     string            `json:"sub"`
	Role       domain.UserRole   `json:"role"`
	Status     domain.UserStatus `json:"status"`
	CustomerID *string           `json:"customer_id,omitempty"`
	CustomerNo *string           `json:"customer_no,omitempty"`
	WaterQuota *float64          `json:"water_quota,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken builds and signs a JWT for the user, embedding customer
// session data when present.
func (tm *TokenManager) GenerateToken(user *domain.User, customer *domain.Customer) (string, time.Time, error) {
	expiresAt := time.Now().Add(tm.ttl)
	claims := &Claims{
		UserID: user.ID,
		Role:   user.Role,
		Status: user.Status,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if customer != nil {
		claims.CustomerID = &customer.ID
		claims.CustomerNo = customer.CustomerNo
		quota := customer.WaterQuota
		claims.WaterQuota = &quota
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
