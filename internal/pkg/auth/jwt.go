// internal/pkg/auth/jwt.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/your-org/butcher-storefront/internal/config"
)

const tokenTypeAdmin = "admin_session"

// ErrSessionMismatch is returned when a token was issued to another browser session
var ErrSessionMismatch = errors.New("token belongs to a different session")

// Claims represents the admin cookie claims
type Claims struct {
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT operations
type JWTManager struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(cfg *config.Config) *JWTManager {
	return &JWTManager{
		secret: []byte(cfg.JWT.Secret),
		issuer: cfg.App.Name,
		expiry: cfg.JWT.AdminExpiry,
		now:    time.Now,
	}
}

// GenerateAdminToken signs a token binding the admin flag to a browser session
func (j *JWTManager) GenerateAdminToken(sessionID, username string) (string, error) {
	now := j.now().UTC()

	claims := &Claims{
		SessionID: sessionID,
		Username:  username,
		IsAdmin:   true,
		TokenType: tokenTypeAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    j.issuer,
			Subject:   "session:" + sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

// ValidateToken validates and parses a JWT token
func (j *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return claims, nil
}

// ValidateAdminToken checks the token is an admin token for sessionID
func (j *JWTManager) ValidateAdminToken(tokenString, sessionID string) (*Claims, error) {
	claims, err := j.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.TokenType != tokenTypeAdmin || !claims.IsAdmin {
		return nil, fmt.Errorf("invalid token type: expected %s, got %s", tokenTypeAdmin, claims.TokenType)
	}
	if claims.SessionID != sessionID {
		return nil, ErrSessionMismatch
	}

	return claims, nil
}
