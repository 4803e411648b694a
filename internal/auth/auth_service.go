package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const sessionTokenType = "session"

// AuthService signs and verifies session tokens.
type AuthService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	sessionTTL time.Duration
	now        func() time.Time
}

// SessionClaims are carried in the session cookie.
type SessionClaims struct {
	AccountID uint   `json:"account_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// NewAuthService parses PEM keys and builds the service.
func NewAuthService(privateKeyPEM, publicKeyPEM []byte, sessionTTL time.Duration) (*AuthService, error) {
	if len(privateKeyPEM) == 0 {
		return nil, errors.New("private key pem is required")
	}
	if len(publicKeyPEM) == 0 {
		return nil, errors.New("public key pem is required")
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa private key: %w", err)
	}
	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parse rsa public key: %w", err)
	}

	return NewAuthServiceFromKeys(privateKey, publicKey, sessionTTL), nil
}

// NewAuthServiceFromKeys builds the service from parsed keys.
func NewAuthServiceFromKeys(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		privateKey: privateKey,
		publicKey:  publicKey,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// IssueSession creates a signed session token for accountID.
func (s *AuthService) IssueSession(accountID uint) (string, *SessionClaims, error) {
	now := s.now()
	claims := &SessionClaims{
		AccountID: accountID,
		TokenType: sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.sessionTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(s.privateKey)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// ValidateSession parses and verifies a session token.
func (s *AuthService) ValidateSession(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("token string is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodRS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.publicKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != sessionTokenType {
		return nil, fmt.Errorf("unexpected token type %q", claims.TokenType)
	}
	if claims.AccountID == 0 {
		return nil, errors.New("token has no account")
	}

	return claims, nil
}

// SessionTTL exposes the session lifetime.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessionTTL
}
