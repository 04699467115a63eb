// Package auth issues and verifies bearer tokens, hashes passwords and
// carries the verified caller identity through request contexts.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the JWT payload: the standard registered claims (subject holds
// the user ID) plus the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"typ"`
}

// TokenService signs and verifies HMAC JWTs. It holds no mutable state and
// is safe for concurrent use.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService validates its inputs once; alg must be HS256, HS384 or HS512.
func NewTokenService(secret []byte, alg string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 32 {
		return nil, errors.New("token secret must be at least 32 bytes")
	}

	var method jwt.SigningMethod
	switch alg {
	case "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}

	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}

	key := make([]byte, len(secret))
	copy(key, secret)

	return &TokenService{
		secret:     key,
		method:     method,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// IssueAccess returns a short-lived access token for userID.
func (s *TokenService) IssueAccess(userID int64) (string, error) {
	return s.issue(userID, KindAccess, s.accessTTL)
}

// IssueRefresh returns a long-lived refresh token for userID.
func (s *TokenService) IssueRefresh(userID int64) (string, error) {
	return s.issue(userID, KindRefresh, s.refreshTTL)
}

func (s *TokenService) issue(userID int64, kind TokenKind, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Kind: kind,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature and expiry and returns the identity in the
// subject. The second result is false for any malformed, forged or expired
// token, or one without a usable subject. The kind claim is not checked.
func (s *TokenService) Verify(tokenString string) (Identity, bool) {
	claims, ok := s.parse(tokenString)
	if !ok {
		return Identity{}, false
	}
	return identityFromClaims(claims)
}

// VerifyAccess is Verify restricted to access tokens.
func (s *TokenService) VerifyAccess(tokenString string) (Identity, bool) {
	return s.verifyKind(tokenString, KindAccess)
}

// VerifyRefresh is Verify restricted to refresh tokens.
func (s *TokenService) VerifyRefresh(tokenString string) (Identity, bool) {
	return s.verifyKind(tokenString, KindRefresh)
}

func (s *TokenService) verifyKind(tokenString string, kind TokenKind) (Identity, bool) {
	claims, ok := s.parse(tokenString)
	if !ok || claims.Kind != kind {
		return Identity{}, false
	}
	return identityFromClaims(claims)
}

func (s *TokenService) parse(tokenString string) (*Claims, bool) {
	if tokenString == "" {
		return nil, false
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, false
	}

	return claims, true
}

func identityFromClaims(claims *Claims) (Identity, bool) {
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Identity{}, false
	}
	return Identity{userID: id}, true
}
