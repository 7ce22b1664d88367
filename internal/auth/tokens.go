package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"playarena/internal/shared/config"
	"playarena/internal/users"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenIssuer      = "playarena"
)

// JWTClaims is the payload of both token kinds. The middleware reads the same
// user_id/role/type keys from a map, so the JSON names are part of the contract.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}

// TokenPair is returned on login, registration and refresh
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// signer issues and parses HS256 tokens
type signer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func newSigner(cfg config.JWTConfig) *signer {
	return &signer{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.JWTExpiresIn,
		refreshTTL: cfg.RefreshExpiresIn,
		now:        time.Now,
	}
}

func (s *signer) issue(user *users.User) (*TokenPair, error) {
	now := s.now()
	access, err := s.sign(user, tokenTypeAccess, now.Add(s.accessTTL), now)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, tokenTypeRefresh, now.Add(s.refreshTTL), now)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.accessTTL / time.Second),
	}, nil
}

func (s *signer) sign(user *users.User, tokenType string, expires, now time.Time) (string, error) {
	id := user.ID.String()
	claims := JWTClaims{
		UserID: id,
		Email:  user.Email,
		Role:   string(user.Role),
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// parse verifies the signature and expiry. An empty wantType accepts either kind.
func (s *signer) parse(raw, wantType string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		var verr *jwt.ValidationError
		if errors.As(err, &verr) && verr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || (wantType != "" && claims.Type != wantType) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
