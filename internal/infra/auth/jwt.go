package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the caller of an API request as stated by its bearer token.
type Identity struct {
	UserID   string
	TenantID string
	Role     string
}

type Claims struct {
	UserID   string `json:"userId"`
	TenantID string `json:"tenantId"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier checks HS256 tokens issued by the account service.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

func (v *Verifier) GetIdentity(tokenString string) (*Identity, error) {
	if len(v.secret) == 0 {
		return nil, errors.New("token verification is not configured")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(10*time.Second))
	if err != nil {
		return nil, fmt.Errorf("identity can't be retrieved, %w", err)
	}
	if claims.UserID == "" || claims.TenantID == "" {
		return nil, errors.New("identity can't be retrieved, token lacks userId or tenantId")
	}
	return &Identity{UserID: claims.UserID, TenantID: claims.TenantID, Role: claims.Role}, nil
}

// Sign issues a token for identity valid for ttl. Used by tooling and tests.
func (v *Verifier) Sign(identity Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   identity.UserID,
		TenantID: identity.TenantID,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
