// Package share signs the inputs of one evaluation into a link token so the
// same calculation can be reopened without storing anything server side.
package share

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid or expired share token")
	ErrNoKey        = errors.New("share key is not set")
)

type Claims struct {
	Formula string             `json:"formula"`
	Inputs  map[string]float64 `json:"inputs"`
	jwt.RegisteredClaims
}

type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner returns an HS256 signer. A ttl of zero issues tokens that
// never expire.
func NewSigner(key []byte, ttl time.Duration) (*Signer, error) {
	if len(key) == 0 {
		return nil, ErrNoKey
	}
	return &Signer{key: key, ttl: ttl, now: time.Now}, nil
}

func (s *Signer) Sign(formula string, inputs map[string]float64) (string, error) {
	now := s.now()
	claims := Claims{
		Formula: formula,
		Inputs:  inputs,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("share: sign: %w", err)
	}
	return signed, nil
}

func (s *Signer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Formula == "" {
		return nil, fmt.Errorf("%w: no formula", ErrInvalidToken)
	}
	return claims, nil
}
