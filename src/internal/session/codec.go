package session

import (
	"errors"
	"fmt"
	"time"

	"employee-review-svc/src/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

type cookieClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Codec signs session ids into cookie values and verifies them back.
type Codec struct {
	secret []byte
}

func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

func (c *Codec) Encode(id string) (string, error) {
	claims := cookieClaims{
		SessionID: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	value, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}
	return value, nil
}

func (c *Codec) Decode(value string) (string, error) {
	token, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrSessionInvalid, err)
	}

	claims, ok := token.Claims.(*cookieClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return "", models.ErrSessionInvalid
	}
	return claims.SessionID, nil
}

// IsInvalid reports whether err came from a cookie that failed verification.
func IsInvalid(err error) bool {
	return errors.Is(err, models.ErrSessionInvalid)
}
