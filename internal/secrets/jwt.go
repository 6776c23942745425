package secrets

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTExpiry extracts the exp claim from a JWT without verifying its
// signature. It returns false when token is not a JWT or carries no expiry.
func JWTExpiry(token string) (*time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, false
	}
	t := exp.Time.UTC()
	return &t, true
}
