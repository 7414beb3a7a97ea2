package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// jwtSign builds an HMAC-signed token for tests. The client never verifies
// signatures, it only reads the exp claim.
func jwtSign(exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": "client-tests",
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte("test-secret"))
}
