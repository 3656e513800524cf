package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/patronly/patronly/internal/common"
)

// Claims carries the identity id and its login label (email or wallet
// address) inside a session token, alongside the standard expiry claim.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Label  string `json:"label"`
}

// GenerateSessionToken mints an HS256 session token for the given identity.
// Expiry is absolute: issuance time plus validityDuration. There is no
// rotation or refresh; once the token expires the client re-authenticates.
func GenerateSessionToken(userID, label string, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		UserID: userID,
		Label:  label,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseSessionToken validates tokenString and returns the encoded identity id.
// Expired tokens yield common.ErrTokenExpired; any structural or signature
// problem yields common.ErrInvalidToken.
func ParseSessionToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid {
		return "", common.ErrInvalidToken
	}

	return claims.UserID, nil
}
