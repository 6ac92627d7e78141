package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrNonceMismatch is returned when a nonce was issued for another action
var ErrNonceMismatch = errors.New("nonce action mismatch")

const tokenTypeNonce = "form_nonce"

// GenerateFormNonce issues a signed, expiring token bound to one form action
func GenerateFormNonce(jwtSecret, action string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"type":   tokenTypeNonce,
		"action": action,
		"jti":    GenerateULID(),
	}
	return SignClaims(claims, jwtSecret, ttl)
}

// ValidateFormNonce checks signature, expiry and the bound action
func ValidateFormNonce(nonce, jwtSecret, action string) error {
	if nonce == "" {
		return errors.New("missing nonce")
	}
	claims, err := ValidateJWT(nonce, jwtSecret)
	if err != nil {
		return err
	}
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeNonce {
		return errors.New("not a form nonce")
	}
	if bound, _ := claims["action"].(string); bound != action {
		return ErrNonceMismatch
	}
	return nil
}
