// Package security provides JWT token utilities
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenTypeAdmin marks admin session tokens
const TokenTypeAdmin = "admin_auth"

// ValidateJWT validates an HS256 token and returns the claims
func ValidateJWT(tokenString, jwtSecret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// SignClaims signs claims with HS256, filling iat and exp when absent
func SignClaims(claims jwt.MapClaims, jwtSecret string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = now.Unix()
	}
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = now.Add(ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// GenerateAdminToken creates the admin session token stored in the auth cookie
func GenerateAdminToken(jwtSecret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"type": TokenTypeAdmin,
		"jti":  GenerateULID(),
	}
	return SignClaims(claims, jwtSecret, ttl)
}

// IsAdminToken reports whether tokenString is a valid admin session token
func IsAdminToken(tokenString, jwtSecret string) bool {
	if tokenString == "" || jwtSecret == "" {
		return false
	}
	claims, err := ValidateJWT(tokenString, jwtSecret)
	if err != nil {
		return false
	}
	tokenType, ok := claims["type"].(string)
	if !ok || tokenType != TokenTypeAdmin {
		return false
	}
	role, ok := claims["role"].(string)
	return ok && role == "admin"
}
