package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SupabaseAudience is the audience Supabase stamps on signed-in user tokens.
const SupabaseAudience = "authenticated"

// GenerateJWT signs an HS256 token for userID in the shape Supabase issues.
func GenerateJWT(userID string, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		Audience:  jwt.ClaimStrings{SupabaseAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseAndValidateJWT parses a Supabase access token, checking the HMAC
// signature, expiry and audience. The subject is the user id.
func ParseAndValidateJWT(tokenString string, secretKey string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secretKey), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(SupabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
