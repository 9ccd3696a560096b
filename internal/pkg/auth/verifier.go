package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/huddleapp/huddle/internal/app/models"
)

// Token errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// VerifierConfig defines token verification settings. The secret is shared
// with the hosted identity provider; this service only verifies, it never
// mints or refreshes tokens.
type VerifierConfig struct {
	SecretKey string
	Issuer    string
}

// Verifier validates identity-provider tokens and extracts the identity
// context they carry.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier creates a new token verifier
func NewVerifier(config VerifierConfig) *Verifier {
	return &Verifier{config: config}
}

// Claims defines the token content the engine consumes. Subject is the
// provider's stable user id.
type Claims struct {
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	jwt.RegisteredClaims
}

// Verify validates a token and returns the identity context it asserts.
func (v *Verifier) Verify(tokenString string) (*models.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(v.config.SecretKey), nil
	}, jwt.WithIssuer(v.config.Issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return &models.Identity{
		UserID:      claims.Subject,
		DisplayName: claims.DisplayName,
		AvatarURL:   claims.AvatarURL,
	}, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", ErrInvalidFormat
	}

	return parts[1], nil
}
