package database

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthService issues and validates JWT token pairs. Passwords never reach
// this layer; credential checks live in UserService.VerifyPassword.
type AuthService struct {
	jwtSecret []byte
}

// NewAuthService creates a new token service instance.
func NewAuthService(jwtSecret string) *AuthService {
	return &AuthService{jwtSecret: []byte(jwtSecret)}
}

// AccessTokenTTL is how long an access token stays valid.
const AccessTokenTTL = time.Hour

// GenerateTokenPair generates both access and refresh tokens carrying the
// user id and role.
func (s *AuthService) GenerateTokenPair(userID, role string) (string, string, error) {
	now := time.Now()

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"type":    "access",
		"exp":     now.Add(AccessTokenTTL).Unix(),
		"iat":     now.Unix(),
	})
	access, err := accessToken.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"type":    "refresh",
		"exp":     now.Add(30 * 24 * time.Hour).Unix(),
		"iat":     now.Unix(),
	})
	refresh, err := refreshToken.SignedString(s.jwtSecret)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// ValidateToken validates an access token and returns the user id and role.
func (s *AuthService) ValidateToken(tokenString string) (string, string, error) {
	return s.validate(tokenString, "access")
}

// ValidateRefreshToken validates a refresh token and returns the user id
// and role.
func (s *AuthService) ValidateRefreshToken(tokenString string) (string, string, error) {
	return s.validate(tokenString, "refresh")
}

func (s *AuthService) validate(tokenString, wantType string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", "", errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("invalid token claims")
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != wantType {
		return "", "", errors.New("wrong token type")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return "", "", errors.New("missing user id claim")
	}
	return userID, role, nil
}
