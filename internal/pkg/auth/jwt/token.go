package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// AccessExpiration is the lifetime of bearer tokens.
	AccessExpiration = 1 * time.Hour

	// RefreshExpiration is the lifetime of refresh tokens.
	RefreshExpiration = 14 * 24 * time.Hour

	// TokenIssuer identifies the issuer of the token.
	TokenIssuer = "habitpet-devserver"
)

// GenerateToken signs payload with HS256 and the given lifetime.
func GenerateToken(payload *Payload, secretKey string, duration time.Duration) (string, error) {
	now := time.Now()

	payload.StandardClaims = jwt.StandardClaims{
		ExpiresAt: now.Add(duration).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, payload)

	return token.SignedString([]byte(secretKey))
}

// GeneratePair issues an access token and a refresh token for the same identity.
func GeneratePair(userID int64, email, role string, version int, secretKey string) (access, refresh string, err error) {
	access, err = GenerateToken(&Payload{
		UserID:  userID,
		Email:   email,
		Role:    role,
		Kind:    KindAccess,
		Version: version,
	}, secretKey, AccessExpiration)
	if err != nil {
		return "", "", err
	}

	refresh, err = GenerateToken(&Payload{
		UserID:  userID,
		Email:   email,
		Role:    role,
		Kind:    KindRefresh,
		Version: version,
	}, secretKey, RefreshExpiration)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

// ParseToken parses and validates the token string using secretKey.
func ParseToken(tokenString string, secretKey string) (*Payload, error) {
	claims := &Payload{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	return claims, nil
}
