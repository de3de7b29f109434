package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity snapshot embedded in a token. It may go stale
// until the client re-authenticates; the store remains authoritative.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// TokenService issues and verifies HS256 identity tokens. There is no
// refresh flow: once a token passes its TTL the client logs in again.
type TokenService struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func (t TokenService) CreateToken(userID, email, role string) (string, int64, error) {
	now := time.Now().UTC()
	exp := now.Add(t.TTL)
	claims := jwt.MapClaims{
		"iss":   t.Issuer,
		"sub":   userID,
		"email": email,
		"role":  role,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.Secret)
	return signed, exp.Unix(), err
}

// ParseToken verifies signature, expiry and issuer. Every failure mode
// collapses into ErrInvalidToken; callers answer 401 either way.
func (t TokenService) ParseToken(tokenStr string) (Claims, error) {
	raw := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, raw, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return t.Secret, nil
	}, jwt.WithIssuer(t.Issuer))
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	userID, _ := raw["sub"].(string)
	email, _ := raw["email"].(string)
	role, _ := raw["role"].(string)
	if userID == "" {
		return Claims{}, ErrInvalidToken
	}
	return Claims{UserID: userID, Email: email, Role: role}, nil
}
