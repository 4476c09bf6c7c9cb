package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")

// UseCase authenticates the admin account and issues short-lived JWTs for
// the dashboard API.
type UseCase struct {
	username     string
	passwordHash string
	secret       []byte
	expiry       time.Duration
}

func NewUseCase(username, passwordHash, secret string, expiryMin int) *UseCase {
	return &UseCase{
		username:     username,
		passwordHash: passwordHash,
		secret:       []byte(secret),
		expiry:       time.Duration(expiryMin) * time.Minute,
	}
}

// Login verifies credentials and returns a signed token with its expiry.
func (uc *UseCase) Login(username, password string) (string, int64, error) {
	if username != uc.username {
		return "", 0, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(password)); err != nil {
		return "", 0, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(uc.expiry)
	claims := jwt.MapClaims{
		"sub": username,
		"jti": uuid.NewString(),
		"iat": time.Now().Unix(),
		"exp": expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(uc.secret)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresAt.Unix(), nil
}

// ValidateToken checks signature and expiry and returns the subject.
func (uc *UseCase) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return uc.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrInvalidToken
	}
	return sub, nil
}
