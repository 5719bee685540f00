package server

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskboard/internal/domain/errors"
)

// IssueToken подписывает токен с идентификатором пользователя и сроком жизни ttl.
func IssueToken(secret string, ttl time.Duration, userID string) (string, error) {
	if secret == "" {
		return "", errors.ErrJWTSecretMissing
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(ttl).Unix(),
	})

	return token.SignedString([]byte(secret))
}

// VerifyToken проверяет подпись и срок действия токена и возвращает
// идентификатор пользователя из него.
func VerifyToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", errors.ErrInvalidToken
	}

	return userID, nil
}
