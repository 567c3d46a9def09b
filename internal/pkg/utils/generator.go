package utils

import (
	"fmt"
	"time"

	"heartshield-service/internal/pkg/constvars"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

func GenerateRequestID() string {
	return constvars.REQUEST_ID_PREFIX + uuid.NewString()
}

func GenerateIdentityJWT(subject, role, secret string, expiryTime time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  time.Now().Add(expiryTime).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func GenerateFileName(prefix, owner, fileExtension string) string {
	timestamp := time.Now().Format("20060102_150405.000000000")
	return fmt.Sprintf("%s_%s_%s%s", prefix, owner, timestamp, fileExtension)
}
