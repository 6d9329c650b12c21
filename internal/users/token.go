package users

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
)

// Claims is the identity carried by an access token. Role is a hint only;
// privileged routes re-read it from the users collection.
type Claims struct {
	UserID primitive.ObjectID
	Email  string
	Role   models.Role
}

func IssueToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId": user.ID.Hex(),
		"email":  user.Email,
		"role":   string(user.Role),
		"exp":    time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseBearer validates an "Authorization: Bearer <jwt>" header value.
func ParseBearer(header, secret string) (Claims, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return Claims{}, errors.New("missing token")
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Claims{}, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, errors.New("invalid token claims")
	}

	userIDValue, ok := mapClaims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return Claims{}, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return Claims{}, errors.New("invalid userId")
	}

	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	return Claims{UserID: userID, Email: email, Role: models.Role(role)}, nil
}
