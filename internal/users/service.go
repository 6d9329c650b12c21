package users

import (
	"context"
	"log"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/apperr"
	"storefront/internal/database"
	"storefront/internal/models"
)

const minPasswordLength = 8

type Service struct {
	db        *mongo.Database
	jwtSecret string
	tokenTTL  time.Duration
}

func NewService(db *mongo.Database, jwtSecret string, tokenTTL time.Duration) *Service {
	return &Service{db: db, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (s *Service) users() *mongo.Collection {
	return s.db.Collection(database.UsersCollection)
}

// Session is what a successful login hands back.
type Session struct {
	AccessToken string      `json:"accessToken"`
	ExpiresIn   int64       `json:"expiresIn"`
	User        models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	var problems []string
	if name == "" {
		problems = append(problems, "name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		problems = append(problems, "email is invalid")
	}
	if len(password) < minPasswordLength {
		problems = append(problems, "password must be at least 8 characters")
	}
	if len(problems) > 0 {
		return nil, apperr.Validation("validation failed", problems...)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal("password hashing failed", err)
	}

	now := time.Now().UTC()
	user := models.User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          models.RoleUser,
		AccountStatus: models.AccountActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	res, err := s.users().InsertOne(ctx, user)
	if err != nil {
		return nil, apperr.FromStore(err, "", "email already registered")
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}

	log.Println("[AUTH] [INFO] user registered:", user.ID.Hex())
	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	var user models.User
	err := s.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		log.Println("[AUTH] [ERROR] login invalid credentials")
		return nil, apperr.Authentication("invalid credentials")
	}
	if err != nil {
		return nil, apperr.FromStore(err, "", "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Println("[AUTH] [ERROR] login invalid credentials")
		return nil, apperr.Authentication("invalid credentials")
	}
	if user.AccountStatus != "" && user.AccountStatus != models.AccountActive {
		return nil, apperr.Authorization("account is " + string(user.AccountStatus))
	}

	token, err := IssueToken(user, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, apperr.Internal("token generation failed", err)
	}

	log.Println("[AUTH] [INFO] user login succeeded:", user.ID.Hex())
	return &Session{
		AccessToken: token,
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        user,
	}, nil
}

// Role reads the current role and account status of a user.
func (s *Service) Role(ctx context.Context, userID primitive.ObjectID) (models.Role, models.AccountStatus, error) {
	var user models.User
	err := s.users().FindOne(ctx,
		bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"role": 1, "accountStatus": 1}),
	).Decode(&user)
	if err != nil {
		return "", "", apperr.FromStore(err, "user not found", "")
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.AccountStatus == "" {
		user.AccountStatus = models.AccountActive
	}
	return user.Role, user.AccountStatus, nil
}

// SetRoleAndStatus lets an admin change another user's role or account status.
func (s *Service) SetRoleAndStatus(ctx context.Context, actor, userID primitive.ObjectID, role *models.Role, status *models.AccountStatus) (*models.User, error) {
	var problems []string
	set := bson.M{"updatedAt": time.Now().UTC()}

	if role == nil && status == nil {
		problems = append(problems, "role or accountStatus is required")
	}
	if role != nil {
		if !role.IsValid() {
			problems = append(problems, "role must be one of user, manager, admin")
		}
		set["role"] = *role
	}
	if status != nil {
		if !status.IsValid() {
			problems = append(problems, "accountStatus must be one of active, suspended, deleted")
		}
		set["accountStatus"] = *status
	}
	if actor == userID && (role != nil && *role != models.RoleAdmin || status != nil && *status != models.AccountActive) {
		problems = append(problems, "admins cannot demote or suspend themselves")
	}
	if len(problems) > 0 {
		return nil, apperr.Validation("invalid user update", problems...)
	}

	var user models.User
	err := s.users().FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found", "")
	}

	log.Printf("[USER] [INFO] user %s updated by %s (role=%s status=%s)", userID.Hex(), actor.Hex(), user.Role, user.AccountStatus)
	return &user, nil
}

// GrantRole is the bootstrap path used by the CLI to create the first admin.
func (s *Service) GrantRole(ctx context.Context, email string, role models.Role) (*models.User, error) {
	if !role.IsValid() {
		return nil, apperr.Validation("invalid role", "role must be one of user, manager, admin")
	}

	var user models.User
	err := s.users().FindOneAndUpdate(ctx,
		bson.M{"email": strings.ToLower(strings.TrimSpace(email))},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		return nil, apperr.FromStore(err, "user not found", "")
	}
	return &user, nil
}
