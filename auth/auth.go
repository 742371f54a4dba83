package auth

import (
	"context"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/utils"

	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

// TokenIssuer signs bearer credentials for a user.
type TokenIssuer interface {
	Issue(userID, username string, ttl time.Duration) (string, error)
}

type Service struct {
	users  UserStore
	tokens TokenIssuer
	cost   int
}

func NewService(users UserStore, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, errs.E(errs.ErrInvalidArgument, "Missing required fields")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return nil, errs.E(errs.ErrInvalidArgument, "Invalid email address")
	}
	if len(req.Password) < 6 {
		return nil, errs.E(errs.ErrInvalidArgument, "Password must be at least 6 characters")
	}

	_, err := s.users.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, errs.E(errs.ErrConflict, "User already exists")
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		log.Printf("Failed to hash password for user %s: %v", req.Username, err)
		return nil, err
	}

	u := &models.User{
		UserID:    "u" + strings.ReplaceAll(utils.GetUUID(), "-", "")[:12],
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	log.Printf("Registered user: %s", u.Username)
	return u, nil
}

var errBadCredentials = errs.E(errs.ErrUnauthenticated, "Invalid username or password")

func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	token, err := s.tokens.Issue(u.UserID, u.Username, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.users.TouchLogin(ctx, u.UserID, time.Now().UTC()); err != nil {
		log.Printf("Failed to record login for %s: %v", u.UserID, err)
	}
	return &LoginResult{Token: token, UserID: u.UserID}, nil
}
