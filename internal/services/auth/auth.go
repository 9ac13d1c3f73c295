// Package auth covers registration and login. Clients and admins share
// the same user table; the role claim in the token drives authorization.
package auth

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"akounamatata-system/internal/database/models"
	"akounamatata-system/internal/services/core"
	"akounamatata-system/internal/utils"
)

type Service struct {
	db       *gorm.DB
	secret   []byte
	tokenTTL time.Duration
}

func NewService(db *gorm.DB, secret []byte, tokenTTL time.Duration) *Service {
	return &Service{db: db, secret: secret, tokenTTL: tokenTTL}
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      models.User `json:"user"`
}

func (s *Service) Register(ctx context.Context, name, email, password, phone string) (*Session, error) {
	if name == "" || email == "" {
		return nil, core.Validationf("name and email are required")
	}
	if len(password) < 8 {
		return nil, core.Validationf("password must be at least 8 characters")
	}

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, core.Conflictf("email %s is already registered", email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("auth: failed to check email %s: %v", email, err)
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("auth: failed to hash password: %v", err)
		return nil, err
	}

	u := models.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Phone:    phone,
		Role:     "client",
		IsActive: true,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		log.Printf("auth: failed to create user %s: %v", email, err)
		return nil, err
	}

	return s.session(&u)
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.Forbiddenf("invalid credentials")
		}
		log.Printf("auth: failed to load user %s: %v", email, err)
		return nil, err
	}

	if !u.IsActive {
		return nil, core.Forbiddenf("account is disabled")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, core.Forbiddenf("invalid credentials")
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login", now).Error; err != nil {
		log.Printf("auth: failed to record login time for user %d: %v", u.ID, err)
	}
	u.LastLogin = &now

	return s.session(&u)
}

func (s *Service) session(u *models.User) (*Session, error) {
	token, exp, err := utils.GenerateToken(s.secret, u.ID, u.Email, u.Role, s.tokenTTL)
	if err != nil {
		log.Printf("auth: failed to sign token for user %d: %v", u.ID, err)
		return nil, err
	}
	return &Session{Token: token, ExpiresAt: exp, User: *u}, nil
}
