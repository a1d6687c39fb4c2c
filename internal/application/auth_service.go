package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/jsonplaceholder-api/internal/domain/entity"
	repo "github.com/oksasatya/jsonplaceholder-api/internal/domain/repository"
	"github.com/oksasatya/jsonplaceholder-api/pkg/apperror"
	"github.com/oksasatya/jsonplaceholder-api/pkg/helpers"
	"github.com/oksasatya/jsonplaceholder-api/pkg/mailer"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgEmailExists        = "User with this email already exists"
)

// AuthService is the credential store: registration, login and identity lookup.
type AuthService struct {
	Creds  repo.CredentialRepository
	Tokens TokenIssuer
	Events EventPublisher
	Mail   EmailQueue
	Logger *logrus.Logger
}

func NewAuthService(creds repo.CredentialRepository, tokens TokenIssuer, events EventPublisher, mail EmailQueue, logger *logrus.Logger) *AuthService {
	if events == nil {
		events = noopPublisher{}
	}
	if mail == nil {
		mail = noopEmailQueue{}
	}
	return &AuthService{Creds: creds, Tokens: tokens, Events: events, Mail: mail, Logger: logger}
}

type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,pwd"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is what register and login return to the client.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates a credential and returns a fresh token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenResponse, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	existing, err := s.Creds.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		return nil, apperror.Conflict(msgEmailExists, nil)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	cred := &entity.Credential{Email: in.Email, Name: in.Name, PasswordHash: hash}
	if err := s.Creds.Create(ctx, cred); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperror.Conflict(msgEmailExists, err)
		}
		if errors.Is(err, repo.ErrValueTooLong) {
			return nil, apperror.BadRequest("validation failed", map[string]string{"payload": "value too long"})
		}
		return nil, apperror.Internal(err)
	}

	tok, err := s.issue(cred)
	if err != nil {
		return nil, err
	}

	s.afterRegister(ctx, cred)
	return tok, nil
}

// Login verifies email and password. Unknown email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*TokenResponse, error) {
	if err := validate(&in); err != nil {
		return nil, err
	}
	cred, err := s.Creds.GetByEmail(ctx, in.Email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if cred == nil {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	if !helpers.CompareHashAndPassword(cred.PasswordHash, in.Password) {
		return nil, apperror.Unauthorized(msgInvalidCredentials)
	}
	return s.issue(cred)
}

// ValidateIdentity resolves a token subject. It never fails; lookup errors read as absent.
func (s *AuthService) ValidateIdentity(ctx context.Context, id int64) (*entity.Credential, bool) {
	cred, err := s.Creds.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			helpers.LogError(s.Logger, "credential lookup failed", err, logrus.Fields{"credential_id": id})
		}
		return nil, false
	}
	return cred, cred != nil
}

func (s *AuthService) issue(cred *entity.Credential) (*TokenResponse, error) {
	tok, _, err := s.Tokens.Issue(cred.ID, cred.Email)
	if err != nil {
		helpers.LogError(s.Logger, "issue token failed", err, logrus.Fields{"credential_id": cred.ID})
		return nil, apperror.Internal(err)
	}
	return &TokenResponse{AccessToken: tok}, nil
}

func (s *AuthService) afterRegister(ctx context.Context, cred *entity.Credential) {
	payload := map[string]any{"id": cred.ID, "email": cred.Email, "name": cred.Name}
	if err := s.Events.Publish(ctx, newEvent(EventCredentialRegistered, payload)); err != nil {
		helpers.LogWarn(s.Logger, "publish registration event failed", err, logrus.Fields{"credential_id": cred.ID})
	}
	if err := s.Mail.Enqueue(ctx, mailer.WelcomeJob(cred.Email, cred.Name)); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"credential_id": cred.ID})
	}
}
