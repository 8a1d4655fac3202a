package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/core/validation"
)

// AccountService implements registration, verification, login, account
// deletion and the contact form on top of the session.
type AccountService struct {
	api      ports.RemoteAPI
	store    ports.CredentialStore
	session  ports.SessionService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewAccountService(api ports.RemoteAPI, store ports.CredentialStore, session ports.SessionService, log zerolog.Logger) *AccountService {
	return &AccountService{
		api:      api,
		store:    store,
		session:  session,
		validate: validation.New(),
		log:      log,
	}
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (s *AccountService) Register(ctx context.Context, reg domain.Registration) error {
	if err := validation.Struct(s.validate, reg, ""); err != nil {
		return err
	}
	if err := s.api.Register(ctx, reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	s.log.Info().Str("username", reg.Username).Msg("registration submitted, verification email pending")
	return nil
}

func (s *AccountService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrMissingVerifyToken
	}
	if err := s.api.VerifyEmail(ctx, token); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	return nil
}

// Login calls the login endpoint, stores the returned token and marks the
// session authenticated. The username falls back to the email when the
// server does not send one.
func (s *AccountService) Login(ctx context.Context, email, password string) (domain.Session, error) {
	in := loginInput{Email: strings.TrimSpace(email), Password: password}
	if err := validation.Struct(s.validate, in, ""); err != nil {
		return s.session.Session(), err
	}

	creds, err := s.api.Login(ctx, in.Email, in.Password)
	if err != nil {
		return s.session.Session(), fmt.Errorf("login: %w", err)
	}
	if creds.AccessToken == "" {
		return s.session.Session(), fmt.Errorf("login: empty access token: %w", domain.ErrServerRejected)
	}
	if err := s.store.Set(ctx, creds.AccessToken); err != nil {
		return s.session.Session(), fmt.Errorf("login: store token: %w", err)
	}

	username := creds.Username
	if username == "" {
		username = in.Email
	}
	s.session.Login(username)
	return s.session.Session(), nil
}

// Profile fetches the authenticated user's profile.
func (s *AccountService) Profile(ctx context.Context) (*domain.Profile, error) {
	var profile *domain.Profile
	err := withToken(ctx, s.session, func(token string) error {
		var err error
		profile, err = s.api.Me(ctx, token)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return profile, nil
}

// DeleteAccount removes the authenticated account and logs out.
func (s *AccountService) DeleteAccount(ctx context.Context) error {
	err := withToken(ctx, s.session, func(token string) error {
		profile, err := s.api.Me(ctx, token)
		if err != nil {
			return err
		}
		return s.api.DeleteAccount(ctx, token, profile.ID)
	})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	s.log.Info().Msg("account deleted")
	return s.session.Logout(ctx)
}

func (s *AccountService) Contact(ctx context.Context, msg domain.ContactMessage) error {
	if err := validation.Struct(s.validate, msg, ""); err != nil {
		return err
	}
	if err := s.api.SendContact(ctx, msg); err != nil {
		return fmt.Errorf("contact: %w", err)
	}
	return nil
}
