package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/internal/notify"
	"github.com/akaretnikov/welltrack/internal/store"
	"github.com/akaretnikov/welltrack/internal/utils"
	"github.com/akaretnikov/welltrack/internal/validators"
	"github.com/akaretnikov/welltrack/models"
)

type authService struct {
	accounts  store.AccountRepository
	sessions  store.SessionRepository
	validator validators.Validator
	hub       *notify.Hub

	tokenSignKey string
	tokenIssuer  string
	sessionTTL   time.Duration

	logger *logger.Logger
}

func NewAuthService(accounts store.AccountRepository, sessions store.SessionRepository, validator validators.Validator, hub *notify.Hub, tokenSignKey, tokenIssuer string, sessionTTL time.Duration, log *logger.Logger) AuthService {
	return &authService{
		accounts:     accounts,
		sessions:     sessions,
		validator:    validator,
		hub:          hub,
		tokenSignKey: tokenSignKey,
		tokenIssuer:  tokenIssuer,
		sessionTTL:   sessionTTL,
		logger:       log,
	}
}

func (a *authService) Login(ctx context.Context, email, password string) (models.Session, error) {
	log := logger.FromContext(ctx)

	creds := validators.LoginCredentials{Email: email, Password: password}
	if err := a.validator.Validate(ctx, creds); err != nil {
		return models.Session{}, err
	}

	account, err := a.accounts.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNoAccountWasFound) {
		return models.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("account lookup failed: %w", err)
	}

	if err = bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)); err != nil {
		return models.Session{}, ErrInvalidCredentials
	}

	session, err := a.establishSession(ctx, account)
	if err != nil {
		return models.Session{}, err
	}

	log.Info().
		Str("func", "authService.Login").
		Int64("user_id", session.ID).
		Msg("logged in")

	return session, nil
}

func (a *authService) Signup(ctx context.Context, email, password, name string) (models.Session, error) {
	log := logger.FromContext(ctx)

	// the duplicate check deliberately runs before validation: a taken
	// email is reported even when the rest of the form is incomplete
	_, err := a.accounts.FindByEmail(ctx, email)
	if err == nil {
		return models.Session{}, ErrDuplicateEmail
	}
	if !errors.Is(err, store.ErrNoAccountWasFound) {
		return models.Session{}, fmt.Errorf("account lookup failed: %w", err)
	}

	creds := validators.Credentials{Email: email, Password: password, Name: name}
	if err = a.validator.Validate(ctx, creds); err != nil {
		return models.Session{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Err(err).Str("func", "authService.Signup").Msg("failed to hash password")
		return models.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	account := models.Account{
		ID:           time.Now().UnixMilli(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: hash,
		Name:         strings.TrimSpace(name),
		CreatedAt:    time.Now(),
	}

	created, err := a.accounts.CreateAccount(ctx, account)
	if errors.Is(err, store.ErrEmailAlreadyExists) {
		return models.Session{}, ErrDuplicateEmail
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to create account: %w", err)
	}

	session, err := a.establishSession(ctx, created)
	if err != nil {
		return models.Session{}, err
	}

	log.Info().
		Str("func", "authService.Signup").
		Int64("user_id", session.ID).
		Msg("account created and logged in")

	return session, nil
}

// establishSession issues a token for the account and persists the
// resulting session, replacing any previous one.
func (a *authService) establishSession(ctx context.Context, account models.Account) (models.Session, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, account.ID, a.sessionTTL, a.tokenSignKey)
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	session := models.Session{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		CreatedAt: account.CreatedAt,
		LoginTime: time.Now(),
		Token:     token.SignedString,
	}

	if err = a.sessions.SaveSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	a.hub.Publish(notify.Event{Kind: notify.KindSession, UserID: session.ID})

	return session, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	a.hub.Publish(notify.Event{Kind: notify.KindSession})
	return nil
}

func (a *authService) IsAuthenticated(ctx context.Context) bool {
	ok, err := a.sessions.IsAuthenticated(ctx)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "authService.IsAuthenticated").
			Msg("auth check failed")
		return false
	}
	return ok
}

func (a *authService) CurrentUser(ctx context.Context) (models.Session, error) {
	if !a.IsAuthenticated(ctx) {
		return models.Session{}, ErrNotAuthenticated
	}

	session, err := a.sessions.GetSession(ctx)
	if errors.Is(err, store.ErrSessionNotFound) {
		return models.Session{}, ErrNotAuthenticated
	}
	if err != nil {
		return models.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	return session, nil
}

func (a *authService) UpdateUser(ctx context.Context, update models.SessionUpdate) (models.Session, error) {
	session, err := a.CurrentUser(ctx)
	if err != nil {
		return models.Session{}, err
	}

	if update.Email != nil {
		session.Email = strings.ToLower(strings.TrimSpace(*update.Email))
	}
	if update.Name != nil {
		session.Name = strings.TrimSpace(*update.Name)
	}
	now := time.Now()
	session.UpdatedAt = &now

	if err = a.sessions.SaveSession(ctx, session); err != nil {
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	a.hub.Publish(notify.Event{Kind: notify.KindSession, UserID: session.ID})

	return session, nil
}

func (a *authService) ValidateSession(ctx context.Context) bool {
	log := logger.FromContext(ctx)

	session, err := a.CurrentUser(ctx)
	if err != nil {
		return false
	}

	expired := time.Since(session.LoginTime) > a.sessionTTL
	if !expired && session.Token != "" {
		if _, err = utils.ValidateAndParseJWTToken(session.Token, a.tokenSignKey, a.tokenIssuer); err != nil {
			expired = true
		}
	}

	if expired {
		log.Info().
			Str("func", "authService.ValidateSession").
			Int64("user_id", session.ID).
			Msg("session expired, logging out")
		if err = a.Logout(ctx); err != nil {
			log.Err(err).
				Str("func", "authService.ValidateSession").
				Msg("failed to clear expired session")
		}
		return false
	}

	return true
}
