package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/akaretnikov/welltrack/internal/logger"
	"github.com/akaretnikov/welltrack/models"
)

// accountRepository is an in-memory credential directory seeded with the
// demo accounts. Accounts registered at runtime live only for the
// lifetime of the process.
type accountRepository struct {
	mu       sync.RWMutex
	accounts []models.Account
	logger   *logger.Logger
}

type seedAccount struct {
	id       int64
	email    string
	password string
	name     string
	created  time.Time
}

var demoAccounts = []seedAccount{
	{id: 1, email: "demo@wellness.com", password: "demo123", name: "Demo User", created: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	{id: 2, email: "john.doe@email.com", password: "password123", name: "John Doe", created: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)},
}

func NewAccountRepository(log *logger.Logger) AccountRepository {
	repo := &accountRepository{logger: log}

	for _, seed := range demoAccounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			log.Err(err).
				Str("func", "NewAccountRepository").
				Str("email", seed.email).
				Msg("failed to hash demo account password")
			continue
		}
		repo.accounts = append(repo.accounts, models.Account{
			ID:           seed.id,
			Email:        seed.email,
			PasswordHash: hash,
			Name:         seed.name,
			CreatedAt:    seed.created,
		})
	}

	return repo
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (models.Account, error) {
	needle := strings.ToLower(strings.TrimSpace(email))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if strings.ToLower(account.Email) == needle {
			return account, nil
		}
	}

	return models.Account{}, ErrNoAccountWasFound
}

func (r *accountRepository) CreateAccount(ctx context.Context, account models.Account) (models.Account, error) {
	needle := strings.ToLower(strings.TrimSpace(account.Email))

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if strings.ToLower(existing.Email) == needle {
			return models.Account{}, ErrEmailAlreadyExists
		}
	}

	account.Email = needle
	r.accounts = append(r.accounts, account)

	logger.FromContext(ctx).Info().
		Str("func", "accountRepository.CreateAccount").
		Int64("user_id", account.ID).
		Msg("account registered")

	return account, nil
}
