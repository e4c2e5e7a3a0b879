// Package accounts provides the user registry and the current identity.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/typetest/internal/model"
	"github.com/verte-zerg/typetest/internal/store"
)

var (
	ErrDuplicateUsername  = errors.New("username is already taken")
	ErrDuplicateEmail     = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrMissingField       = errors.New("username, email and password are required")
)

const currentUserKey = "current_user"

// Storage is the persistence the directory needs.
type Storage interface {
	InsertAccount(ctx context.Context, acct model.Account) error
	AccountByID(ctx context.Context, id string) (model.Account, bool, error)
	AccountByUsername(ctx context.Context, username string) (model.Account, bool, error)
	AccountByEmail(ctx context.Context, email string) (model.Account, bool, error)
	Setting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}

// Directory registers and authenticates accounts.
type Directory struct {
	storage Storage
	hasher  Hasher
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Directory.
type Option func(*Directory)

// WithHasher replaces the default bcrypt hasher.
func WithHasher(h Hasher) Option {
	return func(d *Directory) { d.hasher = h }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Directory) { d.logger = l }
}

// NewDirectory constructs a Directory over storage.
func NewDirectory(storage Storage, opts ...Option) *Directory {
	d := &Directory{
		storage: storage,
		hasher:  BcryptHasher{},
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register creates an account. Username uniqueness is checked before email.
func (d *Directory) Register(ctx context.Context, username, email, credential string) (model.Account, error) {
	email = strings.TrimSpace(email)
	if username == "" || email == "" || credential == "" {
		return model.Account{}, ErrMissingField
	}
	if _, taken, err := d.storage.AccountByUsername(ctx, username); err != nil {
		return model.Account{}, err
	} else if taken {
		return model.Account{}, ErrDuplicateUsername
	}
	if _, taken, err := d.storage.AccountByEmail(ctx, email); err != nil {
		return model.Account{}, err
	} else if taken {
		return model.Account{}, ErrDuplicateEmail
	}

	hashed, err := d.hasher.Hash(credential)
	if err != nil {
		return model.Account{}, err
	}
	acct := model.Account{
		ID:         uuid.NewString(),
		Username:   username,
		Email:      email,
		Credential: hashed,
		JoinedAt:   d.now().UTC(),
	}
	if err := d.storage.InsertAccount(ctx, acct); err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			return model.Account{}, ErrDuplicateUsername
		case errors.Is(err, store.ErrEmailTaken):
			return model.Account{}, ErrDuplicateEmail
		}
		return model.Account{}, fmt.Errorf("failed to register: %w", err)
	}
	d.logger.Info("account registered", "user_id", acct.ID, "username", acct.Username)
	return acct, nil
}

// Authenticate matches a username and credential.
func (d *Directory) Authenticate(ctx context.Context, username, credential string) (model.Account, error) {
	acct, ok, err := d.storage.AccountByUsername(ctx, username)
	if err != nil {
		return model.Account{}, err
	}
	if !ok || !d.hasher.Verify(acct.Credential, credential) {
		d.logger.Debug("authentication failed", "username", username)
		return model.Account{}, ErrInvalidCredentials
	}
	return acct, nil
}

// FindByEmail looks up an account for the recovery flow.
func (d *Directory) FindByEmail(ctx context.Context, email string) (model.Account, bool, error) {
	return d.storage.AccountByEmail(ctx, strings.TrimSpace(email))
}

// Lookup finds an account by id.
func (d *Directory) Lookup(ctx context.Context, id string) (model.Account, bool, error) {
	return d.storage.AccountByID(ctx, id)
}

// Username resolves a display name for a user id. The guest id maps to the guest name
// and unknown ids map to themselves.
func (d *Directory) Username(ctx context.Context, id string) (string, error) {
	if id == model.GuestID {
		return model.GuestName, nil
	}
	acct, ok, err := d.storage.AccountByID(ctx, id)
	if err != nil {
		return "", err
	}
	if !ok {
		return id, nil
	}
	return acct.Username, nil
}

// Login authenticates and remembers the account as the current identity.
func (d *Directory) Login(ctx context.Context, username, credential string) (model.Account, error) {
	acct, err := d.Authenticate(ctx, username, credential)
	if err != nil {
		return model.Account{}, err
	}
	if err := d.storage.SetSetting(ctx, currentUserKey, acct.ID); err != nil {
		return model.Account{}, err
	}
	d.logger.Info("logged in", "user_id", acct.ID)
	return acct, nil
}

// Logout forgets the current identity.
func (d *Directory) Logout(ctx context.Context) error {
	return d.storage.DeleteSetting(ctx, currentUserKey)
}

// Current restores the last logged-in account, if any.
// A remembered id whose account no longer resolves is cleared.
func (d *Directory) Current(ctx context.Context) (model.Account, bool, error) {
	id, ok, err := d.storage.Setting(ctx, currentUserKey)
	if err != nil || !ok {
		return model.Account{}, false, err
	}
	acct, found, err := d.storage.AccountByID(ctx, id)
	if err != nil {
		return model.Account{}, false, err
	}
	if !found {
		d.logger.Warn("dropping unknown current user", "user_id", id)
		return model.Account{}, false, d.Logout(ctx)
	}
	return acct, true, nil
}
