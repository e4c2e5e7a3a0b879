package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/typetest/internal/model"
)

// Uniqueness violations reported by InsertAccount.
var (
	ErrUsernameTaken = errors.New("username already taken")
	ErrEmailTaken    = errors.New("email already taken")
)

const accountColumns = `id, username, email, credential, joined_at`

// InsertAccount appends an account.
func (s *Store) InsertAccount(ctx context.Context, acct model.Account) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?)`,
		acct.ID,
		acct.Username,
		acct.Email,
		acct.Credential,
		acct.JoinedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "accounts.username"):
			return ErrUsernameTaken
		case strings.Contains(msg, "accounts.email"):
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}

// AccountByID looks up an account by id.
func (s *Store) AccountByID(ctx context.Context, id string) (model.Account, bool, error) {
	return s.accountWhere(ctx, "id", id)
}

// AccountByUsername looks up an account by exact username.
func (s *Store) AccountByUsername(ctx context.Context, username string) (model.Account, bool, error) {
	return s.accountWhere(ctx, "username", username)
}

// AccountByEmail looks up an account by exact email.
func (s *Store) AccountByEmail(ctx context.Context, email string) (model.Account, bool, error) {
	return s.accountWhere(ctx, "email", email)
}

// ListAccounts returns all accounts in creation order.
func (s *Store) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var accounts []model.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *Store) accountWhere(ctx context.Context, column, value string) (model.Account, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+column+` = ?`, value)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Account{}, false, nil
	}
	if err != nil {
		return model.Account{}, false, fmt.Errorf("failed to get account by %s: %w", column, err)
	}
	return acct, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (model.Account, error) {
	var acct model.Account
	var joinedAt string
	if err := row.Scan(&acct.ID, &acct.Username, &acct.Email, &acct.Credential, &joinedAt); err != nil {
		return model.Account{}, err
	}
	parsed, err := time.Parse(time.RFC3339Nano, joinedAt)
	if err != nil {
		return model.Account{}, err
	}
	acct.JoinedAt = parsed
	return acct, nil
}
