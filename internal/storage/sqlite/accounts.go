package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
)

// CreateAccount inserts a new account into the database.
func (s *SQLiteStore) CreateAccount(ctx context.Context, account *models.Account) error {
	now := time.Now().Unix()
	if account.CreatedAt == 0 {
		account.CreatedAt = now
	}
	if account.UpdatedAt == 0 {
		account.UpdatedAt = now
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (address, email, display_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		account.Address,
		account.Email,
		account.DisplayName,
		account.PasswordHash,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		// modernc reports constraint violations only through the message text
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: %s", storage.ErrAccountExists, account.Email)
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetAccountByEmail retrieves an account by its email address.
func (s *SQLiteStore) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return s.getAccount(ctx, "email", email)
}

// GetAccountByAddress retrieves an account by its address.
func (s *SQLiteStore) GetAccountByAddress(ctx context.Context, address string) (*models.Account, error) {
	return s.getAccount(ctx, "address", address)
}

func (s *SQLiteStore) getAccount(ctx context.Context, column, value string) (*models.Account, error) {
	query := `
		SELECT address, email, display_name, password_hash, created_at, updated_at
		FROM accounts
		WHERE ` + column + ` = ?
	`

	account := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&account.Address,
		&account.Email,
		&account.DisplayName,
		&account.PasswordHash,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrAccountNotFound, value)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by %s: %w", column, err)
	}

	return account, nil
}
