// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface and of the ledger collaborator.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitvault/internal/models"
	"github.com/mmynk/splitvault/internal/storage"
)

// Ensure SQLiteStore implements the storage interfaces
var (
	_ storage.Store        = (*SQLiteStore)(nil)
	_ storage.AccountStore = (*SQLiteStore)(nil)
)

// dsnPragmas apply to every pooled connection. Transactions take the write
// lock up front so a read-then-write never has to upgrade.
const dsnPragmas = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+dsnPragmas)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// NextNonce reserves and returns the creator's next sequence number.
func (s *SQLiteStore) NextNonce(ctx context.Context, creator string) (uint64, error) {
	var nonce uint64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO creator_nonces (creator, next_nonce) VALUES (?, 1)
		 ON CONFLICT(creator) DO UPDATE SET next_nonce = next_nonce + 1
		 RETURNING next_nonce - 1`,
		creator,
	).Scan(&nonce)
	if err != nil {
		return 0, fmt.Errorf("failed to reserve nonce: %w", err)
	}
	return nonce, nil
}

// InsertSplit persists a new split, its participants and the involvement index.
func (s *SQLiteStore) InsertSplit(ctx context.Context, split *models.Split) error {
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}
	id := split.ID.String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM splits WHERE id = ?", id).Scan(&exists)
	if err == nil {
		return fmt.Errorf("%w: %s", storage.ErrDuplicateIdentifier, id)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check split existence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (id, creator, asset, total_amount, deadline, description, remaining_payments, nonce, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, split.Creator, split.Asset, split.TotalAmount.String(), split.Deadline.Unix(),
		split.Description, split.RemainingPayments, split.Nonce, split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	for i, p := range split.Participants {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO split_participants (split_id, position, account, owed_amount, collateral_amount, state)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, p.Account, p.OwedAmount.String(), p.CollateralAmount.String(), p.State.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	// Creator first, then participants; an account appears once per split.
	involved := make([]string, 0, len(split.Participants)+1)
	involved = append(involved, split.Creator)
	for _, p := range split.Participants {
		involved = append(involved, p.Account)
	}
	for _, account := range involved {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO account_splits (account, split_id) VALUES (?, ?)",
			account, id,
		)
		if err != nil {
			return fmt.Errorf("failed to index split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplit retrieves a split by ID, including all participant records.
func (s *SQLiteStore) GetSplit(ctx context.Context, id models.SplitID) (*models.Split, error) {
	return loadSplit(ctx, s.db, id)
}

// MutateParticipant loads the split inside a write transaction, lets fn
// update the participant, and persists the participant state, the remaining
// payment counter and the journal rows together.
func (s *SQLiteStore) MutateParticipant(ctx context.Context, id models.SplitID, account string, fn storage.MutateFunc, journal ...models.Transfer) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	split, err := loadSplit(ctx, tx, id)
	if err != nil {
		return err
	}
	participant, ok := split.Participant(account)
	if !ok {
		return fmt.Errorf("%w: %s in %s", storage.ErrParticipantNotFound, account, id)
	}

	if err := fn(split, participant); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE split_participants SET state = ? WHERE split_id = ? AND account = ?",
		participant.State.String(), id.String(), account,
	)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE splits SET remaining_payments = ? WHERE id = ?",
		split.RemainingPayments, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}

	for i := range journal {
		if err := insertTransfer(ctx, tx, &journal[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSplitIDs returns a page of the splits an account created or participates in.
func (s *SQLiteStore) ListSplitIDs(ctx context.Context, account string, offset, limit int) ([]models.SplitID, error) {
	ids := []models.SplitID{}
	if offset < 0 || limit <= 0 {
		return ids, nil
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT split_id FROM account_splits WHERE account = ? ORDER BY seq LIMIT ? OFFSET ?",
		account, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan split id: %w", err)
		}
		id, err := models.ParseSplitID(raw)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}
	return ids, nil
}

// loadSplit reads the split row and its participants in one statement so the
// remaining payment counter and the participant states come from the same
// snapshot.
func loadSplit(ctx context.Context, q querier, id models.SplitID) (*models.Split, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT s.creator, s.asset, s.total_amount, s.deadline, s.description,
		        s.remaining_payments, s.nonce, s.created_at,
		        p.account, p.owed_amount, p.collateral_amount, p.state
		 FROM splits s
		 LEFT JOIN split_participants p ON p.split_id = s.id
		 WHERE s.id = ?
		 ORDER BY p.position`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	defer rows.Close()

	var split *models.Split
	for rows.Next() {
		row := models.Split{ID: id}
		var total string
		var deadline int64
		var account, owed, collateral, state sql.NullString
		err := rows.Scan(&row.Creator, &row.Asset, &total, &deadline, &row.Description,
			&row.RemainingPayments, &row.Nonce, &row.CreatedAt,
			&account, &owed, &collateral, &state)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}

		if split == nil {
			if row.TotalAmount, err = decimal.NewFromString(total); err != nil {
				return nil, fmt.Errorf("failed to parse total amount: %w", err)
			}
			row.Deadline = time.Unix(deadline, 0).UTC()
			split = &row
		}
		if !account.Valid {
			continue
		}

		p := models.Participant{Account: account.String}
		if p.OwedAmount, err = decimal.NewFromString(owed.String); err != nil {
			return nil, fmt.Errorf("failed to parse owed amount: %w", err)
		}
		if p.CollateralAmount, err = decimal.NewFromString(collateral.String); err != nil {
			return nil, fmt.Errorf("failed to parse collateral amount: %w", err)
		}
		if p.State, err = models.ParseParticipantState(state.String); err != nil {
			return nil, err
		}
		split.Participants = append(split.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split rows: %w", err)
	}
	if split == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
	}
	return split, nil
}
