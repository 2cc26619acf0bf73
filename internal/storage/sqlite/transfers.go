package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitvault/internal/models"
)

// insertTransfer appends a journal row inside the caller's transaction.
func insertTransfer(ctx context.Context, tx *sql.Tx, transfer *models.Transfer) error {
	// Generate ID if not set
	if transfer.ID == "" {
		transfer.ID = uuid.New().String()
	}
	if transfer.CreatedAt == 0 {
		transfer.CreatedAt = time.Now().Unix()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO transfers (id, split_id, kind, participant, from_account, to_account, asset, amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		transfer.ID, transfer.SplitID.String(), string(transfer.Kind), transfer.Participant,
		transfer.From, transfer.To, transfer.Asset, transfer.Amount.String(), transfer.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transfer: %w", err)
	}
	return nil
}

// ListTransfers retrieves the journal rows of a split, oldest first.
func (s *SQLiteStore) ListTransfers(ctx context.Context, id models.SplitID) ([]models.Transfer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, participant, from_account, to_account, asset, amount, created_at
		 FROM transfers WHERE split_id = ? ORDER BY seq`,
		id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	transfers := []models.Transfer{}
	for rows.Next() {
		t := models.Transfer{SplitID: id}
		var kind, amount string
		if err := rows.Scan(&t.ID, &kind, &t.Participant, &t.From, &t.To, &t.Asset, &amount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		t.Kind = models.TransferKind(kind)
		if t.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse transfer amount: %w", err)
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}
	return transfers, nil
}
