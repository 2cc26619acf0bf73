package sqlite

import "database/sql"

// schema sets up the database. It runs on startup to ensure tables exist.
// Amounts are stored as decimal strings so no precision is lost.
const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    address TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS creator_nonces (
    creator TEXT PRIMARY KEY,
    next_nonce INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS splits (
    id TEXT PRIMARY KEY,
    creator TEXT NOT NULL,
    asset TEXT NOT NULL,
    total_amount TEXT NOT NULL,
    deadline INTEGER NOT NULL,
    description TEXT NOT NULL,
    remaining_payments INTEGER NOT NULL,
    nonce INTEGER NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_participants (
    split_id TEXT NOT NULL,
    position INTEGER NOT NULL,
    account TEXT NOT NULL,
    owed_amount TEXT NOT NULL,
    collateral_amount TEXT NOT NULL,
    state TEXT NOT NULL,
    PRIMARY KEY (split_id, account),
    FOREIGN KEY (split_id) REFERENCES splits(id)
);

CREATE TABLE IF NOT EXISTS account_splits (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    account TEXT NOT NULL,
    split_id TEXT NOT NULL,
    UNIQUE (account, split_id),
    FOREIGN KEY (split_id) REFERENCES splits(id)
);

CREATE TABLE IF NOT EXISTS transfers (
    seq INTEGER PRIMARY KEY AUTOINCREMENT,
    id TEXT NOT NULL UNIQUE,
    split_id TEXT NOT NULL,
    kind TEXT NOT NULL,
    participant TEXT NOT NULL,
    from_account TEXT NOT NULL,
    to_account TEXT NOT NULL,
    asset TEXT NOT NULL,
    amount TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    FOREIGN KEY (split_id) REFERENCES splits(id)
);

CREATE TABLE IF NOT EXISTS balances (
    account TEXT NOT NULL,
    asset TEXT NOT NULL,
    amount TEXT NOT NULL,
    PRIMARY KEY (account, asset)
);

CREATE INDEX IF NOT EXISTS idx_split_participants_split_id ON split_participants(split_id, position);
CREATE INDEX IF NOT EXISTS idx_account_splits_account ON account_splits(account, seq);
CREATE INDEX IF NOT EXISTS idx_transfers_split_id ON transfers(split_id, seq);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
