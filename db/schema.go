// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
// The SQL is dialect-neutral and runs on both PostgreSQL and SQLite.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    description TEXT,
    question_type TEXT NOT NULL CHECK (question_type IN ('single-choice', 'ranked-choice', 'free-text')),
    kind TEXT NOT NULL DEFAULT 'simple' CHECK (kind IN ('simple', 'complex')),
    status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'closed', 'archived')),
    allow_unauthenticated BOOLEAN NOT NULL DEFAULT FALSE,
    allow_user_add_options BOOLEAN NOT NULL DEFAULT FALSE,
    deadline TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_status ON poll(status);

-- Options
CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    text TEXT NOT NULL,
    image_url TEXT,
    link_url TEXT
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id);

-- Votes
--
-- Identity is exactly one of: user_id (authenticated) or the
-- (session_id, ip_hash, user_agent) fingerprint (anonymous).
-- rank_position is 1 for single-choice and free-text rows; ranked-choice
-- voters hold one row per rank. The two partial unique indexes are the
-- authoritative one-vote-per-identity enforcement; application code
-- relies on them, not on read-then-write checks.
-- ip_hash and user_agent are NOT NULL because NULLs never collide in a
-- unique index: a NULL fingerprint column would let one voter insert
-- unlimited rows. Empty string is the absent value.
CREATE TABLE IF NOT EXISTS poll_vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    option_id TEXT REFERENCES poll_option(id) ON DELETE CASCADE,
    free_text TEXT,
    user_id TEXT,
    session_id TEXT,
    ip_hash TEXT NOT NULL DEFAULT '',
    user_agent TEXT NOT NULL DEFAULT '',
    is_authenticated BOOLEAN NOT NULL DEFAULT FALSE,
    rank_position INTEGER NOT NULL DEFAULT 1 CHECK (rank_position >= 1),
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_poll_vote_poll_id ON poll_vote(poll_id);

CREATE UNIQUE INDEX IF NOT EXISTS uq_poll_vote_user
    ON poll_vote(poll_id, user_id, rank_position)
    WHERE user_id IS NOT NULL;

CREATE UNIQUE INDEX IF NOT EXISTS uq_poll_vote_anon
    ON poll_vote(poll_id, ip_hash, user_agent, rank_position)
    WHERE user_id IS NULL;

-- Locations
CREATE TABLE IF NOT EXISTS location (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    country TEXT,
    wikipedia_title TEXT NOT NULL,
    population BIGINT,
    population_fetched_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_location_name ON location(name);
`
