// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/openagora/agora-server/auth"
	"github.com/openagora/agora-server/models"
)

// Identity is the voter-distinguishing key. Exactly one form applies:
// an authenticated user id, or the anonymous fingerprint of
// (session id, hashed IP, user agent).
type Identity struct {
	UserID    string
	SessionID string
	IPHash    string
	UserAgent string
}

func (id Identity) Authenticated() bool {
	return id.UserID != ""
}

// Selection is what the voter chose. The field that applies depends on
// the poll's question type: OptionID for single-choice,
// RankedOptionIDs (preference order, index 0 = rank 1) for
// ranked-choice, FreeText for free-text.
type Selection struct {
	OptionID        string
	RankedOptionIDs []string
	FreeText        string
}

// Result reports whether the submission created a first vote or
// replaced an existing one, plus the identity's now-current vote rows.
type Result struct {
	Created bool
	Votes   []models.PollVote
}

// SubmitVote validates a submission and durably records it, replacing
// any prior vote by the same identity for the same poll. Preconditions
// are checked in a fixed order and nothing is written when one fails.
// The one-vote-per-identity invariant is enforced by the partial unique
// indexes on poll_vote, not by the read-before-write here; a concurrent
// first submission that loses the insert race is converted into an
// update (single-choice, free-text) or retried once (ranked-choice).
func SubmitVote(db *sql.DB, poll models.Poll, identity Identity, sel Selection) (Result, error) {
	now := time.Now()

	if poll.Status != models.StatusActive {
		return Result{}, ErrPollClosed
	}
	if poll.Deadline != nil && !now.Before(*poll.Deadline) {
		return Result{}, ErrPollExpired
	}
	if !identity.Authenticated() && !poll.AllowUnauthenticated {
		return Result{}, ErrUnauthenticatedVotingDisabled
	}

	if err := validateSelection(db, poll, sel); err != nil {
		return Result{}, err
	}

	switch poll.QuestionType {
	case models.TypeRankedChoice:
		return submitRanked(db, poll, identity, sel.RankedOptionIDs, now)
	case models.TypeFreeText:
		text := strings.TrimSpace(sel.FreeText)
		return submitSingleRow(db, poll, identity, nil, &text, now)
	default:
		optionID := sel.OptionID
		return submitSingleRow(db, poll, identity, &optionID, nil, now)
	}
}

// validateSelection checks that the selection fits the poll's question
// type and references only this poll's options.
func validateSelection(db *sql.DB, poll models.Poll, sel Selection) error {
	switch poll.QuestionType {
	case models.TypeFreeText:
		if strings.TrimSpace(sel.FreeText) == "" {
			return ErrEmptyFreeTextResponse
		}
		return nil

	case models.TypeRankedChoice:
		if len(sel.RankedOptionIDs) == 0 {
			return ErrInvalidRankSequence
		}
		valid, err := loadOptionIDs(db, poll.ID)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(sel.RankedOptionIDs))
		for _, optionID := range sel.RankedOptionIDs {
			if !valid[optionID] {
				return ErrInvalidOption
			}
			if seen[optionID] {
				return ErrInvalidRankSequence
			}
			seen[optionID] = true
		}
		return nil

	default: // single-choice
		if sel.OptionID == "" {
			return ErrInvalidOption
		}
		valid, err := loadOptionIDs(db, poll.ID)
		if err != nil {
			return err
		}
		if !valid[sel.OptionID] {
			return ErrInvalidOption
		}
		return nil
	}
}

// submitSingleRow handles single-choice and free-text votes. The
// ON CONFLICT upsert is the single atomic primitive: no transient
// duplicate row is ever visible, even under concurrent submissions.
func submitSingleRow(db *sql.DB, poll models.Poll, identity Identity, optionID, freeText *string, now time.Time) (Result, error) {
	tx, err := db.Begin()
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := countVotesTx(tx, poll.ID, identity)
	if err != nil {
		return Result{}, err
	}

	var conflict string
	if identity.Authenticated() {
		conflict = `ON CONFLICT (poll_id, user_id, rank_position) WHERE user_id IS NOT NULL`
	} else {
		conflict = `ON CONFLICT (poll_id, ip_hash, user_agent, rank_position) WHERE user_id IS NULL`
	}

	_, err = tx.Exec(`
		INSERT INTO poll_vote (id, poll_id, option_id, free_text, user_id, session_id, ip_hash, user_agent, is_authenticated, rank_position, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 1, $10, $10)
		`+conflict+` DO UPDATE SET
			option_id = EXCLUDED.option_id,
			free_text = EXCLUDED.free_text,
			session_id = EXCLUDED.session_id,
			updated_at = EXCLUDED.updated_at
	`, auth.NewRowID(), poll.ID, optionID, freeText,
		nullable(identity.UserID), nullable(identity.SessionID),
		identity.IPHash, identity.UserAgent,
		identity.Authenticated(), now)

	if err != nil {
		return Result{}, fmt.Errorf("failed to record vote: %w", err)
	}

	votes, err := currentVotesTx(tx, poll.ID, identity)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit vote: %w", err)
	}

	return Result{Created: existing == 0, Votes: votes}, nil
}

// submitRanked replaces the identity's full rank set in one
// transaction. A concurrent first submission can slip between the
// delete and the inserts; the unique index rejects the loser, which
// gets one bounded retry. The rerun sees the winner's committed rows,
// so it counts and deletes them and reports a replacement.
func submitRanked(db *sql.DB, poll models.Poll, identity Identity, rankedOptionIDs []string, now time.Time) (Result, error) {
	result, err := submitRankedOnce(db, poll, identity, rankedOptionIDs, now)
	if err != nil && isUniqueViolation(err) {
		result, err = submitRankedOnce(db, poll, identity, rankedOptionIDs, now)
		if err != nil && isUniqueViolation(err) {
			return Result{}, ErrDuplicateVoteRace
		}
	}
	return result, err
}

func submitRankedOnce(db *sql.DB, poll models.Poll, identity Identity, rankedOptionIDs []string, now time.Time) (Result, error) {
	tx, err := db.Begin()
	if err != nil {
		return Result{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	existing, err := countVotesTx(tx, poll.ID, identity)
	if err != nil {
		return Result{}, err
	}

	where, args := identityWhere(poll.ID, identity)
	if _, err := tx.Exec(`DELETE FROM poll_vote WHERE `+where, args...); err != nil {
		return Result{}, fmt.Errorf("failed to clear prior ranking: %w", err)
	}

	for i, optionID := range rankedOptionIDs {
		_, err := tx.Exec(`
			INSERT INTO poll_vote (id, poll_id, option_id, user_id, session_id, ip_hash, user_agent, is_authenticated, rank_position, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		`, auth.NewRowID(), poll.ID, optionID,
			nullable(identity.UserID), nullable(identity.SessionID),
			identity.IPHash, identity.UserAgent,
			identity.Authenticated(), i+1, now)
		if err != nil {
			return Result{}, fmt.Errorf("failed to record rank %d: %w", i+1, err)
		}
	}

	votes, err := currentVotesTx(tx, poll.ID, identity)
	if err != nil {
		return Result{}, err
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("failed to commit ranking: %w", err)
	}

	return Result{Created: existing == 0, Votes: votes}, nil
}

// CurrentVotes returns the identity's stored vote rows for a poll,
// ordered by rank position.
func CurrentVotes(db *sql.DB, pollID string, identity Identity) ([]models.PollVote, error) {
	where, args := identityWhere(pollID, identity)
	rows, err := db.Query(`
		SELECT id, poll_id, option_id, free_text, user_id, session_id, ip_hash, user_agent, is_authenticated, rank_position, created_at, updated_at
		FROM poll_vote
		WHERE `+where+`
		ORDER BY rank_position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

// LoadPollVotes returns every vote row for a poll, for tallying.
func LoadPollVotes(db *sql.DB, pollID string) ([]models.PollVote, error) {
	rows, err := db.Query(`
		SELECT id, poll_id, option_id, free_text, user_id, session_id, ip_hash, user_agent, is_authenticated, rank_position, created_at, updated_at
		FROM poll_vote
		WHERE poll_id = $1
		ORDER BY created_at, id
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

func scanVotes(rows *sql.Rows) ([]models.PollVote, error) {
	votes := []models.PollVote{}
	for rows.Next() {
		var v models.PollVote
		if err := rows.Scan(
			&v.ID, &v.PollID, &v.OptionID, &v.FreeText,
			&v.UserID, &v.SessionID, &v.IPHash, &v.UserAgent,
			&v.IsAuthenticated, &v.RankPosition, &v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func countVotesTx(tx *sql.Tx, pollID string, identity Identity) (int, error) {
	where, args := identityWhere(pollID, identity)
	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM poll_vote WHERE `+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count existing votes: %w", err)
	}
	return count, nil
}

func currentVotesTx(tx *sql.Tx, pollID string, identity Identity) ([]models.PollVote, error) {
	where, args := identityWhere(pollID, identity)
	rows, err := tx.Query(`
		SELECT id, poll_id, option_id, free_text, user_id, session_id, ip_hash, user_agent, is_authenticated, rank_position, created_at, updated_at
		FROM poll_vote
		WHERE `+where+`
		ORDER BY rank_position
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

// identityWhere builds the lookup matching the uniqueness key: user id
// for authenticated voters, (ip_hash, user_agent) fingerprint otherwise.
func identityWhere(pollID string, identity Identity) (string, []interface{}) {
	if identity.Authenticated() {
		return "poll_id = $1 AND user_id = $2", []interface{}{pollID, identity.UserID}
	}
	return "poll_id = $1 AND user_id IS NULL AND ip_hash = $2 AND user_agent = $3",
		[]interface{}{pollID, identity.IPHash, identity.UserAgent}
}

func loadOptionIDs(db *sql.DB, pollID string) (map[string]bool, error) {
	rows, err := db.Query(`SELECT id FROM poll_option WHERE poll_id = $1`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query options: %w", err)
	}
	defer rows.Close()

	valid := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		valid[id] = true
	}
	return valid, rows.Err()
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// isUniqueViolation matches constraint errors from both drivers
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "constraint failed: uq_poll_vote")
}
