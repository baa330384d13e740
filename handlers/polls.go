// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/openagora/agora-server/auth"
	"github.com/openagora/agora-server/cliparse"
	"github.com/openagora/agora-server/middleware"
	"github.com/openagora/agora-server/models"
)

type PollHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPollHandler(db *sql.DB, cfg cliparse.Config) *PollHandler {
	return &PollHandler{db: db, cfg: cfg}
}

// CreatePoll handles POST /polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if req.Question == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.QuestionType == "" {
		req.QuestionType = models.TypeSingleChoice
	}
	switch req.QuestionType {
	case models.TypeSingleChoice, models.TypeRankedChoice, models.TypeFreeText:
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "question_type must be single-choice, ranked-choice, or free-text")
		return
	}
	if req.Kind == "" {
		req.Kind = models.KindSimple
	}
	if req.Kind != models.KindSimple && req.Kind != models.KindComplex {
		middleware.ErrorResponse(w, http.StatusBadRequest, "kind must be simple or complex")
		return
	}
	if req.Deadline != nil && req.Deadline.Before(time.Now()) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "deadline must be in the future")
		return
	}

	// Generate poll ID
	pollID, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate poll ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	// Generate admin key
	adminKey := auth.GenerateAdminKey(pollID, h.cfg.AdminKeySalt)

	// Insert poll into database
	_, err = h.db.Exec(`
		INSERT INTO poll (id, question, description, question_type, kind, status, allow_unauthenticated, allow_user_add_options, deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, pollID, req.Question, req.Description, req.QuestionType, req.Kind,
		models.StatusActive, req.AllowUnauthenticatedVoting, req.AllowUserAddOptions, req.Deadline, time.Now())

	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "question_type", req.QuestionType)

	// Return response
	middleware.JSONResponse(w, http.StatusCreated, models.CreatePollResponse{
		PollID:   pollID,
		AdminKey: adminKey,
	})
}

// GetPoll handles GET /polls/:id
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := loadPoll(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	options, err := loadOptions(h.db, pollID)
	if err != nil {
		slog.Error("failed to query options", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.PollWithOptions{
		Poll:    poll,
		Options: options,
	})
}

// AddOption handles POST /polls/:id/options
//
// The poll creator adds options with the admin key. When the poll has
// allow_user_add_options set, any voter may add options too, but only
// while the poll is still active.
func (h *PollHandler) AddOption(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	poll, err := loadPoll(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	isAdmin := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt) == nil
	if !isAdmin && !poll.AllowUserAddOptions {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if poll.Status != models.StatusActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add options to a closed poll")
		return
	}

	var req models.AddOptionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	optionID, err := auth.GenerateID(12)
	if err != nil {
		slog.Error("failed to generate option ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create option")
		return
	}

	// Append at the end of the current option list
	var position int
	err = h.db.QueryRow(`SELECT COALESCE(MAX(position), 0) + 1 FROM poll_option WHERE poll_id = $1`, pollID).Scan(&position)
	if err != nil {
		slog.Error("failed to compute option position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create option")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO poll_option (id, poll_id, position, text, image_url, link_url)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, optionID, pollID, position, req.Text, nullString(req.ImageURL), nullString(req.LinkURL))
	if err != nil {
		slog.Error("failed to insert option", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create option")
		return
	}

	slog.Info("option added", "poll_id", pollID, "option_id", optionID, "by_admin", isAdmin)

	middleware.JSONResponse(w, http.StatusCreated, models.AddOptionResponse{
		OptionID: optionID,
	})
}

// ClosePoll handles POST /polls/:id/close
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusActive, models.StatusClosed, "Only active polls can be closed")
}

// ArchivePoll handles POST /polls/:id/archive
func (h *PollHandler) ArchivePoll(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, models.StatusClosed, models.StatusArchived, "Only closed polls can be archived")
}

// transition moves a poll one step along active -> closed -> archived.
func (h *PollHandler) transition(w http.ResponseWriter, r *http.Request, from, to, conflictMsg string) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(pollID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	var status string
	err := h.db.QueryRow(`SELECT status FROM poll WHERE id = $1`, pollID).Scan(&status)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if status != from {
		middleware.ErrorResponse(w, http.StatusConflict, conflictMsg)
		return
	}

	if _, err := h.db.Exec(`UPDATE poll SET status = $1 WHERE id = $2`, to, pollID); err != nil {
		slog.Error("failed to update poll status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update poll")
		return
	}

	slog.Info("poll status changed", "poll_id", pollID, "status", to)

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"poll_id": pollID,
		"status":  to,
	})
}

// loadPoll reads one poll row. Returns sql.ErrNoRows when absent.
func loadPoll(db *sql.DB, pollID string) (models.Poll, error) {
	var p models.Poll
	err := db.QueryRow(`
		SELECT id, question, description, question_type, kind, status, allow_unauthenticated, allow_user_add_options, deadline, created_at
		FROM poll WHERE id = $1
	`, pollID).Scan(&p.ID, &p.Question, &p.Description, &p.QuestionType, &p.Kind,
		&p.Status, &p.AllowUnauthenticated, &p.AllowUserAddOptions, &p.Deadline, &p.CreatedAt)
	return p, err
}

func loadOptions(db *sql.DB, pollID string) ([]models.PollOption, error) {
	rows, err := db.Query(`
		SELECT id, poll_id, position, text, image_url, link_url
		FROM poll_option WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	options := []models.PollOption{}
	for rows.Next() {
		var opt models.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Position, &opt.Text, &opt.ImageURL, &opt.LinkURL); err != nil {
			return nil, err
		}
		options = append(options, opt)
	}
	return options, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
