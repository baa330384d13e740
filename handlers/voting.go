// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openagora/agora-server/auth"
	"github.com/openagora/agora-server/cliparse"
	"github.com/openagora/agora-server/middleware"
	"github.com/openagora/agora-server/models"
	"github.com/openagora/agora-server/voting"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// voterIdentity builds the identity from request headers. Authenticated
// requests carry X-User-ID (set by the gateway after session
// validation); everything else is fingerprinted by session id, hashed
// client IP, and user agent. Anonymous requests without a session id
// are rejected rather than silently collapsing onto one fingerprint.
func (h *VotingHandler) voterIdentity(r *http.Request) (voting.Identity, error) {
	if userID := r.Header.Get("X-User-ID"); userID != "" {
		return voting.Identity{UserID: userID}, nil
	}

	sessionID := r.Header.Get("X-Session-ID")
	if sessionID == "" {
		return voting.Identity{}, errors.New("X-Session-ID is required for anonymous voting")
	}

	return voting.Identity{
		SessionID: sessionID,
		IPHash:    auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt),
		UserAgent: r.UserAgent(),
	}, nil
}

// SubmitVote handles POST /polls/:id/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	identity, err := h.voterIdentity(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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

	result, err := voting.SubmitVote(h.db, poll, identity, voting.Selection{
		OptionID:        req.OptionID,
		RankedOptionIDs: req.RankedOptionIDs,
		FreeText:        req.FreeText,
	})
	if err != nil {
		h.writeSubmitError(w, err)
		return
	}

	status := "updated"
	httpStatus := http.StatusOK
	if result.Created {
		status = "created"
		httpStatus = http.StatusCreated
	}

	slog.Info("vote recorded",
		"poll_id", pollID,
		"status", status,
		"authenticated", identity.Authenticated(),
	)

	middleware.JSONResponse(w, httpStatus, models.SubmitVoteResponse{
		Status: status,
		Votes:  result.Votes,
	})
}

// GetMyVote handles GET /polls/:id/my-vote
func (h *VotingHandler) GetMyVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll_id is required")
		return
	}

	identity, err := h.voterIdentity(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	votes, err := voting.CurrentVotes(h.db, pollID, identity)
	if err != nil {
		slog.Error("failed to query votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(votes) == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "No vote recorded")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"poll_id": pollID,
		"votes":   votes,
	})
}

// writeSubmitError maps each submission failure to its HTTP status.
// Every sentinel gets its own mapping so clients can distinguish "come
// back signed in" from "this poll is over".
func (h *VotingHandler) writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, voting.ErrPollClosed),
		errors.Is(err, voting.ErrPollExpired),
		errors.Is(err, voting.ErrDuplicateVoteRace):
		middleware.ErrorResponse(w, http.StatusConflict, err.Error())
	case errors.Is(err, voting.ErrUnauthenticatedVotingDisabled):
		middleware.ErrorResponse(w, http.StatusForbidden, err.Error())
	case errors.Is(err, voting.ErrInvalidOption),
		errors.Is(err, voting.ErrInvalidRankSequence),
		errors.Is(err, voting.ErrEmptyFreeTextResponse):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to submit vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
	}
}
