package models

import "time"

// Poll status constants. Transitions are one-way: active -> closed -> archived.
const (
	StatusActive   = "active"
	StatusClosed   = "closed"
	StatusArchived = "archived"
)

// Question type constants
const (
	TypeSingleChoice = "single-choice"
	TypeRankedChoice = "ranked-choice"
	TypeFreeText     = "free-text"
)

// Poll kind constants
const (
	KindSimple  = "simple"
	KindComplex = "complex"
)

// Request types

type CreatePollRequest struct {
	Question                   string     `json:"question"`
	Description                string     `json:"description"`
	QuestionType               string     `json:"question_type"`
	Kind                       string     `json:"kind"`
	AllowUnauthenticatedVoting bool       `json:"allow_unauthenticated_voting"`
	AllowUserAddOptions        bool       `json:"allow_user_add_options"`
	Deadline                   *time.Time `json:"deadline,omitempty"`
}

type AddOptionRequest struct {
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	LinkURL  string `json:"link_url,omitempty"`
}

// Exactly one of the three fields is used, depending on the poll's
// question type: option_id (single-choice), ranked_option_ids in
// preference order (ranked-choice), or free_text (free-text).
type SubmitVoteRequest struct {
	OptionID        string   `json:"option_id,omitempty"`
	RankedOptionIDs []string `json:"ranked_option_ids,omitempty"`
	FreeText        string   `json:"free_text,omitempty"`
}

type CreateLocationRequest struct {
	Name           string `json:"name"`
	Country        string `json:"country,omitempty"`
	WikipediaTitle string `json:"wikipedia_title"`
}

// Response types

type CreatePollResponse struct {
	PollID   string `json:"poll_id"`
	AdminKey string `json:"admin_key"`
}

type AddOptionResponse struct {
	OptionID string `json:"option_id"`
}

type SubmitVoteResponse struct {
	Status string     `json:"status"` // "created" or "updated"
	Votes  []PollVote `json:"votes"`
}

type EnrichLocationResponse struct {
	LocationID string `json:"location_id"`
	Population *int64 `json:"population"`
	Updated    bool   `json:"updated"`
}

type LocationResponse struct {
	Location          Location `json:"location"`
	PopulationDisplay string   `json:"population_display,omitempty"`
}

// Domain types

type Poll struct {
	ID                   string     `json:"id"`
	Question             string     `json:"question"`
	Description          string     `json:"description"`
	QuestionType         string     `json:"question_type"`
	Kind                 string     `json:"kind"`
	Status               string     `json:"status"`
	AllowUnauthenticated bool       `json:"allow_unauthenticated_voting"`
	AllowUserAddOptions  bool       `json:"allow_user_add_options"`
	Deadline             *time.Time `json:"deadline,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}

type PollOption struct {
	ID       string  `json:"id"`
	PollID   string  `json:"poll_id"`
	Position int     `json:"position"`
	Text     string  `json:"text"`
	ImageURL *string `json:"image_url,omitempty"`
	LinkURL  *string `json:"link_url,omitempty"`
}

type PollWithOptions struct {
	Poll    Poll         `json:"poll"`
	Options []PollOption `json:"options"`
}

// PollVote is one stored vote row. Single-choice and free-text voters
// hold exactly one row; ranked-choice voters hold one row per ranked
// option, rank position 1 being the most preferred.
type PollVote struct {
	ID              string    `json:"id"`
	PollID          string    `json:"poll_id"`
	OptionID        *string   `json:"option_id,omitempty"`
	FreeText        *string   `json:"free_text,omitempty"`
	UserID          *string   `json:"-"` // Never expose in JSON
	SessionID       *string   `json:"-"` // Never expose in JSON
	IPHash          *string   `json:"-"` // Never expose in JSON
	UserAgent       *string   `json:"-"` // Never expose in JSON
	IsAuthenticated bool      `json:"is_authenticated"`
	RankPosition    int       `json:"rank_position"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Location struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Country             string     `json:"country,omitempty"`
	WikipediaTitle      string     `json:"wikipedia_title"`
	Population          *int64     `json:"population"` // nil means unknown, never zero
	PopulationFetchedAt *time.Time `json:"population_fetched_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

// Tally result types

type OptionTally struct {
	OptionID   string  `json:"option_id"`
	Text       string  `json:"text"`
	Position   int     `json:"position"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

type PollResults struct {
	PollID                   string        `json:"poll_id"`
	QuestionType             string        `json:"question_type"`
	TotalVotes               int           `json:"total_votes"`
	AuthenticatedVoteCount   int           `json:"authenticated_vote_count"`
	UnauthenticatedVoteCount int           `json:"unauthenticated_vote_count"`
	Options                  []OptionTally `json:"options,omitempty"`
	Responses                []string      `json:"responses,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
