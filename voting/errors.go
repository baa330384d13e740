// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package voting

import "errors"

// Submission failures. All are user-presentable; handlers map each to a
// distinct HTTP status rather than a generic 500.
var (
	ErrPollClosed                    = errors.New("poll is not active")
	ErrPollExpired                   = errors.New("poll deadline has passed")
	ErrUnauthenticatedVotingDisabled = errors.New("this poll requires a signed-in voter")
	ErrInvalidOption                 = errors.New("selection references an option outside this poll")
	ErrInvalidRankSequence           = errors.New("ranking must be a non-empty list without duplicate options")
	ErrEmptyFreeTextResponse         = errors.New("free-text response must not be empty")
	ErrDuplicateVoteRace             = errors.New("vote conflicted with a concurrent submission")
)
