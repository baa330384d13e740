// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package voting enforces vote eligibility and records votes.

# Submitting

	result, err := voting.SubmitVote(db, poll, identity, selection)

Preconditions are checked in order, first failure wins, and a failed
check writes nothing:

 1. poll status must be active
 2. the deadline, if set, must not have passed
 3. anonymous identities need allow_unauthenticated on the poll
 4. the selection must reference this poll's options (or carry
    non-empty text for free-text polls)
 5. ranked selections must be duplicate-free; ranks are the list order

Each failure is a distinct sentinel error (ErrPollClosed,
ErrPollExpired, ErrUnauthenticatedVotingDisabled, ErrInvalidOption,
ErrInvalidRankSequence, ErrEmptyFreeTextResponse) so handlers can map
them to individual HTTP statuses.

# Replacement, Not Append

Resubmission by the same identity while the poll is open replaces the
prior vote in place. Single-choice and free-text votes ride a single
INSERT ... ON CONFLICT ... DO UPDATE against the partial unique index,
so the switch from option A to option B is atomic and no concurrent
reader ever observes two rows for one identity. Ranked-choice votes
replace the whole rank set inside a transaction; when a concurrent
first submission loses the insert race, the unique index rejects it and
the submission is retried once as a replacement. A second rejection
surfaces as ErrDuplicateVoteRace.

Votes are never deleted here; rows only go away when their poll is
deleted (cascade).
*/
package voting
