// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Agora API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - PollHandler: Poll lifecycle (create, read, add options, close, archive)
  - VotingHandler: Vote submission and my-vote retrieval
  - ResultsHandler: Tally computation over stored votes
  - LocationHandler: Location records and Wikipedia population enrichment

Handlers are created via constructor functions that accept *sql.DB and Config:

	pollHandler := handlers.NewPollHandler(db, cfg)

# Poll Lifecycle

Polls progress through three states: active → closed → archived

	POST /polls               → CreatePoll (returns admin_key)
	GET  /polls/{id}          → GetPoll
	POST /polls/{id}/options  → AddOption (admin, or any voter when the
	                            poll allows user-added options)
	POST /polls/{id}/close    → ClosePoll
	POST /polls/{id}/archive  → ArchivePoll

Admin operations require the X-Admin-Key header.

# Voting Flow

	POST /polls/{id}/votes   → SubmitVote (create or replace)
	GET  /polls/{id}/my-vote → GetMyVote
	GET  /polls/{id}/results → GetResults

Voter identity comes from headers: X-User-ID marks an authenticated
voter; anonymous voters send X-Session-ID and are fingerprinted by
session, hashed client IP, and user agent. Votes replace in place, so
resubmitting while a poll is open changes the vote instead of adding
another.

# Locations

	POST /locations             → CreateLocation
	GET  /locations/{id}        → GetLocation
	POST /locations/{id}/enrich → EnrichLocation

Enrichment fetches the location's Wikipedia article and pulls a
population figure out of its infobox (wikipop package). A page with no
usable figure leaves the stored population untouched.
*/
package handlers
