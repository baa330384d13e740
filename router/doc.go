// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Agora API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Poll management (admin operations require X-Admin-Key):

	POST /polls              - Create poll
	GET  /polls/{id}         - Poll info and options
	POST /polls/{id}/options - Add option
	POST /polls/{id}/close   - Close voting
	POST /polls/{id}/archive - Archive a closed poll

Voting (identity from X-User-ID or X-Session-ID):

	POST /polls/{id}/votes   - Submit/replace vote
	GET  /polls/{id}/my-vote - Current vote for this identity

Results (public):

	GET /polls/{id}/results - Live tally

Locations:

	POST /locations             - Create location
	GET  /locations/{id}        - Location info
	POST /locations/{id}/enrich - Fetch population from Wikipedia

# Handler Initialization

The router creates handler instances with dependency injection:

	pollHandler := handlers.NewPollHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	locationHandler := handlers.NewLocationHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
