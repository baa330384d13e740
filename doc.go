// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Agora API server.

Agora is a polling backend for a local-news platform: polls with
single-choice, ranked-choice, and free-text questions, vote replacement
instead of vote stacking, and location records enriched with population
figures pulled from Wikipedia infoboxes.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3414 -t sqlite -d agora.db

# Configuration

Required settings:

  - DATABASE_URL (-d): Connection string (Postgres URL or SQLite path)
  - ADMIN_KEY_SALT (--admin-salt): Secret for admin key HMAC
  - IP_HASH_SALT (--ip-salt): Secret for anonymous voter IP hashing

Optional settings:

  - PORT (-p): Server port (default: 3414)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - WIKIPEDIA_BASE_URL (--wiki-url): MediaWiki API endpoint

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (polls, voting, results, locations)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - voting: Eligibility checks and vote persistence
  - tally: Pure result computation
  - wikipop: Wikipedia fetch and population extraction
  - auth: Key generation, validation, and IP hashing
*/
package main
