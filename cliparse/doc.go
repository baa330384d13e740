// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded first (godotenv); real
environment variables win over .env entries, and CLI flags win over both.

# Config Fields

  - Port: Server listen port (default: 3414)
  - DatabaseURL: PostgreSQL or SQLite connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - AdminKeySalt: Secret for admin key HMAC (required)
  - IPHashSalt: Secret for anonymous voter IP hashing (required)
  - WikipediaBaseURL: MediaWiki API endpoint for location enrichment

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type
	-wiki-url     MediaWiki API base URL
	--admin-salt  Admin key salt
	--ip-salt     IP hash salt

# Environment Variables

Flags fall back to environment variables:

	PORT               → -p
	DATABASE_URL       → -d
	DATABASE_TYPE      → -t
	WIKIPEDIA_BASE_URL → -wiki-url
	ADMIN_KEY_SALT     → --admin-salt
	IP_HASH_SALT       → --ip-salt

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - ADMIN_KEY_SALT must be provided
  - IP_HASH_SALT must be provided
*/
package cliparse
