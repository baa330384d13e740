// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns schema creation.

CreateSchema is idempotent (IF NOT EXISTS everywhere) and is called once
at startup. The schema is written in the dialect subset shared by
PostgreSQL and SQLite so the same statements serve production and the
in-memory test database.

The load-bearing pieces are the two partial unique indexes on poll_vote:

	uq_poll_vote_user  (poll_id, user_id, rank_position)          WHERE user_id IS NOT NULL
	uq_poll_vote_anon  (poll_id, ip_hash, user_agent, rank_position) WHERE user_id IS NULL

They make "at most one vote row per identity per rank" a storage
guarantee rather than application logic, which is what keeps two
concurrent first-time submissions from both inserting.
*/
package db
