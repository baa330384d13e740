// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the domain, request, and response types shared by
the handlers and the voting/tally engines.

# Domain Types

  - Poll: question, type (single-choice, ranked-choice, free-text),
    lifecycle status (active -> closed -> archived), optional deadline
  - PollOption: one choice within a poll, ordered by Position
  - PollVote: one stored vote row, keyed by an authenticated user id or
    an anonymous (session, ip-hash, user-agent) fingerprint
  - Location: a place record whose population is filled in from
    Wikipedia infobox data

# Identity Fields

PollVote carries the identity that cast it, but those fields are never
serialized: UserID, SessionID, IPHash, and UserAgent all use json:"-".
IsAuthenticated is derived from the presence of a user id and is the
only identity-adjacent field that leaves the server.

# Tally Types

PollResults is the derived aggregate returned by the results endpoint.
It is computed fresh from current vote rows on every request and is
never stored.
*/
package models
