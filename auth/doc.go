// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides ID generation, admin key derivation, and IP
hashing.

# Admin Keys

Admin keys are HMAC-SHA256 over the poll ID with a server-side salt, so
they never need to be stored: the server can re-derive and compare.

	key := auth.GenerateAdminKey(pollID, cfg.AdminKeySalt)
	err := auth.ValidateAdminKey(pollID, presentedKey, cfg.AdminKeySalt)

Comparison uses hmac.Equal (constant time).

# IP Hashing

Raw client IPs are never stored. HashIP produces a 64-bit salted HMAC
digest, which is enough to serve as the uniqueness component of the
anonymous voter fingerprint without keeping addresses around.
*/
package auth
