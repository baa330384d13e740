// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and response helpers.

# Request Logging

WithLogging wraps a handler func with slog request/completion logging:

	mux.HandleFunc("POST /polls", middleware.WithLogging(h.CreatePoll))

# JSON Helpers

JSONResponse and ErrorResponse write JSON bodies with the right
Content-Type; ParseJSONBody decodes request bodies.

# CORS

CORS echoes the request origin and allows the platform's identity
headers (X-Admin-Key, X-User-ID, X-Session-ID) so the frontend can pass
them cross-origin.

# Client IP

GetClientIP resolves the caller's address through X-Forwarded-For and
X-Real-IP before falling back to RemoteAddr. The result feeds the
anonymous voter fingerprint, so proxy headers matter: behind a load
balancer, RemoteAddr alone would collapse every voter into one identity.
*/
package middleware
