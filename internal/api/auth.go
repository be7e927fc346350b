// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"crypto/subtle"
	"net/http"
)

// APIKeyHeader is the request header carrying the local shared secret.
const APIKeyHeader = "Kestrel-API-Key"

// RequireAPIKey gates a route group behind the static shared secret. The
// header value is compared byte-for-byte against the configured key; a
// missing header and a wrong key are rejected identically with 401, so a
// caller cannot distinguish the two.
func RequireAPIKey(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			provided := r.Header.Get(APIKeyHeader)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
				respondError(w, http.StatusUnauthorized, codeUnauthorized, "invalid API key", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
