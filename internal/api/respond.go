// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/frc1678/kestrel/internal/logging"
)

// Error codes used in the error envelope.
const (
	codeUnauthorized    = "UNAUTHORIZED"
	codeInvalidCategory = "INVALID_CATEGORY"
	codeNotFound        = "NOT_FOUND"
	codeBadRequest      = "BAD_REQUEST"
	codeInternal        = "INTERNAL_ERROR"
)

// apiError is the error half of the JSON error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorEnvelope is what clients receive on any failure: a status code plus
// a code/message pair. Payload endpoints return their raw shapes unwrapped.
type errorEnvelope struct {
	Error apiError `json:"error"`
}

// respondJSON writes payload as JSON with the given status.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("failed to write response")
	}
}

// respondError writes the JSON error envelope. err, when non-nil, is logged
// but never leaked to the client.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", code).Err(err).Msg("request failed")
	}
	respondJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}
