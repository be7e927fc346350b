// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/frc1678/kestrel/internal/reshape"
)

// TBARaw proxies a request straight through to The Blue Alliance and
// returns the raw JSON. An unreachable API or unknown endpoint yields a
// JSON null, mirroring the client's sentinel.
func (rt *Router) TBARaw(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	value, err := rt.tba.Request(r.Context(), path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to query TBA", err)
		return
	}

	respondJSON(w, http.StatusOK, value)
}

// TBAMatchSchedule returns the event's qualification match schedule in the
// viewer's shape. Event keys wrapped with "test" query their underlying
// real event.
func (rt *Router) TBAMatchSchedule(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	tbaKey := reshape.UnwrapTestKey(eventKey)

	value, err := rt.tba.Request(r.Context(), fmt.Sprintf("event/%s/matches/simple", tbaKey))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to query TBA", err)
		return
	}

	matches, ok := value.([]interface{})
	if !ok || len(matches) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "event not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, reshape.MatchSchedule(matches))
}

// TBATeamList returns the event's team numbers with the franchise prefix
// stripped.
func (rt *Router) TBATeamList(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	tbaKey := reshape.UnwrapTestKey(eventKey)

	value, err := rt.tba.Request(r.Context(), fmt.Sprintf("event/%s/teams/keys", tbaKey))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to query TBA", err)
		return
	}

	teamKeys, ok := value.([]interface{})
	if !ok || len(teamKeys) == 0 {
		respondError(w, http.StatusNotFound, codeNotFound, "event not found", nil)
		return
	}

	respondJSON(w, http.StatusOK, reshape.TeamList(teamKeys))
}
