// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"context"
	"net/http"
	"time"
)

// healthPingTimeout bounds the store probe so a wedged cluster cannot hang
// the liveness check.
const healthPingTimeout = 2 * time.Second

// Health reports liveness plus store connectivity. The probe always answers
// 200; a down database is reported in the body and left to the monitor to
// act on.
func (rt *Router) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	database := "up"
	if ok, err := rt.store.Ping(ctx, "admin"); err != nil || !ok {
		database = "down"
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"database": database,
	})
}
