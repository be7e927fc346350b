// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package api binds the HTTP surface of the gateway: route registration,
// the API-key gate, and the handlers that stitch the document store, the
// TBA client, and the reshape transforms together.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/frc1678/kestrel/internal/middleware"
)

// DataStore is the slice of the document store the handlers need. The
// concrete implementation is *store.Store; tests substitute a stub.
type DataStore interface {
	ListDatabaseNames(ctx context.Context) ([]string, error)
	Ping(ctx context.Context, dbName string) (bool, error)
	Find(ctx context.Context, dbName, collection string, filter bson.M, exclude ...string) ([]bson.M, error)
	FindAll(ctx context.Context, dbName, collection string) ([]bson.M, error)
	FindOne(ctx context.Context, dbName, collection string, filter bson.M) (bson.M, error)
	Upsert(ctx context.Context, dbName, collection string, filter, doc bson.M) error
	DeleteOne(ctx context.Context, dbName, collection string, filter bson.M) error
}

// TBARequester issues read requests against The Blue Alliance API. A nil
// result with a nil error means the API was unreachable or answered non-200.
type TBARequester interface {
	Request(ctx context.Context, path string) (interface{}, error)
}

// Options configures the router.
type Options struct {
	// APIKey is the static shared secret for protected route groups.
	APIKey string

	// CORSAllowedOrigins is the browser origin allow-list.
	CORSAllowedOrigins []string
}

// Router owns the handler dependencies and builds the chi route tree.
type Router struct {
	store DataStore
	tba   TBARequester
	opts  Options
}

// NewRouter creates a Router with explicit dependencies; there is no global
// connection state.
func NewRouter(store DataStore, tba TBARequester, opts Options) *Router {
	return &Router{store: store, tba: tba, opts: opts}
}

// Handler builds the full route tree.
//
// The /database and /tba groups sit behind the API-key gate, with two
// deliberate exemptions: pit image retrieval and the pit image list are
// public reads so the viewer can hotlink images without credentials. That
// is a permanent design decision, not an oversight.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   rt.opts.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", APIKeyHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	r.Use(middleware.Prometheus)

	r.Get("/healthz", rt.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/database", func(r chi.Router) {
		// Public image reads.
		r.Get("/pit_collection/images/{event_key}/{image_name}", rt.GetPitImage)
		r.Get("/pit_collection/image_list/{event_key}", rt.GetPitImageList)

		r.Group(func(r chi.Router) {
			r.Use(RequireAPIKey(rt.opts.APIKey))

			r.Get("/exists/{db_name}", rt.DatabaseExists)
			r.Get("/db_list", rt.DatabaseList)
			r.Get("/raw/{db_name}/{collection_name}", rt.GetCollection)
			r.Put("/raw/{db_name}/{collection_name}", rt.UpsertDocument)
			r.Get("/team/{event_key}/{category}", rt.GetTeamData)
			r.Get("/tim/{event_key}/{category}", rt.GetTIMData)
			r.Get("/predicted_aim/{event_key}", rt.GetPredictedAIM)
			r.Get("/auto_paths/{event_key}", rt.GetAutoPaths)
			r.Get("/ss_users/{event_key}", rt.GetScoutUsers)
			r.Get("/ss_team/{event_key}/{user}", rt.GetScoutTeam)
			r.Get("/ss_tim/{event_key}/{user}", rt.GetScoutTIM)
			r.Get("/notes/{event_key}", rt.GetNotes)
			r.Get("/notes/{event_key}/{team_number}", rt.GetTeamNote)
			r.Put("/notes/{event_key}/{team_number}", rt.UpsertNote)
			r.Get("/scout_precision/{event_key}", rt.GetScoutPrecision)
			r.Put("/pit_collection/{event_key}", rt.UpsertPitCollection)
			r.Put("/pit_collection/images/{event_key}", rt.UploadPitImage)
			r.Delete("/pit_collection/images/{event_key}/{image_name}", rt.DeletePitImage)
		})
	})

	r.Route("/tba", func(r chi.Router) {
		r.Use(RequireAPIKey(rt.opts.APIKey))

		r.Get("/raw/*", rt.TBARaw)
		r.Get("/match_schedule/{event_key}", rt.TBAMatchSchedule)
		r.Get("/team_list/{event_key}", rt.TBATeamList)
	})

	return r
}
