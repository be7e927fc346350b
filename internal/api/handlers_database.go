// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/frc1678/kestrel/internal/logging"
	"github.com/frc1678/kestrel/internal/reshape"
)

// validate is the shared validator instance (thread-safe, caches struct info).
var validate = validator.New(validator.WithRequiredStructEnabled())

// excludedDatabases are cluster system/reserved databases never reported by
// the db_list endpoint.
var excludedDatabases = map[string]struct{}{
	"admin":        {},
	"config":       {},
	"local":        {},
	"api":          {},
	"__realm_sync": {},
	"static":       {},
}

// DatabaseExists pings the named database and reports whether the cluster
// answered.
func (rt *Router) DatabaseExists(w http.ResponseWriter, r *http.Request) {
	dbName := chi.URLParam(r, "db_name")

	ok, err := rt.store.Ping(r.Context(), dbName)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to ping database", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"exists": ok})
}

// DatabaseList returns every database name in the cluster minus the
// system/reserved set.
func (rt *Router) DatabaseList(w http.ResponseWriter, r *http.Request) {
	names, err := rt.store.ListDatabaseNames(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to list databases", err)
		return
	}

	dbList := []string{}
	for _, name := range names {
		if _, excluded := excludedDatabases[name]; !excluded {
			dbList = append(dbList, name)
		}
	}

	respondJSON(w, http.StatusOK, dbList)
}

// GetCollection returns the full contents of a collection with the
// storage-internal identity field stripped.
func (rt *Router) GetCollection(w http.ResponseWriter, r *http.Request) {
	dbName := chi.URLParam(r, "db_name")
	collection := chi.URLParam(r, "collection_name")

	docs, err := rt.store.FindAll(r.Context(), dbName, collection)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch collection", err)
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

// UpsertDocument replaces or inserts a single document keyed by its
// team_number.
func (rt *Router) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	dbName := chi.URLParam(r, "db_name")
	collection := chi.URLParam(r, "collection_name")

	var doc bson.M
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "request body is not a JSON document", err)
		return
	}
	teamNumber, ok := doc["team_number"]
	if !ok {
		respondError(w, http.StatusBadRequest, codeBadRequest, "document must include team_number", nil)
		return
	}

	if err := rt.store.Upsert(r.Context(), dbName, collection, bson.M{"team_number": teamNumber}, doc); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to upsert document", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetTeamData returns one team category reshaped to team_number -> document.
func (rt *Router) GetTeamData(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	category := reshape.TeamCategory(chi.URLParam(r, "category"))

	if !category.Valid() {
		respondError(w, http.StatusNotFound, codeInvalidCategory,
			fmt.Sprintf("invalid team category: %s", category), nil)
		return
	}

	docs, err := rt.store.FindAll(r.Context(), eventKey, string(category))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch team data", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.Teams(docs))
}

// GetTIMData returns one TIM category reshaped to match_number ->
// team_number -> document.
func (rt *Router) GetTIMData(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	category := reshape.TIMCategory(chi.URLParam(r, "category"))

	if !category.Valid() {
		respondError(w, http.StatusNotFound, codeInvalidCategory,
			fmt.Sprintf("invalid tim category: %s", category), nil)
		return
	}

	docs, err := rt.store.FindAll(r.Context(), eventKey, string(category))
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch tim data", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.TeamsInMatches(docs))
}

// GetPredictedAIM returns predicted alliance-in-match data grouped by match
// and split into red/blue slots.
func (rt *Router) GetPredictedAIM(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	docs, err := rt.store.FindAll(r.Context(), eventKey, "predicted_aim")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch predicted aim", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.PredictedAIMs(docs))
}

// GetAutoPaths returns auto path data grouped by team then path number.
func (rt *Router) GetAutoPaths(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	docs, err := rt.store.FindAll(r.Context(), eventKey, "auto_paths")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch auto paths", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.AutoPaths(docs))
}

// GetScoutUsers returns the deduplicated usernames appearing in either
// scouter-subjective collection.
func (rt *Router) GetScoutUsers(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	tim, err := rt.store.FindAll(r.Context(), eventKey, "ss_tim")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch ss_tim", err)
		return
	}
	team, err := rt.store.FindAll(r.Context(), eventKey, "ss_team")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch ss_team", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.Usernames(tim, team))
}

// GetScoutTeam returns one scout's subjective team documents keyed by team
// number.
func (rt *Router) GetScoutTeam(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	user := chi.URLParam(r, "user")

	docs, err := rt.store.Find(r.Context(), eventKey, "ss_team", bson.M{"username": user})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch ss_team", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.TeamsByNumber(docs))
}

// GetScoutTIM returns one scout's subjective TIM documents grouped by match
// then team number.
func (rt *Router) GetScoutTIM(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	user := chi.URLParam(r, "user")

	docs, err := rt.store.Find(r.Context(), eventKey, "ss_tim", bson.M{"username": user})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch ss_tim", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.TeamsInMatches(docs))
}

// GetNotes returns every note keyed by team number.
func (rt *Router) GetNotes(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	docs, err := rt.store.FindAll(r.Context(), eventKey, "notes")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch notes", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.NotesByTeam(docs))
}

// GetTeamNote returns one team's note text, or an empty string when the
// team has no note, always paired with the queried team number.
func (rt *Router) GetTeamNote(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	teamNumber := chi.URLParam(r, "team_number")

	docs, err := rt.store.Find(r.Context(), eventKey, "notes", bson.M{"team_number": teamNumber})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch note", err)
		return
	}

	var note interface{} = ""
	if len(docs) > 0 {
		note = docs[0]["notes"]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notes":       note,
		"team_number": teamNumber,
	})
}

// noteRequest is the body of the note upsert endpoint.
type noteRequest struct {
	Note string `json:"note" validate:"required"`
}

// UpsertNote replaces or creates the single note for a team. Notes are
// replaced, never appended.
func (rt *Router) UpsertNote(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	teamNumber := chi.URLParam(r, "team_number")

	var req noteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "request body is not a JSON document", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "note is required", err)
		return
	}

	err := rt.store.Upsert(r.Context(), eventKey, "notes",
		bson.M{"team_number": teamNumber}, bson.M{"notes": req.Note})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to upsert note", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetScoutPrecision returns the ranked scout precision list, excluding
// scouts with no precision data.
func (rt *Router) GetScoutPrecision(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	docs, err := rt.store.FindAll(r.Context(), eventKey, "scout_precision")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch scout precision", err)
		return
	}

	respondJSON(w, http.StatusOK, reshape.ScoutPrecisions(docs))
}

// pitCollectionRequest is the body of the pit batch upsert endpoint.
type pitCollectionRequest struct {
	PitData []bson.M `json:"pit_data" validate:"required"`
}

// UpsertPitCollection upserts a batch of pit documents into raw_obj_pit,
// each keyed by team_number. Documents are processed in input order with no
// atomicity across the batch; a failure mid-batch leaves earlier writes
// applied.
func (rt *Router) UpsertPitCollection(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	var req pitCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "request body is not a JSON document", err)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "pit_data is required", err)
		return
	}

	successfulInserts := 0
	for _, doc := range req.PitData {
		teamNumber, ok := doc["team_number"]
		if !ok {
			respondError(w, http.StatusBadRequest, codeBadRequest, "pit document must include team_number", nil)
			return
		}

		err := rt.store.Upsert(r.Context(), eventKey, "raw_obj_pit", bson.M{"team_number": teamNumber}, doc)
		if err != nil {
			respondError(w, http.StatusInternalServerError, codeInternal, "failed to upsert pit document", err)
			return
		}
		successfulInserts++
	}

	respondJSON(w, http.StatusOK, map[string]int{
		"successful_inserts": successfulInserts,
		"failed_inserts":     len(req.PitData) - successfulInserts,
	})
}

// UploadPitImage stores a multipart image upload keyed by its filename.
func (rt *Router) UploadPitImage(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	file, header, err := r.FormFile("picture")
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "picture file is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, codeBadRequest, "failed to read picture", err)
		return
	}

	doc := bson.M{
		"filename": header.Filename,
		"image":    primitive.Binary{Data: data},
	}
	if err := rt.store.Upsert(r.Context(), eventKey, "pit_images", bson.M{"filename": header.Filename}, doc); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to store image", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"filename": header.Filename,
	})
}

// GetPitImage serves a stored pit image. Public: the viewer hotlinks images
// without credentials.
func (rt *Router) GetPitImage(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	imageName := chi.URLParam(r, "image_name")

	doc, err := rt.store.FindOne(r.Context(), eventKey, "pit_images", bson.M{"filename": imageName})
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to fetch image", err)
		return
	}
	if doc == nil {
		respondError(w, http.StatusNotFound, codeNotFound,
			fmt.Sprintf("image %s not found", imageName), nil)
		return
	}

	data := imageBytes(doc["image"])
	w.Header().Set("Content-Type", "image/jpeg")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Str("image", imageName).Msg("failed to write image response")
	}
}

// DeletePitImage removes a stored pit image by filename. Deleting an
// unknown filename still reports success; there is no tombstone.
func (rt *Router) DeletePitImage(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")
	imageName := chi.URLParam(r, "image_name")

	if err := rt.store.DeleteOne(r.Context(), eventKey, "pit_images", bson.M{"filename": imageName}); err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to delete image", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// GetPitImageList returns the stored image filenames. Public alongside
// image retrieval.
func (rt *Router) GetPitImageList(w http.ResponseWriter, r *http.Request) {
	eventKey := chi.URLParam(r, "event_key")

	docs, err := rt.store.Find(r.Context(), eventKey, "pit_images", bson.M{}, "image")
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternal, "failed to list images", err)
		return
	}

	names := []string{}
	for _, doc := range docs {
		if name, ok := doc["filename"].(string); ok {
			names = append(names, name)
		}
	}

	respondJSON(w, http.StatusOK, names)
}

// imageBytes unwraps the stored binary payload, which the driver may
// surface as primitive.Binary or a raw byte slice.
func imageBytes(v interface{}) []byte {
	switch data := v.(type) {
	case primitive.Binary:
		return data.Data
	case []byte:
		return data
	default:
		return nil
	}
}
