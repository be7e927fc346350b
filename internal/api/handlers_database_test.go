// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package api

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func doJSON(t *testing.T, method, url string, body interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, url, bytes.NewReader(data))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestDatabaseExists(t *testing.T) {
	db := newStubStore()
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/exists/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeBody(t, resp, &body)
	assert.True(t, body["exists"])
}

func TestDatabaseList_ExcludesReservedNames(t *testing.T) {
	db := newStubStore()
	db.dbNames = []string{"2026casd", "admin", "config", "local", "api", "__realm_sync", "static", "2026new"}
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/db_list", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	decodeBody(t, resp, &names)
	assert.Equal(t, []string{"2026casd", "2026new"}, names)
}

func TestGetCollection(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "obj_team",
		bson.M{"team_number": 1678, "avg_score": 42},
		bson.M{"team_number": 254, "avg_score": 40})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/raw/2026casd/obj_team", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []map[string]interface{}
	decodeBody(t, resp, &docs)
	require.Len(t, docs, 2)
	assert.Equal(t, float64(1678), docs[0]["team_number"])
}

func TestUpsertDocument_ReplacesByTeamNumber(t *testing.T) {
	db := newStubStore()
	srv := newTestServer(t, db, nil)
	url := srv.URL + "/database/raw/2026casd/obj_team"

	resp := doJSON(t, http.MethodPut, url, map[string]interface{}{"team_number": 1678, "avg_score": 10})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]bool
	decodeBody(t, resp, &result)
	assert.True(t, result["success"])

	// Second PUT with the same natural key replaces, never duplicates.
	resp = doJSON(t, http.MethodPut, url, map[string]interface{}{"team_number": 1678, "avg_score": 99})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	docs := db.collections["2026casd/obj_team"]
	require.Len(t, docs, 1)
	assert.Equal(t, float64(99), docs[0]["avg_score"])
}

func TestUpsertDocument_MissingTeamNumber(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doJSON(t, http.MethodPut, srv.URL+"/database/raw/2026casd/obj_team",
		map[string]interface{}{"avg_score": 10})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetTeamData_InvalidCategory(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	for _, category := range []string{"obj_tim", "bogus", "teams"} {
		resp := doRequest(t, http.MethodGet, srv.URL+"/database/team/2026casd/"+category, withKey())
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var envelope errorEnvelope
		decodeBody(t, resp, &envelope)
		assert.Equal(t, codeInvalidCategory, envelope.Error.Code)
		assert.Contains(t, envelope.Error.Message, category)
	}
}

func TestGetTeamData_ReshapesAndCoerces(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "obj_team",
		bson.M{"team_number": 1, "auto_mode": primitive.A{"a", "b"}})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/team/2026casd/obj_team", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var teams map[string]map[string]interface{}
	decodeBody(t, resp, &teams)
	require.Contains(t, teams, "1")
	assert.Equal(t, "['a', 'b']", teams["1"]["auto_mode"])
}

func TestGetTIMData_InvalidCategory(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/tim/2026casd/obj_team", withKey())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	assert.Contains(t, envelope.Error.Message, "obj_team")
}

func TestGetTIMData_NestedGrouping(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "obj_tim",
		bson.M{"match_number": 5, "team_number": 1, "x": 1},
		bson.M{"match_number": 5, "team_number": 2, "x": 2})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/tim/2026casd/obj_tim", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var tims map[string]map[string]map[string]interface{}
	decodeBody(t, resp, &tims)
	require.Contains(t, tims, "5")
	assert.Equal(t, float64(1), tims["5"]["1"]["x"])
	assert.Equal(t, float64(2), tims["5"]["2"]["x"])
}

func TestGetPredictedAIM(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "predicted_aim",
		bson.M{"match_number": 1, "alliance_color_is_red": true, "team_numbers": primitive.A{int32(254), int32(1678), int32(971)}},
		bson.M{"match_number": 1, "alliance_color_is_red": false, "team_numbers": primitive.A{int32(118), int32(2056), int32(604)}})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/predicted_aim/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var aims map[string]map[string]map[string]interface{}
	decodeBody(t, resp, &aims)
	require.Contains(t, aims, "1")
	assert.Equal(t, "[254, 1678, 971]", aims["1"]["red"]["team_numbers"])
	assert.Equal(t, "[118, 2056, 604]", aims["1"]["blue"]["team_numbers"])
}

func TestGetAutoPaths(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "auto_paths",
		bson.M{"team_number": 1678, "path_number": 1, "match_numbers_played": primitive.A{int32(3), int32(7)}})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/auto_paths/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var paths map[string]map[string]map[string]interface{}
	decodeBody(t, resp, &paths)
	assert.Equal(t, "[3, 7]", paths["1678"]["1"]["match_numbers_played"])
}

func TestGetScoutUsers(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "ss_tim", bson.M{"username": "ann"}, bson.M{"username": "bo"})
	db.seed("2026casd", "ss_team", bson.M{"username": "ann"}, bson.M{"username": "cy"})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/ss_users/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users []string
	decodeBody(t, resp, &users)
	assert.ElementsMatch(t, []string{"ann", "bo", "cy"}, users)
}

func TestGetScoutTeamAndTIM_FilterByUser(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "ss_team",
		bson.M{"username": "ann", "team_number": 1678, "agility": 5},
		bson.M{"username": "bo", "team_number": 254, "agility": 4})
	db.seed("2026casd", "ss_tim",
		bson.M{"username": "ann", "match_number": 3, "team_number": 1678},
		bson.M{"username": "bo", "match_number": 3, "team_number": 254})
	srv := newTestServer(t, db, nil)

	teamResp := doRequest(t, http.MethodGet, srv.URL+"/database/ss_team/2026casd/ann", withKey())
	require.Equal(t, http.StatusOK, teamResp.StatusCode)
	var teams map[string]map[string]interface{}
	decodeBody(t, teamResp, &teams)
	require.Len(t, teams, 1)
	assert.Equal(t, float64(5), teams["1678"]["agility"])

	timResp := doRequest(t, http.MethodGet, srv.URL+"/database/ss_tim/2026casd/ann", withKey())
	require.Equal(t, http.StatusOK, timResp.StatusCode)
	var tims map[string]map[string]map[string]interface{}
	decodeBody(t, timResp, &tims)
	require.Len(t, tims, 1)
	assert.Contains(t, tims["3"], "1678")
	assert.NotContains(t, tims["3"], "254")
}

func TestGetNotes_AllTeams(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "notes",
		bson.M{"team_number": "1678", "notes": "fast cycles"},
		bson.M{"team_number": "254", "notes": "strong auto"})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/notes/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var notes map[string]string
	decodeBody(t, resp, &notes)
	assert.Equal(t, "fast cycles", notes["1678"])
	assert.Equal(t, "strong auto", notes["254"])
}

func TestGetTeamNote_EmptyWhenAbsent(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/notes/2026casd/999", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	decodeBody(t, resp, &body)
	assert.Equal(t, "", body["notes"])
	assert.Equal(t, "999", body["team_number"])
}

func TestUpsertNote_ReplacesExisting(t *testing.T) {
	db := newStubStore()
	srv := newTestServer(t, db, nil)
	url := srv.URL + "/database/notes/2026casd/1678"

	resp := doJSON(t, http.MethodPut, url, map[string]string{"note": "first"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, url, map[string]string{"note": "second"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	docs := db.collections["2026casd/notes"]
	require.Len(t, docs, 1)
	assert.Equal(t, "second", docs[0]["notes"])
	assert.Equal(t, "1678", docs[0]["team_number"])
}

func TestUpsertNote_MissingNoteField(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doJSON(t, http.MethodPut, srv.URL+"/database/notes/2026casd/1678", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetScoutPrecision_FiltersAndSorts(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "scout_precision",
		bson.M{"scout_name": "no-data"},
		bson.M{"scout_precision": 0.91, "scout_precision_rank": 2, "scout_name": "bo"},
		bson.M{"scout_precision": 0.99, "scout_precision_rank": 1, "scout_name": "ann"})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/scout_precision/2026casd", withKey())
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []map[string]interface{}
	decodeBody(t, resp, &list)
	require.Len(t, list, 2)
	assert.Equal(t, "ann", list[0]["name"])
	assert.Equal(t, "bo", list[1]["name"])
	assert.Equal(t, 0.99, list[0]["precision"])
}

func TestUpsertPitCollection_CountsAcknowledgedWrites(t *testing.T) {
	db := newStubStore()
	srv := newTestServer(t, db, nil)

	body := map[string]interface{}{
		"pit_data": []map[string]interface{}{
			{"team_number": 1678, "drivetrain": "swerve"},
			{"team_number": 254, "drivetrain": "swerve"},
		},
	}
	resp := doJSON(t, http.MethodPut, srv.URL+"/database/pit_collection/2026casd", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var counts map[string]int
	decodeBody(t, resp, &counts)
	assert.Equal(t, 2, counts["successful_inserts"])
	assert.Equal(t, 0, counts["failed_inserts"])

	require.Len(t, db.upserts, 2)
	assert.Equal(t, "raw_obj_pit", db.upserts[0].Collection)
	assert.Equal(t, float64(1678), db.upserts[0].Filter["team_number"])
}

func TestUpsertPitCollection_MissingPitData(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doJSON(t, http.MethodPut, srv.URL+"/database/pit_collection/2026casd", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPitImages_UploadFetchDelete(t *testing.T) {
	db := newStubStore()
	srv := newTestServer(t, db, nil)
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02}

	// Upload via multipart form.
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("picture", "1678_robot.jpg")
	require.NoError(t, err)
	_, err = part.Write(imageData)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPut, srv.URL+"/database/pit_collection/images/2026casd", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set(APIKeyHeader, testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var uploadResult map[string]interface{}
	decodeBody(t, resp, &uploadResult)
	assert.Equal(t, true, uploadResult["success"])
	assert.Equal(t, "1678_robot.jpg", uploadResult["filename"])

	// Fetch it back (no auth required).
	getResp := doRequest(t, http.MethodGet, srv.URL+"/database/pit_collection/images/2026casd/1678_robot.jpg", nil)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	assert.Equal(t, "image/jpeg", getResp.Header.Get("Content-Type"))

	got, err := io.ReadAll(getResp.Body)
	require.NoError(t, err)
	assert.Equal(t, imageData, got)

	// Delete it (auth required).
	delResp := doRequest(t, http.MethodDelete, srv.URL+"/database/pit_collection/images/2026casd/1678_robot.jpg", withKey())
	require.Equal(t, http.StatusOK, delResp.StatusCode)

	// Gone now.
	goneResp := doRequest(t, http.MethodGet, srv.URL+"/database/pit_collection/images/2026casd/1678_robot.jpg", nil)
	assert.Equal(t, http.StatusNotFound, goneResp.StatusCode)
}

func TestGetPitImage_NotFound(t *testing.T) {
	srv := newTestServer(t, newStubStore(), nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/pit_collection/images/2026casd/missing.jpg", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	var envelope errorEnvelope
	decodeBody(t, resp, &envelope)
	assert.Contains(t, envelope.Error.Message, "missing.jpg")
}

func TestGetPitImageList_StripsImagePayload(t *testing.T) {
	db := newStubStore()
	db.seed("2026casd", "pit_images",
		bson.M{"filename": "a.jpg", "image": primitive.Binary{Data: []byte{1}}},
		bson.M{"filename": "b.jpg", "image": primitive.Binary{Data: []byte{2}}})
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/pit_collection/image_list/2026casd", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var names []string
	decodeBody(t, resp, &names)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, names)
}

func TestStoreFailurePropagatesAsServerError(t *testing.T) {
	db := newStubStore()
	db.findErr = io.ErrUnexpectedEOF
	srv := newTestServer(t, db, nil)

	resp := doRequest(t, http.MethodGet, srv.URL+"/database/raw/2026casd/obj_team", withKey())
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
