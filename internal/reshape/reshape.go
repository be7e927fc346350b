// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

// Package reshape holds the pure transforms that regroup flat collection
// query results into the nested mappings the viewer expects: keyed by team
// number, match number, or scout username, with a handful of fields coerced
// to their Python string representation (a contract inherited from the
// original data pipeline).
//
// Transforms never touch the store; they consume already-fetched documents
// and are deterministic.
package reshape

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// keyString canonicalizes a document key value (team number, match number,
// path number) for use as a JSON object key, rendering numbers the same way
// the viewer has always seen them serialized.
func keyString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return pyNumber(v)
}

// Teams groups team documents into team_number -> document. Every field
// whose name contains "mode" is string-coerced in place first; the viewer
// renders those datapoints as text.
func Teams(docs []bson.M) map[string]bson.M {
	teams := make(map[string]bson.M, len(docs))
	for _, doc := range docs {
		for field, value := range doc {
			if strings.Contains(field, "mode") {
				doc[field] = pyString(value)
			}
		}
		teams[keyString(doc["team_number"])] = doc
	}
	return teams
}

// TeamsByNumber groups documents by team_number with no field coercion.
// Used for the scouter-subjective team shape.
func TeamsByNumber(docs []bson.M) map[string]bson.M {
	teams := make(map[string]bson.M, len(docs))
	for _, doc := range docs {
		teams[keyString(doc["team_number"])] = doc
	}
	return teams
}

// TeamsInMatches groups TIM documents into match_number -> team_number ->
// document. Outer maps are created lazily on first encounter.
func TeamsInMatches(docs []bson.M) map[string]map[string]bson.M {
	tims := make(map[string]map[string]bson.M)
	for _, doc := range docs {
		match := keyString(doc["match_number"])
		if _, ok := tims[match]; !ok {
			tims[match] = make(map[string]bson.M)
		}
		tims[match][keyString(doc["team_number"])] = doc
	}
	return tims
}

// PredictedAIMs groups predicted alliance-in-match documents by match
// number, routing each into a red or blue slot by its alliance_color_is_red
// flag. Unseen slots stay as empty mappings, and team_numbers is coerced to
// its string list form.
func PredictedAIMs(docs []bson.M) map[string]map[string]bson.M {
	aims := make(map[string]map[string]bson.M)
	for _, doc := range docs {
		match := keyString(doc["match_number"])
		if _, ok := aims[match]; !ok {
			aims[match] = map[string]bson.M{"red": {}, "blue": {}}
		}
		doc["team_numbers"] = pyString(doc["team_numbers"])
		if isRed, _ := doc["alliance_color_is_red"].(bool); isRed {
			aims[match]["red"] = doc
		} else {
			aims[match]["blue"] = doc
		}
	}
	return aims
}

// AutoPaths groups auto path documents into team_number -> path_number ->
// document, with match_numbers_played string-coerced.
func AutoPaths(docs []bson.M) map[string]map[string]bson.M {
	paths := make(map[string]map[string]bson.M)
	for _, doc := range docs {
		team := keyString(doc["team_number"])
		if _, ok := paths[team]; !ok {
			paths[team] = make(map[string]bson.M)
		}
		doc["match_numbers_played"] = pyString(doc["match_numbers_played"])
		paths[team][keyString(doc["path_number"])] = doc
	}
	return paths
}

// Usernames collects the deduplicated union of username values across the
// given document sets, in first-seen order.
func Usernames(docSets ...[]bson.M) []string {
	seen := make(map[string]struct{})
	users := []string{}
	for _, docs := range docSets {
		for _, doc := range docs {
			name, ok := doc["username"].(string)
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			users = append(users, name)
		}
	}
	return users
}

// NotesByTeam maps team_number -> note text for every note document.
func NotesByTeam(docs []bson.M) map[string]interface{} {
	notes := make(map[string]interface{}, len(docs))
	for _, doc := range docs {
		notes[keyString(doc["team_number"])] = doc["notes"]
	}
	return notes
}

// ScoutPrecision is the projected shape of one scout's precision ranking.
type ScoutPrecision struct {
	Precision interface{} `json:"precision"`
	Rank      interface{} `json:"rank"`
	Name      interface{} `json:"name"`
}

// ScoutPrecisions filters out documents that lack a scout_precision field,
// projects the rest to {precision, rank, name}, and sorts ascending by rank.
func ScoutPrecisions(docs []bson.M) []ScoutPrecision {
	list := []ScoutPrecision{}
	for _, doc := range docs {
		if _, ok := doc["scout_precision"]; !ok {
			continue
		}
		list = append(list, ScoutPrecision{
			Precision: doc["scout_precision"],
			Rank:      doc["scout_precision_rank"],
			Name:      doc["scout_name"],
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return numeric(list[i].Rank) < numeric(list[j].Rank)
	})
	return list
}

// numeric widens any BSON numeric to float64 for comparison; non-numerics
// sort first.
func numeric(v interface{}) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
