// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package reshape

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pyString renders a document value the way the viewer has always received
// coerced fields: as Python's str() of the value. Lists become "['a', 'b']"
// or "[1, 2]", not JSON arrays. This is a documented ad hoc contract tied to
// upstream schema naming; all coercion goes through this one helper so a
// schema change is a one-line edit.
func pyString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case bool:
		if val {
			return "True"
		}
		return "False"
	case primitive.A:
		return pyList([]interface{}(val))
	case []interface{}:
		return pyList(val)
	case bson.M:
		return pyDict(val)
	case map[string]interface{}:
		return pyDict(val)
	default:
		return pyNumber(v)
	}
}

// pyRepr is pyString for values nested inside a list or dict, where Python
// quotes strings.
func pyRepr(v interface{}) string {
	if s, ok := v.(string); ok {
		return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
	}
	return pyString(v)
}

func pyList(items []interface{}) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = pyRepr(item)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func pyDict(m map[string]interface{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = pyRepr(k) + ": " + pyRepr(m[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// pyNumber renders numerics. BSON integers print bare; doubles keep a
// trailing .0 when integral, matching Python's float formatting.
func pyNumber(v interface{}) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case int64:
		return strconv.FormatInt(n, 10)
	case float32:
		return pyFloat(float64(n))
	case float64:
		return pyFloat(n)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func pyFloat(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
