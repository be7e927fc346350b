// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package reshape

import "strings"

// franchisePrefixLen is the length of the "frc" prefix TBA puts on every
// team key.
const franchisePrefixLen = 3

// qualMarker separates the event portion of a TBA match key from the
// qualification match number ("2026casd_qm12" -> "12").
const qualMarker = "_qm"

// ScheduleTeam is one team's slot in a match, as the viewer renders it.
type ScheduleTeam struct {
	Number string `json:"number"`
	Color  string `json:"color"`
}

// ScheduleMatch is the per-match envelope of the match schedule.
type ScheduleMatch struct {
	Teams []ScheduleTeam `json:"teams"`
}

// UnwrapTestKey strips the "test" wrapper from an event key so test events
// query their underlying real event ("test2026casd" -> "2026casd").
func UnwrapTestKey(eventKey string) string {
	if strings.Contains(eventKey, "test") && len(eventKey) >= 4 {
		return eventKey[4:]
	}
	return eventKey
}

// MatchSchedule reshapes a TBA simple-match list into match number ->
// {teams}, keeping qualification matches only. Both alliances flatten into
// one sequence, blue before red, with team keys expanded to {number, color}
// records and the franchise prefix stripped.
func MatchSchedule(matches []interface{}) map[string]ScheduleMatch {
	schedule := make(map[string]ScheduleMatch)
	for _, raw := range matches {
		match, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if match["comp_level"] != "qm" {
			continue
		}

		key, _ := match["key"].(string)
		_, matchNumber, found := strings.Cut(key, qualMarker)
		if !found {
			continue
		}

		alliances, _ := match["alliances"].(map[string]interface{})
		teams := []ScheduleTeam{}
		for _, color := range []string{"blue", "red"} {
			alliance, _ := alliances[color].(map[string]interface{})
			teamKeys, _ := alliance["team_keys"].([]interface{})
			for _, rawKey := range teamKeys {
				teamKey, _ := rawKey.(string)
				teams = append(teams, ScheduleTeam{
					Number: stripFranchisePrefix(teamKey),
					Color:  color,
				})
			}
		}

		schedule[matchNumber] = ScheduleMatch{Teams: teams}
	}
	return schedule
}

// TeamList strips the franchise prefix from a TBA team key list.
func TeamList(teamKeys []interface{}) []string {
	teams := make([]string, 0, len(teamKeys))
	for _, raw := range teamKeys {
		key, ok := raw.(string)
		if !ok {
			continue
		}
		teams = append(teams, stripFranchisePrefix(key))
	}
	return teams
}

func stripFranchisePrefix(teamKey string) string {
	if len(teamKey) <= franchisePrefixLen {
		return teamKey
	}
	return teamKey[franchisePrefixLen:]
}
