// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package reshape

// TeamCategory names a per-team collection the team endpoint may serve.
// Categories form a closed enumeration; anything outside it is rejected
// with not-found semantics.
type TeamCategory string

// Valid team categories.
const (
	TeamObj                TeamCategory = "obj_team"
	TeamTBA                TeamCategory = "tba_team"
	TeamPredicted          TeamCategory = "predicted_team"
	TeamPickability        TeamCategory = "pickability"
	TeamPredictedAlliances TeamCategory = "predicted_alliances"
	TeamRawObjPit          TeamCategory = "raw_obj_pit"
	TeamSubjective         TeamCategory = "subj_team"
	TeamPicklist           TeamCategory = "picklist"
	TeamScoutSubjective    TeamCategory = "ss_team"
)

var teamCategories = map[TeamCategory]struct{}{
	TeamObj:                {},
	TeamTBA:                {},
	TeamPredicted:          {},
	TeamPickability:        {},
	TeamPredictedAlliances: {},
	TeamRawObjPit:          {},
	TeamSubjective:         {},
	TeamPicklist:           {},
	TeamScoutSubjective:    {},
}

// Valid reports whether the category is in the team allow-list.
func (c TeamCategory) Valid() bool {
	_, ok := teamCategories[c]
	return ok
}

// TIMCategory names a team-in-match collection the TIM endpoint may serve.
type TIMCategory string

// Valid TIM categories.
const (
	TIMObj             TIMCategory = "obj_tim"
	TIMTBA             TIMCategory = "tba_tim"
	TIMSubjective      TIMCategory = "subj_tim"
	TIMScoutSubjective TIMCategory = "ss_tim"
)

var timCategories = map[TIMCategory]struct{}{
	TIMObj:             {},
	TIMTBA:             {},
	TIMSubjective:      {},
	TIMScoutSubjective: {},
}

// Valid reports whether the category is in the TIM allow-list.
func (c TIMCategory) Valid() bool {
	_, ok := timCategories[c]
	return ok
}
