// Kestrel - FRC Scouting Data API Gateway
// Copyright 2026 Citrus Circuits (FRC Team 1678)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/frc1678/kestrel

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresURI(t *testing.T) {
	_, err := New(context.Background(), Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingURI))
}

func TestTruthyOK(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want bool
	}{
		{"float one", float64(1), true},
		{"float zero", float64(0), false},
		{"int32 one", int32(1), true},
		{"int64 one", int64(1), true},
		{"int one", 1, true},
		{"bool true", true, true},
		{"bool false", false, false},
		{"nil", nil, false},
		{"string", "1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truthyOK(tt.in))
		})
	}
}
