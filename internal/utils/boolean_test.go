package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"bool true", true, true},
		{"bool false", false, false},
		{"string true", "true", true},
		{"string mixed case", "True", true},
		{"string one", "1", true},
		{"string padded", "  true ", true},
		{"string false", "false", false},
		{"string empty", "", false},
		{"string yes", "yes", false},
		{"int one", 1, true},
		{"int zero", 0, false},
		{"int64 one", int64(1), true},
		{"json number one", float64(1), true},
		{"json number zero", float64(0), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseBool(tt.value))
		})
	}
}

func TestBoolProperty(t *testing.T) {
	assert.Equal(t, "true", BoolProperty(true))
	assert.Equal(t, "false", BoolProperty(false))

	// Round trip through the CRM string representation.
	assert.True(t, ParseBool(BoolProperty(true)))
	assert.False(t, ParseBool(BoolProperty(false)))
}
