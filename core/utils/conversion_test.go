package utils

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"int", 7, 7},
		{"float", 12.9, 12},
		{"number", json.Number("42"), 42},
		{"fractional number", json.Number("3.5"), 3},
		{"string", " 312 ", 312},
		{"float string", "2.0", 2},
		{"bool", true, 1},
		{"garbage", "n/a", 0},
		{"nil", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "vol. 4", "vol. 4"},
		{"whole float", float64(300), "300"},
		{"float", 1.25, "1.25"},
		{"number", json.Number("17"), "17"},
		{"list", []any{"a", float64(2)}, "a, 2"},
		{"bool", false, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestToBool(t *testing.T) {
	assert.True(t, ToBool(true))
	assert.True(t, ToBool(float64(1)))
	assert.True(t, ToBool("Yes"))
	assert.True(t, ToBool("1"))
	assert.False(t, ToBool("0"))
	assert.False(t, ToBool(0))
	assert.False(t, ToBool(nil))
}
