package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToID_Scalars(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "string",
			input:    "1610767417",
			expected: "1610767417",
		},
		{
			name:     "bytes",
			input:    []byte("537237219"),
			expected: "537237219",
		},
		{
			name:     "json number",
			input:    json.Number("42"),
			expected: "42",
		},
		{
			name:     "float64 integer value has no exponent",
			input:    float64(1610612857),
			expected: "1610612857",
		},
		{
			name:     "float64 with decimals",
			input:    float64(1.5),
			expected: "1.5",
		},
		{
			name:     "int64",
			input:    int64(-7),
			expected: "-7",
		},
		{
			name:     "int",
			input:    100,
			expected: "100",
		},
		{
			name:     "uint64",
			input:    uint64(18),
			expected: "18",
		},
		{
			name:     "bool",
			input:    true,
			expected: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToID(tt.input)
			assert.True(t, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestToID_UnsupportedTypes(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{
			name:  "nil",
			input: nil,
		},
		{
			name:  "slice",
			input: []interface{}{"1", "2"},
		},
		{
			name:  "map",
			input: map[string]interface{}{"1": true},
		},
		{
			name:  "struct",
			input: struct{ Value int }{Value: 42},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ToID(tt.input)
			assert.False(t, ok, "Unsupported types should not convert")
			assert.Empty(t, result)
		})
	}
}

func TestToOptional(t *testing.T) {
	assert.Nil(t, ToOptional(nil))
	assert.Nil(t, ToOptional([]interface{}{}))

	v := ToOptional("active")
	if assert.NotNil(t, v) {
		assert.Equal(t, "active", *v)
	}

	d := ToOptional(false)
	if assert.NotNil(t, d) {
		assert.Equal(t, "false", *d)
	}
}
