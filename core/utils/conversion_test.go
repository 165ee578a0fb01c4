package utils

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"Nil", nil, "0"},
		{"Float", 12.5, "12.5"},
		{"Int", 7, "7"},
		{"JSONNumber", json.Number("3.25"), "3.25"},
		{"String", "1500.00", "1500"},
		{"StringWithSeparators", " 1,250.5 ", "1250.5"},
		{"EmptyString", "", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToDecimal(tt.in)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}

	t.Run("Invalid", func(t *testing.T) {
		_, err := ToDecimal("abc")
		assert.Error(t, err)

		_, err = ToDecimal(struct{}{})
		assert.Error(t, err)
	})
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "42", ToString(float64(42)))
	assert.Equal(t, "true", ToString(true))
}

func TestFirstOf(t *testing.T) {
	m := map[string]any{"STR_PART_CODE": "A1", "INT_QUATITY": nil}

	v, ok := FirstOf(m, "STR_PART_NO", "STR_PART_CODE")
	assert.True(t, ok)
	assert.Equal(t, "A1", v)

	_, ok = FirstOf(m, "INT_QUANTITY", "INT_QUATITY")
	assert.False(t, ok)
}
