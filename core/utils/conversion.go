package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ToString converts various types to string.
// A nil value becomes the empty string.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case float64:
		return decimal.NewFromFloat(v).String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToDecimal converts various types to a decimal using explicit type switching.
// It handles JSON numbers, Go numeric types and numeric strings. Empty strings and nil
// convert to zero.
func ToDecimal(val any) (decimal.Decimal, error) {
	switch v := val.(type) {
	case nil:
		return decimal.Zero, nil
	case decimal.Decimal:
		return v, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case float32:
		return decimal.NewFromFloat32(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int32:
		return decimal.NewFromInt(int64(v)), nil
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
		if s == "" {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(s)
	case []byte:
		return ToDecimal(string(v))
	default:
		return decimal.Zero, fmt.Errorf("cannot convert %T to decimal", val)
	}
}

// FirstOf returns the value of the first key present in m.
// Scraped payloads spell the same field differently across endpoints
// (e.g. STR_PART_NO and STR_PART_CODE).
func FirstOf(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
