package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Number is a float64 that survives JSON encoding when it is NaN or
// infinite: such values are written as null and read back as NaN.
type Number float64

// Float returns the value as float64
func (n Number) Float() float64 { return float64(n) }

// IsNaN reports whether the value is NaN
func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

// MarshalJSON writes NaN and ±Inf as null
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON reads null as NaN
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// String formats with six decimals, NaN as "NaN"
func (n Number) String() string {
	f := float64(n)
	if math.IsNaN(f) {
		return "NaN"
	}
	return strconv.FormatFloat(f, 'f', 6, 64)
}
