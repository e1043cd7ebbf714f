// Package value converts loosely formatted financial figures scraped from
// data sites ("1.2B", "12,345", "-") into numbers.
package value

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies what a parsed Value holds.
type Kind int

const (
	// Unknown marks a figure that could not be obtained or interpreted.
	Unknown Kind = iota
	// Float is a plain number without a magnitude suffix.
	Float
	// Integer is a number that carried a k/m/b/t suffix and was scaled.
	Integer
)

func (k Kind) String() string {
	switch k {
	case Float:
		return "float"
	case Integer:
		return "integer"
	default:
		return "unknown"
	}
}

// Value is the result of parsing a raw figure.
// The zero Value is Unknown.
type Value struct {
	kind Kind
	f    float64
	i    int64
}

var pattern = regexp.MustCompile(`^(-?\d+\.?\d*)([kmbtKMBT]?)$`)

// multipliers are ten times the usual SI magnitudes: "1k" is 10 000.
var multipliers = map[string]float64{
	"k": 10_000,
	"m": 10_000_000,
	"b": 10_000_000_000,
	"t": 10_000_000_000_000,
}

// Parse interprets raw as an optionally signed decimal with an optional
// magnitude suffix (k, m, b, t; any case). Commas are ignored.
//
// Without a suffix the result is a Float, even for whole numbers. With a
// suffix the scaled figure is truncated to an Integer; a scaled figure
// outside the int64 range is Unknown. Anything else,
// including the empty string and placeholders such as "-" or "N/A",
// yields Unknown.
func Parse(raw string) Value {
	if raw == "" {
		return Value{}
	}

	m := pattern.FindStringSubmatch(strings.ReplaceAll(raw, ",", ""))
	if m == nil {
		return Value{}
	}

	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Value{}
	}

	if m[2] == "" {
		return Value{kind: Float, f: f}
	}

	scaled := f * multipliers[strings.ToLower(m[2])]
	if math.Abs(scaled) >= math.MaxInt64 {
		return Value{}
	}
	return NewInteger(int64(scaled))
}

// ParseNullable is Parse for sources where the raw figure may be absent.
func ParseNullable(raw *string) Value {
	if raw == nil {
		return Value{}
	}
	return Parse(*raw)
}

// NewFloat returns a known Float value.
func NewFloat(f float64) Value {
	return Value{kind: Float, f: f}
}

// NewInteger returns a known Integer value.
func NewInteger(i int64) Value {
	return Value{kind: Integer, i: i}
}

// Kind reports what v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// IsUnknown reports whether v could not be parsed.
func (v Value) IsUnknown() bool {
	return v.kind == Unknown
}

// Float64 returns v as a float64. The bool is false for Unknown.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case Float:
		return v.f, true
	case Integer:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// Int64 returns v truncated to an int64. The bool is false for Unknown.
func (v Value) Int64() (int64, bool) {
	switch v.kind {
	case Float:
		return int64(v.f), true
	case Integer:
		return v.i, true
	default:
		return 0, false
	}
}

// Ptr returns a pointer to the numeric value, or nil when v is Unknown.
// Fundamentals records use nil pointers for unknown metrics.
func (v Value) Ptr() *float64 {
	f, ok := v.Float64()
	if !ok {
		return nil
	}
	return &f
}

func (v Value) String() string {
	switch v.kind {
	case Float:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case Integer:
		return strconv.FormatInt(v.i, 10)
	default:
		return "unknown"
	}
}
