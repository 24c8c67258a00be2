// Package interest computes compound interest the way the public demo endpoint
// always has: no validation, loose numeric coercion, NaN instead of errors.
package interest

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// LocaleLayout renders timestamps like "10/18/2026, 3:04:05 PM".
const LocaleLayout = "1/2/2006, 3:04:05 PM"

// Number is a float64 that encodes NaN and ±Inf as JSON null.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	if f == 0 {
		f = 0 // drop the sign of -0
	}
	return json.Marshal(f)
}

// Valid reports whether n is a finite number.
func (n Number) Valid() bool {
	f := float64(n)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Input carries the raw request fields. Values keep whatever type the
// decoder produced; coercion happens in Compound.
type Input struct {
	Principal any
	Rate      any
	Time      any
}

// undefined marks a field absent from the request. It coerces to NaN, unlike
// an explicit null which coerces to 0.
type undefined struct{}

// Undefined is the value InputFrom uses for absent fields.
var Undefined any = undefined{}

// InputFrom reads prin, rate and time from a decoded request record.
func InputFrom(rec map[string]any) Input {
	field := func(key string) any {
		if v, ok := rec[key]; ok {
			return v
		}
		return Undefined
	}
	return Input{
		Principal: field("prin"),
		Rate:      field("rate"),
		Time:      field("time"),
	}
}

// Result is the rounded compound amount and the time it was computed.
type Result struct {
	Result Number `json:"result"`
	Date   string `json:"date"`
}

// Compound returns round(prin * (1 + rate/100) ^ time).
func Compound(in Input, now time.Time) Result {
	prin := ToNumber(in.Principal)
	rate := ToNumber(in.Rate)
	periods := ToNumber(in.Time)

	amount := prin * Pow(1+rate/100, periods)
	return Result{
		Result: Number(Round(amount)),
		Date:   now.Format(LocaleLayout),
	}
}

// Pow is math.Pow except that a NaN exponent, or ±1 raised to ±Inf, is NaN.
func Pow(base, exp float64) float64 {
	if math.IsNaN(exp) || (math.IsInf(exp, 0) && math.Abs(base) == 1) {
		return math.NaN()
	}
	return math.Pow(base, exp)
}

// Round rounds half-way cases toward positive infinity (2.5 -> 3, -2.5 -> -2).
// Zero results are always +0.
func Round(x float64) float64 {
	r := math.Round(x)
	if x < 0 && r-x == -0.5 {
		r++
	}
	if r == 0 {
		return 0
	}
	return r
}

// ToNumber converts a decoded JSON value to float64 with loose semantics:
// numbers pass through, numeric strings are parsed, empty strings and null are
// 0, booleans are 1/0, single element arrays unwrap and anything else is NaN.
func ToNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		return parseNumeric(string(t))
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return parseNumeric(t)
	case []any:
		switch len(t) {
		case 0:
			return 0
		case 1:
			return parseNumeric(arrayElemString(t[0]))
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

// arrayElemString stringifies a lone array element the way Array.prototype.join does.
func arrayElemString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return string(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case []any:
		if len(t) == 1 {
			return arrayElemString(t[0])
		}
		if len(t) == 0 {
			return ""
		}
		return "NaN"
	default:
		return "NaN"
	}
}

func parseNumeric(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "inf") || strings.Contains(lower, "nan") {
		return math.NaN()
	}

	if len(lower) > 2 && lower[0] == '0' && strings.ContainsRune("xob", rune(lower[1])) {
		n, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "-0x") || strings.HasPrefix(lower, "+0x") {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}
