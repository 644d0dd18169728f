package evaluator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToNumber converts a value to its numeric form using the same rules as
// JavaScript's Number(): strings are trimmed, the empty string is 0, and
// anything that is not a complete numeric literal is NaN.
func ToNumber(v Value) float64 {
	switch val := v.(type) {
	case Number:
		return val.Value
	case String:
		return parseNumber(val.Value)
	case Null:
		return 0
	}
	return math.NaN()
}

func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	// strconv accepts forms ("inf", "1_000", hex floats) that Number() rejects.
	for _, r := range s {
		if !(r >= '0' && r <= '9') && r != '.' && r != 'e' && r != 'E' && r != '+' && r != '-' {
			return math.NaN()
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

// ToText converts a value to its textual form, following JavaScript's
// String() for numbers.
func ToText(v Value) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case Null:
		return "null"
	case Number:
		return FormatNumber(val.Value)
	case String:
		return val.Value
	case *Object:
		return "[object Object]"
	case *Function:
		return fmt.Sprintf("[function %s]", val.Name)
	case *NativeFunction:
		return fmt.Sprintf("[native %s]", val.Name)
	}
	return ""
}

// FormatNumber formats a float64 the way JavaScript prints numbers: whole
// numbers without a decimal point and exponent notation outside [1e-6, 1e21).
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(n, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		digits := strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + exp[:1] + digits
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
