package weather

import (
	"fmt"
	"math"
	"strings"
)

// Unit is a temperature unit as the forecast API names it.
type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

// Placeholder is shown where a value is missing.
const Placeholder = "—"

// ParseUnit accepts "celsius"/"fahrenheit" and the short forms "c"/"f".
// Empty input means Celsius.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "c", string(Celsius):
		return Celsius, nil
	case "f", string(Fahrenheit):
		return Fahrenheit, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Symbol returns the degree suffix for the unit.
func (u Unit) Symbol() string {
	if u == Fahrenheit {
		return "°F"
	}
	return "°C"
}

// FormatTemp rounds a temperature for display, e.g. "22°C". Nil renders the placeholder.
func FormatTemp(value *float64, unit Unit) string {
	if value == nil {
		return Placeholder
	}
	return fmt.Sprintf("%d%s", roundHalfUp(*value), unit.Symbol())
}

// roundHalfUp rounds .5 towards +Inf: -2.5 becomes -2.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
