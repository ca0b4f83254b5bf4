package configtree

import (
	"regexp"
	"strconv"
	"strings"
)

// memoryUnits maps every accepted unit spelling to its size in bytes: the
// bare single letters of spec §4.5a (B, K, M, G, T, P) and the binary IEC
// forms (Ki, Mi, Gi, Ti, Pi). A bare letter has the same power-of-1024 size
// as its "i" form (K = Ki = 1024). Fixed per spec — not delegated to
// k8s.io/apimachinery/pkg/api/resource, whose suffix grammar differs (it
// accepts "Ki"/"M" but not a bare "B", and allows exponent suffixes this
// spec does not name).
var memoryUnits = map[string]float64{
	"b": 1,
	"k": 1 << 10, "ki": 1 << 10,
	"m": 1 << 20, "mi": 1 << 20,
	"g": 1 << 30, "gi": 1 << 30,
	"t": 1 << 40, "ti": 1 << 40,
	"p": 1 << 50, "pi": 1 << 50,
}

var memorySizePattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]+)\s*$`)

// ParseMemorySize parses a config memory-size literal: a non-negative number
// followed by one of B, K, M, G, T, P or their "i"-suffixed binary forms
// (Ki, Mi, Gi, Ti, Pi), case-insensitive, per spec §4.5a.
func ParseMemorySize(s string) (bytes float64, ok bool) {
	m := memorySizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil || value < 0 {
		return 0, false
	}
	unit, known := memoryUnits[strings.ToLower(m[2])]
	if !known {
		return 0, false
	}
	return value * unit, true
}
