package configtree

import (
	"regexp"
	"strconv"
	"strings"
)

// durationUnits maps every accepted unit spelling — symbol and word forms —
// to its length in nanoseconds. Fixed per spec §4.5a: implementers must not
// rely on a locale-sensitive parser for this grammar.
var durationUnits = map[string]float64{
	"ns": 1, "nano": 1, "nanos": 1, "nanosecond": 1, "nanoseconds": 1,
	"us": 1e3, "micro": 1e3, "micros": 1e3, "microsecond": 1e3, "microseconds": 1e3,
	"ms": 1e6, "milli": 1e6, "millis": 1e6, "millisecond": 1e6, "milliseconds": 1e6,
	"s": 1e9, "second": 1e9, "seconds": 1e9,
	"m": 60 * 1e9, "minute": 60 * 1e9, "minutes": 60 * 1e9,
	"h": 3600 * 1e9, "hour": 3600 * 1e9, "hours": 3600 * 1e9,
	"d": 86400 * 1e9, "day": 86400 * 1e9, "days": 86400 * 1e9,
}

var durationPattern = regexp.MustCompile(`^\s*(-?[0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]+)\s*$`)

// ParseDuration parses a config duration literal: a number followed by one of
// the units named in spec §4.5a (ns, us, ms, s, m, h, d, or their word
// equivalents, singular or plural), separated by optional whitespace.
func ParseDuration(s string) (nanos float64, ok bool) {
	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	unit, known := durationUnits[strings.ToLower(m[2])]
	if !known {
		return 0, false
	}
	return value * unit, true
}
