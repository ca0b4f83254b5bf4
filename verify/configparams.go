package verify

import (
	"regexp"
	"strconv"

	"github.com/gitter-badger/cloudflow/configtree"
	"github.com/gitter-badger/cloudflow/domain"
)

// verifyConfigParameters implements spec §4.5a: duplicate key detection,
// pattern compilation and default-value validation per declared kind.
func verifyConfigParameters(params []domain.ConfigParameterDescriptor) []Problem {
	var problems []Problem

	seen := map[string]bool{}
	for _, p := range params {
		if seen[p.Key] {
			problems = append(problems, DuplicateConfigParameterKeyFound{Key_: p.Key})
		}
		seen[p.Key] = true

		var pattern *regexp.Regexp
		if p.HasPattern() {
			compiled, err := regexp.Compile(p.Pattern)
			if err != nil {
				problems = append(problems, InvalidValidationPatternConfigParameter{Key_: p.Key})
			} else {
				pattern = compiled
			}
		}

		if p.HasDefaultValue() {
			if !validDefaultValue(p, pattern) {
				problems = append(problems, InvalidDefaultValueInConfigParameter{Key_: p.Key, Kind: string(p.Kind), Value: p.DefaultValue})
			}
		}
	}
	return problems
}

func validDefaultValue(p domain.ConfigParameterDescriptor, pattern *regexp.Regexp) bool {
	switch p.Kind {
	case domain.KindString:
		if pattern == nil {
			return true
		}
		return pattern.MatchString(p.DefaultValue)
	case domain.KindInt:
		_, err := strconv.Atoi(p.DefaultValue)
		return err == nil
	case domain.KindBool:
		_, err := strconv.ParseBool(p.DefaultValue)
		return err == nil
	case domain.KindDouble:
		_, err := strconv.ParseFloat(p.DefaultValue, 64)
		return err == nil
	case domain.KindDuration:
		_, ok := configtree.ParseDuration(p.DefaultValue)
		return ok
	case domain.KindMemorysize:
		_, ok := configtree.ParseMemorySize(p.DefaultValue)
		return ok
	case domain.KindRegexp:
		_, err := regexp.Compile(p.DefaultValue)
		return err == nil
	default:
		return false
	}
}
