// Package validation collects field violations for form re-rendering.
package validation

import (
	"regexp"
	"strings"
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

var hhmmRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func IntRange(field string, val, minVal, maxVal int, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// TimeHHMM validates a 24h "HH:MM" string (course start/end times).
func TimeHHMM(field, value string, v Violations) {
	if !hhmmRe.MatchString(value) {
		v[field] = "invalid_time"
	}
}

// OneOf validates membership in a closed value set (states, statuses).
func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "invalid_value"
}
