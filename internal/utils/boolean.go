package utils

import "strings"

// ParseBool normalizes the loosely typed flag values accepted over the
// API and stored in CRM string properties: true/"true"/"True"/1/"1"
// mean set, everything else means unset. Defined once so the coercion
// is not reimplemented ad hoc per call site.
func ParseBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		s := strings.TrimSpace(strings.ToLower(t))
		return s == "true" || s == "1"
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		// JSON numbers decode as float64.
		return t == 1
	default:
		return false
	}
}

// BoolProperty renders a boolean the way HubSpot expects string
// properties to be written.
func BoolProperty(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
