package helpers

import "strings"

// StringOrNil trims s and returns nil when nothing is left.
func StringOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// IntOrNil returns nil for the zero value, which forms use for "not provided".
func IntOrNil(i int) *int {
	if i == 0 {
		return nil
	}
	return &i
}

// SliceOrNil returns nil for an empty slice so the column is stored as NULL.
func SliceOrNil(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}

// StringOr dereferences s, falling back to def when s is nil or blank.
func StringOr(s *string, def string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return def
	}
	return *s
}
