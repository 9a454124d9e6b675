package service

import "strings"

// trimmed returns a copy of s without surrounding space, or nil when s is nil.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
