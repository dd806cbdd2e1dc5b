package services

import (
	"strings"
	"unicode"
)

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}
