// Package logutil provides logging utilities for sanitization.
package logutil

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	stringLiteral = regexp.MustCompile(`'(?:[^']|'')*'`)
	placeholder   = regexp.MustCompile(`\$\d+`)
	numberLiteral = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)
)

// SanitizeSQL redacts literal values from SQL text before it reaches
// logs, so bound data never leaks even when a caller inlines values.
// Parameter placeholders ($1, $2, ...) are kept as-is.
//
//	SELECT * FROM "widgets" WHERE "name" = 'Joanna' LIMIT 10
//	=> SELECT * FROM "widgets" WHERE "name" = '<redacted>' LIMIT <num>
func SanitizeSQL(query string) string {
	query = stringLiteral.ReplaceAllString(query, "'<redacted>'")

	// Park placeholders so the numeric pass cannot eat their digits.
	params := placeholder.FindAllString(query, -1)
	for i, param := range params {
		query = strings.Replace(query, param, "\x00P"+strconv.Itoa(i)+"\x00", 1)
	}

	query = numberLiteral.ReplaceAllString(query, "<num>")

	for i, param := range params {
		query = strings.Replace(query, "\x00P"+strconv.Itoa(i)+"\x00", param, 1)
	}
	return query
}
