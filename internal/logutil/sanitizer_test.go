package logutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeSQL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "string literal redacted",
			input:    `SELECT * FROM "widgets" WHERE "name" = 'Joanna'`,
			expected: `SELECT * FROM "widgets" WHERE "name" = '<redacted>'`,
		},
		{
			name:     "escaped quote stays inside literal",
			input:    `SELECT * FROM "widgets" WHERE "name" = 'O''Reilly'`,
			expected: `SELECT * FROM "widgets" WHERE "name" = '<redacted>'`,
		},
		{
			name:     "numbers redacted but placeholders kept",
			input:    `SELECT * FROM "widgets" WHERE "age" > $1 LIMIT 10 OFFSET 20`,
			expected: `SELECT * FROM "widgets" WHERE "age" > $1 LIMIT <num> OFFSET <num>`,
		},
		{
			name:     "many placeholders survive",
			input:    `SELECT * FROM "widgets" WHERE "a" = $1 AND "b" = $2 AND "c" = $3`,
			expected: `SELECT * FROM "widgets" WHERE "a" = $1 AND "b" = $2 AND "c" = $3`,
		},
		{
			name:     "inlined number redacted",
			input:    `SELECT * FROM "widgets" WHERE "id" = 123`,
			expected: `SELECT * FROM "widgets" WHERE "id" = <num>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeSQL(tt.input))
		})
	}
}
