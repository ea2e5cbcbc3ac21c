package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	registry := NewRegistry()

	t.Run("built-in types resolve", func(t *testing.T) {
		for _, typ := range []ColumnType{TypeInteger, TypeText, TypeBoolean, TypeTimestamp} {
			h, err := registry.Resolve(Field{Name: "f", Type: typ})
			require.NoError(t, err)
			assert.NotNil(t, h)
		}
	})

	t.Run("unregistered type fails", func(t *testing.T) {
		_, err := registry.Resolve(Field{Name: "location", Type: ColumnType("geometry")})
		var terr *UnsupportedTypeError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "location", terr.Field)
	})

	t.Run("custom type registers", func(t *testing.T) {
		registry.Register(ColumnType("geometry"), TextHandler())
		_, err := registry.Resolve(Field{Name: "location", Type: ColumnType("geometry")})
		assert.NoError(t, err)
	})
}

func TestColumnHandlers_BuildPredicate(t *testing.T) {
	tests := []struct {
		name     string
		handler  ColumnHandler
		field    Field
		token    FilterToken
		expected Predicate
	}{
		{
			name:     "integer equality",
			handler:  IntegerHandler(),
			field:    Field{Name: "age", Type: TypeInteger},
			token:    FilterToken{Field: "age", Operator: OpEqual, RawValue: "42"},
			expected: Predicate{Column: "age", Operator: OpEqual, Value: int64(42)},
		},
		{
			name:     "integer accepts True as 1",
			handler:  IntegerHandler(),
			field:    Field{Name: "flag", Type: TypeInteger},
			token:    FilterToken{Field: "flag", Operator: OpEqual, RawValue: "True"},
			expected: Predicate{Column: "flag", Operator: OpEqual, Value: int64(1)},
		},
		{
			name:     "integer list",
			handler:  IntegerHandler(),
			field:    Field{Name: "age", Type: TypeInteger},
			token:    FilterToken{Field: "age", Operator: OpInside, RawList: []string{"1", "2"}},
			expected: Predicate{Column: "age", Operator: OpInside, Values: []any{int64(1), int64(2)}},
		},
		{
			name:     "text icontains",
			handler:  TextHandler(),
			field:    Field{Name: "name", Type: TypeText},
			token:    FilterToken{Field: "name", Operator: OpIContains, RawValue: "jo"},
			expected: Predicate{Column: "name", Operator: OpIContains, Value: "jo"},
		},
		{
			name:     "boolean equality",
			handler:  BooleanHandler(),
			field:    Field{Name: "active", Type: TypeBoolean},
			token:    FilterToken{Field: "active", Operator: OpEqual, RawValue: "true"},
			expected: Predicate{Column: "active", Operator: OpEqual, Value: true},
		},
		{
			name:     "timestamp from unix seconds",
			handler:  TimestampHandler(),
			field:    Field{Name: "created_at", Type: TypeTimestamp},
			token:    FilterToken{Field: "created_at", Operator: OpGreaterThan, RawValue: "1700000000"},
			expected: Predicate{Column: "created_at", Operator: OpGreaterThan, Value: time.Unix(1700000000, 0).UTC()},
		},
		{
			name:     "timestamp from rfc3339",
			handler:  TimestampHandler(),
			field:    Field{Name: "created_at", Type: TypeTimestamp},
			token:    FilterToken{Field: "created_at", Operator: OpLessOrEqual, RawValue: "2025-01-02T15:04:05Z"},
			expected: Predicate{Column: "created_at", Operator: OpLessOrEqual, Value: time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)},
		},
		{
			name:     "aggregate carries no value",
			handler:  IntegerHandler(),
			field:    Field{Name: "age", Type: TypeInteger},
			token:    FilterToken{Field: "age", Operator: OpMax},
			expected: Predicate{Column: "age", Operator: OpMax},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := tt.handler.BuildPredicate(tt.field, tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pred)
		})
	}
}

func TestColumnHandlers_RefusedOperators(t *testing.T) {
	tests := []struct {
		name    string
		handler ColumnHandler
		field   Field
		token   FilterToken
	}{
		{
			name:    "integer refuses icontains",
			handler: IntegerHandler(),
			field:   Field{Name: "age", Type: TypeInteger},
			token:   FilterToken{Field: "age", Operator: OpIContains, RawValue: "4"},
		},
		{
			name:    "text refuses ordered comparison",
			handler: TextHandler(),
			field:   Field{Name: "name", Type: TypeText},
			token:   FilterToken{Field: "name", Operator: OpGreaterThan, RawValue: "m"},
		},
		{
			name:    "text refuses aggregates",
			handler: TextHandler(),
			field:   Field{Name: "name", Type: TypeText},
			token:   FilterToken{Field: "name", Operator: OpMax},
		},
		{
			name:    "boolean refuses like",
			handler: BooleanHandler(),
			field:   Field{Name: "active", Type: TypeBoolean},
			token:   FilterToken{Field: "active", Operator: OpLike, RawValue: "t"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.handler.BuildPredicate(tt.field, tt.token)
			var oerr *UnsupportedOperatorError
			require.ErrorAs(t, err, &oerr)
			assert.Equal(t, tt.field.Name, oerr.Field)
			assert.Equal(t, tt.token.Operator, oerr.Operator)
		})
	}
}

func TestColumnHandlers_ConversionErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler ColumnHandler
		field   Field
		token   FilterToken
		raw     string
	}{
		{
			name:    "integer rejects text",
			handler: IntegerHandler(),
			field:   Field{Name: "age", Type: TypeInteger},
			token:   FilterToken{Field: "age", Operator: OpGreaterThan, RawValue: "abc"},
			raw:     "abc",
		},
		{
			name:    "boolean rejects maybe",
			handler: BooleanHandler(),
			field:   Field{Name: "active", Type: TypeBoolean},
			token:   FilterToken{Field: "active", Operator: OpEqual, RawValue: "maybe"},
			raw:     "maybe",
		},
		{
			name:    "timestamp rejects garbage",
			handler: TimestampHandler(),
			field:   Field{Name: "created_at", Type: TypeTimestamp},
			token:   FilterToken{Field: "created_at", Operator: OpEqual, RawValue: "yesterday"},
			raw:     "yesterday",
		},
		{
			name:    "bad element inside list",
			handler: IntegerHandler(),
			field:   Field{Name: "age", Type: TypeInteger},
			token:   FilterToken{Field: "age", Operator: OpInside, RawList: []string{"1", "x"}},
			raw:     "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.handler.BuildPredicate(tt.field, tt.token)
			var verr *ValueError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field.Name, verr.Field)
			assert.Equal(t, tt.raw, verr.RawValue)
		})
	}
}
