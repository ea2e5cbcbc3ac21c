package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetModel() *Model {
	return &Model{
		Table:      "widgets",
		PrimaryKey: "id",
		Fields: []Field{
			{Name: "id", Type: TypeInteger, Unique: true},
			{Name: "name", Type: TypeText},
			{Name: "age", Type: TypeInteger},
			{Name: "active", Type: TypeBoolean},
			{Name: "created_at", Type: TypeTimestamp},
			{Name: "owner_id", Type: TypeInteger},
		},
		Exposed:     []string{"id", "name", "age", "active", "created_at"},
		OwnerColumn: "owner_id",
	}
}

func TestParser_Filters(t *testing.T) {
	parser := NewParser()
	model := widgetModel()

	tests := []struct {
		name     string
		query    string
		expected []FilterToken
	}{
		{
			name:  "bare field is equality",
			query: "name=John",
			expected: []FilterToken{
				{Field: "name", Operator: OpEqual, RawValue: "John"},
			},
		},
		{
			name:  "operator suffix",
			query: "$age__gt=18",
			expected: []FilterToken{
				{Field: "age", Operator: OpGreaterThan, RawValue: "18"},
			},
		},
		{
			name:  "not_eq suffix with underscore",
			query: "$name__not_eq=Mary",
			expected: []FilterToken{
				{Field: "name", Operator: OpNotEqual, RawValue: "Mary"},
			},
		},
		{
			name:  "inside splits comma list",
			query: "$age__inside=1,2,3",
			expected: []FilterToken{
				{Field: "age", Operator: OpInside, RawList: []string{"1", "2", "3"}},
			},
		},
		{
			name:  "not_inside splits comma list",
			query: "$name__not_inside=a, b",
			expected: []FilterToken{
				{Field: "name", Operator: OpNotInside, RawList: []string{"a", "b"}},
			},
		},
		{
			name:  "icontains",
			query: "$name__icontains=jo",
			expected: []FilterToken{
				{Field: "name", Operator: OpIContains, RawValue: "jo"},
			},
		},
		{
			name:  "unknown bare field is ignored",
			query: "utm_source=ads&name=John",
			expected: []FilterToken{
				{Field: "name", Operator: OpEqual, RawValue: "John"},
			},
		},
		{
			name:  "insertion order preserved",
			query: "name=John&$age__gte=21&id=7",
			expected: []FilterToken{
				{Field: "name", Operator: OpEqual, RawValue: "John"},
				{Field: "age", Operator: OpGreaterOrEqual, RawValue: "21"},
				{Field: "id", Operator: OpEqual, RawValue: "7"},
			},
		},
		{
			name:  "escaped value is decoded",
			query: "name=John%20Doe",
			expected: []FilterToken{
				{Field: "name", Operator: OpEqual, RawValue: "John Doe"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.Parse(model, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.Filters)
		})
	}
}

func TestParser_OrderBy(t *testing.T) {
	parser := NewParser()
	model := widgetModel()

	parsed, err := parser.Parse(model, "$order_by=name,-age")
	require.NoError(t, err)
	assert.Equal(t, []OrderKey{
		{Field: "name", Desc: false},
		{Field: "age", Desc: true},
	}, parsed.Order)
}

func TestParser_Pagination(t *testing.T) {
	parser := NewParser()
	model := widgetModel()

	t.Run("valid window", func(t *testing.T) {
		parsed, err := parser.Parse(model, "$page=3&$per_page=25")
		require.NoError(t, err)
		assert.Equal(t, 3, parsed.Pagination.Page)
		assert.Equal(t, 25, parsed.Pagination.PerPage)
	})

	t.Run("absent leaves zero for defaults", func(t *testing.T) {
		parsed, err := parser.Parse(model, "name=John")
		require.NoError(t, err)
		assert.Zero(t, parsed.Pagination.Page)
		assert.Zero(t, parsed.Pagination.PerPage)
	})

	tests := []struct {
		name  string
		query string
		param string
	}{
		{"non-numeric page", "$page=abc", "page"},
		{"zero page", "$page=0", "page"},
		{"negative per_page", "$per_page=-5", "per_page"},
		{"non-numeric per_page", "$per_page=ten", "per_page"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(model, tt.query)
			var perr *PaginationError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.param, perr.Param)
		})
	}
}

func TestParser_UnknownDirective(t *testing.T) {
	parser := NewParser()
	model := widgetModel()

	tests := []struct {
		name  string
		query string
		key   string
	}{
		{"unknown operator suffix", "$bogus__frobnicate=1", "bogus__frobnicate"},
		{"bare sentinel key", "$whatever=1", "whatever"},
		{"missing field before delimiter", "$__eq=1", "__eq"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse(model, tt.query)
			var derr *UnknownDirectiveError
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, tt.key, derr.Key)
		})
	}
}
