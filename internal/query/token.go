package query

// FilterOperator identifies a comparison applied by a filter token.
type FilterOperator string

const (
	OpEqual          FilterOperator = "eq"
	OpNotEqual       FilterOperator = "not_eq"
	OpIContains      FilterOperator = "icontains"
	OpInside         FilterOperator = "inside"
	OpNotInside      FilterOperator = "not_inside"
	OpGreaterThan    FilterOperator = "gt"
	OpGreaterOrEqual FilterOperator = "gte"
	OpLessThan       FilterOperator = "lt"
	OpLessOrEqual    FilterOperator = "lte"
	OpLike           FilterOperator = "like"
	OpMax            FilterOperator = "max"
	OpMin            FilterOperator = "min"
)

// operatorNames is the suffix table recognized after the "__" delimiter
// in $-prefixed keys. Lookup here is the only place raw suffix strings
// are interpreted.
var operatorNames = map[string]FilterOperator{
	"eq":         OpEqual,
	"not_eq":     OpNotEqual,
	"icontains":  OpIContains,
	"inside":     OpInside,
	"not_inside": OpNotInside,
	"gt":         OpGreaterThan,
	"gte":        OpGreaterOrEqual,
	"lt":         OpLessThan,
	"lte":        OpLessOrEqual,
	"like":       OpLike,
	"max":        OpMax,
	"min":        OpMin,
}

// IsList reports whether the operator takes a comma-separated list value.
func (op FilterOperator) IsList() bool {
	return op == OpInside || op == OpNotInside
}

// IsAggregate reports whether the operator collapses the plan to a
// single-row aggregate instead of filtering rows.
func (op FilterOperator) IsAggregate() bool {
	return op == OpMax || op == OpMin
}

// FilterToken is one parsed (field, operator, value) triple. RawList is
// populated instead of RawValue for list operators.
type FilterToken struct {
	Field    string
	Operator FilterOperator
	RawValue string
	RawList  []string
}

// OrderKey is one parsed ordering directive.
type OrderKey struct {
	Field string
	Desc  bool
}

// Pagination carries the requested window. Zero means "not supplied";
// the transformer substitutes configured defaults.
type Pagination struct {
	Page    int
	PerPage int
}

// Parsed is the typed output of the parameter parser. Filters preserve
// the insertion order of the raw query string.
type Parsed struct {
	Filters    []FilterToken
	Order      []OrderKey
	Pagination Pagination
}
