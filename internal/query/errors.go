package query

import "fmt"

// UnknownDirectiveError reports a $-prefixed key that matches no reserved
// name and no recognized operator suffix. Directives are client use of the
// special syntax, so a typo here is an error rather than a dropped key.
type UnknownDirectiveError struct {
	Key string
}

func (e *UnknownDirectiveError) Error() string {
	return fmt.Sprintf("unknown query directive %q", e.Key)
}

// PaginationError reports a non-numeric or non-positive $page/$per_page.
type PaginationError struct {
	Param string
	Value string
}

func (e *PaginationError) Error() string {
	return fmt.Sprintf("invalid pagination: %s=%q must be a positive integer", e.Param, e.Value)
}

// UnsupportedTypeError reports a field whose column type has no registered
// handler.
type UnsupportedTypeError struct {
	Field string
	Type  ColumnType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("no column handler registered for type %q (field %q)", e.Type, e.Field)
}

// UnsupportedOperatorError reports an operator the field's handler refuses.
type UnsupportedOperatorError struct {
	Field    string
	Operator FilterOperator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("operator %q is not supported on field %q", e.Operator, e.Field)
}

// ValueError reports a raw value that fails conversion to the field's
// column type.
type ValueError struct {
	Field    string
	Operator FilterOperator
	RawValue string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid value %q for field %q (operator %q)", e.RawValue, e.Field, e.Operator)
}

// AggregateConflictError reports a max/min token combined with directives
// it is mutually exclusive with.
type AggregateConflictError struct {
	Field  string
	Reason string
}

func (e *AggregateConflictError) Error() string {
	return fmt.Sprintf("aggregate on field %q conflicts with %s", e.Field, e.Reason)
}

// ExposureError reports a filter or order on a non-exposed field. Only
// raised in strict exposure mode; the default policy drops the token.
type ExposureError struct {
	Field string
}

func (e *ExposureError) Error() string {
	return fmt.Sprintf("field %q is not exposed for filtering or ordering", e.Field)
}
