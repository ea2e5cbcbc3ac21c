package query

import (
	"strconv"
	"time"
)

// Predicate is a typed, conversion-checked filter ready for the query
// builder. Values is populated instead of Value for list operators;
// aggregate operators carry neither.
type Predicate struct {
	Column   string
	Operator FilterOperator
	Value    any
	Values   []any
}

// ColumnHandler builds predicates for one underlying column type. A
// handler declares which operators it refuses; asking for a refused
// operator is an error, never silently ignored.
type ColumnHandler interface {
	Supports(op FilterOperator) bool
	BuildPredicate(f Field, tok FilterToken) (Predicate, error)
}

// Registry maps column types to handlers. It is the single dispatch
// point for per-type predicate construction. Populate it before serving
// traffic; Register is not synchronized against concurrent lookups.
type Registry struct {
	handlers map[ColumnType]ColumnHandler
}

// NewRegistry returns a registry with the built-in integer, text,
// boolean and timestamp handlers installed.
func NewRegistry() *Registry {
	r := &Registry{handlers: map[ColumnType]ColumnHandler{}}
	r.Register(TypeInteger, IntegerHandler())
	r.Register(TypeText, TextHandler())
	r.Register(TypeBoolean, BooleanHandler())
	r.Register(TypeTimestamp, TimestampHandler())
	return r
}

// Register installs a handler for a column type, replacing any existing
// one. Custom types plug in here.
func (r *Registry) Register(t ColumnType, h ColumnHandler) {
	r.handlers[t] = h
}

// Resolve returns the handler for the field's declared type.
func (r *Registry) Resolve(f Field) (ColumnHandler, error) {
	h, ok := r.handlers[f.Type]
	if !ok {
		return nil, &UnsupportedTypeError{Field: f.Name, Type: f.Type}
	}
	return h, nil
}

// typedHandler implements ColumnHandler for any scalar type given a
// conversion function and a supported-operator set.
type typedHandler struct {
	supported map[FilterOperator]bool
	convert   func(raw string) (any, error)
}

func (h *typedHandler) Supports(op FilterOperator) bool {
	return h.supported[op]
}

func (h *typedHandler) BuildPredicate(f Field, tok FilterToken) (Predicate, error) {
	if !h.Supports(tok.Operator) {
		return Predicate{}, &UnsupportedOperatorError{Field: f.Name, Operator: tok.Operator}
	}
	pred := Predicate{Column: f.Name, Operator: tok.Operator}
	switch {
	case tok.Operator.IsAggregate():
		// Aggregates have no comparison value.
	case tok.Operator.IsList():
		pred.Values = make([]any, 0, len(tok.RawList))
		for _, raw := range tok.RawList {
			v, err := h.convert(raw)
			if err != nil {
				return Predicate{}, &ValueError{Field: f.Name, Operator: tok.Operator, RawValue: raw}
			}
			pred.Values = append(pred.Values, v)
		}
	default:
		v, err := h.convert(tok.RawValue)
		if err != nil {
			return Predicate{}, &ValueError{Field: f.Name, Operator: tok.Operator, RawValue: tok.RawValue}
		}
		pred.Value = v
	}
	return pred, nil
}

func operatorSet(ops ...FilterOperator) map[FilterOperator]bool {
	set := make(map[FilterOperator]bool, len(ops))
	for _, op := range ops {
		set[op] = true
	}
	return set
}

// IntegerHandler handles integer columns. Substring matching is refused;
// the boolean literals True/False are accepted as 1/0 for columns that
// store flags as integers.
func IntegerHandler() ColumnHandler {
	return &typedHandler{
		supported: operatorSet(OpEqual, OpNotEqual, OpInside, OpNotInside,
			OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual, OpMax, OpMin),
		convert: func(raw string) (any, error) {
			switch raw {
			case "True":
				return int64(1), nil
			case "False":
				return int64(0), nil
			}
			return strconv.ParseInt(raw, 10, 64)
		},
	}
}

// TextHandler handles string columns. Ordered comparison and aggregates
// are refused.
func TextHandler() ColumnHandler {
	return &typedHandler{
		supported: operatorSet(OpEqual, OpNotEqual, OpIContains, OpLike, OpInside, OpNotInside),
		convert: func(raw string) (any, error) {
			return raw, nil
		},
	}
}

// BooleanHandler handles boolean columns. Only equality makes sense.
func BooleanHandler() ColumnHandler {
	return &typedHandler{
		supported: operatorSet(OpEqual, OpNotEqual),
		convert: func(raw string) (any, error) {
			return strconv.ParseBool(raw)
		},
	}
}

// TimestampHandler handles timestamp columns. Values are RFC 3339 or
// integer Unix seconds.
func TimestampHandler() ColumnHandler {
	return &typedHandler{
		supported: operatorSet(OpEqual, OpNotEqual, OpInside, OpNotInside,
			OpGreaterThan, OpGreaterOrEqual, OpLessThan, OpLessOrEqual, OpMax, OpMin),
		convert: func(raw string) (any, error) {
			if ts, err := time.Parse(time.RFC3339, raw); err == nil {
				return ts.UTC(), nil
			}
			secs, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, err
			}
			return time.Unix(secs, 0).UTC(), nil
		},
	}
}
