package query

// ColumnType tags a field's underlying scalar type. The column handler
// registry dispatches on this tag.
type ColumnType string

const (
	TypeInteger   ColumnType = "integer"
	TypeText      ColumnType = "text"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
)

// Field describes one scalar column on a model.
type Field struct {
	Name   string
	Type   ColumnType
	Unique bool
}

// Model describes a queryable table: its columns, which of them external
// callers may filter or order by, and which column (if any) stores the
// owning principal's id.
type Model struct {
	Schema string
	Table  string
	Fields []Field

	// Exposed lists the fields eligible for filter/order. A nil slice
	// means open mode: every declared field is eligible. An empty
	// non-nil slice exposes nothing.
	Exposed []string

	// OwnerColumn names the column holding the owning principal's id.
	// Empty means ownership does not apply to this model.
	OwnerColumn string

	// PrimaryKey is the default ordering fallback. Pagination is
	// undefined without a stable order.
	PrimaryKey string
}

// Field returns the named field descriptor.
func (m *Model) Field(name string) (Field, bool) {
	for _, f := range m.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Exposes reports whether external callers may filter or order by the
// named field. In open mode any declared field qualifies.
func (m *Model) Exposes(name string) bool {
	if _, ok := m.Field(name); !ok {
		return false
	}
	if m.Exposed == nil {
		return true
	}
	for _, e := range m.Exposed {
		if e == name {
			return true
		}
	}
	return false
}

// Principal is the authenticated caller as seen by the owner scope
// injector. Attribute resolves a named claim or attribute on the
// principal; IsExempt reports administrative principals that bypass
// ownership scoping.
type Principal interface {
	Attribute(name string) (any, bool)
	IsExempt() bool
}
