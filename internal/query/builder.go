package query

import (
	"fmt"
	"strings"
)

// QueryBuilder renders a plan's predicates, ordering and window into
// parameterized SQL. Identifiers are always quoted; values always travel
// as $n arguments.
type QueryBuilder struct {
	schema     string
	table      string
	predicates []Predicate
	order      []OrderKey
	limit      int
	offset     int
}

// NewQueryBuilder creates a builder for schema.table.
func NewQueryBuilder(schema, table string) *QueryBuilder {
	return &QueryBuilder{schema: schema, table: table, limit: -1, offset: -1}
}

// WithPredicates sets the AND-combined filter predicates.
func (qb *QueryBuilder) WithPredicates(preds []Predicate) *QueryBuilder {
	qb.predicates = preds
	return qb
}

// WithOrder sets the ordering keys, applied in sequence.
func (qb *QueryBuilder) WithOrder(order []OrderKey) *QueryBuilder {
	qb.order = order
	return qb
}

// WithLimit sets the row limit.
func (qb *QueryBuilder) WithLimit(limit int) *QueryBuilder {
	qb.limit = limit
	return qb
}

// WithOffset sets the row offset.
func (qb *QueryBuilder) WithOffset(offset int) *QueryBuilder {
	qb.offset = offset
	return qb
}

// BuildSelect renders the windowed SELECT.
func (qb *QueryBuilder) BuildSelect() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(qb.tableRef())

	args := qb.writeWhere(&sb, nil)

	if len(qb.order) > 0 {
		sb.WriteString(" ORDER BY ")
		for i, key := range qb.order {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(quoteIdent(key.Field))
			if key.Desc {
				sb.WriteString(" DESC")
			} else {
				sb.WriteString(" ASC")
			}
		}
	}
	if qb.limit >= 0 {
		fmt.Fprintf(&sb, " LIMIT %d", qb.limit)
	}
	if qb.offset > 0 {
		fmt.Fprintf(&sb, " OFFSET %d", qb.offset)
	}
	return sb.String(), args
}

// BuildCount renders the matching COUNT query (no ordering, no window).
func (qb *QueryBuilder) BuildCount() (string, []any) {
	var sb strings.Builder
	sb.WriteString("SELECT COUNT(*) FROM ")
	sb.WriteString(qb.tableRef())
	args := qb.writeWhere(&sb, nil)
	return sb.String(), args
}

// BuildAggregate renders a single-row MAX/MIN over the aggregate's
// column, filtered by the ordinary predicates.
func (qb *QueryBuilder) BuildAggregate(agg Predicate) (string, []any) {
	var sb strings.Builder
	fn := "MAX"
	if agg.Operator == OpMin {
		fn = "MIN"
	}
	fmt.Fprintf(&sb, "SELECT %s(%s) AS %s FROM ", fn, quoteIdent(agg.Column), quoteIdent(agg.Column))
	sb.WriteString(qb.tableRef())
	args := qb.writeWhere(&sb, nil)
	return sb.String(), args
}

func (qb *QueryBuilder) tableRef() string {
	return quoteIdent(qb.schema) + "." + quoteIdent(qb.table)
}

func (qb *QueryBuilder) writeWhere(sb *strings.Builder, args []any) []any {
	if len(qb.predicates) == 0 {
		return args
	}
	sb.WriteString(" WHERE ")
	for i, pred := range qb.predicates {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		args = writePredicate(sb, pred, args)
	}
	return args
}

func writePredicate(sb *strings.Builder, pred Predicate, args []any) []any {
	col := quoteIdent(pred.Column)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	switch pred.Operator {
	case OpEqual:
		fmt.Fprintf(sb, "%s = %s", col, next(pred.Value))
	case OpNotEqual:
		fmt.Fprintf(sb, "%s <> %s", col, next(pred.Value))
	case OpGreaterThan:
		fmt.Fprintf(sb, "%s > %s", col, next(pred.Value))
	case OpGreaterOrEqual:
		fmt.Fprintf(sb, "%s >= %s", col, next(pred.Value))
	case OpLessThan:
		fmt.Fprintf(sb, "%s < %s", col, next(pred.Value))
	case OpLessOrEqual:
		fmt.Fprintf(sb, "%s <= %s", col, next(pred.Value))
	case OpLike:
		fmt.Fprintf(sb, "%s LIKE %s", col, next(pred.Value))
	case OpIContains:
		pattern := "%" + strings.ToLower(fmt.Sprint(pred.Value)) + "%"
		fmt.Fprintf(sb, "LOWER(%s) LIKE %s", col, next(pattern))
	case OpInside:
		fmt.Fprintf(sb, "%s = ANY(%s)", col, next(pred.Values))
	case OpNotInside:
		fmt.Fprintf(sb, "NOT (%s = ANY(%s))", col, next(pred.Values))
	}
	return args
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
