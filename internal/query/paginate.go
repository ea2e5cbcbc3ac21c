package query

import (
	"context"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/querygate-io/querygate/internal/logutil"
)

// Store is the execution surface the pagination engine needs from the
// data store. Implementations return rows as column-name keyed maps in
// the order the query produced them.
type Store interface {
	Select(ctx context.Context, sql string, args []any) ([]map[string]any, error)
	Count(ctx context.Context, sql string, args []any) (int64, error)
}

// Page is one window of a result set plus its position metadata.
type Page struct {
	Items   []map[string]any `json:"items"`
	Total   int              `json:"total"`
	Current int              `json:"current"`
	PerPage int              `json:"per_page"`
	HasNext bool             `json:"has_next"`
	HasPrev bool             `json:"has_prev"`
}

// LastPage returns the number of the final page.
func (p *Page) LastPage() int {
	if p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// NextPage returns the following page number, if there is one.
func (p *Page) NextPage() (int, bool) {
	if !p.HasNext {
		return 0, false
	}
	return p.Current + 1, true
}

// PrevPage returns the preceding page number, if there is one.
func (p *Page) PrevPage() (int, bool) {
	if !p.HasPrev {
		return 0, false
	}
	return p.Current - 1, true
}

// Result is what executing a plan produces: a page of records, or a
// single record for unique-key lookups and aggregate plans.
type Result struct {
	Page *Page
	Item map[string]any
}

// Paginator executes plans against a store with a per_page window.
type Paginator struct {
	store Store
}

// NewPaginator returns a paginator bound to a store.
func NewPaginator(store Store) *Paginator {
	return &Paginator{store: store}
}

// Execute runs the plan. Aggregate plans collapse to a single row. A
// page past the end of the data is an empty page, not an error. If the
// query was a unique-field lookup and matched exactly one record, the
// record is returned directly instead of a page wrapper.
func (pg *Paginator) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	qb := NewQueryBuilder(plan.schemaName(), plan.Model.Table).
		WithPredicates(plan.Predicates)

	if plan.Aggregate != nil {
		sql, args := qb.BuildAggregate(*plan.Aggregate)
		log.Debug().
			Str("table", plan.Model.Table).
			Str("sql", logutil.SanitizeSQL(sql)).
			Msg("Executing aggregate plan")
		rows, err := pg.store.Select(ctx, sql, args)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return &Result{Item: map[string]any{}}, nil
		}
		return &Result{Item: rows[0]}, nil
	}

	if plan.Page < 1 {
		return nil, &PaginationError{Param: namePage, Value: strconv.Itoa(plan.Page)}
	}
	if plan.PerPage < 1 {
		return nil, &PaginationError{Param: namePerPage, Value: strconv.Itoa(plan.PerPage)}
	}

	countSQL, countArgs := qb.BuildCount()
	total, err := pg.store.Count(ctx, countSQL, countArgs)
	if err != nil {
		return nil, err
	}

	selectSQL, selectArgs := qb.
		WithOrder(plan.Order).
		WithLimit(plan.PerPage).
		WithOffset((plan.Page - 1) * plan.PerPage).
		BuildSelect()
	log.Debug().
		Str("table", plan.Model.Table).
		Str("sql", logutil.SanitizeSQL(selectSQL)).
		Int("page", plan.Page).
		Int("per_page", plan.PerPage).
		Msg("Executing read plan")
	items, err := pg.store.Select(ctx, selectSQL, selectArgs)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []map[string]any{}
	}

	page := &Page{
		Items:   items,
		Total:   int(total),
		Current: plan.Page,
		PerPage: plan.PerPage,
		HasPrev: plan.Page > 1,
	}
	page.HasNext = plan.Page < page.LastPage()

	if plan.UniqueLookup() && total == 1 && len(items) == 1 {
		return &Result{Item: items[0]}, nil
	}
	return &Result{Page: page}, nil
}
