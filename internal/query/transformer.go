package query

import (
	"context"
)

// Config is the explicit configuration for query construction. It is
// passed in rather than read from process globals so the core stays
// side-effect free.
type Config struct {
	// DefaultPage and DefaultPerPage apply when the request carries no
	// pagination directives.
	DefaultPage    int
	DefaultPerPage int

	// MaxPerPage clamps client-requested page sizes. Zero means no cap.
	MaxPerPage int

	// RequesterAttr is the principal attribute compared against the
	// model's owner column. Defaults to "id".
	RequesterAttr string

	// StrictExposure turns non-exposed field references into errors
	// instead of dropping them.
	StrictExposure bool
}

func (c Config) withDefaults() Config {
	if c.DefaultPage < 1 {
		c.DefaultPage = 1
	}
	if c.DefaultPerPage < 1 {
		c.DefaultPerPage = 20
	}
	if c.RequesterAttr == "" {
		c.RequesterAttr = "id"
	}
	return c
}

// Transformer turns raw query strings into executed, paginated reads.
// It owns the parse → guard → dispatch → scope → build → execute
// pipeline; every stage before execution fails fast with a typed error.
type Transformer struct {
	cfg       Config
	parser    *Parser
	registry  *Registry
	paginator *Paginator
}

// NewTransformer wires a transformer from its collaborators.
func NewTransformer(cfg Config, registry *Registry, store Store) *Transformer {
	return &Transformer{
		cfg:       cfg.withDefaults(),
		parser:    NewParser(),
		registry:  registry,
		paginator: NewPaginator(store),
	}
}

// ConstructQuery builds a plan for the model from the raw query string,
// scoped to the principal, and executes it.
func (t *Transformer) ConstructQuery(ctx context.Context, model *Model, rawQuery string, principal Principal) (*Result, error) {
	plan, err := t.BuildPlan(model, rawQuery, principal)
	if err != nil {
		return nil, err
	}
	return t.paginator.Execute(ctx, plan)
}

// Execute runs a previously built (or extended) plan.
func (t *Transformer) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	return t.paginator.Execute(ctx, plan)
}

// BuildPlan parses and resolves the raw query string into an immutable
// plan without touching the store.
func (t *Transformer) BuildPlan(model *Model, rawQuery string, principal Principal) (*Plan, error) {
	parsed, err := t.parser.Parse(model, rawQuery)
	if err != nil {
		return nil, err
	}

	tokens := parsed.Filters
	ownerPredicate, scoped := t.ownerScope(model, principal)
	if scoped {
		// Client-supplied filters on the owner column are discarded in
		// favor of the injected predicate; a caller must not be able to
		// reach another principal's records by spoofing it.
		tokens = dropField(tokens, model.OwnerColumn)
	}

	resolved, err := t.resolveTokens(model, tokens)
	if err != nil {
		return nil, err
	}
	if resolved.aggregate != nil {
		if parsed.Pagination.Page != 0 || parsed.Pagination.PerPage != 0 {
			return nil, &AggregateConflictError{Field: resolved.aggregate.Column, Reason: "explicit pagination"}
		}
		if len(parsed.Order) > 0 {
			return nil, &AggregateConflictError{Field: resolved.aggregate.Column, Reason: "ordering"}
		}
	}

	order, err := t.guardOrder(model, parsed.Order)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Model:        model,
		Order:        order,
		Page:         parsed.Pagination.Page,
		PerPage:      parsed.Pagination.PerPage,
		Aggregate:    resolved.aggregate,
		uniqueLookup: resolved.unique,
	}
	if scoped {
		plan.Predicates = append(plan.Predicates, ownerPredicate)
	}
	plan.Predicates = append(plan.Predicates, resolved.predicates...)

	if plan.Page == 0 {
		plan.Page = t.cfg.DefaultPage
	}
	if plan.PerPage == 0 {
		plan.PerPage = t.cfg.DefaultPerPage
	}
	if t.cfg.MaxPerPage > 0 && plan.PerPage > t.cfg.MaxPerPage {
		plan.PerPage = t.cfg.MaxPerPage
	}
	if len(plan.Order) == 0 && model.PrimaryKey != "" {
		plan.Order = []OrderKey{{Field: model.PrimaryKey}}
	}
	return plan, nil
}

// ExtendQuery applies the same filter/order parsing atop an existing
// plan. Fields named in ignoreFields are stripped before parsing so the
// caller's pre-bound predicates cannot be re-filtered. The original plan
// is left untouched.
func (t *Transformer) ExtendQuery(plan *Plan, rawQuery string, ignoreFields []string) (*Plan, error) {
	parsed, err := t.parser.Parse(plan.Model, rawQuery)
	if err != nil {
		return nil, err
	}

	tokens := parsed.Filters
	for _, field := range ignoreFields {
		tokens = dropField(tokens, field)
	}
	if plan.Model.OwnerColumn != "" {
		ownerScoped := false
		for _, pred := range plan.Predicates {
			if pred.Column == plan.Model.OwnerColumn {
				ownerScoped = true
			}
		}
		if ownerScoped {
			tokens = dropField(tokens, plan.Model.OwnerColumn)
		}
	}

	resolved, err := t.resolveTokens(plan.Model, tokens)
	if err != nil {
		return nil, err
	}
	if resolved.aggregate != nil && (len(plan.Predicates) > 0 || plan.Aggregate != nil) {
		return nil, &AggregateConflictError{Field: resolved.aggregate.Column, Reason: "an existing query"}
	}

	order, err := t.guardOrder(plan.Model, parsed.Order)
	if err != nil {
		return nil, err
	}

	refined := plan.clone()
	refined.Predicates = append(refined.Predicates, resolved.predicates...)
	refined.uniqueLookup = false
	if resolved.aggregate != nil {
		refined.Aggregate = resolved.aggregate
	}
	if len(order) > 0 {
		refined.Order = order
	}
	if parsed.Pagination.Page != 0 {
		refined.Page = parsed.Pagination.Page
	}
	if parsed.Pagination.PerPage != 0 {
		refined.PerPage = parsed.Pagination.PerPage
		if t.cfg.MaxPerPage > 0 && refined.PerPage > t.cfg.MaxPerPage {
			refined.PerPage = t.cfg.MaxPerPage
		}
	}
	return refined, nil
}

type resolvedTokens struct {
	predicates []Predicate
	aggregate  *Predicate
	unique     bool
}

// resolveTokens runs the exposure guard and column handler dispatch over
// filter tokens. The first error stops processing.
func (t *Transformer) resolveTokens(model *Model, tokens []FilterToken) (resolvedTokens, error) {
	out := resolvedTokens{unique: len(tokens) > 0}
	for _, tok := range tokens {
		if !model.Exposes(tok.Field) {
			if t.cfg.StrictExposure {
				return resolvedTokens{}, &ExposureError{Field: tok.Field}
			}
			continue
		}
		field, _ := model.Field(tok.Field)
		handler, err := t.registry.Resolve(field)
		if err != nil {
			return resolvedTokens{}, err
		}
		pred, err := handler.BuildPredicate(field, tok)
		if err != nil {
			return resolvedTokens{}, err
		}

		if tok.Operator.IsAggregate() {
			if out.aggregate != nil {
				return resolvedTokens{}, &AggregateConflictError{Field: pred.Column, Reason: "another aggregate"}
			}
			for _, other := range out.predicates {
				if other.Column == pred.Column {
					return resolvedTokens{}, &AggregateConflictError{Field: pred.Column, Reason: "other filters on the same column"}
				}
			}
			out.aggregate = &pred
			continue
		}
		if out.aggregate != nil && out.aggregate.Column == pred.Column {
			return resolvedTokens{}, &AggregateConflictError{Field: pred.Column, Reason: "other filters on the same column"}
		}
		if tok.Operator != OpEqual || !field.Unique {
			out.unique = false
		}
		out.predicates = append(out.predicates, pred)
	}
	if len(out.predicates) == 0 {
		out.unique = false
	}
	return out, nil
}

// guardOrder drops (or rejects, in strict mode) ordering keys on
// non-exposed fields.
func (t *Transformer) guardOrder(model *Model, keys []OrderKey) ([]OrderKey, error) {
	var out []OrderKey
	for _, key := range keys {
		if !model.Exposes(key.Field) {
			if t.cfg.StrictExposure {
				return nil, &ExposureError{Field: key.Field}
			}
			continue
		}
		out = append(out, key)
	}
	return out, nil
}

// ownerScope decides whether a scoping predicate applies and builds it.
// A principal attribute that is absent scopes to nothing rather than to
// everything.
func (t *Transformer) ownerScope(model *Model, principal Principal) (Predicate, bool) {
	if model.OwnerColumn == "" || principal == nil || principal.IsExempt() {
		return Predicate{}, false
	}
	value, _ := principal.Attribute(t.cfg.RequesterAttr)
	return Predicate{Column: model.OwnerColumn, Operator: OpEqual, Value: value}, true
}

func dropField(tokens []FilterToken, field string) []FilterToken {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok.Field != field {
			out = append(out, tok)
		}
	}
	return out
}
