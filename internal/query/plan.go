package query

// Plan is a fully resolved read query: conjunction of predicates, an
// ordering guaranteed to be stable, and a pagination window. A plan is
// built once per request and never mutated afterwards; ExtendQuery
// returns a new plan rather than touching an existing one.
type Plan struct {
	Model      *Model
	Predicates []Predicate
	Order      []OrderKey
	Page       int
	PerPage    int

	// Aggregate is set when a max/min token collapsed the plan to a
	// single-row aggregate.
	Aggregate *Predicate

	uniqueLookup bool
}

// UniqueLookup reports whether every filter targets a unique field with
// equality, making the plan a get-by-unique-key style query.
func (p *Plan) UniqueLookup() bool {
	return p.uniqueLookup
}

func (p *Plan) schemaName() string {
	if p.Model.Schema != "" {
		return p.Model.Schema
	}
	return "public"
}

// clone copies the plan so a refinement can extend it without mutating
// the original.
func (p *Plan) clone() *Plan {
	dup := *p
	dup.Predicates = append([]Predicate(nil), p.Predicates...)
	dup.Order = append([]OrderKey(nil), p.Order...)
	return &dup
}
