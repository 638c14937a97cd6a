package cpsolver

// constraint is satisfied when violation(assign) == 0. Every constraint
// kind reports the variables it touches so the search can target the
// constraints a candidate move actually affects.
type constraint interface {
	violation(assign []int) int
	touches() []VarID
}

type linearKind int

const (
	linearLE linearKind = iota
	linearGE
	linearEQ
)

type linearConstraint struct {
	terms []Term
	rhs   int
	kind  linearKind
}

func (c *linearConstraint) eval(assign []int) int {
	sum := 0
	for _, t := range c.terms {
		sum += t.Coeff * assign[t.Var]
	}
	return sum
}

func (c *linearConstraint) violation(assign []int) int {
	sum := c.eval(assign)
	switch c.kind {
	case linearLE:
		if d := sum - c.rhs; d > 0 {
			return d
		}
		return 0
	case linearGE:
		if d := c.rhs - sum; d > 0 {
			return d
		}
		return 0
	default: // linearEQ
		d := sum - c.rhs
		if d < 0 {
			return -d
		}
		return d
	}
}

func (c *linearConstraint) touches() []VarID {
	out := make([]VarID, len(c.terms))
	for i, t := range c.terms {
		out[i] = t.Var
	}
	return out
}

// AddLinearLE adds sum(terms) <= rhs.
func (m *Model) AddLinearLE(terms []Term, rhs int) {
	m.constraints = append(m.constraints, &linearConstraint{terms: append([]Term(nil), terms...), rhs: rhs, kind: linearLE})
}

// AddLinearGE adds sum(terms) >= rhs.
func (m *Model) AddLinearGE(terms []Term, rhs int) {
	m.constraints = append(m.constraints, &linearConstraint{terms: append([]Term(nil), terms...), rhs: rhs, kind: linearGE})
}

// AddLinearEQ adds sum(terms) == rhs.
func (m *Model) AddLinearEQ(terms []Term, rhs int) {
	m.constraints = append(m.constraints, &linearConstraint{terms: append([]Term(nil), terms...), rhs: rhs, kind: linearEQ})
}

// AddConditionalLinearLE adds sum(terms) <= rhs, but only when every
// variable in antecedents (each assumed boolean) equals 1; it is a no-op
// constraint otherwise. Internally this is a single Big-M relaxation of
// the implication antecedents ⇒ sum(terms) <= rhs, matching how a reified
// "OnlyEnforceIf" constraint is linearised in a real CP-SAT backend.
func (m *Model) AddConditionalLinearLE(antecedents []VarID, terms []Term, rhs int) {
	relaxed := append([]Term(nil), terms...)
	for _, a := range antecedents {
		relaxed = append(relaxed, Term{Var: a, Coeff: m.bigM})
	}
	m.AddLinearLE(relaxed, rhs+m.bigM*len(antecedents))
}

// AddConditionalLinearLEExpr generalises AddConditionalLinearLE to an
// arbitrary affine antecedent expression: when sum(condTerms) >= threshold,
// sum(thenTerms) <= rhs is enforced; otherwise it is relaxed away. Negating
// a boolean literal's contribution (to express "¬v") is done by passing
// Scaled(v, -1) as its condTerm and folding the +1 it would otherwise need
// into threshold, e.g. the condition "a ∧ b ∧ ¬c" is sum(a,b,Scaled(c,-1))
// >= 2 (only achievable when a=1, b=1, c=0).
func (m *Model) AddConditionalLinearLEExpr(condTerms []Term, threshold int, thenTerms []Term, rhs int) {
	relaxed := append([]Term(nil), thenTerms...)
	for _, c := range condTerms {
		relaxed = append(relaxed, Scaled(c.Var, m.bigM*c.Coeff))
	}
	m.AddLinearLE(relaxed, rhs+m.bigM*threshold)
}

// AddReifiedOr enforces b == 1 iff at least one variable in vars equals 1.
// vars are assumed boolean (or otherwise non-negative).
func (m *Model) AddReifiedOr(b VarID, vars []VarID) {
	if len(vars) == 0 {
		m.AddLinearEQ([]Term{Lit(b)}, 0)
		return
	}
	// b <= sum(vars)
	geTerms := make([]Term, 0, len(vars)+1)
	for _, v := range vars {
		geTerms = append(geTerms, Lit(v))
	}
	geTerms = append(geTerms, Scaled(b, -1))
	m.AddLinearGE(geTerms, 0)

	// sum(vars) <= N*b
	leTerms := make([]Term, 0, len(vars)+1)
	for _, v := range vars {
		leTerms = append(leTerms, Lit(v))
	}
	leTerms = append(leTerms, Scaled(b, -len(vars)))
	m.AddLinearLE(leTerms, 0)
}

type maxEqualityConstraint struct {
	result VarID
	vars   []VarID
}

func (c *maxEqualityConstraint) violation(assign []int) int {
	best := assign[c.vars[0]]
	for _, v := range c.vars[1:] {
		if assign[v] > best {
			best = assign[v]
		}
	}
	d := assign[c.result] - best
	if d < 0 {
		return -d
	}
	return d
}

func (c *maxEqualityConstraint) touches() []VarID {
	return append([]VarID{c.result}, c.vars...)
}

// AddMaxEquality adds result == max(vars).
func (m *Model) AddMaxEquality(result VarID, vars []VarID) {
	if len(vars) == 0 {
		return
	}
	m.constraints = append(m.constraints, &maxEqualityConstraint{result: result, vars: append([]VarID(nil), vars...)})
}

type multEqualityConstraint struct {
	result, a, b VarID
}

func (c *multEqualityConstraint) violation(assign []int) int {
	d := assign[c.result] - assign[c.a]*assign[c.b]
	if d < 0 {
		return -d
	}
	return d
}

func (c *multEqualityConstraint) touches() []VarID {
	return []VarID{c.result, c.a, c.b}
}

// AddMultiplicationEquality adds result == a*b.
func (m *Model) AddMultiplicationEquality(result, a, b VarID) {
	m.constraints = append(m.constraints, &multEqualityConstraint{result: result, a: a, b: b})
}
