// Package cpsolver is a small, domain-agnostic boolean/integer constraint
// solver. It plays the role of the opaque CP-SAT-style backend that the
// scheduling model is built against: boolean variables, bounded integer
// variables, linear constraints, reified indicators, max/multiplication
// equalities, a weighted objective, and a deadline-bounded search.
//
// It makes no assumption about what the variables mean; internal/scheduling
// is the only caller and owns all domain semantics.
package cpsolver

import "fmt"

// VarID identifies a decision variable within a Model.
type VarID int

type varDef struct {
	name   string
	lb, ub int
}

// Term is a coefficient applied to a variable inside a linear expression.
type Term struct {
	Var   VarID
	Coeff int
}

// Lit returns a unit-coefficient term for v.
func Lit(v VarID) Term { return Term{Var: v, Coeff: 1} }

// Scaled returns a term with an explicit coefficient.
func Scaled(v VarID, coeff int) Term { return Term{Var: v, Coeff: coeff} }

// Model accumulates variables, constraints and an objective before Solve.
type Model struct {
	vars        []varDef
	constraints []constraint
	objective   []objTerm
	bigM        int
}

type objTerm struct {
	v      VarID
	weight float64
}

// NewModel returns an empty model. bigM bounds the magnitude of any linear
// expression the model will build; it is used internally by conditional
// constraints (AddConditionalLinearLE) to relax a constraint when its
// antecedents are not all true. Callers should pass a safe upper bound on
// the largest sum of coefficients*domain-width they will ever construct.
func NewModel(bigM int) *Model {
	if bigM <= 0 {
		bigM = 1_000_000
	}
	return &Model{bigM: bigM}
}

// NewBoolVar declares a {0,1} decision variable.
func (m *Model) NewBoolVar(name string) VarID {
	return m.NewIntVar(0, 1, name)
}

// NewIntVar declares a bounded integer decision variable.
func (m *Model) NewIntVar(lb, ub int, name string) VarID {
	if ub < lb {
		panic(fmt.Sprintf("cpsolver: NewIntVar %q has ub < lb (%d < %d)", name, ub, lb))
	}
	m.vars = append(m.vars, varDef{name: name, lb: lb, ub: ub})
	return VarID(len(m.vars) - 1)
}

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// Bounds returns the declared domain of v.
func (m *Model) Bounds(v VarID) (lb, ub int) {
	d := m.vars[v]
	return d.lb, d.ub
}

// Name returns the declared name of v, for diagnostics.
func (m *Model) Name(v VarID) string { return m.vars[v].name }

// BigM returns the model's configured Big-M constant, for callers building
// their own ad-hoc reifications outside the constraints.go helpers.
func (m *Model) BigM() int { return m.bigM }

// AddObjectiveTerm adds weight*value(v) to the (minimized) objective.
// Negative weights express a bonus, as used for preference rewards.
func (m *Model) AddObjectiveTerm(weight float64, v VarID) {
	m.objective = append(m.objective, objTerm{v: v, weight: weight})
}
