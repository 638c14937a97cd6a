package cpsolver_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jagovanlieshout/Hoevelaken-autorooster/internal/cpsolver"
)

func shortOpts() cpsolver.SolveOptions {
	return cpsolver.SolveOptions{Deadline: 4 * time.Second, Workers: 4, Seed: 1}
}

func TestSolve_ExactlyOneOfTwo(t *testing.T) {
	m := cpsolver.NewModel(1000)
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a), cpsolver.Lit(b)}, 1)

	sol := m.Solve(context.Background(), shortOpts())
	require.True(t, sol.Status.Success())
	assert.Equal(t, 1, sol.Value(a)+sol.Value(b))
}

func TestSolve_InfeasibleTwoMutuallyExclusiveRequirements(t *testing.T) {
	m := cpsolver.NewModel(1000)
	a := m.NewBoolVar("a")
	// a must be both 1 and 0.
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a)}, 1)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a)}, 0)

	sol := m.Solve(context.Background(), shortOpts())
	assert.False(t, sol.Status.Success())
}

func TestAddConditionalLinearLEExpr_ForcesConsequenceWhenThresholdMet(t *testing.T) {
	m := cpsolver.NewModel(1000)
	x := m.NewBoolVar("x")
	y := m.NewBoolVar("y")
	z := m.NewBoolVar("z")

	// when x + y >= 2 (i.e. both true), z must be 0.
	m.AddConditionalLinearLEExpr([]cpsolver.Term{cpsolver.Lit(x), cpsolver.Lit(y)}, 2, []cpsolver.Term{cpsolver.Lit(z)}, 0)
	// reward z so the search wants it at 1 whenever it's free to be.
	m.AddObjectiveTerm(-1.0, z)
	// force x and y both to 1.
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(x)}, 1)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(y)}, 1)

	sol := m.Solve(context.Background(), shortOpts())
	require.True(t, sol.Status.Success())
	assert.Equal(t, 0, sol.Value(z))
}

func TestAddReifiedOr(t *testing.T) {
	m := cpsolver.NewModel(1000)
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	r := m.NewBoolVar("r")
	m.AddReifiedOr(r, []cpsolver.VarID{a, b})
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a)}, 1)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(b)}, 0)

	sol := m.Solve(context.Background(), shortOpts())
	require.True(t, sol.Status.Success())
	assert.Equal(t, 1, sol.Value(r))
}

func TestAddMultiplicationEquality(t *testing.T) {
	m := cpsolver.NewModel(1000)
	a := m.NewBoolVar("a")
	b := m.NewBoolVar("b")
	p := m.NewIntVar(0, 1, "p")
	m.AddMultiplicationEquality(p, a, b)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a)}, 1)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(b)}, 1)

	sol := m.Solve(context.Background(), shortOpts())
	require.True(t, sol.Status.Success())
	assert.Equal(t, 1, sol.Value(p))
}

func TestAddMaxEquality(t *testing.T) {
	m := cpsolver.NewModel(1000)
	a := m.NewIntVar(0, 5, "a")
	b := m.NewIntVar(0, 5, "b")
	c := m.NewIntVar(0, 5, "c")
	max := m.NewIntVar(0, 5, "max")
	m.AddMaxEquality(max, []cpsolver.VarID{a, b, c})
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(a)}, 2)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(b)}, 5)
	m.AddLinearEQ([]cpsolver.Term{cpsolver.Lit(c)}, 1)

	sol := m.Solve(context.Background(), shortOpts())
	require.True(t, sol.Status.Success())
	assert.Equal(t, 5, sol.Value(max))
}

func TestStatus_SuccessAndString(t *testing.T) {
	assert.True(t, cpsolver.StatusOptimal.Success())
	assert.True(t, cpsolver.StatusFeasible.Success())
	assert.False(t, cpsolver.StatusInfeasible.Success())
	assert.False(t, cpsolver.StatusTimeoutNoIncumbent.Success())
	assert.Equal(t, "OPTIMAL", cpsolver.StatusOptimal.String())
}
