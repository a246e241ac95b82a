package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	m, err := New()
	require.NoError(t, err)
	return m
}

// solveAll runs text to exhaustion and returns the named-variable bindings
// of every solution found.
func solveAll(t *testing.T, m *Machine, text string) []Substitution {
	t.Helper()
	ctx := context.Background()
	q := m.QueryString(ctx, text)
	defer q.Close()
	var out []Substitution
	for q.Next(ctx) {
		out = append(out, q.Current().Solution)
	}
	require.NoError(t, q.Err())
	return out
}

func TestQueryTrueFalse(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "true")
	assert.Len(t, sols, 1)

	sols = solveAll(t, m, "fail")
	assert.Len(t, sols, 0)
}

func TestQueryDisjunction(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "X = 1 ; X = 2")
	require.Len(t, sols, 2)
	assert.Equal(t, NewInt(1), sols[0]["X"])
	assert.Equal(t, NewInt(2), sols[1]["X"])
}

func TestQueryArithmetic(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "X is 2 + 3 * 4")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(14), sols[0]["X"])

	sols = solveAll(t, m, "X is 7 mod 3")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(1), sols[0]["X"])
}

func TestQueryMemberBacktracks(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "member(X, [a,b,c])")
	require.Len(t, sols, 3)
	assert.Equal(t, Atom("a"), sols[0]["X"])
	assert.Equal(t, Atom("b"), sols[1]["X"])
	assert.Equal(t, Atom("c"), sols[2]["X"])
}

// TestCutCommitsToFirstClause exercises the "!" atom directly: without cut,
// backtracking into first_color/1's color/1 call would yield red, green and
// blue; with cut it commits to the first.
func TestCutCommitsToFirstClause(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		color(red).
		color(green).
		color(blue).
		first_color(X) :- color(X), !.
	`))
	sols := solveAll(t, m, "first_color(X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("red"), sols[0]["X"])
}

func TestMemberchkUsesCutInternally(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "memberchk(b, [a,b,b,c])")
	assert.Len(t, sols, 1, "memberchk must commit to a single solution via cut")
}

func TestOnceCommitsViaCut(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "once(member(X, [1,2,3]))")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(1), sols[0]["X"])
}

func TestIfThenElse(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "( 1 > 2 -> X = yes ; X = no )")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("no"), sols[0]["X"])
}

func TestNegationAsFailure(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "\\+ member(d, [a,b,c])")
	assert.Len(t, sols, 1)
	sols = solveAll(t, m, "\\+ member(a, [a,b,c])")
	assert.Len(t, sols, 0)
}

func TestCatchThrowRecovers(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "catch(throw(oops), Ball, Result = caught)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("oops"), sols[0]["Ball"])
	assert.Equal(t, Atom("caught"), sols[0]["Result"])
}

func TestCatchLetsNonMatchingExceptionPropagate(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	q := m.QueryString(ctx, "catch(catch(throw(inner), outer_only, true), inner, true)")
	defer q.Close()
	require.True(t, q.Next(ctx))
}

func TestUncaughtExceptionSurfacesAsError(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	q := m.QueryString(ctx, "throw(boom)")
	defer q.Close()
	assert.False(t, q.Next(ctx))
	var errThrow ErrThrow
	require.ErrorAs(t, q.Err(), &errThrow)
	assert.Equal(t, Atom("boom"), errThrow.Ball)
}

func TestFindallCollectsEveryAnswer(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "findall(X, member(X, [1,2,3]), L)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(1), NewInt(2), NewInt(3)}}, sols[0]["L"])
}

func TestSetofSortsLikeFindall(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "setof(X, member(X, [3,1,2,1]), L)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(1), NewInt(2), NewInt(3)}}, sols[0]["L"])
}

func TestAssertzAndRetract(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	require.NoError(t, m.ConsultText(ctx, "user", "likes(alice, pizza)."))

	sols := solveAll(t, m, "likes(alice, X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("pizza"), sols[0]["X"])

	sols = solveAll(t, m, "assertz(likes(alice, sushi))")
	require.Len(t, sols, 1)

	sols = solveAll(t, m, "likes(alice, X)")
	require.Len(t, sols, 2)

	sols = solveAll(t, m, "retract(likes(alice, pizza))")
	require.Len(t, sols, 1)

	sols = solveAll(t, m, "likes(alice, X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("sushi"), sols[0]["X"])
}

func TestMaplistAppliesGoalToEveryElement(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", "double(X, Y) :- Y is X * 2."))
	sols := solveAll(t, m, "maplist(double, [1,2,3], L)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(2), NewInt(4), NewInt(6)}}, sols[0]["L"])
}

func TestAppendNondeterministicSplits(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "append(X, Y, [1,2,3])")
	assert.Len(t, sols, 4)
}

func TestTypeCheckingBuiltins(t *testing.T) {
	m := newTestMachine(t)
	assert.Len(t, solveAll(t, m, "atom(foo)"), 1)
	assert.Len(t, solveAll(t, m, "atom(1)"), 0)
	assert.Len(t, solveAll(t, m, "integer(42)"), 1)
	assert.Len(t, solveAll(t, m, "var(X)"), 1)
	assert.Len(t, solveAll(t, m, "X = foo, nonvar(X)"), 1)
	assert.Len(t, solveAll(t, m, "is_list([1,2,3])"), 1)
	assert.Len(t, solveAll(t, m, "is_list([1|foo])"), 0)
}

func TestQueryWithBind(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	q := m.QueryString(ctx, "Y is X + 1", WithBind("X", NewInt(10)))
	defer q.Close()
	require.True(t, q.Next(ctx))
	assert.Equal(t, NewInt(11), q.Current().Solution["Y"])
}

func TestQueryOnceReturnsErrFailure(t *testing.T) {
	m := newTestMachine(t)
	_, err := m.QueryOnce(context.Background(), Atom("fail"))
	assert.ErrorIs(t, err, ErrFailure)
}
