package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindallYieldsEmptyListOnNoSolutions(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "findall(X, member(X, []), L)")
	require.Len(t, sols, 1)
	assert.Equal(t, atomEmptyList, sols[0]["L"])
}

func TestFindall4AppendsToGivenTail(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "findall(X, member(X, [1,2]), L, [3,4])")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(1), NewInt(2), NewInt(3), NewInt(4)}}, sols[0]["L"])
}

func TestSetofFailsOnNoSolutions(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "setof(X, member(X, []), L)")
	assert.Len(t, sols, 0)
}

func TestSetofDedupsAndSorts(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "setof(X, member(X, [b,a,c,a,b]), L)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{Atom("a"), Atom("b"), Atom("c")}}, sols[0]["L"])
}

func TestBagofPreservesDuplicatesUnsorted(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "bagof(X, member(X, [3,1,3]), L)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(3), NewInt(1), NewInt(3)}}, sols[0]["L"])
}

func TestAggregateAllSum(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	require.NoError(t, m.ConsultText(ctx, "user", "score(10). score(20). score(30)."))
	sols := solveAll(t, m, "aggregate_all(sum(X), score(X), Total)")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(60), sols[0]["Total"])
}

func TestAggregateAllCount(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	require.NoError(t, m.ConsultText(ctx, "user", "score(10). score(20). score(30)."))
	sols := solveAll(t, m, "aggregate_all(count, score(_), N)")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(3), sols[0]["N"])
}
