package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicatePropertyBuiltinIsBuiltInAndStatic(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "predicate_property(atom_length(_,_), P)")
	require.Len(t, sols, 2)
	assert.Equal(t, Atom("built_in"), sols[0]["P"])
	assert.Equal(t, Atom("static"), sols[1]["P"])
}

func TestPredicatePropertyUndeclaredDefaultsToStatic(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "predicate_property(nonexistent_pred(_), P)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("static"), sols[0]["P"])
}

func TestPredicatePropertyDynamicAfterAssert(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", "likes(alice, pizza)."))
	sols := solveAll(t, m, "assertz(likes(bob, tea))")
	require.Len(t, sols, 1)
	sols = solveAll(t, m, "predicate_property(likes(_,_), P)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("dynamic"), sols[0]["P"])
}

func TestPredicatePropertyDiscontiguous(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		:- discontiguous(thing/1).
		thing(a).
	`))
	sols := solveAll(t, m, "predicate_property(thing(_), discontiguous)")
	assert.Len(t, sols, 1)
}

func TestPredicatePropertyAcceptsIndicatorForm(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", "append3(a,b,c)."))
	sols := solveAll(t, m, "predicate_property(atom_length/2, built_in)")
	assert.Len(t, sols, 1)
	sols = solveAll(t, m, "predicate_property(append3/3, static)")
	assert.Len(t, sols, 1)
}
