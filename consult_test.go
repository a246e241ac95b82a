package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsultConditionalCompilationTakesIfBranch(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		:- if(true).
		season(summer).
		:- else.
		season(winter).
		:- endif.
	`))
	sols := solveAll(t, m, "season(X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("summer"), sols[0]["X"])
}

func TestConsultConditionalCompilationTakesElseBranch(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		:- if(fail).
		season(summer).
		:- else.
		season(winter).
		:- endif.
	`))
	sols := solveAll(t, m, "season(X)")
	require.Len(t, sols, 1)
	assert.Equal(t, Atom("winter"), sols[0]["X"])
}

func TestConsultOpDirectiveDefinesNewOperator(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		:- op(700, xfx, likes).
		likes(alice, bob).
	`))
	p := newParser("alice likes X .", m.ops)
	got, _, err := p.ReadTerm()
	require.NoError(t, err)
	c, ok := got.(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("likes"), c.Functor)
	assert.Equal(t, Atom("alice"), c.Args[0])
}

func TestConsultDynamicDeclarationAllowsQueryOfUnknownPredicate(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", ":- dynamic(counter/1)."))
	sols := solveAll(t, m, "counter(X)")
	assert.Len(t, sols, 0)
}
