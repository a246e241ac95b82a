package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDCGTranslationAndPhrase(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		greeting --> [hello], [world].
	`))
	sols := solveAll(t, m, "phrase(greeting, [hello, world])")
	assert.Len(t, sols, 1)

	sols = solveAll(t, m, "phrase(greeting, [hello, there])")
	assert.Len(t, sols, 0)
}

func TestDCGWithNonTerminalBody(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		digit(D) --> [D], { integer(D) }.
		digits([D|Ds]) --> digit(D), digits(Ds).
		digits([]) --> [].
	`))
	sols := solveAll(t, m, "phrase(digits(L), [1,2,3])")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{NewInt(1), NewInt(2), NewInt(3)}}, sols[0]["L"])
}

func TestDCGPushback(t *testing.T) {
	m := newTestMachine(t)
	require.NoError(t, m.ConsultText(context.Background(), "user", `
		greeting, [world] --> [hello].
	`))
	sols := solveAll(t, m, "phrase(greeting, [hello], Rest)")
	require.Len(t, sols, 1)
	assert.Equal(t, List{Elements: []Term{Atom("world")}}, sols[0]["Rest"])
}
