package prolog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithDivisionByZeroThrows(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	q := m.QueryString(ctx, "X is 1 // 0")
	defer q.Close()
	assert.False(t, q.Next(ctx))
	var errThrow ErrThrow
	require.ErrorAs(t, q.Err(), &errThrow)
	c, ok := errThrow.Ball.(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("error"), c.Functor)
	inner, ok := c.Args[0].(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("evaluation_error"), inner.Functor)
	assert.Equal(t, Atom("zero_divisor"), inner.Args[0])
}

func TestArithFloatDivisionByZeroThrows(t *testing.T) {
	m := newTestMachine(t)
	ctx := context.Background()
	q := m.QueryString(ctx, "X is 1.0 / 0")
	defer q.Close()
	assert.False(t, q.Next(ctx))
	require.Error(t, q.Err())
}

func TestArithBignumMultiplication(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "X is 99999999999999999999 * 2")
	require.Len(t, sols, 1)
	assert.Equal(t, "199999999999999999998", sols[0]["X"].(Integer).String())
}

func TestArithComparisonOperators(t *testing.T) {
	m := newTestMachine(t)
	assert.Len(t, solveAll(t, m, "1 < 2"), 1)
	assert.Len(t, solveAll(t, m, "2 < 1"), 0)
	assert.Len(t, solveAll(t, m, "2 =< 2"), 1)
	assert.Len(t, solveAll(t, m, "3 =\\= 3"), 0)
	assert.Len(t, solveAll(t, m, "3 =:= 3.0"), 1)
}

func TestArithFloatIntegerConversions(t *testing.T) {
	m := newTestMachine(t)
	sols := solveAll(t, m, "X is float(3)")
	require.Len(t, sols, 1)
	assert.Equal(t, Float(3.0), sols[0]["X"])

	sols = solveAll(t, m, "X is truncate(3.9)")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(3), sols[0]["X"])

	sols = solveAll(t, m, "X is ceiling(3.1)")
	require.Len(t, sols, 1)
	assert.Equal(t, NewInt(4), sols[0]["X"])
}
