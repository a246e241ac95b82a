package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyAtoms(t *testing.T) {
	env, ok := unify(Atom("foo"), Atom("foo"), NewBindings(), false)
	require.True(t, ok)
	_, ok = unify(Atom("foo"), Atom("bar"), env, false)
	assert.False(t, ok)
}

func TestUnifyVariableBinding(t *testing.T) {
	x := NewVariable("X")
	env, ok := unify(x, Atom("foo"), NewBindings(), false)
	require.True(t, ok)
	assert.Equal(t, Atom("foo"), env.Deref(x))
}

func TestUnifySharedVariable(t *testing.T) {
	x := NewVariable("X")
	env, ok := unify(x, Compound{Functor: "f", Args: []Term{NewInt(1)}}, NewBindings(), false)
	require.True(t, ok)
	env, ok = unify(x, Compound{Functor: "f", Args: []Term{NewInt(1)}}, env, false)
	assert.True(t, ok)
	_, ok = unify(x, Compound{Functor: "f", Args: []Term{NewInt(2)}}, env, false)
	assert.False(t, ok)
}

func TestUnifyOccursCheck(t *testing.T) {
	x := NewVariable("X")
	_, ok := unify(x, Compound{Functor: "f", Args: []Term{x}}, NewBindings(), true)
	assert.False(t, ok, "occurs-check should reject a cyclic binding")

	// without occurs-check the same binding succeeds (creating a cyclic term)
	_, ok = unify(x, Compound{Functor: "f", Args: []Term{x}}, NewBindings(), false)
	assert.True(t, ok)
}

func TestUnifyLists(t *testing.T) {
	l1 := List{Elements: []Term{NewInt(1), NewInt(2)}}
	l2 := List{Elements: []Term{NewInt(1), NewInt(2)}}
	_, ok := unify(l1, l2, NewBindings(), false)
	assert.True(t, ok)

	l3 := List{Elements: []Term{NewInt(1), NewInt(3)}}
	_, ok = unify(l1, l3, NewBindings(), false)
	assert.False(t, ok)
}

func TestUnifyListOpenTail(t *testing.T) {
	tail := NewVariable("T")
	open := List{Elements: []Term{NewInt(1)}, Tail: tail}
	closed := List{Elements: []Term{NewInt(1), NewInt(2), NewInt(3)}}
	env, ok := unify(open, closed, NewBindings(), false)
	require.True(t, ok)
	assert.Equal(t, List{Elements: []Term{NewInt(2), NewInt(3)}}, env.resolve(tail))
}

func TestUnifyEmptyList(t *testing.T) {
	_, ok := unify(atomEmptyList, List{}, NewBindings(), false)
	assert.True(t, ok)
	_, ok = unify(List{}, atomEmptyList, NewBindings(), false)
	assert.True(t, ok)
}

func TestStandardOrderAcrossTypes(t *testing.T) {
	env := NewBindings()
	assert.Equal(t, -1, standardOrder(Float(1), NewInt(1), env))
	assert.Equal(t, -1, standardOrder(NewInt(1), Atom("a"), env))
	assert.Equal(t, -1, standardOrder(Atom("a"), Atom("b"), env))
	assert.Equal(t, 0, standardOrder(NewInt(5), NewInt(5), env))
}

func TestStandardOrderCompoundByArityThenName(t *testing.T) {
	env := NewBindings()
	small := Compound{Functor: "z", Args: []Term{NewInt(1)}}
	big := Compound{Functor: "a", Args: []Term{NewInt(1), NewInt(2)}}
	assert.Equal(t, -1, standardOrder(small, big, env), "fewer args sorts first regardless of name")

	a := Compound{Functor: "a", Args: []Term{NewInt(1)}}
	b := Compound{Functor: "b", Args: []Term{NewInt(1)}}
	assert.Equal(t, -1, standardOrder(a, b, env))
}
