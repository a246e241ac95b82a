package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Hello struct {
	Functor `prolog:"hello/2"`
	Planet  Atom
	Count   Integer
}

func TestEncodeCompoundStruct(t *testing.T) {
	h := Hello{Planet: Atom("world"), Count: NewInt(3)}
	text, err := Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, "hello(world,3)", text)
}

func TestScanIntoStruct(t *testing.T) {
	sub := Substitution{
		"Name": Atom("alice"),
		"Age":  NewInt(30),
	}
	var out struct {
		Name Atom
		Age  Integer
	}
	require.NoError(t, sub.Scan(&out))
	assert.Equal(t, Atom("alice"), out.Name)
	assert.Equal(t, NewInt(30), out.Age)
}

func TestScanIntoMap(t *testing.T) {
	sub := Substitution{"X": NewInt(1), "Y": NewInt(2)}
	out := map[string]Term{}
	require.NoError(t, sub.Scan(&out))
	assert.Equal(t, NewInt(1), out["X"])
	assert.Equal(t, NewInt(2), out["Y"])
}

func TestScanDecodesNestedCompoundIntoStruct(t *testing.T) {
	sub := Substitution{
		"H": Compound{Functor: "hello", Args: []Term{Atom("world"), NewInt(3)}},
	}
	var out struct {
		H Hello
	}
	require.NoError(t, sub.Scan(&out))
	assert.Equal(t, Atom("world"), out.H.Planet)
	assert.Equal(t, NewInt(3), out.H.Count)
}
