package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAtomString(t *testing.T) {
	tests := []struct {
		atom Atom
		want string
	}{
		{"foo", "foo"},
		{"Foo", "'Foo'"},
		{"", "''"},
		{"[]", "[]"},
		{"!", "!"},
		{";", ";"},
		{"foo bar", "'foo bar'"},
		{"+", "+"},
		{"-->", "-->"},
		{"foo's", `'foo\'s'`},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.atom.String(), "atom %q", string(tc.atom))
	}
}

func TestIntegerString(t *testing.T) {
	assert.Equal(t, "42", NewInt(42).String())
	assert.Equal(t, "-7", NewInt(-7).String())
}

func TestFloatString(t *testing.T) {
	assert.Equal(t, "1.0", Float(1).String())
	assert.Equal(t, "3.14", Float(3.14).String())
	assert.Contains(t, Float(1e20).String(), ".")
}

func TestCompoundIndicatorAndString(t *testing.T) {
	c := Compound{Functor: "foo", Args: []Term{Atom("bar"), NewInt(2)}}
	assert.Equal(t, "foo/2", c.Indicator())
	assert.Equal(t, "foo(bar,2)", c.String())
}

func TestListString(t *testing.T) {
	l := List{Elements: []Term{NewInt(1), NewInt(2)}}
	assert.Equal(t, "[1,2]", l.String())
	assert.True(t, l.IsProper())

	open := List{Elements: []Term{NewInt(1)}, Tail: NewVariable("T")}
	assert.False(t, open.IsProper())
	assert.Equal(t, "[1|T]", open.String())
}

func TestIndicatorOf(t *testing.T) {
	pi, ok := indicatorOf(Atom("foo"))
	assert.True(t, ok)
	assert.Equal(t, "foo/0", pi)

	pi, ok = indicatorOf(Compound{Functor: "bar", Args: []Term{NewInt(1), NewInt(2)}})
	assert.True(t, ok)
	assert.Equal(t, "bar/2", pi)

	_, ok = indicatorOf(NewInt(1))
	assert.False(t, ok)
}
