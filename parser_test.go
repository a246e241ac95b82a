package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseOne(t *testing.T, src string) Term {
	t.Helper()
	term, err := ParseTerm(src)
	require.NoError(t, err)
	return term
}

func TestParsePrimaryTerms(t *testing.T) {
	assert.Equal(t, NewInt(42), parseOne(t, "42"))
	assert.Equal(t, NewInt(-7), parseOne(t, "-7"))
	assert.Equal(t, Float(3.5), parseOne(t, "3.5"))
	assert.Equal(t, Atom("foo"), parseOne(t, "foo"))
	assert.Equal(t, atomEmptyList, parseOne(t, "[]"))
}

func TestParseCompound(t *testing.T) {
	got := parseOne(t, "foo(bar, 1, X)")
	c, ok := got.(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("foo"), c.Functor)
	assert.Len(t, c.Args, 3)
	assert.Equal(t, Atom("bar"), c.Args[0])
	assert.Equal(t, NewInt(1), c.Args[1])
	_, isVar := c.Args[2].(Variable)
	assert.True(t, isVar)
}

func TestParseList(t *testing.T) {
	got := parseOne(t, "[1,2,3]")
	l, ok := got.(List)
	require.True(t, ok)
	assert.Equal(t, []Term{NewInt(1), NewInt(2), NewInt(3)}, l.Elements)
	assert.Nil(t, l.Tail)

	got = parseOne(t, "[H|T]")
	l, ok = got.(List)
	require.True(t, ok)
	assert.Len(t, l.Elements, 1)
	assert.NotNil(t, l.Tail)
}

func TestParseOperatorPrecedence(t *testing.T) {
	// "1 + 2 * 3" should parse as "+(1, *(2, 3))" since * binds tighter.
	got := parseOne(t, "1 + 2 * 3")
	c, ok := got.(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("+"), c.Functor)
	rhs, ok := c.Args[1].(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("*"), rhs.Functor)
}

func TestParseRightAssociativeComma(t *testing.T) {
	// "a, b, c" should parse as ",(a, ,(b, c))" since ',' is xfy.
	got := parseOne(t, "a, b, c")
	c, ok := got.(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom(","), c.Functor)
	assert.Equal(t, Atom("a"), c.Args[0])
	rhs, ok := c.Args[1].(Compound)
	require.True(t, ok)
	assert.Equal(t, Atom("b"), rhs.Args[0])
	assert.Equal(t, Atom("c"), rhs.Args[1])
}

func TestParsePrefixMinusBindsAsNegativeNumber(t *testing.T) {
	got := parseOne(t, "X is -3")
	c, ok := got.(Compound)
	require.True(t, ok)
	assert.Equal(t, NewInt(-3), c.Args[1])
}

func TestParseQuotedAtomAndEscapes(t *testing.T) {
	assert.Equal(t, Atom("hello world"), parseOne(t, "'hello world'"))
	assert.Equal(t, Atom("a\nb"), parseOne(t, `'a\nb'`))
}

func TestParseDoubleQuotedStringIsCodeList(t *testing.T) {
	got := parseOne(t, `"ab"`)
	l, ok := got.(List)
	require.True(t, ok)
	assert.Equal(t, []Term{NewInt('a'), NewInt('b')}, l.Elements)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := ParseTerm("foo(")
	assert.Error(t, err)
}

func TestParseSameVariableNameSharesBinding(t *testing.T) {
	p := newParser("foo(X, X) .", newOperatorTable())
	term, _, err := p.ReadTerm()
	require.NoError(t, err)
	c := term.(Compound)
	v1 := c.Args[0].(Variable)
	v2 := c.Args[1].(Variable)
	assert.Equal(t, v1, v2)
}
