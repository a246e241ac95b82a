package prolog

import "sync"

// opType is an operator's fixity/associativity class, as written in op/3
// declarations (xfx, xfy, yfx, fy, fx, xf, yf).
type opType string

const (
	opXFX opType = "xfx"
	opXFY opType = "xfy"
	opYFX opType = "yfx"
	opFY  opType = "fy"
	opFX  opType = "fx"
	opXF  opType = "xf"
	opYF  opType = "yf"
)

func (t opType) isPrefix() bool  { return t == opFY || t == opFX }
func (t opType) isInfix() bool   { return t == opXFX || t == opXFY || t == opYFX }
func (t opType) isPostfix() bool { return t == opXF || t == opYF }

// opDef is a single operator definition: its priority (1..1200, lower binds
// tighter... higher priority binds looser) and fixity class.
type opDef struct {
	priority int
	kind     opType
}

// operatorTable holds the mutable, consult-time operator set used by the
// reader. Prefix, infix, and postfix operators are tracked independently
// since an atom (e.g. "-") can be both prefix and infix at once. Grounded on
// the operator-precedence table design in cbarrick-ripl's parser, adapted
// from a single Go map to three concurrency-safe maps so op/3 directives can
// mutate it mid-consult without disturbing an in-flight parse of an earlier
// clause.
type operatorTable struct {
	mu      sync.RWMutex
	prefix  map[Atom]opDef
	infix   map[Atom]opDef
	postfix map[Atom]opDef
}

func newOperatorTable() *operatorTable {
	t := &operatorTable{
		prefix:  make(map[Atom]opDef),
		infix:   make(map[Atom]opDef),
		postfix: make(map[Atom]opDef),
	}
	t.loadDefaults()
	return t
}

func (t *operatorTable) loadDefaults() {
	defs := []struct {
		priority int
		kind     opType
		names    []string
	}{
		{1200, opXFX, []string{":-", "-->"}},
		{1200, opFX, []string{":-", "?-"}},
		{1100, opXFY, []string{";", "|"}},
		{1105, opXFY, []string{"|"}},
		{1050, opXFY, []string{"->", "*->"}},
		{1000, opXFY, []string{","}},
		{990, opXFY, []string{":="}},
		{900, opFY, []string{"\\+"}},
		{700, opXFX, []string{
			"=", "\\=", "==", "\\==", "@<", "@>", "@=<", "@>=",
			"is", "=..", "=:=", "=\\=", "<", ">", "=<", ">=",
			"as", ">:<", ":<",
		}},
		{600, opXFY, []string{":"}},
		{500, opYFX, []string{"+", "-", "/\\", "\\/", "xor"}},
		{500, opFX, []string{"?"}},
		{400, opYFX, []string{"*", "/", "//", "rem", "mod", "div", "<<", ">>"}},
		{200, opXFX, []string{"**"}},
		{200, opXFY, []string{"^"}},
		{200, opFY, []string{"-", "+", "\\"}},
		{100, opYFX, []string{"."}},
		{1, opFX, []string{"$"}},
	}
	for _, d := range defs {
		for _, n := range d.names {
			t.define(d.priority, d.kind, Atom(n))
		}
	}
}

// define installs or removes (priority 0) an operator definition.
func (t *operatorTable) define(priority int, kind opType, name Atom) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var bucket map[Atom]opDef
	switch {
	case kind.isPrefix():
		bucket = t.prefix
	case kind.isInfix():
		bucket = t.infix
	case kind.isPostfix():
		bucket = t.postfix
	default:
		return
	}
	if priority == 0 {
		delete(bucket, name)
		return
	}
	bucket[name] = opDef{priority: priority, kind: kind}
}

func (t *operatorTable) lookupPrefix(name Atom) (opDef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.prefix[name]
	return d, ok
}

func (t *operatorTable) lookupInfix(name Atom) (opDef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.infix[name]
	return d, ok
}

func (t *operatorTable) lookupPostfix(name Atom) (opDef, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.postfix[name]
	return d, ok
}

// isOperator reports whether name is defined in any fixity class.
func (t *operatorTable) isOperator(name Atom) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, p := t.prefix[name]
	_, i := t.infix[name]
	_, po := t.postfix[name]
	return p || i || po
}

// clone returns an independent copy, used by Machine.Clone.
func (t *operatorTable) clone() *operatorTable {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := &operatorTable{
		prefix:  make(map[Atom]opDef, len(t.prefix)),
		infix:   make(map[Atom]opDef, len(t.infix)),
		postfix: make(map[Atom]opDef, len(t.postfix)),
	}
	for k, v := range t.prefix {
		c.prefix[k] = v
	}
	for k, v := range t.infix {
		c.infix[k] = v
	}
	for k, v := range t.postfix {
		c.postfix[k] = v
	}
	return c
}
