package prolog

import (
	"encoding/binary"
	"sync/atomic"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

// varCounter is the engine-wide source of fresh variable ids. It is a
// package-level atomic counter (rather than per-Machine state) so that
// Variables created before a Machine exists (e.g. while building a query
// term by hand) still get globally unique ids, matching spec.md's
// invariant that "every variable id is unique within the engine's lifetime."
var varCounter uint64

// NewVariable returns a fresh, unbound Variable with the given display name.
func NewVariable(name string) Variable {
	id := atomic.AddUint64(&varCounter, 1)
	return Variable{id: id, Name: name}
}

// Bindings is a persistent (immutable) substitution: a mapping from
// variable id to the term it is bound to. Binding a variable returns a new
// *Bindings that shares structure with the receiver, so backtracking is
// just discarding the newer value and keeping the older one -- no trail or
// undo bookkeeping is needed. This is substitution strategy (a) from
// spec.md's design notes, backed by a persistent radix tree rather than a
// hand-rolled persistent map.
type Bindings struct {
	tree *iradix.Tree[Term]
}

// NewBindings returns an empty substitution.
func NewBindings() *Bindings {
	return &Bindings{tree: iradix.New[Term]()}
}

func varKey(id uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return buf[:]
}

// Bind returns a new Bindings with v bound to t, leaving the receiver untouched.
func (b *Bindings) Bind(v Variable, t Term) *Bindings {
	tree, _, _ := b.tree.Insert(varKey(v.id), t)
	return &Bindings{tree: tree}
}

// lookup returns the term directly bound to v, if any.
func (b *Bindings) lookup(v Variable) (Term, bool) {
	if b == nil {
		return nil, false
	}
	return b.tree.Get(varKey(v.id))
}

// Deref follows variable bindings transitively until it reaches a
// non-variable term or an unbound variable. Idempotent: Deref(Deref(t)) ==
// Deref(t).
func (b *Bindings) Deref(t Term) Term {
	for {
		v, ok := t.(Variable)
		if !ok {
			return t
		}
		next, bound := b.lookup(v)
		if !bound {
			return v
		}
		t = next
	}
}

// resolve fully instantiates t, replacing every bound variable (recursively,
// into compounds and lists) with its bound value. Unbound variables are left
// as-is.
func (b *Bindings) resolve(t Term) Term {
	t = b.Deref(t)
	switch x := t.(type) {
	case Compound:
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = b.resolve(a)
		}
		return Compound{Functor: x.Functor, Args: args}
	case List:
		elems := make([]Term, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = b.resolve(e)
		}
		var tail Term
		if x.Tail != nil {
			tail = b.resolve(x.Tail)
		}
		return flattenList(elems, tail)
	default:
		return t
	}
}

// flattenList normalizes a List{Elements, Tail} whose Tail itself resolved
// to a List, splicing it into one list with a single (possibly nil) tail. A
// tail that resolved to the atom [] becomes nil, so the result is a proper list.
func flattenList(elems []Term, tail Term) Term {
	for {
		tl, ok := tail.(List)
		if !ok {
			break
		}
		elems = append(elems, tl.Elements...)
		tail = tl.Tail
	}
	if a, ok := tail.(Atom); ok && a == atomEmptyList {
		tail = nil
	}
	if len(elems) == 0 && tail == nil {
		return atomEmptyList
	}
	return List{Elements: elems, Tail: tail}
}

// renamer produces fresh-id copies of variables encountered during clause
// instantiation, consistently mapping repeat occurrences of the same
// variable to the same fresh variable.
type renamer struct {
	seen map[uint64]Variable
}

func newRenamer() *renamer {
	return &renamer{seen: make(map[uint64]Variable)}
}

// rename returns a copy of t with all variables replaced by fresh ones.
// Structural sub-terms containing no variables are returned unchanged
// (shared with the original), matching spec.md's sharing invariant.
func (r *renamer) rename(t Term) Term {
	switch x := t.(type) {
	case Variable:
		if fresh, ok := r.seen[x.id]; ok {
			return fresh
		}
		fresh := NewVariable(x.Name)
		r.seen[x.id] = fresh
		return fresh
	case Compound:
		if !containsVariable(x) {
			return x
		}
		args := make([]Term, len(x.Args))
		for i, a := range x.Args {
			args[i] = r.rename(a)
		}
		return Compound{Functor: x.Functor, Args: args}
	case List:
		if !containsVariable(x) {
			return x
		}
		elems := make([]Term, len(x.Elements))
		for i, e := range x.Elements {
			elems[i] = r.rename(e)
		}
		var tail Term
		if x.Tail != nil {
			tail = r.rename(x.Tail)
		}
		return List{Elements: elems, Tail: tail}
	default:
		return t
	}
}

func containsVariable(t Term) bool {
	switch x := t.(type) {
	case Variable:
		return true
	case Compound:
		for _, a := range x.Args {
			if containsVariable(a) {
				return true
			}
		}
		return false
	case List:
		for _, e := range x.Elements {
			if containsVariable(e) {
				return true
			}
		}
		if x.Tail != nil {
			return containsVariable(x.Tail)
		}
		return false
	default:
		return false
	}
}

// renameTerm returns a fresh-variable copy of t, suitable for instantiating
// a stored clause or copy_term/2.
func renameTerm(t Term) Term {
	return newRenamer().rename(t)
}
