package prolog

import (
	"iter"
	"math/big"
	"sort"
)

// registerListBuiltins installs length/2, the sort family, and between/3.
// Grounded on spec.md's list-predicate catalog; nondeterministic members
// (length/2 in generate mode, between/3) are registered as full Predicates.
func registerListBuiltins(add adder) {
	add("length", 2, lengthPredicate)
	add("between", 3, betweenPredicate)

	add("sort", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		elems, err := listElements(env.resolve(a[0]))
		if err != nil {
			throwTerm(err)
		}
		sorted := append([]Term{}, elems...)
		sort.SliceStable(sorted, func(i, j int) bool { return standardOrder(sorted[i], sorted[j], env) < 0 })
		sorted = dedupSorted(sorted, env)
		return unify(a[1], listTerm(sorted...), env, false)
	}))

	add("msort", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		elems, err := listElements(env.resolve(a[0]))
		if err != nil {
			throwTerm(err)
		}
		sorted := append([]Term{}, elems...)
		sort.SliceStable(sorted, func(i, j int) bool { return standardOrder(sorted[i], sorted[j], env) < 0 })
		return unify(a[1], listTerm(sorted...), env, false)
	}))

	add("predsort", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		elems, err := listElements(env.resolve(a[1]))
		if err != nil {
			throwTerm(err)
		}
		sorted := append([]Term{}, elems...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return predsortCompare(m, a[0], sorted[i], sorted[j], env) < 0
		})
		sorted = predsortDedup(m, a[0], sorted, env)
		return unify(a[2], listTerm(sorted...), env, false)
	}))

	add("keysort", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		elems, err := listElements(env.resolve(a[0]))
		if err != nil {
			throwTerm(err)
		}
		sorted := append([]Term{}, elems...)
		sort.SliceStable(sorted, func(i, j int) bool {
			ci, _ := sorted[i].(Compound)
			cj, _ := sorted[j].(Compound)
			return standardOrder(ci.Args[0], cj.Args[0], env) < 0
		})
		return unify(a[1], listTerm(sorted...), env, false)
	}))

	add("sort", 4, detBuiltin(biSort4))
}

func listElements(t Term) ([]Term, Term) {
	l, ok := t.(List)
	if !ok {
		if a, isAtom := t.(Atom); isAtom && a == atomEmptyList {
			return nil, nil
		}
		if _, isVar := t.(Variable); isVar {
			return nil, instantiationError(errContext(""))
		}
		return nil, typeError("list", t, errContext(""))
	}
	if l.Tail != nil {
		return nil, typeError("list", t, errContext(""))
	}
	return l.Elements, nil
}

func dedupSorted(sorted []Term, env *Bindings) []Term {
	out := sorted[:0:0]
	for i, t := range sorted {
		if i == 0 || standardOrder(sorted[i-1], t, env) != 0 {
			out = append(out, t)
		}
	}
	return out
}

func predsortCompare(m *Machine, pred Term, x, y Term, env *Bindings) int {
	ord := NewVariable("Order")
	goal := callWithArgs(pred, ord, x, y)
	for sol := range Solve(m, goal, env) {
		if a, ok := sol.Deref(ord).(Atom); ok {
			switch a {
			case "<":
				return -1
			case ">":
				return 1
			default:
				return 0
			}
		}
	}
	return 0
}

func predsortDedup(m *Machine, pred Term, sorted []Term, env *Bindings) []Term {
	out := sorted[:0:0]
	for i, t := range sorted {
		if i == 0 || predsortCompare(m, pred, sorted[i-1], t, env) != 0 {
			out = append(out, t)
		}
	}
	return out
}

// callWithArgs builds the term for calling pred with extra appended to its
// existing argument list (or, for a bare atom, exactly the extra args).
func callWithArgs(pred Term, extra ...Term) Term {
	switch x := pred.(type) {
	case Atom:
		return Compound{Functor: x, Args: extra}
	case Compound:
		return Compound{Functor: x.Functor, Args: append(append([]Term{}, x.Args...), extra...)}
	default:
		return Compound{Functor: "call", Args: append([]Term{pred}, extra...)}
	}
}

func biSort4(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	keyT, ok := env.Deref(a[0]).(Integer)
	if !ok {
		throwTerm(typeError("integer", env.Deref(a[0]), errContext("sort/4")))
	}
	key := int(keyT.Int64())
	order, ok := env.Deref(a[1]).(Atom)
	if !ok {
		throwTerm(typeError("atom", env.Deref(a[1]), errContext("sort/4")))
	}
	elems, err := listElements(env.resolve(a[2]))
	if err != nil {
		throwTerm(err)
	}
	sorted := append([]Term{}, elems...)
	keyOf := func(t Term) Term {
		if key == 0 {
			return t
		}
		if c, ok := t.(Compound); ok && key <= len(c.Args) {
			return c.Args[key-1]
		}
		return t
	}
	less := func(i, j int) bool {
		c := standardOrder(keyOf(sorted[i]), keyOf(sorted[j]), env)
		switch order {
		case "@<", "@=<":
			return c < 0
		default:
			return c > 0
		}
	}
	sort.SliceStable(sorted, less)
	if order == "@<" || order == "@>" {
		out := sorted[:0:0]
		for i, t := range sorted {
			if i == 0 || standardOrder(keyOf(sorted[i-1]), keyOf(t), env) != 0 {
				out = append(out, t)
			}
		}
		sorted = out
	}
	return unify(a[3], listTerm(sorted...), env, false)
}

// lengthPredicate implements length/2 in both modes: List bound computes N
// (type_error if improper with a non-variable tail); N bound (or both
// unbound, enumerating N = 0, 1, 2, ...) builds/extends a fresh-variable
// list of that length.
func lengthPredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		l := env.resolve(a[0])
		if list, ok := l.(List); ok && list.Tail == nil {
			if env2, ok := unify(a[1], NewInt(int64(len(list.Elements))), env, false); ok {
				yield(env2)
			}
			return
		}
		if a0, ok := l.(Atom); ok && a0 == atomEmptyList {
			if env2, ok := unify(a[1], NewInt(0), env, false); ok {
				yield(env2)
			}
			return
		}
		if list, ok := l.(List); ok {
			if _, isVar := list.Tail.(Variable); !isVar {
				throwTerm(typeError("list", list, errContext("length/2")))
			}
		}

		nT := env.Deref(a[1])
		if n, ok := nT.(Integer); ok {
			if n.Sign() < 0 {
				return
			}
			elems := make([]Term, n.Int64())
			for i := range elems {
				elems[i] = NewVariable("_")
			}
			if env2, ok := unify(a[0], listTerm(elems...), env, false); ok {
				yield(env2)
			}
			return
		}

		for n := int64(0); ; n++ {
			elems := make([]Term, n)
			for i := range elems {
				elems[i] = NewVariable("_")
			}
			env1, ok := unify(a[0], listTerm(elems...), env, false)
			if ok {
				env2, ok := unify(a[1], NewInt(n), env1, false)
				if ok && !yield(env2) {
					return
				}
			}
			if n > 1_000_000 {
				throwTerm(resourceError("length_generation", errContext("length/2")))
			}
		}
	}
}

func betweenPredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		lo, ok := env.Deref(a[0]).(Integer)
		if !ok {
			throwTerm(typeError("integer", env.Deref(a[0]), errContext("between/3")))
		}
		hiTerm := env.Deref(a[1])
		var hi *big.Int
		if hiAtom, ok := hiTerm.(Atom); ok && (hiAtom == "inf" || hiAtom == "infinite") {
			hi = nil
		} else if hiI, ok := hiTerm.(Integer); ok {
			hi = hiI.Int
		} else {
			throwTerm(typeError("integer", hiTerm, errContext("between/3")))
		}

		if x, ok := env.Deref(a[2]).(Integer); ok {
			if x.Cmp(lo.Int) >= 0 && (hi == nil || x.Cmp(hi) <= 0) {
				yield(env)
			}
			return
		}

		i := new(big.Int).Set(lo.Int)
		for hi == nil || i.Cmp(hi) <= 0 {
			env2, ok := unify(a[2], Integer{new(big.Int).Set(i)}, env, false)
			if ok && !yield(env2) {
				return
			}
			i.Add(i, big.NewInt(1))
		}
	}
}
