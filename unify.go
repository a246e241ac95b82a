package prolog

// unify attempts to unify s and t under env, returning the extended
// substitution on success. occursCheck selects whether binding a variable
// to a term containing that variable is rejected (failure) rather than
// allowed to create a cyclic binding. Per spec.md §4.1, occurs-check is off
// by default; unify_with_occurs_check/2 calls this with occursCheck=true
// regardless of any engine-wide setting.
func unify(s, t Term, env *Bindings, occursCheck bool) (*Bindings, bool) {
	s = env.Deref(s)
	t = env.Deref(t)

	if sv, ok := s.(Variable); ok {
		if tv, ok := t.(Variable); ok && sv.id == tv.id {
			return env, true
		}
		if occursCheck && occurs(sv, t, env) {
			return env, false
		}
		return env.Bind(sv, t), true
	}
	if tv, ok := t.(Variable); ok {
		if occursCheck && occurs(tv, s, env) {
			return env, false
		}
		return env.Bind(tv, s), true
	}

	switch x := s.(type) {
	case Atom:
		if l, isList := t.(List); isList {
			return env, x == atomEmptyList && len(l.Elements) == 0 && l.Tail == nil
		}
		y, ok := t.(Atom)
		return env, ok && x == y
	case Integer:
		y, ok := t.(Integer)
		return env, ok && x.Cmp(y.Int) == 0
	case Float:
		y, ok := t.(Float)
		return env, ok && x == y
	case Compound:
		return unifyCompoundLike(x.Functor, x.Args, t, env, occursCheck)
	case List:
		return unifyList(x, t, env, occursCheck)
	default:
		return env, false
	}
}

// unifyCompoundLike unifies a compound against t, treating a proper,
// non-empty list on the right as the degenerate compound './2' chain would
// require only when explicitly asked; ordinary compound/compound unification
// requires matching functor and arity.
func unifyCompoundLike(functor Atom, args []Term, t Term, env *Bindings, occursCheck bool) (*Bindings, bool) {
	switch y := t.(type) {
	case Compound:
		if functor != y.Functor || len(args) != len(y.Args) {
			return env, false
		}
		ok := true
		for i := range args {
			env, ok = unify(args[i], y.Args[i], env, occursCheck)
			if !ok {
				return env, false
			}
		}
		return env, true
	default:
		return env, false
	}
}

// unifyList unifies a list term against t. [] unifies with the empty list
// (an empty-element, nil-tail List, or the atom [] on the other side).
func unifyList(l List, t Term, env *Bindings, occursCheck bool) (*Bindings, bool) {
	if len(l.Elements) == 0 && l.Tail == nil {
		switch y := t.(type) {
		case Atom:
			return env, y == atomEmptyList
		case List:
			return env, len(y.Elements) == 0 && y.Tail == nil
		default:
			return env, false
		}
	}

	switch y := t.(type) {
	case Atom:
		return env, false
	case List:
		ok := true
		n := len(l.Elements)
		if len(y.Elements) < n {
			n = len(y.Elements)
		}
		for i := 0; i < n; i++ {
			env, ok = unify(l.Elements[i], y.Elements[i], env, occursCheck)
			if !ok {
				return env, false
			}
		}
		lRest := tailOf(l, n)
		rRest := tailOf(y, n)
		return unify(lRest, rRest, env, occursCheck)
	default:
		return env, false
	}
}

// tailOf returns the term representing l's elements from index n onward
// plus its tail, used to unify lists of unequal known-prefix length.
func tailOf(l List, n int) Term {
	if n >= len(l.Elements) {
		if l.Tail != nil {
			return l.Tail
		}
		return atomEmptyList
	}
	return List{Elements: l.Elements[n:], Tail: l.Tail}
}

// occurs reports whether v occurs anywhere within t (after dereferencing).
func occurs(v Variable, t Term, env *Bindings) bool {
	t = env.Deref(t)
	switch x := t.(type) {
	case Variable:
		return x.id == v.id
	case Compound:
		for _, a := range x.Args {
			if occurs(v, a, env) {
				return true
			}
		}
		return false
	case List:
		for _, e := range x.Elements {
			if occurs(v, e, env) {
				return true
			}
		}
		if x.Tail != nil {
			return occurs(v, x.Tail, env)
		}
		return false
	default:
		return false
	}
}

// standardOrder implements the ISO "standard order of terms":
// Variable < Float < Integer < Atom < Compound (by arity, then name, then args).
// It returns -1, 0, or 1.
func standardOrder(s, t Term, env *Bindings) int {
	s = env.resolve(s)
	t = env.resolve(t)

	rank := func(x Term) int {
		switch x.(type) {
		case Variable:
			return 0
		case Float:
			return 1
		case Integer:
			return 2
		case Atom:
			return 3
		case List:
			return 4
		case Compound:
			return 5
		default:
			return 6
		}
	}

	rs, rt := rank(s), rank(t)
	if rs != rt {
		return cmpInt(rs, rt)
	}

	switch x := s.(type) {
	case Variable:
		y := t.(Variable)
		return cmpUint(x.id, y.id)
	case Float:
		y := t.(Float)
		return cmpFloat(float64(x), float64(y))
	case Integer:
		y := t.(Integer)
		return x.Cmp(y.Int)
	case Atom:
		y := t.(Atom)
		return cmpString(string(x), string(y))
	case List:
		y := t.(List)
		xc := listAsCompound(x)
		yc := listAsCompound(y)
		return standardOrder(xc, yc, env)
	case Compound:
		y := t.(Compound)
		if len(x.Args) != len(y.Args) {
			return cmpInt(len(x.Args), len(y.Args))
		}
		if c := cmpString(string(x.Functor), string(y.Functor)); c != 0 {
			return c
		}
		for i := range x.Args {
			if c := standardOrder(x.Args[i], y.Args[i], env); c != 0 {
				return c
			}
		}
		return 0
	default:
		return 0
	}
}

// listAsCompound views a resolved list as nested './2' compounds terminated
// by [] (or its open tail), purely to reuse Compound ordering logic.
func listAsCompound(l List) Term {
	tail := l.Tail
	if tail == nil {
		tail = atomEmptyList
	}
	result := tail
	for i := len(l.Elements) - 1; i >= 0; i-- {
		result = Compound{Functor: ".", Args: []Term{l.Elements[i], result}}
	}
	return result
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
