package prolog

// registerTypeBuiltins installs the ISO type-checking predicates.
func registerTypeBuiltins(add adder) {
	test := func(name string, f func(Term) bool) {
		add(name, 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
			return env, f(env.Deref(a[0]))
		}))
	}

	test("var", func(t Term) bool { _, ok := t.(Variable); return ok })
	test("nonvar", func(t Term) bool { _, ok := t.(Variable); return !ok })
	test("atom", func(t Term) bool { _, ok := t.(Atom); return ok })
	test("number", func(t Term) bool {
		switch t.(type) {
		case Integer, Float:
			return true
		}
		return false
	})
	test("integer", func(t Term) bool { _, ok := t.(Integer); return ok })
	test("float", func(t Term) bool { _, ok := t.(Float); return ok })
	test("atomic", func(t Term) bool {
		switch t.(type) {
		case Atom, Integer, Float:
			return true
		}
		return false
	})
	test("compound", func(t Term) bool {
		switch x := t.(type) {
		case Compound:
			return true
		case List:
			return len(x.Elements) > 0 || x.Tail != nil
		}
		return false
	})
	test("callable", func(t Term) bool {
		switch t.(type) {
		case Atom, Compound:
			return true
		}
		return false
	})
	add("is_list", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, isProperListStructural(env.resolve(a[0]))
	}))

	add("ground", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, !containsVariable(env.resolve(a[0]))
	}))
}

// isProperListStructural reports whether t (already fully resolved) is []
// or a proper-tailed List.
func isProperListStructural(t Term) bool {
	switch x := t.(type) {
	case Atom:
		return x == atomEmptyList
	case List:
		return x.Tail == nil
	default:
		return false
	}
}
