package prolog

// registerUnifyBuiltins installs the structural unification and standard-
// order-of-terms comparison predicates. Grounded on spec.md's built-in
// catalog §16 and the unification/ordering primitives defined in unify.go.
func registerUnifyBuiltins(add adder) {
	add("=", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return unify(a[0], a[1], env, m.occursCheck)
	}))

	add("\\=", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		_, ok := unify(a[0], a[1], env, m.occursCheck)
		return env, !ok
	}))

	add("unify_with_occurs_check", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return unify(a[0], a[1], env, true)
	}))

	add("==", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) == 0
	}))
	add("\\==", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) != 0
	}))
	add("@<", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) < 0
	}))
	add("@>", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) > 0
	}))
	add("@=<", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) <= 0
	}))
	add("@>=", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, standardOrder(a[0], a[1], env) >= 0
	}))

	add("compare", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		c := standardOrder(a[1], a[2], env)
		var sym Atom
		switch {
		case c < 0:
			sym = "<"
		case c > 0:
			sym = ">"
		default:
			sym = "="
		}
		return unify(a[0], sym, env, false)
	}))
}
