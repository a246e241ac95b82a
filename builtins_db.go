package prolog

import "iter"

// registerDBBuiltins installs the dynamic-database predicates: assert
// variants, retract/1, retractall/1, abolish/1, clause/2, and
// predicate_property/2. Grounded on spec.md's clause-database module and
// database.go's storage layer.
func registerDBBuiltins(add adder) {
	add("assertz", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return assertBuiltin(m, a[0], env, false)
	}))
	add("assert", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return assertBuiltin(m, a[0], env, false)
	}))
	add("asserta", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return assertBuiltin(m, a[0], env, true)
	}))

	add("retract", 1, detBuiltin(biRetract))
	add("retractall", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		head := env.resolve(a[0])
		pi, ok := indicatorOf(head)
		if !ok {
			throwTerm(typeError("callable", head, errContext("retractall/1")))
		}
		for {
			clauses := m.db.clausesOf(pi)
			idx := -1
			for i, cl := range clauses {
				if _, ok := unify(head, renameTerm(cl.Head), NewBindings(), false); ok {
					idx = i
					break
				}
			}
			if idx < 0 {
				break
			}
			m.db.retractAt(pi, idx)
		}
		m.db.declareDynamic(pi)
		return env, true
	}))

	add("abolish", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		c, ok := env.Deref(a[0]).(Compound)
		if !ok || c.Functor != "/" || len(c.Args) != 2 {
			throwTerm(typeError("predicate_indicator", env.Deref(a[0]), errContext("abolish/1")))
		}
		name, nameOk := c.Args[0].(Atom)
		arity, arityOk := c.Args[1].(Integer)
		if !nameOk || !arityOk {
			throwTerm(typeError("predicate_indicator", c, errContext("abolish/1")))
		}
		m.db.retractAll(piString(name, int(arity.Int64())))
		return env, true
	}))

	add("clause", 2, clausePredicate)
	add("predicate_property", 2, predicatePropertyPredicate)
}

func assertBuiltin(m *Machine, t Term, env *Bindings, front bool) (*Bindings, bool) {
	resolved := env.resolve(t)
	head, body := splitClause(resolved)
	if err := m.checkClauseHead(head); err != nil {
		throwTerm(typeError("callable", head, errContext("assert")))
	}
	pi, _ := indicatorOf(head)
	if m.db.isBuiltin(pi) {
		throwTerm(permissionError("modify", "static_procedure", indicatorTerm(pi), errContext("assert")))
	}
	m.db.assertClause(pi, &clause{Head: renameTerm(head), Body: renameTerm(body)}, front)
	return env, true
}

func biRetract(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	resolved := env.Deref(a[0])
	head, body := splitClause(resolved)
	pi, ok := indicatorOf(head)
	if !ok {
		throwTerm(typeError("callable", head, errContext("retract/1")))
	}
	if m.db.isBuiltin(pi) {
		throwTerm(permissionError("modify", "static_procedure", indicatorTerm(pi), errContext("retract/1")))
	}
	for i, cl := range m.db.clausesOf(pi) {
		renamed := newRenamer()
		rh := renamed.rename(cl.Head)
		rb := renamed.rename(cl.Body)
		env2, ok := unify(head, rh, env, false)
		if !ok {
			continue
		}
		env3, ok := unify(body, rb, env2, false)
		if !ok {
			continue
		}
		m.db.retractAt(pi, i)
		return env3, true
	}
	return env, false
}

// clausePredicate implements clause/2: enumerate every stored clause whose
// head unifies with the query head, yielding its body (true for a fact).
func clausePredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		head := env.Deref(a[0])
		pi, ok := indicatorOf(head)
		if !ok {
			throwTerm(instantiationError(errContext("clause/2")))
		}
		if m.db.isBuiltin(pi) {
			throwTerm(permissionError("access", "private_procedure", indicatorTerm(pi), errContext("clause/2")))
		}
		for _, cl := range m.db.clausesOf(pi) {
			r := newRenamer()
			rh := r.rename(cl.Head)
			rb := r.rename(cl.Body)
			env2, ok := unify(a[0], rh, env, false)
			if !ok {
				continue
			}
			env3, ok := unify(a[1], rb, env2, false)
			if !ok {
				continue
			}
			if !yield(env3) {
				return
			}
		}
	}
}

// predicateIndicator resolves t into a predicate indicator string, accepting
// either a callable term (its own functor/arity, as clause/2 does) or an
// explicit Name/Arity indicator compound, the way abolish/1 does at
// builtins_db.go:45-49.
func predicateIndicator(t Term) (string, bool) {
	if c, ok := t.(Compound); ok && c.Functor == "/" && len(c.Args) == 2 {
		name, nameOk := c.Args[0].(Atom)
		arity, arityOk := c.Args[1].(Integer)
		if nameOk && arityOk {
			return piString(name, int(arity.Int64())), true
		}
	}
	return indicatorOf(t)
}

// predicatePropertyPredicate implements predicate_property/2 over the
// ISO-named property set {built_in, static, dynamic, multifile,
// discontiguous}: a predicate is static unless it is dynamic (asserted,
// cleared by retractall/1 or abolish/1, or declared dynamic/1), and built-ins are reported as both
// built_in and static since neither assert/1 nor retract/1 may modify them.
// A predicate indicator naming no stored predicate at all still enumerates
// static once, matching how undeclared predicates behave until something is
// asserted into them.
func predicatePropertyPredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		head := env.Deref(a[0])
		pi, ok := predicateIndicator(head)
		if !ok {
			throwTerm(instantiationError(errContext("predicate_property/2")))
		}

		e, found := m.db.lookup(pi)
		var props []Term
		switch {
		case found && e.builtin:
			props = append(props, Atom("built_in"), Atom("static"))
		case found && e.dynamic:
			props = append(props, Atom("dynamic"))
		default:
			props = append(props, Atom("static"))
		}
		if found && e.multifile {
			props = append(props, Atom("multifile"))
		}
		if found && e.discontiguous {
			props = append(props, Atom("discontiguous"))
		}

		for _, p := range props {
			if env2, ok := unify(a[1], p, env, false); ok {
				if !yield(env2) {
					return
				}
			}
		}
	}
}
