package prolog

import "iter"

// detBuiltin adapts a function that either succeeds once (possibly
// extending env) or fails, into the Predicate shape the resolver expects.
// Most ISO built-ins are deterministic in this sense; the handful that
// aren't (nondeterministic ones like clause/2, atom_concat/3's generate
// mode, sub_atom/5, length/2, between/3, predicate_property/2, phrase/2,3)
// implement Predicate directly so they can yield more than once.
func detBuiltin(f func(m *Machine, args []Term, env *Bindings) (*Bindings, bool)) Predicate {
	return func(m *Machine, args []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
		return func(yield func(*Bindings) bool) {
			env2, ok := f(m, args, env)
			if !ok {
				return
			}
			yield(env2)
		}
	}
}

// registerBuiltins installs every native predicate into m.builtins and
// marks its indicator as a builtin in the database so user clauses can
// never silently shadow it.
func registerBuiltins(m *Machine) {
	add := func(name string, arity int, p Predicate) {
		pi := piString(Atom(name), arity)
		m.builtins[pi] = p
		m.db.registerBuiltin(pi)
	}

	add("true", 0, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, true
	}))
	add("fail", 0, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, false
	}))
	add("false", 0, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return env, false
	}))

	registerUnifyBuiltins(add)
	registerTypeBuiltins(add)
	registerTermBuiltins(add)
	registerArithBuiltins(add)
	registerAtomBuiltins(add)
	registerListBuiltins(add)
	registerAggregateBuiltins(add)
	registerDBBuiltins(add)
	registerDCGBuiltins(add)
	registerIOBuiltins(add)
}

type adder func(name string, arity int, p Predicate)
