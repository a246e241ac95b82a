package prolog

import "iter"

// registerDCGBuiltins installs phrase/2 and phrase/3, which run a DCG body
// against a list (and, for phrase/3, an explicit remainder) by applying the
// same body translation consult uses for "-->/2" rules, then solving the result.
func registerDCGBuiltins(add adder) {
	add("phrase", 2, phrasePredicate(true))
	add("phrase", 3, phrasePredicate(false))
}

func phrasePredicate(withEmptyRest bool) Predicate {
	return func(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
		return func(yield func(*Bindings) bool) {
			rule := env.Deref(a[0])
			list := a[1]
			var rest Term = atomEmptyList
			if !withEmptyRest {
				rest = a[2]
			}
			if _, isVar := rule.(Variable); isVar {
				throwTerm(instantiationError(errContext("phrase")))
			}
			goal := dcgBody(rule, list, rest)
			for s := range solveGoal(m, goal, env, depth+1, newCutBarrier()) {
				if !yield(s) {
					return
				}
			}
		}
	}
}
