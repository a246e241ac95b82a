package prolog

import "sort"

// registerAggregateBuiltins installs findall/3, findall/4, bagof/3, and
// setof/3. Grounded on spec.md's aggregation module: findall collects every
// Template instance across all solutions of Goal (never failing, yielding
// [] on zero solutions); bagof/setof strip any "Var^Goal" quantifiers and
// collect every solution into a single bag, failing when there are no
// solutions, and setof additionally sorts/dedups that bag. Solutions are
// not grouped by the free variables of Goal.
func registerAggregateBuiltins(add adder) {
	add("findall", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		results := collectAll(m, a[0], a[1], env)
		return unify(a[2], listTerm(results...), env, false)
	}))

	add("findall", 4, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		results := collectAll(m, a[0], a[1], env)
		tail := a[3]
		return unify(a[2], List{Elements: results, Tail: tail}, env, false)
	}))

	add("bagof", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return bagofSetof(m, a, env, false)
	}))
	add("setof", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return bagofSetof(m, a, env, true)
	}))
}

func collectAll(m *Machine, template, goal Term, env *Bindings) []Term {
	var results []Term
	for sol := range Solve(m, goal, env) {
		results = append(results, sol.resolve(template))
	}
	return results
}

// stripExistential peels off "Var^Goal" existential quantifiers, returning
// the innermost goal; the quantified variables are discarded.
func stripExistential(goal Term) Term {
	for {
		c, ok := goal.(Compound)
		if !ok || c.Functor != "^" || len(c.Args) != 2 {
			return goal
		}
		goal = c.Args[1]
	}
}

// bagofSetof implements the shared structure of bagof/3 and setof/3: it
// collects the Template instance of every solution of Goal into one bag,
// fails if there are none, and (for setof, dedupe=true) sorts the bag in
// standard order and removes duplicates. It is deterministic (registered
// via detBuiltin) and does not group solutions by the free variables of
// Goal, so it yields at most one Bag.
func bagofSetof(m *Machine, a []Term, env *Bindings, dedupe bool) (*Bindings, bool) {
	template := a[0]
	goal := stripExistential(a[1])

	results := collectAll(m, template, goal, env)
	if len(results) == 0 {
		return env, false
	}
	if dedupe {
		sort.SliceStable(results, func(i, j int) bool { return standardOrder(results[i], results[j], env) < 0 })
		results = dedupSorted(results, env)
	}
	return unify(a[2], listTerm(results...), env, false)
}
