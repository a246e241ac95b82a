package prolog

// Answer is one solution to a query.
type Answer struct {
	// Query is the original query text, if the query was built from text
	// (via QueryString); empty for queries built from a Term directly.
	Query string
	// Solution maps each of the goal's named variables to the term it was
	// bound to by this solution.
	Solution Substitution
}

// newAnswer builds an Answer from a solved Bindings, resolving every named
// variable of goal (preferring the parser's varmap when the goal came from
// text, falling back to a structural walk otherwise).
func newAnswer(text string, goal Term, vars map[string]Variable, sol *Bindings) Answer {
	if vars == nil {
		vars = collectNamedVariables(goal)
	}
	solution := make(Substitution, len(vars))
	for name, v := range vars {
		solution[name] = sol.resolve(v)
	}
	return Answer{Query: text, Solution: solution}
}

// collectNamedVariables walks t collecting every distinct named (non "_")
// variable it contains, keyed by display name. Used to report solutions
// for queries built directly as a Term rather than parsed from text, where
// no separate varmap from ReadTerm is available.
func collectNamedVariables(t Term) map[string]Variable {
	out := map[string]Variable{}
	var walk func(Term)
	walk = func(t Term) {
		switch x := t.(type) {
		case Variable:
			if x.Name != "" && x.Name != "_" {
				out[x.Name] = x
			}
		case Compound:
			for _, a := range x.Args {
				walk(a)
			}
		case List:
			for _, e := range x.Elements {
				walk(e)
			}
			if x.Tail != nil {
				walk(x.Tail)
			}
		}
	}
	walk(t)
	return out
}
