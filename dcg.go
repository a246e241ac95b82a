package prolog

// translateDCG converts a "Head --> Body" grammar rule into an ordinary
// clause threading a pair of difference-list arguments (S0, S) through the
// body, per the standard DCG translation. Grounded on the well-known
// definite-clause-grammar expansion described in spec.md's DCG module;
// performed at consult time rather than lazily at call time so phrase/2,3
// can simply call the expanded predicate. assertz/1 does not translate
// "-->/2" terms.
func translateDCG(head, body Term) (Term, Term) {
	s0 := NewVariable("S0")
	s := NewVariable("S")

	var pushback Term
	h := head
	if c, ok := head.(Compound); ok && c.Functor == "," && len(c.Args) == 2 {
		h = c.Args[0]
		pushback = c.Args[1]
	}

	newHead := extendGoal(h, s0, s)

	if pushback != nil {
		mid := NewVariable("S1")
		newBody := dcgBody(body, s0, mid)
		pb := dcgTerminal(pushback, s, mid)
		return newHead, Compound{Functor: ",", Args: []Term{newBody, pb}}
	}

	newBody := dcgBody(body, s0, s)
	return newHead, newBody
}

// extendGoal appends S0, S to a callable term's argument list.
func extendGoal(g Term, s0, s Term) Term {
	switch x := g.(type) {
	case Atom:
		return Compound{Functor: x, Args: []Term{s0, s}}
	case Compound:
		return Compound{Functor: x.Functor, Args: append(append([]Term{}, x.Args...), s0, s)}
	default:
		return Compound{Functor: "phrase", Args: []Term{g, s0, s}}
	}
}

// dcgBody translates one DCG body term threading S0 (input) to S (output).
func dcgBody(body Term, s0, s Term) Term {
	switch x := body.(type) {
	case Compound:
		switch {
		case x.Functor == "," && len(x.Args) == 2:
			mid := NewVariable("S")
			return Compound{Functor: ",", Args: []Term{
				dcgBody(x.Args[0], s0, mid),
				dcgBody(x.Args[1], mid, s),
			}}
		case x.Functor == ";" && len(x.Args) == 2:
			return Compound{Functor: ";", Args: []Term{
				dcgBody(x.Args[0], s0, s),
				dcgBody(x.Args[1], s0, s),
			}}
		case x.Functor == "->" && len(x.Args) == 2:
			mid := NewVariable("S")
			return Compound{Functor: "->", Args: []Term{
				dcgBody(x.Args[0], s0, mid),
				dcgBody(x.Args[1], mid, s),
			}}
		case x.Functor == "\\+" && len(x.Args) == 1:
			return Compound{Functor: ",", Args: []Term{
				Compound{Functor: "\\+", Args: []Term{dcgBody(x.Args[0], s0, NewVariable("_"))}},
				Compound{Functor: "=", Args: []Term{s0, s}},
			}}
		case x.Functor == "{}" && len(x.Args) == 1:
			return Compound{Functor: ",", Args: []Term{
				x.Args[0],
				Compound{Functor: "=", Args: []Term{s0, s}},
			}}
		case x.Functor == "call":
			return Compound{Functor: "call", Args: append(append([]Term{}, x.Args...), s0, s)}
		}
		return extendGoal(x, s0, s)
	case Atom:
		if x == "!" {
			return Compound{Functor: ",", Args: []Term{
				Atom("!"),
				Compound{Functor: "=", Args: []Term{s0, s}},
			}}
		}
		if x == atomEmptyList {
			return Compound{Functor: "=", Args: []Term{s0, s}}
		}
		return extendGoal(x, s0, s)
	case List:
		return dcgTerminal(x, s0, s)
	case Variable:
		return Compound{Functor: "phrase", Args: []Term{x, s0, s}}
	default:
		return extendGoal(x, s0, s)
	}
}

// dcgTerminal unifies S0 with the terminal list appended onto S:
// S0 = [t1, t2, ... | S].
func dcgTerminal(list Term, s0, s Term) Term {
	l, ok := list.(List)
	if !ok {
		return Compound{Functor: "=", Args: []Term{s0, s}}
	}
	return Compound{Functor: "=", Args: []Term{s0, List{Elements: l.Elements, Tail: s}}}
}
