package prolog

// registerTermBuiltins installs functor/3, arg/3, =../2, and copy_term/2.
func registerTermBuiltins(add adder) {
	add("functor", 3, detBuiltin(biFunctor))
	add("arg", 3, detBuiltin(biArg))
	add("=..", 2, detBuiltin(biUniv))
	add("copy_term", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		copy := renameTerm(env.resolve(a[0]))
		return unify(a[1], copy, env, false)
	}))
}

func biFunctor(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	t := env.Deref(a[0])
	if _, isVar := t.(Variable); !isVar {
		name, arity, ok := nameArity(t)
		if !ok {
			switch t.(type) {
			case Integer, Float:
				env2, ok := unify(a[1], t, env, false)
				if !ok {
					return env, false
				}
				return unify(a[2], NewInt(0), env2, false)
			}
			throwTerm(typeError("callable", t, errContext("functor/3")))
		}
		env2, ok := unify(a[1], Atom(name), env, false)
		if !ok {
			return env, false
		}
		return unify(a[2], NewInt(int64(arity)), env2, false)
	}

	nameT := env.Deref(a[1])
	arityT := env.Deref(a[2])
	arityI, ok := arityT.(Integer)
	if !ok {
		if _, isVar := arityT.(Variable); isVar {
			throwTerm(instantiationError(errContext("functor/3")))
		}
		throwTerm(typeError("integer", arityT, errContext("functor/3")))
	}
	arity := int(arityI.Int64())
	if arity == 0 {
		return unify(a[0], nameT, env, false)
	}
	name, ok := nameT.(Atom)
	if !ok {
		if _, isVar := nameT.(Variable); isVar {
			throwTerm(instantiationError(errContext("functor/3")))
		}
		throwTerm(typeError("atom", nameT, errContext("functor/3")))
	}
	args := make([]Term, arity)
	for i := range args {
		args[i] = NewVariable("_")
	}
	return unify(a[0], Compound{Functor: name, Args: args}, env, false)
}

func biArg(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	nT := env.Deref(a[0])
	n, ok := nT.(Integer)
	if !ok {
		if _, isVar := nT.(Variable); isVar {
			throwTerm(instantiationError(errContext("arg/3")))
		}
		throwTerm(typeError("integer", nT, errContext("arg/3")))
	}
	c, ok := env.Deref(a[1]).(Compound)
	if !ok {
		throwTerm(typeError("compound", env.Deref(a[1]), errContext("arg/3")))
	}
	i := int(n.Int64())
	if i < 1 || i > len(c.Args) {
		return env, false
	}
	return unify(a[2], c.Args[i-1], env, false)
}

func biUniv(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	t := env.Deref(a[0])
	if _, isVar := t.(Variable); !isVar {
		var list Term
		switch x := t.(type) {
		case Compound:
			list = listTerm(append([]Term{Atom(x.Functor)}, x.Args...)...)
		case List:
			if len(x.Elements) == 0 && x.Tail == nil {
				list = listTerm(Atom(atomEmptyList))
			} else {
				list = listTerm(Atom("."), x.Elements[0], sliceTail(x))
			}
		default:
			list = listTerm(t)
		}
		return unify(a[1], list, env, false)
	}

	l, ok := env.resolve(a[1]).(List)
	if !ok {
		if atomL, isAtom := env.Deref(a[1]).(Atom); isAtom && atomL == atomEmptyList {
			throwTerm(domainError("non_empty_list", atomL, errContext("=../2")))
		}
		throwTerm(instantiationError(errContext("=../2")))
	}
	if l.Tail != nil || len(l.Elements) == 0 {
		throwTerm(domainError("non_empty_list", l, errContext("=../2")))
	}
	if len(l.Elements) == 1 {
		return unify(a[0], l.Elements[0], env, false)
	}
	name, ok := l.Elements[0].(Atom)
	if !ok {
		throwTerm(typeError("atom", l.Elements[0], errContext("=../2")))
	}
	return unify(a[0], Compound{Functor: name, Args: l.Elements[1:]}, env, false)
}

// sliceTail returns the term for l's elements after the first, preserving its tail.
func sliceTail(l List) Term {
	return tailOf(l, 1)
}
