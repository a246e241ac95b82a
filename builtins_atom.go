package prolog

import (
	"iter"
	"strings"
)

// registerAtomBuiltins installs atom/number text-conversion predicates.
// Grounded on spec.md's atom/number conversion catalog; atom_concat/3
// (enumerating every split when its third argument is bound and the first
// two are not) and sub_atom/5 are the nondeterministic members, so they are
// registered as full Predicates rather than via detBuiltin.
func registerAtomBuiltins(add adder) {
	add("atom_length", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		s := textOf(env.Deref(a[0]), "atom_length/2")
		return unify(a[1], NewInt(int64(len([]rune(s)))), env, false)
	}))

	add("char_code", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		c := env.Deref(a[0])
		if at, ok := c.(Atom); ok {
			r := []rune(string(at))
			if len(r) != 1 {
				throwTerm(typeError("character", at, errContext("char_code/2")))
			}
			return unify(a[1], NewInt(int64(r[0])), env, false)
		}
		code := env.Deref(a[1])
		i, ok := code.(Integer)
		if !ok {
			throwTerm(instantiationError(errContext("char_code/2")))
		}
		return unify(a[0], Atom(string(rune(i.Int64()))), env, false)
	}))

	add("upcase_atom", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		s := textOf(env.Deref(a[0]), "upcase_atom/2")
		return unify(a[1], Atom(strings.ToUpper(s)), env, false)
	}))
	add("downcase_atom", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		s := textOf(env.Deref(a[0]), "downcase_atom/2")
		return unify(a[1], Atom(strings.ToLower(s)), env, false)
	}))

	add("atom_codes", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return textCodesConvert(a, env, "atom_codes/2", func(s string) Term { return Atom(s) })
	}))
	add("atom_chars", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return textCharsConvert(a, env, "atom_chars/2", func(s string) Term { return Atom(s) })
	}))

	add("char_type", 2, detBuiltin(biCharType))

	add("number_codes", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return numberTextConvert(a, env, "number_codes/2", codesOf, textOfCodes)
	}))
	add("number_chars", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return numberTextConvert(a, env, "number_chars/2", charsOf, textOfChars)
	}))

	add("atom_number", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		at := env.Deref(a[0])
		if atom, ok := at.(Atom); ok {
			n, err := ParseTerm(string(atom))
			if err != nil {
				return env, false
			}
			switch n.(type) {
			case Integer, Float:
				return unify(a[1], n, env, false)
			}
			return env, false
		}
		num := env.Deref(a[1])
		return unify(a[0], Atom(writeTermPlain(num)), env, false)
	}))

	add("term_to_atom", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		t := env.Deref(a[0])
		if _, isVar := t.(Variable); !isVar {
			return unify(a[1], Atom(writeTermPlain(env.resolve(t))), env, false)
		}
		at, ok := env.Deref(a[1]).(Atom)
		if !ok {
			throwTerm(instantiationError(errContext("term_to_atom/2")))
		}
		parsed, err := ParseTerm(string(at))
		if err != nil {
			throwTerm(syntaxError(err.Error(), errContext("term_to_atom/2")))
		}
		return unify(a[0], parsed, env, false)
	}))

	add("split_string", 4, detBuiltin(biSplitString))
	add("string_concat", 3, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		x := textOf(env.Deref(a[0]), "string_concat/3")
		y := textOf(env.Deref(a[1]), "string_concat/3")
		return unify(a[2], Atom(x+y), env, false)
	}))
	add("string_to_atom", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		s := env.Deref(a[0])
		if _, isVar := s.(Variable); !isVar {
			return unify(a[1], Atom(textOf(s, "string_to_atom/2")), env, false)
		}
		return unify(a[0], Atom(textOf(env.Deref(a[1]), "string_to_atom/2")), env, false)
	}))
	add("string_chars", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return textCharsConvert(a, env, "string_chars/2", func(s string) Term { return Atom(s) })
	}))
	add("string_codes", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return textCodesConvert(a, env, "string_codes/2", func(s string) Term { return Atom(s) })
	}))
	add("string_length", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		s := textOf(env.Deref(a[0]), "string_length/2")
		return unify(a[1], NewInt(int64(len([]rune(s)))), env, false)
	}))
	add("number_string", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return numberTextConvert([]Term{a[1], a[0]}, env, "number_string/2", codesOf, textOfCodes)
	}))

	add("sub_atom", 5, subAtomPredicate)

	add("atom_concat", 3, atomConcatPredicate)
}

// textOf renders an atomic term as plain text, raising type_error for
// anything else (including unbound variables, as instantiation_error).
func textOf(t Term, pi string) string {
	switch x := t.(type) {
	case Atom:
		return string(x)
	case Integer:
		return x.String()
	case Float:
		return x.String()
	case Variable:
		throwTerm(instantiationError(errContext(pi)))
	}
	throwTerm(typeError("atomic", t, errContext(pi)))
	return ""
}

func textOfCodes(l Term) (string, bool) {
	list, ok := l.(List)
	if !ok {
		if a, isAtom := l.(Atom); isAtom && a == atomEmptyList {
			return "", true
		}
		return "", false
	}
	if list.Tail != nil {
		return "", false
	}
	var sb strings.Builder
	for _, e := range list.Elements {
		i, ok := e.(Integer)
		if !ok {
			return "", false
		}
		sb.WriteRune(rune(i.Int64()))
	}
	return sb.String(), true
}

func textOfChars(l Term) (string, bool) {
	list, ok := l.(List)
	if !ok {
		if a, isAtom := l.(Atom); isAtom && a == atomEmptyList {
			return "", true
		}
		return "", false
	}
	if list.Tail != nil {
		return "", false
	}
	var sb strings.Builder
	for _, e := range list.Elements {
		a, ok := e.(Atom)
		if !ok {
			return "", false
		}
		sb.WriteString(string(a))
	}
	return sb.String(), true
}

func charsOf(s string) Term {
	runes := []rune(s)
	if len(runes) == 0 {
		return atomEmptyList
	}
	elems := make([]Term, len(runes))
	for i, r := range runes {
		elems[i] = Atom(string(r))
	}
	return List{Elements: elems}
}

func textCodesConvert(a []Term, env *Bindings, pi string, build func(string) Term) (*Bindings, bool) {
	t := env.Deref(a[0])
	if _, isVar := t.(Variable); !isVar {
		s := textOf(t, pi)
		return unify(a[1], codesOf(s), env, false)
	}
	s, ok := textOfCodes(env.resolve(a[1]))
	if !ok {
		throwTerm(instantiationError(errContext(pi)))
	}
	return unify(a[0], build(s), env, false)
}

func textCharsConvert(a []Term, env *Bindings, pi string, build func(string) Term) (*Bindings, bool) {
	t := env.Deref(a[0])
	if _, isVar := t.(Variable); !isVar {
		s := textOf(t, pi)
		return unify(a[1], charsOf(s), env, false)
	}
	s, ok := textOfChars(env.resolve(a[1]))
	if !ok {
		throwTerm(instantiationError(errContext(pi)))
	}
	return unify(a[0], build(s), env, false)
}

func numberTextConvert(a []Term, env *Bindings, pi string, build func(string) Term, extract func(Term) (string, bool)) (*Bindings, bool) {
	t := env.Deref(a[0])
	switch t.(type) {
	case Integer, Float:
		return unify(a[1], build(writeTermPlain(t)), env, false)
	}
	s, ok := extract(env.resolve(a[1]))
	if !ok {
		throwTerm(instantiationError(errContext(pi)))
	}
	n, err := ParseTerm(s)
	if err != nil {
		throwTerm(syntaxError("illegal_number", errContext(pi)))
	}
	switch n.(type) {
	case Integer, Float:
		return unify(a[0], n, env, false)
	}
	throwTerm(syntaxError("illegal_number", errContext(pi)))
	return env, false
}

// atomConcatPredicate implements atom_concat/3 in all three ISO modes:
// (+,+,-) deterministic concatenation; (-,-,+) nondeterministic splitting
// of a bound third argument into every prefix/suffix pair.
func atomConcatPredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		x := env.Deref(a[0])
		y := env.Deref(a[1])
		_, xVar := x.(Variable)
		_, yVar := y.(Variable)
		if !xVar && !yVar {
			s := textOf(x, "atom_concat/3") + textOf(y, "atom_concat/3")
			if env2, ok := unify(a[2], Atom(s), env, false); ok {
				yield(env2)
			}
			return
		}
		whole := env.Deref(a[2])
		s := textOf(whole, "atom_concat/3")
		runes := []rune(s)
		for i := 0; i <= len(runes); i++ {
			env2, ok := unify(a[0], Atom(string(runes[:i])), env, false)
			if !ok {
				continue
			}
			env3, ok := unify(a[1], Atom(string(runes[i:])), env2, false)
			if !ok {
				continue
			}
			if !yield(env3) {
				return
			}
		}
	}
}

// subAtomPredicate implements sub_atom/5 by enumerating every (Before,
// Length, After) split of Atom consistent with any already-bound arguments.
func subAtomPredicate(m *Machine, a []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		atomTerm := env.Deref(a[0])
		s := textOf(atomTerm, "sub_atom/5")
		runes := []rune(s)
		n := len(runes)

		for before := 0; before <= n; before++ {
			for length := 0; before+length <= n; length++ {
				after := n - before - length
				sub := string(runes[before : before+length])
				env2, ok := unify(a[1], NewInt(int64(before)), env, false)
				if !ok {
					continue
				}
				env3, ok := unify(a[2], NewInt(int64(length)), env2, false)
				if !ok {
					continue
				}
				env4, ok := unify(a[3], NewInt(int64(after)), env3, false)
				if !ok {
					continue
				}
				env5, ok := unify(a[4], Atom(sub), env4, false)
				if !ok {
					continue
				}
				if !yield(env5) {
					return
				}
			}
		}
	}
}

func biSplitString(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	s := textOf(env.Deref(a[0]), "split_string/4")
	sepChars := textOf(env.Deref(a[1]), "split_string/4")
	padChars := textOf(env.Deref(a[2]), "split_string/4")

	var parts []string
	if sepChars == "" {
		parts = []string{s}
	} else {
		parts = strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(sepChars, r) })
		if len(parts) == 0 {
			parts = []string{""}
		}
	}
	elems := make([]Term, len(parts))
	for i, p := range parts {
		elems[i] = Atom(strings.Trim(p, padChars))
	}
	return unify(a[3], listTerm(elems...), env, false)
}

func biCharType(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
	c, ok := env.Deref(a[0]).(Atom)
	if !ok || len([]rune(string(c))) != 1 {
		throwTerm(typeError("character", env.Deref(a[0]), errContext("char_type/2")))
	}
	r := []rune(string(c))[0]
	kind := env.Deref(a[1])
	name, _, _ := nameArity(kind)
	var result bool
	switch name {
	case "alpha":
		result = (r == '_') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
	case "alnum":
		result = (r == '_') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
	case "digit":
		if kc, isCompound := kind.(Compound); isCompound && len(kc.Args) == 1 {
			if '0' <= r && r <= '9' {
				env2, ok := unify(kc.Args[0], NewInt(int64(r-'0')), env, false)
				return env2, ok
			}
			return env, false
		}
		result = '0' <= r && r <= '9'
	case "space", "white":
		result = r == ' ' || r == '\t' || r == '\n' || r == '\r'
	case "upper":
		result = 'A' <= r && r <= 'Z'
	case "lower":
		result = 'a' <= r && r <= 'z'
	case "punct":
		result = strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
	default:
		result = false
	}
	return env, result
}
