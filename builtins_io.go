package prolog

import (
	"fmt"
	"os"
	"strings"
)

// registerIOBuiltins installs the minimal write/format family needed to
// observe program behavior: write/1, writeln/1, print/1, nl/0, tab/1, and a
// small format/2 supporting the common ~w ~a ~d ~q ~n ~p directives. These
// write straight to os.Stdout, matching the teacher's own treatment of
// query output as a captured text stream rather than a buffered in-memory
// value.
func registerIOBuiltins(add adder) {
	add("nl", 0, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		fmt.Fprintln(os.Stdout)
		return env, true
	}))
	add("write", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		fmt.Fprint(os.Stdout, writeTermPlain(env.resolve(a[0])))
		return env, true
	}))
	add("print", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		fmt.Fprint(os.Stdout, writeTermPlain(env.resolve(a[0])))
		return env, true
	}))
	add("writeln", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		fmt.Fprintln(os.Stdout, writeTermPlain(env.resolve(a[0])))
		return env, true
	}))
	add("writeq", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		fmt.Fprint(os.Stdout, writeQuoted(env.resolve(a[0])))
		return env, true
	}))
	add("tab", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		n, ok := env.Deref(a[0]).(Integer)
		if !ok {
			throwTerm(typeError("integer", env.Deref(a[0]), errContext("tab/1")))
		}
		fmt.Fprint(os.Stdout, strings.Repeat(" ", int(n.Int64())))
		return env, true
	}))
	add("halt", 0, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		m.closed = true
		os.Exit(0)
		return env, true
	}))
	add("halt", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		n, _ := env.Deref(a[0]).(Integer)
		m.closed = true
		code := 0
		if n.Int != nil {
			code = int(n.Int64())
		}
		os.Exit(code)
		return env, true
	}))
	add("format", 1, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return formatBuiltin(a[0], atomEmptyList, env)
	}))
	add("format", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		return formatBuiltin(a[0], a[1], env)
	}))
}

// writeQuoted renders t the way writeq/1 does: atoms needing quotes get
// single-quoted.
func writeQuoted(t Term) string {
	switch x := t.(type) {
	case Atom:
		return x.String()
	case Compound:
		var sb strings.Builder
		sb.WriteString(Atom(x.Functor).String())
		sb.WriteByte('(')
		for i, arg := range x.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(writeQuoted(arg))
		}
		sb.WriteByte(')')
		return sb.String()
	case List:
		var sb strings.Builder
		sb.WriteByte('[')
		for i, e := range x.Elements {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(writeQuoted(e))
		}
		if x.Tail != nil {
			sb.WriteByte('|')
			sb.WriteString(writeQuoted(x.Tail))
		}
		sb.WriteByte(']')
		return sb.String()
	default:
		return writeTermPlain(t)
	}
}

// formatTextOf renders a format/2 format string, accepting a plain atom, a
// code list, or a char list (the three shapes double_quotes/1 can produce
// and that ISO/SWI format/2 both accept), unlike textOf's stricter
// atomic-only rule used elsewhere.
func formatTextOf(t Term) string {
	if s, ok := textOfCodes(t); ok {
		return s
	}
	if s, ok := textOfChars(t); ok {
		return s
	}
	return textOf(t, "format/2")
}

// formatBuiltin implements a practical subset of format/2: ~w (write),
// ~q (writeq), ~a (atom), ~d (integer), ~p (print, same as ~w here), ~n
// (newline), ~~ (literal tilde). Grounded on the widely-used SWI/ISO
// format/2 directive set; unsupported directives are left verbatim.
func formatBuiltin(fstr, argsTerm Term, env *Bindings) (*Bindings, bool) {
	format := formatTextOf(env.resolve(fstr))
	var args []Term
	switch x := env.resolve(argsTerm).(type) {
	case List:
		args = x.Elements
	case Atom:
		if x != atomEmptyList {
			args = []Term{x}
		}
	default:
		args = []Term{x}
	}

	var sb strings.Builder
	ai := 0
	next := func() Term {
		if ai < len(args) {
			t := args[ai]
			ai++
			return t
		}
		return Atom("")
	}

	runes := []rune(format)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '~' {
			sb.WriteRune(r)
			continue
		}
		i++
		if i >= len(runes) {
			break
		}
		switch runes[i] {
		case 'w', 'p':
			sb.WriteString(writeTermPlain(next()))
		case 'q':
			sb.WriteString(writeQuoted(next()))
		case 'a':
			sb.WriteString(textOf(next(), "format/2"))
		case 'd':
			sb.WriteString(writeTermPlain(next()))
		case 'n':
			sb.WriteByte('\n')
		case '~':
			sb.WriteByte('~')
		default:
			sb.WriteRune('~')
			sb.WriteRune(runes[i])
		}
	}
	fmt.Fprint(os.Stdout, sb.String())
	return env, true
}
