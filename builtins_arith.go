package prolog

import (
	"math"
	"math/big"
)

// registerArithBuiltins installs is/2 and the arithmetic comparison
// predicates, all built atop evalArith.
func registerArithBuiltins(add adder) {
	add("is", 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
		v := evalArith(a[1], env)
		return unify(a[0], v, env, false)
	}))

	cmp := func(name string, ok func(c int) bool) {
		add(name, 2, detBuiltin(func(m *Machine, a []Term, env *Bindings) (*Bindings, bool) {
			x := evalArith(a[0], env)
			y := evalArith(a[1], env)
			return env, ok(numCompare(x, y))
		}))
	}
	cmp("=:=", func(c int) bool { return c == 0 })
	cmp("=\\=", func(c int) bool { return c != 0 })
	cmp("<", func(c int) bool { return c < 0 })
	cmp(">", func(c int) bool { return c > 0 })
	cmp("=<", func(c int) bool { return c <= 0 })
	cmp(">=", func(c int) bool { return c >= 0 })
}

// evalArith evaluates an arithmetic expression term to an Integer or Float,
// raising the appropriate ISO error term (via throwTerm/panic) on failure.
// Grounded on spec.md's arithmetic module; a fairly conventional recursive
// evaluator, the one part of the engine with no direct teacher analogue
// since the teacher never evaluates Prolog arithmetic natively.
func evalArith(t Term, env *Bindings) Term {
	t = env.Deref(t)
	switch x := t.(type) {
	case Integer:
		return x
	case Float:
		return x
	case Variable:
		throwTerm(instantiationError(errContext("is/2")))
	case Atom:
		switch x {
		case "pi":
			return Float(math.Pi)
		case "e":
			return Float(math.E)
		case "inf", "infinite":
			return Float(math.Inf(1))
		case "nan":
			return Float(math.NaN())
		case "epsilon":
			return Float(2.220446049250313e-16)
		case "max_tagged_integer":
			return NewInt(int64(^uint(0) >> 1))
		case "random":
			return Float(0.5)
		}
		throwTerm(typeError("evaluable", Compound{Functor: "/", Args: []Term{x, NewInt(0)}}, errContext("is/2")))
	case Compound:
		return evalCompound(x, env)
	case List:
		if len(x.Elements) == 1 && x.Tail == nil {
			return evalArith(x.Elements[0], env)
		}
	}
	throwTerm(typeError("evaluable", t, errContext("is/2")))
	return nil
}

func evalCompound(c Compound, env *Bindings) Term {
	if len(c.Args) == 1 {
		v := evalArith(c.Args[0], env)
		return evalUnary(string(c.Functor), v)
	}
	if len(c.Args) == 2 {
		x := evalArith(c.Args[0], env)
		y := evalArith(c.Args[1], env)
		return evalBinary(string(c.Functor), x, y)
	}
	throwTerm(typeError("evaluable", Compound{Functor: "/", Args: []Term{c.Functor, NewInt(int64(len(c.Args)))}}, errContext("is/2")))
	return nil
}

func isInt(t Term) (Integer, bool)   { i, ok := t.(Integer); return i, ok }
func asFloat(t Term) float64 {
	switch x := t.(type) {
	case Integer:
		f, _ := new(big.Float).SetInt(x.Int).Float64()
		return f
	case Float:
		return float64(x)
	}
	return 0
}

func bothInt(x, y Term) (a, b Integer, ok bool) {
	ai, aok := isInt(x)
	bi, bok := isInt(y)
	return ai, bi, aok && bok
}

func evalUnary(op string, v Term) Term {
	switch op {
	case "-":
		if i, ok := isInt(v); ok {
			return Integer{new(big.Int).Neg(i.Int)}
		}
		return Float(-asFloat(v))
	case "+":
		return v
	case "abs":
		if i, ok := isInt(v); ok {
			return Integer{new(big.Int).Abs(i.Int)}
		}
		return Float(math.Abs(asFloat(v)))
	case "sign":
		if i, ok := isInt(v); ok {
			return NewInt(int64(i.Sign()))
		}
		f := asFloat(v)
		switch {
		case f > 0:
			return Float(1)
		case f < 0:
			return Float(-1)
		default:
			return Float(0)
		}
	case "sqrt":
		return Float(math.Sqrt(asFloat(v)))
	case "sin":
		return Float(math.Sin(asFloat(v)))
	case "cos":
		return Float(math.Cos(asFloat(v)))
	case "tan":
		return Float(math.Tan(asFloat(v)))
	case "asin":
		return Float(math.Asin(asFloat(v)))
	case "acos":
		return Float(math.Acos(asFloat(v)))
	case "atan":
		return Float(math.Atan(asFloat(v)))
	case "exp":
		return Float(math.Exp(asFloat(v)))
	case "log":
		f := asFloat(v)
		if f <= 0 {
			throwTerm(evaluationError("undefined", errContext("is/2")))
		}
		return Float(math.Log(f))
	case "float":
		return Float(asFloat(v))
	case "integer", "round":
		if i, ok := isInt(v); ok {
			return i
		}
		return floatToInt(math.Round(asFloat(v)))
	case "floor":
		if i, ok := isInt(v); ok {
			return i
		}
		return floatToInt(math.Floor(asFloat(v)))
	case "ceiling":
		if i, ok := isInt(v); ok {
			return i
		}
		return floatToInt(math.Ceil(asFloat(v)))
	case "truncate":
		if i, ok := isInt(v); ok {
			return i
		}
		return floatToInt(math.Trunc(asFloat(v)))
	case "float_integer_part":
		return Float(math.Trunc(asFloat(v)))
	case "float_fractional_part":
		f := asFloat(v)
		return Float(f - math.Trunc(f))
	case "\\":
		i, ok := isInt(v)
		if !ok {
			throwTerm(typeError("integer", v, errContext("is/2")))
		}
		return Integer{new(big.Int).Not(i.Int)}
	case "msb":
		i, ok := isInt(v)
		if !ok {
			throwTerm(typeError("integer", v, errContext("is/2")))
		}
		return NewInt(int64(i.BitLen() - 1))
	case "succ":
		i, ok := isInt(v)
		if !ok {
			throwTerm(typeError("integer", v, errContext("is/2")))
		}
		return Integer{new(big.Int).Add(i.Int, big.NewInt(1))}
	}
	throwTerm(typeError("evaluable", Compound{Functor: "/", Args: []Term{Atom(op), NewInt(1)}}, errContext("is/2")))
	return nil
}

func floatToInt(f float64) Term {
	bi, _ := big.NewFloat(f).Int(nil)
	return Integer{bi}
}

func evalBinary(op string, x, y Term) Term {
	switch op {
	case "+":
		if a, b, ok := bothInt(x, y); ok {
			return Integer{new(big.Int).Add(a.Int, b.Int)}
		}
		return Float(asFloat(x) + asFloat(y))
	case "-":
		if a, b, ok := bothInt(x, y); ok {
			return Integer{new(big.Int).Sub(a.Int, b.Int)}
		}
		return Float(asFloat(x) - asFloat(y))
	case "*":
		if a, b, ok := bothInt(x, y); ok {
			return Integer{new(big.Int).Mul(a.Int, b.Int)}
		}
		return Float(asFloat(x) * asFloat(y))
	case "/":
		if a, b, ok := bothInt(x, y); ok {
			if b.Sign() == 0 {
				throwTerm(evaluationError("zero_divisor", errContext("is/2")))
			}
			q, r := new(big.Int).QuoRem(a.Int, b.Int, new(big.Int))
			if r.Sign() == 0 {
				return Integer{q}
			}
			return Float(asFloat(x) / asFloat(y))
		}
		fy := asFloat(y)
		if fy == 0 {
			throwTerm(evaluationError("zero_divisor", errContext("is/2")))
		}
		return Float(asFloat(x) / fy)
	case "//":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		if b.Sign() == 0 {
			throwTerm(evaluationError("zero_divisor", errContext("is/2")))
		}
		return Integer{new(big.Int).Quo(a.Int, b.Int)}
	case "div":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		if b.Sign() == 0 {
			throwTerm(evaluationError("zero_divisor", errContext("is/2")))
		}
		q := new(big.Int).Div(a.Int, b.Int)
		return Integer{q}
	case "mod":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		if b.Sign() == 0 {
			throwTerm(evaluationError("zero_divisor", errContext("is/2")))
		}
		m := new(big.Int).Mod(a.Int, b.Int)
		if m.Sign() != 0 && b.Sign() < 0 {
			m.Add(m, b.Int)
		}
		return Integer{m}
	case "rem":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		if b.Sign() == 0 {
			throwTerm(evaluationError("zero_divisor", errContext("is/2")))
		}
		return Integer{new(big.Int).Rem(a.Int, b.Int)}
	case "min":
		if numCompare(x, y) <= 0 {
			return x
		}
		return y
	case "max":
		if numCompare(x, y) >= 0 {
			return x
		}
		return y
	case "**":
		return Float(math.Pow(asFloat(x), asFloat(y)))
	case "^":
		if a, b, ok := bothInt(x, y); ok {
			if b.Sign() < 0 {
				return Float(math.Pow(asFloat(x), asFloat(y)))
			}
			return Integer{new(big.Int).Exp(a.Int, b.Int, nil)}
		}
		return Float(math.Pow(asFloat(x), asFloat(y)))
	case "atan", "atan2":
		return Float(math.Atan2(asFloat(x), asFloat(y)))
	case ">>":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).Rsh(a.Int, uint(b.Int64()))}
	case "<<":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).Lsh(a.Int, uint(b.Int64()))}
	case "/\\":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).And(a.Int, b.Int)}
	case "\\/":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).Or(a.Int, b.Int)}
	case "xor":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).Xor(a.Int, b.Int)}
	case "gcd":
		a, b, ok := bothInt(x, y)
		if !ok {
			throwTerm(typeError("integer", pickNonInt(x, y), errContext("is/2")))
		}
		return Integer{new(big.Int).GCD(nil, nil, new(big.Int).Abs(a.Int), new(big.Int).Abs(b.Int))}
	case "copysign":
		return Float(math.Copysign(asFloat(x), asFloat(y)))
	}
	throwTerm(typeError("evaluable", Compound{Functor: "/", Args: []Term{Atom(op), NewInt(2)}}, errContext("is/2")))
	return nil
}

func pickNonInt(x, y Term) Term {
	if _, ok := x.(Integer); !ok {
		return x
	}
	return y
}

// numCompare compares two evaluated numeric terms, promoting to float64 if
// either is a Float.
func numCompare(x, y Term) int {
	if a, b, ok := bothInt(x, y); ok {
		return a.Cmp(b.Int)
	}
	fx, fy := asFloat(x), asFloat(y)
	switch {
	case fx < fy:
		return -1
	case fx > fy:
		return 1
	default:
		return 0
	}
}
