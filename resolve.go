package prolog

import (
	"fmt"
	"iter"
)

// Predicate is a native Go predicate callable from Prolog, registered via
// Machine.Register. It behaves like a builtin: given the call's arguments
// (not yet dereferenced) and the substitution in effect, it yields one
// extended Bindings per solution. Grounded on the teacher's own notion of a
// host-registered Predicate in the original prolog.go, generalized from an
// RPC-shaped callback to a native iter.Seq-producing one now that there is
// no WASM boundary to cross.
type Predicate func(m *Machine, args []Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings]

// cutBarrier is a shared, mutable flag marking "cut has fired" for one
// activation of a clause body or control construct. The same *cutBarrier is
// threaded through ,/2 and ;/2 and ->/2 (cut there is transparent: it cuts
// back to the clause or call/1 that owns the barrier); call/1, \+/1,
// findall/3 and friends give their goal a fresh barrier (cut there is
// opaque: it only cuts alternatives created inside that call).
type cutBarrier struct {
	fired bool
}

func newCutBarrier() *cutBarrier { return &cutBarrier{} }

// maxDefaultDepth is the default resolution depth limit; past this, solve
// raises a resource_error instead of growing the Go call stack without
// bound. Configurable via WithMaxDepth.
const maxDefaultDepth = 4_000_000

// Solve is the top-level entry point: it resolves goal against env and
// yields one Bindings per solution, using a fresh root cut barrier (a cut
// at the top level only affects top-level alternatives).
func Solve(m *Machine, goal Term, env *Bindings) iter.Seq[*Bindings] {
	return solveGoal(m, goal, env, 0, newCutBarrier())
}

// solveGoal dispatches goal to control-construct handling, then to builtins,
// then to user-defined clauses, in that order -- matching the teacher's
// layered dispatch (native Go predicates shadow library predicates shadow
// plain clauses) generalized to three tiers instead of two.
func solveGoal(m *Machine, goal Term, env *Bindings, depth int, cut *cutBarrier) iter.Seq[*Bindings] {
	return func(yield func(*Bindings) bool) {
		if depth > m.maxDepth() {
			throwTerm(resourceError("recursion_depth_exceeded", errContext("")))
		}

		g := env.Deref(goal)
		switch x := g.(type) {
		case Variable:
			throwTerm(instantiationError(errContext("")))
		case Atom:
			if x == atomCut {
				yield(env)
				cut.fired = true
				return
			}
			solveDispatch(m, x, nil, g, env, depth, cut, yield)
			return
		case Compound:
			if _, handled := tryControl(m, x, env, depth, cut, yield); handled {
				return
			}
			solveDispatch(m, x.Functor, x.Args, g, env, depth, cut, yield)
			return
		default:
			throwTerm(typeError("callable", g, errContext("")))
		}
	}
}

// tryControl handles the control constructs that are not ordinary
// predicates: ,/2 ;/2 ->/2 \+/1 call/N catch/3 throw/1
// setup_call_cleanup/3 call_cleanup/2. It returns handled=false for anything
// else so the caller falls through to builtin/user dispatch.
func tryControl(m *Machine, c Compound, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) (handled, ok bool) {
	switch c.Functor {
	case ",":
		if len(c.Args) == 2 {
			solveConj(m, c.Args[0], c.Args[1], env, depth, cut, yield)
			return true, true
		}
	case ";":
		if len(c.Args) == 2 {
			if ite, isIte := env.Deref(c.Args[0]).(Compound); isIte && ite.Functor == "->" && len(ite.Args) == 2 {
				solveIfThenElse(m, ite.Args[0], ite.Args[1], c.Args[1], env, depth, cut, yield)
				return true, true
			}
			if ite, isIte := env.Deref(c.Args[0]).(Compound); isIte && ite.Functor == "*->" && len(ite.Args) == 2 {
				solveSoftIfThenElse(m, ite.Args[0], ite.Args[1], c.Args[1], env, depth, cut, yield)
				return true, true
			}
			solveDisj(m, c.Args[0], c.Args[1], env, depth, cut, yield)
			return true, true
		}
	case "->":
		if len(c.Args) == 2 {
			solveIfThenElse(m, c.Args[0], c.Args[1], Atom("fail"), env, depth, cut, yield)
			return true, true
		}
	case "\\+":
		if len(c.Args) == 1 {
			solveNegation(m, c.Args[0], env, depth, yield)
			return true, true
		}
	case "call":
		if len(c.Args) >= 1 {
			solveCallN(m, c.Args[0], c.Args[1:], env, depth, yield)
			return true, true
		}
	case "catch":
		if len(c.Args) == 3 {
			solveCatch(m, c.Args[0], c.Args[1], c.Args[2], env, depth, yield)
			return true, true
		}
	case "throw":
		if len(c.Args) == 1 {
			ball := env.resolve(c.Args[0])
			if containsVariable(ball) {
				throwTerm(instantiationError(errContext("throw/1")))
			}
			throwTerm(ball)
			return true, true
		}
	case "setup_call_cleanup":
		if len(c.Args) == 3 {
			solveSetupCallCleanup(m, c.Args[0], c.Args[1], c.Args[2], env, depth, yield)
			return true, true
		}
	case "call_cleanup":
		if len(c.Args) == 2 {
			solveSetupCallCleanup(m, atomTrue, c.Args[0], c.Args[1], env, depth, yield)
			return true, true
		}
	}
	return false, false
}

// solveConj solves (A, B) sharing one cut barrier: once B's alternatives
// for a given A-solution are exhausted, retrying A happens unless cut has
// fired, matching the flag-based cut-propagation scheme.
func solveConj(m *Machine, a, b Term, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) {
	for sa := range solveGoal(m, a, env, depth, cut) {
		stopped := false
		for sb := range solveGoal(m, b, sa, depth, cut) {
			if !yield(sb) {
				stopped = true
				break
			}
		}
		if stopped || cut.fired {
			return
		}
	}
}

// solveDisj solves (A ; B): every solution of A, then (if A yields none, or
// after A is exhausted without cut) every solution of B.
func solveDisj(m *Machine, a, b Term, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) {
	for sa := range solveGoal(m, a, env, depth, cut) {
		if !yield(sa) {
			return
		}
	}
	if cut.fired {
		return
	}
	for sb := range solveGoal(m, b, env, depth, cut) {
		if !yield(sb) {
			return
		}
	}
}

// solveIfThenElse solves (Cond -> Then ; Else): commits to the first
// solution of Cond (its own choice points are discarded, like once/1), then
// solves Then; if Cond has no solution, solves Else instead.
func solveIfThenElse(m *Machine, condg, then, els Term, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) {
	condCut := newCutBarrier()
	matched := false
	for sc := range solveGoal(m, condg, env, depth, condCut) {
		matched = true
		for st := range solveGoal(m, then, sc, depth, cut) {
			if !yield(st) {
				return
			}
		}
		break
	}
	if matched || cut.fired {
		return
	}
	for se := range solveGoal(m, els, env, depth, cut) {
		if !yield(se) {
			return
		}
	}
}

// solveSoftIfThenElse solves (Cond *-> Then ; Else): like if-then-else but
// keeps every solution of Cond instead of committing to the first.
func solveSoftIfThenElse(m *Machine, condg, then, els Term, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) {
	condCut := newCutBarrier()
	matched := false
	for sc := range solveGoal(m, condg, env, depth, condCut) {
		matched = true
		for st := range solveGoal(m, then, sc, depth, cut) {
			if !yield(st) {
				return
			}
		}
		if cut.fired {
			return
		}
	}
	if matched {
		return
	}
	for se := range solveGoal(m, els, env, depth, cut) {
		if !yield(se) {
			return
		}
	}
}

// solveNegation implements \+/1 (negation as failure): succeeds exactly
// once, with no bindings, iff Goal has no solution. Goal gets a fresh,
// opaque cut barrier.
func solveNegation(m *Machine, goal Term, env *Bindings, depth int, yield func(*Bindings) bool) {
	for range solveGoal(m, goal, env, depth+1, newCutBarrier()) {
		return
	}
	yield(env)
}

// solveCallN implements call/N for any N >= 1: builds the extended goal by appending
// extra args to Goal's argument list (or, for a bare atom, making it a
// compound of those args), then solves it under a fresh, opaque cut
// barrier, so a cut inside the called goal can't escape the call.
func solveCallN(m *Machine, goal Term, extra []Term, env *Bindings, depth int, yield func(*Bindings) bool) {
	g := env.Deref(goal)
	if len(extra) > 0 {
		switch x := g.(type) {
		case Atom:
			g = Compound{Functor: x, Args: append([]Term{}, extra...)}
		case Compound:
			g = Compound{Functor: x.Functor, Args: append(append([]Term{}, x.Args...), extra...)}
		case Variable:
			throwTerm(instantiationError(errContext("call")))
		default:
			throwTerm(typeError("callable", g, errContext("call")))
		}
	}
	for s := range solveGoal(m, g, env, depth+1, newCutBarrier()) {
		if !yield(s) {
			return
		}
	}
}

// solveCatch implements catch/3. It pulls solutions from Goal one at a
// time; if pulling a solution panics with a thrown exception, the ball is
// unified with Catcher (after renaming away the exception's own variables)
// and, on success, Recovery is solved in its place. A non-matching
// exception is re-thrown to the next enclosing catch/3.
func solveCatch(m *Machine, goal, catcher, recovery Term, env *Bindings, depth int, yield func(*Bindings) bool) {
	next, stop := iter.Pull(solveGoal(m, goal, env, depth+1, newCutBarrier()))
	defer stop()
	for {
		sol, ok, caught := pullCatching(next)
		if caught != nil {
			env2, match := unify(catcher, caught.ball, env, false)
			if !match {
				panic(*caught)
			}
			for sr := range solveGoal(m, recovery, env2, depth+1, newCutBarrier()) {
				if !yield(sr) {
					return
				}
			}
			return
		}
		if !ok {
			return
		}
		if !yield(sol) {
			return
		}
	}
}

// solveSetupCallCleanup implements setup_call_cleanup/3 (call_cleanup/2 is
// just setup_call_cleanup(true, Goal, Cleanup)): Setup runs once, like
// once/1; if it fails or throws, Goal and Cleanup never run at all. Once
// Setup has succeeded, Cleanup is guaranteed to run exactly once no matter
// how Goal's solving ends -- exhausted, cut short because the caller
// stopped asking for more solutions, or unwound by a thrown exception --
// since a single deferred call covers every one of those returns from this
// function, the same way solveCatch's deferred stop() already covers every
// exit from Goal above.
func solveSetupCallCleanup(m *Machine, setup, goal, cleanup Term, env *Bindings, depth int, yield func(*Bindings) bool) {
	setupEnv := env
	setupOk := false
	for s := range solveGoal(m, setup, env, depth+1, newCutBarrier()) {
		setupEnv = s
		setupOk = true
		break
	}
	if !setupOk {
		return
	}

	defer func() {
		defer func() { recover() }()
		for range solveGoal(m, cleanup, setupEnv, depth+1, newCutBarrier()) {
			return
		}
	}()

	next, stop := iter.Pull(solveGoal(m, goal, setupEnv, depth+1, newCutBarrier()))
	defer stop()
	for {
		sol, ok, caught := pullCatching(next)
		if caught != nil {
			panic(*caught)
		}
		if !ok {
			return
		}
		if !yield(sol) {
			return
		}
	}
}

// pullCatching calls next and converts a panic carrying a thrown exception
// into a return value, letting any other panic propagate normally.
func pullCatching(next func() (*Bindings, bool)) (sol *Bindings, ok bool, caught *thrown) {
	defer func() {
		if r := recover(); r != nil {
			t, isThrown := r.(thrown)
			if !isThrown {
				panic(r)
			}
			caught = &t
		}
	}()
	sol, ok = next()
	return
}

// solveDispatch looks up name/len(args) among builtins, then native
// Predicates, then user clauses, in that order, and solves accordingly.
// goal is the original (Atom or Compound) term, used for error reporting
// and passed whole to native Predicates.
func solveDispatch(m *Machine, name Atom, args []Term, goal Term, env *Bindings, depth int, cut *cutBarrier, yield func(*Bindings) bool) {
	pi := piString(name, len(args))

	if b, ok := m.builtins[pi]; ok {
		for s := range b(m, args, env, depth, cut) {
			if !yield(s) {
				return
			}
		}
		return
	}

	if p, ok := m.db.native(pi); ok {
		for s := range p(m, args, env, depth, cut) {
			if !yield(s) {
				return
			}
		}
		return
	}

	solveUser(m, pi, goal, env, depth, yield)
}

// solveUser tries each clause of pi in turn against goal, giving the whole
// clause-trying loop one shared cut barrier (a cut in a clause body commits
// to that clause, ruling out the rest). A predicate with no clauses and no
// dynamic declaration raises existence_error/2, per ISO semantics for
// unknown procedures.
func solveUser(m *Machine, pi string, goal Term, env *Bindings, depth int, yield func(*Bindings) bool) {
	if !m.db.isDefined(pi) {
		throwTerm(existenceError("procedure", indicatorTerm(pi), errContext(pi)))
	}

	barrier := newCutBarrier()
	for _, cl := range m.db.clausesOf(pi) {
		r := newRenamer()
		head := r.rename(cl.Head)
		body := r.rename(cl.Body)

		env2, ok := unify(goal, head, env, m.occursCheck)
		if !ok {
			continue
		}
		stopped := false
		for s := range solveGoal(m, body, env2, depth+1, barrier) {
			if !yield(s) {
				stopped = true
				break
			}
		}
		if stopped || barrier.fired {
			return
		}
	}
}

// indicatorTerm builds the Name/Arity compound from a "name/arity" string,
// for use as the culprit of an existence_error(procedure, _) term.
func indicatorTerm(pi string) Term {
	idx := len(pi) - 1
	for idx >= 0 && pi[idx] != '/' {
		idx--
	}
	if idx < 0 {
		return Atom(pi)
	}
	name := pi[:idx]
	var arity int
	fmt.Sscanf(pi[idx+1:], "%d", &arity)
	return Compound{Functor: "/", Args: []Term{Atom(name), NewInt(int64(arity))}}
}
