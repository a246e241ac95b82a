package prolog

import (
	"context"
	"fmt"
	"os"
)

// consultFile reads filename and consults its contents.
func (m *Machine) consultFile(ctx context.Context, module string, filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("prolog: cannot read %s: %w", filename, err)
	}
	_ = module
	return m.consultUnit(ctx, string(data))
}

// condState tracks one level of :- if/else/endif conditional compilation.
type condState struct {
	active  bool // this branch is currently being read into the database
	matched bool // some branch at this level has already been active
}

// consultUnit parses text term by term (so op/3 directives take effect
// immediately on the remaining text) and loads clauses/directives into m,
// collecting every directive or clause error rather than stopping at the
// first; a syntax error ends reading of the unit. Grounded on the teacher's ConsultText, generalized from "hand text
// to the embedded engine" to "run the actual read-consult loop" since there
// is no embedded engine anymore.
func (m *Machine) consultUnit(ctx context.Context, text string) error {
	p := newParser(text, m.ops)
	var errs consultErrors
	var condStack []condState
	var pendingInit []Term

	active := func() bool {
		for _, c := range condStack {
			if !c.active {
				return false
			}
		}
		return true
	}

	for {
		t, _, err := p.ReadTerm()
		if err != nil {
			errs.add(fmt.Errorf("prolog: %w", err))
			break
		}
		if t == nil {
			break
		}

		if c, ok := t.(Compound); ok && c.Functor == ":-" && len(c.Args) == 1 {
			directive := c.Args[0]
			if handled, err := m.handleConditional(directive, &condStack); handled {
				if err != nil {
					errs.add(err)
				}
				continue
			}
			if !active() {
				continue
			}
			if init, ok := directive.(Compound); ok && init.Functor == "initialization" && (len(init.Args) == 1 || len(init.Args) == 2) {
				goal := init.Args[0]
				if !isCallable(goal) {
					var errTerm Term
					if _, isVar := goal.(Variable); isVar {
						errTerm = instantiationError(errContext("initialization/1"))
					} else {
						errTerm = typeError("callable", goal, errContext("initialization/1"))
					}
					errs.add(fmt.Errorf("prolog: %s", writeTermPlain(errTerm)))
					continue
				}
				pendingInit = append(pendingInit, goal)
				continue
			}
			if err := m.runDirective(ctx, directive); err != nil {
				errs.add(err)
			}
			continue
		}

		if !active() {
			continue
		}

		if c, ok := t.(Compound); ok && c.Functor == "-->" && len(c.Args) == 2 {
			head, body := translateDCG(c.Args[0], c.Args[1])
			m.addClause(head, body)
			continue
		}

		head, body := splitClause(t)
		if err := m.checkClauseHead(head); err != nil {
			errs.add(err)
			continue
		}
		m.addClause(head, body)
	}

	if len(condStack) > 0 {
		errs.add(fmt.Errorf("prolog: unclosed :- if/1 at end of input"))
	}

	m.initGoals = append(m.initGoals, pendingInit...)
	if err := m.runInitGoals(ctx); err != nil {
		errs.add(err)
	}

	return errs.errorOrNil()
}

func isCallable(t Term) bool {
	switch t.(type) {
	case Atom, Compound:
		return true
	default:
		return false
	}
}

// splitClause splits a clause term into Head and Body, defaulting Body to
// "true" for a fact.
func splitClause(t Term) (Term, Term) {
	if c, ok := t.(Compound); ok && c.Functor == ":-" && len(c.Args) == 2 {
		return c.Args[0], c.Args[1]
	}
	return t, atomTrue
}

func (m *Machine) checkClauseHead(head Term) error {
	switch head.(type) {
	case Atom, Compound:
		return nil
	case Variable:
		return fmt.Errorf("prolog: %s", writeTermPlain(instantiationError(errContext(""))))
	default:
		return fmt.Errorf("prolog: %s", writeTermPlain(typeError("callable", head, errContext(""))))
	}
}

func (m *Machine) addClause(head, body Term) {
	pi, _ := indicatorOf(head)
	if m.db.isBuiltin(pi) {
		m.logger.Warn("redefining builtin predicate ignored", "predicate", pi)
		return
	}
	m.db.loadClause(pi, &clause{Head: head, Body: body})
}

// handleConditional recognizes :- if(Cond)/else/endif directives and
// updates condStack accordingly, returning handled=true if directive was
// one of these (so the caller skips ordinary directive execution).
func (m *Machine) handleConditional(directive Term, stack *[]condState) (handled bool, err error) {
	c, ok := directive.(Compound)
	if !ok {
		if a, isAtom := directive.(Atom); isAtom {
			switch a {
			case "else":
				return m.handleElse(stack)
			case "endif":
				return m.handleEndif(stack)
			}
		}
		return false, nil
	}
	switch {
	case c.Functor == "if" && len(c.Args) == 1:
		parentActive := true
		for _, s := range *stack {
			if !s.active {
				parentActive = false
				break
			}
		}
		cond := false
		if parentActive {
			cond = m.evalConditionGoal(c.Args[0])
		}
		*stack = append(*stack, condState{active: parentActive && cond, matched: parentActive && cond})
		return true, nil
	case c.Functor == "else" && len(c.Args) == 0:
		return m.handleElse(stack)
	case c.Functor == "endif" && len(c.Args) == 0:
		return m.handleEndif(stack)
	}
	return false, nil
}

func (m *Machine) handleElse(stack *[]condState) (bool, error) {
	if len(*stack) == 0 {
		return true, fmt.Errorf("prolog: :- else/0 without matching :- if/1")
	}
	top := (*stack)[len(*stack)-1]
	parentActive := true
	for _, s := range (*stack)[:len(*stack)-1] {
		if !s.active {
			parentActive = false
			break
		}
	}
	top.active = parentActive && !top.matched
	top.matched = top.matched || top.active
	(*stack)[len(*stack)-1] = top
	return true, nil
}

func (m *Machine) handleEndif(stack *[]condState) (bool, error) {
	if len(*stack) == 0 {
		return true, fmt.Errorf("prolog: :- endif/0 without matching :- if/1")
	}
	*stack = (*stack)[:len(*stack)-1]
	return true, nil
}

// evalConditionGoal runs Cond as a query and reports whether it succeeded
// at least once, swallowing any exception as failure (a malformed condition
// simply takes the else branch).
func (m *Machine) evalConditionGoal(cond Term) bool {
	result := false
	func() {
		defer func() { recover() }()
		for range Solve(m, cond, NewBindings()) {
			result = true
			return
		}
	}()
	return result
}

// runDirective executes an ordinary ":- Goal." directive at consult time:
// op/3 mutates the operator table, dynamic/multifile/discontiguous update
// declarations, use_module is accepted and ignored (no module system),
// anything else is run as a goal and its failure/exception reported as a
// consult error (matching common Prolog systems' behavior of warning, not
// aborting the whole file, on a failed directive).
func (m *Machine) runDirective(ctx context.Context, goal Term) error {
	if c, ok := goal.(Compound); ok {
		switch {
		case c.Functor == "op" && len(c.Args) == 3:
			return m.directiveOp(c.Args)
		case c.Functor == "dynamic" && len(c.Args) == 1:
			return m.declareOverList(c.Args[0], m.db.declareDynamic)
		case c.Functor == "discontiguous" && len(c.Args) == 1:
			return m.declareOverList(c.Args[0], m.db.declareDiscontiguous)
		case c.Functor == "multifile" && len(c.Args) == 1:
			return m.declareOverList(c.Args[0], m.db.declareMultifile)
		case c.Functor == "use_module":
			return nil
		case c.Functor == "module":
			return nil
		case c.Functor == "set_prolog_flag" && len(c.Args) == 2:
			if name, ok := c.Args[0].(Atom); ok {
				m.flags[string(name)] = c.Args[1]
			}
			return nil
		}
	}
	if a, ok := goal.(Atom); ok {
		switch a {
		case "initialization":
			return nil
		}
	}

	q := m.Query(ctx, goal)
	defer q.Close()
	if !q.Next(ctx) {
		if err := q.Err(); err != nil {
			return fmt.Errorf("prolog: directive %s raised: %w", writeTermPlain(goal), err)
		}
		return fmt.Errorf("prolog: directive failed: %s", writeTermPlain(goal))
	}
	return nil
}

func (m *Machine) directiveOp(args []Term) error {
	pv, ok := args[0].(Integer)
	if !ok {
		return fmt.Errorf("prolog: op/3 priority must be an integer")
	}
	priority := int(pv.Int64())
	typeAtom, ok := args[1].(Atom)
	if !ok {
		return fmt.Errorf("prolog: op/3 type must be an atom")
	}
	names, err := opNameList(args[2])
	if err != nil {
		return err
	}
	for _, n := range names {
		m.ops.define(priority, opType(typeAtom), n)
	}
	return nil
}

func opNameList(t Term) ([]Atom, error) {
	switch x := t.(type) {
	case Atom:
		return []Atom{x}, nil
	case List:
		if x.Tail != nil {
			return nil, fmt.Errorf("prolog: op/3 name list must be proper")
		}
		out := make([]Atom, 0, len(x.Elements))
		for _, e := range x.Elements {
			a, ok := e.(Atom)
			if !ok {
				return nil, fmt.Errorf("prolog: op/3 names must be atoms")
			}
			out = append(out, a)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("prolog: op/3 name must be an atom or list of atoms")
	}
}

// declareOverList applies decl to every predicate indicator named by spec,
// which may be a single Name/Arity term or a comma- or list-joined
// sequence of them.
func (m *Machine) declareOverList(spec Term, decl func(string)) error {
	for _, pi := range flattenIndicators(spec) {
		decl(pi)
	}
	return nil
}

func flattenIndicators(t Term) []string {
	switch x := t.(type) {
	case Compound:
		if x.Functor == "," && len(x.Args) == 2 {
			return append(flattenIndicators(x.Args[0]), flattenIndicators(x.Args[1])...)
		}
		if x.Functor == "/" && len(x.Args) == 2 {
			name, okn := x.Args[0].(Atom)
			arity, oka := x.Args[1].(Integer)
			if okn && oka {
				return []string{piString(name, int(arity.Int64()))}
			}
		}
	case List:
		var out []string
		for _, e := range x.Elements {
			out = append(out, flattenIndicators(e)...)
		}
		return out
	}
	return nil
}
