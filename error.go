package prolog

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrFailure is returned when a query fails (finds no solutions).
var ErrFailure = fmt.Errorf("prolog: query failed")

// ErrThrow is returned when an exception escapes a query uncaught.
// Ball is the term passed to throw/1 (or constructed by a built-in).
type ErrThrow struct {
	Ball Term
}

func (err ErrThrow) Error() string {
	return fmt.Sprintf("prolog: unhandled exception: %s", writeTermPlain(err.Ball))
}

// thrown is the panic payload used to unwind the Go call stack back to the
// nearest catch/3 (or to the top level, where Query converts it back into
// an ErrThrow). Using panic/recover for throw/1 mirrors the teacher's own
// use of Go's non-local control flow for aborting a running query.
type thrown struct {
	ball Term
}

// throwTerm panics with ball as a Prolog exception.
func throwTerm(ball Term) {
	panic(thrown{ball: renameTerm(ball)})
}

// instantiationError constructs error(instantiation_error, Context).
func instantiationError(context Term) Term {
	return Compound{Functor: "error", Args: []Term{Atom("instantiation_error"), context}}
}

// typeError constructs error(type_error(Type, Culprit), Context).
func typeError(kind string, culprit Term, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "type_error", Args: []Term{Atom(kind), culprit}},
		context,
	}}
}

// domainError constructs error(domain_error(Domain, Culprit), Context).
func domainError(domain string, culprit Term, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "domain_error", Args: []Term{Atom(domain), culprit}},
		context,
	}}
}

// existenceError constructs error(existence_error(Kind, Culprit), Context).
func existenceError(kind string, culprit Term, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "existence_error", Args: []Term{Atom(kind), culprit}},
		context,
	}}
}

// permissionError constructs error(permission_error(Op, Kind, Culprit), Context).
func permissionError(op, kind string, culprit Term, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "permission_error", Args: []Term{Atom(op), Atom(kind), culprit}},
		context,
	}}
}

// resourceError constructs error(resource_error(Resource), Context).
func resourceError(resource string, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "resource_error", Args: []Term{Atom(resource)}},
		context,
	}}
}

// evaluationError constructs error(evaluation_error(What), Context).
func evaluationError(what string, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "evaluation_error", Args: []Term{Atom(what)}},
		context,
	}}
}

// syntaxError constructs error(syntax_error(Description), Context).
func syntaxError(description string, context Term) Term {
	return Compound{Functor: "error", Args: []Term{
		Compound{Functor: "syntax_error", Args: []Term{Atom(description)}},
		context,
	}}
}

// errContext builds the Context argument of an ISO error term,
// indicator/3-style: Functor/Arity or a bare description atom.
func errContext(pi string) Term {
	if pi == "" {
		return NewVariable("_")
	}
	return indicatorTerm(pi)
}

// consultErrors aggregates the errors encountered while loading a single
// source unit (directive, clause and conditional-compilation errors, plus
// the syntax error that ends reading, if any), so Consult/ConsultText can
// report every problem found rather than only the first one. Grounded on the
// teacher's practice of reporting file-load failures with fmt.Errorf-wrapped
// context, generalized to multierror.Append for the multi-clause case.
type consultErrors struct {
	merr *multierror.Error
}

func (c *consultErrors) add(err error) {
	if err == nil {
		return
	}
	c.merr = multierror.Append(c.merr, err)
}

func (c *consultErrors) errorOrNil() error {
	if c.merr == nil {
		return nil
	}
	return c.merr.ErrorOrNil()
}
