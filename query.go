package prolog

import (
	"context"
	"fmt"
	"iter"
)

// Query is a Prolog query iterator, driven by repeated calls to Next much
// like sql.Rows. Grounded on the teacher's own Query interface; the
// difference is what drives it underneath -- an iter.Pull over Solve's
// iter.Seq instead of a WASM subquery handle.
type Query interface {
	// Next computes the next solution. Returns true if it found one and
	// false if there are no more results (check Err afterwards).
	Next(ctx context.Context) bool
	// Current returns the current solution prepared by Next.
	Current() Answer
	// Close stops this query early. Not necessary if Next is run to exhaustion.
	Close() error
	// Err returns this query's error, set when Next returned false because
	// the goal raised an uncaught exception rather than simply failing.
	Err() error
}

type query struct {
	m    *Machine
	goal Term
	text string
	vars map[string]Variable

	next func() (*Bindings, bool)
	stop func()

	cur  Answer
	err  error
	done bool
}

// Query runs goal (an already-built Term, e.g. from ParseTerm) against m's
// database and returns an iterator over its solutions.
func (m *Machine) Query(ctx context.Context, goal Term, opts ...QueryOption) Query {
	return m.newQuery(goal, "", nil, opts)
}

// QueryString parses text as a goal and runs it, reporting solutions as a
// Substitution keyed by the goal's named variables -- the shape most
// callers want when the goal comes from user-supplied text rather than a
// hand-built Term.
func (m *Machine) QueryString(ctx context.Context, text string, opts ...QueryOption) Query {
	p := newParser(text+" .", m.ops)
	goal, vars, err := p.ReadTerm()
	q := m.newQuery(goal, text, vars, opts)
	if err != nil {
		q.setError(fmt.Errorf("prolog: parsing query: %w", err))
	}
	return q
}

// QueryOnce runs goal and returns its first solution, or ErrFailure /
// an ErrThrow if it raised an uncaught exception instead.
func (m *Machine) QueryOnce(ctx context.Context, goal Term, opts ...QueryOption) (Answer, error) {
	q := m.Query(ctx, goal, opts...)
	defer q.Close()
	if !q.Next(ctx) {
		if err := q.Err(); err != nil {
			return Answer{}, err
		}
		return Answer{}, ErrFailure
	}
	return q.Current(), nil
}

func (m *Machine) newQuery(goal Term, text string, vars map[string]Variable, opts []QueryOption) *query {
	q := &query{m: m, goal: goal, text: text, vars: vars}
	for _, opt := range opts {
		opt(q)
	}
	if m.closed {
		q.setError(fmt.Errorf("prolog: machine is closed"))
		return q
	}
	if q.goal == nil || q.err != nil {
		return q
	}
	next, stop := iter.Pull(Solve(m, q.goal, NewBindings()))
	q.next, q.stop = next, stop
	return q
}

// Next pulls the next solution. ctx is checked before pulling, not during:
// Solve itself has no internal cancellation points, so a goal that diverges
// without ever yielding or hitting the depth limit cannot be interrupted
// mid-flight, only declined to start.
func (q *query) Next(ctx context.Context) bool {
	if q.err != nil || q.done || q.next == nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		q.setError(fmt.Errorf("prolog: canceled: %w", err))
		q.Close()
		return false
	}

	sol, ok, caught := pullCatching(q.next)
	if caught != nil {
		q.done = true
		q.setError(ErrThrow{Ball: caught.ball})
		return false
	}
	if !ok {
		q.done = true
		return false
	}
	q.cur = newAnswer(q.text, q.goal, q.vars, sol)
	return true
}

func (q *query) Current() Answer { return q.cur }

func (q *query) Close() error {
	if q.stop != nil {
		q.stop()
		q.stop = nil
	}
	q.done = true
	return nil
}

func (q *query) setError(err error) {
	if err != nil && q.err == nil {
		q.err = err
	}
}

func (q *query) Err() error { return q.err }

// bindVar unifies variable (by name, looked up in vars if already known
// from a parsed goal, otherwise freshly introduced) with value before the
// query runs, by rewriting the goal as "Var = Value, Goal".
func (q *query) bindVar(name string, value Term) {
	v, ok := q.vars[name]
	if !ok {
		v = NewVariable(name)
		if q.vars == nil {
			q.vars = map[string]Variable{}
		}
		q.vars[name] = v
	}
	if q.goal == nil {
		return
	}
	q.goal = Compound{Functor: atomComma, Args: []Term{
		Compound{Functor: "=", Args: []Term{v, value}},
		q.goal,
	}}
}

// QueryOption is an optional parameter for queries.
type QueryOption func(*query)

// WithBind binds the named variable to value before the query runs.
// WithBind("X", prolog.Atom("foo")) is equivalent to prepending "X = foo,"
// to the query text.
func WithBind(variable string, value Term) QueryOption {
	return func(q *query) { q.bindVar(variable, value) }
}

// WithBinding binds a map of variables to terms, as WithBind applied once per entry.
func WithBinding(subs Substitution) QueryOption {
	return func(q *query) {
		for _, bind := range subs.bindings() {
			q.bindVar(bind.name, bind.value)
		}
	}
}

var _ Query = (*query)(nil)
