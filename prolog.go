// Package prolog is a native, dependency-light Prolog interpreter: term
// model, unification, SLD resolution with cut and exceptions, a read/consult
// pipeline with a mutable operator table, and a catalog of ISO-ish built-in
// predicates.
package prolog

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/exp/maps"
)

// Machine is a Prolog interpreter instance: a clause database, an operator
// table, and the configuration that governs resolution (depth limit,
// occurs-check default, logging). Grounded on the teacher's *prolog struct
// in the original prolog.go -- same role (the thing New returns, the thing
// Query/Consult/Register/Clone/Close/Stats hang off of) -- but holding a
// native database instead of a wasmtime instance.
type Machine struct {
	db  *database
	ops *operatorTable

	builtins map[string]Predicate

	logger      hclog.Logger
	occursCheck bool
	depthLimit  int

	flags map[string]Term

	initGoals []Term

	closed bool
}

// New creates a new Machine and loads its built-in predicate catalog and
// bootstrap library (list/apply/control predicates written in Prolog itself).
func New(opts ...Option) (*Machine, error) {
	m := &Machine{
		db:         newDatabase(),
		ops:        newOperatorTable(),
		builtins:   make(map[string]Predicate),
		logger:     hclog.NewNullLogger(),
		depthLimit: maxDefaultDepth,
		flags:      map[string]Term{"double_quotes": Atom("codes"), "bounded": Atom("false")},
	}
	for _, opt := range opts {
		opt(m)
	}
	registerBuiltins(m)
	if err := m.ConsultText(context.Background(), "user", bootstrapLibrary); err != nil {
		return nil, fmt.Errorf("prolog: failed to load bootstrap library: %w", err)
	}
	if err := m.runInitGoals(context.Background()); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) maxDepth() int {
	if m.depthLimit <= 0 {
		return maxDefaultDepth
	}
	return m.depthLimit
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithLogger sets the structured logger used for consult diagnostics: a
// warning for each ignored redefinition of a built-in and for each
// initialization goal that raises. Resolution itself is not logged.
func WithLogger(l hclog.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithMaxDepth overrides the resolution depth limit (default ~4,000,000
// nested goal activations) past which solve raises a resource_error instead
// of growing the Go call stack without bound.
func WithMaxDepth(depth int) Option {
	return func(m *Machine) { m.depthLimit = depth }
}

// WithOccursCheck makes =/2 and \=/2 (and ordinary clause-head unification)
// perform the occurs-check by default. unify_with_occurs_check/2 always
// does regardless of this setting.
func WithOccursCheck() Option {
	return func(m *Machine) { m.occursCheck = true }
}

// WithInitGoal queues goal to run once, in order, immediately after the
// bootstrap library loads -- equivalent to a ":- initialization(Goal)."
// directive appearing at the top of the very first consulted file.
func WithInitGoal(goal string) Option {
	return func(m *Machine) {
		t, err := ParseTerm(goal)
		if err != nil {
			return
		}
		m.initGoals = append(m.initGoals, t)
	}
}

func (m *Machine) runInitGoals(ctx context.Context) error {
	goals := m.initGoals
	m.initGoals = nil
	var errs consultErrors
	for _, g := range goals {
		q := m.Query(ctx, g)
		q.Next(ctx)
		if err := q.Err(); err != nil {
			m.logger.Warn("initialization goal failed", "goal", writeTermPlain(g), "error", err)
			errs.add(fmt.Errorf("prolog: initialization goal %s raised: %w", writeTermPlain(g), err))
		}
		q.Close()
	}
	return errs.errorOrNil()
}

// Register installs a native Go Predicate under name/arity, shadowing any
// clauses previously defined for that indicator (matching the teacher's own
// Register semantics: the host implementation always wins).
func (m *Machine) Register(name string, arity int, p Predicate) {
	m.db.registerNative(piString(Atom(name), arity), p)
}

// Clone returns an independent copy of m: its own database (clauses and
// dynamic declarations copied, not shared) and operator table, so consulting
// into the clone never affects the original. Grounded on the teacher's
// Clone, which existed so a request handler could get a private interpreter
// cheaply instead of paying full initialization cost again.
func (m *Machine) Clone() *Machine {
	return &Machine{
		db:          m.db.clone(),
		ops:         m.ops.clone(),
		builtins:    m.builtins, // built-ins are stateless; safe to share
		logger:      m.logger,
		occursCheck: m.occursCheck,
		depthLimit:  m.depthLimit,
		flags:       maps.Clone(m.flags),
	}
}

// Close releases the Machine. A Machine holds no off-heap resources (unlike
// the teacher's WASM-backed interpreter), so Close only marks it unusable
// for further queries; it exists to keep the same lifecycle shape callers
// of the teacher's Prolog interface already rely on.
func (m *Machine) Close() {
	m.closed = true
}

// Stats reports diagnostic information about this Machine.
type Stats struct {
	Predicates int
	Clauses    int
}

// Stats returns a snapshot of database size.
func (m *Machine) Stats() Stats {
	m.db.mu.RLock()
	defer m.db.mu.RUnlock()
	var clauses int
	for _, e := range m.db.preds {
		clauses += len(e.clauses)
	}
	return Stats{Predicates: len(m.db.preds), Clauses: clauses}
}

// Consult loads a Prolog source file into the "user" module.
func (m *Machine) Consult(ctx context.Context, filename string) error {
	return m.consultFile(ctx, "user", filename)
}

// ConsultText loads Prolog source text into module. Modules are a nominal
// grouping label only (the database is flat); "user" is the conventional
// default, matching the teacher's own ConsultText(ctx, module, text) shape.
func (m *Machine) ConsultText(ctx context.Context, module string, text string) error {
	_ = module
	return m.consultUnit(ctx, text)
}
