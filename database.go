package prolog

import (
	"fmt"
	"sync"
)

// clause is a stored program clause: Head :- Body. A fact is stored with
// Body == atomTrue.
type clause struct {
	Head Term
	Body Term
}

// predEntry holds every clause for one predicate indicator plus the
// declaration flags that affect how assert/retract/call treat it.
type predEntry struct {
	clauses       []*clause
	dynamic       bool
	multifile     bool
	discontiguous bool
	builtin       bool
}

// database is the clause store for one Machine: a map from predicate
// indicator ("name/arity") to its clause list, guarded by a single mutex
// since consult and concurrent queries can both mutate it (assert/retract
// are themselves ordinary built-ins callable mid-resolution). Grounded on
// the teacher's own single-mutex-guarded-map style (prolog.procs in the
// original prolog.go), generalized from "native predicate registry" to
// "full clause database".
type database struct {
	mu      sync.RWMutex
	preds   map[string]*predEntry
	procs   map[string]Predicate
}

func newDatabase() *database {
	return &database{
		preds: make(map[string]*predEntry),
		procs: make(map[string]Predicate),
	}
}

func (db *database) entry(pi string) *predEntry {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.preds[pi]
	if !ok {
		e = &predEntry{}
		db.preds[pi] = e
	}
	return e
}

func (db *database) lookup(pi string) (*predEntry, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.preds[pi]
	return e, ok
}

// assertClause adds c to the end (assertz) or front (asserta) of pi's
// clause list, marking the predicate dynamic implicitly as ISO requires.
func (db *database) assertClause(pi string, c *clause, front bool) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.dynamic = true
	if front {
		e.clauses = append([]*clause{c}, e.clauses...)
	} else {
		e.clauses = append(e.clauses, c)
	}
}

// loadClause adds c to the end of pi's clause list the way consulting a
// file does: unlike assertClause, it leaves the predicate's dynamic flag
// untouched, so a plain fact loaded from a file stays static (only an
// explicit dynamic/1 directive, or a runtime assert/1, makes it dynamic).
func (db *database) loadClause(pi string, c *clause) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.clauses = append(e.clauses, c)
}

// declareDynamic marks pi dynamic without adding any clauses, so calling it
// before any clause exists fails rather than raising existence_error.
func (db *database) declareDynamic(pi string) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.dynamic = true
}

func (db *database) declareMultifile(pi string) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.multifile = true
}

func (db *database) declareDiscontiguous(pi string) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.discontiguous = true
}

// retractAt removes the clause at position idx of predicate pi, doing
// nothing if there is no such clause. Matching is done by the caller
// (resolver), which holds the unification logic; retractAt just performs
// the structural removal once the caller has identified the index.
func (db *database) retractAt(pi string, idx int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	e, ok := db.preds[pi]
	if !ok || idx < 0 || idx >= len(e.clauses) {
		return
	}
	e.clauses = append(e.clauses[:idx], e.clauses[idx+1:]...)
}

func (db *database) retractAll(pi string) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.clauses = nil
	e.dynamic = true
}

// clausesOf returns a snapshot slice of pi's clauses, safe to iterate while
// the database is concurrently mutated (assert/retract during backtracking
// over the same predicate is legal in ISO Prolog: "logical update view").
func (db *database) clausesOf(pi string) []*clause {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.preds[pi]
	if !ok {
		return nil
	}
	out := make([]*clause, len(e.clauses))
	copy(out, e.clauses)
	return out
}

func (db *database) isDynamic(pi string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.preds[pi]
	return ok && e.dynamic
}

func (db *database) isDefined(pi string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.preds[pi]
	if !ok {
		return false
	}
	return e.dynamic || e.builtin || len(e.clauses) > 0
}

func (db *database) registerBuiltin(pi string) {
	e := db.entry(pi)
	db.mu.Lock()
	defer db.mu.Unlock()
	e.builtin = true
}

func (db *database) isBuiltin(pi string) bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.preds[pi]
	return ok && e.builtin
}

// registerNative installs a Go-implemented Predicate under pi, as used by
// Machine.Register.
func (db *database) registerNative(pi string, p Predicate) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.procs[pi] = p
}

func (db *database) native(pi string) (Predicate, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.procs[pi]
	return p, ok
}

// clone returns a deep-enough independent copy for Machine.Clone: clause
// slices are copied so appending in the clone never mutates the parent, but
// individual *clause values (immutable once asserted) are shared.
func (db *database) clone() *database {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := newDatabase()
	for pi, e := range db.preds {
		ce := &predEntry{
			dynamic:       e.dynamic,
			multifile:     e.multifile,
			discontiguous: e.discontiguous,
			builtin:       e.builtin,
			clauses:       make([]*clause, len(e.clauses)),
		}
		copy(ce.clauses, e.clauses)
		out.preds[pi] = ce
	}
	for pi, p := range db.procs {
		out.procs[pi] = p
	}
	return out
}

func piString(name Atom, arity int) string {
	return fmt.Sprintf("%s/%d", name, arity)
}
