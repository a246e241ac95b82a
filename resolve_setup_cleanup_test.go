package prolog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupCallCleanupRunsCleanupOnceAfterExhaustion(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `setup_call_cleanup(true, member(X, [1,2,3]), write(cleaned))`)
	})
	require.Len(t, sols, 3)
	assert.Equal(t, "cleaned", out, "cleanup must run exactly once, after the last solution")
}

func TestSetupCallCleanupRunsCleanupOnGoalFailure(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `setup_call_cleanup(true, fail, write(cleaned))`)
	})
	assert.Len(t, sols, 0)
	assert.Equal(t, "cleaned", out)
}

func TestSetupCallCleanupSkipsGoalAndCleanupWhenSetupFails(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `setup_call_cleanup(fail, write(ran_goal), write(ran_cleanup))`)
	})
	assert.Len(t, sols, 0)
	assert.Equal(t, "", out)
}

func TestSetupCallCleanupRunsCleanupOnceWhenCutShort(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `once(setup_call_cleanup(true, member(X, [1,2,3]), write(cleaned)))`)
	})
	require.Len(t, sols, 1)
	assert.Equal(t, "cleaned", out, "cleanup must run exactly once even when the caller stops early")
}

func TestSetupCallCleanupRunsCleanupOnException(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `catch(setup_call_cleanup(true, throw(oops), write(cleaned)), oops, true)`)
	})
	require.Len(t, sols, 1)
	assert.Equal(t, "cleaned", out)
}

func TestCallCleanupIsSetupCallCleanupWithTrueSetup(t *testing.T) {
	m := newTestMachine(t)
	var sols []Substitution
	out := captureStdout(t, func() {
		sols = solveAll(t, m, `call_cleanup(write(ran), write(cleaned))`)
	})
	require.Len(t, sols, 1)
	assert.Equal(t, "rancleaned", out)
}
