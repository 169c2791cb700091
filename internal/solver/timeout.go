package solver

import "time"

// TimeBounded wraps a Solver with a wall-clock limit. On timeout it
// returns INFEASIBLE with reason TIMEOUT, as required of long-running
// solves, and the inner solver's goroutine is abandoned (it holds no
// state shared with the caller, so leaking it until it finishes on its
// own is safe).
type TimeBounded struct {
	Inner   Solver
	Timeout time.Duration
}

// Solve implements Solver.
func (t TimeBounded) Solve(model Model) Result {
	if t.Timeout <= 0 {
		return t.Inner.Solve(model)
	}

	done := make(chan Result, 1)
	go func() {
		done <- t.Inner.Solve(model)
	}()

	select {
	case res := <-done:
		return res
	case <-time.After(t.Timeout):
		return Result{Feasible: false, Status: StatusInfeasible, Reason: string(StatusTimeout)}
	}
}
