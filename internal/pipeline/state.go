package pipeline

import "fmt"

// State is a step of the provisioning state machine:
//
//	Start → Fetched → Validated → Rewritten → Linted → DepsInstalled → GitReady
//
// Failed is reachable only from Start, Fetched and Validated, the stages
// whose failures are cleaned up. A later failure leaves the state at the last
// stage that completed.
type State int

const (
	Start State = iota
	Fetched
	Validated
	Rewritten
	Linted
	DepsInstalled
	GitReady
	Failed
)

var stateNames = [...]string{
	Start:         "start",
	Fetched:       "fetched",
	Validated:     "validated",
	Rewritten:     "rewritten",
	Linted:        "linted",
	DepsInstalled: "deps-installed",
	GitReady:      "git-ready",
	Failed:        "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == GitReady || s == Failed
}

// StageError wraps the error of a failed stage with the stage name and the
// project directory.
type StageError struct {
	Stage string
	Dir   string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed for %s: %v", e.Stage, e.Dir, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
