// Package dispatch decides how a facade operation is scheduled: run to
// completion on the calling goroutine, or handed to the runner and
// awaited through a Future. The mode is an explicit tagged value carried
// on the context, never inferred from the call stack.
package dispatch

// ExecutionMode selects the scheduling strategy for one call. It is
// computed per call for the smart facade and never persisted.
type ExecutionMode int

const (
	// ModeBlocking executes every operation to completion on the calling
	// goroutine before returning, including network round trips.
	ModeBlocking ExecutionMode = iota

	// ModeSuspending executes the operation on the runner, yielding
	// control to the caller until the result is awaited.
	ModeSuspending

	// ModeAuto defers the choice to the context detector at each call.
	// Only meaningful as a factory argument.
	ModeAuto
)

func (m ExecutionMode) String() string {
	switch m {
	case ModeBlocking:
		return "blocking"
	case ModeSuspending:
		return "suspending"
	case ModeAuto:
		return "auto"
	}
	return "unknown"
}
