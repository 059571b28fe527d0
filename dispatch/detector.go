package dispatch

import (
	"context"
	"fmt"
)

type schedulerKey struct{}

// SchedulerCap marks a context as running under a cooperative scheduler.
// Host runtimes that manage their own suspending callers attach one via
// WithScheduler so the detector can recognize them.
type SchedulerCap interface {
	SchedulerName() string
}

type schedulerCap struct {
	name string
}

func (s schedulerCap) SchedulerName() string { return s.name }

// WithScheduler marks ctx as originating from a cooperative scheduler.
// Calls detected under such a context run in suspending mode.
func WithScheduler(ctx context.Context) context.Context {
	return context.WithValue(ctx, schedulerKey{}, schedulerCap{name: "dispatch"})
}

// WithSchedulerValue attaches an arbitrary scheduler marker. Foreign
// markers that do not implement SchedulerCap are treated as ambiguous
// by the detector.
func WithSchedulerValue(ctx context.Context, marker any) context.Context {
	return context.WithValue(ctx, schedulerKey{}, marker)
}

// Detector resolves the execution mode for a single call. Detection is a
// pure synchronous probe of the context: it never blocks, never spawns
// work, and never fails the call.
type Detector struct {
	diags *Diagnostics
}

func NewDetector(diags *Diagnostics) *Detector {
	return &Detector{diags: diags}
}

// Detect returns ModeSuspending when ctx carries a recognized scheduler
// marker and ModeBlocking otherwise. An unrecognized marker defaults to
// ModeBlocking and publishes an AmbiguousContextWarning instead of
// failing the caller.
func (d *Detector) Detect(ctx context.Context) ExecutionMode {
	marker := ctx.Value(schedulerKey{})
	if marker == nil {
		return ModeBlocking
	}
	if _, ok := marker.(SchedulerCap); ok {
		return ModeSuspending
	}
	d.diags.Publish(AmbiguousContextWarning{Marker: fmt.Sprintf("%T", marker)})
	return ModeBlocking
}
