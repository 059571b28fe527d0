package dispatch

import (
	"fmt"

	"github.com/rs/zerolog"
)

const defaultWarningBuffer = 16

// Warning is a non-fatal diagnostic surfaced outside the error return
// path. Callers that care drain Warnings; callers that don't lose
// nothing but the hint.
type Warning interface {
	Warning() string
}

// AmbiguousContextWarning reports that the detector saw a scheduler
// marker it did not recognize and defaulted to blocking mode.
type AmbiguousContextWarning struct {
	Marker string // Type description of the foreign marker
}

func (w AmbiguousContextWarning) Warning() string {
	return fmt.Sprintf("unrecognized scheduler marker %s, defaulting to blocking mode", w.Marker)
}

// SyncCallWarning reports a blocking-form call made from a context that
// was detected as suspending. The call still runs, the caller should
// prefer the async form.
type SyncCallWarning struct {
	Operation string
}

func (w SyncCallWarning) Warning() string {
	return fmt.Sprintf("blocking form of %s called from a suspending context, prefer the async form", w.Operation)
}

// Diagnostics fans warnings out to a buffered channel and the logger.
// Publishing never blocks: when no one drains the channel, warnings are
// dropped after logging.
type Diagnostics struct {
	warnings chan Warning
	logger   zerolog.Logger
}

func NewDiagnostics(logger zerolog.Logger) *Diagnostics {
	return &Diagnostics{
		warnings: make(chan Warning, defaultWarningBuffer),
		logger:   logger,
	}
}

// Publish logs the warning and offers it to the channel without blocking.
func (d *Diagnostics) Publish(w Warning) {
	if d == nil {
		return
	}
	d.logger.Warn().Str("warning", fmt.Sprintf("%T", w)).Msg(w.Warning())
	select {
	case d.warnings <- w:
	default:
	}
}

// Warnings exposes the drain side of the diagnostics channel.
func (d *Diagnostics) Warnings() <-chan Warning {
	return d.warnings
}
