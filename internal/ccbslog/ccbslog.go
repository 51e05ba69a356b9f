// Package ccbslog wraps go.uber.org/zap for the high-level search loop's
// tracing output (node pops, conflict classification, pruning), the same
// structured logger Navigatorx uses throughout its server. Logging is
// synchronous and silent by default, matching spec.md §5's "no operation
// suspends externally" — a disabled logger costs nothing but a level check.
package ccbslog

import (
	"go.uber.org/zap"

	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Logger traces high-level search events. The zero value is a safe no-op
// logger (Nop()).
type Logger struct {
	z *zap.Logger
}

// Nop returns a Logger that discards everything, the default when no
// logger is supplied.
func Nop() Logger { return Logger{z: zap.NewNop()} }

// New wraps an existing zap.Logger.
func New(z *zap.Logger) Logger { return Logger{z: z} }

// Production builds a Logger with zap's production JSON encoder.
func Production() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return Logger{}, err
	}
	return Logger{z: z}, nil
}

func (l Logger) base() *zap.Logger {
	if l.z == nil {
		return zap.NewNop()
	}
	return l.z
}

// NodePopped traces one high-level node dequeue.
func (l Logger) NodePopped(runID string, idx int, g, h float64, conflicts int) {
	l.base().Debug("hln popped",
		zap.String("run_id", runID),
		zap.Int("node", idx),
		zap.Float64("g", g),
		zap.Float64("h", h),
		zap.Int("conflicts", conflicts),
	)
}

// ConflictClassified traces a classification decision.
func (l Logger) ConflictClassified(runID string, a, b roadmap.AgentID, class string) {
	l.base().Debug("conflict classified",
		zap.String("run_id", runID),
		zap.Int("agent_a", int(a)),
		zap.Int("agent_b", int(b)),
		zap.String("class", class),
	)
}

// NodePruned traces a child that was never enqueued (infeasible or
// dominated).
func (l Logger) NodePruned(runID string, reason string) {
	l.base().Debug("hln pruned", zap.String("run_id", runID), zap.String("reason", reason))
}

// SearchFinished traces the terminal outcome of one Solve call.
func (l Logger) SearchFinished(runID string, found bool, reason string, expanded int) {
	l.base().Info("search finished",
		zap.String("run_id", runID),
		zap.Bool("found", found),
		zap.String("reason", reason),
		zap.Int("high_level_expanded", expanded),
	)
}

// Sync flushes any buffered log entries; call before process exit.
func (l Logger) Sync() error {
	if l.z == nil {
		return nil
	}
	return l.z.Sync()
}
