package core

import "go.uber.org/zap"

// Phase identifies a stage of the batch deletion transaction
type Phase string

const (
	// PhaseResolvingRefs is emitted while reading the branch head
	PhaseResolvingRefs Phase = "resolving refs"

	// PhaseResolvingDocuments is emitted once per document being resolved
	PhaseResolvingDocuments Phase = "resolving documents"

	// PhaseCreatingTree is emitted while the deletion tree is constructed
	PhaseCreatingTree Phase = "creating tree"

	// PhaseCreatingCommit is emitted while the commit object is created
	PhaseCreatingCommit Phase = "creating commit"

	// PhaseAdvancingRef is emitted while the branch pointer is updated
	PhaseAdvancingRef Phase = "advancing ref"

	// PhaseDone is the final notification of a successful transaction
	PhaseDone Phase = "done"

	// PhaseFailed is the final notification of a failed transaction
	PhaseFailed Phase = "failed"
)

// Sink receives human-readable progress notifications from a transaction.
//
// Notifications for PhaseResolvingDocuments may be emitted from several
// goroutines when resolution runs concurrently; implementations must
// tolerate concurrent calls.
type Sink interface {
	Notify(phase Phase, message string)
}

// NopSink discards notifications
type NopSink struct{}

// Notify is a no-op
func (NopSink) Notify(Phase, string) {}

type logSink struct {
	l *zap.Logger
}

// LogSink forwards notifications to a zap logger
func LogSink(l *zap.Logger) Sink {
	return logSink{l: l}
}

func (s logSink) Notify(phase Phase, message string) {
	s.l.Info(message, zap.String("phase", string(phase)))
}
