package ports

// OutcomeRecorder counts orchestrator results by operation and outcome label.
type OutcomeRecorder interface {
	RecordAuthOutcome(operation string, outcome string)
}

// NopOutcomeRecorder discards every observation.
type NopOutcomeRecorder struct{}

func (NopOutcomeRecorder) RecordAuthOutcome(string, string) {}
