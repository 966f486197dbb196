package pipeline

import (
	"log/slog"
	"time"
)

// EventType represents a lifecycle phase of a pipeline run
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventRunEnd      EventType = "run_end"
	EventStepStart   EventType = "step_start"
	EventStepEnd     EventType = "step_end"
	EventStepSkipped EventType = "step_skipped"
)

// Event represents a lifecycle event of a pipeline run
type Event struct {
	Type      EventType
	RunID     string    // Run ID for tracing
	Timestamp time.Time // When the event occurred
	Index     int       // Step position (-1 for run events)
	Kind      StepKind  // Step kind (empty for run events)
	RowsIn    int
	RowsOut   int
	Err       error // Set on EventStepSkipped and on steps that skipped rows
}

// Observer receives events at each step boundary
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver logs every event through slog
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger means slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	attrs := []any{
		"event", event.Type,
		"run_id", event.RunID,
	}
	if event.Index >= 0 {
		attrs = append(attrs, "step", event.Index, "kind", event.Kind)
	}
	attrs = append(attrs, "rows_in", event.RowsIn)

	switch event.Type {
	case EventStepSkipped:
		lo.logger.Warn("pipeline_step_skipped", append(attrs, "error", event.Err)...)
	case EventStepEnd:
		attrs = append(attrs, "rows_out", event.RowsOut)
		if event.Err != nil {
			lo.logger.Warn("pipeline_step_rows_skipped", append(attrs, "error", event.Err)...)
			return
		}
		lo.logger.Debug("pipeline_lifecycle", attrs...)
	case EventRunEnd:
		lo.logger.Info("pipeline_lifecycle", append(attrs, "rows_out", event.RowsOut)...)
	default:
		lo.logger.Debug("pipeline_lifecycle", attrs...)
	}
}
