package agent

import (
	"time"

	"reagent/internal/logger"
)

// runContext tracks the execution state of a single run and provides
// logging helpers.
type runContext struct {
	Logger          *logger.Logger
	StartTime       time.Time
	Iteration       int
	CapabilityCalls int
}

func newRunContext(log *logger.Logger) *runContext {
	if log == nil {
		log = logger.NewLogger(nil, logger.LevelError)
	}
	return &runContext{
		Logger:    log,
		StartTime: time.Now(),
	}
}

// LogCapabilityCall logs a dispatched directive.
func (rc *runContext) LogCapabilityCall(name, argument string) {
	rc.CapabilityCalls++
	rc.Logger.CapabilityCall(name, argument)
}

// LogObservation logs a capability result.
func (rc *runContext) LogObservation(name, text string, duration time.Duration) {
	rc.Logger.Observation(name, text, duration)
}

// LogResponse logs the agent's completion text.
func (rc *runContext) LogResponse(content string) {
	rc.Logger.AgentResponse(content)
}
