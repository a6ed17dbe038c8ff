package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reagent/internal/capability"
	"reagent/internal/llm"
	"reagent/internal/logger"
)

// Status is the terminal state of a run.
type Status string

const (
	// StatusAnswered means the model produced a final answer.
	StatusAnswered Status = "answered"
	// StatusExhausted means the iteration budget ran out first.
	StatusExhausted Status = "exhausted"
)

// ExhaustedAnswer is the fixed result returned when the iteration budget is
// consumed without a final answer.
const ExhaustedAnswer = "iteration limit reached"

const (
	answerMarker      = "Answer"
	pauseMarker       = "PAUSE"
	actionMarker      = "Action"
	observationPrefix = "Observation: "
)

// Config holds per-agent settings.
type Config struct {
	MaxIterations int
	Temperature   float32
	MaxTokens     int
}

// Input carries one run's query and observability sink.
type Input struct {
	Query  string
	Logger *logger.Logger
}

// Output is the result of a completed run.
type Output struct {
	Answer     string
	Status     Status
	Transcript []llm.Message
	Iterations int
}

// Agent drives the reason-act-observe loop: it requests a completion over
// the transcript, extracts at most one directive from it, dispatches the
// named capability, and feeds the observation back as the next user prompt.
type Agent struct {
	name         string
	systemPrompt string
	llmClient    llm.Client
	registry     *capability.Registry
	config       *Config
}

func NewAgent(name, systemPrompt string, client llm.Client, registry *capability.Registry, cfg *Config) *Agent {
	if cfg == nil {
		cfg = &Config{}
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 10
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	return &Agent{
		name:         name,
		systemPrompt: systemPrompt,
		llmClient:    client,
		registry:     registry,
		config:       cfg,
	}
}

func (a *Agent) Name() string {
	return a.name
}

// Run executes the loop for a single query. It returns an error only when
// the completion source fails; every capability or protocol fault is
// recovered inside the loop and surfaces to the model as an observation.
func (a *Agent) Run(ctx context.Context, input *Input) (*Output, error) {
	rc := newRunContext(input.Logger)
	rc.Logger.SessionStart(input.Query)

	transcript := NewTranscript(a.systemPrompt)
	nextPrompt := input.Query

	for i := 0; i < a.config.MaxIterations; i++ {
		rc.Iteration = i + 1

		if nextPrompt != "" {
			transcript.AppendUser(nextPrompt)
		}

		rc.Logger.Info("Iteration %d/%d: requesting completion", rc.Iteration, a.config.MaxIterations)

		completion, err := a.llmClient.Complete(ctx, &llm.CompletionRequest{
			Messages:    transcript.Messages(),
			Temperature: a.config.Temperature,
			MaxTokens:   a.config.MaxTokens,
		})
		if err != nil {
			rc.Logger.Error("Completion request failed: %v", err)
			return nil, fmt.Errorf("completion request failed: %w", err)
		}

		transcript.AppendAssistant(completion)
		rc.LogResponse(completion)

		// Terminal check comes first: an Answer ends the run verbatim,
		// regardless of any Action/PAUSE markers in the same text.
		if strings.Contains(completion, answerMarker) {
			rc.Logger.SessionEnd(time.Since(rc.StartTime), rc.Iteration, rc.CapabilityCalls)
			return &Output{
				Answer:     completion,
				Status:     StatusAnswered,
				Transcript: transcript.Messages(),
				Iterations: rc.Iteration,
			}, nil
		}

		// A malformed response consumes one iteration; the previous prompt
		// is re-sent and the budget prevents an infinite stall.
		if !strings.Contains(completion, pauseMarker) || !strings.Contains(completion, actionMarker) {
			rc.Logger.Warn("Invalid response format (missing PAUSE or Action), re-prompting")
			continue
		}

		directive := ExtractDirective(completion)
		if directive == nil {
			rc.Logger.Warn("Failed to extract action from response, re-prompting")
			continue
		}

		c, err := a.registry.Get(directive.Name)
		if err != nil {
			// Not fatal: the model sees the miss and can self-correct.
			rc.Logger.Warn("Unknown capability %q requested", directive.Name)
			nextPrompt = fmt.Sprintf("%sTool '%s' not found", observationPrefix, directive.Name)
			continue
		}

		rc.LogCapabilityCall(directive.Name, directive.Argument)
		start := time.Now()
		result := c.Execute(ctx, directive.Argument)
		rc.LogObservation(directive.Name, result, time.Since(start))

		nextPrompt = observationPrefix + result
	}

	rc.Logger.Warn("Iteration budget (%d) exhausted without an answer", a.config.MaxIterations)
	rc.Logger.SessionEnd(time.Since(rc.StartTime), a.config.MaxIterations, rc.CapabilityCalls)

	return &Output{
		Answer:     ExhaustedAnswer,
		Status:     StatusExhausted,
		Transcript: transcript.Messages(),
		Iterations: a.config.MaxIterations,
	}, nil
}
