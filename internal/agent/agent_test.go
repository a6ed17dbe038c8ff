package agent

import (
	"context"
	"fmt"
	"testing"

	"reagent/internal/capability"
	"reagent/internal/capability/builtin"
	"reagent/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned completions in order and records every
// request it receives.
type scriptedClient struct {
	completions []string
	calls       int
	requests    [][]llm.Message
}

func (s *scriptedClient) Complete(ctx context.Context, req *llm.CompletionRequest) (string, error) {
	s.requests = append(s.requests, req.Messages)
	if s.calls >= len(s.completions) {
		return "", fmt.Errorf("no scripted completion for call %d", s.calls+1)
	}
	completion := s.completions[s.calls]
	s.calls++
	return completion, nil
}

func (s *scriptedClient) Provider() string { return "scripted" }
func (s *scriptedClient) Model() string    { return "scripted" }

// recordingCapability captures its arguments and returns a fixed result.
type recordingCapability struct {
	name   string
	result string
	args   []string
}

func (r *recordingCapability) Name() string        { return r.name }
func (r *recordingCapability) Description() string { return "recording test capability" }
func (r *recordingCapability) Example() string     { return "" }

func (r *recordingCapability) Execute(ctx context.Context, argument string) string {
	r.args = append(r.args, argument)
	return r.result
}

func newTestAgent(client llm.Client, registry *capability.Registry, maxIterations int) *Agent {
	return NewAgent("test", "system prompt", client, registry, &Config{MaxIterations: maxIterations})
}

func lastUserMessage(t *testing.T, msgs []llm.Message) string {
	t.Helper()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == llm.RoleUser {
			return msgs[i].Content
		}
	}
	t.Fatal("no user message in transcript")
	return ""
}

func TestRunAnswerTerminatesImmediately(t *testing.T) {
	// "Answer" wins even when Action/PAUSE are present in the same text.
	completion := "Thought: done\nAction: calculate: 1 + 1\nPAUSE\nAnswer: it is 2"
	client := &scriptedClient{completions: []string{completion}}
	recorder := &recordingCapability{name: "calculate", result: "2"}

	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(recorder))

	out, err := newTestAgent(client, registry, 5).Run(context.Background(), &Input{Query: "what is 1+1?"})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, out.Status)
	assert.Equal(t, completion, out.Answer)
	assert.Equal(t, 1, out.Iterations)
	assert.Equal(t, 1, client.calls)
	assert.Empty(t, recorder.args, "no capability may run on a terminal turn")
}

func TestRunMalformedResponseConsumesOneIteration(t *testing.T) {
	client := &scriptedClient{completions: []string{
		"Thought: I forgot the protocol entirely",
		"Answer: recovered",
	}}
	recorder := &recordingCapability{name: "calculate", result: "4"}

	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(recorder))

	out, err := newTestAgent(client, registry, 5).Run(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, out.Status)
	assert.Equal(t, 2, out.Iterations)
	assert.Empty(t, recorder.args, "malformed response must not dispatch a capability")

	// The query is re-sent on the second iteration.
	assert.Equal(t, "q", lastUserMessage(t, client.requests[1]))
}

func TestRunDispatchesCalculate(t *testing.T) {
	client := &scriptedClient{completions: []string{
		"Thought: x\nAction: calculate: 2 + 2\nPAUSE",
		"Answer: 4",
	}}

	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(builtin.NewCalculateCapability()))

	out, err := newTestAgent(client, registry, 5).Run(context.Background(), &Input{Query: "what is 2+2?"})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, out.Status)
	// The observation from the first turn is the user prompt of the second.
	assert.Equal(t, "Observation: 4", lastUserMessage(t, client.requests[1]))
}

func TestRunUnknownCapabilityObservation(t *testing.T) {
	client := &scriptedClient{completions: []string{
		"Action: unknown_tool: foo\nPAUSE",
		"Answer: giving up",
	}}

	out, err := newTestAgent(client, capability.NewRegistry(), 5).Run(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, StatusAnswered, out.Status)
	assert.Equal(t, "Observation: Tool 'unknown_tool' not found", lastUserMessage(t, client.requests[1]))
}

func TestRunOnlyFirstDirectiveDispatched(t *testing.T) {
	client := &scriptedClient{completions: []string{
		"Action: first: one\nAction: second: two\nPAUSE",
		"Answer: done",
	}}
	first := &recordingCapability{name: "first", result: "r1"}
	second := &recordingCapability{name: "second", result: "r2"}

	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(first))
	require.NoError(t, registry.Register(second))

	_, err := newTestAgent(client, registry, 5).Run(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, []string{"one"}, first.args)
	assert.Empty(t, second.args)
}

func TestRunExhaustsIterationBudget(t *testing.T) {
	const maxIterations = 3

	completions := make([]string, maxIterations)
	for i := range completions {
		completions[i] = "Thought: spinning in circles"
	}
	client := &scriptedClient{completions: completions}

	out, err := newTestAgent(client, capability.NewRegistry(), maxIterations).Run(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)

	assert.Equal(t, StatusExhausted, out.Status)
	assert.Equal(t, ExhaustedAnswer, out.Answer)
	assert.Equal(t, maxIterations, out.Iterations)
	assert.Equal(t, maxIterations, client.calls, "no completions may be requested after exhaustion")
}

func TestRunTranscriptInvariant(t *testing.T) {
	const maxIterations = 4

	// Mix of well-formed dispatches and format faults.
	client := &scriptedClient{completions: []string{
		"Action: echo: a\nPAUSE",
		"Thought: malformed",
		"Action: echo: b\nPAUSE",
		"Thought: malformed again",
	}}
	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(&recordingCapability{name: "echo", result: "ok"}))

	out, err := newTestAgent(client, registry, maxIterations).Run(context.Background(), &Input{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, StatusExhausted, out.Status)

	users, assistants, systems := 0, 0, 0
	for i, msg := range out.Transcript {
		switch msg.Role {
		case llm.RoleUser:
			users++
		case llm.RoleAssistant:
			assistants++
		case llm.RoleSystem:
			systems++
			assert.Equal(t, 0, i, "system message must be first")
		}
	}

	assert.Equal(t, maxIterations, users)
	assert.Equal(t, maxIterations, assistants)
	assert.Equal(t, 1, systems)
}

func TestRunCompletionFailureIsFatal(t *testing.T) {
	client := &scriptedClient{} // fails on the first call

	out, err := newTestAgent(client, capability.NewRegistry(), 5).Run(context.Background(), &Input{Query: "q"})
	assert.Error(t, err)
	assert.Nil(t, out)
}

func TestBuildSystemPromptListsActions(t *testing.T) {
	registry := capability.NewRegistry()
	require.NoError(t, registry.Register(builtin.NewCalculateCapability()))

	prompt := BuildSystemPrompt(registry)
	assert.Contains(t, prompt, "Thought, Action, PAUSE, Observation")
	assert.Contains(t, prompt, "calculate:\ne.g. calculate: 4 * 7 / 3")
}
