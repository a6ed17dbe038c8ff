package agent

import (
	"fmt"

	"reagent/internal/capability"
)

const promptTemplate = `You run in a loop of Thought, Action, PAUSE, Observation.
At the end of the loop you output an Answer.
Use Thought to describe your thoughts about the question you have been asked.
Use Action to run one of the actions available to you - then return PAUSE.
Observation will be the result of running those actions.

Your available actions are:

%s

Example session:

Question: What is the capital of France?
Thought: I should look up France on the web
Action: wikipedia: France
PAUSE

You will be called again with this:

Observation: France is a country. The capital is Paris.
Thought: I think I have found the answer

You then output:

Answer: The capital of France is Paris

Example session:

Question: What is the mass of Earth times 2?
Thought: I need to find the mass of Earth
Action: wikipedia: mass of earth
PAUSE

You will be called again with this:

Observation: The mass of Earth is 5.972e24 kg

Thought: I need to multiply this by 2
Action: calculate: 5.972e24 * 2
PAUSE

You will be called again with this:

Observation: 1.1944e+25

If you have the answer, output it as the Answer.

Answer: The mass of Earth times 2 is 1.1944e+25 kg.

Now it's your turn:`

// BuildSystemPrompt renders the loop instructions with the action list
// generated from the registry, so the prompt always advertises exactly the
// capabilities the dispatch table can serve.
func BuildSystemPrompt(registry *capability.Registry) string {
	return fmt.Sprintf(promptTemplate, registry.PromptSection())
}
