package agent

import "reagent/internal/llm"

// Transcript is the append-only conversation history sent to the language
// model on every turn. At most one system message exists and it is always
// first; it can only be set at construction, so the invariant holds by
// construction. Messages are never edited or removed.
type Transcript struct {
	messages []llm.Message
}

// NewTranscript creates a transcript, seeding it with a system message when
// systemPrompt is non-empty.
func NewTranscript(systemPrompt string) *Transcript {
	t := &Transcript{}
	if systemPrompt != "" {
		t.messages = append(t.messages, llm.Message{
			Role:    llm.RoleSystem,
			Content: systemPrompt,
		})
	}
	return t
}

// AppendUser appends a user message.
func (t *Transcript) AppendUser(content string) {
	t.messages = append(t.messages, llm.Message{Role: llm.RoleUser, Content: content})
}

// AppendAssistant appends an assistant message.
func (t *Transcript) AppendAssistant(content string) {
	t.messages = append(t.messages, llm.Message{Role: llm.RoleAssistant, Content: content})
}

// Messages returns a copy of the transcript for sending to the model.
func (t *Transcript) Messages() []llm.Message {
	out := make([]llm.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages, including any system message.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Count returns how many messages carry the given role.
func (t *Transcript) Count(role llm.Role) int {
	n := 0
	for _, m := range t.messages {
		if m.Role == role {
			n++
		}
	}
	return n
}
