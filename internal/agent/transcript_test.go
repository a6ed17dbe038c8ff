package agent

import (
	"testing"

	"reagent/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscriptSystemMessageFirst(t *testing.T) {
	tr := NewTranscript("be helpful")
	tr.AppendUser("hi")
	tr.AppendAssistant("hello")

	msgs := tr.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, "be helpful", msgs[0].Content)
	assert.Equal(t, 1, tr.Count(llm.RoleSystem))
}

func TestTranscriptWithoutSystemMessage(t *testing.T) {
	tr := NewTranscript("")
	tr.AppendUser("hi")

	assert.Equal(t, 0, tr.Count(llm.RoleSystem))
	assert.Equal(t, 1, tr.Len())
}

func TestTranscriptMessagesIsACopy(t *testing.T) {
	tr := NewTranscript("sys")
	tr.AppendUser("hi")

	msgs := tr.Messages()
	msgs[0].Content = "mutated"

	assert.Equal(t, "sys", tr.Messages()[0].Content)
}
