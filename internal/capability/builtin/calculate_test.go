package builtin

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateReturnsNumberText(t *testing.T) {
	c := NewCalculateCapability()

	assert.Equal(t, "4", c.Execute(context.Background(), "2 + 2"))
	assert.Equal(t, "2.5", c.Execute(context.Background(), "10 / 4"))
	assert.Equal(t, "1024", c.Execute(context.Background(), "2 ** 10"))
}

func TestCalculateFailsSafelyOnNonArithmetic(t *testing.T) {
	c := NewCalculateCapability()

	for _, arg := range []string{"", "import os", "x + 1", "open('/etc/passwd')", "1 / 0"} {
		out := c.Execute(context.Background(), arg)
		assert.True(t, strings.HasPrefix(out, "calculation failed: "), "argument %q produced %q", arg, out)
	}
}
