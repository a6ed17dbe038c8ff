package builtin

import (
	"context"
	"fmt"

	"reagent/internal/calc"
)

// CalculateCapability evaluates arithmetic expressions with a dedicated
// grammar over numbers and + - * / ( ) **. There is no code-evaluation
// surface: anything outside that grammar fails.
type CalculateCapability struct{}

func NewCalculateCapability() *CalculateCapability {
	return &CalculateCapability{}
}

func (c *CalculateCapability) Name() string {
	return "calculate"
}

func (c *CalculateCapability) Description() string {
	return "Runs a calculation and returns the number - supports + - * / ** and parentheses, use floating point syntax if necessary"
}

func (c *CalculateCapability) Example() string {
	return "calculate: 4 * 7 / 3"
}

func (c *CalculateCapability) Execute(ctx context.Context, argument string) string {
	result, err := calc.Evaluate(argument)
	if err != nil {
		return fmt.Sprintf("calculation failed: %v", err)
	}
	return calc.Format(result)
}
