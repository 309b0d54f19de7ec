package lab

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBlock is returned when a formula block is not a known factor.
var ErrUnknownBlock = errors.New("unknown formula block")

// Blocks lists the standard interest factors in display order.
var Blocks = []string{"P/F", "P/A", "A/P", "A/F", "F/P", "F/A"}

// FormulaChain is an ordered sequence of interest factors to be combined.
type FormulaChain struct {
	blocks []string
}

// NewFormulaChain builds a chain from the given blocks.
func NewFormulaChain(blocks ...string) (*FormulaChain, error) {
	chain := &FormulaChain{}
	for _, block := range blocks {
		if err := chain.Add(block); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

// Add appends a block to the chain.
func (c *FormulaChain) Add(block string) error {
	normalized := strings.ToUpper(strings.ReplaceAll(block, " ", ""))
	for _, known := range Blocks {
		if normalized == known {
			c.blocks = append(c.blocks, known)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownBlock, block)
}

// Blocks returns a copy of the chained blocks.
func (c *FormulaChain) Blocks() []string {
	return append([]string(nil), c.blocks...)
}

// Empty reports whether the chain has no blocks.
func (c *FormulaChain) Empty() bool {
	return len(c.blocks) == 0
}

// Clear removes every block.
func (c *FormulaChain) Clear() {
	c.blocks = nil
}

// String renders the chain as "P/F into P/A".
func (c *FormulaChain) String() string {
	return strings.Join(c.blocks, " into ")
}
