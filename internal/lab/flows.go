// Package lab holds the interactive analysis tools layered on the valuation
// engine: an editable cash-flow table, an interest-factor formula chain and a
// two-project comparison.
package lab

import (
	"errors"
	"fmt"

	"github.com/iwvelando/mine-npv/pkg/dcf"
)

// ErrRowIndex is returned when a row index is outside the table.
var ErrRowIndex = errors.New("row index out of range")

// DefaultFlowRows returns the starting rows of a new flow table.
func DefaultFlowRows() []dcf.FlowRow {
	return []dcf.FlowRow{
		{Year: 0, Amount: dcf.Of(-50)},
		{Year: 1, Amount: dcf.Of(10)},
		{Year: 2, Amount: dcf.Of(15)},
		{Year: 3, Amount: dcf.Of(20)},
	}
}

// FlowTable is an editable list of irregular cash-flow rows. It is not safe
// for concurrent use.
type FlowTable struct {
	rows []dcf.FlowRow
}

// NewFlowTable creates a table holding the given rows, or the default rows
// when none are given.
func NewFlowTable(rows []dcf.FlowRow) *FlowTable {
	if len(rows) == 0 {
		rows = DefaultFlowRows()
	}
	copied := make([]dcf.FlowRow, len(rows))
	copy(copied, rows)
	return &FlowTable{rows: copied}
}

// Rows returns a copy of the current rows.
func (t *FlowTable) Rows() []dcf.FlowRow {
	rows := make([]dcf.FlowRow, len(t.rows))
	copy(rows, t.rows)
	return rows
}

// Len returns the number of rows.
func (t *FlowTable) Len() int {
	return len(t.rows)
}

// AddRow appends a zero-amount row labelled with the next index.
func (t *FlowTable) AddRow() {
	t.rows = append(t.rows, dcf.FlowRow{Year: len(t.rows), Amount: dcf.Of(0)})
}

// UpdateRow sets the amount of row i.
func (t *FlowTable) UpdateRow(i int, amount dcf.Value) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.rows[i].Amount = amount
	return nil
}

// RemoveRow deletes row i and relabels every remaining row with its index.
func (t *FlowTable) RemoveRow(i int) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	for j := range t.rows {
		t.rows[j].Year = j
	}
	return nil
}

// CopyRow appends a copy of row i's amount labelled with the next index.
func (t *FlowTable) CopyRow(i int) error {
	if err := t.check(i); err != nil {
		return err
	}
	t.rows = append(t.rows, dcf.FlowRow{Year: len(t.rows), Amount: t.rows[i].Amount})
	return nil
}

// Clear resets the table to a single zero row at year 0.
func (t *FlowTable) Clear() {
	t.rows = []dcf.FlowRow{{Year: 0, Amount: dcf.Of(0)}}
}

// Compute values the current rows at the given discount rate.
func (t *FlowTable) Compute(discountRate dcf.Value) (dcf.IrregularResult, error) {
	return dcf.ComputeIrregular(t.rows, discountRate)
}

func (t *FlowTable) check(i int) error {
	if i < 0 || i >= len(t.rows) {
		return fmt.Errorf("%w: %d (table has %d rows)", ErrRowIndex, i, len(t.rows))
	}
	return nil
}
