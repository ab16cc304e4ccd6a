package tablegate

import (
	"errors"
	"fmt"
)

// Mutation is a single intended change to a row. The set of variants is closed:
// SetCell, DeleteRow, DeleteCells and DeleteFamily.
type Mutation interface {
	isMutation()
	// Validate reports whether the mutation can be submitted as-is.
	Validate() error
}

// SetCell writes Value at family:qualifier. A zero Timestamp lets the gateway
// assign the current time. Bigtable keeps millisecond granularity, so a
// Timestamp in microseconds must be a multiple of 1000.
type SetCell struct {
	Family    string
	Qualifier []byte
	Value     []byte
	Timestamp int64
}

// DeleteRow removes every cell in the row.
type DeleteRow struct{}

// DeleteCells removes every version stored at family:qualifier.
type DeleteCells struct {
	Family    string
	Qualifier []byte
}

// DeleteFamily removes every cell of a family in the row.
type DeleteFamily struct {
	Family string
}

func (SetCell) isMutation()      {}
func (DeleteRow) isMutation()    {}
func (DeleteCells) isMutation()  {}
func (DeleteFamily) isMutation() {}

func (m SetCell) Validate() error {
	var errGrp []error
	if m.Family == "" {
		errGrp = append(errGrp, errors.New("family required"))
	}
	if len(m.Qualifier) == 0 {
		errGrp = append(errGrp, errors.New("qualifier required"))
	}
	if m.Timestamp < 0 {
		errGrp = append(errGrp, fmt.Errorf("timestamp must not be negative: %d", m.Timestamp))
	} else if m.Timestamp%1000 != 0 {
		errGrp = append(errGrp, fmt.Errorf("timestamp must be a multiple of 1000 microseconds: %d", m.Timestamp))
	}
	return errors.Join(errGrp...)
}

func (DeleteRow) Validate() error { return nil }

func (m DeleteCells) Validate() error {
	var errGrp []error
	if m.Family == "" {
		errGrp = append(errGrp, errors.New("family required"))
	}
	if len(m.Qualifier) == 0 {
		errGrp = append(errGrp, errors.New("qualifier required"))
	}
	return errors.Join(errGrp...)
}

func (m DeleteFamily) Validate() error {
	if m.Family == "" {
		return errors.New("family required")
	}
	return nil
}
