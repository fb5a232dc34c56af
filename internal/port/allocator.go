// Package port assigns each prototype a unique exit-port code. Codes are a
// dense ascending sequence in input order starting at a configured base, with
// one reserved code immediately below the base for the out-of-band control
// operation.
package port

import (
	"fmt"

	"hypercall-generator/internal/proto"
)

// AllocationError reports two prototypes sharing one function name. Left
// unchecked this would silently assign the artifacts colliding port codes, so
// allocation fails before anything is written.
type AllocationError struct {
	// Function is the duplicated function name.
	Function string
	// FirstLine and DuplicateLine are the input lines carrying the name.
	FirstLine     int
	DuplicateLine int
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("duplicate function name %q (lines %d and %d): port codes would collide",
		e.Function, e.FirstLine, e.DuplicateLine)
}

// Table is the bijection from function name to port code for one run.
type Table struct {
	base  int
	names []string
	codes map[string]int
	lines map[string]int
}

// Allocate assigns codes base+0, base+1, ... to the prototypes in input
// order. It fails on duplicate function names.
func Allocate(protos []*proto.Prototype, base int) (*Table, error) {
	t := &Table{
		base:  base,
		codes: make(map[string]int, len(protos)),
		lines: make(map[string]int, len(protos)),
	}

	for i, p := range protos {
		if first, ok := t.lines[p.Name]; ok {
			return nil, &AllocationError{
				Function:      p.Name,
				FirstLine:     first,
				DuplicateLine: p.Line,
			}
		}

		t.names = append(t.names, p.Name)
		t.codes[p.Name] = base + i
		t.lines[p.Name] = p.Line
	}

	return t, nil
}

// Base returns the first non-reserved port code.
func (t *Table) Base() int {
	return t.base
}

// Reserved returns the control operation's code, one below the base.
func (t *Table) Reserved() int {
	return t.base - 1
}

// Code returns the port code assigned to the named function.
func (t *Table) Code(name string) (int, bool) {
	code, ok := t.codes[name]
	return code, ok
}

// Names returns the function names in allocation order.
func (t *Table) Names() []string {
	return t.names
}

// Len returns the number of allocated (non-reserved) ports.
func (t *Table) Len() int {
	return len(t.names)
}
