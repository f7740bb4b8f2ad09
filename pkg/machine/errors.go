// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"errors"
	"fmt"
)

var (
	ErrProgramTooLarge   = errors.New("program too large to fit in memory")
	ErrFetchOutOfBounds  = errors.New("program counter out of bounds")
	ErrUnalignedFetch    = errors.New("program counter not aligned to an instruction")
	ErrStackOverflow     = errors.New("call stack overflow")
	ErrStackUnderflow    = errors.New("call stack underflow")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrMemoryOutOfBounds = errors.New("memory access out of bounds")
	ErrKeyOutOfRange     = errors.New("key index out of range")
)

// Fault is returned by Step when an instruction cannot be executed. The
// machine state is left as it was before the faulting instruction.
type Fault struct {
	Err     error
	Program uint16
	Opcode  uint16
}

func (f *Fault) Error() string {
	if errors.Is(f.Err, ErrFetchOutOfBounds) || errors.Is(f.Err, ErrUnalignedFetch) {
		return fmt.Sprintf("%v at %#04x", f.Err, f.Program)
	}

	return fmt.Sprintf("%v at %#04x (opcode %#04x)", f.Err, f.Program, f.Opcode)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
