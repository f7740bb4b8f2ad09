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

type MachineState struct {
	Memory    [MemorySize]byte
	Registers [RegisterCount]uint8
	Index     uint16
	Program   uint16
	Stack     [StackSize]uint16
	StackPtr  uint8
	Delay     uint8
	Sound     uint8
	Display   Display
	Dirty     bool
	Keys      [KeyCount]bool
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger

	// Random supplies the bytes masked by CXNN. A nil source uses a uniform
	// pseudo-random byte.
	Random func() byte

	waiting bool
}
