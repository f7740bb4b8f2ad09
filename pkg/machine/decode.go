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
	"github.com/lassandro/gochip8/pkg/encoding"
)

// Instruction is a fetched instruction word split into its operand fields.
// Every field is always populated; each family uses the subset it needs.
type Instruction struct {
	Word  uint16
	Class uint16
	X     uint8
	Y     uint8
	N     uint8
	NN    uint8
	NNN   uint16
}

// ---- [ _ _ _ _ | _ _ _ _ | _ _ _ _ | _ _ _ _ ]
//      | class   | X       | Y       | N       |
//                          | NN                |
//                | NNN                         |
func Decode(word uint16) Instruction {
	return Instruction{
		Word:  word,
		Class: word & 0xF000,
		X:     uint8((word & 0x0F00) >> 8),
		Y:     uint8((word & 0x00F0) >> 4),
		N:     uint8(word & 0x000F),
		NN:    uint8(word & 0x00FF),
		NNN:   word & 0x0FFF,
	}
}

func (mc *Machine) fetch() (uint16, error) {
	pc := mc.State.Program

	if int(pc)+1 >= MemorySize {
		return 0, ErrFetchOutOfBounds
	}

	if pc%2 != 0 {
		return 0, ErrUnalignedFetch
	}

	return encoding.JoinWord(mc.read(pc), mc.read(pc+1)), nil
}
