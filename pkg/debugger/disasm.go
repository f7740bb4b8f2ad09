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

package debugger

import (
	"fmt"

	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// Disassemble renders an instruction word as assembly text. Words missing
// from the instruction table are shown as data.
func Disassemble(word uint16) string {
	name := mnemonic(word)

	if name == "" {
		if word&0xF000 == machine.OpSystem {
			return fmt.Sprintf("sys $%03X", word&0x0FFF)
		}
		return fmt.Sprintf(".word $%04X", word)
	}

	if params := operands(word); params != "" {
		return name + " " + params
	}

	return name
}

func mnemonic(word uint16) string {
	for _, op := range chip8.Opcodes[int(word>>12)] {
		if op.Instruction != nil && op.Info.Mask&word == op.Info.Value {
			return op.Instruction.Name
		}
	}

	return ""
}

func operands(word uint16) string {
	ins := machine.Decode(word)

	switch ins.Class {
	case machine.OpSystem:
		if word == machine.SysClear || word == machine.SysReturn {
			return ""
		}
		return fmt.Sprintf("$%03X", ins.NNN)

	case machine.OpJump, machine.OpCall:
		return fmt.Sprintf("$%03X", ins.NNN)

	case machine.OpJumpV0:
		return fmt.Sprintf("V0, $%03X", ins.NNN)

	case machine.OpSkipEq, machine.OpSkipNe, machine.OpLoad, machine.OpAdd, machine.OpRandom:
		return fmt.Sprintf("V%X, $%02X", ins.X, ins.NN)

	case machine.OpSkipReg, machine.OpSkipNReg:
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case machine.OpALU:
		if ins.N == machine.AluShr || ins.N == machine.AluShl {
			return fmt.Sprintf("V%X", ins.X)
		}
		return fmt.Sprintf("V%X, V%X", ins.X, ins.Y)

	case machine.OpIndex:
		return fmt.Sprintf("I, $%03X", ins.NNN)

	case machine.OpDraw:
		return fmt.Sprintf("V%X, V%X, $%X", ins.X, ins.Y, ins.N)

	case machine.OpKey:
		return fmt.Sprintf("V%X", ins.X)

	case machine.OpMisc:
		return miscOperands(ins)
	}

	return ""
}

func miscOperands(ins machine.Instruction) string {
	switch ins.NN {
	case machine.MiscGetDelay:
		return fmt.Sprintf("V%X, DT", ins.X)
	case machine.MiscWaitKey:
		return fmt.Sprintf("V%X, K", ins.X)
	case machine.MiscSetDelay:
		return fmt.Sprintf("DT, V%X", ins.X)
	case machine.MiscSetSound:
		return fmt.Sprintf("ST, V%X", ins.X)
	case machine.MiscAddIndex:
		return fmt.Sprintf("I, V%X", ins.X)
	case machine.MiscFont:
		return fmt.Sprintf("F, V%X", ins.X)
	case machine.MiscBCD:
		return fmt.Sprintf("B, V%X", ins.X)
	case machine.MiscStoreRegs:
		return fmt.Sprintf("[I], V%X", ins.X)
	case machine.MiscLoadRegs:
		return fmt.Sprintf("V%X, [I]", ins.X)
	}

	return ""
}
