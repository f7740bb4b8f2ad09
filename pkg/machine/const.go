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

const (
	MemorySize    = 0x1000
	RegisterCount = 16
	StackSize     = 16
	KeyCount      = 16

	DisplayWidth  = 64
	DisplayHeight = 32
)

const (
	MemspaceReserved uint16 = 0x0000
	MemspaceFont     uint16 = 0x0050
	MemspaceProgram  uint16 = 0x0200
)

// MaxProgramSize is the largest image that fits between MemspaceProgram and
// the end of memory.
const MaxProgramSize = MemorySize - int(MemspaceProgram)

// FlagRegister is overwritten by arithmetic, shift and draw instructions.
const FlagRegister = 0xF

const (
	GlyphSize  = 5
	GlyphCount = 16
)

// Instruction families, selected by the top nibble of the instruction word.
const (
	OpSystem   uint16 = 0x0000
	OpJump     uint16 = 0x1000
	OpCall     uint16 = 0x2000
	OpSkipEq   uint16 = 0x3000
	OpSkipNe   uint16 = 0x4000
	OpSkipReg  uint16 = 0x5000
	OpLoad     uint16 = 0x6000
	OpAdd      uint16 = 0x7000
	OpALU      uint16 = 0x8000
	OpSkipNReg uint16 = 0x9000
	OpIndex    uint16 = 0xA000
	OpJumpV0   uint16 = 0xB000
	OpRandom   uint16 = 0xC000
	OpDraw     uint16 = 0xD000
	OpKey      uint16 = 0xE000
	OpMisc     uint16 = 0xF000
)

// Secondary selectors.
const (
	SysClear  uint16 = 0x00E0
	SysReturn uint16 = 0x00EE

	AluMove uint8 = 0x0
	AluOr   uint8 = 0x1
	AluAnd  uint8 = 0x2
	AluXor  uint8 = 0x3
	AluAdd  uint8 = 0x4
	AluSub  uint8 = 0x5
	AluShr  uint8 = 0x6
	AluSubn uint8 = 0x7
	AluShl  uint8 = 0xE

	KeySkipPressed    uint8 = 0x9E
	KeySkipNotPressed uint8 = 0xA1

	MiscGetDelay  uint8 = 0x07
	MiscWaitKey   uint8 = 0x0A
	MiscSetDelay  uint8 = 0x15
	MiscSetSound  uint8 = 0x18
	MiscAddIndex  uint8 = 0x1E
	MiscFont      uint8 = 0x29
	MiscBCD       uint8 = 0x33
	MiscStoreRegs uint8 = 0x55
	MiscLoadRegs  uint8 = 0x65
)

// Font holds the built-in 4x5 hexadecimal glyphs 0-F, loaded at MemspaceFont.
var Font = [GlyphSize * GlyphCount]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}
