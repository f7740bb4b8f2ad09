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
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/lassandro/gochip8/pkg/encoding"
)

// outcome tells Step how to move the program counter after an instruction.
type outcome uint8

const (
	advance outcome = iota // next instruction
	skip                   // skip the next instruction
	jump                   // handler already set the program counter
	wait                   // leave the program counter, re-execute next cycle
)

func New() *Machine {
	var mc Machine
	mc.State.Reset()
	return &mc
}

func (mc *MachineState) Reset() {
	*mc = MachineState{}

	copy(mc.Memory[MemspaceFont:], Font[:])

	mc.Program = MemspaceProgram
}

// LoadProgram resets the machine and copies image to MemspaceProgram. An
// image that does not fit is rejected before anything is modified.
func (mc *Machine) LoadProgram(image []byte) error {
	if len(image) > MaxProgramSize {
		return fmt.Errorf(
			"%w: %d bytes, %d available", ErrProgramTooLarge, len(image), MaxProgramSize,
		)
	}

	mc.State.Reset()
	mc.waiting = false

	copy(mc.State.Memory[MemspaceProgram:], image)

	return nil
}

func (mc *Machine) LoadBin(reader io.Reader) error {
	image, err := io.ReadAll(io.LimitReader(reader, int64(MaxProgramSize)+1))

	if err != nil {
		return err
	}

	return mc.LoadProgram(image)
}

// Waiting reports whether the last step was a key wait that found no key.
func (mc *Machine) Waiting() bool {
	return mc.waiting
}

func (mc *Machine) PressKey(key uint8) {
	mc.State.Keys[key&0xF] = true
}

func (mc *Machine) ReleaseKey(key uint8) {
	mc.State.Keys[key&0xF] = false
}

func (mc *Machine) ClearKeys() {
	for i := range mc.State.Keys {
		mc.State.Keys[i] = false
	}
}

func (mc *Machine) push(value uint16) error {
	if mc.State.StackPtr >= StackSize {
		return ErrStackOverflow
	}

	mc.State.Stack[mc.State.StackPtr] = value
	mc.State.StackPtr++

	return nil
}

func (mc *Machine) pop() (uint16, error) {
	if mc.State.StackPtr == 0 {
		return 0, ErrStackUnderflow
	}

	mc.State.StackPtr--

	return mc.State.Stack[mc.State.StackPtr], nil
}

// span checks that count bytes starting at addr lie inside memory.
func span(addr uint16, count int) error {
	if int(addr)+count > MemorySize {
		return ErrMemoryOutOfBounds
	}

	return nil
}

func (mc *Machine) read(addr uint16) byte {
	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

func (mc *Machine) write(addr uint16, value byte) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

func (mc *Machine) random() byte {
	if mc.Random != nil {
		return mc.Random()
	}

	return byte(rand.IntN(256))
}

func (mc *Machine) tick() {
	if mc.State.Delay > 0 {
		mc.State.Delay--
	}

	if mc.State.Sound > 0 {
		mc.State.Sound--
	}
}

// Step executes one instruction and then ticks both timers. On error the
// state is unchanged and a *Fault is returned.
func (mc *Machine) Step() error {
	pc := mc.State.Program

	word, err := mc.fetch()

	if err != nil {
		return &Fault{Err: err, Program: pc}
	}

	result, err := mc.execute(Decode(word))

	if err != nil {
		return &Fault{Err: err, Program: pc, Opcode: word}
	}

	switch result {
	case advance:
		mc.State.Program += 2
	case skip:
		mc.State.Program += 4
	}

	mc.waiting = result == wait

	mc.tick()

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}

func skipIf(cond bool) outcome {
	if cond {
		return skip
	}

	return advance
}

func (mc *Machine) execute(ins Instruction) (outcome, error) {
	v := &mc.State.Registers

	switch ins.Class {
	// CLS  |0000    |0000   |1110   |0000   | Clear display
	// RET  |0000    |0000   |1110   |1110   | Return from subroutine
	// SYS  |0000    |NNN                    | Legacy machine call (jump)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpSystem:
		switch ins.Word {
		case SysClear:
			mc.State.Display.Clear()
			mc.State.Dirty = true

		case SysReturn:
			addr, err := mc.pop()

			if err != nil {
				return 0, err
			}

			mc.State.Program = addr + 2
			return jump, nil

		default:
			mc.State.Program = ins.NNN
			return jump, nil
		}

	// JP   |0001    |NNN                    | Jump
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpJump:
		mc.State.Program = ins.NNN
		return jump, nil

	// CALL |0010    |NNN                    | Call subroutine
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpCall:
		if err := mc.push(mc.State.Program); err != nil {
			return 0, err
		}

		mc.State.Program = ins.NNN
		return jump, nil

	// SE   |0011    |X      |NN             | Skip if VX == NN
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpSkipEq:
		return skipIf(v[ins.X] == ins.NN), nil

	// SNE  |0100    |X      |NN             | Skip if VX != NN
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpSkipNe:
		return skipIf(v[ins.X] != ins.NN), nil

	// SE   |0101    |X      |Y      |0000   | Skip if VX == VY
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpSkipReg:
		if ins.N != 0 {
			return 0, ErrUnknownOpcode
		}

		return skipIf(v[ins.X] == v[ins.Y]), nil

	// LD   |0110    |X      |NN             | VX = NN
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpLoad:
		v[ins.X] = ins.NN

	// ADD  |0111    |X      |NN             | VX += NN, VF untouched
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpAdd:
		v[ins.X], _ = add8(v[ins.X], ins.NN)

	// 8XY_ |1000    |X      |Y      |op     | Register arithmetic
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpALU:
		return mc.executeALU(ins)

	// SNE  |1001    |X      |Y      |0000   | Skip if VX != VY
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpSkipNReg:
		if ins.N != 0 {
			return 0, ErrUnknownOpcode
		}

		return skipIf(v[ins.X] != v[ins.Y]), nil

	// LD   |1010    |NNN                    | I = NNN
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpIndex:
		mc.State.Index = ins.NNN

	// JP   |1011    |NNN                    | Jump to NNN + V0
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpJumpV0:
		mc.State.Program = ins.NNN + uint16(v[0])
		return jump, nil

	// RND  |1100    |X      |NN             | VX = random & NN
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpRandom:
		v[ins.X] = mc.random() & ins.NN

	// DRW  |1101    |X      |Y      |N      | XOR sprite at (VX, VY)
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpDraw:
		if err := span(mc.State.Index, int(ins.N)); err != nil {
			return 0, err
		}

		mc.draw(uint16(v[ins.X]), uint16(v[ins.Y]), ins.N)

	// SKP  |1110    |X      |1001   |1110   | Skip if key VX latched
	// SKNP |1110    |X      |1010   |0001   | Skip if key VX not latched
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpKey:
		if ins.NN != KeySkipPressed && ins.NN != KeySkipNotPressed {
			return 0, ErrUnknownOpcode
		}

		if v[ins.X] >= KeyCount {
			return 0, ErrKeyOutOfRange
		}

		key := v[ins.X]

		switch ins.NN {
		case KeySkipPressed:
			if mc.State.Keys[key] {
				mc.State.Keys[key] = false
				return skip, nil
			}

		case KeySkipNotPressed:
			if !mc.State.Keys[key] {
				return skip, nil
			}

			mc.State.Keys[key] = false
		}

	// FX__ |1111    |X      |op             | Timers, keys, index, memory
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OpMisc:
		return mc.executeMisc(ins)
	}

	return advance, nil
}

func (mc *Machine) executeALU(ins Instruction) (outcome, error) {
	v := &mc.State.Registers

	switch ins.N {
	case AluMove:
		v[ins.X] = v[ins.Y]

	case AluOr:
		v[ins.X] |= v[ins.Y]

	case AluAnd:
		v[ins.X] &= v[ins.Y]

	case AluXor:
		v[ins.X] ^= v[ins.Y]

	// The flag is written before the result, so an operand of VF sees the
	// new flag value.
	case AluAdd:
		_, v[FlagRegister] = add8(v[ins.X], v[ins.Y])
		v[ins.X], _ = add8(v[ins.X], v[ins.Y])

	case AluSub:
		_, v[FlagRegister] = sub8(v[ins.X], v[ins.Y])
		v[ins.X], _ = sub8(v[ins.X], v[ins.Y])

	case AluShr:
		_, v[FlagRegister] = shr8(v[ins.X])
		v[ins.X], _ = shr8(v[ins.X])

	case AluSubn:
		_, v[FlagRegister] = sub8(v[ins.Y], v[ins.X])
		v[ins.X], _ = sub8(v[ins.Y], v[ins.X])

	case AluShl:
		_, v[FlagRegister] = shl8(v[ins.X])
		v[ins.X], _ = shl8(v[ins.X])

	default:
		return 0, ErrUnknownOpcode
	}

	return advance, nil
}

func (mc *Machine) executeMisc(ins Instruction) (outcome, error) {
	v := &mc.State.Registers

	switch ins.NN {
	case MiscGetDelay:
		v[ins.X] = mc.State.Delay

	case MiscWaitKey:
		for key, latched := range mc.State.Keys {
			if latched {
				v[ins.X] = uint8(key)
				return advance, nil
			}
		}

		return wait, nil

	case MiscSetDelay:
		mc.State.Delay = v[ins.X]

	case MiscSetSound:
		mc.State.Sound = v[ins.X]

	case MiscAddIndex:
		if uint32(mc.State.Index)+uint32(v[ins.X]) > 0xFFF {
			v[FlagRegister] = 1
		} else {
			v[FlagRegister] = 0
		}

		mc.State.Index += uint16(v[ins.X])

	case MiscFont:
		mc.State.Index = MemspaceFont + uint16(v[ins.X])*GlyphSize

	case MiscBCD:
		if err := span(mc.State.Index, 3); err != nil {
			return 0, err
		}

		hundreds, tens, ones := encoding.BCD(v[ins.X])

		mc.write(mc.State.Index, hundreds)
		mc.write(mc.State.Index+1, tens)
		mc.write(mc.State.Index+2, ones)

	// V0 up to but not including VX.
	case MiscStoreRegs:
		if err := span(mc.State.Index, int(ins.X)); err != nil {
			return 0, err
		}

		for i := uint16(0); i < uint16(ins.X); i++ {
			mc.write(mc.State.Index+i, v[i])
		}

	case MiscLoadRegs:
		if err := span(mc.State.Index, int(ins.X)); err != nil {
			return 0, err
		}

		for i := uint16(0); i < uint16(ins.X); i++ {
			v[i] = mc.read(mc.State.Index + i)
		}

	default:
		return 0, ErrUnknownOpcode
	}

	return advance, nil
}

// draw XORs an 8xN sprite read from I onto the display at (x, y), wrapping at
// the edges. VF ends up 1 if any set sprite bit hit a set pixel.
func (mc *Machine) draw(x, y uint16, height uint8) {
	mc.State.Registers[FlagRegister] = 0

	for row := uint16(0); row < uint16(height); row++ {
		sprite := mc.read(mc.State.Index + row)

		for bit := uint16(0); bit < 8; bit++ {
			if sprite&(0x80>>bit) == 0 {
				continue
			}

			if mc.State.Display.flip(x+bit, y+row) {
				mc.State.Registers[FlagRegister] = 1
			}
		}
	}

	mc.State.Dirty = true
}
