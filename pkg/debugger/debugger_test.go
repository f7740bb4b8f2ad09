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

package debugger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/assert"
)

func load(t *testing.T, program ...byte) (*machine.Machine, *debugger.Debugger) {
	t.Helper()

	mc := machine.New()
	assert.NoError(t, mc.LoadProgram(program))

	dbg := &debugger.Debugger{Binary: program, Out: &bytes.Buffer{}}
	mc.Debugger = dbg

	return mc, dbg
}

func TestBreakpoint(t *testing.T) {
	mc, dbg := load(t,
		0x60, 0x01, // LD V0, 1
		0x61, 0x02, // LD V1, 2
		0x12, 0x02, // JP 0x202
	)

	hits := 0
	dbg.HandleBreak = func(d *debugger.Debugger, m *machine.Machine) {
		hits++
	}

	assert.True(t, dbg.AddBreakpoint(0x202))
	assert.False(t, dbg.AddBreakpoint(0x202))

	for i := 0; i < 5; i++ {
		assert.NoError(t, mc.Step())
	}

	// 0x200 -> 0x202 (hit), 0x204, 0x202 (hit), 0x204, 0x202 (hit)
	if hits != 3 {
		t.Errorf("Incorrect break count\nwant: %d\nhave: %d", 3, hits)
	}
}

func TestBreakFlag(t *testing.T) {
	mc, dbg := load(t, 0x12, 0x00)

	hits := 0
	dbg.HandleBreak = func(d *debugger.Debugger, m *machine.Machine) {
		hits++
		d.Break = false
	}

	dbg.Break = true
	assert.NoError(t, mc.Step())
	assert.NoError(t, mc.Step())
	assert.Equal(t, 1, hits)
}

func TestWatchpoints(t *testing.T) {
	mc, dbg := load(t,
		0xA3, 0x00, // LD I, 0x300
		0xF1, 0x55, // LD [I], V0
		0xF1, 0x65, // LD V0, [I]
	)

	var reads, writes []uint16
	dbg.HandleRead = func(addr uint16, d *debugger.Debugger, m *machine.Machine) {
		reads = append(reads, addr)
	}
	dbg.HandleWrite = func(addr uint16, d *debugger.Debugger, m *machine.Machine) {
		writes = append(writes, addr)
	}

	assert.True(t, dbg.AddWatchpoint(0x300, debugger.ReadWatch))
	assert.True(t, dbg.AddWatchpoint(0x300, debugger.WriteWatch))
	assert.False(t, dbg.AddWatchpoint(0x300, debugger.WriteWatch))
	assert.True(t, dbg.AddWatchpoint(0x202, debugger.ReadWriteWatch))

	for i := 0; i < 3; i++ {
		assert.NoError(t, mc.Step())
	}

	// The instruction fetch at 0x202 trips the read/write watchpoint.
	assert.Len(t, reads, 2)
	assert.Equal(t, uint16(0x202), reads[0])
	assert.Equal(t, uint16(0x300), reads[1])

	assert.Len(t, writes, 1)
	assert.Equal(t, uint16(0x300), writes[0])
}

func TestNilHandlers(t *testing.T) {
	mc, dbg := load(t, 0xA3, 0x00, 0xF1, 0x55)

	dbg.Break = true
	dbg.AddBreakpoint(0x202)
	dbg.AddWatchpoint(0x300, debugger.ReadWriteWatch)

	assert.NoError(t, mc.Step())
	assert.NoError(t, mc.Step())
	assert.Equal(t, uint8(0), mc.State.Memory[0x300])
}

func TestPrintRegisters(t *testing.T) {
	mc, dbg := load(t, 0x6A, 0x5C)
	assert.NoError(t, mc.Step())

	out := &bytes.Buffer{}
	dbg.Out = out
	dbg.PrintRegisters(&mc.State)

	have := out.String()
	assert.Contains(t, have, "VA:")
	assert.Contains(t, have, "0x5c")
	assert.Contains(t, have, "PC:")
	assert.Contains(t, have, "202")
}

func TestPrintMem(t *testing.T) {
	mc, dbg := load(t, 0xDE, 0xAD, 0xBE, 0xEF)

	out := &bytes.Buffer{}
	dbg.Out = out
	dbg.PrintMem(&mc.State, 0x200, 16)

	have := out.String()
	assert.Contains(t, have, "0xde")
	assert.Contains(t, have, "0xef")

	// 16 bytes at 8 per row
	if lines := strings.Count(have, "\n"); lines != 2 {
		t.Errorf("Incorrect row count\nwant: %d\nhave: %d", 2, lines)
	}
}

func TestPrintMemClampsToMemory(t *testing.T) {
	mc, dbg := load(t)

	out := &bytes.Buffer{}
	dbg.Out = out
	dbg.PrintMem(&mc.State, machine.MemorySize-2, 16)

	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestPrintDisasm(t *testing.T) {
	mc, dbg := load(t, 0x00, 0xE0, 0x6A, 0x5C, 0x12, 0x00)
	dbg.AddBreakpoint(0x202)

	out := &bytes.Buffer{}
	dbg.Out = out
	dbg.PrintDisasm(&mc.State, 0x200, 3)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Len(t, lines, 3)

	assert.True(t, strings.HasPrefix(lines[0], "=>"))
	assert.True(t, strings.HasPrefix(lines[1], " *"))
	assert.Contains(t, lines[1], "VA, $5C")
	assert.Contains(t, lines[2], "$200")
}

func TestPrintStack(t *testing.T) {
	mc, dbg := load(t, 0x22, 0x04, 0x00, 0x00, 0x22, 0x00)

	out := &bytes.Buffer{}
	dbg.Out = out
	dbg.PrintStack(&mc.State)
	assert.Equal(t, "Stack empty\n", out.String())

	assert.NoError(t, mc.Step())

	out.Reset()
	dbg.PrintStack(&mc.State)
	// CALL pushes its own address; RET adds two.
	assert.True(t, strings.HasPrefix(out.String(), "#00: 0x"))
	assert.Contains(t, out.String(), "200")
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}
