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

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/assert"
)

func newSession(t *testing.T) (*debugger.Debugger, *machine.Machine, *bytes.Buffer) {
	t.Helper()

	image := []byte{0x6A, 0x5C, 0x12, 0x00}

	mc := machine.New()
	assert.NoError(t, mc.LoadProgram(image))

	out := &bytes.Buffer{}
	dbg := &debugger.Debugger{Binary: image, Out: out}
	mc.Debugger = dbg

	return dbg, mc, out
}

func run(t *testing.T, dbg *debugger.Debugger, mc *machine.Machine, line string) bool {
	t.Helper()

	resume, err := runCommand(dbg, mc, strings.Fields(line))
	assert.NoError(t, err)
	return resume
}

func TestCommandBreak(t *testing.T) {
	dbg, mc, out := newSession(t)

	run(t, dbg, mc, "break add 0x202")
	run(t, dbg, mc, "b a x204")
	run(t, dbg, mc, "b add 0x202")
	assert.Len(t, dbg.Breakpoints, 2)

	out.Reset()
	run(t, dbg, mc, "break")
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

	run(t, dbg, mc, "break rm 0")
	assert.Len(t, dbg.Breakpoints, 1)
	assert.Equal(t, uint16(0x204), dbg.Breakpoints[0].Addr)

	_, err := runCommand(dbg, mc, []string{"break", "rm", "5"})
	assert.Error(t, err)

	run(t, dbg, mc, "break clear")
	assert.Len(t, dbg.Breakpoints, 0)
}

func TestCommandWatch(t *testing.T) {
	dbg, mc, _ := newSession(t)

	run(t, dbg, mc, "watch add 0x300 rw")
	run(t, dbg, mc, "w add 0x301 read")
	assert.Len(t, dbg.Watchpoints, 2)
	assert.Equal(t, debugger.ReadWriteWatch, dbg.Watchpoints[0].Type)

	_, err := runCommand(dbg, mc, []string{"watch", "add", "0x300", "sideways"})
	assert.True(t, errors.Is(err, errUsage))

	run(t, dbg, mc, "watch rm 0")
	assert.Len(t, dbg.Watchpoints, 1)
}

func TestCommandRegister(t *testing.T) {
	dbg, mc, _ := newSession(t)

	run(t, dbg, mc, "register VA 0x5c")
	run(t, dbg, mc, "r v3 #200")
	run(t, dbg, mc, "r I 0x300")
	run(t, dbg, mc, "r pc 0x204")
	run(t, dbg, mc, "r DT 10")
	run(t, dbg, mc, "r st x0f")

	assert.Equal(t, uint8(0x5C), mc.State.Registers[0xA])
	assert.Equal(t, uint8(200), mc.State.Registers[0x3])
	assert.Equal(t, uint16(0x300), mc.State.Index)
	assert.Equal(t, uint16(0x204), mc.State.Program)
	assert.Equal(t, uint8(10), mc.State.Delay)
	assert.Equal(t, uint8(0x0F), mc.State.Sound)

	for _, line := range []string{"r VG 1", "r V3 0x100", "r I 0x1000", "r X 1"} {
		_, err := runCommand(dbg, mc, strings.Fields(line))
		assert.Error(t, err)
	}
}

func TestCommandMemory(t *testing.T) {
	dbg, mc, out := newSession(t)

	run(t, dbg, mc, "set 0x300 0xAB")
	assert.Equal(t, uint8(0xAB), mc.State.Memory[0x300])

	out.Reset()
	run(t, dbg, mc, "memory 0x300 1")
	assert.Contains(t, out.String(), "0xab")

	out.Reset()
	run(t, dbg, mc, "dis 2")
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))

	_, err := runCommand(dbg, mc, []string{"set", "0x1000", "1"})
	assert.Error(t, err)
}

func TestCommandJumpAndReset(t *testing.T) {
	dbg, mc, _ := newSession(t)

	assert.NoError(t, mc.Step())
	assert.Equal(t, uint8(0x5C), mc.State.Registers[0xA])

	run(t, dbg, mc, "jump 0x300")
	assert.Equal(t, uint16(0x300), mc.State.Program)

	run(t, dbg, mc, "reset")
	assert.Equal(t, uint16(0x200), mc.State.Program)
	assert.Equal(t, uint8(0), mc.State.Registers[0xA])
}

func TestCommandKeys(t *testing.T) {
	dbg, mc, _ := newSession(t)

	run(t, dbg, mc, "keys press a")
	assert.True(t, mc.State.Keys[0xA])

	run(t, dbg, mc, "keys release A")
	assert.False(t, mc.State.Keys[0xA])

	_, err := runCommand(dbg, mc, []string{"keys", "press", "10"})
	assert.Error(t, err)
}

func TestCommandDump(t *testing.T) {
	dbg, mc, _ := newSession(t)

	filename := filepath.Join(t.TempDir(), "state.dot")
	run(t, dbg, mc, "dump "+filename)

	info, err := os.Stat(filename)
	assert.NoError(t, err)
	assert.True(t, info.Size() > 0)
}

func TestCommandResume(t *testing.T) {
	dbg, mc, _ := newSession(t)

	assert.True(t, run(t, dbg, mc, "next"))
	assert.True(t, dbg.Break)

	assert.True(t, run(t, dbg, mc, "continue"))
	assert.False(t, dbg.Break)

	assert.False(t, run(t, dbg, mc, "stack"))
	assert.False(t, run(t, dbg, mc, "display"))

	_, err := runCommand(dbg, mc, []string{"bogus"})
	assert.Error(t, err)
}

func TestCommandQuit(t *testing.T) {
	dbg, mc, _ := newSession(t)

	stopped := false
	stop = func() { stopped = true }

	defer func() {
		stop = nil
		shouldexit = false
	}()

	assert.True(t, run(t, dbg, mc, "quit"))
	assert.True(t, shouldexit)
	assert.True(t, stopped)
}

func TestSuspendRawTermNotRaw(t *testing.T) {
	rawActive = false
	termRestore = nil

	resume := suspendRawTerm()
	resume()

	assert.False(t, rawActive)
	assert.True(t, termRestore == nil)
}

func TestCyclesPerFrame(t *testing.T) {
	cycles, err := cyclesPerFrame(600)
	assert.NoError(t, err)
	assert.Equal(t, 10, cycles)

	cycles, err = cyclesPerFrame(60)
	assert.NoError(t, err)
	assert.Equal(t, 1, cycles)

	for _, hz := range []int{59, 1, 0, -600} {
		_, err := cyclesPerFrame(hz)
		assert.Error(t, err)
	}
}
