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
	"io"
	"os"

	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

func (dbg *Debugger) out() io.Writer {
	if dbg.Out == nil {
		return os.Stdout
	}

	return dbg.Out
}

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.HandleBreak == nil {
		return
	}

	if dbg.Break {
		dbg.HandleBreak(dbg, mc)
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			dbg.HandleBreak(dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Read(addr uint16, mc *machine.Machine) {
	if dbg.HandleRead == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == WriteWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleRead(addr, dbg, mc)
			break
		}
	}
}

func (dbg *Debugger) Write(addr uint16, mc *machine.Machine) {
	if dbg.HandleWrite == nil {
		return
	}

	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type == ReadWatch {
			continue
		}

		if addr == watchpoint.Addr {
			dbg.HandleWrite(addr, dbg, mc)
			break
		}
	}
}

// AddBreakpoint reports false if a breakpoint already exists at addr.
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{Addr: addr})
	return true
}

// AddWatchpoint reports false if an identical watchpoint already exists.
func (dbg *Debugger) AddWatchpoint(addr uint16, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{Addr: addr, Type: wtype})
	return true
}

// PrintDisasm lists count instructions starting at addr, marking the program
// counter and breakpoints.
func (dbg *Debugger) PrintDisasm(mc *machine.MachineState, addr uint16, count uint16) {
	w := dbg.out()

	for i := uint16(0); i < count; i++ {
		if int(addr)+1 >= machine.MemorySize {
			break
		}

		word := encoding.JoinWord(mc.Memory[addr], mc.Memory[addr+1])

		marker := "  "
		if addr == mc.Program {
			marker = "=>"
		}
		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				marker = marker[:1] + "*"
				break
			}
		}

		fmt.Fprintf(
			w, "%s \033[1m[%#04x]\033[0m %04x  %s\n",
			marker, addr, word, Disassemble(word),
		)

		addr += 2
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count uint16) {
	w := dbg.out()

	end := int(addr) + int(count)
	if end > machine.MemorySize {
		end = machine.MemorySize
	}

	for i := addr; int(i) < end; i++ {
		if i == addr {
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		} else if (i-addr)%8 == 0 {
			fmt.Fprintln(w)
			fmt.Fprintf(w, "\033[1m[%#04x]\033[0m ", i)
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Fprintf(w, "\033[1;30m%#02x\033[0m ", result)
		} else {
			fmt.Fprintf(w, "%#02x ", result)
		}
	}

	fmt.Fprintln(w)
}

func (dbg *Debugger) PrintRegisters(mc *machine.MachineState) {
	w := dbg.out()

	for i, register := range mc.Registers {
		fmt.Fprintf(w, "\033[1mV%X:\033[0m %#02x\t", i, register)
		if i%8 == 7 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintf(
		w,
		"\033[1mPC:\033[0m %#04x\t\033[1mI:\033[0m %#04x\t\033[1mSP:\033[0m %d\t"+
			"\033[1mDT:\033[0m %d\t\033[1mST:\033[0m %d\n",
		mc.Program,
		mc.Index,
		mc.StackPtr,
		mc.Delay,
		mc.Sound,
	)
}

func (dbg *Debugger) PrintStack(mc *machine.MachineState) {
	w := dbg.out()

	if mc.StackPtr == 0 {
		fmt.Fprintln(w, "Stack empty")
		return
	}

	for i := int(mc.StackPtr) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "#%02d: %#04x\n", i, mc.Stack[i])
	}
}

func (dbg *Debugger) PrintKeys(mc *machine.MachineState) {
	w := dbg.out()

	for key, latched := range mc.Keys {
		if latched {
			fmt.Fprintf(w, "\033[1m%X\033[0m ", key)
		} else {
			fmt.Fprintf(w, "\033[1;30m%X\033[0m ", key)
		}
	}

	fmt.Fprintln(w)
}
