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
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"
	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/lassandro/gochip8/pkg/encoding"
	"github.com/lassandro/gochip8/pkg/machine"
)

var lastcmd []string
var shouldexit bool

// stop cancels the runner when the REPL quits.
var stop context.CancelFunc

var errUsage = errors.New("usage")

func usageError(usage string) error {
	return fmt.Errorf("%w: %s", errUsage, usage)
}

func output(dbg *debugger.Debugger) io.Writer {
	if dbg.Out == nil {
		return os.Stdout
	}
	return dbg.Out
}

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %%#x%s\n", int64(digits)+1, suffix)
}

func debugBreak(dbg *debugger.Debugger, args []string) error {
	const usage = "break [add|list|remove|clear]"

	out := output(dbg)

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x###]"

		if len(args) != 1 {
			return usageError(usage)
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			return err
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Fprintf(out, "Breakpoint added [%#04x]\n", addr)
		}

	case "l", "ls", "list":
		if len(args) != 0 {
			return usageError("break list")
		}

		fmtstring := indexFormat(len(dbg.Breakpoints), "")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Fprintf(out, fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			return usageError(usage)
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			return err
		}

		if i < 0 || i >= int64(len(dbg.Breakpoints)) {
			return errors.New("invalid breakpoint number")
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Fprintf(out, "Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = make([]debugger.Breakpoint, 0)
		fmt.Fprintln(out, "Breakpoints reset")

	default:
		return usageError(usage)
	}

	return nil
}

func watchName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	case debugger.ReadWriteWatch:
		return "readwrite"
	}
	return "?"
}

func debugWatch(dbg *debugger.Debugger, args []string) error {
	const usage = "watch [add|list|remove|clear]"

	out := output(dbg)

	if len(args) == 0 {
		return usageError(usage)
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x###] [read|write|readwrite]"

		if len(args) != 2 {
			return usageError(usage)
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			return err
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			return usageError(usage)
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Fprintf(out, "Watchpoint added [%#04x] (%s)\n", addr, watchName(wtype))
		}

	case "l", "ls", "list":
		if len(args) != 0 {
			return usageError("watch list")
		}

		fmtstring := indexFormat(len(dbg.Watchpoints), " %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Fprintf(out, fmtstring, i, watchpoint.Addr, watchName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			return usageError(usage)
		}

		i, err := strconv.ParseInt(args[0], 10, 64)

		if err != nil {
			return err
		}

		if i < 0 || i >= int64(len(dbg.Watchpoints)) {
			return errors.New("invalid watchpoint number")
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Fprintf(out, "Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = make([]debugger.Watchpoint, 0)
		fmt.Fprintln(out, "Watchpoints reset")

	default:
		return usageError(usage)
	}

	return nil
}

func decodeAddr(s string) (uint16, error) {
	addr, err := encoding.DecodeHex(s)

	if err != nil {
		return 0, err
	}

	if int(addr) >= machine.MemorySize {
		return 0, fmt.Errorf("address %#04x: %w", addr, strconv.ErrRange)
	}

	return addr, nil
}

func debugReg(dbg *debugger.Debugger, mc *machine.MachineState, args []string) error {
	const usage = "register [V#|I|PC|DT|ST] [value]"

	if len(args) == 0 {
		dbg.PrintRegisters(mc)
		return nil
	}

	if len(args) != 2 {
		return usageError(usage)
	}

	name := strings.ToUpper(args[0])

	switch name {
	case "I", "PC":
		value, err := decodeAddr(args[1])

		if err != nil {
			return err
		}

		if name == "I" {
			mc.Index = value
		} else {
			mc.Program = value
		}

		fmt.Fprintf(output(dbg), "\033[1m%s:\033[0m %#04x\n", name, value)
		return nil
	}

	value, err := encoding.DecodeByte(args[1])

	if err != nil {
		return err
	}

	switch {
	case name == "DT":
		mc.Delay = value
	case name == "ST":
		mc.Sound = value
	case len(name) == 2 && name[0] == 'V':
		index, err := strconv.ParseUint(name[1:], 16, 8)

		if err != nil || index >= machine.RegisterCount {
			return errors.New("invalid register")
		}

		mc.Registers[index] = value
	default:
		return errors.New("invalid register")
	}

	fmt.Fprintf(output(dbg), "\033[1m%s:\033[0m %#02x\n", name, value)
	return nil
}

// parseRange reads the optional [addr] [count] arguments shared by memory
// and dis. A lone decimal argument is a count from the program counter.
func parseRange(mc *machine.MachineState, args []string, count uint16) (uint16, uint16, error) {
	addr := mc.Program

	if len(args) > 0 {
		value, err := decodeAddr(args[0])

		if err == nil {
			addr = value
		} else {
			n, err := encoding.DecodeInt(args[0])

			if err != nil || n < 0 {
				return 0, 0, fmt.Errorf("invalid argument '%s'", args[0])
			}

			count = uint16(n)
		}
	}

	if len(args) > 1 {
		n, err := encoding.DecodeInt(args[1])

		if err != nil || n < 0 {
			return 0, 0, fmt.Errorf("invalid argument '%s'", args[1])
		}

		count = uint16(n)
	}

	return addr, count, nil
}

func debugMemory(dbg *debugger.Debugger, mc *machine.MachineState, args []string) error {
	if len(args) > 2 {
		return usageError("memory [0x###|#] [#]")
	}

	addr, count, err := parseRange(mc, args, 1)

	if err != nil {
		return err
	}

	dbg.PrintMem(mc, addr, count)
	return nil
}

func debugDisasm(dbg *debugger.Debugger, mc *machine.MachineState, args []string) error {
	if len(args) > 2 {
		return usageError("dis [0x###|#] [#]")
	}

	addr, count, err := parseRange(mc, args, 8)

	if err != nil {
		return err
	}

	dbg.PrintDisasm(mc, addr, count)
	return nil
}

func debugSet(dbg *debugger.Debugger, mc *machine.MachineState, args []string) error {
	if len(args) != 2 {
		return usageError("set [0x###] [value]")
	}

	addr, err := decodeAddr(args[0])

	if err != nil {
		return err
	}

	value, err := encoding.DecodeByte(args[1])

	if err != nil {
		return err
	}

	mc.Memory[addr] = value
	dbg.PrintMem(mc, addr, 1)
	return nil
}

func debugJump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) error {
	if len(args) != 1 {
		return usageError("jump [0x###]")
	}

	addr, err := decodeAddr(args[0])

	if err != nil {
		return err
	}

	mc.Program = addr
	fmt.Fprintf(output(dbg), "\033[1mPC:\033[0m %#04x\n", addr)
	return nil
}

func debugKeys(dbg *debugger.Debugger, mc *machine.Machine, args []string) error {
	const usage = "keys [press|release] [0-F]"

	if len(args) == 0 {
		dbg.PrintKeys(&mc.State)
		return nil
	}

	if len(args) != 2 {
		return usageError(usage)
	}

	key, err := strconv.ParseUint(args[1], 16, 8)

	if err != nil || key >= machine.KeyCount {
		return errors.New("invalid key")
	}

	switch args[0] {
	case "p", "press":
		mc.PressKey(uint8(key))
	case "r", "release":
		mc.ReleaseKey(uint8(key))
	default:
		return usageError(usage)
	}

	dbg.PrintKeys(&mc.State)
	return nil
}

func debugDump(dbg *debugger.Debugger, mc *machine.MachineState, args []string) (rerr error) {
	if len(args) != 1 {
		return usageError("dump [file.dot]")
	}

	file, err := os.Create(args[0])

	if err != nil {
		return err
	}

	defer func() {
		if err := file.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	memviz.Map(file, mc)
	fmt.Fprintf(output(dbg), "State written to %s\n", args[0])
	return nil
}

// runCommand executes one REPL command and reports whether the machine
// should resume.
func runCommand(dbg *debugger.Debugger, mc *machine.Machine, args []string) (bool, error) {
	cmd := args[0]
	args = args[1:]

	out := output(dbg)

	switch cmd {
	case "b", "bp", "break", "breakpoint":
		return false, debugBreak(dbg, args)

	case "w", "wp", "watch", "watchpoint":
		return false, debugWatch(dbg, args)

	case "r", "reg", "register", "registers":
		return false, debugReg(dbg, &mc.State, args)

	case "d", "dis", "disasm":
		return false, debugDisasm(dbg, &mc.State, args)

	case "m", "mem", "memory":
		return false, debugMemory(dbg, &mc.State, args)

	case "set":
		return false, debugSet(dbg, &mc.State, args)

	case "j", "jmp", "jump":
		return false, debugJump(dbg, &mc.State, args)

	case "k", "key", "keys":
		return false, debugKeys(dbg, mc, args)

	case "stack":
		dbg.PrintStack(&mc.State)

	case "display":
		fmt.Fprintln(out, mc.State.Display.String())

	case "dump":
		return false, debugDump(dbg, &mc.State, args)

	case "c", "continue":
		dbg.Break = false
		return true, nil

	case "n", "next":
		dbg.Break = true
		return true, nil

	case "q", "quit", "exit":
		shouldexit = true
		dbg.Break = false
		if stop != nil {
			stop()
		}
		return true, nil

	case "clear":
		fmt.Fprint(out, "\033[H\033[2J")

	case "reset":
		if err := mc.LoadProgram(dbg.Binary); err != nil {
			return false, err
		}
		fmt.Fprintln(out, "Machine reset")

	default:
		return false, fmt.Errorf("'%s' is not a valid command", cmd)
	}

	return false, nil
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	defer suspendRawTerm()()

	scanner := bufio.NewScanner(os.Stdin)
	out := output(dbg)

	for {
		fmt.Fprint(out, "\033[1;30m(dbg)\033[0m ")

		if !scanner.Scan() {
			fmt.Fprintln(out)
			runCommand(dbg, mc, []string{"quit"})
			return
		}

		args := strings.Fields(scanner.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		resume, err := runCommand(dbg, mc, args)

		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}

		if resume {
			return
		}
	}
}

func stopped(dbg *debugger.Debugger, mc *machine.Machine) {
	out := output(dbg)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Program stopped")
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	if !dbg.Break {
		stopped(dbg, mc)
	}

	dbg.PrintDisasm(&mc.State, mc.State.Program, 4)
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	stopped(dbg, mc)
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	stopped(dbg, mc)
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
