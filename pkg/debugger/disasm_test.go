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
	"fmt"
	"testing"

	"github.com/lassandro/gochip8/pkg/debugger"
	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

func TestDisassemble(t *testing.T) {
	tests := []struct {
		word     uint16
		name     string
		operands string
	}{
		{0x00E0, chip8.Cls.Name, ""},
		{0x00EE, chip8.Ret.Name, ""},
		{0x1234, chip8.Jp.Name, "$234"},
		{0x2ABC, chip8.Call.Name, "$ABC"},
		{0x3A12, chip8.Se.Name, "VA, $12"},
		{0x4B34, chip8.Sne.Name, "VB, $34"},
		{0x5120, chip8.Se.Name, "V1, V2"},
		{0x6A5C, chip8.Ld.Name, "VA, $5C"},
		{0x7001, chip8.Add.Name, "V0, $01"},
		{0x8120, chip8.Ld.Name, "V1, V2"},
		{0x8121, chip8.Or.Name, "V1, V2"},
		{0x8122, chip8.And.Name, "V1, V2"},
		{0x8123, chip8.Xor.Name, "V1, V2"},
		{0x8124, chip8.Add.Name, "V1, V2"},
		{0x8125, chip8.Sub.Name, "V1, V2"},
		{0x8126, chip8.Shr.Name, "V1"},
		{0x8127, chip8.Subn.Name, "V1, V2"},
		{0x812E, chip8.Shl.Name, "V1"},
		{0x9120, chip8.Sne.Name, "V1, V2"},
		{0xA300, chip8.Ld.Name, "I, $300"},
		{0xB200, chip8.Jp.Name, "V0, $200"},
		{0xC10F, chip8.Rnd.Name, "V1, $0F"},
		{0xD125, chip8.Drw.Name, "V1, V2, $5"},
		{0xE39E, chip8.Skp.Name, "V3"},
		{0xE3A1, chip8.Sknp.Name, "V3"},
		{0xF307, chip8.Ld.Name, "V3, DT"},
		{0xF30A, chip8.Ld.Name, "V3, K"},
		{0xF315, chip8.Ld.Name, "DT, V3"},
		{0xF318, chip8.Ld.Name, "ST, V3"},
		{0xF31E, chip8.Add.Name, "I, V3"},
		{0xF329, chip8.Ld.Name, "F, V3"},
		{0xF333, chip8.Ld.Name, "B, V3"},
		{0xF355, chip8.Ld.Name, "[I], V3"},
		{0xF365, chip8.Ld.Name, "V3, [I]"},
	}

	for _, test := range tests {
		want := test.name
		if test.operands != "" {
			want += " " + test.operands
		}

		if have := debugger.Disassemble(test.word); have != want {
			t.Errorf(
				"Incorrect disassembly for %#04x\nwant: %q\nhave: %q",
				test.word, want, have,
			)
		}
	}
}

func TestDisassembleUnknown(t *testing.T) {
	for _, word := range []uint16{0x812F, 0xE100, 0xF1FF} {
		want := fmt.Sprintf(".word $%04X", word)
		if have := debugger.Disassemble(word); have != want {
			t.Errorf("Incorrect disassembly\nwant: %q\nhave: %q", want, have)
		}
	}
}

func TestDisassembleSys(t *testing.T) {
	if have := debugger.Disassemble(0x0123); have != "sys $123" {
		t.Errorf("Incorrect disassembly\nwant: %q\nhave: %q", "sys $123", have)
	}
}
