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

// Package screen draws the machine display on an ANSI terminal.
package screen

import (
	"io"
	"strings"

	"github.com/lassandro/gochip8/pkg/machine"
)

const (
	DefaultOn  = "██"
	DefaultOff = "  "
)

type Terminal struct {
	Out io.Writer

	// On and Off are written for each lit and unlit pixel. Empty values
	// fall back to DefaultOn and DefaultOff.
	On  string
	Off string
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{Out: out, On: DefaultOn, Off: DefaultOff}
}

// Render homes the cursor and redraws every row of the display.
func (t *Terminal) Render(display *machine.Display) error {
	on, off := t.On, t.Off
	if on == "" {
		on = DefaultOn
	}
	if off == "" {
		off = DefaultOff
	}

	var sb strings.Builder
	sb.Grow(len("\033[H") + machine.DisplayHeight*(machine.DisplayWidth*len(on)+2))
	sb.WriteString("\033[H")

	for y := 0; y < machine.DisplayHeight; y++ {
		for x := 0; x < machine.DisplayWidth; x++ {
			if display.Pixel(x, y) {
				sb.WriteString(on)
			} else {
				sb.WriteString(off)
			}
		}
		sb.WriteString("\r\n")
	}

	_, err := io.WriteString(t.Out, sb.String())
	return err
}

// Clear blanks the terminal and hides the cursor.
func (t *Terminal) Clear() error {
	_, err := io.WriteString(t.Out, "\033[2J\033[H\033[?25l")
	return err
}

// Restore shows the cursor again.
func (t *Terminal) Restore() error {
	_, err := io.WriteString(t.Out, "\033[?25h\r\n")
	return err
}
