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

package screen_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/lassandro/gochip8/pkg/screen"
	"github.com/retroenv/retrogolib/assert"
)

func TestRender(t *testing.T) {
	var display machine.Display
	display[0] = true
	display[machine.DisplayWidth*machine.DisplayHeight-1] = true

	out := &bytes.Buffer{}
	term := &screen.Terminal{Out: out, On: "#", Off: "."}
	assert.NoError(t, term.Render(&display))

	have := out.String()
	assert.True(t, strings.HasPrefix(have, "\033[H"))

	rows := strings.Split(strings.TrimSuffix(strings.TrimPrefix(have, "\033[H"), "\r\n"), "\r\n")
	assert.Len(t, rows, machine.DisplayHeight)

	assert.Equal(t, "#"+strings.Repeat(".", machine.DisplayWidth-1), rows[0])
	assert.Equal(t, strings.Repeat(".", machine.DisplayWidth), rows[1])
	assert.Equal(t, strings.Repeat(".", machine.DisplayWidth-1)+"#", rows[machine.DisplayHeight-1])
}

func TestRenderDefaults(t *testing.T) {
	var display machine.Display
	display[1] = true

	out := &bytes.Buffer{}
	term := &screen.Terminal{Out: out}
	assert.NoError(t, term.Render(&display))

	assert.Equal(t, 1, strings.Count(out.String(), screen.DefaultOn))
}

func TestNewTerminal(t *testing.T) {
	out := &bytes.Buffer{}
	term := screen.NewTerminal(out)

	assert.NoError(t, term.Clear())
	assert.Contains(t, out.String(), "\033[2J")

	assert.NoError(t, term.Restore())
	assert.Contains(t, out.String(), "\033[?25h")
}

type failingWriter struct{}

var errWrite = errors.New("write failed")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestRenderError(t *testing.T) {
	var display machine.Display

	term := screen.NewTerminal(failingWriter{})
	err := term.Render(&display)
	assert.True(t, errors.Is(err, errWrite))
}
