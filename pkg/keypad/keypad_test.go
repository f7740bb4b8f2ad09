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

package keypad_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/lassandro/gochip8/pkg/keypad"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/retroenv/retrogolib/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		input byte
		want  uint8
	}{
		{'1', 0x1}, {'2', 0x2}, {'3', 0x3}, {'4', 0xC},
		{'q', 0x4}, {'w', 0x5}, {'e', 0x6}, {'r', 0xD},
		{'a', 0x7}, {'s', 0x8}, {'d', 0x9}, {'f', 0xE},
		{'z', 0xA}, {'x', 0x0}, {'c', 0xB}, {'v', 0xF},
		{'Q', 0x4}, {'V', 0xF},
	}

	for _, test := range tests {
		have, ok := keypad.Lookup(test.input)

		if !ok || have != test.want {
			t.Errorf(
				"Incorrect key for %q\nwant: %X\nhave: %X (%v)",
				test.input, test.want, have, ok,
			)
		}
	}

	for _, input := range []byte{'5', 'g', ' ', 0x00, 0xFF} {
		if _, ok := keypad.Lookup(input); ok {
			t.Errorf("Unexpected mapping for %q", input)
		}
	}
}

func TestPoll(t *testing.T) {
	mc := machine.New()
	reader := &keypad.Reader{In: strings.NewReader("1Vg")}

	assert.NoError(t, reader.Poll(mc))

	want := [machine.KeyCount]bool{}
	want[0x1] = true
	want[0xF] = true

	if mc.State.Keys != want {
		t.Errorf("Incorrect keys\nwant: %v\nhave: %v", want, mc.State.Keys)
	}

	// Nothing left to read
	assert.NoError(t, reader.Poll(mc))
}

func TestPollQuit(t *testing.T) {
	for _, input := range []string{"a\x1b", "\x03"} {
		mc := machine.New()
		reader := &keypad.Reader{In: strings.NewReader(input)}

		err := reader.Poll(mc)
		assert.True(t, errors.Is(err, keypad.ErrQuit))
	}
}

type brokenReader struct{}

var errBroken = errors.New("broken")

func (brokenReader) Read([]byte) (int, error) {
	return 0, errBroken
}

func TestPollError(t *testing.T) {
	reader := &keypad.Reader{In: brokenReader{}}
	err := reader.Poll(machine.New())
	assert.True(t, errors.Is(err, errBroken))

	reader = &keypad.Reader{In: &bytes.Buffer{}}
	assert.NoError(t, reader.Poll(machine.New()))
}
