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

// Package keypad maps a QWERTY keyboard onto the hexadecimal keypad.
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   <-   q w e r
//	7 8 9 E        a s d f
//	A 0 B F        z x c v
package keypad

import (
	"errors"
	"fmt"
	"io"
)

// ErrQuit is returned by Poll when escape or ctrl-c is read.
var ErrQuit = errors.New("quit requested")

const (
	keyEscape    = 0x1B
	keyInterrupt = 0x03
)

var layout = [256]int8{}

func init() {
	for i := range layout {
		layout[i] = -1
	}

	for key, ch := range []byte("x123qweasdzc4rfv") {
		layout[ch] = int8(key)
	}
}

// Lookup returns the keypad key bound to the keyboard byte b. Letters are
// matched case-insensitively.
func Lookup(b byte) (uint8, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}

	if key := layout[b]; key >= 0 {
		return uint8(key), true
	}

	return 0, false
}

// Latcher receives key presses.
type Latcher interface {
	PressKey(key uint8)
}

// Reader polls a non-blocking byte stream such as a raw terminal.
type Reader struct {
	In io.Reader

	buf [64]byte
}

// Poll latches every mapped key currently buffered on the input. A read of
// zero bytes or io.EOF means no keys are pending.
func (r *Reader) Poll(keys Latcher) error {
	n, err := r.In.Read(r.buf[:])

	for _, b := range r.buf[:n] {
		if b == keyEscape || b == keyInterrupt {
			return ErrQuit
		}

		if key, ok := Lookup(b); ok {
			keys.PressKey(key)
		}
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading keys: %w", err)
	}

	return nil
}
