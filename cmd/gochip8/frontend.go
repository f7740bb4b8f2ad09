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
	"os"

	"github.com/lassandro/gochip8/pkg/keypad"
	"github.com/lassandro/gochip8/pkg/runner"
	"github.com/lassandro/gochip8/pkg/screen"
	"github.com/retroenv/retrogolib/log"
)

type frontend interface {
	runner.Renderer
	runner.Input
	Close() error
}

// termFrontend draws on stdout and reads keys from stdin in raw mode.
type termFrontend struct {
	*screen.Terminal
	*keypad.Reader
}

func newTermFrontend(logger *log.Logger) (*termFrontend, error) {
	front := &termFrontend{
		Terminal: screen.NewTerminal(os.Stdout),
		Reader:   &keypad.Reader{In: os.Stdin},
	}

	if err := enterRawTerm(); err != nil {
		logger.Warn("Keyboard input unavailable", log.Err(err))
	}

	if err := front.Terminal.Clear(); err != nil {
		_ = exitRawTerm()
		return nil, err
	}

	return front, nil
}

func (front *termFrontend) Close() error {
	if err := front.Restore(); err != nil {
		_ = exitRawTerm()
		return err
	}

	return exitRawTerm()
}
