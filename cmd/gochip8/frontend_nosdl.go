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

//go:build !sdl

package main

import "github.com/retroenv/retrogolib/log"

func newFrontend(logger *log.Logger) (frontend, error) {
	if sdlvar {
		logger.Warn("SDL is not available in this build")
	}

	front, err := newTermFrontend(logger)
	if err != nil {
		return nil, err
	}

	return front, nil
}
