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

//go:build sdl

// Package sdlfront draws the display in an SDL2 window and reads the keypad
// from SDL keyboard events. It is only built with the sdl tag.
package sdlfront

import (
	"fmt"

	"github.com/lassandro/gochip8/pkg/keypad"
	"github.com/lassandro/gochip8/pkg/machine"
	"github.com/veandco/go-sdl2/sdl"
)

const DefaultScale = 10

type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	scale    int32

	// keys held down since their last key-up event
	held [machine.KeyCount]bool
}

// New opens a window sized to the display at the given pixel scale. SDL
// must be driven from the main OS thread.
func New(title string, scale int) (*Window, error) {
	if scale <= 0 {
		scale = DefaultScale
	}

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("sdl: %w", err)
	}

	win := &Window{scale: int32(scale)}

	var err error

	win.window, err = sdl.CreateWindow(
		title,
		int32(sdl.WINDOWPOS_UNDEFINED), int32(sdl.WINDOWPOS_UNDEFINED),
		machine.DisplayWidth*win.scale, machine.DisplayHeight*win.scale,
		uint32(sdl.WINDOW_SHOWN),
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	win.renderer, err = sdl.CreateRenderer(win.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = win.window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl: %w", err)
	}

	sdl.EventState(sdl.MOUSEMOTION, sdl.IGNORE)

	return win, nil
}

func (win *Window) Render(display *machine.Display) error {
	if err := win.renderer.SetDrawColor(0x00, 0x00, 0x00, 0xFF); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	if err := win.renderer.Clear(); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	if err := win.renderer.SetDrawColor(0xFF, 0xFF, 0xFF, 0xFF); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	for y := 0; y < machine.DisplayHeight; y++ {
		for x := 0; x < machine.DisplayWidth; x++ {
			if !display.Pixel(x, y) {
				continue
			}

			rect := &sdl.Rect{
				X: int32(x) * win.scale,
				Y: int32(y) * win.scale,
				W: win.scale,
				H: win.scale,
			}

			if err := win.renderer.FillRect(rect); err != nil {
				return fmt.Errorf("sdl: %w", err)
			}
		}
	}

	win.renderer.Present()

	return nil
}

// Poll drains pending SDL events and latches every key still held. Closing
// the window or pressing escape returns keypad.ErrQuit.
func (win *Window) Poll(keys keypad.Latcher) error {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return keypad.ErrQuit

		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return keypad.ErrQuit
			}

			if ev.Keysym.Sym < 0 || ev.Keysym.Sym > 0xFF {
				continue
			}

			if key, ok := keypad.Lookup(byte(ev.Keysym.Sym)); ok {
				win.held[key] = ev.Type == sdl.KEYDOWN
			}
		}
	}

	for key, held := range win.held {
		if held {
			keys.PressKey(uint8(key))
		}
	}

	return nil
}

func (win *Window) Close() error {
	defer sdl.Quit()

	if err := win.renderer.Destroy(); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	if err := win.window.Destroy(); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}

	return nil
}
