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

package machine

import (
	"strings"
)

// Display is the 64x32 monochrome frame buffer, stored row-major.
type Display [DisplayWidth * DisplayHeight]bool

// Pixel reports the pixel at (x, y). Coordinates wrap around the edges.
func (d *Display) Pixel(x, y int) bool {
	return d[wrap(y, DisplayHeight)*DisplayWidth+wrap(x, DisplayWidth)]
}

func (d *Display) Clear() {
	for i := range d {
		d[i] = false
	}
}

// Count returns the number of set pixels.
func (d *Display) Count() int {
	count := 0

	for _, set := range d {
		if set {
			count++
		}
	}

	return count
}

func (d *Display) String() string {
	var sb strings.Builder
	sb.Grow(len(d) + DisplayHeight)

	for y := 0; y < DisplayHeight; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}

		for x := 0; x < DisplayWidth; x++ {
			if d[y*DisplayWidth+x] {
				sb.WriteByte('*')
			} else {
				sb.WriteByte(' ')
			}
		}
	}

	return sb.String()
}

// flip XORs the pixel at (x, y) and reports whether it was set before.
func (d *Display) flip(x, y uint16) bool {
	i := (y%DisplayHeight)*DisplayWidth + x%DisplayWidth
	was := d[i]
	d[i] = !was
	return was
}

func wrap(v, size int) int {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
