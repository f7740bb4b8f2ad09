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

// All 8-bit arithmetic goes through these helpers so results and flags are
// computed explicitly modulo 256.

func add8(a, b uint8) (sum, carry uint8) {
	total := uint16(a) + uint16(b)
	return uint8(total & 0xFF), uint8(total >> 8)
}

// sub8 returns a-b and 1 when no borrow occurred (a >= b).
func sub8(a, b uint8) (diff, notBorrow uint8) {
	diff = uint8((uint16(a) - uint16(b)) & 0xFF)
	if a >= b {
		notBorrow = 1
	}
	return diff, notBorrow
}

func shr8(a uint8) (result, out uint8) {
	return a >> 1, a & 0x01
}

func shl8(a uint8) (result, out uint8) {
	return uint8((uint16(a) << 1) & 0xFF), a >> 7
}
