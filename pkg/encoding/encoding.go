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

package encoding

import (
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidHex = errors.New("invalid hex string")

// Decodes a hexidecimal string in the formats: 0xFFF, xFFF, 0xFF, xFF
func DecodeHex(s string) (uint16, error) {
	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 || s[0] != '0' {
		return 0, ErrInvalidHex
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, err
	}

	return uint16(result), nil
}

// Decodes a base-10 string in the formats: #123, 123
func DecodeInt(s string) (int, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	result, err := strconv.ParseInt(s, 10, 16)

	if err != nil {
		return 0, err
	}

	return int(result), nil
}

// Decodes a byte given either as hex (0xFF, xFF) or base-10 (#255, 255)
func DecodeByte(s string) (uint8, error) {
	if strings.ContainsAny(s, "xX") {
		value, err := DecodeHex(s)
		if err != nil {
			return 0, err
		}
		if value > 0xFF {
			return 0, strconv.ErrRange
		}
		return uint8(value), nil
	}

	value, err := DecodeInt(s)
	if err != nil {
		return 0, err
	}
	if value < 0 || value > 0xFF {
		return 0, strconv.ErrRange
	}

	return uint8(value), nil
}

// JoinWord combines two bytes big-endian.
func JoinWord(hi, lo byte) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}

func SplitWord(value uint16) (hi, lo byte) {
	return byte(value >> 8), byte(value)
}

// BCD splits value into its three decimal digits.
func BCD(value uint8) (hundreds, tens, ones uint8) {
	return value / 100, value / 10 % 10, value % 10
}
