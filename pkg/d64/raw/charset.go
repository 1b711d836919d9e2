/*
   D64Kit - 1541 disk image encoder
   Copyright (c) 2021, Alexander Vollschwitz

   This file is part of D64Kit.

   D64Kit is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   D64Kit is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with D64Kit. If not, see <http://www.gnu.org/licenses/>.
*/

package raw

import (
	"fmt"
	"strings"
)

// ToPETSCII encodes s for use in names on disk. Lower case letters are
// folded to upper case, which the 1541 stores with the same codes as ASCII.
// Only the printable range 0x20 through 0x5f is accepted, except for '"' and
// ',' which would break a directory listing or an OPEN statement.
func ToPETSCII(s string) ([]byte, error) {

	ret := make([]byte, 0, len(s))

	for _, r := range strings.ToUpper(s) {
		if r < 0x20 || r > 0x5f || r == '"' || r == ',' {
			return nil, fmt.Errorf("character %q cannot be used in a name", r)
		}
		ret = append(ret, byte(r))
	}

	return ret, nil
}

// FromPETSCII turns a name read from disk back into a printable string.
// Shifted characters show up as '?'.
func FromPETSCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c == PadByte {
			break
		}
		if 0x20 <= c && c <= 0x5f {
			sb.WriteByte(c)
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}
