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

// PadByte is the filler used for names and other text fields on disk.
const PadByte = 0xa0

// NewBlock wraps data with a field index. Index entries map a field name to
// its offset and length within data. The block does not copy data, so all
// setters write through to the underlying slice.
func NewBlock(index map[string][2]int, data []byte) *Block {
	return &Block{index: index, Data: data}
}

//
type Block struct {
	index map[string][2]int
	Data  []byte
}

//
func (b *Block) GetByte(key string) byte {
	if ix, ok := b.index[key]; ok {
		if 0 <= ix[0] && ix[0] < len(b.Data) && ix[1] == 1 {
			return b.Data[ix[0]]
		}
	}
	return 0
}

//
func (b *Block) SetByte(key string, val byte) bool {
	if ix, ok := b.index[key]; ok {
		if 0 <= ix[0] && ix[0] < len(b.Data) && ix[1] == 1 {
			b.Data[ix[0]] = val
			return true
		}
	}
	return false
}

//
func (b *Block) GetSlice(key string) []byte {
	if ix, ok := b.index[key]; ok {
		start := ix[0]
		end := start + ix[1]
		if 0 <= start && end <= len(b.Data) {
			return b.Data[start:end]
		}
	}
	return []byte{}
}

// SetSlice copies val into the field, filling any remainder with pad. It
// returns false if the field is unknown or val does not fit.
func (b *Block) SetSlice(key string, val []byte, pad byte) bool {
	dst := b.GetSlice(key)
	if len(dst) == 0 || len(val) > len(dst) {
		return false
	}
	n := copy(dst, val)
	for ix := n; ix < len(dst); ix++ {
		dst[ix] = pad
	}
	return true
}

// Fill sets every byte of the field to val.
func (b *Block) Fill(key string, val byte) {
	dst := b.GetSlice(key)
	for ix := range dst {
		dst[ix] = val
	}
}

// GetInt reads a 16 bit little endian field.
func (b *Block) GetInt(key string) int {
	bytes := b.GetSlice(key)
	if len(bytes) != 2 {
		return -1
	}
	return int(bytes[0]) | (int(bytes[1]) << 8)
}

// SetInt writes a 16 bit little endian field.
func (b *Block) SetInt(key string, val int) bool {
	bytes := b.GetSlice(key)
	if len(bytes) != 2 || val < 0 || val > 0xffff {
		return false
	}
	bytes[0] = byte(val & 0xff)
	bytes[1] = byte(val >> 8)
	return true
}

// GetString returns the field as a string, cut off at the first pad byte.
func (b *Block) GetString(key string) string {
	s := b.GetSlice(key)
	for ix, c := range s {
		if c == PadByte {
			return string(s[:ix])
		}
	}
	return string(s)
}

//
func (b *Block) Sum(key string) int {
	sum := 0
	for _, s := range b.GetSlice(key) {
		sum += int(s)
	}
	return sum
}
