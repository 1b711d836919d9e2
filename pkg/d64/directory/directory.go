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

package directory

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
	"github.com/xelalexv/d64kit/pkg/d64/raw"
)

// file type codes
const (
	TypeDEL = 0x80
	TypeSEQ = 0x81
	TypePRG = 0x82
	TypeUSR = 0x83
	TypeREL = 0x84
	// a file is only valid when this bit is set
	FlagClosed = 0x80
)

//
const (
	NameLength      = 16
	EntryLength     = 32
	EntriesInSector = geometry.SectorSize / EntryLength
)

// number of entries a Writer accepts, only the first slot is used
const MaxEntries = 1

//
var (
	ErrNameTooLong   = errors.New("name too long")
	ErrInvalidName   = errors.New("invalid name")
	ErrDirectoryFull = errors.New("directory full")
)

// field layout of a directory entry; the first entry of a sector shares its
// first two bytes with the link to the next directory sector
var entryIndex = map[string][2]int{
	"nextTrack":  {0, 1},
	"nextSector": {1, 1},
	"type":       {2, 1},
	"track":      {3, 1},
	"sector":     {4, 1},
	"name":       {5, NameLength},
	"blocks":     {30, 2},
}

// Entry describes a file found in a directory sector.
type Entry struct {
	Name   string
	Type   byte
	First  geometry.TS
	Blocks int
}

//
func (e *Entry) TypeName() string {
	switch e.Type &^ 0x40 {
	case TypeDEL:
		return "DEL"
	case TypeSEQ:
		return "SEQ"
	case TypePRG:
		return "PRG"
	case TypeUSR:
		return "USR"
	case TypeREL:
		return "REL"
	default:
		return "???"
	}
}

// Writer writes file entries into a single directory sector, in place.
type Writer struct {
	sector  []byte
	written int
}

// NewWriter creates a writer for the given directory sector, which must be
// the slice of the image holding that sector.
func NewWriter(sector []byte) *Writer {
	return &Writer{sector: sector}
}

// Init terminates the directory chain at this sector.
func (w *Writer) Init() {
	b := w.entry(0)
	b.SetByte("nextTrack", 0)
	b.SetByte("nextSector", 0xff)
}

// WriteEntry adds the entry of a file. Only the first slot of the sector is
// used, writing a second entry fails with ErrDirectoryFull.
func (w *Writer) WriteEntry(name string, fileType byte, first geometry.TS,
	blocks int) error {

	if w.written >= MaxEntries {
		return fmt.Errorf("cannot add '%s': %w", name, ErrDirectoryFull)
	}

	encoded, err := EncodeName(name)
	if err != nil {
		return err
	}

	if !first.IsValid() {
		return fmt.Errorf("no first block for '%s': %w",
			name, geometry.ErrInvalidTrack)
	}

	if blocks < 1 || blocks > 0xffff {
		return fmt.Errorf("invalid block count for '%s': %d", name, blocks)
	}

	b := w.entry(0)
	b.SetByte("type", fileType)
	b.SetByte("track", byte(first.Track()))
	b.SetByte("sector", byte(first.Sector()))
	b.SetSlice("name", encoded, raw.PadByte)
	b.SetInt("blocks", blocks)

	w.written++
	return nil
}

//
func (w *Writer) entry(ix int) *raw.Block {
	off := ix * EntryLength
	return raw.NewBlock(entryIndex, w.sector[off:off+EntryLength])
}

// EncodeName converts a name into its on-disk form without padding. Length
// is checked before the characters.
func EncodeName(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if err := checkLength(name, "name"); err != nil {
		return nil, err
	}
	encoded, err := raw.ToPETSCII(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidName, err)
	}
	return encoded, nil
}

// checkLength counts characters, each of which takes one byte on disk
func checkLength(name, what string) error {
	if n := utf8.RuneCountInString(name); n > NameLength {
		return fmt.Errorf("%w: %s '%s' has %d characters, maximum is %d",
			ErrNameTooLong, what, name, n, NameLength)
	}
	return nil
}

// ReadEntries returns all closed file entries in a directory sector, along
// with the link to the next directory sector. Entries pointing outside the
// disk are skipped.
func ReadEntries(sector []byte) ([]Entry, int, int) {

	var ret []Entry

	for ix := 0; ix < EntriesInSector; ix++ {
		off := ix * EntryLength
		b := raw.NewBlock(entryIndex, sector[off:off+EntryLength])

		typ := b.GetByte("type")
		if typ&FlagClosed == 0 {
			continue
		}

		first, err := geometry.NewTS(
			int(b.GetByte("track")), int(b.GetByte("sector")))
		if err != nil {
			continue
		}

		ret = append(ret, Entry{
			Name:   raw.FromPETSCII(b.GetSlice("name")),
			Type:   typ,
			First:  first,
			Blocks: b.GetInt("blocks"),
		})
	}

	return ret, int(sector[0]), int(sector[1])
}
