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

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
	"github.com/xelalexv/d64kit/pkg/d64/raw"
)

//
const (
	DOSVersion = 0x41
	DOSType    = "2A"
	// offset of the BAM records within the BAM sector
	BAMOffset = 4
)

//
var ErrInvalidDiskID = errors.New("invalid disk id")

// field layout of the BAM sector, apart from the BAM records themselves
var headerIndex = map[string][2]int{
	"dirTrack":   {0x00, 1},
	"dirSector":  {0x01, 1},
	"dosVersion": {0x02, 1},
	"unused":     {0x03, 1},
	"name":       {0x90, NameLength},
	"fill1":      {0xa0, 2},
	"id":         {0xa2, 2},
	"fill2":      {0xa4, 1},
	"dosType":    {0xa5, 2},
	"fill3":      {0xa7, 4},
}

// WriteHeader writes disk name, disk id, and DOS version fields into the BAM
// sector.
func WriteHeader(bamSector []byte, name, id string) error {

	if err := checkLength(name, "disk name"); err != nil {
		return err
	}
	encName, err := raw.ToPETSCII(name)
	if err != nil {
		return fmt.Errorf("%w: disk name: %v", ErrInvalidName, err)
	}

	encID, err := raw.ToPETSCII(id)
	if err != nil || len(encID) != 2 {
		return fmt.Errorf("%w: '%s', need two characters", ErrInvalidDiskID, id)
	}

	b := raw.NewBlock(headerIndex, bamSector)
	b.SetByte("dirTrack", geometry.DirTrack)
	b.SetByte("dirSector", geometry.DirSector)
	b.SetByte("dosVersion", DOSVersion)
	b.SetByte("unused", 0)
	b.SetSlice("name", encName, raw.PadByte)
	b.Fill("fill1", raw.PadByte)
	b.SetSlice("id", encID, raw.PadByte)
	b.Fill("fill2", raw.PadByte)
	b.SetSlice("dosType", []byte(DOSType), raw.PadByte)
	b.Fill("fill3", raw.PadByte)

	return nil
}

// Header is the disk information found in the BAM sector.
type Header struct {
	Name       string
	ID         string
	DOSVersion byte
	DOSType    string
	DirTrack   int
	DirSector  int
}

// ReadHeader reads the disk information from a BAM sector.
func ReadHeader(bamSector []byte) *Header {
	b := raw.NewBlock(headerIndex, bamSector)
	return &Header{
		Name:       raw.FromPETSCII(b.GetSlice("name")),
		ID:         raw.FromPETSCII(b.GetSlice("id")),
		DOSVersion: b.GetByte("dosVersion"),
		DOSType:    b.GetString("dosType"),
		DirTrack:   int(b.GetByte("dirTrack")),
		DirSector:  int(b.GetByte("dirSector")),
	}
}
