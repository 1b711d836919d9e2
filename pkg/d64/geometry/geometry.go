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

package geometry

import (
	"errors"
	"fmt"
)

//
const (
	TrackCount = 35
	SectorSize = 256
	DirTrack   = 18
	BAMSector  = 0
	DirSector  = 1
)

//
var (
	ErrInvalidTrack  = errors.New("invalid track")
	ErrInvalidSector = errors.New("invalid sector")
)

// sectors per track, index 0 is unused since tracks start at 1
var sectorsPerTrack = [TrackCount + 1]int{
	0,
	21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, 21, // 1-17
	19, 19, 19, 19, 19, 19, 19, // 18-24
	18, 18, 18, 18, 18, 18, // 25-30
	17, 17, 17, 17, 17, // 31-35
}

// start offset of each track within the image, plus total size at the end
var trackOffsets [TrackCount + 2]int

func init() {
	off := 0
	for t := 1; t <= TrackCount; t++ {
		trackOffsets[t] = off
		off += sectorsPerTrack[t] * SectorSize
	}
	trackOffsets[TrackCount+1] = off
}

// ImageSize is the size in bytes of a complete image.
func ImageSize() int {
	return trackOffsets[TrackCount+1]
}

// TotalSectors is the number of sectors on a disk.
func TotalSectors() int {
	return ImageSize() / SectorSize
}

// SectorsInTrack returns the number of sectors on the given track.
func SectorsInTrack(track int) (int, error) {
	if track < 1 || track > TrackCount {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTrack, track)
	}
	return sectorsPerTrack[track], nil
}

// ByteOffset returns the offset of the first byte of the given sector within
// the image.
func ByteOffset(track, sector int) (int, error) {
	count, err := SectorsInTrack(track)
	if err != nil {
		return 0, err
	}
	if sector < 0 || sector >= count {
		return 0, fmt.Errorf("%w: %d on track %d", ErrInvalidSector, sector, track)
	}
	return trackOffsets[track] + sector*SectorSize, nil
}

// TS is a validated track/sector pair. The zero value is not a valid
// location, it is used wherever no location applies.
type TS struct {
	track  int
	sector int
}

// NewTS validates and creates a track/sector pair.
func NewTS(track, sector int) (TS, error) {
	if _, err := ByteOffset(track, sector); err != nil {
		return TS{}, err
	}
	return TS{track: track, sector: sector}, nil
}

// MustTS is like NewTS but panics on invalid input. Only use with constants.
func MustTS(track, sector int) TS {
	ts, err := NewTS(track, sector)
	if err != nil {
		panic(err)
	}
	return ts
}

// First is the first sector of the disk.
func First() TS {
	return TS{track: 1, sector: 0}
}

//
func (ts TS) Track() int {
	return ts.track
}

//
func (ts TS) Sector() int {
	return ts.sector
}

//
func (ts TS) IsValid() bool {
	return ts.track != 0
}

// Offset returns the byte offset of this sector within the image.
func (ts TS) Offset() int {
	return trackOffsets[ts.track] + ts.sector*SectorSize
}

// Next returns the sequential successor of this sector, moving on to the
// first sector of the next track at the end of a track. The returned pair is
// invalid when ts is the last sector of the disk.
func (ts TS) Next() TS {
	if !ts.IsValid() {
		return TS{}
	}
	if ts.sector+1 < sectorsPerTrack[ts.track] {
		return TS{track: ts.track, sector: ts.sector + 1}
	}
	if ts.track < TrackCount {
		return TS{track: ts.track + 1, sector: 0}
	}
	return TS{}
}

// Slice returns the bytes of this sector within img.
func (ts TS) Slice(img []byte) []byte {
	off := ts.Offset()
	return img[off : off+SectorSize]
}

//
func (ts TS) String() string {
	return fmt.Sprintf("%02d/%02d", ts.track, ts.sector)
}
