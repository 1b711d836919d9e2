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

package bam

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// length of one track's record in the rendered BAM: free count + bitmap
const RecordLength = 4

// length of the rendered BAM
const Length = geometry.TrackCount * RecordLength

//
var (
	ErrDoubleAllocation = errors.New("sector already in use")
	ErrInconsistent     = errors.New("inconsistent BAM record")
	ErrNoFreeSector     = errors.New("no free sector")
)

// record holds the allocation state of one track. The free count is stored
// along with the bitmap as on disk, and is only ever changed together with
// it.
type record struct {
	free   byte
	bitmap [3]byte
}

//
func newRecord(sectors int) record {
	r := record{free: byte(sectors)}
	for s := 0; s < sectors; s++ {
		r.bitmap[s/8] |= 1 << uint(s%8)
	}
	return r
}

//
func (r *record) isFree(sector int) bool {
	return r.bitmap[sector/8]&(1<<uint(sector%8)) != 0
}

//
func (r *record) use(sector int) error {
	if !r.isFree(sector) {
		return ErrDoubleAllocation
	}
	r.bitmap[sector/8] &^= 1 << uint(sector%8)
	r.free--
	return r.check()
}

//
func (r *record) popCount() int {
	return bits.OnesCount8(r.bitmap[0]) + bits.OnesCount8(r.bitmap[1]) +
		bits.OnesCount8(r.bitmap[2])
}

//
func (r *record) check() error {
	if int(r.free) != r.popCount() {
		return fmt.Errorf("%w: free count %d, bitmap %d",
			ErrInconsistent, r.free, r.popCount())
	}
	return nil
}

// BAM is the block availability map of a disk, one record per track.
type BAM struct {
	records [geometry.TrackCount]record
}

// New returns a BAM with all sectors free.
func New() *BAM {
	b := &BAM{}
	b.InitializeAllFree()
	return b
}

// InitializeAllFree marks every sector on every track as free.
func (b *BAM) InitializeAllFree() {
	for t := 1; t <= geometry.TrackCount; t++ {
		count, _ := geometry.SectorsInTrack(t)
		b.records[t-1] = newRecord(count)
	}
}

// MarkUsed allocates a sector. Allocating a sector twice is a logic error
// and reported as ErrDoubleAllocation.
func (b *BAM) MarkUsed(ts geometry.TS) error {
	if !ts.IsValid() {
		return fmt.Errorf("cannot mark %s used: %w", ts, geometry.ErrInvalidTrack)
	}
	if err := b.records[ts.Track()-1].use(ts.Sector()); err != nil {
		return fmt.Errorf("cannot mark %s used: %w", ts, err)
	}
	return nil
}

// MarkReservedTrackUsed allocates the given sectors on the directory track.
func (b *BAM) MarkReservedTrackUsed(sectors ...int) error {
	for _, s := range sectors {
		ts, err := geometry.NewTS(geometry.DirTrack, s)
		if err != nil {
			return err
		}
		if err := b.MarkUsed(ts); err != nil {
			return err
		}
	}
	return nil
}

//
func (b *BAM) IsFree(ts geometry.TS) bool {
	if !ts.IsValid() {
		return false
	}
	return b.records[ts.Track()-1].isFree(ts.Sector())
}

// FreeInTrack returns the free count recorded for a track.
func (b *BAM) FreeInTrack(track int) (int, error) {
	if _, err := geometry.SectorsInTrack(track); err != nil {
		return 0, err
	}
	return int(b.records[track-1].free), nil
}

// FreeTotal returns the number of free sectors on the whole disk.
func (b *BAM) FreeTotal() int {
	return b.FreeExcluding(0)
}

// FreeExcluding returns the number of free sectors on all tracks except the
// given one. This is the space available for file data when passing the
// directory track.
func (b *BAM) FreeExcluding(track int) int {
	ret := 0
	for ix := range b.records {
		if ix+1 != track {
			ret += int(b.records[ix].free)
		}
	}
	return ret
}

// NextFree searches for the first free sector at or after from, in
// sequential order, skipping track skip entirely.
func (b *BAM) NextFree(from geometry.TS, skip int) (geometry.TS, error) {
	for ts := from; ts.IsValid(); ts = ts.Next() {
		if ts.Track() == skip {
			continue
		}
		if b.IsFree(ts) {
			return ts, nil
		}
	}
	return geometry.TS{}, ErrNoFreeSector
}

// Verify checks the free count of every track against its bitmap.
func (b *BAM) Verify() error {
	for ix := range b.records {
		if err := b.records[ix].check(); err != nil {
			return fmt.Errorf("track %d: %w", ix+1, err)
		}
	}
	return nil
}

// Render serializes the BAM into its on-disk layout, track 1 first.
func (b *BAM) Render() []byte {
	ret := make([]byte, Length)
	for ix, r := range b.records {
		off := ix * RecordLength
		ret[off] = r.free
		copy(ret[off+1:off+RecordLength], r.bitmap[:])
	}
	return ret
}

// Parse reads a rendered BAM. Records whose free count does not match their
// bitmap, or that mark sectors beyond the end of a track free, are rejected.
func Parse(data []byte) (*BAM, error) {

	if len(data) < Length {
		return nil, fmt.Errorf("BAM too short: %d bytes", len(data))
	}

	b := &BAM{}

	for ix := range b.records {
		off := ix * RecordLength
		r := record{free: data[off]}
		copy(r.bitmap[:], data[off+1:off+RecordLength])

		count, _ := geometry.SectorsInTrack(ix + 1)
		for s := count; s < 24; s++ {
			if r.isFree(s) {
				return nil, fmt.Errorf(
					"%w: track %d has sector %d beyond its end marked free",
					ErrInconsistent, ix+1, s)
			}
		}
		if err := r.check(); err != nil {
			return nil, fmt.Errorf("track %d: %w", ix+1, err)
		}
		b.records[ix] = r
	}

	return b, nil
}
