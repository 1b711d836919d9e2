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

package chain

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// payload bytes per sector, the first two bytes hold the link
const DataLength = geometry.SectorSize - 2

//
var (
	ErrDiskFull    = errors.New("disk full")
	ErrBrokenChain = errors.New("broken sector chain")
)

// Allocator hands out sectors for file data.
type Allocator interface {
	MarkUsed(ts geometry.TS) error
	NextFree(from geometry.TS, skip int) (geometry.TS, error)
	FreeExcluding(track int) int
}

// BlockCount returns the number of sectors needed for a payload of the given
// size. An empty payload still occupies one sector.
func BlockCount(size int) int {
	if size <= 0 {
		return 1
	}
	return (size + DataLength - 1) / DataLength
}

// patch is a forward reference from the link bytes at offset to the sector
// holding block number target of the same chain.
type patch struct {
	offset int
	target int
}

// Writer writes file chains into an image buffer, in place.
type Writer struct {
	img   []byte
	alloc Allocator
}

//
func NewWriter(img []byte, alloc Allocator) *Writer {
	return &Writer{img: img, alloc: alloc}
}

// WriteFile stores payload as a chain of sectors and returns the location of
// the first sector, and the number of sectors used. Space is checked before
// anything is written, so on ErrDiskFull neither image nor BAM are touched.
func (w *Writer) WriteFile(payload []byte) (geometry.TS, int, error) {

	blocks := BlockCount(len(payload))

	if free := w.alloc.FreeExcluding(geometry.DirTrack); blocks > free {
		return geometry.TS{}, 0, fmt.Errorf(
			"%w: need %d blocks, %d blocks free", ErrDiskFull, blocks, free)
	}

	sectors := make([]geometry.TS, 0, blocks)
	patches := make([]patch, 0, blocks-1)
	cursor := geometry.First()

	for ix := 0; ix < blocks; ix++ {

		ts, err := w.alloc.NextFree(cursor, geometry.DirTrack)
		if err != nil {
			return geometry.TS{}, 0, fmt.Errorf(
				"allocating block %d: %w", ix, err)
		}
		if err := w.alloc.MarkUsed(ts); err != nil {
			return geometry.TS{}, 0, err
		}

		log.WithFields(log.Fields{"block": ix, "sector": ts}).Trace("allocated")

		sectors = append(sectors, ts)
		sec := ts.Slice(w.img)

		start := ix * DataLength
		end := start + DataLength
		if end > len(payload) {
			end = len(payload)
		}
		n := copy(sec[2:], payload[start:end])

		if ix < blocks-1 {
			patches = append(patches, patch{offset: ts.Offset(), target: ix + 1})
		} else {
			sec[0] = 0
			sec[1] = byte(n + 1)
		}

		cursor = ts.Next()
	}

	for _, p := range patches {
		next := sectors[p.target]
		w.img[p.offset] = byte(next.Track())
		w.img[p.offset+1] = byte(next.Sector())
	}

	return sectors[0], blocks, nil
}

// Follow decodes the chain starting at first, and returns the payload along
// with the number of sectors in the chain.
func Follow(img []byte, first geometry.TS) ([]byte, int, error) {

	if len(img) < geometry.ImageSize() {
		return nil, 0, fmt.Errorf("%w: image too short", ErrBrokenChain)
	}

	var ret []byte
	visited := make(map[geometry.TS]bool)

	for ts := first; ; {

		if !ts.IsValid() {
			return nil, 0, fmt.Errorf("%w: invalid start", ErrBrokenChain)
		}
		if visited[ts] {
			return nil, 0, fmt.Errorf("%w: loop at %s", ErrBrokenChain, ts)
		}
		visited[ts] = true

		sec := ts.Slice(img)

		if sec[0] == 0 {
			used := int(sec[1])
			if used < 1 {
				return nil, 0, fmt.Errorf(
					"%w: invalid length in last sector %s", ErrBrokenChain, ts)
			}
			ret = append(ret, sec[2:used+1]...)
			return ret, len(visited), nil
		}

		ret = append(ret, sec[2:]...)

		next, err := geometry.NewTS(int(sec[0]), int(sec[1]))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: link in %s: %v", ErrBrokenChain, ts, err)
		}
		ts = next
	}
}
