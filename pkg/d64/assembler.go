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

package d64

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64/bam"
	"github.com/xelalexv/d64kit/pkg/d64/chain"
	"github.com/xelalexv/d64kit/pkg/d64/directory"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

//
const (
	DefaultDiskName = "D64KIT"
	DefaultDiskID   = "01"
)

// File is a named payload to be stored on a disk.
type File struct {
	Name string
	Data []byte
}

// Option configures an Assembler.
type Option func(a *Assembler)

//
func WithDiskName(n string) Option {
	return func(a *Assembler) {
		a.diskName = n
	}
}

//
func WithDiskID(id string) Option {
	return func(a *Assembler) {
		a.diskID = id
	}
}

// Assembler builds disk images. An Assembler is not safe for concurrent use,
// but separate instances are independent of each other.
type Assembler struct {
	diskName string
	diskID   string
	//
	img []byte
	bam *bam.BAM
	dir *directory.Writer
}

//
func NewAssembler(opts ...Option) *Assembler {
	a := &Assembler{
		diskName: DefaultDiskName,
		diskID:   DefaultDiskID,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Encode creates a new image containing the given files. Either a complete
// image is returned, or an error and no image.
func (a *Assembler) Encode(files ...File) (*Image, error) {

	if len(files) > directory.MaxEntries {
		return nil, fmt.Errorf("%d files: %w", len(files), ErrDirectoryFull)
	}

	start := time.Now()
	defer a.reset()

	log.WithFields(log.Fields{
		"disk":  a.diskName,
		"id":    a.diskID,
		"files": len(files),
	}).Debug("encoding image")

	a.img = make([]byte, geometry.ImageSize())

	a.bam = bam.New()

	bamSector := geometry.MustTS(geometry.DirTrack, geometry.BAMSector)
	if err := directory.WriteHeader(
		bamSector.Slice(a.img), a.diskName, a.diskID); err != nil {
		return nil, err
	}

	if err := a.bam.MarkReservedTrackUsed(
		geometry.BAMSector, geometry.DirSector); err != nil {
		return nil, err
	}

	dirSector := geometry.MustTS(geometry.DirTrack, geometry.DirSector)
	a.dir = directory.NewWriter(dirSector.Slice(a.img))
	a.dir.Init()

	// names are checked up front so a bad name fails before any data is
	// written; the entry itself is written after its chain
	for _, f := range files {
		if _, err := directory.EncodeName(f.Name); err != nil {
			return nil, err
		}
	}

	cw := chain.NewWriter(a.img, a.bam)

	for _, f := range files {
		first, blocks, err := cw.WriteFile(f.Data)
		if err != nil {
			return nil, fmt.Errorf("writing '%s': %w", f.Name, err)
		}
		if err := a.dir.WriteEntry(
			f.Name, directory.TypePRG, first, blocks); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"file":   f.Name,
			"size":   len(f.Data),
			"first":  first,
			"blocks": blocks,
		}).Debug("file written")
	}

	if err := a.bam.Verify(); err != nil {
		return nil, err
	}
	copy(bamSector.Slice(a.img)[directory.BAMOffset:], a.bam.Render())

	ret := &Image{data: a.img}
	log.Debugf("encoding took %v", time.Since(start))

	return ret, nil
}

//
func (a *Assembler) reset() {
	a.img = nil
	a.bam = nil
	a.dir = nil
}
