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
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/xelalexv/d64kit/pkg/d64/bam"
	"github.com/xelalexv/d64kit/pkg/d64/chain"
	"github.com/xelalexv/d64kit/pkg/d64/directory"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// Image is a finished disk image. Its contents cannot be changed.
type Image struct {
	data []byte
}

// Open wraps the raw bytes of an image, after checking size and BAM. The
// data is copied.
func Open(data []byte) (*Image, error) {

	if len(data) != geometry.ImageSize() {
		return nil, fmt.Errorf("%w: size is %d bytes, want %d",
			ErrInvalidImage, len(data), geometry.ImageSize())
	}

	img := &Image{data: make([]byte, len(data))}
	copy(img.data, data)

	if _, err := img.BAM(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	return img, nil
}

// Bytes returns a copy of the image data.
func (i *Image) Bytes() []byte {
	ret := make([]byte, len(i.data))
	copy(ret, i.data)
	return ret
}

//
func (i *Image) Size() int {
	return len(i.data)
}

// WriteTo writes the image to w, implementing io.WriterTo.
func (i *Image) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(i.data)
	return int64(n), err
}

// Sector returns a copy of the given sector.
func (i *Image) Sector(ts geometry.TS) []byte {
	ret := make([]byte, geometry.SectorSize)
	copy(ret, ts.Slice(i.data))
	return ret
}

//
func (i *Image) Header() *directory.Header {
	return directory.ReadHeader(i.bamSector())
}

//
func (i *Image) BAM() (*bam.BAM, error) {
	return bam.Parse(i.bamSector()[directory.BAMOffset:])
}

// FreeBlocks returns the number of sectors available for file data.
func (i *Image) FreeBlocks() int {
	b, err := i.BAM()
	if err != nil {
		return 0
	}
	return b.FreeExcluding(geometry.DirTrack)
}

//
func (i *Image) bamSector() []byte {
	return geometry.MustTS(geometry.DirTrack, geometry.BAMSector).Slice(i.data)
}

// Directory returns the entries of all files on this disk, following the
// directory chain on the directory track.
func (i *Image) Directory() ([]directory.Entry, error) {

	var ret []directory.Entry
	visited := make(map[int]bool)

	for s := geometry.DirSector; ; {

		ts, err := geometry.NewTS(geometry.DirTrack, s)
		if err != nil {
			return nil, fmt.Errorf("%w: directory link: %v", ErrInvalidImage, err)
		}
		if visited[s] {
			return nil, fmt.Errorf("%w: directory loop at %s", ErrInvalidImage, ts)
		}
		visited[s] = true

		entries, nextTrack, nextSector := directory.ReadEntries(ts.Slice(i.data))
		ret = append(ret, entries...)

		if nextTrack == 0 {
			return ret, nil
		}
		if nextTrack != geometry.DirTrack {
			return nil, fmt.Errorf("%w: directory leaves track %d",
				ErrInvalidImage, geometry.DirTrack)
		}
		s = nextSector
	}
}

// FindFile looks up a file by name. Names are compared the way they are
// stored, i.e. in upper case.
func (i *Image) FindFile(name string) (*directory.Entry, error) {

	entries, err := i.Directory()
	if err != nil {
		return nil, err
	}

	want := strings.ToUpper(name)
	for ix := range entries {
		if entries[ix].Name == want {
			return &entries[ix], nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrFileNotFound, name)
}

// ReadFile decodes the sector chain of a file. The number of sectors in the
// chain must match the block count in the directory.
func (i *Image) ReadFile(e *directory.Entry) ([]byte, error) {
	data, blocks, err := chain.Follow(i.data, e.First)
	if err != nil {
		return nil, fmt.Errorf("reading '%s': %w", e.Name, err)
	}
	if blocks != e.Blocks {
		return nil, fmt.Errorf(
			"%w: '%s' has %d blocks in chain, but %d in directory",
			ErrBrokenChain, e.Name, blocks, e.Blocks)
	}
	return data, nil
}

// List writes a directory listing.
func (i *Image) List(w io.Writer) {

	h := i.Header()
	fmt.Fprintf(w, "\n0 \"%-16s\" %s %s\n", h.Name, h.ID, h.DOSType)

	entries, err := i.Directory()
	if err != nil {
		fmt.Fprintf(w, "\ndirectory unreadable: %v\n", err)
	}

	for _, e := range entries {
		fmt.Fprintf(w, "%-5d %-18s %s\n", e.Blocks, "\""+e.Name+"\"", e.TypeName())
	}

	fmt.Fprintf(w, "%d BLOCKS FREE.\n\n", i.FreeBlocks())
}

// Emit writes a hex dump of all sectors.
func (i *Image) Emit(w io.Writer) {
	for ts := geometry.First(); ts.IsValid(); ts = ts.Next() {
		i.EmitSector(w, ts)
	}
}

// EmitSector writes a hex dump of one sector.
func (i *Image) EmitSector(w io.Writer, ts geometry.TS) {
	io.WriteString(w, fmt.Sprintf("\nSECTOR: %s - offset: %06X\n", ts, ts.Offset()))
	d := hex.Dumper(w)
	defer d.Close()
	d.Write(ts.Slice(i.data))
}
