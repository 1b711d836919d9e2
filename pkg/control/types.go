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

package control

import (
	"fmt"
	"strings"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/directory"
)

//
type Status struct {
	Version    string `json:"version"`
	Tracks     int    `json:"tracks"`
	Sectors    int    `json:"sectors"`
	ImageSize  int    `json:"imageSize"`
	MaxPayload int    `json:"maxPayload"`
	Repository bool   `json:"repository"`
}

//
func (s *Status) String() string {
	repo := "disabled"
	if s.Repository {
		repo = "enabled"
	}
	return fmt.Sprintf(
		"\nD64Kit %s\n%d tracks, %d sectors, %d bytes per image\n"+
			"maximum payload: %d bytes\nrepository: %s\n",
		s.Version, s.Tracks, s.Sectors, s.ImageSize, s.MaxPayload, repo)
}

// Listing is the directory of a disk image.
type Listing struct {
	Name    string  `json:"name"`
	ID      string  `json:"id"`
	DOSType string  `json:"dosType"`
	Files   []*File `json:"files"`
	Free    int     `json:"blocksFree"`
}

//
type File struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Blocks int    `json:"blocks"`
	Track  int    `json:"track"`
	Sector int    `json:"sector"`
}

//
func (l *Listing) fill(img *d64.Image) error {

	h := img.Header()
	l.Name = strings.TrimSpace(h.Name)
	l.ID = h.ID
	l.DOSType = h.DOSType
	l.Free = img.FreeBlocks()

	entries, err := img.Directory()
	if err != nil {
		return err
	}

	l.Files = make([]*File, 0, len(entries))
	for ix := range entries {
		l.Files = append(l.Files, newFile(&entries[ix]))
	}

	return nil
}

//
func newFile(e *directory.Entry) *File {
	return &File{
		Name:   e.Name,
		Type:   e.TypeName(),
		Blocks: e.Blocks,
		Track:  e.First.Track(),
		Sector: e.First.Sector(),
	}
}
