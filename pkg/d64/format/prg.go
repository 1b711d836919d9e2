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

package format

import (
	"io"
	"io/ioutil"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/chain"
	"github.com/xelalexv/d64kit/pkg/d64/directory"
)

// MaxPayload is the largest payload that fits on an empty disk.
const MaxPayload = 664 * chain.DataLength

// PRG is a reader/writer for plain program files. Reading encodes the file
// into a fresh disk image, writing extracts a file from an image. The
// payload is stored as is, load address included.
type PRG struct{}

//
func NewPRG() *PRG {
	return &PRG{}
}

// Read encodes the payload read from in. Params name, diskname, and diskid
// set the file name and disk header.
func (p *PRG) Read(in io.Reader,
	params map[string]interface{}) (*d64.Image, error) {

	// anything beyond the maximum makes the encoder report a full disk
	data, err := ioutil.ReadAll(io.LimitReader(in, MaxPayload+1))
	if err != nil {
		return nil, err
	}

	name := getString(params, ParamName, "")
	if name == "" {
		name = getString(params, ParamDiskName, d64.DefaultDiskName)
	}

	log.WithFields(log.Fields{
		"name": name,
		"size": len(data),
	}).Debug("encoding program file")

	return d64.NewAssembler(
		d64.WithDiskName(getString(params, ParamDiskName, d64.DefaultDiskName)),
		d64.WithDiskID(getString(params, ParamDiskID, d64.DefaultDiskID)),
	).Encode(d64.File{Name: name, Data: data})
}

// Write extracts the file given by param name, or the first file when no
// name is given.
func (p *PRG) Write(img *d64.Image, out io.Writer,
	params map[string]interface{}) error {

	var e *directory.Entry

	if name := getString(params, ParamName, ""); name != "" {
		var err error
		if e, err = img.FindFile(name); err != nil {
			return err
		}

	} else {
		entries, err := img.Directory()
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return d64.ErrFileNotFound
		}
		e = &entries[0]
	}

	data, err := img.ReadFile(e)
	if err != nil {
		return err
	}

	_, err = out.Write(data)
	return err
}
