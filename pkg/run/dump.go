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

package run

import (
	"fmt"
	"os"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

//
func NewDump() *Dump {

	d := &Dump{}
	d.Runner = *NewRunner(
		"dump -i|--input {image} [-t|--track {track} -s|--sector {sector}]",
		"hex dump of disk image",
		"\nUse the dump command to output a hex dump of a disk image, or a single sector.",
		"", runnerHelpEpilogue, d.Run)

	d.AddSetting(&d.File, "input", "i", "", nil, "disk image input file", true)
	d.AddSetting(&d.Track, "track", "t", "", 0, "track (1-35)", false)
	d.AddSetting(&d.Sector, "sector", "s", "", 0, "sector", false)

	return d
}

//
type Dump struct {
	//
	Runner
	//
	File   string
	Track  int
	Sector int
}

//
func (d *Dump) Run() error {

	if err := d.ParseSettings(); err != nil {
		return err
	}

	img, err := loadImage(d.File)
	if err != nil {
		return err
	}

	if d.Track == 0 {
		img.Emit(os.Stdout)

	} else {
		ts, err := geometry.NewTS(d.Track, d.Sector)
		if err != nil {
			return err
		}
		img.EmitSector(os.Stdout, ts)
	}

	fmt.Println()
	return nil
}
