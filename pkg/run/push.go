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

	"github.com/xelalexv/d64kit/pkg/transfer"
)

//
func NewPush() *Push {

	p := &Push{}
	p.Runner = *NewRunner(
		"push -i|--input {image} -d|--device {device}",
		"send disk image to drive adapter",
		"\nUse the push command to send a disk image over a serial line to a drive adapter.",
		"", runnerHelpEpilogue, p.Run)

	p.AddSetting(&p.File, "input", "i", "", nil, "disk image input file", true)
	p.AddSetting(&p.Device, "device", "d", "D64_SERIAL_DEVICE", nil,
		"serial port device for adapter", true)

	return p
}

//
type Push struct {
	//
	Runner
	//
	File   string
	Device string
}

//
func (p *Push) Run() error {

	if err := p.ParseSettings(); err != nil {
		return err
	}

	img, err := loadImage(p.File)
	if err != nil {
		return err
	}

	if err := transfer.NewPusher(p.Device).Push(img); err != nil {
		return err
	}

	fmt.Printf("%s pushed to %s\n", p.File, p.Device)
	return nil
}
