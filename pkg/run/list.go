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
	"os"
)

//
func NewList() *List {

	l := &List{}
	l.Runner = *NewRunner(
		"ls -i|--input {image}",
		"list directory of disk image",
		"\nUse the ls command to list the directory of a D64 disk image.",
		"", runnerHelpEpilogue, l.Run)

	l.AddSetting(&l.File, "input", "i", "", nil, "disk image input file", true)

	return l
}

//
type List struct {
	Runner
	//
	File string
}

//
func (l *List) Run() error {

	if err := l.ParseSettings(); err != nil {
		return err
	}

	img, err := loadImage(l.File)
	if err != nil {
		return err
	}

	img.List(os.Stdout)
	return nil
}
