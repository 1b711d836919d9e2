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
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64/format"
	"github.com/xelalexv/d64kit/pkg/d64/helper"
)

//
func NewExtract() *Extract {

	e := &Extract{}
	e.Runner = *NewRunner(
		"extract -i|--input {image} [-o|--output {folder}] [-f|--force]",
		"extract files from disk image",
		"\nUse the extract command to save all files of a disk image as program files.",
		"", `- Files are saved as {name}.prg, with the name in lower case.

`+runnerHelpEpilogue, e.Run)

	e.AddSetting(&e.File, "input", "i", "", nil, "disk image input file", true)
	e.AddSetting(&e.Output, "output", "o", "", ".", "output folder", false)
	e.AddSetting(&e.Force, "force", "f", "", false,
		"force overwriting existing files", false)

	return e
}

//
type Extract struct {
	//
	Runner
	//
	File   string
	Output string
	Force  bool
}

//
func (e *Extract) Run() error {

	if err := e.ParseSettings(); err != nil {
		return err
	}

	img, err := loadImage(e.File)
	if err != nil {
		return err
	}

	entries, err := img.Directory()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(e.Output, 0755); err != nil {
		return err
	}

	for _, entry := range entries {

		file := filepath.Join(e.Output, strings.ToLower(entry.Name)+".prg")
		if !confirmOverwrite(file, e.Force) {
			log.Warnf("skipping %s", entry.Name)
			continue
		}

		if err := helper.Save(file, img, map[string]interface{}{
			format.ParamName: entry.Name}, true); err != nil {
			return fmt.Errorf("cannot extract '%s': %w", entry.Name, err)
		}

		fmt.Printf("%s: %d blocks\n", file, entry.Blocks)
	}

	return nil
}
