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
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/format"
	"github.com/xelalexv/d64kit/pkg/d64/helper"
	"github.com/xelalexv/d64kit/pkg/repo"
)

//
func NewMake() *Make {

	m := &Make{}
	m.Runner = *NewRunner(
		`make -i|--input {file} -o|--output {image} [-n|--name {file name}]
      [--disk-name {name}] [--disk-id {id}] [-r|--repo {repo base folder}] [-f|--force]`,
		"create disk image from program file",
		"\nUse the make command to store a program file on a new D64 disk image.",
		"", `- The input may be a repository reference of the form repo://{path}, which
  is resolved relative to the repository base folder.

- When no file name is given, the name of the input file without extension is
  used. Names can have at most 16 characters.

`+runnerHelpEpilogue, m.Run)

	m.AddSetting(&m.Input, "input", "i", "", nil, "program input file", true)
	m.AddSetting(&m.Output, "output", "o", "", nil, "disk image output file", true)
	m.AddSetting(&m.Name, "name", "n", "", nil, "file name on disk", false)
	m.AddSetting(&m.DiskName, "disk-name", "", "D64_DISK_NAME",
		d64.DefaultDiskName, "disk name", false)
	m.AddSetting(&m.DiskID, "disk-id", "", "D64_DISK_ID",
		d64.DefaultDiskID, "two character disk id", false)
	m.AddSetting(&m.Repository, "repo", "r", "D64_REPO", nil,
		"repo base folder", false)
	m.AddSetting(&m.Force, "force", "f", "", false,
		"force overwriting output file", false)

	return m
}

//
type Make struct {
	//
	Runner
	//
	Input      string
	Output     string
	Name       string
	DiskName   string
	DiskID     string
	Repository string
	Force      bool
}

//
func (m *Make) Run() error {

	if err := m.ParseSettings(); err != nil {
		return err
	}

	if ext := strings.ToLower(helper.Extension(m.Output)); ext != "d64" {
		return fmt.Errorf("output file needs .d64 extension: %s", m.Output)
	}

	if !confirmOverwrite(m.Output, m.Force) {
		return nil
	}

	in, err := m.open()
	if err != nil {
		return err
	}
	defer in.Close()

	name := m.Name
	if name == "" {
		name = baseName(strings.TrimPrefix(m.Input, repo.PrefixRepoRef))
	}

	img, err := format.NewPRG().Read(in, map[string]interface{}{
		format.ParamName:     name,
		format.ParamDiskName: m.DiskName,
		format.ParamDiskID:   m.DiskID,
	})
	if err != nil {
		return fmt.Errorf("cannot create image: %w", err)
	}

	if err := helper.Save(m.Output, img, nil, true); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"image": m.Output,
		"file":  strings.ToUpper(name),
	}).Debug("image created")

	fmt.Printf("%s: %d blocks free\n", m.Output, img.FreeBlocks())
	return nil
}

//
func (m *Make) open() (io.ReadCloser, error) {
	if repo.IsReference(m.Input) {
		return repo.Resolve(m.Input, m.Repository)
	}
	return os.Open(m.Input)
}
