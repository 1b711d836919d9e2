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

package helper

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/xelalexv/d64kit/pkg/d64"
	"github.com/xelalexv/d64kit/pkg/d64/format"
)

//
var ErrFileExists = errors.New("file exists")

// Save writes img to file in the format given by the file's extension. The
// image is first written to a temporary file in the same folder, which then
// replaces file. An existing file is only replaced when force is set. On
// error, file is left untouched.
func Save(file string, img *d64.Image, params map[string]interface{},
	force bool) error {

	start := time.Now()

	if !force {
		if _, err := os.Stat(file); err == nil {
			return fmt.Errorf("%w: %s", ErrFileExists, file)
		} else if !os.IsNotExist(err) {
			return err
		}
	}

	fm, err := format.NewFormat(Extension(file))
	if err != nil {
		return err
	}

	fd, err := os.CreateTemp(filepath.Dir(file), filepath.Base(file)+"_*")
	if err != nil {
		return err
	}
	tmp := fd.Name()

	if err := writeSynced(fd, img, fm, params); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, file); err != nil {
		os.Remove(tmp)
		return err
	}

	log.Debugf("saving %s took %v", file, time.Since(start))
	return nil
}

//
func writeSynced(fd *os.File, img *d64.Image, fm format.Writer,
	params map[string]interface{}) error {

	out := bufio.NewWriter(fd)

	if err := fm.Write(img, out, params); err != nil {
		fd.Close()
		return err
	}

	if err := out.Flush(); err != nil {
		fd.Close()
		return err
	}

	if err := fd.Sync(); err != nil {
		fd.Close()
		return err
	}

	return fd.Close()
}

// Load reads an image from file, in the format given by the file's extension.
func Load(file string, params map[string]interface{}) (*d64.Image, error) {

	fm, err := format.NewFormat(Extension(file))
	if err != nil {
		return nil, err
	}

	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	return fm.Read(bufio.NewReader(fd), params)
}

//
func Extension(file string) string {
	ext := filepath.Ext(file)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	return ext
}
