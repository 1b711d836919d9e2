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
	"fmt"
	"io"
	"strings"

	"github.com/xelalexv/d64kit/pkg/d64"
)

// Reader interface for reading in a disk image
type Reader interface {
	// params are format specific, nil is allowed
	Read(in io.Reader, params map[string]interface{}) (*d64.Image, error)
}

// Writer interface for writing out a disk image
type Writer interface {
	Write(img *d64.Image, out io.Writer, params map[string]interface{}) error
}

// ReaderWriter interface for reading/writing a disk image
type ReaderWriter interface {
	Reader
	Writer
}

// parameter names
const (
	ParamName     = "name"
	ParamDiskName = "diskname"
	ParamDiskID   = "diskid"
)

//
func NewFormat(typ string) (ReaderWriter, error) {

	switch strings.ToLower(typ) {

	case "d64":
		return NewD64(), nil

	case "prg":
		return NewPRG(), nil

	default:
		return nil, fmt.Errorf("unsupported image format: %s", typ)
	}
}

//
func getString(params map[string]interface{}, key, def string) string {
	if params != nil {
		if v, ok := params[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return def
}
