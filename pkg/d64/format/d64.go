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
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// D64 is a reader/writer for complete 35 track D64 images, as they are
// written by the encoder. Images with error bytes appended are not supported.
type D64 struct{}

//
func NewD64() *D64 {
	return &D64{}
}

//
func (d *D64) Read(in io.Reader,
	params map[string]interface{}) (*d64.Image, error) {

	// one byte more than needed, so oversized input is detected
	data, err := ioutil.ReadAll(io.LimitReader(in, int64(geometry.ImageSize()+1)))
	if err != nil {
		return nil, err
	}

	img, err := d64.Open(data)
	if err != nil {
		return nil, err
	}

	log.Debugf("%d bytes loaded", len(data))
	return img, nil
}

//
func (d *D64) Write(img *d64.Image, out io.Writer,
	params map[string]interface{}) error {
	_, err := img.WriteTo(out)
	return err
}
