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
	"bytes"
	"net/http"
	"strings"

	"github.com/xelalexv/d64kit/pkg/d64/format"
)

// extract replies with the payload of the file given by name, or of the
// first file, stored in the image in the body.
func (a *api) extract(w http.ResponseWriter, req *http.Request) {

	name, err := getArg(req, format.ParamName)
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	img := readImage(w, req)
	if img == nil {
		return
	}

	var out bytes.Buffer
	if err := format.NewPRG().Write(img, &out,
		map[string]interface{}{format.ParamName: name}); err != nil {
		handleError(err, statusFor(err), w)
		return
	}

	file := "file.prg"
	if name != "" {
		file = strings.ToLower(name) + ".prg"
	}
	sendBinaryReply(out.Bytes(), file, w)
}
