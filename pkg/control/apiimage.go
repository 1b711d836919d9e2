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
	"fmt"
	"io"
	"net/http"

	"github.com/xelalexv/d64kit/pkg/d64/format"
	"github.com/xelalexv/d64kit/pkg/repo"
)

// image encodes a payload, given either as request body or as repository
// reference, and replies with the D64 image.
func (a *api) image(w http.ResponseWriter, req *http.Request) {

	var in io.Reader

	ref, err := getArg(req, "ref")
	if handleError(err, http.StatusUnprocessableEntity, w) {
		return
	}

	if ref != "" {
		rc, err := repo.Resolve(ref, a.repository)
		if err != nil {
			handleError(err, http.StatusNotAcceptable, w)
			return
		}
		in = rc
		defer rc.Close()

	} else {
		in = io.LimitReader(req.Body, maxBodySize)
	}

	params := map[string]interface{}{}
	for _, p := range []string{
		format.ParamName, format.ParamDiskName, format.ParamDiskID} {
		arg, err := getArg(req, p)
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return
		}
		params[p] = arg
	}

	img, err := format.NewPRG().Read(in, params)
	if err != nil {
		handleError(fmt.Errorf("cannot create image: %w", err), statusFor(err), w)
		return
	}

	var out bytes.Buffer
	if _, err := img.WriteTo(&out); handleError(
		err, http.StatusInternalServerError, w) {
		return
	}

	sendBinaryReply(out.Bytes(), "image.d64", w)
}
