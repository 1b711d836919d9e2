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
	"fmt"
	"io"
	"net/http"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

//
func (a *api) list(w http.ResponseWriter, req *http.Request) {

	img := readImage(w, req)
	if img == nil {
		return
	}

	if wantsJSON(req) {
		l := &Listing{}
		if handleError(l.fill(img), http.StatusUnprocessableEntity, w) {
			return
		}
		sendJSONReply(l, http.StatusOK, w)
		return
	}

	read, write := io.Pipe()
	go func() {
		img.List(write)
		write.Close()
	}()

	sendStreamReply(read, http.StatusOK, w)
}

// dump replies with a hex dump of the image in the body, or of a single
// sector when track and sector are given.
func (a *api) dump(w http.ResponseWriter, req *http.Request) {

	var ts geometry.TS

	if t, _ := getArg(req, "track"); t != "" {
		track, err := getIntArg(req, "track")
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return
		}
		sector, err := getIntArg(req, "sector")
		if handleError(err, http.StatusUnprocessableEntity, w) {
			return
		}
		if ts, err = geometry.NewTS(track, sector); handleError(
			err, http.StatusUnprocessableEntity, w) {
			return
		}
	}

	img := readImage(w, req)
	if img == nil {
		return
	}

	read, write := io.Pipe()
	go func() {
		if ts.IsValid() {
			img.EmitSector(write, ts)
		} else {
			img.Emit(write)
		}
		fmt.Fprintln(write)
		write.Close()
	}()

	sendStreamReply(read, http.StatusOK, w)
}
