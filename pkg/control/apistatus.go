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
	"net/http"

	"github.com/xelalexv/d64kit/pkg/d64/chain"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

//
func (a *api) status(w http.ResponseWriter, req *http.Request) {

	stat := &Status{
		Version:    a.version,
		Tracks:     geometry.TrackCount,
		Sectors:    geometry.TotalSectors(),
		ImageSize:  geometry.ImageSize(),
		MaxPayload: maxPayload(),
		Repository: a.repository != "",
	}

	if wantsJSON(req) {
		sendJSONReply(stat, http.StatusOK, w)
	} else {
		sendReply([]byte(stat.String()), http.StatusOK, w)
	}
}

//
func maxPayload() int {
	free := 0
	for t := 1; t <= geometry.TrackCount; t++ {
		if t != geometry.DirTrack {
			n, _ := geometry.SectorsInTrack(t)
			free += n
		}
	}
	return free * chain.DataLength
}
