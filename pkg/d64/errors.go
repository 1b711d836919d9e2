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

package d64

import (
	"errors"

	"github.com/xelalexv/d64kit/pkg/d64/bam"
	"github.com/xelalexv/d64kit/pkg/d64/chain"
	"github.com/xelalexv/d64kit/pkg/d64/directory"
	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

// errors callers may want to tell apart; all returned errors wrap one of
// these, or one of the internal consistency errors of the sub-packages
var (
	ErrNameTooLong   = directory.ErrNameTooLong
	ErrInvalidName   = directory.ErrInvalidName
	ErrInvalidDiskID = directory.ErrInvalidDiskID
	ErrDirectoryFull = directory.ErrDirectoryFull
	ErrDiskFull      = chain.ErrDiskFull
	ErrBrokenChain   = chain.ErrBrokenChain
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidImage  = errors.New("invalid image")
)

// IsUserError tells whether err was caused by the input, i.e. names or
// payload sizes, rather than a defect.
func IsUserError(err error) bool {
	for _, e := range []error{ErrNameTooLong, ErrInvalidName, ErrInvalidDiskID,
		ErrDirectoryFull, ErrDiskFull} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsInternalError tells whether err indicates a logic error in the encoder.
func IsInternalError(err error) bool {
	for _, e := range []error{geometry.ErrInvalidTrack, geometry.ErrInvalidSector,
		bam.ErrDoubleAllocation, bam.ErrInconsistent, bam.ErrNoFreeSector} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
