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
	"bytes"
	"errors"
	"testing"

	"github.com/xelalexv/d64kit/pkg/d64"
)

func TestNewFormat(t *testing.T) {

	var tests = []struct {
		typ   string
		valid bool
	}{
		{"d64", true},
		{"D64", true},
		{"prg", true},
		{"mdr", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			f, err := NewFormat(tt.typ)
			if tt.valid && (err != nil || f == nil) {
				t.Errorf("format not created: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("no error for unsupported format")
			}
		})
	}
}

func TestPRGRoundTrip(t *testing.T) {

	payload := bytes.Repeat([]byte{0x01, 0x08, 0xa9, 0x00}, 250)

	prg := NewPRG()
	img, err := prg.Read(bytes.NewReader(payload), map[string]interface{}{
		ParamName:     "demo",
		ParamDiskName: "test disk",
		ParamDiskID:   "42",
	})
	if err != nil {
		t.Fatal(err)
	}

	if h := img.Header(); h.Name != "TEST DISK" || h.ID != "42" {
		t.Errorf("header: %+v", h)
	}

	var image bytes.Buffer
	if err := NewD64().Write(img, &image, nil); err != nil {
		t.Fatal(err)
	}

	reread, err := NewD64().Read(&image, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, params := range []map[string]interface{}{
		nil, {ParamName: "DEMO"}} {
		var out bytes.Buffer
		if err := prg.Write(reread, &out, params); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(out.Bytes(), payload) {
			t.Errorf("payload differs, params %v", params)
		}
	}

	err = prg.Write(reread, &bytes.Buffer{},
		map[string]interface{}{ParamName: "OTHER"})
	if !errors.Is(err, d64.ErrFileNotFound) {
		t.Errorf("got %v, want ErrFileNotFound", err)
	}
}

func TestPRGDefaultName(t *testing.T) {

	img, err := NewPRG().Read(bytes.NewReader([]byte{1, 8}),
		map[string]interface{}{ParamDiskName: "GAMES"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := img.FindFile("GAMES"); err != nil {
		t.Error(err)
	}
}

func TestPRGTooLarge(t *testing.T) {

	img, err := NewPRG().Read(
		bytes.NewReader(make([]byte, MaxPayload+1000)), nil)
	if !errors.Is(err, d64.ErrDiskFull) {
		t.Errorf("got %v, want ErrDiskFull", err)
	}
	if img != nil {
		t.Error("image returned on failure")
	}
}

func TestD64ReadInvalid(t *testing.T) {

	for _, size := range []int{0, 1000, 174848 + 1} {
		_, err := NewD64().Read(bytes.NewReader(make([]byte, size)), nil)
		if !errors.Is(err, d64.ErrInvalidImage) {
			t.Errorf("size %d: got %v, want ErrInvalidImage", size, err)
		}
	}
}
