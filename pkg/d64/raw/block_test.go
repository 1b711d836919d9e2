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

package raw

import (
	"bytes"
	"testing"
)

var testIndex = map[string][2]int{
	"flag": {0, 1},
	"size": {1, 2},
	"name": {3, 6},
}

func TestBlockSetters(t *testing.T) {

	data := make([]byte, 9)
	b := NewBlock(testIndex, data)

	if !b.SetByte("flag", 0x82) {
		t.Fatal("SetByte failed")
	}
	if !b.SetInt("size", 0x1234) {
		t.Fatal("SetInt failed")
	}
	if !b.SetSlice("name", []byte("DEMO"), PadByte) {
		t.Fatal("SetSlice failed")
	}

	want := []byte{0x82, 0x34, 0x12, 'D', 'E', 'M', 'O', PadByte, PadByte}
	if !bytes.Equal(data, want) {
		t.Errorf("got % x, want % x", data, want)
	}

	if got := b.GetInt("size"); got != 0x1234 {
		t.Errorf("GetInt: got %x", got)
	}
	if got := b.GetString("name"); got != "DEMO" {
		t.Errorf("GetString: got %q", got)
	}
	if got := b.GetByte("flag"); got != 0x82 {
		t.Errorf("GetByte: got %x", got)
	}
}

func TestBlockRejects(t *testing.T) {

	b := NewBlock(testIndex, make([]byte, 9))

	if b.SetSlice("name", []byte("TOOLONG"), PadByte) {
		t.Error("oversized value accepted")
	}
	if b.SetByte("size", 1) {
		t.Error("SetByte on two byte field accepted")
	}
	if b.SetInt("size", 0x10000) {
		t.Error("out of range int accepted")
	}
	if b.SetByte("nope", 1) {
		t.Error("unknown field accepted")
	}
	if got := b.GetInt("flag"); got != -1 {
		t.Errorf("GetInt on one byte field: got %d", got)
	}
}

func TestPETSCII(t *testing.T) {

	var tests = []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"demo", "DEMO", false},
		{"Hello World 1", "HELLO WORLD 1", false},
		{"A,B", "", true},
		{"Q\"", "", true},
		{"café", "", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ToPETSCII(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, want error %v", err, tt.wantErr)
			}
			if !tt.wantErr && string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	if got := FromPETSCII([]byte{'A', 0xc1, 'B', PadByte, 'C'}); got != "A?B" {
		t.Errorf("FromPETSCII: got %q", got)
	}
}
