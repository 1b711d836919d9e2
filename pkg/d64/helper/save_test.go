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
	"bytes"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/xelalexv/d64kit/pkg/d64"
)

func encode(t *testing.T, name string, data []byte) *d64.Image {
	img, err := d64.NewAssembler().Encode(d64.File{Name: name, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestSaveAndLoad(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "demo.d64")
	img := encode(t, "DEMO", []byte{1, 8, 2, 3})

	if err := Save(file, img, nil, false); err != nil {
		t.Fatal(err)
	}

	stored, err := ioutil.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(stored, img.Bytes()) {
		t.Error("stored image differs")
	}

	loaded, err := Load(file, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(loaded.Bytes(), img.Bytes()) {
		t.Error("loaded image differs")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestSaveNoOverwrite(t *testing.T) {

	file := filepath.Join(t.TempDir(), "demo.d64")
	if err := ioutil.WriteFile(file, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}

	err := Save(file, encode(t, "A", nil), nil, false)
	if !errors.Is(err, ErrFileExists) {
		t.Fatalf("got %v, want ErrFileExists", err)
	}

	if data, _ := ioutil.ReadFile(file); string(data) != "keep" {
		t.Error("existing file modified")
	}

	if err := Save(file, encode(t, "A", nil), nil, true); err != nil {
		t.Fatal(err)
	}
	if data, _ := ioutil.ReadFile(file); len(data) != 174848 {
		t.Errorf("forced save wrote %d bytes", len(data))
	}
}

func TestSaveExtracted(t *testing.T) {

	file := filepath.Join(t.TempDir(), "out.prg")
	payload := []byte{1, 8, 0xa9, 0x01, 0x60}

	if err := Save(file, encode(t, "PROG", payload), nil, false); err != nil {
		t.Fatal(err)
	}
	data, err := ioutil.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, payload) {
		t.Errorf("got % x", data)
	}
}

func TestSaveUnknownFormat(t *testing.T) {

	dir := t.TempDir()
	file := filepath.Join(dir, "demo.tap")

	if err := Save(file, encode(t, "A", nil), nil, false); err == nil {
		t.Fatal("no error for unknown format")
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("files left behind: %d", len(entries))
	}
}

func TestExtension(t *testing.T) {
	var tests = []struct {
		file string
		want string
	}{
		{"a.d64", "d64"},
		{"/x/y/demo.prg", "prg"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := Extension(tt.file); got != tt.want {
			t.Errorf("%s: got '%s', want '%s'", tt.file, got, tt.want)
		}
	}
}
