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

package bam

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"

	"github.com/xelalexv/d64kit/pkg/d64/geometry"
)

func TestInitializeAllFree(t *testing.T) {

	b := New()

	if got := b.FreeTotal(); got != 683 {
		t.Errorf("free total: got %d, want 683", got)
	}
	if got := b.FreeExcluding(geometry.DirTrack); got != 664 {
		t.Errorf("free excluding dir track: got %d, want 664", got)
	}

	r := b.Render()

	// 21 sectors: ff ff 1f, 19: ff ff 07, 18: ff ff 03, 17: ff ff 01
	var tests = []struct {
		track int
		want  []byte
	}{
		{1, []byte{21, 0xff, 0xff, 0x1f}},
		{18, []byte{19, 0xff, 0xff, 0x07}},
		{25, []byte{18, 0xff, 0xff, 0x03}},
		{35, []byte{17, 0xff, 0xff, 0x01}},
	}

	for _, tt := range tests {
		off := (tt.track - 1) * RecordLength
		if got := r[off : off+RecordLength]; !bytes.Equal(got, tt.want) {
			t.Errorf("track %d: got % x, want % x", tt.track, got, tt.want)
		}
	}
}

func TestReservedTrack(t *testing.T) {

	b := New()
	if err := b.MarkReservedTrackUsed(0, 1); err != nil {
		t.Fatal(err)
	}

	r := b.Render()
	off := (geometry.DirTrack - 1) * RecordLength
	want := []byte{17, 0xfc, 0xff, 0x07}
	if got := r[off : off+RecordLength]; !bytes.Equal(got, want) {
		t.Errorf("got % x, want % x", got, want)
	}

	if err := b.MarkReservedTrackUsed(19); !errors.Is(err, geometry.ErrInvalidSector) {
		t.Errorf("got %v, want ErrInvalidSector", err)
	}
}

func TestDoubleAllocation(t *testing.T) {

	b := New()
	ts := geometry.MustTS(5, 3)

	if err := b.MarkUsed(ts); err != nil {
		t.Fatal(err)
	}
	if err := b.MarkUsed(ts); !errors.Is(err, ErrDoubleAllocation) {
		t.Errorf("got %v, want ErrDoubleAllocation", err)
	}
	if n, _ := b.FreeInTrack(5); n != 20 {
		t.Errorf("free count after failed allocation: got %d, want 20", n)
	}
}

func TestInvariantUnderRandomAllocation(t *testing.T) {

	b := New()
	rnd := rand.New(rand.NewSource(64))

	var all []geometry.TS
	for ts := geometry.First(); ts.IsValid(); ts = ts.Next() {
		all = append(all, ts)
	}
	rnd.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })

	for ix, ts := range all {
		if err := b.MarkUsed(ts); err != nil {
			t.Fatalf("allocation %d of %s: %v", ix, ts, err)
		}
		if err := b.Verify(); err != nil {
			t.Fatalf("after allocating %s: %v", ts, err)
		}
		if got := b.FreeTotal(); got != len(all)-ix-1 {
			t.Fatalf("free total: got %d, want %d", got, len(all)-ix-1)
		}
	}

	if _, err := b.NextFree(geometry.First(), 0); !errors.Is(err, ErrNoFreeSector) {
		t.Errorf("got %v, want ErrNoFreeSector", err)
	}
}

func TestNextFreeSkipsTrack(t *testing.T) {

	b := New()
	from := geometry.MustTS(17, 20)

	if err := b.MarkUsed(from); err != nil {
		t.Fatal(err)
	}

	next, err := b.NextFree(from, geometry.DirTrack)
	if err != nil {
		t.Fatal(err)
	}
	if next.Track() != 19 || next.Sector() != 0 {
		t.Errorf("got %s, want 19/00", next)
	}
}

func TestParse(t *testing.T) {

	b := New()
	for _, ts := range []geometry.TS{
		geometry.MustTS(1, 0), geometry.MustTS(1, 20), geometry.MustTS(35, 16)} {
		if err := b.MarkUsed(ts); err != nil {
			t.Fatal(err)
		}
	}

	parsed, err := Parse(b.Render())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(parsed.Render(), b.Render()) {
		t.Error("parsed BAM differs")
	}

	broken := b.Render()
	broken[0]++
	if _, err := Parse(broken); !errors.Is(err, ErrInconsistent) {
		t.Errorf("wrong free count: got %v, want ErrInconsistent", err)
	}

	broken = b.Render()
	off := 34 * RecordLength
	broken[off+3] |= 0x02 // sector 17 on a 17 sector track
	broken[off]++
	if _, err := Parse(broken); !errors.Is(err, ErrInconsistent) {
		t.Errorf("sector beyond track: got %v, want ErrInconsistent", err)
	}

	if _, err := Parse(make([]byte, 10)); err == nil {
		t.Error("short BAM accepted")
	}
}
